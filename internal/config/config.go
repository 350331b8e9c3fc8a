// Package config provides configuration structures and validation for the application.
// It handles environment-based configuration for the screening workflow, its storage
// backends, the classifier, notification transport and the notification worker.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Storage and adapter backends selectable at startup
const (
	BackendFile     = "file"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendRules    = "rules"
	BackendHTTP     = "http"
	BackendKafka    = "kafka"
	BackendLog      = "log"
)

// Config holds the complete application configuration with settings for all components.
// It is loaded once at startup and treated as read-only afterwards.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Auth        AuthConfig
	Ledger      LedgerConfig
	Suspension  SuspensionConfig
	Classifier  ClassifierConfig
	Notifier    NotifierConfig
	Workflow    WorkflowConfig
	Kafka       KafkaConfig
	Postgres    PostgresConfig
	MongoDB     MongoDBConfig
	Redis       RedisConfig
	WorkerPool  WorkerPoolConfig
	Mail        MailConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or text
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	WriteTimeout    time.Duration // Maximum duration for writing response
	IdleTimeout     time.Duration // Maximum duration to wait for next request
}

// AuthConfig guards the machine-facing predict endpoint
type AuthConfig struct {
	APIKey string
}

// LedgerConfig selects where transaction records are appended
type LedgerConfig struct {
	Backend  string // file or mongo
	FilePath string
}

// SuspensionConfig selects where suspensions are appended
type SuspensionConfig struct {
	Backend      string // file or postgres
	FilePath     string
	CacheEnabled bool // front the registry with Redis
}

// ClassifierConfig selects the fraud classifier
type ClassifierConfig struct {
	Backend             string // rules or http
	URL                 string
	Timeout             time.Duration
	AmountThreshold     decimal.Decimal
	SuspiciousLocations []string
}

// NotifierConfig selects how notifications leave the workflow
type NotifierConfig struct {
	Backend         string // kafka or log
	DispatchTimeout time.Duration
}

// WorkflowConfig contains workflow policy switches
type WorkflowConfig struct {
	EnforceSuspension bool // reject approvals for suspended users
}

// KafkaConfig contains Kafka configuration
type KafkaConfig struct {
	Brokers           string
	NotificationTopic string
	NumPartitions     int // Number of partitions for topics
	ReplicationFactor int // Replication factor for topics
	ConsumerGroup     string
	MinBytes          int
	MaxBytes          int
	MaxWait           time.Duration
	StartOffset       int64
	DLQTopic          string // Topic for Dead Letter Queue
}

// PostgresConfig contains PostgreSQL configuration
type PostgresConfig struct {
	URL             string        // Database connection string
	MaxConns        int32         // Maximum number of open connections
	MinConns        int32         // Maximum number of idle connections
	ConnMaxLifetime time.Duration // Maximum lifetime of a connection
	ConnMaxIdleTime time.Duration // Maximum idle time of a connection
	MigrationsPath  string        // Path to migration files
}

// MongoDBConfig contains MongoDB configuration
type MongoDBConfig struct {
	URI             string
	Database        string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration // zero keeps cached suspensions forever
}

// WorkerPoolConfig contains worker pool configuration
type WorkerPoolConfig struct {
	Size int // Maximum number of workers in the pool
}

// MailConfig contains SMTP settings for the notification worker
type MailConfig struct {
	SMTPHost      string
	SMTPPort      int
	Username      string
	Password      string
	From          string
	To            string // recipient of verification requests
	AlertTo       string // recipient of fraud alerts
	VerifyBaseURL string // absolute URL of the verify endpoint
}

// validate performs comprehensive validation of all configuration values,
// ensuring they meet minimum requirements and logical constraints.
// Settings for backends that are not selected are not checked.
func (c *Config) validate() error {
	var validationErrors []string

	// Validate Server config
	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	// Validate Ledger config
	switch c.Ledger.Backend {
	case BackendFile:
		if c.Ledger.FilePath == "" {
			validationErrors = append(validationErrors, "LEDGER_FILE_PATH is required")
		}
	case BackendMongo:
		validationErrors = append(validationErrors, c.MongoDB.validate()...)
	default:
		validationErrors = append(validationErrors, "LEDGER_BACKEND must be one of: file, mongo")
	}

	// Validate Suspension config
	switch c.Suspension.Backend {
	case BackendFile:
		if c.Suspension.FilePath == "" {
			validationErrors = append(validationErrors, "SUSPENSION_FILE_PATH is required")
		}
	case BackendPostgres:
		validationErrors = append(validationErrors, c.Postgres.validate()...)
	default:
		validationErrors = append(validationErrors, "SUSPENSION_BACKEND must be one of: file, postgres")
	}
	if c.Suspension.CacheEnabled && c.Redis.Addr == "" {
		validationErrors = append(validationErrors, "REDIS_ADDR is required when SUSPENSION_CACHE_ENABLED is set")
	}

	// Validate Classifier config
	switch c.Classifier.Backend {
	case BackendRules:
		if c.Classifier.AmountThreshold.IsNegative() {
			validationErrors = append(validationErrors, "CLASSIFIER_AMOUNT_THRESHOLD must not be negative")
		}
	case BackendHTTP:
		if c.Classifier.URL == "" {
			validationErrors = append(validationErrors, "CLASSIFIER_URL is required for the http classifier")
		}
	default:
		validationErrors = append(validationErrors, "CLASSIFIER_BACKEND must be one of: rules, http")
	}
	if c.Classifier.Timeout <= 0 {
		validationErrors = append(validationErrors, "CLASSIFIER_TIMEOUT must be greater than 0")
	}

	// Validate Notifier config
	switch c.Notifier.Backend {
	case BackendKafka:
		validationErrors = append(validationErrors, c.Kafka.validate()...)
	case BackendLog:
	default:
		validationErrors = append(validationErrors, "NOTIFIER_BACKEND must be one of: kafka, log")
	}
	if c.Notifier.DispatchTimeout <= 0 {
		validationErrors = append(validationErrors, "NOTIFIER_DISPATCH_TIMEOUT must be greater than 0")
	}

	// Validate WorkerPool config
	if c.WorkerPool.Size <= 0 {
		validationErrors = append(validationErrors, "WORKER_POOL_SIZE must be greater than 0")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}

// ValidateWorker checks the settings only the notification worker needs
func (c *Config) ValidateWorker() error {
	validationErrors := c.Kafka.validate()

	if c.Mail.SMTPHost == "" {
		validationErrors = append(validationErrors, "MAIL_SMTP_HOST is required")
	}
	if c.Mail.SMTPPort <= 0 {
		validationErrors = append(validationErrors, "MAIL_SMTP_PORT must be greater than 0")
	}
	if c.Mail.From == "" {
		validationErrors = append(validationErrors, "MAIL_FROM is required")
	}
	if c.Mail.To == "" {
		validationErrors = append(validationErrors, "MAIL_TO is required")
	}
	if c.Mail.VerifyBaseURL == "" {
		validationErrors = append(validationErrors, "VERIFY_BASE_URL is required")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}
	return nil
}

func (k KafkaConfig) validate() []string {
	var validationErrors []string
	if len(k.Brokers) == 0 {
		validationErrors = append(validationErrors, "KAFKA_BROKERS is required")
	}
	if k.NotificationTopic == "" {
		validationErrors = append(validationErrors, "KAFKA_NOTIFICATION_TOPIC is required")
	}
	if k.ConsumerGroup == "" {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_GROUP is required")
	}
	if k.MinBytes <= 0 {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_MIN_BYTES must be greater than 0")
	}
	if k.MaxBytes <= 0 {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_MAX_BYTES must be greater than 0")
	}
	if k.MaxWait <= 0 {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_MAX_WAIT must be greater than 0")
	}
	if k.DLQTopic == "" {
		validationErrors = append(validationErrors, "KAFKA_DLQ_TOPIC is required")
	}
	return validationErrors
}

func (p PostgresConfig) validate() []string {
	var validationErrors []string
	if p.URL == "" {
		validationErrors = append(validationErrors, "POSTGRES_URL is required")
	}
	if p.MaxConns <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONNS must be greater than 0")
	}
	if p.MinConns <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MIN_CONNS must be greater than 0")
	}
	if p.ConnMaxLifetime <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_LIFETIME must be greater than 0")
	}
	if p.ConnMaxIdleTime <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_IDLE_TIME must be greater than 0")
	}
	return validationErrors
}

func (m MongoDBConfig) validate() []string {
	var validationErrors []string
	if m.URI == "" {
		validationErrors = append(validationErrors, "MONGO_URI is required")
	}
	if m.Database == "" {
		validationErrors = append(validationErrors, "MONGO_DATABASE is required")
	}
	if m.Timeout <= 0 {
		validationErrors = append(validationErrors, "MONGO_TIMEOUT must be greater than 0")
	}
	if m.MaxPoolSize <= 0 {
		validationErrors = append(validationErrors, "MONGO_MAX_POOL_SIZE must be greater than 0")
	}
	if m.MinPoolSize <= 0 {
		validationErrors = append(validationErrors, "MONGO_MIN_POOL_SIZE must be greater than 0")
	}
	if m.MaxConnIdleTime <= 0 {
		validationErrors = append(validationErrors, "MONGO_MAX_CONN_IDLE_TIME must be greater than 0")
	}
	return validationErrors
}
