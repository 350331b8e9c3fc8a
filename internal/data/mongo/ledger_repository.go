package mongo

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fraud-screening-ledger/internal/domain/ledger"
	"github.com/fraud-screening-ledger/internal/domain/shared"
)

const (
	// LedgerCollectionName is the name of the ledger collection in MongoDB
	LedgerCollectionName = "transaction_records"
)

// recordDocument is the stored shape of a ledger record. The timestamp is kept
// in its formatted layout so date-prefix filters can be pushed down as regexes.
type recordDocument struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty"`
	Timestamp  string               `bson:"timestamp"`
	UserID     string               `bson:"user_id"`
	Amount     primitive.Decimal128 `bson:"amount"`
	Location   string               `bson:"location"`
	Status     string               `bson:"status"`
	RecordedAt time.Time            `bson:"recorded_at"`
}

func newRecordDocument(record *ledger.Record) (*recordDocument, error) {
	amount, err := primitive.ParseDecimal128(record.Amount.String())
	if err != nil {
		return nil, fmt.Errorf("failed to convert amount %s: %w", record.Amount, err)
	}
	return &recordDocument{
		Timestamp:  record.FormattedTimestamp(),
		UserID:     record.UserID,
		Amount:     amount,
		Location:   record.Location,
		Status:     string(shared.ParseStatus(string(record.Status))),
		RecordedAt: time.Now().UTC(),
	}, nil
}

func (d *recordDocument) toRecord() (*ledger.Record, error) {
	ts, err := ledger.ParseTimestamp(d.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ledger.ErrMalformedRow, err)
	}
	amount, err := decimal.NewFromString(d.Amount.String())
	if err != nil {
		return nil, fmt.Errorf("%w: invalid amount %s", ledger.ErrMalformedRow, d.Amount.String())
	}
	return &ledger.Record{
		Timestamp: ts,
		UserID:    d.UserID,
		Amount:    amount,
		Location:  d.Location,
		Status:    shared.ParseStatus(d.Status),
	}, nil
}

// LedgerRepository implements the ledger.Repository interface for MongoDB
type LedgerRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewLedgerRepository creates a new MongoDB ledger repository
func NewLedgerRepository(logger *slog.Logger, db *mongo.Database) ledger.Repository {
	return &LedgerRepository{
		db:     db,
		logger: logger,
	}
}

// Append inserts one document per record. Records are never updated.
func (r *LedgerRepository) Append(ctx context.Context, record *ledger.Record) error {
	collection := r.db.Collection(LedgerCollectionName)

	doc, err := newRecordDocument(record)
	if err != nil {
		return err
	}

	if _, err := collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("Failed to append ledger record",
			"user_id", record.UserID,
			"status", string(record.Status),
			"error", err)
		return fmt.Errorf("failed to append ledger record: %w", err)
	}

	return nil
}

// Scan streams matching records sorted by insertion time
func (r *LedgerRepository) Scan(ctx context.Context, filter ledger.Filter) iter.Seq2[*ledger.Record, error] {
	return func(yield func(*ledger.Record, error) bool) {
		collection := r.db.Collection(LedgerCollectionName)

		opts := options.Find().SetSort(bson.D{{Key: "recorded_at", Value: 1}, {Key: "_id", Value: 1}})
		cursor, err := collection.Find(ctx, scanQuery(filter), opts)
		if err != nil {
			r.logger.Error("Failed to scan ledger records", "error", err)
			yield(nil, fmt.Errorf("failed to scan ledger records: %w", err))
			return
		}
		defer cursor.Close(ctx)

		for cursor.Next(ctx) {
			var doc recordDocument
			if err := cursor.Decode(&doc); err != nil {
				if !yield(nil, fmt.Errorf("%w: %v", ledger.ErrMalformedRow, err)) {
					return
				}
				continue
			}
			record, err := doc.toRecord()
			if err != nil {
				if !yield(nil, err) {
					return
				}
				continue
			}
			if !yield(record, nil) {
				return
			}
		}
		if err := cursor.Err(); err != nil {
			r.logger.Error("Failed to iterate ledger records", "error", err)
			yield(nil, fmt.Errorf("failed to iterate ledger records: %w", err))
		}
	}
}

// scanQuery translates a ledger filter into a MongoDB query document.
// Status is stored upper-cased so equality is case-insensitive.
func scanQuery(filter ledger.Filter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = string(shared.ParseStatus(string(filter.Status)))
	}
	if filter.DatePrefix != "" {
		query["timestamp"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(filter.DatePrefix)}
	}
	return query
}
