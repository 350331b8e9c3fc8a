package components

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/fraud-screening-ledger/internal/domain/shared"
	"github.com/fraud-screening-ledger/internal/screening/service"
	"github.com/shopspring/decimal"
)

// HTTPClassifier asks an external model server for a verdict
type HTTPClassifier struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

type classifyRequest struct {
	Amount   json.Number `json:"amount"`
	Location string      `json:"location"`
}

type classifyResponse struct {
	IsFraud *bool `json:"is_fraud"`
}

func NewHTTPClassifier(url string, timeout time.Duration, logger *slog.Logger) service.Classifier {
	return NewHTTPClassifierWithClient(url, &http.Client{Timeout: timeout}, logger)
}

// NewHTTPClassifierWithClient uses the given client, e.g. one pointed at a test server
func NewHTTPClassifierWithClient(url string, client *http.Client, logger *slog.Logger) service.Classifier {
	return &HTTPClassifier{
		url:    url,
		client: client,
		logger: logger,
	}
}

// Classify fails with a ClassificationError on any transport, status or decoding problem
func (c *HTTPClassifier) Classify(ctx context.Context, amount decimal.Decimal, location string) (shared.Verdict, error) {
	body, err := json.Marshal(classifyRequest{Amount: json.Number(amount.String()), Location: location})
	if err != nil {
		return "", shared.ClassificationError{Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", shared.ClassificationError{Err: fmt.Errorf("failed to build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("Classifier request failed", "url", c.url, "error", err)
		return "", shared.ClassificationError{Err: fmt.Errorf("failed to call classifier: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("Classifier returned an error status", "url", c.url, "status", resp.StatusCode, "body", string(snippet))
		return "", shared.ClassificationError{Err: fmt.Errorf("classifier returned status %d", resp.StatusCode)}
	}

	var out classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", shared.ClassificationError{Err: fmt.Errorf("failed to decode classifier response: %w", err)}
	}
	if out.IsFraud == nil {
		return "", shared.ClassificationError{Err: fmt.Errorf("classifier response has no is_fraud field")}
	}

	if *out.IsFraud {
		return shared.VerdictFraud, nil
	}
	return shared.VerdictNormal, nil
}
