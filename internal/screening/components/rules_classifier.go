package components

import (
	"context"
	"log/slog"
	"strings"

	"github.com/fraud-screening-ledger/internal/domain/shared"
	"github.com/fraud-screening-ledger/internal/screening/service"
	"github.com/shopspring/decimal"
)

// RulesClassifier flags amounts above a threshold and transactions from
// suspicious locations. Any other location, including unrecognized ones, is NORMAL.
type RulesClassifier struct {
	threshold decimal.Decimal
	locations map[string]struct{}
	logger    *slog.Logger
}

func NewRulesClassifier(threshold decimal.Decimal, suspiciousLocations []string, logger *slog.Logger) service.Classifier {
	locations := make(map[string]struct{}, len(suspiciousLocations))
	for _, l := range suspiciousLocations {
		if l = normalizeLocation(l); l != "" {
			locations[l] = struct{}{}
		}
	}
	return &RulesClassifier{
		threshold: threshold,
		locations: locations,
		logger:    logger,
	}
}

func (c *RulesClassifier) Classify(_ context.Context, amount decimal.Decimal, location string) (shared.Verdict, error) {
	if amount.GreaterThan(c.threshold) {
		c.logger.Debug("High-value transaction flagged", "amount", amount.String(), "threshold", c.threshold.String())
		return shared.VerdictFraud, nil
	}
	if _, ok := c.locations[normalizeLocation(location)]; ok {
		c.logger.Debug("Suspicious location detected", "location", location)
		return shared.VerdictFraud, nil
	}
	return shared.VerdictNormal, nil
}

func normalizeLocation(location string) string {
	return strings.ToLower(strings.TrimSpace(location))
}
