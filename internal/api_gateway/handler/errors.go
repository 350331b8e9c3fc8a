package handler

import (
	"errors"
	"log/slog"

	"github.com/fraud-screening-ledger/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// respondWithServiceError maps the screening error taxonomy onto HTTP statuses
func respondWithServiceError(c *gin.Context, logger *slog.Logger, operation string, err error) {
	var (
		validationErr     shared.ValidationError
		suspendedErr      shared.ErrUserSuspended
		classificationErr shared.ClassificationError
		persistenceErr    shared.PersistenceError
	)

	switch {
	case errors.As(err, &validationErr):
		logger.Warn("Invalid request", "operation", operation, "fields", validationErr.Fields)
		RespondValidationError(c, validationErr.Error(), validationErr.Fields)
	case errors.As(err, &suspendedErr):
		logger.Warn("Request rejected for suspended user", "operation", operation, "user_id", suspendedErr.UserID)
		RespondConflict(c, "User is suspended")
	case errors.As(err, &classificationErr):
		logger.Error("Classifier unavailable", "operation", operation, "error", err)
		RespondBadGateway(c, "Fraud classifier is unavailable")
	case errors.Is(err, shared.ErrNotFound):
		RespondNotFound(c, "Transaction not found")
	case errors.As(err, &persistenceErr):
		logger.Error("Persistence failure", "operation", operation, "persistence_op", persistenceErr.Op, "error", err)
		RespondInternalError(c)
	default:
		logger.Error("Request failed", "operation", operation, "error", err)
		RespondInternalError(c)
	}
}
