package handler

import (
	"log/slog"

	"github.com/fraud-screening-ledger/internal/api_gateway/service"
	"github.com/gin-gonic/gin"
)

// SuspensionHandler handles HTTP requests for suspension lookups
type SuspensionHandler struct {
	suspensionService service.SuspensionService
	logger            *slog.Logger
}

// NewSuspensionHandler creates a new suspension handler
func NewSuspensionHandler(logger *slog.Logger, suspensionService service.SuspensionService) *SuspensionHandler {
	return &SuspensionHandler{
		suspensionService: suspensionService,
		logger:            logger,
	}
}

// GetByUserID reports whether the user is suspended. Unknown users are not suspended.
func (h *SuspensionHandler) GetByUserID(c *gin.Context) {
	userID := c.Param("user_id")

	status, err := h.suspensionService.GetSuspension(c.Request.Context(), userID)
	if err != nil {
		respondWithServiceError(c, h.logger, "suspension lookup", err)
		return
	}

	RespondOK(c, SuspensionResponse{
		UserID:    status.UserID,
		Suspended: status.Suspended,
		Entries:   mapEntriesToResponse(status.Entries),
	})
}
