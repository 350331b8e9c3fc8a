package handler

import (
	"log/slog"

	"github.com/fraud-screening-ledger/internal/domain/ledger"
	"github.com/fraud-screening-ledger/internal/screening/service"
	"github.com/gin-gonic/gin"
)

// ReportHandler serves ledger summaries
type ReportHandler struct {
	reportService service.ReportService
	logger        *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(logger *slog.Logger, reportService service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// Get summarizes the ledger, optionally filtered by status and date prefix
func (h *ReportHandler) Get(c *gin.Context) {
	var query ReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondBadRequest(c, "Invalid query: "+err.Error())
		return
	}

	summary, err := h.reportService.Summarize(c.Request.Context(), ledger.NewFilter(query.Status, query.Date))
	if err != nil {
		respondWithServiceError(c, h.logger, "report", err)
		return
	}

	RespondOK(c, mapSummaryToResponse(summary))
}
