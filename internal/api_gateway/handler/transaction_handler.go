package handler

import (
	"log/slog"
	"strings"

	"github.com/fraud-screening-ledger/internal/api_gateway/middleware"
	"github.com/fraud-screening-ledger/internal/domain/shared"
	"github.com/fraud-screening-ledger/internal/screening/service"
	"github.com/gin-gonic/gin"
)

const (
	messagePending   = "Transaction pending for approval. A verification request has been sent."
	messageCompleted = "Transaction successful."
	messageApproved  = "Transaction approved."
	messageDenied    = "Transaction denied. The user has been suspended."
	messageRecorded  = "Decision recorded."

	anonymousUserID = "anonymous"
)

// TransactionHandler handles HTTP requests for the screening workflow
type TransactionHandler struct {
	workflowService service.WorkflowService
	logger          *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, workflowService service.WorkflowService) *TransactionHandler {
	return &TransactionHandler{
		workflowService: workflowService,
		logger:          logger,
	}
}

// Submit screens a new transaction. FRAUD answers 202 because the transaction
// is pending verification; NORMAL answers 201.
func (h *TransactionHandler) Submit(c *gin.Context) {
	var req SubmitTransactionRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	outcome, err := h.workflowService.Submit(c.Request.Context(), req.intake(middleware.GetCorrelationID(c)))
	if err != nil {
		respondWithServiceError(c, h.logger, "submit", err)
		return
	}

	response := OutcomeResponse{
		Status:      string(outcome.Status),
		Transaction: mapRecordToResponse(outcome.Record),
	}
	if outcome.Status == shared.StatusFraud {
		response.Message = messagePending
		RespondAccepted(c, response)
		return
	}
	response.Message = messageCompleted
	RespondCreated(c, response)
}

// Scan applies an operator decision: scan, approve or deny
func (h *TransactionHandler) Scan(c *gin.Context) {
	var req ScanTransactionRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	decision := shared.Decision(req.Decision)
	if strings.TrimSpace(req.Decision) == "" {
		decision = shared.DecisionScan
	}

	outcome, err := h.workflowService.Decide(c.Request.Context(), req.intake(middleware.GetCorrelationID(c)), decision)
	if err != nil {
		respondWithServiceError(c, h.logger, "decide", err)
		return
	}

	message := messageRecorded
	if outcome.Status == shared.StatusFraud {
		message = messagePending
	}
	RespondOK(c, OutcomeResponse{
		Status:      string(outcome.Status),
		Message:     message,
		Transaction: mapRecordToResponse(outcome.Record),
	})
}

// Verify handles the confirm=yes|no link sent with a verification request
func (h *TransactionHandler) Verify(c *gin.Context) {
	var query VerifyTransactionQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondBadRequest(c, "Invalid query: "+err.Error())
		return
	}

	var confirmed bool
	switch strings.ToLower(strings.TrimSpace(query.Confirm)) {
	case "yes", "true":
		confirmed = true
	case "no", "false":
		confirmed = false
	default:
		respondWithServiceError(c, h.logger, "confirm", shared.ValidationError{Fields: []string{"confirm"}})
		return
	}

	key := TransactionKeyQuery{
		UserID:    query.UserID,
		Amount:    query.Amount,
		Location:  query.Location,
		Timestamp: query.Timestamp,
	}
	outcome, err := h.workflowService.Confirm(c.Request.Context(), key.intake(middleware.GetCorrelationID(c)), confirmed)
	if err != nil {
		respondWithServiceError(c, h.logger, "confirm", err)
		return
	}

	message := messageApproved
	if !confirmed {
		message = messageDenied
	}
	RespondOK(c, OutcomeResponse{
		Status:      string(outcome.Status),
		Message:     message,
		Transaction: mapRecordToResponse(outcome.Record),
	})
}

// Status returns the current status of a transaction and its history
func (h *TransactionHandler) Status(c *gin.Context) {
	var query TransactionKeyQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondBadRequest(c, "Invalid query: "+err.Error())
		return
	}

	view, err := h.workflowService.CurrentStatus(c.Request.Context(), query.intake(middleware.GetCorrelationID(c)))
	if err != nil {
		respondWithServiceError(c, h.logger, "status", err)
		return
	}

	RespondOK(c, StatusResponse{
		Status:  string(view.Status),
		History: mapRecordsToResponse(view.History),
	})
}

// Predict runs the submit workflow for machine clients. A missing user_id
// is recorded as "anonymous".
func (h *TransactionHandler) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid predict request", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		req.UserID = anonymousUserID
	}

	intake := SubmitTransactionRequest(req).intake(middleware.GetCorrelationID(c))
	outcome, err := h.workflowService.Submit(c.Request.Context(), intake)
	if err != nil {
		respondWithServiceError(c, h.logger, "predict", err)
		return
	}

	isFraud := outcome.Status == shared.StatusFraud
	message := messageCompleted
	if isFraud {
		message = messagePending
	}
	RespondOK(c, PredictResponse{
		IsFraud:     isFraud,
		Message:     message,
		Transaction: mapRecordToResponse(outcome.Record),
	})
}
