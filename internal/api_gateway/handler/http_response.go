package handler

import (
	"net/http"

	"github.com/fraud-screening-ledger/internal/api_gateway/middleware"
	"github.com/gin-gonic/gin"
)

// Error codes carried in ErrorInfo.Code
const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeValidation      = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeBadGateway      = "BAD_GATEWAY"
	CodeInternalError   = "INTERNAL_SERVER_ERROR"
	internalErrorDetail = "An internal server error occurred"
)

// Response is the envelope of every API response. Exactly one of Data and
// Error is set.
type Response struct {
	Data          interface{} `json:"data,omitempty"`
	Error         *ErrorInfo  `json:"error,omitempty"`
	CorrelationID string      `json:"correlation_id,omitempty"`
}

// ErrorInfo describes a failed request
type ErrorInfo struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"` // offending input fields of a validation error
}

func write(c *gin.Context, statusCode int, response Response) {
	response.CorrelationID = middleware.GetCorrelationID(c)
	c.JSON(statusCode, response)
}

func writeError(c *gin.Context, statusCode int, info ErrorInfo) {
	write(c, statusCode, Response{Error: &info})
}

func RespondOK(c *gin.Context, data interface{}) {
	write(c, http.StatusOK, Response{Data: data})
}

// RespondCreated is used when a NORMAL record was appended
func RespondCreated(c *gin.Context, data interface{}) {
	write(c, http.StatusCreated, Response{Data: data})
}

// RespondAccepted is used when a FRAUD record awaits verification
func RespondAccepted(c *gin.Context, data interface{}) {
	write(c, http.StatusAccepted, Response{Data: data})
}

func RespondBadRequest(c *gin.Context, message string) {
	writeError(c, http.StatusBadRequest, ErrorInfo{Code: CodeBadRequest, Message: message})
}

// RespondValidationError names the offending fields alongside the message
func RespondValidationError(c *gin.Context, message string, fields []string) {
	writeError(c, http.StatusBadRequest, ErrorInfo{Code: CodeValidation, Message: message, Fields: fields})
}

func RespondNotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	writeError(c, http.StatusNotFound, ErrorInfo{Code: CodeNotFound, Message: message})
}

func RespondConflict(c *gin.Context, message string) {
	writeError(c, http.StatusConflict, ErrorInfo{Code: CodeConflict, Message: message})
}

// RespondInternalError never leaks the underlying error
func RespondInternalError(c *gin.Context) {
	writeError(c, http.StatusInternalServerError, ErrorInfo{Code: CodeInternalError, Message: internalErrorDetail})
}

// RespondBadGateway reports a failed upstream dependency such as the classifier
func RespondBadGateway(c *gin.Context, message string) {
	writeError(c, http.StatusBadGateway, ErrorInfo{Code: CodeBadGateway, Message: message})
}
