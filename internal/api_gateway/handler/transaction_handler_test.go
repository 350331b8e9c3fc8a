package handler

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/fraud-screening-ledger/internal/domain/ledger"
	"github.com/fraud-screening-ledger/internal/domain/shared"
	"github.com/fraud-screening-ledger/internal/screening/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTransactionRouter(mockService *MockWorkflowService) *gin.Engine {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	handler := NewTransactionHandler(logger, mockService)

	router := gin.New()
	router.POST("/transactions", handler.Submit)
	router.POST("/transactions/scan", handler.Scan)
	router.GET("/transactions/verify", handler.Verify)
	router.GET("/transactions/status", handler.Status)
	router.POST("/predict", handler.Predict)
	return router
}

func intakeMatches(userID, amount, location string) interface{} {
	return mock.MatchedBy(func(r *service.IntakeRequest) bool {
		return r.UserID == userID && r.Amount == amount && r.Location == location
	})
}

func TestTransactionHandler_Submit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name            string
		contentType     string
		body            string
		setupMocks      func(m *MockWorkflowService)
		expectedStatus  int
		expectedCode    string
		expectedFields  []string
		expectedOutcome string
	}{
		{
			name:        "NormalJSON",
			contentType: "application/json",
			body:        `{"user_id":"u1","amount":50,"location":"Harare"}`,
			setupMocks: func(m *MockWorkflowService) {
				m.On("Submit", mock.Anything, intakeMatches("u1", "50", "Harare")).
					Return(testOutcome("u1", "50", "Harare", shared.StatusNormal), nil).Once()
			},
			expectedStatus:  http.StatusCreated,
			expectedOutcome: "NORMAL",
		},
		{
			name:        "FraudForm",
			contentType: "application/x-www-form-urlencoded",
			body:        url.Values{"user_id": {"u2"}, "amount": {"5000"}, "location": {"Unknown"}}.Encode(),
			setupMocks: func(m *MockWorkflowService) {
				m.On("Submit", mock.Anything, intakeMatches("u2", "5000", "Unknown")).
					Return(testOutcome("u2", "5000", "Unknown", shared.StatusFraud), nil).Once()
			},
			expectedStatus:  http.StatusAccepted,
			expectedOutcome: "FRAUD",
		},
		{
			name:        "ValidationError",
			contentType: "application/json",
			body:        `{"user_id":"","location":"Harare"}`,
			setupMocks: func(m *MockWorkflowService) {
				m.On("Submit", mock.Anything, mock.Anything).
					Return(nil, shared.ValidationError{Fields: []string{"user_id", "amount"}}).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
			expectedFields: []string{"user_id", "amount"},
		},
		{
			name:        "NonNumericAmountJSON",
			contentType: "application/json",
			body:        `{"user_id":"u1","amount":"abc","location":"Harare"}`,
			setupMocks: func(m *MockWorkflowService) {
				m.On("Submit", mock.Anything, intakeMatches("u1", "abc", "Harare")).
					Return(nil, shared.ValidationError{Fields: []string{"amount"}}).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
			expectedFields: []string{"amount"},
		},
		{
			name:           "MalformedJSON",
			contentType:    "application/json",
			body:           `{"user_id":`,
			setupMocks:     func(m *MockWorkflowService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "BAD_REQUEST",
		},
		{
			name:        "ClassifierUnavailable",
			contentType: "application/json",
			body:        `{"user_id":"u1","amount":"50","location":"Harare"}`,
			setupMocks: func(m *MockWorkflowService) {
				m.On("Submit", mock.Anything, mock.Anything).
					Return(nil, shared.ClassificationError{Err: errors.New("timeout")}).Once()
			},
			expectedStatus: http.StatusBadGateway,
			expectedCode:   "BAD_GATEWAY",
		},
		{
			name:        "LedgerUnwritable",
			contentType: "application/json",
			body:        `{"user_id":"u1","amount":"50","location":"Harare"}`,
			setupMocks: func(m *MockWorkflowService) {
				m.On("Submit", mock.Anything, mock.Anything).
					Return(nil, shared.PersistenceError{Op: service.OpLedgerAppend, Err: errors.New("disk full")}).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockWorkflowService)
			tt.setupMocks(mockService)
			router := newTransactionRouter(mockService)

			req, _ := http.NewRequest(http.MethodPost, "/transactions", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			response := decodeEnvelope[OutcomeResponse](t, rr.Body.Bytes())
			if tt.expectedCode != "" {
				require.NotNil(t, response.Error)
				assert.Equal(t, tt.expectedCode, response.Error.Code)
				assert.Equal(t, tt.expectedFields, response.Error.Fields)
			} else {
				assert.Equal(t, tt.expectedOutcome, response.Data.Status)
				assert.Equal(t, "2024-01-01 12:00:00", response.Data.Transaction.Timestamp)
				assert.NotEmpty(t, response.Data.Message)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestTransactionHandler_Scan(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("DefaultsToScan", func(t *testing.T) {
		mockService := new(MockWorkflowService)
		mockService.On("Decide", mock.Anything, intakeMatches("u3", "75.5", "Lagos"), shared.DecisionScan).
			Return(testOutcome("u3", "75.5", "Lagos", shared.StatusFraud), nil).Once()
		router := newTransactionRouter(mockService)

		req, _ := http.NewRequest(http.MethodPost, "/transactions/scan", bytes.NewBufferString(`{"user_id":"u3","amount":"75.5","location":"Lagos"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		response := decodeEnvelope[OutcomeResponse](t, rr.Body.Bytes())
		assert.Equal(t, "FRAUD", response.Data.Status)
		mockService.AssertExpectations(t)
	})

	t.Run("PassesDecisionThrough", func(t *testing.T) {
		mockService := new(MockWorkflowService)
		mockService.On("Decide", mock.Anything, mock.Anything, shared.Decision("escalate")).
			Return(testOutcome("u3", "75.5", "Lagos", shared.StatusUnknown), nil).Once()
		router := newTransactionRouter(mockService)

		form := url.Values{"user_id": {"u3"}, "amount": {"75.5"}, "location": {"Lagos"}, "decision": {"escalate"}}
		req, _ := http.NewRequest(http.MethodPost, "/transactions/scan", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		response := decodeEnvelope[OutcomeResponse](t, rr.Body.Bytes())
		assert.Equal(t, "UNKNOWN", response.Data.Status)
		mockService.AssertExpectations(t)
	})

	t.Run("SuspendedUser", func(t *testing.T) {
		mockService := new(MockWorkflowService)
		mockService.On("Decide", mock.Anything, mock.Anything, shared.DecisionApprove).
			Return(nil, shared.ErrUserSuspended{UserID: "u3"}).Once()
		router := newTransactionRouter(mockService)

		req, _ := http.NewRequest(http.MethodPost, "/transactions/scan", bytes.NewBufferString(`{"user_id":"u3","amount":"1","location":"Lagos","decision":"approve"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestTransactionHandler_Verify(t *testing.T) {
	gin.SetMode(gin.TestMode)

	baseQuery := url.Values{
		"user_id":   {"u2"},
		"amount":    {"5000"},
		"location":  {"Unknown"},
		"timestamp": {"2024-01-01 12:00:00"},
	}
	withConfirm := func(confirm string) string {
		q := url.Values{}
		for k, v := range baseQuery {
			q[k] = v
		}
		q.Set("confirm", confirm)
		return "/transactions/verify?" + q.Encode()
	}
	keyMatches := mock.MatchedBy(func(r *service.IntakeRequest) bool {
		return r.UserID == "u2" && r.Timestamp == "2024-01-01 12:00:00"
	})

	tests := []struct {
		name           string
		confirm        string
		setupMocks     func(m *MockWorkflowService)
		expectedStatus int
		expectedResult string
	}{
		{
			name:    "ConfirmYes",
			confirm: "yes",
			setupMocks: func(m *MockWorkflowService) {
				m.On("Confirm", mock.Anything, keyMatches, true).
					Return(testOutcome("u2", "5000", "Unknown", shared.StatusApproved), nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedResult: "APPROVED",
		},
		{
			name:    "ConfirmNo",
			confirm: "NO",
			setupMocks: func(m *MockWorkflowService) {
				m.On("Confirm", mock.Anything, keyMatches, false).
					Return(testOutcome("u2", "5000", "Unknown", shared.StatusDenied), nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedResult: "DENIED",
		},
		{
			name:           "ConfirmMissing",
			confirm:        "maybe",
			setupMocks:     func(m *MockWorkflowService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockWorkflowService)
			tt.setupMocks(mockService)
			router := newTransactionRouter(mockService)

			req, _ := http.NewRequest(http.MethodGet, withConfirm(tt.confirm), nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			response := decodeEnvelope[OutcomeResponse](t, rr.Body.Bytes())
			if tt.expectedResult != "" {
				assert.Equal(t, tt.expectedResult, response.Data.Status)
			} else {
				require.NotNil(t, response.Error)
				assert.Equal(t, []string{"confirm"}, response.Error.Fields)
				mockService.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything, mock.Anything)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestTransactionHandler_Status(t *testing.T) {
	gin.SetMode(gin.TestMode)
	path := "/transactions/status?user_id=u2&amount=5000&location=Unknown&timestamp=2024-01-01+12%3A00%3A00"

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockWorkflowService)
		fraud := testOutcome("u2", "5000", "Unknown", shared.StatusFraud).Record
		denied := testOutcome("u2", "5000", "Unknown", shared.StatusDenied).Record
		mockService.On("CurrentStatus", mock.Anything, mock.Anything).Return(&service.StatusView{
			Status:  shared.StatusDenied,
			Current: denied,
			History: []*ledger.Record{fraud, denied},
		}, nil).Once()
		router := newTransactionRouter(mockService)

		req, _ := http.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		response := decodeEnvelope[StatusResponse](t, rr.Body.Bytes())
		assert.Equal(t, "DENIED", response.Data.Status)
		assert.Len(t, response.Data.History, 2)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService := new(MockWorkflowService)
		mockService.On("CurrentStatus", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound).Once()
		router := newTransactionRouter(mockService)

		req, _ := http.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestTransactionHandler_Predict(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("DefaultsToAnonymous", func(t *testing.T) {
		mockService := new(MockWorkflowService)
		mockService.On("Submit", mock.Anything, intakeMatches("anonymous", "2500", "Russia")).
			Return(testOutcome("anonymous", "2500", "Russia", shared.StatusFraud), nil).Once()
		router := newTransactionRouter(mockService)

		req, _ := http.NewRequest(http.MethodPost, "/predict", bytes.NewBufferString(`{"amount":2500,"location":"Russia"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		response := decodeEnvelope[PredictResponse](t, rr.Body.Bytes())
		assert.True(t, response.Data.IsFraud)
		assert.Equal(t, "anonymous", response.Data.Transaction.UserID)
		mockService.AssertExpectations(t)
	})

	t.Run("NotFraud", func(t *testing.T) {
		mockService := new(MockWorkflowService)
		mockService.On("Submit", mock.Anything, intakeMatches("svc", "10", "Oslo")).
			Return(testOutcome("svc", "10", "Oslo", shared.StatusNormal), nil).Once()
		router := newTransactionRouter(mockService)

		req, _ := http.NewRequest(http.MethodPost, "/predict", bytes.NewBufferString(`{"user_id":"svc","amount":"10","location":"Oslo"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		response := decodeEnvelope[PredictResponse](t, rr.Body.Bytes())
		assert.False(t, response.Data.IsFraud)
	})
}
