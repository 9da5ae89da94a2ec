package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fxdesk/tradebook/internal/apperrors"
	"github.com/fxdesk/tradebook/internal/core/domain"
	portssvc "github.com/fxdesk/tradebook/internal/core/ports/services"
	"github.com/fxdesk/tradebook/internal/core/validation"
	"github.com/fxdesk/tradebook/internal/dto"
	"github.com/fxdesk/tradebook/internal/handlers"
)

// --- Mock TradeService ---

type MockTradeService struct {
	mock.Mock
}

func (m *MockTradeService) CreateTrade(ctx context.Context, req dto.TradeRequest, userID string) (*domain.Trade, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trade), args.Error(1)
}

func (m *MockTradeService) AmendTrade(ctx context.Context, tradeID int64, req dto.TradeRequest, userID string) (*domain.Trade, error) {
	args := m.Called(ctx, tradeID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trade), args.Error(1)
}

func (m *MockTradeService) CancelTrade(ctx context.Context, tradeID int64, userID string) (*domain.Trade, error) {
	args := m.Called(ctx, tradeID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trade), args.Error(1)
}

func (m *MockTradeService) TerminateTrade(ctx context.Context, tradeID int64, userID string) (*domain.Trade, error) {
	args := m.Called(ctx, tradeID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trade), args.Error(1)
}

func (m *MockTradeService) DeleteTrade(ctx context.Context, tradeID int64, userID string) error {
	args := m.Called(ctx, tradeID, userID)
	return args.Error(0)
}

func (m *MockTradeService) GetTradeByID(ctx context.Context, tradeID int64, userID string) (*domain.Trade, error) {
	args := m.Called(ctx, tradeID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trade), args.Error(1)
}

func (m *MockTradeService) ListTrades(ctx context.Context, userID string) ([]domain.Trade, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Trade), args.Error(1)
}

func (m *MockTradeService) SearchTrades(ctx context.Context, criteria domain.TradeSearchCriteria, userID string) ([]domain.Trade, error) {
	args := m.Called(ctx, criteria, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Trade), args.Error(1)
}

func (m *MockTradeService) GetTradesByFilter(ctx context.Context, expression string, userID string) ([]domain.Trade, error) {
	args := m.Called(ctx, expression, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Trade), args.Error(1)
}

var _ portssvc.TradeSvcFacade = (*MockTradeService)(nil)

// --- Test Suite Setup ---

type TradeHandlerTestSuite struct {
	suite.Suite
	router  *gin.Engine
	service *MockTradeService
}

func (s *TradeHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.service = new(MockTradeService)
	s.router = gin.New()
	handlers.RegisterRoutes(s.router, &handlers.ServiceContainer{Trade: s.service})
}

func (s *TradeHandlerTestSuite) request(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-User-ID", "trader1")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func sampleTrade() *domain.Trade {
	today := time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC)
	return &domain.Trade{
		TradeID:           1001,
		Version:           1,
		Active:            true,
		TradeDate:         today,
		TradeStartDate:    today.AddDate(0, 0, 2),
		TradeMaturityDate: today.AddDate(1, 0, 2),
		UTICode:           "UTI-1001",
		Status:            &domain.TradeStatus{ID: 1, TradeStatus: domain.StatusNew},
		Book:              &domain.Book{ID: 1, BookName: "RATES-1", Active: true},
	}
}

// --- Test Cases ---

func (s *TradeHandlerTestSuite) TestCreateTrade_Success() {
	s.service.On("CreateTrade", mock.Anything, mock.AnythingOfType("dto.TradeRequest"), "trader1").
		Return(sampleTrade(), nil)

	w := s.request(http.MethodPost, "/api/v1/trades", `{"bookName":"RATES-1"}`)

	s.Equal(http.StatusCreated, w.Code)
	var resp dto.TradeResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(int64(1001), resp.TradeID)
	s.Equal(1, resp.Version)
	s.Equal(domain.StatusNew, resp.TradeStatus)
}

func (s *TradeHandlerTestSuite) TestCreateTrade_ValidationFailureCarriesFieldErrors() {
	result := validation.NewResult()
	result.AddError("tradeDate", "Trade date is required", validation.SeverityError)
	s.service.On("CreateTrade", mock.Anything, mock.Anything, "trader1").Return(nil, result.Err())

	w := s.request(http.MethodPost, "/api/v1/trades", `{}`)

	s.Equal(http.StatusBadRequest, w.Code)
	var resp struct {
		Error       string                   `json:"error"`
		FieldErrors []dto.FieldErrorResponse `json:"fieldErrors"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("TRADE VALIDATION FAILED: Trade date is required", resp.Error)
	s.Require().Len(resp.FieldErrors, 1)
	s.Equal("tradeDate", resp.FieldErrors[0].Field)
}

func (s *TradeHandlerTestSuite) TestCreateTrade_Forbidden() {
	s.service.On("CreateTrade", mock.Anything, mock.Anything, "trader1").
		Return(nil, fmt.Errorf("%w: user trader1 is not authorized to create trades", apperrors.ErrForbidden))

	w := s.request(http.MethodPost, "/api/v1/trades", `{}`)

	s.Equal(http.StatusForbidden, w.Code)
}

func (s *TradeHandlerTestSuite) TestCreateTrade_MissingIdentityHeader() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/trades", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusUnauthorized, w.Code)
	s.service.AssertNotCalled(s.T(), "CreateTrade", mock.Anything, mock.Anything, mock.Anything)
}

func (s *TradeHandlerTestSuite) TestGetTrade_NotFound() {
	s.service.On("GetTradeByID", mock.Anything, int64(404), "trader1").
		Return(nil, fmt.Errorf("%w: Trade not found", apperrors.ErrNotFound))

	w := s.request(http.MethodGet, "/api/v1/trades/404", "")

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *TradeHandlerTestSuite) TestGetTrade_MalformedID() {
	w := s.request(http.MethodGet, "/api/v1/trades/banana", "")

	s.Equal(http.StatusBadRequest, w.Code)
	s.service.AssertNotCalled(s.T(), "GetTradeByID", mock.Anything, mock.Anything, mock.Anything)
}

func (s *TradeHandlerTestSuite) TestAmendTrade_ConflictMapsTo409() {
	s.service.On("AmendTrade", mock.Anything, int64(1001), mock.Anything, "trader1").
		Return(nil, fmt.Errorf("%w: version 2 of trade 1001 is no longer active", apperrors.ErrConflict))

	w := s.request(http.MethodPut, "/api/v1/trades/1001", `{}`)

	s.Equal(http.StatusConflict, w.Code)
}

func (s *TradeHandlerTestSuite) TestCancelTrade_Success() {
	cancelled := sampleTrade()
	cancelled.Status = &domain.TradeStatus{ID: 5, TradeStatus: domain.StatusCancelled}
	s.service.On("CancelTrade", mock.Anything, int64(1001), "trader1").Return(cancelled, nil)

	w := s.request(http.MethodPut, "/api/v1/trades/1001/cancel", "")

	s.Equal(http.StatusOK, w.Code)
	var resp dto.TradeResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(domain.StatusCancelled, resp.TradeStatus)
}

func (s *TradeHandlerTestSuite) TestDeleteTrade_NoContent() {
	s.service.On("DeleteTrade", mock.Anything, int64(1001), "trader1").Return(nil)

	w := s.request(http.MethodDelete, "/api/v1/trades/1001", "")

	s.Equal(http.StatusNoContent, w.Code)
}

func (s *TradeHandlerTestSuite) TestFilterTrades_BadExpressionMapsTo400() {
	s.service.On("GetTradesByFilter", mock.Anything, "tradeId==", "trader1").
		Return(nil, fmt.Errorf("%w: missing value for property \"tradeId\" at position 9", apperrors.ErrQueryCompilation))

	w := s.request(http.MethodGet, "/api/v1/trades/filter?query=tradeId%3D%3D", "")

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *TradeHandlerTestSuite) TestFilterTrades_MissingQueryParameter() {
	w := s.request(http.MethodGet, "/api/v1/trades/filter", "")

	s.Equal(http.StatusBadRequest, w.Code)
	s.service.AssertNotCalled(s.T(), "GetTradesByFilter", mock.Anything, mock.Anything, mock.Anything)
}

func (s *TradeHandlerTestSuite) TestSearchTrades_BindsQueryParameters() {
	expected := domain.TradeSearchCriteria{}
	earliest := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	expected.EarliestTradeDate = &earliest

	s.service.On("SearchTrades", mock.Anything, expected, "trader1").
		Return([]domain.Trade{*sampleTrade()}, nil)

	w := s.request(http.MethodGet, "/api/v1/trades/search?earliestTradeDate=2025-01-01", "")

	s.Equal(http.StatusOK, w.Code)
	var resp []dto.TradeResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Len(resp, 1)
}

func TestTradeHandler(t *testing.T) {
	suite.Run(t, new(TradeHandlerTestSuite))
}
