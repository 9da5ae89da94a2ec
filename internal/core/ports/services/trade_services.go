package services

import (
	"context"

	"github.com/fxdesk/tradebook/internal/core/domain"
	"github.com/fxdesk/tradebook/internal/dto"
)

// TradeSvcFacade is the trade lifecycle engine as seen by the handler layer.
// Every method checks the caller's privilege first; failures are classified as
// forbidden, not-found, validation, query-compilation or internal via the
// apperrors sentinels.
type TradeSvcFacade interface {
	CreateTrade(ctx context.Context, req dto.TradeRequest, userID string) (*domain.Trade, error)
	AmendTrade(ctx context.Context, tradeID int64, req dto.TradeRequest, userID string) (*domain.Trade, error)
	CancelTrade(ctx context.Context, tradeID int64, userID string) (*domain.Trade, error)
	TerminateTrade(ctx context.Context, tradeID int64, userID string) (*domain.Trade, error)
	// DeleteTrade is a soft delete implemented as cancellation.
	DeleteTrade(ctx context.Context, tradeID int64, userID string) error
	GetTradeByID(ctx context.Context, tradeID int64, userID string) (*domain.Trade, error)
	ListTrades(ctx context.Context, userID string) ([]domain.Trade, error)
	SearchTrades(ctx context.Context, criteria domain.TradeSearchCriteria, userID string) ([]domain.Trade, error)
	GetTradesByFilter(ctx context.Context, expression string, userID string) ([]domain.Trade, error)
}

// ReportingSvcFacade serves read-only dashboard aggregations.
type ReportingSvcFacade interface {
	GetTradeSummary(ctx context.Context, traderID int64, userID string) (*domain.TradeSummary, error)
}
