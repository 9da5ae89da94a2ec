package repositories

import (
	"context"
	"time"

	"github.com/fxdesk/tradebook/internal/core/domain"
	"github.com/fxdesk/tradebook/internal/query/rsql"
)

// TradeReader defines read operations for trade data. All finders materialize
// the full graph: trade, legs and cashflows, plus resolved reference data.
type TradeReader interface {
	// FindActiveByTradeID retrieves the single active version of a trade.
	FindActiveByTradeID(ctx context.Context, tradeID int64) (*domain.Trade, error)

	// FindMaxVersion returns the highest version persisted for a trade id, or
	// zero when no version exists.
	FindMaxVersion(ctx context.Context, tradeID int64) (int, error)

	// ListActiveTrades retrieves the active version of every trade.
	ListActiveTrades(ctx context.Context) ([]domain.Trade, error)

	// SearchTrades retrieves active trades matching the fixed filter criteria.
	SearchTrades(ctx context.Context, criteria domain.TradeSearchCriteria) ([]domain.Trade, error)

	// FindByFilter retrieves active trades matching a parsed filter expression.
	// Binding the expression to the trade schema happens here; an unresolvable
	// property surfaces as a query-compilation failure.
	FindByFilter(ctx context.Context, filter rsql.Node) ([]domain.Trade, error)
}

// TradeWriter defines write operations for trade data.
type TradeWriter interface {
	// NextTradeID allocates a new business trade identifier.
	NextTradeID(ctx context.Context) (int64, error)

	// SaveTrade persists a new trade version with its legs and cashflows in one
	// transaction, assigning surrogate ids in place.
	SaveTrade(ctx context.Context, trade *domain.Trade) error

	// SaveAmendment deactivates the previous version and inserts the amended one
	// in a single transaction. The deactivation is a compare-and-swap on
	// (tradeId, version, active); a lost race returns apperrors.ErrConflict and
	// persists nothing.
	SaveAmendment(ctx context.Context, previous *domain.Trade, amended *domain.Trade) error

	// UpdateTradeStatus transitions the status of one persisted trade version
	// without creating a new version or touching legs and cashflows.
	UpdateTradeStatus(ctx context.Context, tradeRowID int64, status domain.TradeStatus, updatedBy string, updatedAt time.Time) error
}

// TradeRepositoryFacade combines all trade repository interfaces.
type TradeRepositoryFacade interface {
	TradeReader
	TradeWriter
}
