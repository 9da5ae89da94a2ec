package repositories

import (
	"context"

	"github.com/fxdesk/tradebook/internal/core/domain"
)

// RefDataReader is the read-only reference data gateway. Finders return
// apperrors.ErrNotFound when no row matches; Exists checks never do.
type RefDataReader interface {
	// FindBookByID hydrates the book with its cost-center, sub-desk and desk links.
	FindBookByID(ctx context.Context, id int64) (*domain.Book, error)
	FindBookByName(ctx context.Context, name string) (*domain.Book, error)
	ListBooks(ctx context.Context) ([]domain.Book, error)

	FindCounterpartyByID(ctx context.Context, id int64) (*domain.Counterparty, error)
	FindCounterpartyByName(ctx context.Context, name string) (*domain.Counterparty, error)

	FindUserByID(ctx context.Context, id int64) (*domain.ApplicationUser, error)

	FindTradeStatusByName(ctx context.Context, name string) (*domain.TradeStatus, error)
	ListTradeStatuses(ctx context.Context) ([]domain.TradeStatus, error)

	FindTradeTypeByID(ctx context.Context, id int64) (*domain.TradeType, error)
	FindTradeSubTypeByID(ctx context.Context, id int64) (*domain.TradeSubType, error)

	FindCurrencyByID(ctx context.Context, id int64) (*domain.Currency, error)
	FindCurrencyByName(ctx context.Context, name string) (*domain.Currency, error)

	FindIndexByID(ctx context.Context, id int64) (*domain.RateIndex, error)
	FindIndexByName(ctx context.Context, name string) (*domain.RateIndex, error)

	FindScheduleByID(ctx context.Context, id int64) (*domain.Schedule, error)
	FindScheduleByName(ctx context.Context, name string) (*domain.Schedule, error)

	FindBDCByID(ctx context.Context, id int64) (*domain.BusinessDayConvention, error)
	FindBDCByName(ctx context.Context, name string) (*domain.BusinessDayConvention, error)

	FindHolidayCalendarByID(ctx context.Context, id int64) (*domain.HolidayCalendar, error)
	FindHolidayCalendarByName(ctx context.Context, name string) (*domain.HolidayCalendar, error)

	FindLegTypeByName(ctx context.Context, name string) (*domain.LegType, error)
	FindPayRecByName(ctx context.Context, name string) (*domain.PayRec, error)

	ExistsTradeStatusByID(ctx context.Context, id int64) (bool, error)
	ExistsUserByID(ctx context.Context, id int64) (bool, error)
	ExistsBookByID(ctx context.Context, id int64) (bool, error)
	ExistsCounterpartyByID(ctx context.Context, id int64) (bool, error)
}
