package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fxdesk/tradebook/internal/apperrors"
	"github.com/fxdesk/tradebook/internal/core/domain"
	portsrepo "github.com/fxdesk/tradebook/internal/core/ports/repositories"
)

// PgxRefDataRepository reads the static reference tables trades resolve
// against. Reference data is small and rarely changes, so every lookup is a
// single-row query with no caching layer in front.
type PgxRefDataRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRefDataRepository creates a new repository for reference data.
func NewPgxRefDataRepository(pool *pgxpool.Pool) portsrepo.RefDataReader {
	return &PgxRefDataRepository{pool: pool}
}

var _ portsrepo.RefDataReader = (*PgxRefDataRepository)(nil)

const bookSelect = `
	SELECT b.id, b.book_name, b.active,
	       cc.id, cc.cost_center_name,
	       sd.id, sd.sub_desk_name,
	       d.id, d.desk_name
	FROM books b
	LEFT JOIN cost_centers cc ON cc.id = b.cost_center_id
	LEFT JOIN sub_desks sd ON sd.id = cc.sub_desk_id
	LEFT JOIN desks d ON d.id = sd.desk_id`

func (r *PgxRefDataRepository) FindBookByID(ctx context.Context, id int64) (*domain.Book, error) {
	return scanBook(r.pool.QueryRow(ctx, bookSelect+` WHERE b.id = $1`, id))
}

func (r *PgxRefDataRepository) FindBookByName(ctx context.Context, name string) (*domain.Book, error) {
	return scanBook(r.pool.QueryRow(ctx, bookSelect+` WHERE b.book_name = $1`, name))
}

func (r *PgxRefDataRepository) ListBooks(ctx context.Context) ([]domain.Book, error) {
	rows, err := r.pool.Query(ctx, bookSelect+` ORDER BY b.book_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	books := []domain.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book row: %w", err)
		}
		books = append(books, *book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate book rows: %w", err)
	}
	return books, nil
}

func (r *PgxRefDataRepository) FindCounterpartyByID(ctx context.Context, id int64) (*domain.Counterparty, error) {
	var cp domain.Counterparty
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, active FROM counterparties WHERE id = $1`, id).
		Scan(&cp.ID, &cp.Name, &cp.Active)
	if err != nil {
		return nil, mapFindErr(err, "counterparty")
	}
	return &cp, nil
}

func (r *PgxRefDataRepository) FindCounterpartyByName(ctx context.Context, name string) (*domain.Counterparty, error) {
	var cp domain.Counterparty
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, active FROM counterparties WHERE name = $1`, name).
		Scan(&cp.ID, &cp.Name, &cp.Active)
	if err != nil {
		return nil, mapFindErr(err, "counterparty")
	}
	return &cp, nil
}

func (r *PgxRefDataRepository) FindUserByID(ctx context.Context, id int64) (*domain.ApplicationUser, error) {
	var user domain.ApplicationUser
	err := r.pool.QueryRow(ctx,
		`SELECT id, first_name, last_name, login_id, active FROM application_users WHERE id = $1`, id).
		Scan(&user.ID, &user.FirstName, &user.LastName, &user.LoginID, &user.Active)
	if err != nil {
		return nil, mapFindErr(err, "application user")
	}
	return &user, nil
}

func (r *PgxRefDataRepository) FindTradeStatusByName(ctx context.Context, name string) (*domain.TradeStatus, error) {
	var status domain.TradeStatus
	err := r.pool.QueryRow(ctx,
		`SELECT id, trade_status FROM trade_statuses WHERE trade_status = $1`, name).
		Scan(&status.ID, &status.TradeStatus)
	if err != nil {
		return nil, mapFindErr(err, "trade status")
	}
	return &status, nil
}

func (r *PgxRefDataRepository) ListTradeStatuses(ctx context.Context) ([]domain.TradeStatus, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, trade_status FROM trade_statuses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade statuses: %w", err)
	}
	defer rows.Close()

	statuses := []domain.TradeStatus{}
	for rows.Next() {
		var status domain.TradeStatus
		if err := rows.Scan(&status.ID, &status.TradeStatus); err != nil {
			return nil, fmt.Errorf("failed to scan trade status row: %w", err)
		}
		statuses = append(statuses, status)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trade status rows: %w", err)
	}
	return statuses, nil
}

func (r *PgxRefDataRepository) FindTradeTypeByID(ctx context.Context, id int64) (*domain.TradeType, error) {
	var tradeType domain.TradeType
	err := r.pool.QueryRow(ctx,
		`SELECT id, trade_type FROM trade_types WHERE id = $1`, id).
		Scan(&tradeType.ID, &tradeType.TradeType)
	if err != nil {
		return nil, mapFindErr(err, "trade type")
	}
	return &tradeType, nil
}

func (r *PgxRefDataRepository) FindTradeSubTypeByID(ctx context.Context, id int64) (*domain.TradeSubType, error) {
	var subType domain.TradeSubType
	err := r.pool.QueryRow(ctx,
		`SELECT id, trade_sub_type FROM trade_sub_types WHERE id = $1`, id).
		Scan(&subType.ID, &subType.TradeSubType)
	if err != nil {
		return nil, mapFindErr(err, "trade sub type")
	}
	return &subType, nil
}

func (r *PgxRefDataRepository) FindCurrencyByID(ctx context.Context, id int64) (*domain.Currency, error) {
	var currency domain.Currency
	err := r.pool.QueryRow(ctx,
		`SELECT id, currency FROM currencies WHERE id = $1`, id).
		Scan(&currency.ID, &currency.Currency)
	if err != nil {
		return nil, mapFindErr(err, "currency")
	}
	return &currency, nil
}

func (r *PgxRefDataRepository) FindCurrencyByName(ctx context.Context, name string) (*domain.Currency, error) {
	var currency domain.Currency
	err := r.pool.QueryRow(ctx,
		`SELECT id, currency FROM currencies WHERE currency = $1`, name).
		Scan(&currency.ID, &currency.Currency)
	if err != nil {
		return nil, mapFindErr(err, "currency")
	}
	return &currency, nil
}

func (r *PgxRefDataRepository) FindIndexByID(ctx context.Context, id int64) (*domain.RateIndex, error) {
	var index domain.RateIndex
	err := r.pool.QueryRow(ctx,
		`SELECT id, index_name FROM indices WHERE id = $1`, id).
		Scan(&index.ID, &index.Index)
	if err != nil {
		return nil, mapFindErr(err, "index")
	}
	return &index, nil
}

func (r *PgxRefDataRepository) FindIndexByName(ctx context.Context, name string) (*domain.RateIndex, error) {
	var index domain.RateIndex
	err := r.pool.QueryRow(ctx,
		`SELECT id, index_name FROM indices WHERE index_name = $1`, name).
		Scan(&index.ID, &index.Index)
	if err != nil {
		return nil, mapFindErr(err, "index")
	}
	return &index, nil
}

func (r *PgxRefDataRepository) FindScheduleByID(ctx context.Context, id int64) (*domain.Schedule, error) {
	var schedule domain.Schedule
	err := r.pool.QueryRow(ctx,
		`SELECT id, schedule FROM schedules WHERE id = $1`, id).
		Scan(&schedule.ID, &schedule.Schedule)
	if err != nil {
		return nil, mapFindErr(err, "schedule")
	}
	return &schedule, nil
}

func (r *PgxRefDataRepository) FindScheduleByName(ctx context.Context, name string) (*domain.Schedule, error) {
	var schedule domain.Schedule
	err := r.pool.QueryRow(ctx,
		`SELECT id, schedule FROM schedules WHERE schedule = $1`, name).
		Scan(&schedule.ID, &schedule.Schedule)
	if err != nil {
		return nil, mapFindErr(err, "schedule")
	}
	return &schedule, nil
}

func (r *PgxRefDataRepository) FindBDCByID(ctx context.Context, id int64) (*domain.BusinessDayConvention, error) {
	var bdc domain.BusinessDayConvention
	err := r.pool.QueryRow(ctx,
		`SELECT id, bdc FROM business_day_conventions WHERE id = $1`, id).
		Scan(&bdc.ID, &bdc.BDC)
	if err != nil {
		return nil, mapFindErr(err, "business day convention")
	}
	return &bdc, nil
}

func (r *PgxRefDataRepository) FindBDCByName(ctx context.Context, name string) (*domain.BusinessDayConvention, error) {
	var bdc domain.BusinessDayConvention
	err := r.pool.QueryRow(ctx,
		`SELECT id, bdc FROM business_day_conventions WHERE bdc = $1`, name).
		Scan(&bdc.ID, &bdc.BDC)
	if err != nil {
		return nil, mapFindErr(err, "business day convention")
	}
	return &bdc, nil
}

func (r *PgxRefDataRepository) FindHolidayCalendarByID(ctx context.Context, id int64) (*domain.HolidayCalendar, error) {
	var calendar domain.HolidayCalendar
	err := r.pool.QueryRow(ctx,
		`SELECT id, calendar FROM holiday_calendars WHERE id = $1`, id).
		Scan(&calendar.ID, &calendar.Calendar)
	if err != nil {
		return nil, mapFindErr(err, "holiday calendar")
	}
	return &calendar, nil
}

func (r *PgxRefDataRepository) FindHolidayCalendarByName(ctx context.Context, name string) (*domain.HolidayCalendar, error) {
	var calendar domain.HolidayCalendar
	err := r.pool.QueryRow(ctx,
		`SELECT id, calendar FROM holiday_calendars WHERE calendar = $1`, name).
		Scan(&calendar.ID, &calendar.Calendar)
	if err != nil {
		return nil, mapFindErr(err, "holiday calendar")
	}
	return &calendar, nil
}

func (r *PgxRefDataRepository) FindLegTypeByName(ctx context.Context, name string) (*domain.LegType, error) {
	var legType domain.LegType
	err := r.pool.QueryRow(ctx,
		`SELECT id, leg_type FROM leg_types WHERE leg_type = $1`, name).
		Scan(&legType.ID, &legType.Type)
	if err != nil {
		return nil, mapFindErr(err, "leg type")
	}
	return &legType, nil
}

func (r *PgxRefDataRepository) FindPayRecByName(ctx context.Context, name string) (*domain.PayRec, error) {
	var payRec domain.PayRec
	err := r.pool.QueryRow(ctx,
		`SELECT id, pay_rec FROM pay_recs WHERE pay_rec = $1`, name).
		Scan(&payRec.ID, &payRec.PayRec)
	if err != nil {
		return nil, mapFindErr(err, "pay rec")
	}
	return &payRec, nil
}

func (r *PgxRefDataRepository) ExistsTradeStatusByID(ctx context.Context, id int64) (bool, error) {
	return r.existsByID(ctx, "trade_statuses", id)
}

func (r *PgxRefDataRepository) ExistsUserByID(ctx context.Context, id int64) (bool, error) {
	return r.existsByID(ctx, "application_users", id)
}

func (r *PgxRefDataRepository) ExistsBookByID(ctx context.Context, id int64) (bool, error) {
	return r.existsByID(ctx, "books", id)
}

func (r *PgxRefDataRepository) ExistsCounterpartyByID(ctx context.Context, id int64) (bool, error) {
	return r.existsByID(ctx, "counterparties", id)
}

// existsByID checks for a row by primary key. The table name comes from the
// fixed set above, never from callers, so string assembly is safe here.
func (r *PgxRefDataRepository) existsByID(ctx context.Context, table string, id int64) (bool, error) {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, table)
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check %s id %d: %w", table, id, err)
	}
	return exists, nil
}

// scanBook materializes a book with its ownership chain. The chain links are
// nullable; a dangling cost center still yields the book itself.
func scanBook(row pgx.Row) (*domain.Book, error) {
	var (
		book                  domain.Book
		ccID, sdID, dID       *int64
		ccName, sdName, dName *string
	)
	err := row.Scan(
		&book.ID, &book.BookName, &book.Active,
		&ccID, &ccName,
		&sdID, &sdName,
		&dID, &dName,
	)
	if err != nil {
		return nil, mapFindErr(err, "book")
	}

	if ccID != nil {
		book.CostCenter = &domain.CostCenter{ID: *ccID, CostCenterName: derefString(ccName)}
		if sdID != nil {
			book.CostCenter.SubDesk = &domain.SubDesk{ID: *sdID, SubDeskName: derefString(sdName)}
			if dID != nil {
				book.CostCenter.SubDesk.Desk = &domain.Desk{ID: *dID, DeskName: derefString(dName)}
			}
		}
	}
	return &book, nil
}

func mapFindErr(err error, entity string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	return fmt.Errorf("failed to find %s: %w", entity, err)
}
