package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fxdesk/tradebook/internal/apperrors"
	"github.com/fxdesk/tradebook/internal/core/domain"
	portsrepo "github.com/fxdesk/tradebook/internal/core/ports/repositories"
	"github.com/fxdesk/tradebook/internal/query/rsql"
)

// PgxTradeRepository persists trade versions, legs and cashflows.
type PgxTradeRepository struct {
	pool *pgxpool.Pool
}

// NewPgxTradeRepository creates a new repository for trade data.
func NewPgxTradeRepository(pool *pgxpool.Pool) portsrepo.TradeRepositoryFacade {
	return &PgxTradeRepository{pool: pool}
}

var _ portsrepo.TradeRepositoryFacade = (*PgxTradeRepository)(nil)

const tradeSelect = `
	SELECT t.id, t.trade_id, t.version, t.active,
	       t.trade_date, t.trade_start_date, t.trade_maturity_date, t.uti_code,
	       t.created_at, t.created_by, t.last_updated_at, t.last_updated_by,
	       ts.id, ts.trade_status,
	       tt.id, tt.trade_type,
	       tst.id, tst.trade_sub_type,
	       b.id, b.book_name, b.active,
	       cp.id, cp.name, cp.active,
	       u.id, u.login_id, u.active
	FROM trades t
	LEFT JOIN trade_statuses ts ON ts.id = t.trade_status_id
	LEFT JOIN trade_types tt ON tt.id = t.trade_type_id
	LEFT JOIN trade_sub_types tst ON tst.id = t.trade_sub_type_id
	LEFT JOIN books b ON b.id = t.book_id
	LEFT JOIN counterparties cp ON cp.id = t.counterparty_id
	LEFT JOIN application_users u ON u.id = t.trader_user_id`

// FindActiveByTradeID retrieves the active version of a trade, fully
// materialized with legs and cashflows.
func (r *PgxTradeRepository) FindActiveByTradeID(ctx context.Context, tradeID int64) (*domain.Trade, error) {
	row := r.pool.QueryRow(ctx, tradeSelect+` WHERE t.trade_id = $1 AND t.active`, tradeID)
	trade, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find active version of trade %d: %w", tradeID, err)
	}
	if err := r.attachLegs(ctx, []*domain.Trade{trade}); err != nil {
		return nil, err
	}
	return trade, nil
}

// FindMaxVersion returns the highest persisted version for a trade id, or zero.
func (r *PgxTradeRepository) FindMaxVersion(ctx context.Context, tradeID int64) (int, error) {
	var version int
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM trades WHERE trade_id = $1`, tradeID).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to find max version of trade %d: %w", tradeID, err)
	}
	return version, nil
}

// ListActiveTrades retrieves the active version of every trade.
func (r *PgxTradeRepository) ListActiveTrades(ctx context.Context) ([]domain.Trade, error) {
	return r.queryTrades(ctx, tradeSelect+` WHERE t.active ORDER BY t.trade_id`)
}

// SearchTrades retrieves active trades matching the fixed filter criteria.
func (r *PgxTradeRepository) SearchTrades(ctx context.Context, criteria domain.TradeSearchCriteria) ([]domain.Trade, error) {
	conditions := []string{"t.active"}
	args := []any{}

	addCondition := func(condition string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}
	if criteria.EarliestTradeDate != nil {
		addCondition("t.trade_date >= $%d", *criteria.EarliestTradeDate)
	}
	if criteria.LatestTradeDate != nil {
		addCondition("t.trade_date <= $%d", *criteria.LatestTradeDate)
	}
	if criteria.TradeStatusID != nil {
		addCondition("t.trade_status_id = $%d", *criteria.TradeStatusID)
	}
	if criteria.TraderID != nil {
		addCondition("t.trader_user_id = $%d", *criteria.TraderID)
	}
	if criteria.BookID != nil {
		addCondition("t.book_id = $%d", *criteria.BookID)
	}
	if criteria.CounterpartyID != nil {
		addCondition("t.counterparty_id = $%d", *criteria.CounterpartyID)
	}

	query := tradeSelect + ` WHERE ` + strings.Join(conditions, " AND ") + ` ORDER BY t.trade_id`
	return r.queryTrades(ctx, query, args...)
}

// FindByFilter compiles a parsed filter expression against the trade schema and
// retrieves the matching active trades. The compiled joins come on top of the
// materialization joins of the base select, so they use distinct aliases only
// when traversing relations the base select does not already reach.
func (r *PgxTradeRepository) FindByFilter(ctx context.Context, filter rsql.Node) ([]domain.Trade, error) {
	predicate, err := rsql.Compile(filter, tradeSchema, 1)
	if err != nil {
		return nil, err
	}

	// The base select already performs every join the schema can emit, so the
	// compiled join list is satisfied and only the condition is appended.
	query := tradeSelect + ` WHERE t.active AND ` + predicate.Where + ` ORDER BY t.trade_id`
	return r.queryTrades(ctx, query, predicate.Args...)
}

// NextTradeID allocates a new business trade identifier from the DB sequence.
func (r *PgxTradeRepository) NextTradeID(ctx context.Context) (int64, error) {
	var id int64
	if err := r.pool.QueryRow(ctx, `SELECT nextval('trade_business_id_seq')`).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to allocate next trade id: %w", err)
	}
	return id, nil
}

// SaveTrade persists a new trade version with its legs and cashflows in one
// transaction, assigning surrogate ids in place.
func (r *PgxTradeRepository) SaveTrade(ctx context.Context, trade *domain.Trade) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := insertTradeVersion(ctx, tx, trade); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit trade %d: %w", trade.TradeID, err)
	}
	return nil
}

// SaveAmendment deactivates the previous version and inserts the amended one in
// a single transaction. The deactivation is a compare-and-swap keyed on
// (tradeId, version, active): a concurrent amender that already superseded the
// version makes the swap affect zero rows, and the loser gets ErrConflict with
// nothing persisted. A reader therefore never observes zero or two active
// versions for the same trade id.
func (r *PgxTradeRepository) SaveAmendment(ctx context.Context, previous *domain.Trade, amended *domain.Trade) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	tag, err := tx.Exec(ctx, `
		UPDATE trades SET active = FALSE, last_updated_at = $1, last_updated_by = $2
		WHERE trade_id = $3 AND version = $4 AND active`,
		previous.LastUpdatedAt, previous.LastUpdatedBy, previous.TradeID, previous.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate version %d of trade %d: %w", previous.Version, previous.TradeID, err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("%w: version %d of trade %d is no longer active", apperrors.ErrConflict, previous.Version, previous.TradeID)
	}

	if err := insertTradeVersion(ctx, tx, amended); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit amendment of trade %d: %w", amended.TradeID, err)
	}
	return nil
}

// UpdateTradeStatus transitions the status of one persisted version in place.
func (r *PgxTradeRepository) UpdateTradeStatus(ctx context.Context, tradeRowID int64, status domain.TradeStatus, updatedBy string, updatedAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE trades SET trade_status_id = $1, last_updated_at = $2, last_updated_by = $3
		WHERE id = $4`,
		status.ID, updatedAt, updatedBy, tradeRowID,
	)
	if err != nil {
		return fmt.Errorf("failed to update status of trade row %d: %w", tradeRowID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// insertTradeVersion writes one trade version with its legs and cashflows using
// the given transaction. Cashflows go through a pgx batch since monthly legs on
// long trades fan out to dozens of rows.
func insertTradeVersion(ctx context.Context, tx pgx.Tx, trade *domain.Trade) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO trades (trade_id, version, active, trade_date, trade_start_date, trade_maturity_date,
		                    uti_code, trade_status_id, trade_type_id, trade_sub_type_id,
		                    book_id, counterparty_id, trader_user_id,
		                    created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id`,
		trade.TradeID, trade.Version, trade.Active,
		trade.TradeDate, trade.TradeStartDate, trade.TradeMaturityDate,
		trade.UTICode,
		refID(trade.Status), refTypeID(trade.Type), refSubTypeID(trade.SubType),
		bookID(trade.Book), counterpartyID(trade.Counterparty), userID(trade.TraderUser),
		trade.CreatedAt, trade.CreatedBy, trade.LastUpdatedAt, trade.LastUpdatedBy,
	).Scan(&trade.ID)
	if err != nil {
		return fmt.Errorf("failed to insert version %d of trade %d: %w", trade.Version, trade.TradeID, err)
	}

	for i := range trade.Legs {
		leg := &trade.Legs[i]
		leg.TradeRowID = trade.ID
		err := tx.QueryRow(ctx, `
			INSERT INTO trade_legs (trade_row_id, notional, rate, leg_type_id, pay_rec_id,
			                        currency_id, index_id, schedule_id,
			                        payment_bdc_id, fixing_bdc_id, holiday_calendar_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING leg_id`,
			leg.TradeRowID, leg.Notional, leg.Rate,
			legTypeID(leg.LegType), payRecID(leg.PayReceive),
			currencyID(leg.Currency), indexID(leg.Index), scheduleID(leg.CalculationPeriodSchedule),
			bdcID(leg.PaymentBDC), bdcID(leg.FixingBDC), calendarID(leg.HolidayCalendar),
		).Scan(&leg.LegID)
		if err != nil {
			return fmt.Errorf("failed to insert leg %d of trade %d: %w", i+1, trade.TradeID, err)
		}
	}

	batch := &pgx.Batch{}
	for i := range trade.Legs {
		leg := trade.Legs[i]
		for _, flow := range leg.Cashflows {
			batch.Queue(`
				INSERT INTO cashflows (leg_id, value_date, notional, sequence_index)
				VALUES ($1, $2, $3, $4)`,
				leg.LegID, flow.ValueDate, flow.Notional, flow.SequenceIndex,
			)
		}
	}
	if batch.Len() > 0 {
		br := tx.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return fmt.Errorf("failed to insert cashflows for trade %d: %w", trade.TradeID, err)
		}
	}
	return nil
}

// queryTrades runs a trade select, then attaches legs and cashflows in two
// follow-up queries instead of one row-exploding join.
func (r *PgxTradeRepository) queryTrades(ctx context.Context, query string, args ...any) ([]domain.Trade, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	trades := []domain.Trade{}
	refs := []*domain.Trade{}
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade row: %w", err)
		}
		trades = append(trades, *trade)
		refs = append(refs, &trades[len(trades)-1])
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trade rows: %w", err)
	}

	if err := r.attachLegs(ctx, refs); err != nil {
		return nil, err
	}
	return trades, nil
}

// attachLegs loads the legs and cashflows of the given trades.
func (r *PgxTradeRepository) attachLegs(ctx context.Context, trades []*domain.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	tradeRowIDs := make([]int64, len(trades))
	byRowID := make(map[int64]*domain.Trade, len(trades))
	for i, trade := range trades {
		tradeRowIDs[i] = trade.ID
		byRowID[trade.ID] = trade
	}

	rows, err := r.pool.Query(ctx, `
		SELECT l.leg_id, l.trade_row_id, l.notional, l.rate,
		       lt.id, lt.leg_type,
		       pr.id, pr.pay_rec,
		       c.id, c.currency,
		       ix.id, ix.index_name,
		       sch.id, sch.schedule,
		       pb.id, pb.bdc,
		       fb.id, fb.bdc,
		       hc.id, hc.calendar
		FROM trade_legs l
		LEFT JOIN leg_types lt ON lt.id = l.leg_type_id
		LEFT JOIN pay_recs pr ON pr.id = l.pay_rec_id
		LEFT JOIN currencies c ON c.id = l.currency_id
		LEFT JOIN indices ix ON ix.id = l.index_id
		LEFT JOIN schedules sch ON sch.id = l.schedule_id
		LEFT JOIN business_day_conventions pb ON pb.id = l.payment_bdc_id
		LEFT JOIN business_day_conventions fb ON fb.id = l.fixing_bdc_id
		LEFT JOIN holiday_calendars hc ON hc.id = l.holiday_calendar_id
		WHERE l.trade_row_id = ANY($1)
		ORDER BY l.leg_id`, tradeRowIDs)
	if err != nil {
		return fmt.Errorf("failed to query trade legs: %w", err)
	}
	defer rows.Close()

	legIDs := []int64{}
	legsByID := map[int64]*domain.TradeLeg{}
	for rows.Next() {
		leg, err := scanLeg(rows)
		if err != nil {
			return fmt.Errorf("failed to scan trade leg row: %w", err)
		}
		owner, ok := byRowID[leg.TradeRowID]
		if !ok {
			continue
		}
		owner.Legs = append(owner.Legs, *leg)
		attached := &owner.Legs[len(owner.Legs)-1]
		legsByID[attached.LegID] = attached
		legIDs = append(legIDs, attached.LegID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate trade leg rows: %w", err)
	}
	if len(legIDs) == 0 {
		return nil
	}

	flowRows, err := r.pool.Query(ctx, `
		SELECT id, leg_id, value_date, notional, sequence_index
		FROM cashflows
		WHERE leg_id = ANY($1)
		ORDER BY leg_id, sequence_index`, legIDs)
	if err != nil {
		return fmt.Errorf("failed to query cashflows: %w", err)
	}
	defer flowRows.Close()

	for flowRows.Next() {
		var flow domain.Cashflow
		if err := flowRows.Scan(&flow.ID, &flow.LegID, &flow.ValueDate, &flow.Notional, &flow.SequenceIndex); err != nil {
			return fmt.Errorf("failed to scan cashflow row: %w", err)
		}
		if leg, ok := legsByID[flow.LegID]; ok {
			leg.Cashflows = append(leg.Cashflows, flow)
		}
	}
	if err := flowRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate cashflow rows: %w", err)
	}
	return nil
}

// scanTrade scans one joined trade row, materializing the nullable reference
// entities only when the join produced them.
func scanTrade(row pgx.Row) (*domain.Trade, error) {
	var (
		trade                             domain.Trade
		statusID, typeID, subTypeID       *int64
		statusName, typeName, subTypeName *string
		bkID, cpID, usrID                 *int64
		bkName, cpName, usrLogin          *string
		bkActive, cpActive, usrActive     *bool
	)
	err := row.Scan(
		&trade.ID, &trade.TradeID, &trade.Version, &trade.Active,
		&trade.TradeDate, &trade.TradeStartDate, &trade.TradeMaturityDate, &trade.UTICode,
		&trade.CreatedAt, &trade.CreatedBy, &trade.LastUpdatedAt, &trade.LastUpdatedBy,
		&statusID, &statusName,
		&typeID, &typeName,
		&subTypeID, &subTypeName,
		&bkID, &bkName, &bkActive,
		&cpID, &cpName, &cpActive,
		&usrID, &usrLogin, &usrActive,
	)
	if err != nil {
		return nil, err
	}

	if statusID != nil {
		trade.Status = &domain.TradeStatus{ID: *statusID, TradeStatus: derefString(statusName)}
	}
	if typeID != nil {
		trade.Type = &domain.TradeType{ID: *typeID, TradeType: derefString(typeName)}
	}
	if subTypeID != nil {
		trade.SubType = &domain.TradeSubType{ID: *subTypeID, TradeSubType: derefString(subTypeName)}
	}
	if bkID != nil {
		trade.Book = &domain.Book{ID: *bkID, BookName: derefString(bkName), Active: derefBool(bkActive)}
	}
	if cpID != nil {
		trade.Counterparty = &domain.Counterparty{ID: *cpID, Name: derefString(cpName), Active: derefBool(cpActive)}
	}
	if usrID != nil {
		trade.TraderUser = &domain.ApplicationUser{ID: *usrID, LoginID: derefString(usrLogin), Active: derefBool(usrActive)}
	}
	return &trade, nil
}

func scanLeg(row pgx.Row) (*domain.TradeLeg, error) {
	var (
		leg                                        domain.TradeLeg
		legTypeID, payRecID, ccyID, ixID           *int64
		schedID, payBdcID, fixBdcID, calID         *int64
		legTypeName, payRecName, ccyName, ixName   *string
		schedName, payBdcName, fixBdcName, calName *string
	)
	err := row.Scan(
		&leg.LegID, &leg.TradeRowID, &leg.Notional, &leg.Rate,
		&legTypeID, &legTypeName,
		&payRecID, &payRecName,
		&ccyID, &ccyName,
		&ixID, &ixName,
		&schedID, &schedName,
		&payBdcID, &payBdcName,
		&fixBdcID, &fixBdcName,
		&calID, &calName,
	)
	if err != nil {
		return nil, err
	}

	if legTypeID != nil {
		leg.LegType = &domain.LegType{ID: *legTypeID, Type: derefString(legTypeName)}
	}
	if payRecID != nil {
		leg.PayReceive = &domain.PayRec{ID: *payRecID, PayRec: derefString(payRecName)}
	}
	if ccyID != nil {
		leg.Currency = &domain.Currency{ID: *ccyID, Currency: derefString(ccyName)}
	}
	if ixID != nil {
		leg.Index = &domain.RateIndex{ID: *ixID, Index: derefString(ixName)}
	}
	if schedID != nil {
		leg.CalculationPeriodSchedule = &domain.Schedule{ID: *schedID, Schedule: derefString(schedName)}
	}
	if payBdcID != nil {
		leg.PaymentBDC = &domain.BusinessDayConvention{ID: *payBdcID, BDC: derefString(payBdcName)}
	}
	if fixBdcID != nil {
		leg.FixingBDC = &domain.BusinessDayConvention{ID: *fixBdcID, BDC: derefString(fixBdcName)}
	}
	if calID != nil {
		leg.HolidayCalendar = &domain.HolidayCalendar{ID: *calID, Calendar: derefString(calName)}
	}
	return &leg, nil
}

// Nullable FK helpers. pgx maps a nil *int64 to SQL NULL.

func refID(s *domain.TradeStatus) *int64 {
	if s == nil {
		return nil
	}
	return &s.ID
}

func refTypeID(t *domain.TradeType) *int64 {
	if t == nil {
		return nil
	}
	return &t.ID
}

func refSubTypeID(t *domain.TradeSubType) *int64 {
	if t == nil {
		return nil
	}
	return &t.ID
}

func bookID(b *domain.Book) *int64 {
	if b == nil {
		return nil
	}
	return &b.ID
}

func counterpartyID(c *domain.Counterparty) *int64 {
	if c == nil {
		return nil
	}
	return &c.ID
}

func userID(u *domain.ApplicationUser) *int64 {
	if u == nil {
		return nil
	}
	return &u.ID
}

func legTypeID(t *domain.LegType) *int64 {
	if t == nil {
		return nil
	}
	return &t.ID
}

func payRecID(p *domain.PayRec) *int64 {
	if p == nil {
		return nil
	}
	return &p.ID
}

func currencyID(c *domain.Currency) *int64 {
	if c == nil {
		return nil
	}
	return &c.ID
}

func indexID(i *domain.RateIndex) *int64 {
	if i == nil {
		return nil
	}
	return &i.ID
}

func scheduleID(s *domain.Schedule) *int64 {
	if s == nil {
		return nil
	}
	return &s.ID
}

func bdcID(b *domain.BusinessDayConvention) *int64 {
	if b == nil {
		return nil
	}
	return &b.ID
}

func calendarID(h *domain.HolidayCalendar) *int64 {
	if h == nil {
		return nil
	}
	return &h.ID
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefBool(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}
