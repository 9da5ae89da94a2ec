package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fxdesk/tradebook/internal/apperrors"
	"github.com/fxdesk/tradebook/internal/core/cashflow"
	"github.com/fxdesk/tradebook/internal/core/domain"
	portsrepo "github.com/fxdesk/tradebook/internal/core/ports/repositories"
	portssvc "github.com/fxdesk/tradebook/internal/core/ports/services"
	"github.com/fxdesk/tradebook/internal/core/validation"
	"github.com/fxdesk/tradebook/internal/dto"
	"github.com/fxdesk/tradebook/internal/middleware"
	"github.com/fxdesk/tradebook/internal/query/rsql"
)

// ErrTradeNotFound is returned when no active version exists for a trade id.
var ErrTradeNotFound = fmt.Errorf("%w: Trade not found", apperrors.ErrNotFound)

// tradeService is the trade lifecycle engine. It orchestrates validation and
// cashflow generation against the reference data gateway, owns the versioning
// state machine, and is the only component that persists trade state.
type tradeService struct {
	tradeRepo  portsrepo.TradeRepositoryFacade
	refData    portsrepo.RefDataReader
	privileges portssvc.PrivilegeChecker
}

// NewTradeService creates a new trade lifecycle service.
func NewTradeService(tradeRepo portsrepo.TradeRepositoryFacade, refData portsrepo.RefDataReader, privileges portssvc.PrivilegeChecker) portssvc.TradeSvcFacade {
	return &tradeService{
		tradeRepo:  tradeRepo,
		refData:    refData,
		privileges: privileges,
	}
}

var _ portssvc.TradeSvcFacade = (*tradeService)(nil)

// CreateTrade books a new trade at version 1 in status NEW after running the
// full validation pipeline. Nothing is persisted when any check fails.
func (s *tradeService) CreateTrade(ctx context.Context, req dto.TradeRequest, userID string) (*domain.Trade, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.privileges.Authorize(ctx, userID, domain.ActionCreate); err != nil {
		logger.Warn("Authorization failed for CreateTrade", slog.String("user_id", userID), slog.String("error", err.Error()))
		return nil, err
	}

	trade, err := s.validateAndResolve(ctx, req, domain.StatusNew, userID)
	if err != nil {
		return nil, err
	}

	if req.TradeID != nil {
		maxVersion, err := s.tradeRepo.FindMaxVersion(ctx, *req.TradeID)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing versions for trade %d: %w", *req.TradeID, err)
		}
		if maxVersion > 0 {
			return nil, fmt.Errorf("%w: trade %d already exists", apperrors.ErrConflict, *req.TradeID)
		}
		trade.TradeID = *req.TradeID
	} else {
		tradeID, err := s.tradeRepo.NextTradeID(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to allocate trade id: %w", err)
		}
		trade.TradeID = tradeID
	}

	now := time.Now().UTC()
	trade.Version = 1
	trade.Active = true
	trade.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
	if trade.UTICode == "" {
		trade.UTICode = uuid.NewString()
	}

	if err := s.generateCashflows(trade); err != nil {
		return nil, err
	}

	if err := s.tradeRepo.SaveTrade(ctx, trade); err != nil {
		logger.Error("Failed to save trade", slog.String("error", err.Error()), slog.Int64("trade_id", trade.TradeID))
		return nil, fmt.Errorf("failed to save trade %d: %w", trade.TradeID, err)
	}

	logger.Info("Trade created", slog.Int64("trade_id", trade.TradeID), slog.Int("version", trade.Version))
	return trade, nil
}

// AmendTrade books version N+1 of an existing trade, deactivating version N.
// Fields absent from the proposal are copied forward from the active version;
// legs and cashflows are always regenerated from scratch.
func (s *tradeService) AmendTrade(ctx context.Context, tradeID int64, req dto.TradeRequest, userID string) (*domain.Trade, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.privileges.Authorize(ctx, userID, domain.ActionAmend); err != nil {
		logger.Warn("Authorization failed for AmendTrade", slog.String("user_id", userID), slog.Int64("trade_id", tradeID), slog.String("error", err.Error()))
		return nil, err
	}

	current, err := s.tradeRepo.FindActiveByTradeID(ctx, tradeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrTradeNotFound
		}
		return nil, fmt.Errorf("failed to load active version of trade %d: %w", tradeID, err)
	}

	effective := copyForward(req, current)

	amended, err := s.validateAndResolve(ctx, effective, domain.StatusAmended, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	amended.TradeID = tradeID
	amended.Version = current.Version + 1
	amended.Active = true
	amended.UTICode = current.UTICode
	amended.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	if err := s.generateCashflows(amended); err != nil {
		return nil, err
	}

	previous := *current
	previous.Active = false
	previous.LastUpdatedAt = now
	previous.LastUpdatedBy = userID

	if err := s.tradeRepo.SaveAmendment(ctx, &previous, amended); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Concurrent amendment lost the version race", slog.Int64("trade_id", tradeID), slog.Int("version", current.Version))
			return nil, err
		}
		logger.Error("Failed to save amendment", slog.String("error", err.Error()), slog.Int64("trade_id", tradeID))
		return nil, fmt.Errorf("failed to save amendment of trade %d: %w", tradeID, err)
	}

	logger.Info("Trade amended", slog.Int64("trade_id", tradeID), slog.Int("version", amended.Version))
	return amended, nil
}

// CancelTrade transitions the active version to CANCELLED. No new version is
// created and no cashflows are regenerated.
func (s *tradeService) CancelTrade(ctx context.Context, tradeID int64, userID string) (*domain.Trade, error) {
	return s.transitionStatus(ctx, tradeID, userID, domain.ActionCancel, domain.StatusCancelled)
}

// TerminateTrade transitions the active version to TERMINATED.
func (s *tradeService) TerminateTrade(ctx context.Context, tradeID int64, userID string) (*domain.Trade, error) {
	return s.transitionStatus(ctx, tradeID, userID, domain.ActionTerminate, domain.StatusTerminated)
}

// DeleteTrade is a soft delete: it shares the cancellation transition so the
// two paths cannot diverge. No row is physically removed.
func (s *tradeService) DeleteTrade(ctx context.Context, tradeID int64, userID string) error {
	_, err := s.CancelTrade(ctx, tradeID, userID)
	return err
}

// GetTradeByID retrieves the active version of a trade with legs and cashflows.
func (s *tradeService) GetTradeByID(ctx context.Context, tradeID int64, userID string) (*domain.Trade, error) {
	if err := s.privileges.Authorize(ctx, userID, domain.ActionView); err != nil {
		return nil, err
	}
	trade, err := s.tradeRepo.FindActiveByTradeID(ctx, tradeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrTradeNotFound
		}
		return nil, fmt.Errorf("failed to find trade %d: %w", tradeID, err)
	}
	return trade, nil
}

// ListTrades retrieves the active version of every trade.
func (s *tradeService) ListTrades(ctx context.Context, userID string) ([]domain.Trade, error) {
	if err := s.privileges.Authorize(ctx, userID, domain.ActionView); err != nil {
		return nil, err
	}
	trades, err := s.tradeRepo.ListActiveTrades(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	return trades, nil
}

// SearchTrades retrieves active trades matching the fixed filter fields. Filter
// ids referencing unknown reference data are a rejection, not an empty result.
func (s *tradeService) SearchTrades(ctx context.Context, criteria domain.TradeSearchCriteria, userID string) ([]domain.Trade, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.privileges.Authorize(ctx, userID, domain.ActionView); err != nil {
		return nil, err
	}

	if err := s.validateSearchParameters(ctx, criteria); err != nil {
		return nil, err
	}

	trades, err := s.tradeRepo.SearchTrades(ctx, criteria)
	if err != nil {
		logger.Error("Trade search failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to search trades: %w", err)
	}
	return trades, nil
}

// GetTradesByFilter compiles an RSQL-style filter expression and retrieves the
// matching active trades. Parse failures never reach the repository.
func (s *tradeService) GetTradesByFilter(ctx context.Context, expression string, userID string) ([]domain.Trade, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.privileges.Authorize(ctx, userID, domain.ActionView); err != nil {
		return nil, err
	}

	filter, err := rsql.Parse(expression)
	if err != nil {
		logger.Warn("Invalid filter expression", slog.String("expression", expression), slog.String("error", err.Error()))
		return nil, err
	}

	trades, err := s.tradeRepo.FindByFilter(ctx, filter)
	if err != nil {
		if errors.Is(err, apperrors.ErrQueryCompilation) {
			return nil, err
		}
		logger.Error("Filtered trade query failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to query trades by filter: %w", err)
	}
	return trades, nil
}

// validateSearchParameters checks date ordering and the existence of every
// referenced filter id, aggregating all failures into one rejection.
func (s *tradeService) validateSearchParameters(ctx context.Context, criteria domain.TradeSearchCriteria) error {
	var messages []string

	if criteria.LatestTradeDate != nil && criteria.EarliestTradeDate != nil &&
		criteria.LatestTradeDate.Before(*criteria.EarliestTradeDate) {
		messages = append(messages, "Earliest date must be before latest date")
	}
	if criteria.TradeStatusID != nil {
		exists, err := s.refData.ExistsTradeStatusByID(ctx, *criteria.TradeStatusID)
		if err != nil {
			return fmt.Errorf("failed to check trade status id: %w", err)
		}
		if !exists {
			messages = append(messages, "Trade status ID does not exist in the database")
		}
	}
	if criteria.TraderID != nil {
		exists, err := s.refData.ExistsUserByID(ctx, *criteria.TraderID)
		if err != nil {
			return fmt.Errorf("failed to check trader user id: %w", err)
		}
		if !exists {
			messages = append(messages, "Trader user ID does not exist in the database")
		}
	}
	if criteria.BookID != nil {
		exists, err := s.refData.ExistsBookByID(ctx, *criteria.BookID)
		if err != nil {
			return fmt.Errorf("failed to check book id: %w", err)
		}
		if !exists {
			messages = append(messages, "Book ID does not exist in the database")
		}
	}
	if criteria.CounterpartyID != nil {
		exists, err := s.refData.ExistsCounterpartyByID(ctx, *criteria.CounterpartyID)
		if err != nil {
			return fmt.Errorf("failed to check counterparty id: %w", err)
		}
		if !exists {
			messages = append(messages, "Counterparty ID does not exist in the database")
		}
	}

	if len(messages) > 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.Join(messages, "; "))
	}
	return nil
}

// validateAndResolve runs the full validation pipeline over a proposal and
// returns the resolved trade graph. The three checks and the leg reference
// resolution all accumulate into one result so callers see every diagnostic.
func (s *tradeService) validateAndResolve(ctx context.Context, req dto.TradeRequest, defaultStatus string, userID string) (*domain.Trade, error) {
	result := validation.ValidateTradeBusinessRules(req, time.Now().UTC())
	result.Merge(validation.ValidateTradeLegConsistency(req.TradeLegs))

	statusName := req.TradeStatus
	if statusName == "" {
		statusName = defaultStatus
	}

	trade, err := s.resolveTradeRefs(ctx, req, statusName)
	if err != nil {
		return nil, err
	}
	result.Merge(validation.ValidateReferenceData(trade))

	legs, legResult, err := s.resolveLegs(ctx, req.TradeLegs)
	if err != nil {
		return nil, err
	}
	result.Merge(legResult)

	if err := result.Err(); err != nil {
		return nil, err
	}

	trade.Legs = legs
	return trade, nil
}

// resolveTradeRefs looks up the trade-level reference data by id or name.
// Missing rows resolve to nil and are reported by ValidateReferenceData; only
// infrastructure failures return an error.
func (s *tradeService) resolveTradeRefs(ctx context.Context, req dto.TradeRequest, statusName string) (*domain.Trade, error) {
	trade := &domain.Trade{UTICode: req.UTICode}
	if req.TradeDate != nil {
		trade.TradeDate = *req.TradeDate
	}
	if req.TradeStartDate != nil {
		trade.TradeStartDate = *req.TradeStartDate
	}
	if req.TradeMaturityDate != nil {
		trade.TradeMaturityDate = *req.TradeMaturityDate
	}

	var err error
	if req.BookID != nil {
		trade.Book, err = swallowNotFound(s.refData.FindBookByID(ctx, *req.BookID))
	} else if req.BookName != "" {
		trade.Book, err = swallowNotFound(s.refData.FindBookByName(ctx, req.BookName))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve book: %w", err)
	}

	if req.CounterpartyID != nil {
		trade.Counterparty, err = swallowNotFound(s.refData.FindCounterpartyByID(ctx, *req.CounterpartyID))
	} else if req.CounterpartyName != "" {
		trade.Counterparty, err = swallowNotFound(s.refData.FindCounterpartyByName(ctx, req.CounterpartyName))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve counterparty: %w", err)
	}

	if req.TraderUserID != nil {
		trade.TraderUser, err = swallowNotFound(s.refData.FindUserByID(ctx, *req.TraderUserID))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve trader user: %w", err)
		}
	}

	trade.Status, err = swallowNotFound(s.refData.FindTradeStatusByName(ctx, statusName))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve trade status: %w", err)
	}

	if req.TradeTypeID != nil {
		trade.Type, err = swallowNotFound(s.refData.FindTradeTypeByID(ctx, *req.TradeTypeID))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve trade type: %w", err)
		}
	}
	if req.TradeSubTypeID != nil {
		trade.SubType, err = swallowNotFound(s.refData.FindTradeSubTypeByID(ctx, *req.TradeSubTypeID))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve trade sub-type: %w", err)
		}
	}

	return trade, nil
}

// resolveLegs looks up per-leg reference data. A provided-but-unknown reference
// becomes a field diagnostic on the leg; absent references are left for the
// consistency check to flag.
func (s *tradeService) resolveLegs(ctx context.Context, legs []dto.TradeLegRequest) ([]domain.TradeLeg, *validation.Result, error) {
	result := validation.NewResult()
	resolved := make([]domain.TradeLeg, 0, len(legs))

	for i, legReq := range legs {
		prefix := fmt.Sprintf("leg[%d]", i+1)
		leg := domain.TradeLeg{}
		if legReq.Notional != nil {
			leg.Notional = *legReq.Notional
		}
		if legReq.Rate != nil {
			leg.Rate = decimal.NewFromFloat(*legReq.Rate)
		}

		var err error
		if legReq.LegType != "" {
			leg.LegType, err = swallowNotFound(s.refData.FindLegTypeByName(ctx, legReq.LegType))
			if err != nil {
				return nil, nil, fmt.Errorf("failed to resolve leg type: %w", err)
			}
			if leg.LegType == nil {
				result.AddError(prefix+".legType", "Leg type not found", validation.SeverityError)
			}
		}

		if legReq.PayReceiveFlag != "" {
			leg.PayReceive, err = swallowNotFound(s.refData.FindPayRecByName(ctx, legReq.PayReceiveFlag))
			if err != nil {
				return nil, nil, fmt.Errorf("failed to resolve pay/receive flag: %w", err)
			}
			if leg.PayReceive == nil {
				result.AddError(prefix+".payReceiveFlag", "Pay/Receive flag not found", validation.SeverityError)
			}
		}

		if legReq.CurrencyID != nil {
			leg.Currency, err = swallowNotFound(s.refData.FindCurrencyByID(ctx, *legReq.CurrencyID))
		} else if legReq.Currency != "" {
			leg.Currency, err = swallowNotFound(s.refData.FindCurrencyByName(ctx, legReq.Currency))
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve currency: %w", err)
		}
		if leg.Currency == nil && (legReq.CurrencyID != nil || legReq.Currency != "") {
			result.AddError(prefix+".currency", "Currency not found", validation.SeverityError)
		}

		if legReq.ScheduleID != nil {
			leg.CalculationPeriodSchedule, err = swallowNotFound(s.refData.FindScheduleByID(ctx, *legReq.ScheduleID))
		} else if legReq.CalculationPeriodSchedule != "" {
			leg.CalculationPeriodSchedule, err = swallowNotFound(s.refData.FindScheduleByName(ctx, legReq.CalculationPeriodSchedule))
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve schedule: %w", err)
		}
		if leg.CalculationPeriodSchedule == nil && (legReq.ScheduleID != nil || legReq.CalculationPeriodSchedule != "") {
			result.AddError(prefix+".schedule", "Schedule not found", validation.SeverityError)
		}

		if legReq.PaymentBDCID != nil {
			leg.PaymentBDC, err = swallowNotFound(s.refData.FindBDCByID(ctx, *legReq.PaymentBDCID))
		} else if legReq.PaymentBusinessDayConvention != "" {
			leg.PaymentBDC, err = swallowNotFound(s.refData.FindBDCByName(ctx, legReq.PaymentBusinessDayConvention))
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve payment business day convention: %w", err)
		}
		if leg.PaymentBDC == nil && (legReq.PaymentBDCID != nil || legReq.PaymentBusinessDayConvention != "") {
			result.AddError(prefix+".businessDayConvention", "Payment business day convention not found", validation.SeverityError)
		}

		if legReq.FixingBDCID != nil {
			leg.FixingBDC, err = swallowNotFound(s.refData.FindBDCByID(ctx, *legReq.FixingBDCID))
		} else if legReq.FixingBusinessDayConvention != "" {
			leg.FixingBDC, err = swallowNotFound(s.refData.FindBDCByName(ctx, legReq.FixingBusinessDayConvention))
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve fixing business day convention: %w", err)
		}
		if leg.FixingBDC == nil && (legReq.FixingBDCID != nil || legReq.FixingBusinessDayConvention != "") {
			result.AddError(prefix+".businessDayConvention", "Fixing business day convention not found", validation.SeverityError)
		}

		if legReq.HolidayCalendarID != nil {
			leg.HolidayCalendar, err = swallowNotFound(s.refData.FindHolidayCalendarByID(ctx, *legReq.HolidayCalendarID))
		} else if legReq.HolidayCalendar != "" {
			leg.HolidayCalendar, err = swallowNotFound(s.refData.FindHolidayCalendarByName(ctx, legReq.HolidayCalendar))
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve holiday calendar: %w", err)
		}
		if leg.HolidayCalendar == nil && (legReq.HolidayCalendarID != nil || legReq.HolidayCalendar != "") {
			result.AddError(prefix+".holidayCalendar", "Holiday calendar not found", validation.SeverityError)
		}

		if legReq.IndexID != nil {
			leg.Index, err = swallowNotFound(s.refData.FindIndexByID(ctx, *legReq.IndexID))
		} else if legReq.IndexName != "" {
			leg.Index, err = swallowNotFound(s.refData.FindIndexByName(ctx, legReq.IndexName))
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve index: %w", err)
		}
		if leg.Index == nil && (legReq.IndexID != nil || legReq.IndexName != "") {
			result.AddError(prefix+".index", "Index not found", validation.SeverityError)
		}

		resolved = append(resolved, leg)
	}

	return resolved, result, nil
}

// generateCashflows derives each leg's payment schedule from the trade dates.
// Legs on different schedules produce independently sized sequences.
func (s *tradeService) generateCashflows(trade *domain.Trade) error {
	for i := range trade.Legs {
		leg := &trade.Legs[i]
		if leg.CalculationPeriodSchedule == nil {
			return fmt.Errorf("%w: leg %d has no calculation period schedule", apperrors.ErrValidation, i+1)
		}
		flows, err := cashflow.Generate(trade.TradeStartDate, trade.TradeMaturityDate, leg.CalculationPeriodSchedule.Schedule, leg.Notional)
		if err != nil {
			return err
		}
		leg.Cashflows = flows
	}
	return nil
}

// transitionStatus is the shared terminal-transition path for cancel, terminate
// and delete. It mutates the status of the active version only.
func (s *tradeService) transitionStatus(ctx context.Context, tradeID int64, userID string, action domain.PrivilegeAction, statusName string) (*domain.Trade, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.privileges.Authorize(ctx, userID, action); err != nil {
		logger.Warn("Authorization failed for status transition", slog.String("user_id", userID), slog.Int64("trade_id", tradeID), slog.String("action", string(action)), slog.String("error", err.Error()))
		return nil, err
	}

	current, err := s.tradeRepo.FindActiveByTradeID(ctx, tradeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrTradeNotFound
		}
		return nil, fmt.Errorf("failed to load active version of trade %d: %w", tradeID, err)
	}

	if current.Status != nil && domain.IsTerminalStatus(current.Status.TradeStatus) {
		return nil, fmt.Errorf("%w: trade %d is already %s", apperrors.ErrValidation, tradeID, current.Status.TradeStatus)
	}

	status, err := s.refData.FindTradeStatusByName(ctx, statusName)
	if err != nil {
		return nil, fmt.Errorf("%w: trade status %q is not configured", apperrors.ErrInternal, statusName)
	}

	now := time.Now().UTC()
	if err := s.tradeRepo.UpdateTradeStatus(ctx, current.ID, *status, userID, now); err != nil {
		logger.Error("Failed to update trade status", slog.String("error", err.Error()), slog.Int64("trade_id", tradeID))
		return nil, fmt.Errorf("failed to update status of trade %d: %w", tradeID, err)
	}

	current.Status = status
	current.LastUpdatedAt = now
	current.LastUpdatedBy = userID

	logger.Info("Trade status transitioned", slog.Int64("trade_id", tradeID), slog.String("status", status.TradeStatus))
	return current, nil
}

// copyForward fills fields absent from an amendment proposal with values from
// the current active version, legs included.
func copyForward(req dto.TradeRequest, current *domain.Trade) dto.TradeRequest {
	if req.TradeDate == nil {
		d := current.TradeDate
		req.TradeDate = &d
	}
	if req.TradeStartDate == nil {
		d := current.TradeStartDate
		req.TradeStartDate = &d
	}
	if req.TradeMaturityDate == nil {
		d := current.TradeMaturityDate
		req.TradeMaturityDate = &d
	}
	if req.BookID == nil && req.BookName == "" && current.Book != nil {
		req.BookID = &current.Book.ID
	}
	if req.CounterpartyID == nil && req.CounterpartyName == "" && current.Counterparty != nil {
		req.CounterpartyID = &current.Counterparty.ID
	}
	if req.TraderUserID == nil && current.TraderUser != nil {
		req.TraderUserID = &current.TraderUser.ID
	}
	if req.TradeTypeID == nil && current.Type != nil {
		req.TradeTypeID = &current.Type.ID
	}
	if req.TradeSubTypeID == nil && current.SubType != nil {
		req.TradeSubTypeID = &current.SubType.ID
	}
	if len(req.TradeLegs) == 0 {
		req.TradeLegs = legRequestsFromDomain(current.Legs)
	}
	return req
}

// legRequestsFromDomain converts persisted legs back into proposal form so an
// amendment without legs regenerates them from the current attributes.
func legRequestsFromDomain(legs []domain.TradeLeg) []dto.TradeLegRequest {
	out := make([]dto.TradeLegRequest, len(legs))
	for i, leg := range legs {
		req := dto.TradeLegRequest{}
		notional := leg.Notional
		req.Notional = &notional
		if !leg.Rate.IsZero() {
			rate, _ := leg.Rate.Float64()
			req.Rate = &rate
		}
		if leg.LegType != nil {
			req.LegType = leg.LegType.Type
		}
		if leg.PayReceive != nil {
			req.PayReceiveFlag = leg.PayReceive.PayRec
		}
		if leg.Currency != nil {
			req.CurrencyID = &leg.Currency.ID
		}
		if leg.CalculationPeriodSchedule != nil {
			req.ScheduleID = &leg.CalculationPeriodSchedule.ID
		}
		if leg.PaymentBDC != nil {
			req.PaymentBDCID = &leg.PaymentBDC.ID
		}
		if leg.FixingBDC != nil {
			req.FixingBDCID = &leg.FixingBDC.ID
		}
		if leg.HolidayCalendar != nil {
			req.HolidayCalendarID = &leg.HolidayCalendar.ID
		}
		if leg.Index != nil {
			req.IndexID = &leg.Index.ID
		}
		out[i] = req
	}
	return out
}

// swallowNotFound turns a not-found lookup into a nil value so validation can
// report it as a field diagnostic instead of aborting resolution.
func swallowNotFound[T any](v *T, err error) (*T, error) {
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}
