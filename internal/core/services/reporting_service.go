package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fxdesk/tradebook/internal/core/domain"
	portsrepo "github.com/fxdesk/tradebook/internal/core/ports/repositories"
	portssvc "github.com/fxdesk/tradebook/internal/core/ports/services"
	"github.com/fxdesk/tradebook/internal/middleware"
	"github.com/shopspring/decimal"
)

// reportingService serves read-only dashboard aggregations over already
// validated trades. It sits outside the lifecycle engine's concurrency
// boundary and never writes.
type reportingService struct {
	tradeRepo  portsrepo.TradeReader
	refData    portsrepo.RefDataReader
	privileges portssvc.PrivilegeChecker
}

// NewReportingService creates a new reporting service.
func NewReportingService(tradeRepo portsrepo.TradeReader, refData portsrepo.RefDataReader, privileges portssvc.PrivilegeChecker) portssvc.ReportingSvcFacade {
	return &reportingService{
		tradeRepo:  tradeRepo,
		refData:    refData,
		privileges: privileges,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// GetTradeSummary aggregates one trader's active trades: counts per status
// (zero-backfilled from the full status set), notional per book and in total.
func (s *reportingService) GetTradeSummary(ctx context.Context, traderID int64, userID string) (*domain.TradeSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.privileges.Authorize(ctx, userID, domain.ActionView); err != nil {
		logger.Warn("Authorization failed for GetTradeSummary", slog.String("user_id", userID), slog.Int64("trader_id", traderID))
		return nil, err
	}

	trades, err := s.tradeRepo.SearchTrades(ctx, domain.TradeSearchCriteria{TraderID: &traderID})
	if err != nil {
		logger.Error("Failed to load trades for summary", slog.String("error", err.Error()), slog.Int64("trader_id", traderID))
		return nil, fmt.Errorf("failed to load trades for summary: %w", err)
	}

	statuses, err := s.refData.ListTradeStatuses(ctx)
	if err != nil {
		logger.Error("Failed to load trade statuses for summary", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load trade statuses: %w", err)
	}

	summary := &domain.TradeSummary{
		TraderID:       traderID,
		SummaryDate:    time.Now().UTC(),
		TotalTrades:    len(trades),
		TradesByStatus: summariseStatuses(trades, statuses),
		NotionalByBook: map[string]decimal.Decimal{},
		TotalNotional:  decimal.Zero,
	}

	for _, trade := range trades {
		bookName := ""
		if trade.Book != nil {
			bookName = trade.Book.BookName
		}
		for _, leg := range trade.Legs {
			summary.TotalNotional = summary.TotalNotional.Add(leg.Notional)
			if bookName != "" {
				current, ok := summary.NotionalByBook[bookName]
				if !ok {
					current = decimal.Zero
				}
				summary.NotionalByBook[bookName] = current.Add(leg.Notional)
			}
		}
	}

	logger.Debug("Trade summary generated", slog.Int64("trader_id", traderID), slog.Int("trade_count", len(trades)))
	return summary, nil
}

// summariseStatuses merges the observed per-status counts with the full status
// reference set so absent statuses report zero. Two explicit maps, no shared
// check-and-insert container.
func summariseStatuses(trades []domain.Trade, statuses []domain.TradeStatus) map[string]int {
	observed := make(map[string]int, len(trades))
	for _, trade := range trades {
		if trade.Status != nil {
			observed[trade.Status.TradeStatus]++
		}
	}

	merged := make(map[string]int, len(statuses))
	for _, status := range statuses {
		merged[status.TradeStatus] = observed[status.TradeStatus]
	}
	// Statuses seen on trades but missing from reference data still count.
	for name, count := range observed {
		if _, ok := merged[name]; !ok {
			merged[name] = count
		}
	}
	return merged
}
