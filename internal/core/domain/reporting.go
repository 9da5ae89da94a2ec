package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeSummary aggregates a trader's booked trades for the dashboard. Statuses
// with no trades are present with a zero count.
type TradeSummary struct {
	TraderID       int64                      `json:"traderId"`
	SummaryDate    time.Time                  `json:"summaryDate"`
	TotalTrades    int                        `json:"totalTrades"`
	TradesByStatus map[string]int             `json:"tradesByStatus"`
	NotionalByBook map[string]decimal.Decimal `json:"notionalByBook"`
	TotalNotional  decimal.Decimal            `json:"totalNotional"`
}
