package domain

import "time"

// TradeSearchCriteria holds the fixed filter fields of trade search. Every set
// field narrows the result set via logical AND; nil fields are ignored.
type TradeSearchCriteria struct {
	EarliestTradeDate *time.Time
	LatestTradeDate   *time.Time
	TradeStatusID     *int64
	TraderID          *int64
	BookID            *int64
	CounterpartyID    *int64
}
