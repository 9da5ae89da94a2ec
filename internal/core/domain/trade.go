package domain

import "time"

// Well-known trade status names. The set is open-ended (statuses live in reference
// data) but the lifecycle engine depends on these members existing.
const (
	StatusNew        = "NEW"
	StatusLive       = "LIVE"
	StatusAmended    = "AMENDED"
	StatusTerminated = "TERMINATED"
	StatusCancelled  = "CANCELLED"
	StatusDead       = "DEAD"
)

// IsTerminalStatus reports whether a trade in the named status accepts no further
// lifecycle transitions.
func IsTerminalStatus(status string) bool {
	switch status {
	case StatusTerminated, StatusCancelled, StatusDead:
		return true
	}
	return false
}

// Trade represents one version of a bilateral derivative contract.
// All versions of the same contract share TradeID; exactly one of them is Active.
type Trade struct {
	ID                int64     `json:"id"`      // surrogate row id
	TradeID           int64     `json:"tradeId"` // stable business identifier
	Version           int       `json:"version"` // starts at 1, strictly increasing per TradeID
	Active            bool      `json:"active"`
	TradeDate         time.Time `json:"tradeDate"`
	TradeStartDate    time.Time `json:"tradeStartDate"`
	TradeMaturityDate time.Time `json:"tradeMaturityDate"`
	UTICode           string    `json:"utiCode"` // unique trade confirmation code

	Status       *TradeStatus     `json:"tradeStatus,omitempty"`
	Type         *TradeType       `json:"tradeType,omitempty"`
	SubType      *TradeSubType    `json:"tradeSubType,omitempty"`
	Book         *Book            `json:"book,omitempty"`
	Counterparty *Counterparty    `json:"counterparty,omitempty"`
	TraderUser   *ApplicationUser `json:"traderUser,omitempty"`

	Legs []TradeLeg `json:"tradeLegs,omitempty"`

	AuditFields
}
