package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cashflow is one scheduled payment obligation derived from a leg. Cashflows are
// created by the generator during trade creation/amendment and never mutated; they
// are removed only by cascading deletion of their owning leg.
type Cashflow struct {
	ID            int64           `json:"id"`
	LegID         int64           `json:"legId"` // FK -> TradeLeg.LegID
	ValueDate     time.Time       `json:"valueDate"`
	Notional      decimal.Decimal `json:"notional"` // full leg notional; no amortisation
	SequenceIndex int             `json:"sequenceIndex"`
}
