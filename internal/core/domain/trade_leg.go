package domain

import "github.com/shopspring/decimal"

// Leg type names used by validation and cashflow generation.
const (
	LegTypeFixed    = "Fixed"
	LegTypeFloating = "Floating"
)

// Pay/receive direction names.
const (
	PayFlag     = "PAY"
	ReceiveFlag = "RECEIVE"
)

// TradeLeg is one side of the exchanged cashflows. A trade version owns exactly
// two legs; each leg generates its own independent cashflow sequence.
type TradeLeg struct {
	LegID      int64           `json:"legId"`
	TradeRowID int64           `json:"tradeRowId"` // FK -> Trade.ID (owning version)
	Notional   decimal.Decimal `json:"notional"`
	Rate       decimal.Decimal `json:"rate"` // fixed legs only; zero otherwise

	LegType    *LegType   `json:"legType,omitempty"`
	PayReceive *PayRec    `json:"payReceiveFlag,omitempty"`
	Currency   *Currency  `json:"currency,omitempty"`
	Index      *RateIndex `json:"index,omitempty"` // floating legs only

	CalculationPeriodSchedule *Schedule              `json:"calculationPeriodSchedule,omitempty"`
	PaymentBDC                *BusinessDayConvention `json:"paymentBdc,omitempty"`
	FixingBDC                 *BusinessDayConvention `json:"fixingBdc,omitempty"`
	HolidayCalendar           *HolidayCalendar       `json:"holidayCalendar,omitempty"`

	Cashflows []Cashflow `json:"cashflows,omitempty"`
}
