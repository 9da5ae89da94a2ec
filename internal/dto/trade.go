package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeLegRequest defines one leg of a proposed trade. Reference data may be
// identified by id or by name; validation requires one of the two.
type TradeLegRequest struct {
	LegType        string           `json:"legType"`
	PayReceiveFlag string           `json:"payReceiveFlag"`
	Notional       *decimal.Decimal `json:"notional"`
	Rate           *float64         `json:"rate"` // required for Fixed legs

	CurrencyID *int64 `json:"currencyId"`
	Currency   string `json:"currency"`

	ScheduleID                *int64 `json:"scheduleId"`
	CalculationPeriodSchedule string `json:"calculationPeriodSchedule"`

	PaymentBDCID                 *int64 `json:"paymentBdcId"`
	PaymentBusinessDayConvention string `json:"paymentBusinessDayConvention"`

	FixingBDCID                 *int64 `json:"fixingBdcId"`
	FixingBusinessDayConvention string `json:"fixingBusinessDayConvention"`

	HolidayCalendarID *int64 `json:"holidayCalendarId"`
	HolidayCalendar   string `json:"holidayCalendar"`

	IndexID   *int64 `json:"indexId"` // required for Floating legs (or IndexName)
	IndexName string `json:"indexName"`
}

// TradeRequest defines a proposed trade for create and amend operations.
// Unset fields on amendment are copied forward from the current active version.
type TradeRequest struct {
	TradeID           *int64     `json:"tradeId"`
	TradeDate         *time.Time `json:"tradeDate"`
	TradeStartDate    *time.Time `json:"tradeStartDate"`
	TradeMaturityDate *time.Time `json:"tradeMaturityDate"`
	TradeStatus       string     `json:"tradeStatus"`
	UTICode           string     `json:"utiCode"`

	BookID   *int64 `json:"bookId"`
	BookName string `json:"bookName"`

	CounterpartyID   *int64 `json:"counterpartyId"`
	CounterpartyName string `json:"counterpartyName"`

	TraderUserID   *int64 `json:"traderUserId"`
	TradeTypeID    *int64 `json:"tradeTypeId"`
	TradeSubTypeID *int64 `json:"tradeSubTypeId"`

	TradeLegs []TradeLegRequest `json:"tradeLegs"`
}

// SearchTradesRequest carries the fixed filter fields of the search endpoint.
// Each set field narrows the result via logical AND.
type SearchTradesRequest struct {
	EarliestTradeDate *time.Time `form:"earliestTradeDate" time_format:"2006-01-02" time_utc:"1"`
	LatestTradeDate   *time.Time `form:"latestTradeDate" time_format:"2006-01-02" time_utc:"1"`
	TradeStatusID     *int64     `form:"tradeStatusId"`
	TraderID          *int64     `form:"traderId"`
	BookID            *int64     `form:"bookId"`
	CounterpartyID    *int64     `form:"counterpartyId"`
}

// CashflowResponse defines the data returned for one scheduled payment.
type CashflowResponse struct {
	ValueDate     time.Time       `json:"valueDate"`
	Notional      decimal.Decimal `json:"notional"`
	SequenceIndex int             `json:"sequenceIndex"`
}

// TradeLegResponse defines the data returned for one leg, cashflows included.
type TradeLegResponse struct {
	LegID           int64              `json:"legId"`
	LegType         string             `json:"legType"`
	PayReceiveFlag  string             `json:"payReceiveFlag"`
	Notional        decimal.Decimal    `json:"notional"`
	Rate            decimal.Decimal    `json:"rate"`
	Currency        string             `json:"currency"`
	IndexName       string             `json:"indexName,omitempty"`
	Schedule        string             `json:"calculationPeriodSchedule"`
	PaymentBDC      string             `json:"paymentBusinessDayConvention"`
	FixingBDC       string             `json:"fixingBusinessDayConvention"`
	HolidayCalendar string             `json:"holidayCalendar"`
	Cashflows       []CashflowResponse `json:"cashflows"`
}

// TradeResponse defines the materialized trade returned to callers.
type TradeResponse struct {
	TradeID           int64              `json:"tradeId"`
	Version           int                `json:"version"`
	Active            bool               `json:"active"`
	TradeDate         time.Time          `json:"tradeDate"`
	TradeStartDate    time.Time          `json:"tradeStartDate"`
	TradeMaturityDate time.Time          `json:"tradeMaturityDate"`
	TradeStatus       string             `json:"tradeStatus"`
	TradeType         string             `json:"tradeType,omitempty"`
	TradeSubType      string             `json:"tradeSubType,omitempty"`
	BookName          string             `json:"bookName,omitempty"`
	CounterpartyName  string             `json:"counterpartyName,omitempty"`
	TraderUserID      int64              `json:"traderUserId,omitempty"`
	UTICode           string             `json:"utiCode"`
	TradeLegs         []TradeLegResponse `json:"tradeLegs"`
}

// FieldErrorResponse surfaces one field-scoped validation diagnostic.
type FieldErrorResponse struct {
	Field    string `json:"field"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}
