package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/fxdesk/tradebook/internal/core/domain"
	"github.com/fxdesk/tradebook/internal/dto"
	"github.com/shopspring/decimal"
)

// maxTradeDateAgeDays is how far in the past a trade date may lie relative to
// the evaluation date before booking is rejected as stale.
const maxTradeDateAgeDays = 30

// ValidateTradeBusinessRules checks the date relationships of a proposed trade
// against the given evaluation date. It performs no I/O.
func ValidateTradeBusinessRules(trade dto.TradeRequest, today time.Time) *Result {
	result := NewResult()

	tradeDate := trade.TradeDate
	startDate := trade.TradeStartDate
	maturityDate := trade.TradeMaturityDate

	if tradeDate != nil {
		if tradeDate.Before(today.AddDate(0, 0, -maxTradeDateAgeDays)) {
			result.AddError("tradeDate", "Trade date must not be more than 30 days before today's date", SeverityError)
		}
	} else {
		result.AddError("tradeDate", "Trade date is required", SeverityError)
	}

	if startDate != nil {
		if tradeDate != nil && startDate.Before(*tradeDate) {
			result.AddError("tradeStartDate", "Start date cannot be before trade date", SeverityError)
		}
	} else {
		result.AddError("tradeStartDate", "Trade start date is required", SeverityError)
	}

	if maturityDate != nil {
		if (startDate != nil && !maturityDate.After(*startDate)) ||
			(tradeDate != nil && maturityDate.Before(*tradeDate)) {
			result.AddError("tradeMaturityDate", "Maturity date cannot be before start date or trade date", SeverityError)
		}
	} else {
		result.AddError("tradeMaturityDate", "Trade maturity date is required", SeverityError)
	}

	return result
}

// ValidateTradeLegConsistency checks the structural and per-leg rules of a
// proposed trade's legs. A leg count other than two fails immediately with a
// single diagnostic and no per-leg checks.
func ValidateTradeLegConsistency(legs []dto.TradeLegRequest) *Result {
	result := NewResult()

	if len(legs) != 2 {
		result.AddError("tradeLegs", "Trade must have exactly two legs", SeverityError)
		return result
	}

	leg1, leg2 := legs[0], legs[1]
	if !isBlank(leg1.PayReceiveFlag) && !isBlank(leg2.PayReceiveFlag) {
		if strings.EqualFold(leg1.PayReceiveFlag, leg2.PayReceiveFlag) {
			result.AddError("payReceiveFlag",
				"Legs must have opposite pay/receive flags (one PAY, one RECEIVE)", SeverityError)
		}
	} else {
		result.AddError("payReceiveFlag", "Both legs must specify a pay/receive flag", SeverityError)
	}

	for i, leg := range legs {
		prefix := fmt.Sprintf("leg[%d]", i+1)

		if isBlank(leg.LegType) {
			result.AddError(prefix+".legType", "Leg type not set", SeverityError)
		}

		if isBlank(leg.PayReceiveFlag) {
			result.AddError(prefix+".payReceiveFlag", "Pay/Receive flag not set", SeverityError)
		}

		if leg.CurrencyID == nil && isBlank(leg.Currency) {
			result.AddError(prefix+".currency", "Currency not set", SeverityError)
		}

		if leg.ScheduleID == nil && isBlank(leg.CalculationPeriodSchedule) {
			result.AddError(prefix+".schedule", "Schedule not set", SeverityError)
		}

		if leg.PaymentBDCID == nil && isBlank(leg.PaymentBusinessDayConvention) {
			result.AddError(prefix+".businessDayConvention", "Payment Business day convention not set", SeverityError)
		}

		if leg.FixingBDCID == nil && isBlank(leg.FixingBusinessDayConvention) {
			result.AddError(prefix+".businessDayConvention", "Fixing Business day convention not set", SeverityError)
		}

		if leg.HolidayCalendarID == nil && isBlank(leg.HolidayCalendar) {
			result.AddError(prefix+".holidayCalendar", "Holiday calendar not set", SeverityError)
		}

		if strings.EqualFold(leg.LegType, domain.LegTypeFixed) {
			if leg.Rate == nil {
				result.AddError(prefix+".rate", "Fixed leg must have a rate specified", SeverityError)
			} else if *leg.Rate <= 0 {
				result.AddError(prefix+".rate", "Fixed leg must have a rate greater than zero", SeverityError)
			}
		}

		if strings.EqualFold(leg.LegType, domain.LegTypeFloating) {
			if leg.IndexID == nil && isBlank(leg.IndexName) {
				result.AddError(prefix+".index", "Floating legs must have an index specified", SeverityError)
			}
		}

		if leg.Notional == nil || leg.Notional.LessThanOrEqual(decimal.Zero) {
			result.AddError(prefix+".notional", "Leg must have a positive notional", SeverityError)
		}
	}

	return result
}

// ValidateReferenceData checks the resolved reference-data graph of a trade.
// The book ownership walk (cost center, sub-desk, desk) stops at the first
// missing link; deeper links cannot be reported once the walk is broken.
func ValidateReferenceData(trade *domain.Trade) *Result {
	result := NewResult()

	if trade.Book == nil {
		result.AddError("book", "Book not found or not set", SeverityError)
	} else {
		if !trade.Book.Active {
			result.AddError("book", "Book must be active", SeverityError)
		}
		costCenter := trade.Book.CostCenter
		if costCenter == nil {
			result.AddError("costCenter", "Book has no associated cost center", SeverityError)
		} else {
			subDesk := costCenter.SubDesk
			if subDesk == nil {
				result.AddError("subDesk", "Cost center has no associated subdesk", SeverityError)
			} else if subDesk.Desk == nil {
				result.AddError("desk", "Subdesk has no associated desk", SeverityError)
			}
		}
	}

	if trade.Counterparty == nil {
		result.AddError("counterparty", "Counterparty not found or not set", SeverityError)
	} else if !trade.Counterparty.Active {
		result.AddError("counterparty", "Counterparty must be active", SeverityError)
	}

	if trade.TraderUser == nil {
		result.AddError("traderUser", "Trader User not found or not set", SeverityError)
	} else if !trade.TraderUser.Active {
		result.AddError("traderUser", "Trader User must be active", SeverityError)
	}

	if trade.Status == nil {
		result.AddError("tradeStatus", "Trade status not found or not set", SeverityError)
	}
	if trade.Type == nil {
		result.AddError("tradeType", "Trade type not found or not set", SeverityError)
	}
	if trade.SubType == nil {
		result.AddError("tradeSubType", "Trade sub-type not found or not set", SeverityError)
	}

	return result
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
