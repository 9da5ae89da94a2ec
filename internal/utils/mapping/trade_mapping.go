package mapping

import (
	"github.com/fxdesk/tradebook/internal/core/domain"
	"github.com/fxdesk/tradebook/internal/dto"
)

// ToTradeResponse maps a materialized trade version to its API shape.
func ToTradeResponse(trade domain.Trade) dto.TradeResponse {
	response := dto.TradeResponse{
		TradeID:           trade.TradeID,
		Version:           trade.Version,
		Active:            trade.Active,
		TradeDate:         trade.TradeDate,
		TradeStartDate:    trade.TradeStartDate,
		TradeMaturityDate: trade.TradeMaturityDate,
		UTICode:           trade.UTICode,
		TradeLegs:         make([]dto.TradeLegResponse, 0, len(trade.Legs)),
	}
	if trade.Status != nil {
		response.TradeStatus = trade.Status.TradeStatus
	}
	if trade.Type != nil {
		response.TradeType = trade.Type.TradeType
	}
	if trade.SubType != nil {
		response.TradeSubType = trade.SubType.TradeSubType
	}
	if trade.Book != nil {
		response.BookName = trade.Book.BookName
	}
	if trade.Counterparty != nil {
		response.CounterpartyName = trade.Counterparty.Name
	}
	if trade.TraderUser != nil {
		response.TraderUserID = trade.TraderUser.ID
	}
	for _, leg := range trade.Legs {
		response.TradeLegs = append(response.TradeLegs, toTradeLegResponse(leg))
	}
	return response
}

// ToTradeResponses maps a slice of trades, returning an empty (non-nil) slice
// for empty input so list endpoints serialize [] instead of null.
func ToTradeResponses(trades []domain.Trade) []dto.TradeResponse {
	responses := make([]dto.TradeResponse, 0, len(trades))
	for _, trade := range trades {
		responses = append(responses, ToTradeResponse(trade))
	}
	return responses
}

func toTradeLegResponse(leg domain.TradeLeg) dto.TradeLegResponse {
	response := dto.TradeLegResponse{
		LegID:     leg.LegID,
		Notional:  leg.Notional,
		Rate:      leg.Rate,
		Cashflows: make([]dto.CashflowResponse, 0, len(leg.Cashflows)),
	}
	if leg.LegType != nil {
		response.LegType = leg.LegType.Type
	}
	if leg.PayReceive != nil {
		response.PayReceiveFlag = leg.PayReceive.PayRec
	}
	if leg.Currency != nil {
		response.Currency = leg.Currency.Currency
	}
	if leg.Index != nil {
		response.IndexName = leg.Index.Index
	}
	if leg.CalculationPeriodSchedule != nil {
		response.Schedule = leg.CalculationPeriodSchedule.Schedule
	}
	if leg.PaymentBDC != nil {
		response.PaymentBDC = leg.PaymentBDC.BDC
	}
	if leg.FixingBDC != nil {
		response.FixingBDC = leg.FixingBDC.BDC
	}
	if leg.HolidayCalendar != nil {
		response.HolidayCalendar = leg.HolidayCalendar.Calendar
	}
	for _, flow := range leg.Cashflows {
		response.Cashflows = append(response.Cashflows, dto.CashflowResponse{
			ValueDate:     flow.ValueDate,
			Notional:      flow.Notional,
			SequenceIndex: flow.SequenceIndex,
		})
	}
	return response
}
