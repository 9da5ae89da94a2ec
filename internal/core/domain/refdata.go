package domain

// Desk is the top level of the book ownership hierarchy.
type Desk struct {
	ID       int64  `json:"id"`
	DeskName string `json:"deskName"`
}

// SubDesk groups cost centers under a desk.
type SubDesk struct {
	ID          int64  `json:"id"`
	SubDeskName string `json:"subDeskName"`
	Desk        *Desk  `json:"desk,omitempty"`
}

// CostCenter links a book to its sub-desk.
type CostCenter struct {
	ID             int64    `json:"id"`
	CostCenterName string   `json:"costCenterName"`
	SubDesk        *SubDesk `json:"subDesk,omitempty"`
}

// Book is the trading book a trade is booked into.
type Book struct {
	ID         int64       `json:"id"`
	BookName   string      `json:"bookName"`
	Active     bool        `json:"active"`
	CostCenter *CostCenter `json:"costCenter,omitempty"`
}

// Counterparty is the other side of a bilateral trade.
type Counterparty struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// ApplicationUser is a desk user; traders book trades under their own id.
type ApplicationUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	LoginID   string `json:"loginId"`
	Active    bool   `json:"active"`
}

// TradeStatus is a named lifecycle state (NEW, LIVE, AMENDED, ...).
type TradeStatus struct {
	ID          int64  `json:"id"`
	TradeStatus string `json:"tradeStatus"`
}

// TradeType classifies the product (e.g. Swap).
type TradeType struct {
	ID        int64  `json:"id"`
	TradeType string `json:"tradeType"`
}

// TradeSubType refines the trade type (e.g. IR Swap).
type TradeSubType struct {
	ID           int64  `json:"id"`
	TradeSubType string `json:"tradeSubType"`
}

// Currency is an ISO currency reference row.
type Currency struct {
	ID       int64  `json:"id"`
	Currency string `json:"currency"`
}

// RateIndex is a floating-rate index (e.g. SOFR, EURIBOR).
type RateIndex struct {
	ID    int64  `json:"id"`
	Index string `json:"index"`
}

// Schedule is a named payment frequency carrying its tenor code (e.g. "1M", "3M").
type Schedule struct {
	ID       int64  `json:"id"`
	Schedule string `json:"schedule"`
}

// BusinessDayConvention names a date-roll rule for payments or fixings.
type BusinessDayConvention struct {
	ID  int64  `json:"id"`
	BDC string `json:"bdc"`
}

// HolidayCalendar names the calendar used to roll non-business dates.
type HolidayCalendar struct {
	ID       int64  `json:"id"`
	Calendar string `json:"calendar"`
}

// LegType is a reference row for leg classification (Fixed, Floating).
type LegType struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// PayRec is a reference row for the pay/receive direction of a leg.
type PayRec struct {
	ID     int64  `json:"id"`
	PayRec string `json:"payRec"`
}
