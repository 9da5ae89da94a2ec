package pgsql

import "github.com/fxdesk/tradebook/internal/query/rsql"

// Filter-expression schemas for the trade entity graph. These describe the
// filterable properties and their SQL bindings so the query builder never needs
// runtime reflection. All joins are LEFT so a missing related row does not
// eliminate the base row for unrelated filters.

const (
	joinStatus       = "LEFT JOIN trade_statuses ts ON ts.id = t.trade_status_id"
	joinType         = "LEFT JOIN trade_types tt ON tt.id = t.trade_type_id"
	joinSubType      = "LEFT JOIN trade_sub_types tst ON tst.id = t.trade_sub_type_id"
	joinBook         = "LEFT JOIN books b ON b.id = t.book_id"
	joinCounterparty = "LEFT JOIN counterparties cp ON cp.id = t.counterparty_id"
	joinTraderUser   = "LEFT JOIN application_users u ON u.id = t.trader_user_id"
)

var bookSchema = &rsql.Schema{
	Name: "Book",
	Properties: map[string]rsql.Property{
		"id":       {Column: "b.id", Type: rsql.TypeLong},
		"bookName": {Column: "b.book_name", Type: rsql.TypeString},
		"active":   {Column: "b.active", Type: rsql.TypeBool},
	},
}

var counterpartySchema = &rsql.Schema{
	Name: "Counterparty",
	Properties: map[string]rsql.Property{
		"id":     {Column: "cp.id", Type: rsql.TypeLong},
		"name":   {Column: "cp.name", Type: rsql.TypeString},
		"active": {Column: "cp.active", Type: rsql.TypeBool},
	},
}

var traderUserSchema = &rsql.Schema{
	Name: "ApplicationUser",
	Properties: map[string]rsql.Property{
		"id":        {Column: "u.id", Type: rsql.TypeLong},
		"loginId":   {Column: "u.login_id", Type: rsql.TypeString},
		"firstName": {Column: "u.first_name", Type: rsql.TypeString},
		"lastName":  {Column: "u.last_name", Type: rsql.TypeString},
		"active":    {Column: "u.active", Type: rsql.TypeBool},
	},
}

// tradeSchema is the root schema the RSQL endpoint filters against. Dates are
// exposed as ISO text so range operators compare lexicographically, which for
// ISO dates matches chronological order.
var tradeSchema = &rsql.Schema{
	Name: "Trade",
	Properties: map[string]rsql.Property{
		"tradeId":           {Column: "t.trade_id", Type: rsql.TypeLong},
		"version":           {Column: "t.version", Type: rsql.TypeInt},
		"active":            {Column: "t.active", Type: rsql.TypeBool},
		"utiCode":           {Column: "t.uti_code", Type: rsql.TypeString},
		"tradeDate":         {Column: "t.trade_date::text", Type: rsql.TypeString},
		"tradeStartDate":    {Column: "t.trade_start_date::text", Type: rsql.TypeString},
		"tradeMaturityDate": {Column: "t.trade_maturity_date::text", Type: rsql.TypeString},

		"tradeStatus":  {Column: "ts.trade_status", Type: rsql.TypeString, Joins: []string{joinStatus}},
		"tradeType":    {Column: "tt.trade_type", Type: rsql.TypeString, Joins: []string{joinType}},
		"tradeSubType": {Column: "tst.trade_sub_type", Type: rsql.TypeString, Joins: []string{joinSubType}},
		"bookName":     {Column: "b.book_name", Type: rsql.TypeString, Joins: []string{joinBook}},

		"book":         {Relation: &rsql.Relation{Schema: bookSchema, Join: joinBook}},
		"counterparty": {Relation: &rsql.Relation{Schema: counterpartySchema, Join: joinCounterparty}},
		"traderUser":   {Relation: &rsql.Relation{Schema: traderUserSchema, Join: joinTraderUser}},
	},
}
