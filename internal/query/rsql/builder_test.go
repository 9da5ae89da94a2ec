package rsql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fxdesk/tradebook/internal/apperrors"
)

const (
	testJoinBook         = "LEFT JOIN books b ON b.id = t.book_id"
	testJoinCounterparty = "LEFT JOIN counterparties cp ON cp.id = t.counterparty_id"
)

func testSchema() *Schema {
	bookRelation := &Schema{
		Name: "Book",
		Properties: map[string]Property{
			"id":       {Column: "b.id", Type: TypeLong},
			"bookName": {Column: "b.book_name", Type: TypeString},
			"active":   {Column: "b.active", Type: TypeBool},
		},
	}
	counterpartyRelation := &Schema{
		Name: "Counterparty",
		Properties: map[string]Property{
			"name": {Column: "cp.name", Type: TypeString},
		},
	}
	return &Schema{
		Name: "Trade",
		Properties: map[string]Property{
			"tradeId":   {Column: "t.trade_id", Type: TypeLong},
			"version":   {Column: "t.version", Type: TypeInt},
			"active":    {Column: "t.active", Type: TypeBool},
			"utiCode":   {Column: "t.uti_code", Type: TypeString},
			"tradeDate": {Column: "t.trade_date::text", Type: TypeString},
			"bookName":  {Column: "b.book_name", Type: TypeString, Joins: []string{testJoinBook}},

			"book":         {Relation: &Relation{Schema: bookRelation, Join: testJoinBook}},
			"counterparty": {Relation: &Relation{Schema: counterpartyRelation, Join: testJoinCounterparty}},
		},
	}
}

func compile(t *testing.T, query string) *Predicate {
	t.Helper()
	node, err := Parse(query)
	require.NoError(t, err)
	pred, err := Compile(node, testSchema(), 1)
	require.NoError(t, err)
	return pred
}

func TestCompile_NumericEquality(t *testing.T) {
	pred := compile(t, "tradeId==100")
	assert.Equal(t, "t.trade_id = $1", pred.Where)
	assert.Equal(t, []any{int64(100)}, pred.Args)
	assert.Empty(t, pred.Joins)
}

func TestCompile_StringEqualityIsCaseInsensitiveLike(t *testing.T) {
	pred := compile(t, "bookName==Rates*")
	assert.Equal(t, "LOWER(b.book_name) LIKE $1", pred.Where)
	assert.Equal(t, []any{"rates%"}, pred.Args)
	assert.Equal(t, []string{testJoinBook}, pred.Joins)
}

func TestCompile_AndOrNesting(t *testing.T) {
	pred := compile(t, "tradeId==1;version=gt=2,active==false")
	assert.Equal(t, "((t.trade_id = $1 AND t.version > $2) OR t.active = $3)", pred.Where)
	assert.Equal(t, []any{int64(1), int32(2), false}, pred.Args)
}

func TestCompile_InList(t *testing.T) {
	pred := compile(t, "version=in=(1,2,3)")
	assert.Equal(t, "t.version IN ($1,$2,$3)", pred.Where)
	assert.Equal(t, []any{int32(1), int32(2), int32(3)}, pred.Args)
}

func TestCompile_NotInList(t *testing.T) {
	pred := compile(t, "tradeId=out=(7,8)")
	assert.Equal(t, "t.trade_id NOT IN ($1,$2)", pred.Where)
}

func TestCompile_RangeOnDateText(t *testing.T) {
	// ISO dates compare lexicographically in chronological order.
	pred := compile(t, "tradeDate=ge=2025-01-01;tradeDate=lt=2026-01-01")
	assert.Equal(t, "(t.trade_date::text >= $1 AND t.trade_date::text < $2)", pred.Where)
	assert.Equal(t, []any{"2025-01-01", "2026-01-01"}, pred.Args)
}

func TestCompile_RelationTraversalCollectsJoin(t *testing.T) {
	pred := compile(t, "counterparty.name==ACME")
	assert.Equal(t, "LOWER(cp.name) LIKE $1", pred.Where)
	assert.Equal(t, []any{"acme"}, pred.Args)
	assert.Equal(t, []string{testJoinCounterparty}, pred.Joins)
}

func TestCompile_DuplicateJoinsDeduplicated(t *testing.T) {
	pred := compile(t, "book.bookName==A*;book.active==true")
	assert.Equal(t, []string{testJoinBook}, pred.Joins)
}

func TestCompile_FirstArgOffset(t *testing.T) {
	node, err := Parse("tradeId==5")
	require.NoError(t, err)
	pred, err := Compile(node, testSchema(), 3)
	require.NoError(t, err)
	assert.Equal(t, "t.trade_id = $3", pred.Where)
}

func TestCompile_UnknownProperty(t *testing.T) {
	node, err := Parse("nonsense==1")
	require.NoError(t, err)
	_, err = Compile(node, testSchema(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrQueryCompilation)
	assert.ErrorContains(t, err, `unknown property "nonsense"`)
}

func TestCompile_NonRelationTraversal(t *testing.T) {
	node, err := Parse("utiCode.something==1")
	require.NoError(t, err)
	_, err = Compile(node, testSchema(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrQueryCompilation)
}

func TestCompile_TypeCoercionFailureNamesValue(t *testing.T) {
	node, err := Parse("tradeId==banana")
	require.NoError(t, err)
	_, err = Compile(node, testSchema(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrQueryCompilation)
	assert.ErrorContains(t, err, `invalid value "banana" for property "tradeId"`)
}

func TestCompile_BoolCoercion(t *testing.T) {
	pred := compile(t, "active==true")
	assert.Equal(t, "t.active = $1", pred.Where)
	assert.Equal(t, []any{true}, pred.Args)
}
