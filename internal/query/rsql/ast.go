// Package rsql compiles a compact filter-expression language (AND/OR trees of
// field comparisons) into SQL predicates over a declared entity schema.
package rsql

// Operator is a comparison operator of the filter language.
type Operator string

const (
	OpEqual          Operator = "=="
	OpNotEqual       Operator = "!="
	OpGreaterThan    Operator = "=gt="
	OpGreaterOrEqual Operator = "=ge="
	OpLessThan       Operator = "=lt="
	OpLessOrEqual    Operator = "=le="
	OpIn             Operator = "=in="
	OpNotIn          Operator = "=out="
)

// Node is one node of a parsed filter expression.
type Node interface {
	isNode()
}

// AndNode joins its children with logical AND (the `;` separator).
type AndNode struct {
	Children []Node
}

// OrNode joins its children with logical OR (the `,` separator).
type OrNode struct {
	Children []Node
}

// Comparison is a single `property operator arguments` constraint. Property may
// be dotted (`counterparty.name`) to traverse a relation.
type Comparison struct {
	Property  string
	Operator  Operator
	Arguments []string
}

func (AndNode) isNode()    {}
func (OrNode) isNode()     {}
func (Comparison) isNode() {}
