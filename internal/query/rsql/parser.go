package rsql

import (
	"fmt"
	"strings"

	"github.com/fxdesk/tradebook/internal/apperrors"
)

// Parse parses a filter expression into its AST.
//
// Grammar: an expression is a `,`-separated (OR) list of `;`-separated (AND)
// groups; AND binds tighter than OR. A group is either a parenthesised
// sub-expression or a comparison `property operator value(s)`. Set operators
// take a parenthesised, comma-separated value list.
func Parse(query string) (Node, error) {
	p := &parser{input: query}
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	p.skipSpaces()
	if !p.eof() {
		return nil, p.errorf("unexpected token %q", p.rest())
	}
	return node, nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) parseOr() (Node, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	children := []Node{first}
	for p.accept(',') {
		next, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}
	if len(children) == 1 {
		return first, nil
	}
	return OrNode{Children: children}, nil
}

func (p *parser) parseAnd() (Node, error) {
	first, err := p.parseConstraint()
	if err != nil {
		return nil, err
	}
	children := []Node{first}
	for p.accept(';') {
		next, err := p.parseConstraint()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}
	if len(children) == 1 {
		return first, nil
	}
	return AndNode{Children: children}, nil
}

func (p *parser) parseConstraint() (Node, error) {
	p.skipSpaces()
	if p.accept('(') {
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.accept(')') {
			return nil, p.errorf("expected ')' closing group")
		}
		return inner, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (Node, error) {
	property := p.readWhile(isPropertyChar)
	if property == "" {
		if p.eof() {
			return nil, p.errorf("unexpected end of expression, expected a property")
		}
		return nil, p.errorf("unexpected token %q, expected a property", p.rest())
	}

	op, err := p.readOperator(property)
	if err != nil {
		return nil, err
	}

	var args []string
	if op == OpIn || op == OpNotIn {
		args, err = p.readValueList(property)
	} else {
		args, err = p.readSingleValue(property)
	}
	if err != nil {
		return nil, err
	}
	return Comparison{Property: property, Operator: op, Arguments: args}, nil
}

// operator tokens ordered longest-first so "==" is not shadowed by "=".
var operatorTokens = []Operator{
	OpGreaterOrEqual, OpGreaterThan, OpLessOrEqual, OpLessThan, OpNotIn, OpIn,
	OpEqual, OpNotEqual,
}

func (p *parser) readOperator(property string) (Operator, error) {
	for _, op := range operatorTokens {
		if strings.HasPrefix(p.input[p.pos:], string(op)) {
			p.pos += len(op)
			return op, nil
		}
	}
	return "", p.errorf("expected comparison operator after property %q", property)
}

func (p *parser) readSingleValue(property string) ([]string, error) {
	value, err := p.readValue(property)
	if err != nil {
		return nil, err
	}
	return []string{value}, nil
}

func (p *parser) readValueList(property string) ([]string, error) {
	if !p.accept('(') {
		return nil, p.errorf("expected '(' opening the value list for property %q", property)
	}
	var values []string
	for {
		value, err := p.readValue(property)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
		if p.accept(',') {
			continue
		}
		if p.accept(')') {
			return values, nil
		}
		return nil, p.errorf("expected ',' or ')' in the value list for property %q", property)
	}
}

func (p *parser) readValue(property string) (string, error) {
	p.skipSpaces()
	if p.eof() {
		return "", p.errorf("missing value for property %q", property)
	}
	if quote := p.input[p.pos]; quote == '\'' || quote == '"' {
		p.pos++
		start := p.pos
		for !p.eof() && p.input[p.pos] != quote {
			p.pos++
		}
		if p.eof() {
			return "", p.errorf("unterminated quoted value for property %q", property)
		}
		value := p.input[start:p.pos]
		p.pos++
		return value, nil
	}
	value := p.readWhile(func(c byte) bool {
		return c != ';' && c != ',' && c != '(' && c != ')' && c != ' '
	})
	if value == "" {
		return "", p.errorf("missing value for property %q", property)
	}
	return value, nil
}

func (p *parser) readWhile(pred func(byte) bool) string {
	start := p.pos
	for !p.eof() && pred(p.input[p.pos]) {
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *parser) accept(c byte) bool {
	p.skipSpaces()
	if !p.eof() && p.input[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) skipSpaces() {
	for !p.eof() && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) rest() string {
	rest := p.input[p.pos:]
	if len(rest) > 20 {
		rest = rest[:20]
	}
	return rest
}

func (p *parser) errorf(format string, args ...any) error {
	detail := fmt.Sprintf(format, args...)
	return fmt.Errorf("%w: %s at position %d", apperrors.ErrQueryCompilation, detail, p.pos)
}

func isPropertyChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '.' || c == '_'
}
