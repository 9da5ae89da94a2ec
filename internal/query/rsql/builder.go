package rsql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fxdesk/tradebook/internal/apperrors"
)

// Predicate is a compiled filter expression: a SQL condition with positional
// arguments and the LEFT JOINs needed to reach traversed relations.
type Predicate struct {
	Where string
	Args  []any
	Joins []string
}

// Compile renders a parsed expression into a Predicate against the given
// schema. Positional placeholders start at firstArg ($1 for a standalone
// query). Literals are coerced to the declared type of the target property; a
// literal that does not parse is a compilation error, never a silent non-match.
func Compile(node Node, schema *Schema, firstArg int) (*Predicate, error) {
	b := &builder{schema: schema, nextArg: firstArg}
	where, err := b.render(node)
	if err != nil {
		return nil, err
	}
	return &Predicate{Where: where, Args: b.args, Joins: dedupe(b.joins)}, nil
}

type builder struct {
	schema  *Schema
	nextArg int
	args    []any
	joins   []string
}

func (b *builder) render(node Node) (string, error) {
	switch n := node.(type) {
	case AndNode:
		return b.renderGroup(n.Children, " AND ")
	case OrNode:
		return b.renderGroup(n.Children, " OR ")
	case Comparison:
		return b.renderComparison(n)
	default:
		return "", fmt.Errorf("%w: unsupported expression node %T", apperrors.ErrQueryCompilation, node)
	}
}

func (b *builder) renderGroup(children []Node, sep string) (string, error) {
	parts := make([]string, len(children))
	for i, child := range children {
		rendered, err := b.render(child)
		if err != nil {
			return "", err
		}
		parts[i] = rendered
	}
	return "(" + strings.Join(parts, sep) + ")", nil
}

func (b *builder) renderComparison(cmp Comparison) (string, error) {
	prop, err := b.schema.resolve(cmp.Property)
	if err != nil {
		return "", err
	}
	b.joins = append(b.joins, prop.joins...)

	args, err := coerceArguments(cmp.Property, prop.typ, cmp.Arguments)
	if err != nil {
		return "", err
	}
	if len(args) == 0 {
		return "", fmt.Errorf("%w: no value given for property %q", apperrors.ErrQueryCompilation, cmp.Property)
	}

	switch cmp.Operator {
	case OpEqual:
		// String equality is a case-insensitive pattern match; '*' is the
		// caller-facing wildcard.
		if prop.typ == TypeString {
			pattern := strings.ToLower(strings.ReplaceAll(args[0].(string), "*", "%"))
			return fmt.Sprintf("LOWER(%s) LIKE %s", prop.column, b.placeholder(pattern)), nil
		}
		return fmt.Sprintf("%s = %s", prop.column, b.placeholder(args[0])), nil
	case OpNotEqual:
		return fmt.Sprintf("%s <> %s", prop.column, b.placeholder(args[0])), nil
	case OpGreaterThan:
		return fmt.Sprintf("%s > %s", prop.column, b.placeholder(args[0])), nil
	case OpGreaterOrEqual:
		return fmt.Sprintf("%s >= %s", prop.column, b.placeholder(args[0])), nil
	case OpLessThan:
		return fmt.Sprintf("%s < %s", prop.column, b.placeholder(args[0])), nil
	case OpLessOrEqual:
		return fmt.Sprintf("%s <= %s", prop.column, b.placeholder(args[0])), nil
	case OpIn:
		return fmt.Sprintf("%s IN (%s)", prop.column, b.placeholders(args)), nil
	case OpNotIn:
		return fmt.Sprintf("%s NOT IN (%s)", prop.column, b.placeholders(args)), nil
	default:
		return "", fmt.Errorf("%w: unsupported operator %q for property %q",
			apperrors.ErrQueryCompilation, cmp.Operator, cmp.Property)
	}
}

func (b *builder) placeholder(arg any) string {
	b.args = append(b.args, arg)
	p := "$" + strconv.Itoa(b.nextArg)
	b.nextArg++
	return p
}

func (b *builder) placeholders(args []any) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = b.placeholder(arg)
	}
	return strings.Join(parts, ",")
}

func coerceArguments(property string, typ FieldType, raw []string) ([]any, error) {
	args := make([]any, len(raw))
	for i, value := range raw {
		coerced, err := coerce(typ, value)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid value %q for property %q",
				apperrors.ErrQueryCompilation, value, property)
		}
		args[i] = coerced
	}
	return args, nil
}

func coerce(typ FieldType, value string) (any, error) {
	switch typ {
	case TypeInt:
		parsed, err := strconv.ParseInt(value, 10, 32)
		return int32(parsed), err
	case TypeLong:
		return strconv.ParseInt(value, 10, 64)
	case TypeDouble:
		return strconv.ParseFloat(value, 64)
	case TypeBool:
		return strconv.ParseBool(value)
	default:
		return value, nil
	}
}

func dedupe(joins []string) []string {
	seen := make(map[string]struct{}, len(joins))
	out := make([]string, 0, len(joins))
	for _, j := range joins {
		if _, ok := seen[j]; ok {
			continue
		}
		seen[j] = struct{}{}
		out = append(out, j)
	}
	return out
}
