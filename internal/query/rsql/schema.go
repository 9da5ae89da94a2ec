package rsql

import (
	"fmt"

	"github.com/fxdesk/tradebook/internal/apperrors"
)

// FieldType is the declared type of an entity property. It decides how textual
// literals are coerced when a predicate is compiled.
type FieldType int

const (
	TypeString FieldType = iota
	TypeInt
	TypeLong
	TypeDouble
	TypeBool
)

// Relation describes a traversal from one schema to another. The join clause is
// a LEFT JOIN so that a missing related row does not eliminate the base row for
// unrelated filters.
type Relation struct {
	Schema *Schema
	Join   string // e.g. "LEFT JOIN counterparties cp ON cp.id = t.counterparty_id"
}

// Property is one filterable property of an entity: either a terminal column or
// a relation to traverse. A terminal property may itself require joins when it
// surfaces a related column under a flat name (e.g. tradeStatus).
type Property struct {
	Column   string // qualified SQL column for terminal properties
	Type     FieldType
	Joins    []string
	Relation *Relation
}

// Schema is the schema-description capability an entity type supplies so the
// builder can resolve properties without runtime reflection.
type Schema struct {
	Name       string
	Properties map[string]Property
}

// resolvedProperty is the outcome of walking a (possibly dotted) property path.
type resolvedProperty struct {
	column string
	typ    FieldType
	joins  []string
}

// resolve walks a dotted property path through relations, collecting the join
// clauses needed to reach the terminal column.
func (s *Schema) resolve(path string) (*resolvedProperty, error) {
	schema := s
	resolved := &resolvedProperty{}
	remaining := path
	for {
		segment, rest, dotted := cutDot(remaining)
		prop, ok := schema.Properties[segment]
		if !ok {
			return nil, fmt.Errorf("%w: unknown property %q on %s (in path %q)",
				apperrors.ErrQueryCompilation, segment, schema.Name, path)
		}
		if dotted {
			if prop.Relation == nil {
				return nil, fmt.Errorf("%w: property %q on %s is not a relation (in path %q)",
					apperrors.ErrQueryCompilation, segment, schema.Name, path)
			}
			resolved.joins = append(resolved.joins, prop.Relation.Join)
			schema = prop.Relation.Schema
			remaining = rest
			continue
		}
		if prop.Column == "" {
			return nil, fmt.Errorf("%w: property %q on %s is a relation, not a value (in path %q)",
				apperrors.ErrQueryCompilation, segment, schema.Name, path)
		}
		resolved.joins = append(resolved.joins, prop.Joins...)
		resolved.column = prop.Column
		resolved.typ = prop.Type
		return resolved, nil
	}
}

func cutDot(path string) (segment, rest string, found bool) {
	for i := 0; i < len(path); i++ {
		if path[i] == '.' {
			return path[:i], path[i+1:], true
		}
	}
	return path, "", false
}
