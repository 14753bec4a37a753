// Package query provides the typed condition builders the generated
// condition factories expose. Each comparable property of an entity
// gets one Property value scoped by the owning entity's id and the
// property's id; its methods produce Condition values the storage
// engine's query layer consumes.
package query

// Operator identifies a comparison.
type Operator int

const (
	OpEq Operator = iota
	OpNotEq
	OpGt
	OpGtEq
	OpLt
	OpLtEq
	OpBetween
	OpIsNil
	OpNotNil
)

// String returns the string representation of the operator
func (op Operator) String() string {
	switch op {
	case OpEq:
		return "=="
	case OpNotEq:
		return "!="
	case OpGt:
		return ">"
	case OpGtEq:
		return ">="
	case OpLt:
		return "<"
	case OpLtEq:
		return "<="
	case OpBetween:
		return "between"
	case OpIsNil:
		return "isNil"
	case OpNotNil:
		return "notNil"
	default:
		return "unknown"
	}
}

// Condition is a single comparison scoped to one property of one
// entity. High is only set for OpBetween.
type Condition struct {
	EntityID   uint64
	PropertyID uint64
	Op         Operator
	Value      any
	High       any
}

// Property is a typed condition builder for one property. Generated
// condition factories expose one per comparable property.
type Property[V any] struct {
	EntityID   uint64
	PropertyID uint64
}

func (p Property[V]) condition(op Operator, value, high any) Condition {
	return Condition{
		EntityID:   p.EntityID,
		PropertyID: p.PropertyID,
		Op:         op,
		Value:      value,
		High:       high,
	}
}

// Eq matches values equal to v.
func (p Property[V]) Eq(v V) Condition { return p.condition(OpEq, v, nil) }

// NotEq matches values not equal to v.
func (p Property[V]) NotEq(v V) Condition { return p.condition(OpNotEq, v, nil) }

// Gt matches values greater than v.
func (p Property[V]) Gt(v V) Condition { return p.condition(OpGt, v, nil) }

// GtEq matches values greater than or equal to v.
func (p Property[V]) GtEq(v V) Condition { return p.condition(OpGtEq, v, nil) }

// Lt matches values less than v.
func (p Property[V]) Lt(v V) Condition { return p.condition(OpLt, v, nil) }

// LtEq matches values less than or equal to v.
func (p Property[V]) LtEq(v V) Condition { return p.condition(OpLtEq, v, nil) }

// Between matches values in [lo, hi].
func (p Property[V]) Between(lo, hi V) Condition { return p.condition(OpBetween, lo, hi) }

// IsNil matches absent optional values.
func (p Property[V]) IsNil() Condition { return p.condition(OpIsNil, nil, nil) }

// NotNil matches present optional values.
func (p Property[V]) NotNil() Condition { return p.condition(OpNotNil, nil, nil) }
