// Package codegen emits Go binding code for finalized schema entities:
// the record struct with identity accessors, the default constructor,
// the model-builder invocation sequence, table decode/encode routines
// and a typed condition factory per entity.
package codegen

import (
	"sort"

	"github.com/stratadb/strata/internal/schema"
)

// sortingPriority ranks a property for table layout: 8-byte scalars
// first, then variable-length vectors and text, then narrower scalars.
// Relation properties store a 64-bit target id and rank with the wide
// scalars.
func sortingPriority(p *schema.ModelProperty) int {
	switch p.Type {
	case schema.TypeDouble, schema.TypeLong, schema.TypeDate, schema.TypeDateNano, schema.TypeRelation:
		return 1
	case schema.TypeStringVector:
		return 2
	case schema.TypeByteVector:
		return 3
	case schema.TypeString:
		return 4
	case schema.TypeFloat, schema.TypeInt, schema.TypeChar:
		return 5
	case schema.TypeShort:
		return 6
	case schema.TypeBool, schema.TypeByte:
		return 7
	default:
		return 8
	}
}

// LayoutOrder returns the entity's properties in offset-assignment
// order. The order is deterministic and independent of declaration
// order: priority first, schema name as tiebreak.
func LayoutOrder(e *schema.ModelEntity) []*schema.ModelProperty {
	ordered := make([]*schema.ModelProperty, len(e.Properties))
	copy(ordered, e.Properties)
	sort.SliceStable(ordered, func(i, j int) bool {
		pi, pj := sortingPriority(ordered[i]), sortingPriority(ordered[j])
		if pi != pj {
			return pi < pj
		}
		return ordered[i].Name < ordered[j].Name
	})
	return ordered
}

// offsetAt returns the table offset of the i-th property in layout
// order, matching the codec's vtable stride.
func offsetAt(i int) int {
	return 4 + 2*i
}
