package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPropertyConditions(t *testing.T) {
	total := Property[float64]{EntityID: 2, PropertyID: 3}

	cond := total.Gt(9.5)
	assert.Equal(t, uint64(2), cond.EntityID)
	assert.Equal(t, uint64(3), cond.PropertyID)
	assert.Equal(t, OpGt, cond.Op)
	assert.Equal(t, 9.5, cond.Value)
	assert.Nil(t, cond.High)
}

func TestPropertyBetween(t *testing.T) {
	age := Property[int32]{EntityID: 1, PropertyID: 2}

	cond := age.Between(18, 65)
	assert.Equal(t, OpBetween, cond.Op)
	assert.Equal(t, int32(18), cond.Value)
	assert.Equal(t, int32(65), cond.High)
}

func TestPropertyNilChecks(t *testing.T) {
	note := Property[string]{EntityID: 1, PropertyID: 4}

	assert.Equal(t, OpIsNil, note.IsNil().Op)
	assert.Equal(t, OpNotNil, note.NotNil().Op)
	assert.Nil(t, note.IsNil().Value)
}

func TestOperatorStrings(t *testing.T) {
	assert.Equal(t, "==", OpEq.String())
	assert.Equal(t, "between", OpBetween.String())
	assert.Equal(t, "unknown", Operator(99).String())
}
