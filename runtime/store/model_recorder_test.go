package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelRecorderCapturesSequence(t *testing.T) {
	m := testModel()

	require.Len(t, m.Entities, 2)

	customer := m.EntityByName("Customer")
	require.NotNil(t, customer)
	assert.Equal(t, uint64(1), customer.ID)
	assert.Equal(t, uint64(101), customer.UID)
	assert.Equal(t, uint64(1), customer.LastPropertyID)

	order := m.EntityByName("Order")
	require.NotNil(t, order)
	require.Len(t, order.Properties, 2)

	ref := order.Properties[1]
	assert.Equal(t, "customerId", ref.Name)
	assert.Equal(t, uint16(11), ref.Type)
	assert.Equal(t, uint32(1032), ref.Flags)
	assert.Equal(t, "Customer", ref.RelationTarget)
	assert.Equal(t, uint64(2), ref.IndexID)
	assert.Equal(t, uint64(302), ref.IndexUID)

	require.Len(t, order.Relations, 1)
	rel := order.Relations[0]
	assert.Equal(t, uint64(1), rel.ID)
	assert.Equal(t, uint64(401), rel.UID)
	assert.Equal(t, uint64(3), rel.TargetID)
}

func TestModelRecorderUnknownEntity(t *testing.T) {
	assert.Nil(t, testModel().EntityByName("Nope"))
}
