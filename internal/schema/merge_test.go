package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratadb/strata/internal/diag"
)

// newTestMerger mints deterministic sequential uids so tests can assert
// on exact values.
func newTestMerger() *Merger {
	var n uint64 = 1000
	return &Merger{newUID: func() uint64 {
		n++
		return n
	}}
}

func freshCustomer() *ModelEntity {
	return &ModelEntity{
		Name: "Customer",
		Properties: []*ModelProperty{
			{Name: "id", Type: TypeLong, Flags: FlagID, HostType: "uint64"},
			{Name: "name", Type: TypeString, Flags: FlagIndexHash, IndexID: &IdUid{}, HostType: "string"},
		},
	}
}

func freshItem() *ModelEntity {
	return &ModelEntity{
		Name: "Item",
		Properties: []*ModelProperty{
			{Name: "id", Type: TypeLong, Flags: FlagID, HostType: "uint64"},
			{Name: "sku", Type: TypeString, HostType: "string"},
		},
	}
}

func freshOrder() *ModelEntity {
	return &ModelEntity{
		Name: "Order",
		Properties: []*ModelProperty{
			{Name: "id", Type: TypeLong, Flags: FlagID, HostType: "uint64"},
			{
				Name:           "customerId",
				Type:           TypeRelation,
				Flags:          FlagIndexed | FlagIndexPartialSkipZero,
				IndexID:        &IdUid{},
				HostType:       "relation.ToOne[*Customer]",
				RelationField:  "customer",
				RelationTarget: "Customer",
			},
		},
		Relations: []*ModelRelation{
			{Name: "items", TargetName: "Item"},
		},
	}
}

func freshAll() []*ModelEntity {
	return []*ModelEntity{freshOrder(), freshCustomer(), freshItem()}
}

func TestMergeFirstPassAssignsIDs(t *testing.T) {
	model, err := newTestMerger().Merge(nil, freshAll())
	require.NoError(t, err)

	require.Len(t, model.Entities, 3)
	assert.Equal(t, "Customer", model.Entities[0].Name)
	assert.Equal(t, "Item", model.Entities[1].Name)
	assert.Equal(t, "Order", model.Entities[2].Name)

	// Entity ids are assigned in name order.
	assert.Equal(t, uint64(1), model.Entities[0].ID.ID)
	assert.Equal(t, uint64(2), model.Entities[1].ID.ID)
	assert.Equal(t, uint64(3), model.Entities[2].ID.ID)
	assert.Equal(t, uint64(3), model.LastEntityID.ID)

	customer := model.FindEntity("Customer")
	assert.Equal(t, uint64(1), customer.Properties[0].ID.ID)
	assert.Equal(t, uint64(2), customer.Properties[1].ID.ID)
	assert.Equal(t, uint64(2), customer.LastPropertyID.ID)

	// Requested indexes got real ids.
	require.NotNil(t, customer.Properties[1].IndexID)
	assert.False(t, customer.Properties[1].IndexID.IsZero())

	// Every uid is set and distinct.
	assert.NotZero(t, customer.ID.UID)
	assert.NotEqual(t, customer.ID.UID, model.Entities[1].ID.UID)
}

func TestMergeResolvesRelationTargets(t *testing.T) {
	model, err := newTestMerger().Merge(nil, freshAll())
	require.NoError(t, err)

	order := model.FindEntity("Order")
	item := model.FindEntity("Item")

	rel := order.FindRelation("items")
	require.NotNil(t, rel)
	require.NotNil(t, rel.TargetID)
	assert.Equal(t, item.ID, *rel.TargetID)
	assert.Equal(t, uint64(1), rel.ID.ID)
	assert.Equal(t, uint64(1), model.LastRelationID.ID)
}

func TestMergeNoOpRegenerationIsByteStable(t *testing.T) {
	m := newTestMerger()

	first, err := m.Merge(nil, freshAll())
	require.NoError(t, err)
	firstBytes, err := MarshalModel(first)
	require.NoError(t, err)

	second, err := m.Merge(first, freshAll())
	require.NoError(t, err)
	secondBytes, err := MarshalModel(second)
	require.NoError(t, err)

	assert.Equal(t, string(firstBytes), string(secondBytes))
}

func TestMergeKeepsUIDsAcrossPasses(t *testing.T) {
	m := newTestMerger()

	first, err := m.Merge(nil, freshAll())
	require.NoError(t, err)
	customerUID := first.FindEntity("Customer").ID.UID
	nameUID := first.FindEntity("Customer").FindProperty("name").ID.UID

	second, err := m.Merge(first, freshAll())
	require.NoError(t, err)
	assert.Equal(t, customerUID, second.FindEntity("Customer").ID.UID)
	assert.Equal(t, nameUID, second.FindEntity("Customer").FindProperty("name").ID.UID)
	assert.Empty(t, second.RetiredEntityUIDs)
	assert.Empty(t, second.RetiredPropertyUIDs)
}

func TestMergeRenamedPropertyKeepsUID(t *testing.T) {
	m := newTestMerger()

	first, err := m.Merge(nil, []*ModelEntity{freshCustomer()})
	require.NoError(t, err)
	nameProp := first.FindEntity("Customer").FindProperty("name")
	require.NotNil(t, nameProp)

	renamed := freshCustomer()
	renamed.Properties[1].Name = "fullName"
	renamed.Properties[1].PrevName = "name"

	second, err := m.Merge(first, []*ModelEntity{renamed})
	require.NoError(t, err)

	merged := second.FindEntity("Customer").FindProperty("fullName")
	require.NotNil(t, merged)
	assert.Equal(t, nameProp.ID, merged.ID)
	assert.Empty(t, second.RetiredPropertyUIDs)
}

func TestMergeRenameWithoutHintRetiresAndMints(t *testing.T) {
	m := newTestMerger()

	first, err := m.Merge(nil, []*ModelEntity{freshCustomer()})
	require.NoError(t, err)
	nameProp := first.FindEntity("Customer").FindProperty("name")

	renamed := freshCustomer()
	renamed.Properties[1].Name = "fullName"

	second, err := m.Merge(first, []*ModelEntity{renamed})
	require.NoError(t, err)

	merged := second.FindEntity("Customer").FindProperty("fullName")
	assert.NotEqual(t, nameProp.ID.UID, merged.ID.UID)
	assert.Contains(t, second.RetiredPropertyUIDs, nameProp.ID.UID)
}

func TestMergeNewPropertyContinuesIDCounter(t *testing.T) {
	m := newTestMerger()

	first, err := m.Merge(nil, []*ModelEntity{freshCustomer()})
	require.NoError(t, err)

	grown := freshCustomer()
	grown.Properties = append(grown.Properties, &ModelProperty{
		Name: "email", Type: TypeString, HostType: "string",
	})

	second, err := m.Merge(first, []*ModelEntity{grown})
	require.NoError(t, err)

	email := second.FindEntity("Customer").FindProperty("email")
	require.NotNil(t, email)
	assert.Equal(t, uint64(3), email.ID.ID)
	assert.Equal(t, uint64(3), second.FindEntity("Customer").LastPropertyID.ID)
}

func TestMergeRemovedEntityIsRetired(t *testing.T) {
	m := newTestMerger()

	first, err := m.Merge(nil, freshAll())
	require.NoError(t, err)
	order := first.FindEntity("Order")
	orderUID := order.ID.UID
	relUID := order.Relations[0].ID.UID

	second, err := m.Merge(first, []*ModelEntity{freshCustomer(), freshItem()})
	require.NoError(t, err)

	assert.Nil(t, second.FindEntity("Order"))
	assert.Contains(t, second.RetiredEntityUIDs, orderUID)
	assert.Contains(t, second.RetiredRelationUIDs, relUID)
	for _, p := range order.Properties {
		assert.Contains(t, second.RetiredPropertyUIDs, p.ID.UID)
	}
	// Entity ids are never reused after a retirement.
	assert.Equal(t, uint64(3), second.LastEntityID.ID)

	third, err := m.Merge(second, freshAll())
	require.NoError(t, err)
	assert.Equal(t, uint64(4), third.FindEntity("Order").ID.ID)
}

func TestMergeDroppedIndexIsRetired(t *testing.T) {
	m := newTestMerger()

	first, err := m.Merge(nil, []*ModelEntity{freshCustomer()})
	require.NoError(t, err)
	indexUID := first.FindEntity("Customer").FindProperty("name").IndexID.UID

	plain := freshCustomer()
	plain.Properties[1].Flags = 0
	plain.Properties[1].IndexID = nil

	second, err := m.Merge(first, []*ModelEntity{plain})
	require.NoError(t, err)

	assert.Nil(t, second.FindEntity("Customer").FindProperty("name").IndexID)
	assert.Contains(t, second.RetiredIndexUIDs, indexUID)
}

func TestMergeDuplicateEntityFails(t *testing.T) {
	_, err := newTestMerger().Merge(nil, []*ModelEntity{freshCustomer(), freshCustomer()})
	require.Error(t, err)
	assert.Equal(t, diag.CodeDuplicateEntity, diag.CodeOf(err))
}

func TestMergeDuplicatePropertyNameFails(t *testing.T) {
	bad := freshCustomer()
	bad.Properties = append(bad.Properties, &ModelProperty{Name: "name", Type: TypeString, HostType: "string"})

	_, err := newTestMerger().Merge(nil, []*ModelEntity{bad})
	require.Error(t, err)
	assert.Equal(t, diag.CodeDuplicateName, diag.CodeOf(err))
}

func TestMergeUIDCollisionFails(t *testing.T) {
	m := &Merger{newUID: func() uint64 { return 42 }}

	_, err := m.Merge(nil, []*ModelEntity{freshCustomer(), freshItem()})
	require.Error(t, err)
	assert.Equal(t, diag.CodeUIDCollision, diag.CodeOf(err))
}

func TestMergeUnknownRelationTargetFails(t *testing.T) {
	orphan := freshOrder()
	orphan.Relations[0].TargetName = "Nowhere"

	_, err := newTestMerger().Merge(nil, []*ModelEntity{orphan, freshCustomer()})
	require.Error(t, err)
	assert.Equal(t, diag.CodeMissingTarget, diag.CodeOf(err))
}
