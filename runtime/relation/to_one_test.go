package relation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRecord struct {
	id   uint64
	name string
}

func (t *testRecord) EntityID() uint64      { return t.id }
func (t *testRecord) SetEntityID(id uint64) { t.id = id }

func TestToOneZeroValueIsEmpty(t *testing.T) {
	var ref ToOne[*testRecord]

	assert.Equal(t, StateEmpty, ref.State())
	assert.True(t, ref.IsEmpty())
	assert.False(t, ref.HasValue())
	assert.Equal(t, uint64(0), ref.TargetID())
	assert.False(t, ref.NeedsPut())
}

func TestToOneWithZeroIDEqualsEmpty(t *testing.T) {
	ref := OneWithID[*testRecord](0)

	assert.Equal(t, NewOne[*testRecord](), ref)
	assert.Equal(t, StateEmpty, ref.State())
}

func TestToOneWithIDIsLazy(t *testing.T) {
	ref := OneWithID[*testRecord](42)

	assert.Equal(t, StateLazy, ref.State())
	assert.Equal(t, uint64(42), ref.TargetID())
	assert.True(t, ref.HasValue())
	assert.False(t, ref.NeedsPut())
}

func TestToOneSetTargetUnstored(t *testing.T) {
	var ref ToOne[*testRecord]
	ref.SetTarget(&testRecord{name: "fresh"})

	assert.Equal(t, StateUnstored, ref.State())
	assert.Equal(t, uint64(0), ref.TargetID())
	assert.True(t, ref.NeedsPut())

	target, ok, err := ref.Target(context.Background(), nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "fresh", target.name)
}

func TestToOneSetTargetStored(t *testing.T) {
	var ref ToOne[*testRecord]
	ref.SetTarget(&testRecord{id: 7, name: "stored"})

	assert.Equal(t, StateStored, ref.State())
	assert.Equal(t, uint64(7), ref.TargetID())
	assert.False(t, ref.NeedsPut())
}

func TestToOneMarkStored(t *testing.T) {
	var ref ToOne[*testRecord]
	ref.SetTarget(&testRecord{})
	ref.MarkStored(11)

	assert.Equal(t, StateStored, ref.State())
	assert.Equal(t, uint64(11), ref.TargetID())
	assert.False(t, ref.NeedsPut())
}

func TestToOneMarkStoredOnlyFromUnstored(t *testing.T) {
	ref := OneWithID[*testRecord](5)
	ref.MarkStored(99)

	assert.Equal(t, StateLazy, ref.State())
	assert.Equal(t, uint64(5), ref.TargetID())
}

func TestToOneSetTargetIDResetsCache(t *testing.T) {
	var ref ToOne[*testRecord]
	ref.SetTarget(&testRecord{id: 3, name: "old"})
	ref.SetTargetID(4)

	assert.Equal(t, StateLazy, ref.State())
	assert.Equal(t, uint64(4), ref.TargetID())
}

func TestToOneSetTargetIDZeroClears(t *testing.T) {
	ref := OneWithID[*testRecord](9)
	ref.SetTargetID(0)

	assert.Equal(t, StateEmpty, ref.State())
	assert.True(t, ref.IsEmpty())
}

func TestToOneLazyFetch(t *testing.T) {
	calls := 0
	loader := LoaderFunc[*testRecord](func(ctx context.Context, id uint64) (*testRecord, bool, error) {
		calls++
		return &testRecord{id: id, name: "fetched"}, true, nil
	})

	ref := OneWithID[*testRecord](21)

	target, ok, err := ref.Target(context.Background(), loader)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "fetched", target.name)
	assert.Equal(t, StateStored, ref.State())

	// Second access hits the cache.
	_, ok, err = ref.Target(context.Background(), loader)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, calls)
}

func TestToOneLazyFetchMissIsUnresolvable(t *testing.T) {
	loader := LoaderFunc[*testRecord](func(ctx context.Context, id uint64) (*testRecord, bool, error) {
		return nil, false, nil
	})

	ref := OneWithID[*testRecord](404)

	_, ok, err := ref.Target(context.Background(), loader)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, StateUnresolvable, ref.State())

	// Subsequent reads stay unresolvable without another fetch.
	_, ok, err = ref.Target(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestToOneLazyFetchError(t *testing.T) {
	loadErr := errors.New("store closed")
	loader := LoaderFunc[*testRecord](func(ctx context.Context, id uint64) (*testRecord, bool, error) {
		return nil, false, loadErr
	})

	ref := OneWithID[*testRecord](1)

	_, _, err := ref.Target(context.Background(), loader)
	assert.ErrorIs(t, err, loadErr)
	assert.Equal(t, StateLazy, ref.State())
}

func TestToOneLazyReadWithoutLoaderPanics(t *testing.T) {
	ref := OneWithID[*testRecord](13)

	assert.Panics(t, func() {
		ref.Target(context.Background(), nil)
	})
}

func TestToOneClear(t *testing.T) {
	var ref ToOne[*testRecord]
	ref.SetTarget(&testRecord{id: 2})
	ref.Clear()

	assert.Equal(t, StateEmpty, ref.State())
	assert.Equal(t, uint64(0), ref.TargetID())
}
