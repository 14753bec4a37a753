package relation

import (
	"iter"
	"sort"
)

// ToMany references many records of the target type T through a
// standalone relation table. Targets are loaded lazily: until the store
// collaborator hands the fetched items to SetItems, additions pile up
// in a pre-load buffer and the loaded list stays unset.
//
// Every add and remove is tracked in a change log keyed by target id
// holding the net signed change count. An item added then removed nets
// to zero and produces no pending change.
//
// The zero value is an empty, unloaded relation.
type ToMany[T Entity] struct {
	items   []T
	loaded  bool
	preload []T
	changes map[uint64]int
}

// NewMany returns an empty, unloaded relation.
func NewMany[T Entity]() ToMany[T] {
	return ToMany[T]{}
}

// ManyWithItems seeds a relation with items, bypassing lazy loading.
// Every item counts as a net add, which supports constructing records
// from an external source and persisting them as-is.
func ManyWithItems[T Entity](items []T) ToMany[T] {
	r := ToMany[T]{items: items, loaded: true}
	for _, item := range items {
		r.track(item.EntityID(), 1)
	}
	return r
}

// track records a net change for a target id. Items that were never
// stored (id zero) cannot be tracked by id; the owning record's
// persistence step picks them up through UnstoredItems.
func (r *ToMany[T]) track(id uint64, delta int) {
	if id == 0 {
		return
	}
	if r.changes == nil {
		r.changes = make(map[uint64]int)
	}
	r.changes[id] += delta
}

// Loaded reports whether the target list has been populated from the
// store (or seeded via ManyWithItems).
func (r *ToMany[T]) Loaded() bool {
	return r.loaded
}

// Len returns the number of currently held items without triggering a
// load: the loaded list when present, otherwise the pre-load buffer.
func (r *ToMany[T]) Len() int {
	if r.loaded {
		return len(r.items) + len(r.preload)
	}
	return len(r.preload)
}

// IsEmpty reports whether no items are currently held.
func (r *ToMany[T]) IsEmpty() bool {
	return r.Len() == 0
}

// Add appends a target to the relation and counts a net add. Before
// loading the item goes to the pre-load buffer; the relation is never
// fetched just to append.
func (r *ToMany[T]) Add(item T) {
	r.track(item.EntityID(), 1)
	if r.loaded {
		r.items = append(r.items, item)
	} else {
		r.preload = append(r.preload, item)
	}
}

// AddAll appends multiple targets.
func (r *ToMany[T]) AddAll(items ...T) {
	for _, item := range items {
		r.Add(item)
	}
}

// RemoveByID removes the target with the given id from whichever list
// holds it and counts a net remove. Removing an id that is not present
// is a no-op reporting false, not an error.
func (r *ToMany[T]) RemoveByID(id uint64) bool {
	if id == 0 {
		return false
	}
	found := false
	if i := indexByID(r.items, id); i >= 0 {
		r.items = append(r.items[:i], r.items[i+1:]...)
		found = true
	}
	if i := indexByID(r.preload, id); i >= 0 {
		r.preload = append(r.preload[:i], r.preload[i+1:]...)
		found = true
	}
	if found {
		r.track(id, -1)
	}
	return found
}

// Clear counts a net remove for every currently held item and empties
// both lists. The relation counts as loaded afterwards.
func (r *ToMany[T]) Clear() {
	for _, item := range r.items {
		r.track(item.EntityID(), -1)
	}
	for _, item := range r.preload {
		r.track(item.EntityID(), -1)
	}
	r.items = []T{}
	r.loaded = true
	r.preload = nil
}

// SetItems installs the freshly fetched target list. Items added before
// the load completed are appended after the fetched items, preserving
// arrival order. The change log is left untouched, so handing the same
// fetch result in twice does not double-count anything.
func (r *ToMany[T]) SetItems(items []T) {
	r.items = append(items, r.preload...)
	r.preload = nil
	r.loaded = true
}

// PendingChanges returns the target ids with a nonzero net change,
// partitioned by sign and sorted ascending. Ids whose adds and removes
// cancelled out appear in neither list.
func (r *ToMany[T]) PendingChanges() (added, removed []uint64) {
	for id, count := range r.changes {
		switch {
		case count > 0:
			added = append(added, id)
		case count < 0:
			removed = append(removed, id)
		}
	}
	sort.Slice(added, func(i, j int) bool { return added[i] < added[j] })
	sort.Slice(removed, func(i, j int) bool { return removed[i] < removed[j] })
	return added, removed
}

// HasPendingChanges reports whether any net change is outstanding.
func (r *ToMany[T]) HasPendingChanges() bool {
	for _, count := range r.changes {
		if count != 0 {
			return true
		}
	}
	return false
}

// ClearPendingChanges resets the change log and discards the pre-load
// buffer. The owning record's persistence step calls this after the
// changes have been applied to the store.
func (r *ToMany[T]) ClearPendingChanges() {
	r.changes = nil
	r.preload = nil
}

// UnstoredItems returns the held items that have never been persisted
// (id zero). The owning record's persistence step puts these before
// writing the relation rows.
func (r *ToMany[T]) UnstoredItems() []T {
	var unstored []T
	for _, item := range r.items {
		if item.EntityID() == 0 {
			unstored = append(unstored, item)
		}
	}
	for _, item := range r.preload {
		if item.EntityID() == 0 {
			unstored = append(unstored, item)
		}
	}
	return unstored
}

// IDs returns the ids of all held items that have been stored.
func (r *ToMany[T]) IDs() []uint64 {
	var ids []uint64
	for _, item := range r.items {
		if id := item.EntityID(); id != 0 {
			ids = append(ids, id)
		}
	}
	for _, item := range r.preload {
		if id := item.EntityID(); id != 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// All returns a restartable sequence over the held items, loaded items
// first, then the pre-load buffer. Before any load it yields solely the
// pre-load buffer contents.
func (r *ToMany[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range r.items {
			if !yield(item) {
				return
			}
		}
		for _, item := range r.preload {
			if !yield(item) {
				return
			}
		}
	}
}

// Items returns the held items as a slice, in iteration order.
func (r *ToMany[T]) Items() []T {
	out := make([]T, 0, len(r.items)+len(r.preload))
	out = append(out, r.items...)
	out = append(out, r.preload...)
	return out
}

func indexByID[T Entity](items []T, id uint64) int {
	for i, item := range items {
		if item.EntityID() == id {
			return i
		}
	}
	return -1
}
