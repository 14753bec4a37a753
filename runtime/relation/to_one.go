package relation

import (
	"context"
	"fmt"
)

// State describes where a ToOne reference is in its lifecycle.
type State int

const (
	// StateEmpty means no target is referenced.
	StateEmpty State = iota
	// StateUnstored means a target value is held but has never been
	// persisted, so its id is unknown.
	StateUnstored
	// StateLazy means the target id is known but the value has not
	// been fetched.
	StateLazy
	// StateStored means both the target id and the value are cached.
	StateStored
	// StateUnresolvable means the id was set but the fetch found
	// nothing. Terminal until the reference is cleared or reset.
	StateUnresolvable
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateUnstored:
		return "unstored"
	case StateLazy:
		return "lazy"
	case StateStored:
		return "stored"
	case StateUnresolvable:
		return "unresolvable"
	default:
		return "unknown"
	}
}

// ToOne references at most one record of the target type T. The target
// id is persisted as a property of the owning record ("customerId" for
// a field "customer"); the value itself is fetched lazily on first
// value-level access.
//
// The zero value is an empty reference.
type ToOne[T Entity] struct {
	targetID uint64
	state    State
	target   T
}

// NewOne returns an empty reference.
func NewOne[T Entity]() ToOne[T] {
	return ToOne[T]{}
}

// OneWithID returns a reference to the given target id, fetched lazily
// on first value access. An id of zero yields an empty reference.
func OneWithID[T Entity](id uint64) ToOne[T] {
	if id == 0 {
		return ToOne[T]{}
	}
	return ToOne[T]{targetID: id, state: StateLazy}
}

// State returns the current lifecycle state.
func (r *ToOne[T]) State() State {
	return r.state
}

// TargetID returns the referenced id, or zero when no stored target is
// referenced. Reading the id never triggers a fetch.
func (r *ToOne[T]) TargetID() uint64 {
	return r.targetID
}

// SetTargetID points the reference at a stored record by id, dropping
// any cached value. Zero clears the reference.
func (r *ToOne[T]) SetTargetID(id uint64) {
	if id == 0 {
		r.Clear()
		return
	}
	var zero T
	r.targetID = id
	r.state = StateLazy
	r.target = zero
}

// SetTarget caches a target value. A value that has never been stored
// (id zero) leaves the reference unstored until the owning record's
// persistence step puts it and calls MarkStored.
func (r *ToOne[T]) SetTarget(target T) {
	id := target.EntityID()
	if id == 0 {
		r.targetID = 0
		r.state = StateUnstored
	} else {
		r.targetID = id
		r.state = StateStored
	}
	r.target = target
}

// Clear empties the reference from any state.
func (r *ToOne[T]) Clear() {
	var zero T
	r.targetID = 0
	r.state = StateEmpty
	r.target = zero
}

// MarkStored records the id assigned to an unstored target after the
// owning record's persistence step put it. A no-op in any other state.
func (r *ToOne[T]) MarkStored(id uint64) {
	if r.state != StateUnstored {
		return
	}
	r.targetID = id
	r.state = StateStored
}

// NeedsPut reports whether the held target still has to be persisted
// before the owning record's reference can be written.
func (r *ToOne[T]) NeedsPut() bool {
	return r.state == StateUnstored
}

// HasValue reports whether a target is referenced.
func (r *ToOne[T]) HasValue() bool {
	return r.state != StateEmpty
}

// IsEmpty reports whether no target is referenced.
func (r *ToOne[T]) IsEmpty() bool {
	return r.state == StateEmpty
}

// Target returns the referenced value, fetching it through loader on
// first value-level access. The boolean is false when the reference is
// empty or unresolvable.
//
// Reading the value of a lazy reference without a loader is a contract
// violation on the caller's side, not a recoverable condition.
func (r *ToOne[T]) Target(ctx context.Context, loader Loader[T]) (T, bool, error) {
	var zero T
	switch r.state {
	case StateEmpty, StateUnresolvable:
		return zero, false, nil
	case StateUnstored, StateStored:
		return r.target, true, nil
	case StateLazy:
		if loader == nil {
			panic(fmt.Sprintf("relation: target of lazy reference %d read without a store", r.targetID))
		}
		target, found, err := loader.Get(ctx, r.targetID)
		if err != nil {
			return zero, false, err
		}
		if !found {
			r.state = StateUnresolvable
			return zero, false, nil
		}
		r.target = target
		r.state = StateStored
		return target, true, nil
	default:
		return zero, false, nil
	}
}
