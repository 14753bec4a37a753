// Package relation provides the runtime reference types generated
// bindings embed in record structs: ToOne for a reference to at most
// one target record and ToMany for a reference to many, both with lazy
// loading and change tracking.
//
// The types use single-owner interior mutability: the owning record is
// typically shared while its relation fields are updated, and every
// mutation runs to completion without suspension. They are not safe for
// concurrent mutation from multiple goroutines without external
// synchronization.
package relation

import "context"

// Entity is the identity accessor capability the relation runtimes
// require of their target type. An id of zero means "not yet stored".
type Entity interface {
	EntityID() uint64
	SetEntityID(id uint64)
}

// Loader fetches a single target record by id. The Store collaborator
// satisfies this; relation runtimes never reach the store any other
// way than through the owning record's persistence step handing one in.
type Loader[T Entity] interface {
	Get(ctx context.Context, id uint64) (T, bool, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc[T Entity] func(ctx context.Context, id uint64) (T, bool, error)

// Get implements Loader.
func (f LoaderFunc[T]) Get(ctx context.Context, id uint64) (T, bool, error) {
	return f(ctx, id)
}
