// Package store defines the storage collaborator surface the relation
// runtimes and generated bindings depend on, and ships a reference
// implementation backed by bbolt. The real storage engine is external;
// nothing in the schema toolchain depends on anything here beyond the
// interfaces.
package store

import (
	"context"

	"github.com/stratadb/strata/runtime/relation"
)

// Store is the persistence capability for one entity type. Relation
// runtimes call into it only through the owning record's persistence
// step, never directly.
type Store[T relation.Entity] interface {
	// Put persists the record, assigning an id when it has none, and
	// returns the id.
	Put(ctx context.Context, record T) (uint64, error)
	// Get fetches a record by id. The boolean is false when no record
	// with that id exists.
	Get(ctx context.Context, id uint64) (T, bool, error)
	// FetchRelated returns the target ids linked to ownerID through
	// the given standalone relation.
	FetchRelated(ctx context.Context, relationID, ownerID uint64) ([]uint64, error)
}

// ModelBuilder receives the schema-builder invocation sequence the
// generated bindings replay when a store opens. Calls arrive in
// declaration order: Entity, then its properties with their index and
// relation-target sub-calls, then its standalone relations.
type ModelBuilder interface {
	Entity(name string, id, uid uint64) ModelBuilder
	Property(name string, id, uid uint64, propertyType uint16, flags uint32) ModelBuilder
	PropertyIndex(id, uid uint64) ModelBuilder
	PropertyRelation(targetEntity string, indexID, indexUID uint64) ModelBuilder
	Relation(id, uid, targetID, targetUID uint64) ModelBuilder
	LastPropertyID(id, uid uint64) ModelBuilder
}
