package store

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	bolt "go.etcd.io/bbolt"

	"github.com/stratadb/strata/runtime/relation"
)

var relationsBucket = []byte("relations")

// Options configures the reference store. The database location is
// explicit configuration; it is never derived from ambient process
// state.
type Options struct {
	Path     string
	FileMode os.FileMode
	Timeout  time.Duration
}

// Bolt is a reference Store implementation backed by bbolt, with one
// bucket per entity and a shared bucket for standalone relation rows.
// It exists to exercise the generated bindings and the relation
// runtimes end to end; it is not the storage engine.
type Bolt struct {
	db    *bolt.DB
	model *ModelRecorder
}

// OpenBolt opens (creating if needed) a bolt store for the entities
// recorded in model.
func OpenBolt(opts Options, model *ModelRecorder) (*Bolt, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("store: database path is required")
	}
	mode := opts.FileMode
	if mode == 0 {
		mode = 0o600
	}
	db, err := bolt.Open(opts.Path, mode, &bolt.Options{Timeout: opts.Timeout})
	if err != nil {
		return nil, fmt.Errorf("store: failed to open %s: %w", opts.Path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(relationsBucket); err != nil {
			return err
		}
		for _, e := range model.Entities {
			if _, err := tx.CreateBucketIfNotExists(entityBucket(e.Name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("store: failed to create buckets: %w", err)
	}

	return &Bolt{db: db, model: model}, nil
}

// Close closes the underlying database.
func (s *Bolt) Close() error {
	return s.db.Close()
}

// FetchRelated returns the target ids linked to ownerID through the
// given standalone relation, in ascending id order.
func (s *Bolt) FetchRelated(ctx context.Context, relationID, ownerID uint64) ([]uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var targets []uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(relationsBucket).Cursor()
		prefix := relationPrefix(relationID, ownerID)
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			targets = append(targets, binary.BigEndian.Uint64(k[16:]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: failed to fetch relation %d of %d: %w", relationID, ownerID, err)
	}
	return targets, nil
}

// ApplyRelationChanges writes the pending changes of a multi-target
// relation: one row per added target, one deletion per removed target.
// Called by the owning record's persistence step.
func (s *Bolt) ApplyRelationChanges(ctx context.Context, relationID, ownerID uint64, added, removed []uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(relationsBucket)
		for _, target := range added {
			if err := b.Put(relationKey(relationID, ownerID, target), []byte{1}); err != nil {
				return err
			}
		}
		for _, target := range removed {
			if err := b.Delete(relationKey(relationID, ownerID, target)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store: failed to apply relation changes: %w", err)
	}
	return nil
}

// Box gives typed access to one entity's records. The factory
// allocates an empty record for decoding.
type Box[T relation.Entity] struct {
	store   *Bolt
	bucket  []byte
	factory func() T
}

// NewBox creates a box for the named entity.
func NewBox[T relation.Entity](s *Bolt, entityName string, factory func() T) *Box[T] {
	return &Box[T]{
		store:   s,
		bucket:  entityBucket(entityName),
		factory: factory,
	}
}

// Put persists the record, assigning the next sequence id when the
// record has none, and returns the id.
func (b *Box[T]) Put(ctx context.Context, record T) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var id uint64
	err := b.store.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(b.bucket)
		if bkt == nil {
			return fmt.Errorf("unknown entity bucket %s", b.bucket)
		}
		id = record.EntityID()
		if id == 0 {
			seq, err := bkt.NextSequence()
			if err != nil {
				return err
			}
			record.SetEntityID(seq)
			id = seq
		}
		data, err := msgpack.Marshal(record)
		if err != nil {
			return err
		}
		return bkt.Put(recordKey(id), data)
	})
	if err != nil {
		return 0, fmt.Errorf("store: put failed: %w", err)
	}
	return id, nil
}

// Get fetches a record by id; the boolean is false when none exists.
func (b *Box[T]) Get(ctx context.Context, id uint64) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	var data []byte
	err := b.store.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(b.bucket)
		if bkt == nil {
			return fmt.Errorf("unknown entity bucket %s", b.bucket)
		}
		if v := bkt.Get(recordKey(id)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return zero, false, fmt.Errorf("store: get failed: %w", err)
	}
	if data == nil {
		return zero, false, nil
	}
	record := b.factory()
	if err := msgpack.Unmarshal(data, record); err != nil {
		return zero, false, fmt.Errorf("store: failed to decode record %d: %w", id, err)
	}
	return record, true, nil
}

// Delete removes a record by id. Deleting an absent id is a no-op.
func (b *Box[T]) Delete(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.store.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(b.bucket)
		if bkt == nil {
			return fmt.Errorf("unknown entity bucket %s", b.bucket)
		}
		return bkt.Delete(recordKey(id))
	})
	if err != nil {
		return fmt.Errorf("store: delete failed: %w", err)
	}
	return nil
}

// FetchRelated implements Store by delegating to the shared relation
// rows.
func (b *Box[T]) FetchRelated(ctx context.Context, relationID, ownerID uint64) ([]uint64, error) {
	return b.store.FetchRelated(ctx, relationID, ownerID)
}

func entityBucket(name string) []byte {
	return []byte("entity:" + name)
}

func recordKey(id uint64) []byte {
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], id)
	return k[:]
}

func relationPrefix(relationID, ownerID uint64) []byte {
	var k [16]byte
	binary.BigEndian.PutUint64(k[:8], relationID)
	binary.BigEndian.PutUint64(k[8:], ownerID)
	return k[:]
}

func relationKey(relationID, ownerID, targetID uint64) []byte {
	var k [24]byte
	binary.BigEndian.PutUint64(k[:8], relationID)
	binary.BigEndian.PutUint64(k[8:16], ownerID)
	binary.BigEndian.PutUint64(k[16:], targetID)
	return k[:]
}
