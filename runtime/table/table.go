// Package table defines the offset-addressed table codec surface
// consumed by generated binding code. The real binary codec lives in
// the storage engine; this package pins down the read/write contract
// and ships MemTable, an in-memory implementation used by tests and
// the reference store.
package table

// Table reads field values at table offsets. Every reader reports
// whether the slot held a value, so absent optional fields decode to
// "no value" instead of a type default.
type Table interface {
	Bool(offset int) (bool, bool)
	Int64(offset int) (int64, bool)
	Uint64(offset int) (uint64, bool)
	Float32(offset int) (float32, bool)
	Float64(offset int) (float64, bool)
	String(offset int) (string, bool)
	Bytes(offset int) ([]byte, bool)
	Strings(offset int) ([]string, bool)
}

// Builder writes field values at table offsets. Slots never written
// stay absent.
type Builder struct {
	slots map[int]any
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{slots: make(map[int]any)}
}

// PutBool writes a bool slot.
func (b *Builder) PutBool(offset int, v bool) { b.slots[offset] = v }

// PutInt64 writes a signed integer slot.
func (b *Builder) PutInt64(offset int, v int64) { b.slots[offset] = v }

// PutUint64 writes an unsigned integer slot.
func (b *Builder) PutUint64(offset int, v uint64) { b.slots[offset] = v }

// PutFloat32 writes a 32-bit float slot.
func (b *Builder) PutFloat32(offset int, v float32) { b.slots[offset] = v }

// PutFloat64 writes a 64-bit float slot.
func (b *Builder) PutFloat64(offset int, v float64) { b.slots[offset] = v }

// PutString writes a text slot.
func (b *Builder) PutString(offset int, v string) { b.slots[offset] = v }

// PutBytes writes a byte vector slot.
func (b *Builder) PutBytes(offset int, v []byte) { b.slots[offset] = v }

// PutStrings writes a string vector slot.
func (b *Builder) PutStrings(offset int, v []string) { b.slots[offset] = v }

// Table freezes the builder into a readable table.
func (b *Builder) Table() Table {
	return MemTable{slots: b.slots}
}

// MemTable is a map-backed Table.
type MemTable struct {
	slots map[int]any
}

// Bool implements Table.
func (t MemTable) Bool(offset int) (bool, bool) {
	v, ok := t.slots[offset].(bool)
	return v, ok
}

// Int64 implements Table.
func (t MemTable) Int64(offset int) (int64, bool) {
	switch v := t.slots[offset].(type) {
	case int64:
		return v, true
	case uint64:
		return int64(v), true
	}
	return 0, false
}

// Uint64 implements Table.
func (t MemTable) Uint64(offset int) (uint64, bool) {
	switch v := t.slots[offset].(type) {
	case uint64:
		return v, true
	case int64:
		return uint64(v), true
	}
	return 0, false
}

// Float32 implements Table.
func (t MemTable) Float32(offset int) (float32, bool) {
	v, ok := t.slots[offset].(float32)
	return v, ok
}

// Float64 implements Table.
func (t MemTable) Float64(offset int) (float64, bool) {
	v, ok := t.slots[offset].(float64)
	return v, ok
}

// String implements Table.
func (t MemTable) String(offset int) (string, bool) {
	v, ok := t.slots[offset].(string)
	return v, ok
}

// Bytes implements Table.
func (t MemTable) Bytes(offset int) ([]byte, bool) {
	v, ok := t.slots[offset].([]byte)
	return v, ok
}

// Strings implements Table.
func (t MemTable) Strings(offset int) ([]string, bool) {
	v, ok := t.slots[offset].([]string)
	return v, ok
}
