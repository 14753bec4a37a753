package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilderRoundTrip(t *testing.T) {
	b := NewBuilder()
	b.PutBool(4, true)
	b.PutInt64(6, -42)
	b.PutUint64(8, 42)
	b.PutFloat32(10, 1.5)
	b.PutFloat64(12, 2.5)
	b.PutString(14, "hello")
	b.PutBytes(16, []byte{1, 2})
	b.PutStrings(18, []string{"a", "b"})

	tbl := b.Table()

	v1, ok := tbl.Bool(4)
	assert.True(t, ok)
	assert.True(t, v1)

	v2, ok := tbl.Int64(6)
	assert.True(t, ok)
	assert.Equal(t, int64(-42), v2)

	v3, ok := tbl.Uint64(8)
	assert.True(t, ok)
	assert.Equal(t, uint64(42), v3)

	v4, ok := tbl.Float32(10)
	assert.True(t, ok)
	assert.Equal(t, float32(1.5), v4)

	v5, ok := tbl.Float64(12)
	assert.True(t, ok)
	assert.Equal(t, 2.5, v5)

	v6, ok := tbl.String(14)
	assert.True(t, ok)
	assert.Equal(t, "hello", v6)

	v7, ok := tbl.Bytes(16)
	assert.True(t, ok)
	assert.Equal(t, []byte{1, 2}, v7)

	v8, ok := tbl.Strings(18)
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, v8)
}

func TestAbsentSlotsReportMissing(t *testing.T) {
	tbl := NewBuilder().Table()

	_, ok := tbl.String(4)
	assert.False(t, ok)
	_, ok = tbl.Int64(6)
	assert.False(t, ok)
}

func TestIntegerSlotsConvertBetweenSigns(t *testing.T) {
	b := NewBuilder()
	b.PutUint64(4, 7)
	b.PutInt64(6, 9)
	tbl := b.Table()

	signed, ok := tbl.Int64(4)
	assert.True(t, ok)
	assert.Equal(t, int64(7), signed)

	unsigned, ok := tbl.Uint64(6)
	assert.True(t, ok)
	assert.Equal(t, uint64(9), unsigned)
}
