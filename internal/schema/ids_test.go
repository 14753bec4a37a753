package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIdUid(t *testing.T) {
	iu, err := ParseIdUid("3:12345")
	require.NoError(t, err)
	assert.Equal(t, IdUid{ID: 3, UID: 12345}, iu)
}

func TestParseIdUidEmptyIsZero(t *testing.T) {
	iu, err := ParseIdUid("")
	require.NoError(t, err)
	assert.True(t, iu.IsZero())
}

func TestParseIdUidMalformed(t *testing.T) {
	for _, s := range []string{"3", "a:b", "3:", ":5", "3:4:5"} {
		_, err := ParseIdUid(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestIdUidString(t *testing.T) {
	assert.Equal(t, "3:12345", IdUid{ID: 3, UID: 12345}.String())
	assert.Equal(t, "", IdUid{}.String())
}

func TestIdUidTextRoundTrip(t *testing.T) {
	original := IdUid{ID: 7, UID: 9001}

	text, err := original.MarshalText()
	require.NoError(t, err)

	var decoded IdUid
	require.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, original, decoded)
}

func TestNewUID(t *testing.T) {
	seen := make(map[uint64]bool)
	for i := 0; i < 100; i++ {
		uid := NewUID()
		assert.NotZero(t, uid)
		assert.Zero(t, uid>>63, "high bit must be clear")
		assert.False(t, seen[uid], "uid repeated")
		seen[uid] = true
	}
}
