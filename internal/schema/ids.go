package schema

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// IdUid pairs a small reusable sequence number with a globally unique,
// never-reused 64-bit value. The uid keeps an entity, property, index or
// relation identifiable across regenerations even when its id or name
// changes.
type IdUid struct {
	ID  uint64
	UID uint64
}

// ParseIdUid parses the "id:uid" model file form. The empty string
// parses to the zero value.
func ParseIdUid(s string) (IdUid, error) {
	if s == "" {
		return IdUid{}, nil
	}
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return IdUid{}, fmt.Errorf("malformed id pair %q: expected \"id:uid\"", s)
	}
	id, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return IdUid{}, fmt.Errorf("malformed id in %q: %w", s, err)
	}
	uid, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return IdUid{}, fmt.Errorf("malformed uid in %q: %w", s, err)
	}
	return IdUid{ID: id, UID: uid}, nil
}

// String returns the "id:uid" form, or "" for the zero value.
func (iu IdUid) String() string {
	if iu.IsZero() {
		return ""
	}
	return strconv.FormatUint(iu.ID, 10) + ":" + strconv.FormatUint(iu.UID, 10)
}

// IsZero reports whether both parts are unset.
func (iu IdUid) IsZero() bool {
	return iu.ID == 0 && iu.UID == 0
}

// MarshalText implements encoding.TextMarshaler so IdUid serializes as
// an "id:uid" JSON string.
func (iu IdUid) MarshalText() ([]byte, error) {
	return []byte(iu.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (iu *IdUid) UnmarshalText(text []byte) error {
	parsed, err := ParseIdUid(string(text))
	if err != nil {
		return err
	}
	*iu = parsed
	return nil
}

// NewUID mints a fresh 64-bit uid. The high bit is cleared so uids stay
// representable in signed 64-bit contexts, and zero is never returned.
func NewUID() uint64 {
	for {
		u := uuid.New()
		v := binary.BigEndian.Uint64(u[:8]) &^ (1 << 63)
		if v != 0 {
			return v
		}
	}
}
