// Package history implements the bounded, ordered log of committed lines
// shared by the readline widget, plus its binary state codec.
package history

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// DefaultLimit is used when the caller does not configure a capacity.
const DefaultLimit = 128

var (
	// ErrCorruptState marks a malformed or truncated state blob.
	ErrCorruptState = errors.New("history: corrupt state blob")
	// ErrVersion marks a state blob with an unsupported major version.
	ErrVersion = errors.New("history: unsupported state version")
)

// Store is a capacity-bounded, append-only sequence of committed lines.
// The oldest entry is evicted once the capacity is exceeded. Entries are
// never mutated in place; they go away only through eviction or Reset.
type Store struct {
	limit   int
	entries []string
}

func New(limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{limit: limit}
}

// Append adds a committed line, evicting the oldest entry when the
// capacity is exceeded. Empty lines and repeats of the newest entry
// are not recorded.
func (s *Store) Append(text string) {
	if text == "" {
		return
	}
	if n := len(s.entries); n > 0 && s.entries[n-1] == text {
		return
	}
	s.entries = append(s.entries, text)
	if len(s.entries) > s.limit {
		s.entries = s.entries[len(s.entries)-s.limit:]
	}
}

func (s *Store) Len() int {
	return len(s.entries)
}

func (s *Store) Limit() int {
	return s.limit
}

// At returns the i-th entry, oldest first.
func (s *Store) At(i int) string {
	return s.entries[i]
}

// Entries returns a copy of the log, oldest first.
func (s *Store) Entries() []string {
	return append([]string(nil), s.entries...)
}

func (s *Store) Reset() {
	s.entries = nil
}

// State blob layout (big endian):
//
//	magic   [4]byte "TKHS"
//	major   uint16
//	minor   uint16
//	count   uint32
//	records count times: tag uint8, length uint32, payload [length]byte
//
// Records with an unknown tag are skipped on load so minor versions can
// add record kinds without breaking older readers. A major version bump
// is a hard reject.
const (
	stateMajor = 1
	stateMinor = 0

	recordLine = 0x01

	maxRecordLen = 1 << 20
)

var stateMagic = [4]byte{'T', 'K', 'H', 'S'}

// MarshalBinary serializes the log into a self-describing blob that
// round-trips exactly through UnmarshalBinary.
func (s *Store) MarshalBinary() ([]byte, error) {
	out := make([]byte, 0, 12+len(s.entries)*8)
	out = append(out, stateMagic[:]...)
	out = binary.BigEndian.AppendUint16(out, stateMajor)
	out = binary.BigEndian.AppendUint16(out, stateMinor)
	out = binary.BigEndian.AppendUint32(out, uint32(len(s.entries)))
	for _, e := range s.entries {
		out = append(out, recordLine)
		out = binary.BigEndian.AppendUint32(out, uint32(len(e)))
		out = append(out, e...)
	}
	return out, nil
}

// UnmarshalBinary restores the log from a blob produced by MarshalBinary.
// The blob is validated in full before anything is applied; on error the
// existing entries are left untouched.
func (s *Store) UnmarshalBinary(data []byte) error {
	if len(data) < 12 {
		return fmt.Errorf("%w: header truncated at %d bytes", ErrCorruptState, len(data))
	}
	if [4]byte(data[:4]) != stateMagic {
		return fmt.Errorf("%w: bad magic", ErrCorruptState)
	}
	major := binary.BigEndian.Uint16(data[4:6])
	if major != stateMajor {
		return fmt.Errorf("%w: major %d", ErrVersion, major)
	}
	count := binary.BigEndian.Uint32(data[8:12])
	rest := data[12:]
	// Each record is at least 5 bytes; a count the payload cannot hold is
	// corrupt, and must not size an allocation.
	if uint64(count)*5 > uint64(len(rest)) {
		return fmt.Errorf("%w: count %d exceeds payload", ErrCorruptState, count)
	}

	loaded := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		if len(rest) < 5 {
			return fmt.Errorf("%w: record %d truncated", ErrCorruptState, i)
		}
		tag := rest[0]
		n := binary.BigEndian.Uint32(rest[1:5])
		if n > maxRecordLen {
			return fmt.Errorf("%w: record %d length %d", ErrCorruptState, i, n)
		}
		rest = rest[5:]
		if uint32(len(rest)) < n {
			return fmt.Errorf("%w: record %d payload truncated", ErrCorruptState, i)
		}
		payload := rest[:n]
		rest = rest[n:]
		if tag != recordLine {
			// Minor-version record kind we do not know; skip.
			continue
		}
		loaded = append(loaded, string(payload))
	}
	if len(rest) != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrCorruptState, len(rest))
	}

	if len(loaded) > s.limit {
		loaded = loaded[len(loaded)-s.limit:]
	}
	s.entries = loaded
	return nil
}
