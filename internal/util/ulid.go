package util

import (
	"github.com/oklog/ulid/v2"
)

// NewULID returns a new ULID string. ulid.Make is safe for concurrent use and
// monotonic within the same millisecond.
func NewULID() string {
	return ulid.Make().String()
}

// IsULID reports whether s parses as a ULID.
func IsULID(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
