package util

import (
	"github.com/oklog/ulid/v2"
)

// NewULID returns a new lexicographically sortable identifier. Safe for concurrent use.
func NewULID() string {
	return ulid.Make().String()
}
