package editor

import (
	"strings"

	"github.com/google/uuid"
)

// idLength is the length of generated item ids
const idLength = 9

// IDFunc produces candidate ids for new entries
type IDFunc func() string

// NewID returns a short random id derived from a v4 UUID.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:idLength]
}
