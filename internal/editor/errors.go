package editor

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownField is returned when a field name does not exist on the target record
	ErrUnknownField = errors.New("unknown field")
	// ErrItemNotFound is returned when no entry in the section has the given id
	ErrItemNotFound = errors.New("item not found")
	// ErrPhotoTooLarge is returned when an uploaded photo exceeds the size limit
	ErrPhotoTooLarge = errors.New("photo exceeds size limit")
	// ErrNotAnImage is returned when an uploaded file is not an image
	ErrNotAnImage = errors.New("file is not an image")
)

// IntentError represents a malformed editing intent
type IntentError struct {
	Field   string
	Message string
}

func (e *IntentError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid intent: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid intent: %s", e.Message)
}
