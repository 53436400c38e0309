package polish

import (
	"errors"
	"fmt"
)

// User-facing messages
const (
	MsgNeedInput      = "Please enter at least a name or some experience before generating."
	MsgGenerateFailed = "Failed to generate CV. Please check your API key and try again."
)

// ValidationError is returned when the CV does not carry enough content to polish
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ConfigError represents a missing or unusable provider configuration
type ConfigError struct {
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// ProviderError represents a failed call to the model provider (network, HTTP status, timeout)
type ProviderError struct {
	Message string
	Cause   error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider call failed: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// ParseError represents a provider reply that is not a usable CV
type ParseError struct {
	Message string
	Raw     string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// UserMessage maps a polish error to the message shown to the user.
// Every failure other than a validation failure gets the same generic text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return MsgNeedInput
	}
	return MsgGenerateFailed
}
