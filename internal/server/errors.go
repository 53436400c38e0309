package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/cv-forge/internal/editor"
	"github.com/jonathan/cv-forge/internal/polish"
	"github.com/jonathan/cv-forge/internal/rendering"
	"github.com/jonathan/cv-forge/internal/schemas"
	"github.com/jonathan/cv-forge/internal/session"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrPDFDisabled is returned when PDF export is requested but not configured
var ErrPDFDisabled = errors.New("PDF export is not enabled")

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		intentErr     *editor.IntentError
		schemaErr     *schemas.ValidationError
		polishInput   *polish.ValidationError
		configErr     *polish.ConfigError
		providerErr   *polish.ProviderError
		parseErr      *polish.ParseError
		tooLarge      *http.MaxBytesError
	)

	switch {
	case errors.As(err, &validationErr), errors.As(err, &intentErr), errors.As(err, &schemaErr),
		errors.As(err, &polishInput), errors.Is(err, editor.ErrUnknownField),
		errors.Is(err, editor.ErrNotAnImage), errors.Is(err, rendering.ErrUnknownTemplate):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNotFound), errors.Is(err, editor.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrPolishInProgress):
		return http.StatusConflict
	case errors.Is(err, editor.ErrPhotoTooLarge), errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrPDFDisabled):
		return http.StatusNotImplemented
	case errors.As(err, &configErr), errors.As(err, &providerErr), errors.As(err, &parseErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage returns the text placed in the error body. Polishing failures
// collapse to the generic message; internal errors never leak their detail.
func UserMessage(err error) string {
	var (
		polishInput *polish.ValidationError
		configErr   *polish.ConfigError
		providerErr *polish.ProviderError
		parseErr    *polish.ParseError
	)
	switch {
	case errors.As(err, &polishInput), errors.As(err, &configErr),
		errors.As(err, &providerErr), errors.As(err, &parseErr):
		return polish.UserMessage(err)
	}

	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
