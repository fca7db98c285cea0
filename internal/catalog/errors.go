package catalog

import (
	"errors"
	"fmt"

	"github.com/dvstream/catalog/internal/store"
)

var (
	// ErrNotFound is returned when a movie or series id does not resolve.
	ErrNotFound = store.ErrNotFound
	// ErrEpisodeNotFound is returned when an episode id does not resolve
	// within its series.
	ErrEpisodeNotFound = store.ErrEpisodeNotFound
	// ErrInvalidType is returned for a content type other than movie or series.
	ErrInvalidType = errors.New("invalid content type")
)

// ValidationError describes a payload the service refuses to store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
