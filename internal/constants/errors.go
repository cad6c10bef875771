package constants

import (
	"errors"
	"fmt"
)

// Sentinel errors for the engine's error taxonomy.
// Claim conflicts are deliberately NOT errors: they are returned as data
// (ClaimResult) so importers can react without unwrapping anything.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrDuplicate  = errors.New("already exists")
)

// NewValidationError wraps ErrValidation with a formatted message.
func NewValidationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NewNotFoundError wraps ErrNotFound with the entity and id that were missing.
func NewNotFoundError(entity, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, entity, id)
}

// ChannelError represents a failure talking to an external booking platform:
// network errors, timeouts, auth rejections, non-2xx responses. A sync that
// hits one always produces a FAILED sync log row.
type ChannelError struct {
	Platform   string
	Op         string
	StatusCode int
	Err        error
}

func (e *ChannelError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("channel %s: %s returned HTTP %d", e.Platform, e.Op, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("channel %s: %s failed: %v", e.Platform, e.Op, e.Err)
	}
	return fmt.Sprintf("channel %s: %s failed", e.Platform, e.Op)
}

func (e *ChannelError) Unwrap() error {
	return e.Err
}

// IsChannelError reports whether err is (or wraps) a ChannelError.
func IsChannelError(err error) bool {
	var ce *ChannelError
	return errors.As(err, &ce)
}
