package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every layer. Services pass these through
// unchanged; the HTTP layer maps each class to a status code.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrUnimplemented = errors.New("not implemented")
	ErrRateLimited   = errors.New("rate limited")
	ErrStore         = errors.New("store error")
)

// InvalidInputf wraps ErrInvalidInput with a formatted detail. The detail is
// for logs only; HTTP responses carry a constant string.
func InvalidInputf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
}

// StoreErrorf wraps ErrStore so adapter failures surface as a single class.
// Callers pass the driver cause through %w so errors.Is still sees it, in
// particular context.DeadlineExceeded on timed-out queries.
func StoreErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrStore}, args...)...)
}
