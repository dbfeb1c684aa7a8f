package shared

import (
	"errors"
	"fmt"
)

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed = fmt.Errorf("authentication failed")

	// External API errors
	ErrAPIRequest  = fmt.Errorf("API request failed")
	ErrTimeout     = fmt.Errorf("operation timed out")
	ErrAppNotFound = fmt.Errorf("invalid Steam ID or game not found")

	// Storage errors
	ErrStorageUnavailable = fmt.Errorf("storage unavailable")
	ErrGameNotFound       = fmt.Errorf("game not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// ErrorKind names the category an error belongs to.
type ErrorKind string

const (
	KindInvalidInput       ErrorKind = "invalid_input"
	KindNotFound           ErrorKind = "not_found"
	KindExternalService    ErrorKind = "external_service"
	KindStorageUnavailable ErrorKind = "storage_unavailable"
	KindUnknown            ErrorKind = "unknown"
)

// KindOf classifies err against the sentinel errors above.
//
// Returns the empty kind for a nil error.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrMissingArgument), errors.Is(err, ErrInvalidArgument):
		return KindInvalidInput
	case errors.Is(err, ErrGameNotFound), errors.Is(err, ErrAppNotFound):
		return KindNotFound
	case errors.Is(err, ErrAPIRequest), errors.Is(err, ErrTimeout):
		return KindExternalService
	case errors.Is(err, ErrStorageUnavailable):
		return KindStorageUnavailable
	default:
		return KindUnknown
	}
}
