package errors

import "errors"

var (
	ErrAlreadyExists         = errors.New("already exists")
	ErrNotFound              = errors.New("not found")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidPurchaseNumber = errors.New("invalid purchase number")
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrInsufficientPoints    = errors.New("insufficient points")
	ErrPersistenceFailure    = errors.New("persistence failure")
	ErrUnauthenticated       = errors.New("unauthenticated")
)

// Kind names a class of failure exposed to API clients.
type Kind string

const (
	KindNotFound           Kind = "not_found"
	KindInsufficientPoints Kind = "insufficient_points"
	KindPersistenceFailure Kind = "persistence_failure"
	KindUnauthenticated    Kind = "unauthenticated"
	KindInvalidArgument    Kind = "invalid_argument"
	KindConflict           Kind = "conflict"
)

// KindOf classifies err. Unknown errors and timeouts count as persistence failures.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInsufficientPoints):
		return KindInsufficientPoints
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidCredentials):
		return KindUnauthenticated
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrInvalidPurchaseNumber):
		return KindInvalidArgument
	case errors.Is(err, ErrAlreadyExists):
		return KindConflict
	default:
		return KindPersistenceFailure
	}
}
