package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition    = errors.New("invalid lifecycle transition")
	ErrPermissionDenied     = errors.New("notification permission denied")
	ErrHandleNotFound       = errors.New("notification handle not found")
	ErrKeyNotReserved       = errors.New("reminder key not reserved")
	ErrKeyAlreadyScheduled  = errors.New("reminder key already scheduled")
	ErrReconciliationHalted = errors.New("reconciliation halted until re-authentication")
	ErrUnknownSpecies       = errors.New("unknown species")
	ErrNetwork              = errors.New("network error")
	ErrAuth                 = errors.New("authentication error")
)

// InvalidTransitionError describes a rejected lifecycle mutation.
type InvalidTransitionError struct {
	From   LifecycleStatus
	Event  string
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s from %s: %s", e.Event, e.From, e.Reason)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// NetworkError is a transient failure talking to the backend. Callers may retry.
type NetworkError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: network error: unexpected status code %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// AuthError means the session is no longer accepted by the backend. It is not
// retryable until the session layer re-authenticates.
type AuthError struct {
	Op         string
	StatusCode int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: authentication rejected with status %d", e.Op, e.StatusCode)
}

func (e *AuthError) Is(target error) bool {
	return target == ErrAuth
}

func IsRetryable(err error) bool {
	return errors.Is(err, ErrNetwork)
}
