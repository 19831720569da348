package engine

import (
	"errors"
	"fmt"
)

// Error represents a failure reported by the draw engine.
//
// Errors include:
//   - Invalid configuration: empty universe, start > end, zero pool size
//   - Invalid count: DrawMultiple asked for zero ids
//   - Pool too small: DrawMultiple asked for more ids than the pool holds
//   - Selection impossible: nothing left to draw from, even after reset
//   - Persistence: the store failed to load or save
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// EngineID identifies the affected engine (its deterministic ID).
	EngineID string

	// Details contains additional context.
	Details map[string]string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	// ErrCodeInvalidConfiguration indicates bad constructor arguments.
	ErrCodeInvalidConfiguration ErrorCode = "INVALID_CONFIGURATION"

	// ErrCodeInvalidCount indicates a batch draw of zero ids.
	ErrCodeInvalidCount ErrorCode = "INVALID_COUNT"

	// ErrCodePoolTooSmall indicates a batch larger than the current pool.
	ErrCodePoolTooSmall ErrorCode = "POOL_TOO_SMALL"

	// ErrCodeSelectionImpossible indicates an empty pool after the reset
	// circuit breaker.
	ErrCodeSelectionImpossible ErrorCode = "SELECTION_IMPOSSIBLE"

	// ErrCodePersistence indicates a store load or save failure.
	ErrCodePersistence ErrorCode = "PERSISTENCE"
)

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.EngineID != "" {
		msg = fmt.Sprintf("%s (engine=%s)", msg, e.EngineID)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsInvalidConfiguration returns true for constructor argument errors.
func IsInvalidConfiguration(err error) bool {
	return hasCode(err, ErrCodeInvalidConfiguration)
}

// IsInvalidCount returns true for zero-sized batch requests.
func IsInvalidCount(err error) bool {
	return hasCode(err, ErrCodeInvalidCount)
}

// IsPoolTooSmall returns true when a batch exceeded the candidate pool.
func IsPoolTooSmall(err error) bool {
	return hasCode(err, ErrCodePoolTooSmall)
}

// IsSelectionImpossible returns true when no id could be selected.
func IsSelectionImpossible(err error) bool {
	return hasCode(err, ErrCodeSelectionImpossible)
}

// IsPersistence returns true for store failures.
func IsPersistence(err error) bool {
	return hasCode(err, ErrCodePersistence)
}

// hasCode uses errors.As to handle wrapped errors.
func hasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// NewInvalidConfigurationError creates an Error for bad constructor arguments.
func NewInvalidConfigurationError(message string, cause error) *Error {
	return &Error{
		Code:    ErrCodeInvalidConfiguration,
		Message: message,
		Err:     cause,
	}
}

// NewInvalidCountError creates an Error for a zero-sized batch.
func NewInvalidCountError(engineID string, n int) *Error {
	return &Error{
		Code:     ErrCodeInvalidCount,
		Message:  "draw count must be greater than 0",
		EngineID: engineID,
		Details: map[string]string{
			"count": fmt.Sprintf("%d", n),
		},
	}
}

// NewPoolTooSmallError creates an Error for a batch exceeding the pool.
func NewPoolTooSmallError(engineID string, n, poolSize int) *Error {
	return &Error{
		Code:     ErrCodePoolTooSmall,
		Message:  fmt.Sprintf("draw count %d exceeds candidate pool size %d", n, poolSize),
		EngineID: engineID,
		Details: map[string]string{
			"count":     fmt.Sprintf("%d", n),
			"pool_size": fmt.Sprintf("%d", poolSize),
		},
	}
}

// NewSelectionImpossibleError creates an Error for an empty candidate pool.
func NewSelectionImpossibleError(engineID string) *Error {
	return &Error{
		Code:     ErrCodeSelectionImpossible,
		Message:  "no candidate left to select from",
		EngineID: engineID,
	}
}

// NewPersistenceError creates an Error wrapping a store failure.
func NewPersistenceError(engineID, op string, cause error) *Error {
	return &Error{
		Code:     ErrCodePersistence,
		Message:  op + " failed",
		EngineID: engineID,
		Err:      cause,
	}
}
