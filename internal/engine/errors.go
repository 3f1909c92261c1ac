package engine

import (
	"errors"
	"fmt"
)

// ContractError represents caller misuse detected at an engine entry
// point. Contract violations are programmer errors: they are rejected
// before any interval is touched, so no partial-apply state exists.
//
// With debug checks enabled (WithDebugChecks) a contract violation
// panics; otherwise it is returned to the caller after being logged.
type ContractError struct {
	// Code identifies the violated contract.
	Code ContractErrorCode

	// Message is a human-readable description.
	Message string

	// Index and Count carry the offending range where relevant.
	Index int
	Count int
}

// ContractErrorCode categorizes contract violations.
type ContractErrorCode string

const (
	// ErrCodeOutOfBounds indicates a notification range outside the
	// current item-count bounds.
	ErrCodeOutOfBounds ContractErrorCode = "OUT_OF_BOUNDS"

	// ErrCodeReorderActive indicates a structural notification while a
	// reorder is in progress.
	ErrCodeReorderActive ContractErrorCode = "REORDER_ACTIVE"

	// ErrCodeNoReorder indicates a reorder operation without an active
	// reorder session.
	ErrCodeNoReorder ContractErrorCode = "NO_REORDER"

	// ErrCodeBadPick indicates a reorder or move anchored on a slot that
	// is not settled content.
	ErrCodeBadPick ContractErrorCode = "BAD_PICK"

	// ErrCodeDisposed indicates use of the engine after Dispose.
	ErrCodeDisposed ContractErrorCode = "DISPOSED"

	// ErrCodeClockLeak indicates the engine was disposed while a clock
	// was still active. Raised by debug instrumentation to catch missing
	// cleanup.
	ErrCodeClockLeak ContractErrorCode = "CLOCK_LEAK"
)

// Error implements the error interface.
func (e *ContractError) Error() string {
	if e.Count != 0 {
		return fmt.Sprintf("%s: %s (index=%d, count=%d)", e.Code, e.Message, e.Index, e.Count)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsContractError reports whether err is (or wraps) a ContractError.
func IsContractError(err error) bool {
	var ce *ContractError
	return errors.As(err, &ce)
}

// IsOutOfBounds reports whether err is an out-of-bounds contract error.
func IsOutOfBounds(err error) bool {
	var ce *ContractError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeOutOfBounds
	}
	return false
}

// IsReorderActive reports whether err is a reorder-exclusivity contract
// error.
func IsReorderActive(err error) bool {
	var ce *ContractError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeReorderActive
	}
	return false
}

// IsClockLeak reports whether err is a clock-leak error.
func IsClockLeak(err error) bool {
	var ce *ContractError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeClockLeak
	}
	return false
}

func newOutOfBounds(from, count, limit int) *ContractError {
	return &ContractError{
		Code:    ErrCodeOutOfBounds,
		Message: fmt.Sprintf("range outside current item count %d", limit),
		Index:   from,
		Count:   count,
	}
}
