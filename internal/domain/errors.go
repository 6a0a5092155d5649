package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain error so transport layers can map it to a status code.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindInvalidRange
	KindNotFound
	KindForbidden
	KindUnauthorized
	KindConflict
	KindInvalidState
	KindInsufficientInventory
)

// String returns the name of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindInvalidRange:
		return "invalid_range"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindUnauthorized:
		return "unauthorized"
	case KindConflict:
		return "conflict"
	case KindInvalidState:
		return "invalid_state"
	case KindInsufficientInventory:
		return "insufficient_inventory"
	default:
		return "unknown"
	}
}

// Error is a business rule violation that is reported to the caller as-is.
type Error struct {
	Kind    ErrorKind
	Message string

	// Entity and ID identify the missing record of a not-found error. They are
	// kept out of Message so responses never echo identifiers back.
	Entity string
	ID     string
}

func (e *Error) Error() string { return e.Message }

// NewValidationError reports malformed or out-of-range input.
func NewValidationError(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewInvalidRangeError reports a date range whose start is not before its end.
func NewInvalidRangeError(message string) error {
	return &Error{Kind: KindInvalidRange, Message: message}
}

// NewNotFoundError reports a missing entity, e.g. "Room not found".
func NewNotFoundError(entity, id string) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", entity), Entity: entity, ID: id}
}

// NewForbiddenError reports an ownership or role violation.
func NewForbiddenError(message string) error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NewUnauthorizedError reports missing or invalid credentials.
func NewUnauthorizedError(message string) error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// NewConflictError reports a uniqueness or concurrent-modification conflict.
func NewConflictError(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

// NewInvalidStateError reports an illegal lifecycle transition.
func NewInvalidStateError(message string) error {
	return &Error{Kind: KindInvalidState, Message: message}
}

// InsufficientInventoryError is returned when a reservation asks for more rooms
// than remain free for the requested dates.
type InsufficientInventoryError struct {
	Available int
	Requested int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("Only %d room(s) available for selected dates", e.Available)
}

// KindOf returns the kind of a domain error, or 0 for infrastructure errors.
func KindOf(err error) ErrorKind {
	var inv *InsufficientInventoryError
	if errors.As(err, &inv) {
		return KindInsufficientInventory
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

// IsNotFound reports whether err is a not-found domain error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }
