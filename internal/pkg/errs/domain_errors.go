package errs

import (
	"errors"
	"fmt"
)

// Sentinel kinds shared by every layer. Handlers map these to HTTP statuses.
var (
	ErrValidation        = errors.New("validation failed")
	ErrInvalidState      = errors.New("invalid state")
	ErrIllegalTransition = errors.New("illegal transition")
	ErrConflict          = errors.New("conflict")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrTimeout           = errors.New("timeout")
	ErrPaymentFailed     = errors.New("payment failed")
)

type ValidationError struct {
	Field  string
	Reason string
}

func NewValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// InvalidStateError reports an operation attempted against an entity in the wrong status.
type InvalidStateError struct {
	Operation string
	Current   string
}

func NewInvalidState(operation, current string) error {
	return &InvalidStateError{Operation: operation, Current: current}
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s in status %s", e.Operation, e.Current)
}

func (e *InvalidStateError) Is(target error) bool { return target == ErrInvalidState }

type IllegalTransitionError struct {
	Entity string
	From   string
	To     string
}

func NewIllegalTransition(entity, from, to string) error {
	return &IllegalTransitionError{Entity: entity, From: from, To: to}
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("%s cannot move from %s to %s", e.Entity, e.From, e.To)
}

func (e *IllegalTransitionError) Is(target error) bool { return target == ErrIllegalTransition }

type ConflictError struct {
	Reason string
}

func NewConflict(reason string) error {
	return &ConflictError{Reason: reason}
}

func (e *ConflictError) Error() string { return "conflict: " + e.Reason }

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

type NotFoundError struct {
	Entity string
	ID     string
}

func NewNotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

type ForbiddenError struct {
	Action string
}

func NewForbidden(action string) error {
	return &ForbiddenError{Action: action}
}

func (e *ForbiddenError) Error() string { return "not allowed to " + e.Action }

func (e *ForbiddenError) Is(target error) bool { return target == ErrForbidden }

type TimeoutError struct {
	Collaborator string
}

func NewTimeout(collaborator string) error {
	return &TimeoutError{Collaborator: collaborator}
}

func (e *TimeoutError) Error() string { return e.Collaborator + " timed out" }

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// PaymentFailedError carries the id of the booking left PENDING so the caller can retry or cancel it.
type PaymentFailedError struct {
	BookingID string
	Reference string
	Cause     error
}

func (e *PaymentFailedError) Error() string {
	if e.Cause == nil {
		return "payment failed for booking " + e.BookingID
	}
	return fmt.Sprintf("payment failed for booking %s: %v", e.BookingID, e.Cause)
}

func (e *PaymentFailedError) Is(target error) bool { return target == ErrPaymentFailed }

func (e *PaymentFailedError) Unwrap() error { return e.Cause }
