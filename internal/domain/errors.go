package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound            = errors.New("not found")
	ErrAlreadyExists       = errors.New("already exists")
	ErrValidation          = errors.New("validation error")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrSlotEmpty           = errors.New("slot empty")
	ErrMachineOffline      = errors.New("machine offline")
	ErrUnavailable         = errors.New("service unavailable")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewMissingParamsError creates a ValidationError listing required fields
// that were absent from a request.
func NewMissingParamsError(fields ...string) *ValidationError {
	errs := make([]FieldError, len(fields))
	for i, f := range fields {
		errs[i] = FieldError{Field: f, Message: "required parameter not provided"}
	}
	return &ValidationError{Errors: errs}
}

// DeviceErrorKind classifies the outcome of a device API call.
type DeviceErrorKind string

const (
	// DeviceErrConnect means the machine could not be reached at all.
	DeviceErrConnect DeviceErrorKind = "connect"
	// DeviceErrTimeout means the machine did not answer within the deadline.
	DeviceErrTimeout DeviceErrorKind = "timeout"
	// DeviceErrStatus means the machine answered with an error status and,
	// usually, a machine-supplied message.
	DeviceErrStatus DeviceErrorKind = "status"
)

// DeviceError is a failed call to a machine's control endpoint. The saga
// needs to tell connect failures, timeouts, and application errors apart,
// so the device adapter never collapses them into a plain error.
type DeviceError struct {
	Machine    string
	Op         string // "status" or "drop"
	Kind       DeviceErrorKind
	StatusCode int    // set only for DeviceErrStatus
	Message    string // device-supplied error message, if any
	Err        error  // underlying transport error, if any
}

func (e *DeviceError) Error() string {
	switch e.Kind {
	case DeviceErrStatus:
		return fmt.Sprintf("machine %s %s: status %d: %s", e.Machine, e.Op, e.StatusCode, e.Message)
	case DeviceErrTimeout:
		return fmt.Sprintf("machine %s %s: timed out", e.Machine, e.Op)
	default:
		return fmt.Sprintf("machine %s %s: connect: %v", e.Machine, e.Op, e.Err)
	}
}

func (e *DeviceError) Unwrap() error { return e.Err }
