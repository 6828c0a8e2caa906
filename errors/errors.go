// Package errors provides the classified error taxonomy shared by every
// gateway subsystem. Downstream failures are classified at the point they are
// caught so that resolvers and HTTP handlers can decide between degrading,
// relaying the downstream message, or failing the request.
package errors

import (
	"errors"
	"fmt"
)

// Class represents the classification of an error for handling purposes.
type Class int

const (
	// ClassInternal represents unexpected internal failures.
	ClassInternal Class = iota
	// ClassUnauthenticated represents a missing or empty credential on an
	// operation that requires one. Detected before any downstream call.
	ClassUnauthenticated
	// ClassUnauthorized represents a credential the downstream rejected.
	ClassUnauthorized
	// ClassNotFound represents a missing entity or an unregistered service.
	ClassNotFound
	// ClassUnavailable represents a downstream network or timeout failure.
	ClassUnavailable
	// ClassInvalid represents invalid input, configuration, or an
	// unexpected downstream response shape.
	ClassInvalid
)

// String returns the string representation of Class.
func (c Class) String() string {
	switch c {
	case ClassUnauthenticated:
		return "unauthenticated"
	case ClassUnauthorized:
		return "unauthorized"
	case ClassNotFound:
		return "not_found"
	case ClassUnavailable:
		return "unavailable"
	case ClassInvalid:
		return "invalid"
	default:
		return "internal"
	}
}

// Code returns the GraphQL extension code for an error's class.
func Code(err error) string {
	switch ClassOf(err) {
	case ClassUnauthenticated:
		return "UNAUTHENTICATED"
	case ClassUnauthorized:
		return "FORBIDDEN"
	case ClassNotFound:
		return "NOT_FOUND"
	case ClassUnavailable:
		return "SERVICE_UNAVAILABLE"
	case ClassInvalid:
		return "INVALID_INPUT"
	default:
		return "INTERNAL_ERROR"
	}
}

// Standard error variables for common gateway conditions.
var (
	ErrNotAuthenticated   = errors.New("Not authenticated")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrNotFound           = errors.New("not found")
	ErrUnexpectedShape    = errors.New("unexpected response shape")
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrMissingConfig      = errors.New("missing required configuration")
	ErrAlreadyStarted     = errors.New("already started")
)

// ClassifiedError wraps an error with its classification and the component
// context it was raised in.
type ClassifiedError struct {
	Class     Class
	Err       error
	Message   string
	Component string
	Operation string
}

// Error implements the error interface.
func (ce *ClassifiedError) Error() string {
	if ce.Message != "" {
		return ce.Message
	}
	return ce.Err.Error()
}

// Unwrap returns the underlying error.
func (ce *ClassifiedError) Unwrap() error {
	return ce.Err
}

// ClassOf returns the classification of err, defaulting to ClassInternal for
// unclassified errors.
func ClassOf(err error) Class {
	if err == nil {
		return ClassInternal
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class
	}

	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return ClassUnauthenticated
	case errors.Is(err, ErrNotFound):
		return ClassNotFound
	case errors.Is(err, ErrServiceUnavailable):
		return ClassUnavailable
	case errors.Is(err, ErrUnexpectedShape),
		errors.Is(err, ErrInvalidConfig),
		errors.Is(err, ErrMissingConfig):
		return ClassInvalid
	}

	return ClassInternal
}

// IsUnauthenticated checks whether err is an authentication-gate failure.
func IsUnauthenticated(err error) bool {
	return err != nil && ClassOf(err) == ClassUnauthenticated
}

// IsUnauthorized checks whether err is a downstream authorization rejection.
func IsUnauthorized(err error) bool {
	return err != nil && ClassOf(err) == ClassUnauthorized
}

// IsNotFound checks whether err is a missing-entity failure.
func IsNotFound(err error) bool {
	return err != nil && ClassOf(err) == ClassNotFound
}

// IsUnavailable checks whether err is a downstream network/timeout failure.
func IsUnavailable(err error) bool {
	return err != nil && ClassOf(err) == ClassUnavailable
}

// IsInvalid checks whether err is an invalid-input or shape failure.
func IsInvalid(err error) bool {
	return err != nil && ClassOf(err) == ClassInvalid
}

// newClassified creates a new classified error. Internal helper; use the
// Wrap* constructors instead.
func newClassified(class Class, err error, component, operation, message string) *ClassifiedError {
	return &ClassifiedError{
		Class:     class,
		Err:       err,
		Message:   message,
		Component: component,
		Operation: operation,
	}
}

// Wrap creates a standardized error with context following the pattern
// "component.method: action failed: %w".
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

// WrapUnauthenticated wraps an error as an authentication-gate failure.
func WrapUnauthenticated(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrapped := Wrap(err, component, method, action)
	return newClassified(ClassUnauthenticated, wrapped, component, method, wrapped.Error())
}

// WrapUnauthorized wraps an error as a downstream authorization rejection.
func WrapUnauthorized(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrapped := Wrap(err, component, method, action)
	return newClassified(ClassUnauthorized, wrapped, component, method, wrapped.Error())
}

// WrapNotFound wraps an error as a missing-entity failure.
func WrapNotFound(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrapped := Wrap(err, component, method, action)
	return newClassified(ClassNotFound, wrapped, component, method, wrapped.Error())
}

// WrapUnavailable wraps an error as a downstream network/timeout failure.
func WrapUnavailable(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrapped := Wrap(err, component, method, action)
	return newClassified(ClassUnavailable, wrapped, component, method, wrapped.Error())
}

// WrapInvalid wraps an error as invalid input or configuration.
func WrapInvalid(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrapped := Wrap(err, component, method, action)
	return newClassified(ClassInvalid, wrapped, component, method, wrapped.Error())
}

// WrapInternal wraps an error as an unexpected internal failure.
func WrapInternal(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrapped := Wrap(err, component, method, action)
	return newClassified(ClassInternal, wrapped, component, method, wrapped.Error())
}
