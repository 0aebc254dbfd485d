package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return NewDomainError("NOT_FOUND", fmt.Sprintf("%s not found", resource), http.StatusNotFound, details)
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

// NewRoleNotPermitted flags a role-specific lifecycle rule violation.
func NewRoleNotPermitted(message string) error {
	return NewDomainError("ROLE_NOT_PERMITTED", message, http.StatusForbidden, nil)
}

// NewTerminalState rejects mutation of a closed or canceled ticket.
func NewTerminalState(message string) error {
	return NewDomainError("TERMINAL_STATE", message, http.StatusConflict, nil)
}

// NewInvalidTransition rejects a status change the lifecycle graph forbids.
func NewInvalidTransition(message string) error {
	return NewDomainError("INVALID_TRANSITION", message, http.StatusConflict, nil)
}

// NewInvalidState rejects an operation the ticket's current state forbids.
func NewInvalidState(message string) error {
	return NewDomainError("INVALID_STATE", message, http.StatusConflict, nil)
}

// NewAlreadyAssigned rejects a second assignment of the same ticket.
func NewAlreadyAssigned(message string, details map[string]any) error {
	return NewDomainError("ALREADY_ASSIGNED", message, http.StatusConflict, details)
}

// NewConcurrencyConflict reports a lost optimistic-concurrency race.
func NewConcurrencyConflict(message string) error {
	return NewDomainError("CONCURRENCY_CONFLICT", message, http.StatusConflict, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

// NewErrorFound wraps an unclassified infrastructure failure.
func NewErrorFound(err error) error {
	return &DomainError{
		Code:       "ERROR_FOUND",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError. Store-level "no rows"
// becomes NOT_FOUND; anything unclassified becomes the ERROR_FOUND catch-all.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NewNotFound("resource", nil).(*DomainError)
	}
	return NewErrorFound(err).(*DomainError)
}

func MapError(err error) error {
	return ToDomainError(err)
}
