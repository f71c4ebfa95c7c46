package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ResourceNotFoundError is returned when a record, suite or run cannot be found.
type ResourceNotFoundError struct {
	Kind string
	ID   string
}

func NewResourceNotFoundError(kind, id string) *ResourceNotFoundError {
	return &ResourceNotFoundError{Kind: kind, ID: id}
}

func (e *ResourceNotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Kind)
	}
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func NewRunNotFoundError(id string) *ResourceNotFoundError {
	return NewResourceNotFoundError("run", id)
}

func NewSuiteNotFoundError(name string) *ResourceNotFoundError {
	return NewResourceNotFoundError("suite", name)
}

func IsResourceNotFoundError(err error) bool {
	var e *ResourceNotFoundError
	return errors.As(err, &e)
}

// ValidationError collects attribute level failures. The sandbox maps it to 422.
type ValidationError struct {
	Messages []string
}

func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Messages, "; "))
}

func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// ConflictError is returned when a request body targets the wrong resource type.
type ConflictError struct {
	msg string
}

func NewConflictError(format string, args ...any) *ConflictError {
	return &ConflictError{msg: fmt.Sprintf(format, args...)}
}

func (e *ConflictError) Error() string {
	return e.msg
}

func IsConflictError(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

// UnauthorizedError is returned when the API rejects the bearer token.
type UnauthorizedError struct{}

func NewUnauthorizedError() *UnauthorizedError {
	return &UnauthorizedError{}
}

func (e *UnauthorizedError) Error() string {
	return "Not Authorized"
}

func IsUnauthorizedError(err error) bool {
	var e *UnauthorizedError
	if errors.As(err, &e) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 401
}

// UsageError mirrors a command line usage failure (bad flags, missing args).
type UsageError struct {
	msg string
}

func NewUsageError(format string, args ...any) *UsageError {
	return &UsageError{msg: fmt.Sprintf(format, args...)}
}

func (e *UsageError) Error() string {
	return e.msg
}

func IsUsageError(err error) bool {
	var e *UsageError
	return errors.As(err, &e)
}

// MissingSeedError is returned when a suite depends on an XBE_TEST_* variable that is not set.
type MissingSeedError struct {
	Name string
}

func NewMissingSeedError(name string) *MissingSeedError {
	return &MissingSeedError{Name: name}
}

func (e *MissingSeedError) Error() string {
	return fmt.Sprintf("%s not set", e.Name)
}

func IsMissingSeedError(err error) bool {
	var e *MissingSeedError
	return errors.As(err, &e)
}

// SuiteDefinitionError is returned when a catalog entry is malformed.
type SuiteDefinitionError struct {
	Suite  string
	Reason string
}

func NewSuiteDefinitionError(suite, format string, args ...any) *SuiteDefinitionError {
	return &SuiteDefinitionError{Suite: suite, Reason: fmt.Sprintf(format, args...)}
}

func (e *SuiteDefinitionError) Error() string {
	return fmt.Sprintf("invalid suite %q: %s", e.Suite, e.Reason)
}

func IsSuiteDefinitionError(err error) bool {
	var e *SuiteDefinitionError
	return errors.As(err, &e)
}

// InvocationError is returned when a command could not be started at all.
type InvocationError struct {
	Binary string
	Err    error
}

func NewInvocationError(binary string, err error) *InvocationError {
	return &InvocationError{Binary: binary, Err: err}
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("failed to invoke %s: %v", e.Binary, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

func IsInvocationError(err error) bool {
	var e *InvocationError
	return errors.As(err, &e)
}
