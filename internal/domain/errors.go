package domain

import (
	"fmt"
	"strings"
)

// ValidationError aggregates every violated rule of a request. It is never
// raised for the first violation only.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// NewValidationError builds a ValidationError from the given violations.
func NewValidationError(violations ...string) *ValidationError {
	return &ValidationError{Violations: violations}
}

// DuplicateResourceError reports a uniqueness violation, tagged with the
// colliding field. Resource defaults to "product".
type DuplicateResourceError struct {
	Resource string
	Field    string
	Value    string
}

func (e *DuplicateResourceError) Error() string {
	resource := e.Resource
	if resource == "" {
		resource = "product"
	}

	return fmt.Sprintf("%s with %s '%s' already exists", resource, e.Field, e.Value)
}

// NotFoundError reports a missing resource by kind and id.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Resource, e.ID)
}

// ExternalKind distinguishes the failure modes of external collaborators.
// The caller-facing treatment is uniform; logs need the distinction.
type ExternalKind string

const (
	// ExternalKindRejected: the verification provider looked at the tax ID
	// and said no.
	ExternalKindRejected ExternalKind = "rejected"
	// ExternalKindUnreachable: the provider could not be reached or errored.
	ExternalKindUnreachable ExternalKind = "unreachable"
	// ExternalKindSearch: a search backend failed.
	ExternalKindSearch ExternalKind = "search"
)

// ExternalServiceError wraps a failure of an external collaborator.
type ExternalServiceError struct {
	Kind    ExternalKind
	Message string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// DomainError wraps an unexpected underlying failure with the operation
// that was being performed.
type DomainError struct {
	Op  string
	Err error
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}
