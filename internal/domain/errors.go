// Package domain defines the error taxonomy shared by services, handlers
// and repositories.
package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface keeps the handler's error mapping extensible.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is().
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrStorage    = errors.New("storage failure")
)

// NotFoundError indicates a resource id that does not resolve to a row.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) StatusCode() int { return http.StatusNotFound }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ValidationError carries the full list of field violations found in one
// validation pass. Violations accumulate; a request is never failed on just
// the first problem.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, " ")
}

func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// VersionConflictError is an optimistic-concurrency failure: the caller's
// expected version token no longer matches the stored row. Both tokens are
// carried so the caller can re-fetch and retry.
type VersionConflictError struct {
	Resource string
	Expected string
	Actual   string
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("%s has been updated since last read", e.Resource)
}

func (e *VersionConflictError) StatusCode() int { return http.StatusConflict }

func (e *VersionConflictError) Is(target error) bool { return target == ErrConflict }

// StorageError is a server-side persistence fault, distinct from validation
// and conflict errors because the caller cannot remediate it by changing the
// request. ReadBack marks the write-succeeded/reload-failed case.
type StorageError struct {
	Op       string
	ReadBack bool
	Err      error
}

func (e *StorageError) Error() string {
	if e.ReadBack {
		return fmt.Sprintf("%s: write committed but read-back failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) StatusCode() int { return http.StatusInternalServerError }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

func (e *StorageError) Unwrap() error { return e.Err }
