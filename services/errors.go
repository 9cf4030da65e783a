package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hazratullahh/eceomerce-jawad/database"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is a rejected input; nothing was written.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// orNil returns e only when it holds at least one field error.
func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string { return e.Message }

// storeError turns repository sentinels into service errors for resource.
func storeError(resource string, err error) error {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return &NotFoundError{Resource: resource}
	case errors.Is(err, database.ErrVersionConflict):
		return staleVersion(resource)
	case errors.Is(err, database.ErrDuplicate):
		return &ConflictError{Message: resource + " already exists"}
	}
	return fmt.Errorf("%s: %w", strings.ToLower(resource), err)
}

func staleVersion(resource string) *ConflictError {
	return &ConflictError{Message: resource + " was modified by someone else, reload and try again"}
}

// checkVersion rejects a client version token that no longer matches.
func checkVersion(resource string, submitted *int64, stored int64) error {
	if submitted != nil && *submitted != stored {
		return staleVersion(resource)
	}
	return nil
}
