package store

import (
	"errors"
	"fmt"

	"taskdeck/internal/model"
)

// NotFoundError is returned when an operation requires an entity that does not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// InvalidReferenceError is returned when a mutation would leave a dangling reference.
type InvalidReferenceError struct {
	Kind  string // kind of the referenced entity
	ID    string
	Field string
}

func (e InvalidReferenceError) Error() string {
	return fmt.Sprintf("invalid reference: %s %s (field %s) does not exist", e.Kind, e.ID, e.Field)
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidTransitionError is only produced when a transition table is configured.
type InvalidTransitionError struct {
	From model.TaskStatus
	To   model.TaskStatus
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("status transition not allowed: %s -> %s", e.From, e.To)
}

func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

func IsInvalidReference(err error) bool {
	var ir InvalidReferenceError
	return errors.As(err, &ir)
}
