package workouts

import (
	"fmt"
	"strings"
)

// ValidationError is a field level problem with a parsed block.
type ValidationError struct {
	Category string
	Name     string
	Field    string
	Msg      string
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("invalid workout")
	if e.Name != "" {
		sb.WriteString(fmt.Sprintf(" [%s]", e.Name))
	}
	if e.Category != "" {
		sb.WriteString(fmt.Sprintf(" in block [%s]", e.Category))
	}
	sb.WriteString(fmt.Sprintf(": %s %s", e.Field, e.Msg))
	return sb.String()
}

// ConflictError means the owner already has a workout with this name.
type ConflictError struct {
	Name string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("workout with name [%s] already exists", e.Name)
}

// RepositoryError wraps storage failures. Callers should not show it to users.
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("workouts repo %s: %s", e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}
