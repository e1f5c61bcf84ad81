package toolkit

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownTool matches errors for tool names with no definition.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrValidation matches errors for parameters rejected by a tool schema.
	ErrValidation = errors.New("validation failed")
	// ErrExecution matches errors raised by an adapter while running a tool.
	ErrExecution = errors.New("execution failed")
	// ErrMissingHandler matches export failures for tools without a handler function.
	ErrMissingHandler = errors.New("missing handler")
	// ErrMissingSchema matches export failures for tools without a schema.
	ErrMissingSchema = errors.New("missing schema")
)

// UnknownToolError reports a call to a tool that is not registered.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string { return fmt.Sprintf("unknown tool: %s", e.Name) }

// Is reports whether target is ErrUnknownTool.
func (e *UnknownToolError) Is(target error) bool { return target == ErrUnknownTool }

// FieldError is a single schema violation.
type FieldError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

// ValidationError carries the field-level errors produced by the schema.
type ValidationError struct {
	Tool   string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Description))
	}
	return fmt.Sprintf("invalid parameters for %s: %s", e.Tool, strings.Join(parts, "; "))
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ExecutionError wraps an adapter failure. Its message is the adapter's
// message, unchanged.
type ExecutionError struct {
	Tool string
	Err  error
}

func (e *ExecutionError) Error() string { return e.Err.Error() }

// Unwrap returns the adapter error.
func (e *ExecutionError) Unwrap() error { return e.Err }

// Is reports whether target is ErrExecution.
func (e *ExecutionError) Is(target error) bool { return target == ErrExecution }

// MissingHandlerError reports a declared tool with no handler function.
type MissingHandlerError struct {
	Name string
}

func (e *MissingHandlerError) Error() string {
	return fmt.Sprintf("no handler function for tool %q", e.Name)
}

// Is reports whether target is ErrMissingHandler.
func (e *MissingHandlerError) Is(target error) bool { return target == ErrMissingHandler }

// MissingSchemaError reports a declared tool with no validation schema.
type MissingSchemaError struct {
	Name string
}

func (e *MissingSchemaError) Error() string {
	return fmt.Sprintf("no validation schema for tool %q", e.Name)
}

// Is reports whether target is ErrMissingSchema.
func (e *MissingSchemaError) Is(target error) bool { return target == ErrMissingSchema }
