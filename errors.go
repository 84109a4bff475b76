package sqlfill

import (
	"fmt"
	"strings"
)

// ErrorContext provides context for where an error occurred
type ErrorContext struct {
	Operation string
	Source    string
	Format    string
	Details   string
}

// NewErrorContext creates a new error context
func NewErrorContext(operation, source string) *ErrorContext {
	return &ErrorContext{
		Operation: operation,
		Source:    source,
	}
}

// WithFormat adds the parser format to the error context
func (ec *ErrorContext) WithFormat(ft FileType) *ErrorContext {
	ec.Format = ft.String()
	return ec
}

// WithDetails adds details to the error context
func (ec *ErrorContext) WithDetails(details string) *ErrorContext {
	ec.Details = details
	return ec
}

// Error creates a formatted error with context. baseErr stays reachable
// through errors.Is and errors.As.
func (ec *ErrorContext) Error(baseErr error) error {
	var parts []string
	parts = append(parts, fmt.Sprintf("sqlfill: %s failed", ec.Operation))

	if ec.Source != "" {
		parts = append(parts, "source: "+ec.Source)
	}
	if ec.Format != "" {
		parts = append(parts, "format: "+ec.Format)
	}
	if ec.Details != "" {
		parts = append(parts, "details: "+ec.Details)
	}

	context := strings.Join(parts, ", ")
	if baseErr != nil {
		return fmt.Errorf("%s: %w", context, baseErr)
	}
	return fmt.Errorf("%s", context)
}
