// Package core provides the error and result model shared by axlocator commands.
package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ExecutionError represents a structured error with category and details
type ExecutionError struct {
	Category ErrorCategory
	Code     string                 // Machine-readable code: element_not_found, ambiguous_target, etc.
	Message  string                 // Human-readable message
	Details  map[string]interface{} // Additional context
	Cause    error                  // Underlying error
}

// Error implements the error interface
func (e *ExecutionError) Error() string {
	msg := e.Message
	if len(e.Details) > 0 {
		msg += " (" + formatDetails(e.Details) + ")"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Is matches any ExecutionError with the same code, so errors.Is(err, ErrElementNotFound)
// holds for copies made with the With* helpers.
func (e *ExecutionError) Is(target error) bool {
	var t *ExecutionError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithCause returns a copy of the error with the given cause
func (e *ExecutionError) WithCause(cause error) *ExecutionError {
	return &ExecutionError{
		Category: e.Category,
		Code:     e.Code,
		Message:  e.Message,
		Details:  e.Details,
		Cause:    cause,
	}
}

// WithMessage returns a copy of the error with a custom message
func (e *ExecutionError) WithMessage(msg string) *ExecutionError {
	return &ExecutionError{
		Category: e.Category,
		Code:     e.Code,
		Message:  msg,
		Details:  e.Details,
		Cause:    e.Cause,
	}
}

// WithDetails returns a copy of the error with additional details
func (e *ExecutionError) WithDetails(details map[string]interface{}) *ExecutionError {
	merged := make(map[string]interface{})
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &ExecutionError{
		Category: e.Category,
		Code:     e.Code,
		Message:  e.Message,
		Details:  merged,
		Cause:    e.Cause,
	}
}

func formatDetails(details map[string]interface{}) string {
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, details[k]))
	}
	return strings.Join(parts, ", ")
}

// CategoryOf returns the category of err, or ErrCategoryNone for nil.
// Errors that are not ExecutionErrors are reported as unknown.
func CategoryOf(err error) ErrorCategory {
	if err == nil {
		return ErrCategoryNone
	}
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Category
	}
	return ErrorCategory(-1)
}

// Predefined errors
var (
	// Locator errors
	ErrElementNotFound = &ExecutionError{
		Category: ErrCategoryLocator,
		Code:     "element_not_found",
		Message:  "element not found",
	}
	ErrAmbiguousTarget = &ExecutionError{
		Category: ErrCategoryLocator,
		Code:     "ambiguous_target",
		Message:  "more than one element matches",
	}
	ErrInvalidLocator = &ExecutionError{
		Category: ErrCategoryLocator,
		Code:     "invalid_locator",
		Message:  "invalid locator",
	}

	// Path errors
	ErrPathNotResolved = &ExecutionError{
		Category: ErrCategoryPath,
		Code:     "path_not_resolved",
		Message:  "path hint could not be resolved",
	}

	// Action errors
	ErrActionNotSupported = &ExecutionError{
		Category: ErrCategoryAction,
		Code:     "action_not_supported",
		Message:  "element does not support the action",
	}
	ErrActionFailed = &ExecutionError{
		Category: ErrCategoryAction,
		Code:     "action_failed",
		Message:  "action failed",
	}

	// Input errors
	ErrHierarchyUnreadable = &ExecutionError{
		Category: ErrCategoryInput,
		Code:     "hierarchy_unreadable",
		Message:  "could not read element hierarchy",
	}
	ErrQueryFailed = &ExecutionError{
		Category: ErrCategoryInput,
		Code:     "query_failed",
		Message:  "query failed while reading the element tree",
	}

	// Config errors
	ErrInvalidConfig = &ExecutionError{
		Category: ErrCategoryConfig,
		Code:     "invalid_config",
		Message:  "invalid configuration",
	}

	// Timeout errors
	ErrQueueTimeout = &ExecutionError{
		Category: ErrCategoryTimeout,
		Code:     "queue_timeout",
		Message:  "query did not complete on the main queue",
	}
)

// NewExecutionError creates a new ExecutionError with the given parameters
func NewExecutionError(category ErrorCategory, code, message string) *ExecutionError {
	return &ExecutionError{
		Category: category,
		Code:     code,
		Message:  message,
	}
}
