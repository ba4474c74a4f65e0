package core

// ErrorCategory classifies the type of error for reporting and exit codes
type ErrorCategory int

const (
	ErrCategoryNone    ErrorCategory = iota // No error
	ErrCategoryLocator                      // Element not found, ambiguous target, bad locator
	ErrCategoryPath                         // Path hint could not be resolved
	ErrCategoryAction                       // Target does not support or failed the action
	ErrCategoryInput                        // Hierarchy snapshot could not be read
	ErrCategoryConfig                       // Invalid configuration
	ErrCategoryTimeout                      // Main queue did not run the query in time
)

// String returns the string representation of ErrorCategory
func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryNone:
		return "none"
	case ErrCategoryLocator:
		return "locator"
	case ErrCategoryPath:
		return "path"
	case ErrCategoryAction:
		return "action"
	case ErrCategoryInput:
		return "input"
	case ErrCategoryConfig:
		return "config"
	case ErrCategoryTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// ExitCode maps a category to a process exit code.
func (c ErrorCategory) ExitCode() int {
	switch c {
	case ErrCategoryNone:
		return 0
	case ErrCategoryLocator, ErrCategoryPath, ErrCategoryAction:
		return 1
	case ErrCategoryInput, ErrCategoryConfig:
		return 2
	default:
		return 3
	}
}
