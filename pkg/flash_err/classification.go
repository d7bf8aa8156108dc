// pkg/flash_err/classification.go
//
// Error classification with distinct process exit codes per failure class.

package flash_err

import (
	"errors"
	"fmt"
	"strings"
)

// Category classifies errors for exit-code mapping and console rendering.
type Category int

const (
	// CategoryGeneral - unclassified failures (exit 1)
	CategoryGeneral Category = iota
	// CategoryInvalidParameter - bad method/config parameters (exit 2)
	CategoryInvalidParameter
	// CategoryInternal - bugs in bmcuflash itself (exit 3)
	CategoryInternal
	// CategoryFirmwareNotFound - no firmware candidate exists (exit 10)
	CategoryFirmwareNotFound
	// CategoryToolUnavailable - flashing tool missing and not installable (exit 11)
	CategoryToolUnavailable
	// CategoryUnsupportedArchitecture - no official or fallback asset (exit 12)
	CategoryUnsupportedArchitecture
	// CategoryChecksumMismatch - downloaded archive failed verification (exit 13)
	CategoryChecksumMismatch
	// CategoryManifestLookupFailed - checksum manifest missing or incomplete (exit 14)
	CategoryManifestLookupFailed
	// CategoryNoUsableMethod - no transport is both toolable and detectable (exit 15)
	CategoryNoUsableMethod
	// CategoryFlashSubprocessFailed - the flashing command itself failed (exit 16)
	CategoryFlashSubprocessFailed
	// CategoryStopRequested - operator interrupt (exit 130)
	CategoryStopRequested
)

// ClassifiedError wraps an error with a category and remediation steps.
// The console renders Message plus remediation; the cause chain stays in the
// log file.
type ClassifiedError struct {
	Cause       error
	Message     string
	Remediation []string
	Details     []string
	Category    Category
}

// WithDetails attaches supporting lines (probe results, skipped
// options) that the console prints under the message.
func (e *ClassifiedError) WithDetails(details ...string) *ClassifiedError {
	e.Details = append(e.Details, details...)
	return e
}

func (e *ClassifiedError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	if e.Cause != nil && e.Cause.Error() != e.Message {
		sb.WriteString(fmt.Sprintf(": %v", e.Cause))
	}
	return sb.String()
}

// Unwrap returns the underlying error.
func (e *ClassifiedError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the process exit code for this category.
func (e *ClassifiedError) ExitCode() int {
	switch e.Category {
	case CategoryInvalidParameter:
		return 2
	case CategoryInternal:
		return 3
	case CategoryFirmwareNotFound:
		return 10
	case CategoryToolUnavailable:
		return 11
	case CategoryUnsupportedArchitecture:
		return 12
	case CategoryChecksumMismatch:
		return 13
	case CategoryManifestLookupFailed:
		return 14
	case CategoryNoUsableMethod:
		return 15
	case CategoryFlashSubprocessFailed:
		return 16
	case CategoryStopRequested:
		return 130 // standard for SIGINT
	default:
		return 1
	}
}

// New creates a classified error without a cause.
func New(category Category, message string, remediation ...string) *ClassifiedError {
	return &ClassifiedError{
		Category:    category,
		Message:     message,
		Remediation: remediation,
	}
}

// Wrap attaches a category and remediation to an existing error.
func Wrap(cause error, category Category, message string, remediation ...string) *ClassifiedError {
	return &ClassifiedError{
		Cause:       cause,
		Category:    category,
		Message:     message,
		Remediation: remediation,
	}
}

// StopRequested builds the operator-interrupt error.
func StopRequested(context string) *ClassifiedError {
	return New(CategoryStopRequested, fmt.Sprintf("stop requested during %s", context))
}

// CategoryOf extracts the category from any error in the chain.
// Unclassified errors report CategoryGeneral.
func CategoryOf(err error) Category {
	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.Category
	}
	return CategoryGeneral
}

// GetExitCode extracts the exit code from any error.
// Returns 0 for nil, the classified code where present, 1 otherwise.
func GetExitCode(err error) int {
	if err == nil {
		return 0
	}
	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.ExitCode()
	}
	return 1
}

// RemediationOf returns the remediation steps of the first classified error
// in the chain, or nil.
func RemediationOf(err error) []string {
	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.Remediation
	}
	return nil
}

// DetailsOf returns the detail lines of the first classified error in
// the chain, or nil.
func DetailsOf(err error) []string {
	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.Details
	}
	return nil
}

// IsStopRequested reports whether the error chain carries an operator
// interrupt.
func IsStopRequested(err error) bool {
	return CategoryOf(err) == CategoryStopRequested
}
