package registry

import "fmt"

// ErrorCode classifies registry operation failures.
type ErrorCode int

const (
	// ErrUnknown is an unclassified internal failure.
	ErrUnknown ErrorCode = iota

	// ErrAdminOnly marks an operation reserved for the designated
	// administrator account.
	ErrAdminOnly

	// ErrFileNotFound means the referenced file or version does not exist.
	ErrFileNotFound

	// ErrAccessDenied means the initiator lacks the required permission.
	ErrAccessDenied

	// ErrInvalidParameters means an input failed validation.
	ErrInvalidParameters

	// ErrDuplicateFile marks a uniqueness conflict on file identity.
	ErrDuplicateFile

	// ErrStorageExceeded means an account storage quota would be exceeded.
	ErrStorageExceeded
)

// String returns the symbolic name of the code.
func (c ErrorCode) String() string {
	switch c {
	case ErrAdminOnly:
		return "AdminOnly"
	case ErrFileNotFound:
		return "FileNotFound"
	case ErrAccessDenied:
		return "AccessDenied"
	case ErrInvalidParameters:
		return "InvalidParameters"
	case ErrDuplicateFile:
		return "DuplicateFile"
	case ErrStorageExceeded:
		return "StorageExceeded"
	default:
		return "Unknown"
	}
}

// StoreError is the error type returned by all Store operations.
//
// Callers branch on Code; Message is human-readable detail. Use errors.As to
// recover a *StoreError from a wrapped chain.
type StoreError struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewStoreError creates a StoreError with the given code and message.
func NewStoreError(code ErrorCode, message string) *StoreError {
	return &StoreError{Code: code, Message: message}
}

// NewStoreErrorf creates a StoreError with a formatted message.
func NewStoreErrorf(code ErrorCode, format string, args ...any) *StoreError {
	return &StoreError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsCode reports whether err is a *StoreError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	se, ok := err.(*StoreError)
	return ok && se.Code == code
}
