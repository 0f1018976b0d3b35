package errors

import (
	"errors"
	"fmt"
	"strconv"
)

// AppError represents a structured application error
type AppError struct {
	Code    int    // Business error code
	Message string // Human-readable message
	Err     error  // Underlying error (if any)
	Details string // Additional details
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		if e.Details != "" {
			return fmt.Sprintf("[%d] %s: %s: %v", e.Code, e.Message, e.Details, e.Err)
		}
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	if e.Details != "" {
		return fmt.Sprintf("[%d] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError carrying the same code, so the
// kind sentinels below work with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Kind sentinels. Compare with errors.Is, never with ==.
var (
	ValidationError     = &AppError{Code: ErrValidation, Message: GetMessage(ErrValidation)}
	StoreQueryError     = &AppError{Code: ErrStoreQuery, Message: GetMessage(ErrStoreQuery)}
	StoreWriteError     = &AppError{Code: ErrStoreWrite, Message: GetMessage(ErrStoreWrite)}
	AssetUploadError    = &AppError{Code: ErrAssetUpload, Message: GetMessage(ErrAssetUpload)}
	AssetCleanupWarning = &AppError{Code: ErrAssetCleanup, Message: GetMessage(ErrAssetCleanup)}
	AuthError           = &AppError{Code: ErrAuth, Message: GetMessage(ErrAuth)}
	NotFoundError       = &AppError{Code: ErrNotFound, Message: GetMessage(ErrNotFound)}
)

// New creates a new AppError with the given code
func New(code int, details ...string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Code:    code,
		Message: GetMessage(code),
		Details: detail,
	}
}

// Wrap wraps an existing error with an error code
func Wrap(err error, code int, details ...string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code == code {
		return appErr
	}

	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}

	return &AppError{
		Code:    code,
		Message: GetMessage(code),
		Err:     err,
		Details: detail,
	}
}

// Is checks if err is an AppError with the given code
func Is(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// ExtractCode extracts the error code from an error
func ExtractCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternalServer
}

// GetDetails extracts error details
func GetDetails(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Details
	}
	return ""
}

// NewValidationError reports a required-field or uniqueness violation on field.
func NewValidationError(field, reason string) *AppError {
	return New(ErrValidation, field+" "+reason)
}

// NewStoreQueryError wraps a failed read against the relational store.
func NewStoreQueryError(entity, op string, err error) *AppError {
	return Wrap(err, ErrStoreQuery, entity+"."+op)
}

// NewStoreWriteError wraps a failed write against the relational store.
func NewStoreWriteError(entity, op string, id int64, err error) *AppError {
	detail := entity + "." + op
	if id > 0 {
		detail += " id=" + strconv.FormatInt(id, 10)
	}
	return Wrap(err, ErrStoreWrite, detail)
}

// NewAssetUploadError wraps a rejected object storage upload.
func NewAssetUploadError(err error) *AppError {
	return Wrap(err, ErrAssetUpload)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return New(ErrNotFound, resource)
}
