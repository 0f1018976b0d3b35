package errors

import (
	"fmt"
	"net/http"
)

// Code represents an error code with HTTP status and message
type Code struct {
	Code    int    // Business error code
	Status  int    // HTTP status code
	Message string // Error message
}

const (
	Success = 0

	// Common errors (1000-1999)
	ErrInternalServer  = 1000
	ErrInvalidParams   = 1001
	ErrNotFound        = 1002
	ErrUnauthorized    = 1003
	ErrForbidden       = 1004
	ErrTooManyRequests = 1006
	ErrServiceUnavail  = 1008

	// Content errors (2000-2999)
	ErrValidation     = 2000
	ErrStoreQuery     = 2001
	ErrStoreWrite     = 2002
	ErrAssetUpload    = 2003
	ErrAssetCleanup   = 2004
	ErrUploadTooLarge = 2005

	// Session errors (3000-3999)
	ErrAuth           = 3000
	ErrSessionInvalid = 3001
	ErrServiceKey     = 3002
)

var codeMap = map[int]Code{
	Success: {Success, http.StatusOK, "Success"},

	ErrInternalServer:  {ErrInternalServer, http.StatusInternalServerError, "Internal server error"},
	ErrInvalidParams:   {ErrInvalidParams, http.StatusBadRequest, "Invalid parameters"},
	ErrNotFound:        {ErrNotFound, http.StatusNotFound, "Resource not found"},
	ErrUnauthorized:    {ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
	ErrForbidden:       {ErrForbidden, http.StatusForbidden, "Forbidden"},
	ErrTooManyRequests: {ErrTooManyRequests, http.StatusTooManyRequests, "Too many requests"},
	ErrServiceUnavail:  {ErrServiceUnavail, http.StatusServiceUnavailable, "Service unavailable"},

	ErrValidation:     {ErrValidation, http.StatusBadRequest, "Validation failed"},
	ErrStoreQuery:     {ErrStoreQuery, http.StatusInternalServerError, "Failed to read from store"},
	ErrStoreWrite:     {ErrStoreWrite, http.StatusInternalServerError, "Failed to write to store"},
	ErrAssetUpload:    {ErrAssetUpload, http.StatusBadGateway, "Asset upload failed, enter an image URL instead"},
	ErrAssetCleanup:   {ErrAssetCleanup, http.StatusOK, "Asset cleanup failed"},
	ErrUploadTooLarge: {ErrUploadTooLarge, http.StatusRequestEntityTooLarge, "File size exceeds limit"},

	ErrAuth:           {ErrAuth, http.StatusUnauthorized, "Invalid email or password"},
	ErrSessionInvalid: {ErrSessionInvalid, http.StatusUnauthorized, "Session missing or expired"},
	ErrServiceKey:     {ErrServiceKey, http.StatusForbidden, "Service key required"},
}

// GetCode returns the Code for a given error code
func GetCode(code int) Code {
	if c, ok := codeMap[code]; ok {
		return c
	}
	return codeMap[ErrInternalServer]
}

// GetHTTPStatus returns HTTP status for a given error code
func GetHTTPStatus(code int) int {
	return GetCode(code).Status
}

// GetMessage returns the message for a given error code
func GetMessage(code int) string {
	return GetCode(code).Message
}

// IsServerError checks if the code represents a server error (5xx)
func IsServerError(code int) bool {
	return GetHTTPStatus(code) >= 500
}

// FormatError formats an error message with code
func FormatError(code int, details ...string) string {
	msg := GetMessage(code)
	if len(details) > 0 && details[0] != "" {
		return fmt.Sprintf("%s: %s", msg, details[0])
	}
	return msg
}
