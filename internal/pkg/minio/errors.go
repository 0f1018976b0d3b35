package minio

import (
	"errors"
	"fmt"

	"github.com/minio/minio-go/v7"
)

// Predefined errors
var (
	// ErrInvalidArgument indicates that an argument is invalid
	ErrInvalidArgument = errors.New("minio: invalid argument")

	// ErrInvalidBucketName indicates that the bucket name is invalid
	ErrInvalidBucketName = errors.New("minio: invalid bucket name")

	// ErrInvalidObjectName indicates that the object name is invalid
	ErrInvalidObjectName = errors.New("minio: invalid object name")
)

// Error represents a MinIO error with additional context
type Error struct {
	Op      string // Operation that failed
	Err     error  // Original error
	Bucket  string // Bucket name (if applicable)
	Object  string // Object name (if applicable)
	Message string // Additional message
}

// Error returns the error message
func (e *Error) Error() string {
	switch {
	case e.Bucket != "" && e.Object != "":
		return fmt.Sprintf("minio: %s failed for bucket=%s, object=%s: %v", e.Op, e.Bucket, e.Object, e.Err)
	case e.Bucket != "":
		return fmt.Sprintf("minio: %s failed for bucket=%s: %v", e.Op, e.Bucket, e.Err)
	case e.Message != "":
		return fmt.Sprintf("minio: %s failed: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("minio: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

func responseCode(err error) (code string, status int, ok bool) {
	var minioErr minio.ErrorResponse
	if errors.As(err, &minioErr) {
		return minioErr.Code, minioErr.StatusCode, true
	}
	return "", 0, false
}

// IsNotFound checks if the error is a "not found" error
func IsNotFound(err error) bool {
	code, _, ok := responseCode(err)
	return ok && (code == "NoSuchBucket" || code == "NoSuchKey")
}

// IsAccessDenied checks if the error is an "access denied" error
func IsAccessDenied(err error) bool {
	code, _, ok := responseCode(err)
	return ok && (code == "AccessDenied" || code == "Forbidden")
}

// IsBucketAlreadyExists checks if the error is a "bucket already exists" error
func IsBucketAlreadyExists(err error) bool {
	code, _, ok := responseCode(err)
	return ok && (code == "BucketAlreadyExists" || code == "BucketAlreadyOwnedByYou")
}

// IsRetryable reports throttling and server-side failures worth another attempt
func IsRetryable(err error) bool {
	code, status, ok := responseCode(err)
	if !ok {
		return false
	}
	switch code {
	case "SlowDown", "TooManyRequests", "RequestTimeout", "InternalError", "ServiceUnavailable":
		return true
	}
	return status == 429 || status >= 500
}

// WrapError wraps an error with operation context
func WrapError(op string, err error, bucket, object string) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err, Bucket: bucket, Object: object}
}

// WrapErrorWithMessage wraps an error with operation context and a message
func WrapErrorWithMessage(op string, err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err, Message: message}
}
