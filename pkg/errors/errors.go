package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType classifies failures across the upstream client, the crawler
// and the enrichment fan-out.
type ErrorType string

const (
	// ErrorTypeCredentialMissing means no upstream access key is configured.
	ErrorTypeCredentialMissing ErrorType = "credential_missing"
	// ErrorTypeInvalidTarget means a username, profile URL or media URL
	// could not be parsed into a usable identifier.
	ErrorTypeInvalidTarget ErrorType = "invalid_target"
	// ErrorTypeTransport covers network and timeout failures.
	ErrorTypeTransport ErrorType = "transport"
	// ErrorTypeUpstreamHTTP covers non-200 upstream responses.
	ErrorTypeUpstreamHTTP ErrorType = "upstream_http"
	// ErrorTypeDecode means a 200 response body was not valid JSON.
	ErrorTypeDecode ErrorType = "decode"
	// ErrorTypeUnexpectedShape means a response decoded but did not match
	// the expected envelope for its endpoint.
	ErrorTypeUnexpectedShape ErrorType = "unexpected_shape"
	// ErrorTypeEnrichmentExhausted means all retry attempts failed for an
	// enrichment item.
	ErrorTypeEnrichmentExhausted ErrorType = "enrichment_exhausted"
)

// Error represents a classified failure with an optional HTTP status code.
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// New creates a classified error without a status code.
func New(t ErrorType, format string, args ...interface{}) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...)}
}

// NewHTTP creates an upstream HTTP error carrying the status code.
func NewHTTP(code int, format string, args ...interface{}) *Error {
	return &Error{Type: ErrorTypeUpstreamHTTP, Message: fmt.Sprintf(format, args...), Code: code}
}

// As is the standard errors.As.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Is is the standard errors.Is.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// TypeOf returns the classification of err, or the empty string when
// err carries no classification.
func TypeOf(err error) ErrorType {
	var apiErr *Error
	if As(err, &apiErr) {
		return apiErr.Type
	}
	return ""
}

// Retryable reports whether the error is worth retrying. Transport
// failures always are; upstream HTTP errors only for transient status
// codes.
func (e *Error) Retryable() bool {
	switch e.Type {
	case ErrorTypeTransport:
		return true
	case ErrorTypeUpstreamHTTP:
		return IsRetryableStatusCode(e.Code)
	default:
		return false
	}
}

// IsRetryableStatusCode reports whether an HTTP status code indicates a
// transient condition.
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0: // network error
		return true
	case 429:
		return true
	case 401, 403, 404:
		return false
	default:
		return statusCode >= 500
	}
}
