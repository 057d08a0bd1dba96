package gorgias

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced to callers. Tool handlers branch on these, so the set
// is fixed: one code per failure kind plus validation.
const (
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeRateLimited  = "RATE_LIMITED"
	CodeNetwork      = "NETWORK_ERROR"
	CodeValidation   = "VALIDATION_ERROR"
)

// APIError is a failed HTTP exchange classified by status code.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("gorgias API error (%d %s): %s - %s", e.StatusCode, e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("gorgias API error (%d %s): %s", e.StatusCode, e.Code, e.Message)
}

// NetworkError is a transport-level failure: the exchange never completed,
// or the server answered with a 5xx.
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("network error during %s to %s: %v", e.Op, e.URL, e.Err)
	}
	return fmt.Sprintf("network error during %s to %s", e.Op, e.URL)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ValidationError is a client-side precondition failure. It is raised before
// any network call and is never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
	}
	return "validation error: " + e.Message
}

// NewValidationError builds a ValidationError for a named argument.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// classifyStatus maps a completed-but-failed HTTP exchange onto the domain
// error taxonomy. Statuses of 500 and above are treated as server-side
// network failures so the retry policy picks them up.
func classifyStatus(op string, status int, body string) error {
	switch {
	case status == http.StatusUnauthorized:
		return &APIError{StatusCode: status, Code: CodeUnauthorized, Message: "invalid credentials", Details: body}
	case status == http.StatusForbidden:
		return &APIError{StatusCode: status, Code: CodeForbidden, Message: "access denied", Details: body}
	case status == http.StatusNotFound:
		return &APIError{StatusCode: status, Code: CodeNotFound, Message: "resource not found", Details: body}
	case status == http.StatusTooManyRequests:
		return &APIError{StatusCode: status, Code: CodeRateLimited, Message: "rate limit exceeded", Details: body}
	case status >= 500:
		return &APIError{StatusCode: status, Code: CodeNetwork, Message: "server error during " + op, Details: body}
	default:
		return &APIError{StatusCode: status, Code: CodeNetwork, Message: fmt.Sprintf("unexpected status %d during %s", status, op), Details: body}
	}
}

func hasCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// IsUnauthorized reports whether err is a 401 classification.
func IsUnauthorized(err error) bool { return hasCode(err, CodeUnauthorized) }

// IsForbidden reports whether err is a 403 classification.
func IsForbidden(err error) bool { return hasCode(err, CodeForbidden) }

// IsNotFound reports whether err is a 404 classification.
func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }

// IsRateLimited reports whether err is a 429 classification.
func IsRateLimited(err error) bool { return hasCode(err, CodeRateLimited) }

// IsNetwork reports whether err is a transport-level or server-side failure.
func IsNetwork(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr) || hasCode(err, CodeNetwork)
}

// IsValidation reports whether err is a client-side precondition failure.
func IsValidation(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// IsRetryable reports whether a failure is worth another attempt: rate
// limiting, transport failures, and HTTP 408/429/5xx. Validation,
// authentication and not-found failures fail fast.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusRequestTimeout:
			return true
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return true
		case apiErr.StatusCode >= 500:
			return true
		}
	}
	return false
}

// ErrorCode extracts the machine-readable code from a classified error,
// falling back to NETWORK_ERROR for unclassified failures.
func ErrorCode(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	if IsValidation(err) {
		return CodeValidation
	}
	return CodeNetwork
}
