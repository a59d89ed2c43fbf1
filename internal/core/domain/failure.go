package domain

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// FailureKind classifies a failed API request.
type FailureKind string

const (
	// FailureNetwork means no response was received.
	FailureNetwork FailureKind = "network"
	// FailureTimeout means the per-attempt deadline was exceeded.
	FailureTimeout FailureKind = "timeout"
	// FailureUnauthorized means a 401/403 that was not recovered.
	FailureUnauthorized FailureKind = "unauthorized"
	// FailureSessionExpired means the refresh failed and the session was discarded.
	FailureSessionExpired FailureKind = "session_expired"
	// FailureNotSignedIn means the identity check found no session.
	FailureNotSignedIn FailureKind = "not_signed_in"
	// FailureClient means any other 4xx response, or an error envelope on success.
	FailureClient FailureKind = "client"
	// FailureServer means a 5xx response.
	FailureServer FailureKind = "server"
)

// User-facing failure messages.
const (
	MessageNetwork        = "Unable to connect to the server. Please check your connection."
	MessageTimeout        = "Request timed out. Please try again."
	MessageUnauthorized   = "You are not authorized to perform this action."
	MessageNotFound       = "The requested resource was not found."
	MessageServer         = "An error occurred on the server. Please try again later."
	MessageUnavailable    = "Service temporarily unavailable"
	MessageUnknown        = "An unexpected error occurred."
	MessageSessionExpired = "Your session has expired. Please sign in again."
	MessageNotSignedIn    = "You are not signed in."
)

// Failure is the typed error returned by every API call.
type Failure struct {
	Kind FailureKind
	// StatusCode is 0 when no response was received.
	StatusCode int
	// Message is safe to show to a user.
	Message string
	// Detail is the server-provided detail, if any.
	Detail string
	// Code, Target and Details mirror the response envelope error.
	Code      string
	Target    string
	Details   []ErrorDetail
	RequestID string
	// RetryAfter is the server's Retry-After hint on 429 and 503 responses.
	RetryAfter time.Duration
	// Err is the underlying transport or refresh error.
	Err error
}

// Error implements the error interface.
func (f *Failure) Error() string {
	switch {
	case f.StatusCode > 0 && f.Detail != "" && f.Detail != f.Message:
		return fmt.Sprintf("%s (status %d: %s)", f.Message, f.StatusCode, f.Detail)
	case f.StatusCode > 0:
		return fmt.Sprintf("%s (status %d)", f.Message, f.StatusCode)
	default:
		return f.Message
	}
}

// Unwrap returns the underlying cause.
func (f *Failure) Unwrap() error {
	return f.Err
}

// Is matches the failure against the domain sentinel errors.
func (f *Failure) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return f.Kind == FailureNetwork
	case ErrTimeout:
		return f.Kind == FailureTimeout
	case ErrUnauthorized:
		return f.Kind == FailureUnauthorized
	case ErrSessionExpired:
		return f.Kind == FailureSessionExpired
	case ErrNotSignedIn:
		return f.Kind == FailureNotSignedIn
	case ErrServer:
		return f.Kind == FailureServer
	case ErrNotFound:
		return f.StatusCode == http.StatusNotFound
	case ErrRateLimited:
		return f.StatusCode == http.StatusTooManyRequests
	}
	return false
}

// IsUnauthorized returns true if err is an unrecovered 401/403 failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsSessionExpired returns true if err means the user must sign in again.
func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired) || errors.Is(err, ErrNotSignedIn)
}

// IsNetworkError returns true if no response was received.
func IsNetworkError(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrTimeout)
}

// UserMessage returns the user-facing message for any error.
func UserMessage(err error) string {
	var f *Failure
	if errors.As(err, &f) {
		return f.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// NewStatusFailure classifies an HTTP error status. detail is the server
// supplied detail and may be empty.
func NewStatusFailure(status int, detail string) *Failure {
	f := &Failure{
		StatusCode: status,
		Detail:     detail,
		Kind:       FailureClient,
	}

	switch status {
	case http.StatusBadRequest:
		f.Message = orDefault(detail, "Invalid request")
	case http.StatusUnauthorized, http.StatusForbidden:
		f.Kind = FailureUnauthorized
		f.Message = MessageUnauthorized
	case http.StatusNotFound:
		f.Message = orDefault(detail, MessageNotFound)
	case http.StatusConflict:
		f.Message = orDefault(detail, "Resource conflict")
	case http.StatusInternalServerError:
		f.Message = MessageServer
	case http.StatusServiceUnavailable:
		f.Message = MessageUnavailable
	default:
		f.Message = orDefault(detail, MessageUnknown)
	}

	if status >= http.StatusInternalServerError {
		f.Kind = FailureServer
	}
	return f
}

// NewEnvelopeFailure converts the error member of a successful response.
func NewEnvelopeFailure(status int, body *ErrorBody, meta Meta) *Failure {
	return &Failure{
		Kind:       FailureClient,
		StatusCode: status,
		Message:    orDefault(body.Message, MessageUnknown),
		Detail:     body.Message,
		Code:       body.Code,
		Target:     body.Target,
		Details:    body.Details,
		RequestID:  meta.RequestID,
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
