// Package errors holds the gateway's wire error shape and its closed set of
// error kinds. Handlers return these; the boundary converts every one of
// them to the uniform {"error": message} JSON body.
package errors

import (
	"fmt"
	"net/http"
)

// ErrorResponse is the only error body this gateway emits.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Kind tags a GatewayError so the boundary handler can match exhaustively
// instead of probing for properties.
type Kind int

const (
	// Unauthenticated: no session, or the session carries no bearer token.
	Unauthenticated Kind = iota
	// Forbidden: the session's role set lacks a required role.
	Forbidden
	// Upstream: the upstream API answered non-2xx. Message carries the raw
	// response text; Status mirrors the upstream status code.
	Upstream
	// Malformed: a request body was expected but could not be parsed.
	Malformed
)

func (k Kind) String() string {
	switch k {
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	case Upstream:
		return "upstream"
	case Malformed:
		return "malformed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// SignInAdvice is shown to callers who are not signed in.
const SignInAdvice = "You must be signed in to view the protected content on this page."

// GatewayError is the error carried from handlers to the boundary.
//
// Message is the operator-facing detail and is always logged. UserMessage,
// when set, replaces Message in the response body only.
type GatewayError struct {
	Kind        Kind
	Status      int
	Message     string
	UserMessage string
	Cause       error
}

func (e *GatewayError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (status %d): %s: %s", e.Kind, e.Status, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (status %d): %s", e.Kind, e.Status, e.Message)
}

func (e *GatewayError) Unwrap() error {
	return e.Cause
}

// NewUnauthenticated is the 401 rejection. It happens strictly before any
// upstream call.
func NewUnauthenticated(cause error) *GatewayError {
	return &GatewayError{
		Kind:        Unauthenticated,
		Status:      http.StatusUnauthorized,
		Message:     "no valid session",
		UserMessage: SignInAdvice,
		Cause:       cause,
	}
}

// NewForbidden is the 403 rejection for a missing role.
func NewForbidden(role string) *GatewayError {
	return &GatewayError{
		Kind:        Forbidden,
		Status:      http.StatusForbidden,
		Message:     fmt.Sprintf("session lacks required role %q", role),
		UserMessage: "You do not have permission to perform this action.",
	}
}

// NewUpstream wraps a non-2xx upstream response. body is the raw response
// text; it is surfaced to the caller verbatim unless it wraps a JSON
// {"detail": ...} payload, which the boundary unwraps.
func NewUpstream(status int, body string) *GatewayError {
	return &GatewayError{
		Kind:    Upstream,
		Status:  status,
		Message: body,
	}
}

// NewMalformed reports an unparseable payload where one was required.
func NewMalformed(cause error) *GatewayError {
	return &GatewayError{
		Kind:    Malformed,
		Status:  http.StatusBadRequest,
		Message: "request body is not valid JSON",
		Cause:   cause,
	}
}
