// Package apierror carries a user-facing message together with the HTTP status
// it should be reported with. Handlers normalize every failure through it.
package apierror

import "fmt"

type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code string, message string, status int) *APIError {
	return &APIError{Code: code, Message: message, HTTPStatus: status}
}

// Validation is a 400 for bad or missing input.
func Validation(message string) *APIError {
	return New("VALIDATION", message, 400)
}

// Auth is a 401 for missing/invalid/expired credentials.
func Auth(message string) *APIError {
	return New("AUTH", message, 401)
}

// Forbidden is a 403 for a role that is not permitted.
func Forbidden(message string) *APIError {
	return New("FORBIDDEN", message, 403)
}

// NotFound is a 404 for an id that does not resolve.
func NotFound(message string) *APIError {
	return New("NOT_FOUND", message, 404)
}

// Configuration is a startup-time failure for a missing secret or env value.
func Configuration(message string) *APIError {
	return New("CONFIGURATION", message, 500)
}

// Upstream wraps a store or image-host failure verbatim.
func Upstream(message string) *APIError {
	return New("UPSTREAM", message, 500)
}
