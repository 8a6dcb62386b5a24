package server

import (
	"fmt"
	"net/http"
)

// errorKind tags every failure the upload pipeline can produce.
type errorKind int

const (
	kindInternal errorKind = iota
	kindValidation
	kindUnauthorized
	kindTooLarge
)

const (
	msgMimetypeNotAllowed = "This mimetype is not allowed."
	msgUnauthorized       = "Unauthorized"
	msgTooLarge           = "File too large."
	msgMissingImage       = "No image file provided."
	msgBadMultipart       = "Malformed multipart body."
)

// apiError is the only error type handlers hand to the response boundary.
// Validation errors carry their own status; the other kinds derive it.
type apiError struct {
	kind    errorKind
	status  int
	message string
	err     error
}

func (e *apiError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.message, e.err)
	}
	return e.message
}

func (e *apiError) Unwrap() error {
	return e.err
}

// statusCode maps the error kind to its HTTP status.
func (e *apiError) statusCode() int {
	switch e.kind {
	case kindValidation:
		if e.status != 0 {
			return e.status
		}
		return http.StatusBadRequest
	case kindUnauthorized:
		return http.StatusUnauthorized
	case kindTooLarge:
		return http.StatusRequestEntityTooLarge
	case kindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// reason is a short label used in logs and metrics.
func (e *apiError) reason() string {
	switch e.kind {
	case kindValidation:
		if e.message == msgMimetypeNotAllowed {
			return "mimetype"
		}
		return "bad_request"
	case kindUnauthorized:
		return "unauthorized"
	case kindTooLarge:
		return "too_large"
	default:
		return "internal"
	}
}

func validationError(status int, message string) *apiError {
	return &apiError{kind: kindValidation, status: status, message: message}
}

func unauthorizedError() *apiError {
	return &apiError{kind: kindUnauthorized, message: msgUnauthorized}
}

func tooLargeError(err error) *apiError {
	return &apiError{kind: kindTooLarge, message: msgTooLarge, err: err}
}

// internalError surfaces the underlying failure's message to the client.
func internalError(err error) *apiError {
	return &apiError{kind: kindInternal, message: err.Error(), err: err}
}
