package errorutil

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError standardizes application errors. Message is what the caller sees.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewCaptchaFailed(err error) error {
	return &DomainError{
		Code:       "CAPTCHA_FAILED",
		Message:    "reCAPTCHA verification failed",
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
	}
}

func NewPayloadTooLarge(message string) error {
	return NewDomainError("ATTACHMENT_TOO_LARGE", message, http.StatusRequestEntityTooLarge, nil)
}

func NewTooManyRequests() error {
	return NewDomainError("RATE_LIMITED", "Too many submissions. Please try again later.", http.StatusTooManyRequests, nil)
}

// NewUpstreamRejected hides the backend status and body from the caller; they stay in Details for logging.
func NewUpstreamRejected(status int, body string) error {
	return &DomainError{
		Code:       "UPSTREAM_REJECTED",
		Message:    "Error submitting your request. Please try again later.",
		HTTPStatus: http.StatusInternalServerError,
		Details:    map[string]any{"upstream_status": status, "upstream_body": body},
	}
}

func NewTransportFailure(err error) error {
	return &DomainError{
		Code:       "TRANSPORT_FAILURE",
		Message:    "An unexpected error occurred. Please try again later.",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred. Please try again later.",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if de, ok := NewInternalError(err).(*DomainError); ok {
		return de
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
