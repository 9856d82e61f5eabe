package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/signalement-service/internal/domain"
)

// DomainError standardizes application errors.
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

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts service and transport errors to DomainError.
// Authentication failures collapse into one generic message; the cause
// stays in Err for logging.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	var validationErr *domain.ValidationError
	switch {
	case domain.IsAuthError(err):
		return &DomainError{
			Code:       "UNAUTHORIZED",
			Message:    "could not validate credentials",
			HTTPStatus: http.StatusUnauthorized,
			Err:        err,
		}
	case errors.Is(err, domain.ErrNotFound):
		de := NewNotFound("resource", nil).(*DomainError)
		de.Err = err
		return de
	case errors.As(err, &validationErr):
		details := map[string]any{"reason": validationErr.Reason}
		if validationErr.Field != "" {
			details["field"] = validationErr.Field
		}
		return &DomainError{
			Code:       "VALIDATION_FAILED",
			Message:    validationErr.Error(),
			HTTPStatus: http.StatusBadRequest,
			Details:    details,
			Err:        err,
		}
	case errors.Is(err, domain.ErrValidation):
		return &DomainError{
			Code:       "VALIDATION_FAILED",
			Message:    err.Error(),
			HTTPStatus: http.StatusBadRequest,
			Err:        err,
		}
	case errors.Is(err, domain.ErrEmailTaken):
		return &DomainError{
			Code:       "EMAIL_TAKEN",
			Message:    "email already registered",
			HTTPStatus: http.StatusBadRequest,
			Err:        err,
		}
	case errors.Is(err, domain.ErrForbidden):
		return &DomainError{
			Code:       "FORBIDDEN",
			Message:    "not allowed",
			HTTPStatus: http.StatusForbidden,
			Err:        err,
		}
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return &DomainError{
			Code:       codeForStatus(fiberErr.Code),
			Message:    fiberErr.Message,
			HTTPStatus: fiberErr.Code,
		}
	}

	return NewInternalError(err).(*DomainError)
}

func MapError(err error) error {
	return ToDomainError(err)
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusRequestTimeout:
		return "TIMEOUT"
	}
	if status >= http.StatusInternalServerError {
		return "INTERNAL_ERROR"
	}
	return "REQUEST_FAILED"
}
