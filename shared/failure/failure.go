package failure

import (
	"errors"
	"net/http"
)

const (
	TypeValidation   = "VALIDATION_ERROR"
	TypeNotFound     = "NOT_FOUND"
	TypeUnauthorized = "UNAUTHORIZED"
	TypeForbidden    = "FORBIDDEN"
	TypeConflict     = "CONFLICT"
	TypeRateLimited  = "RATE_LIMITED"
	TypeInternal     = "INTERNAL_ERROR"
	TypeUnavailable  = "SERVICE_UNAVAILABLE"
)

// MessageInternal is what clients see for any error that is not a Failure.
const MessageInternal = "An unexpected error occurred. Please try again later."

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
type Failure struct {
	Code    int               `json:"-"`
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

var InvalidPageParam = &Failure{Code: http.StatusBadRequest, Type: TypeValidation, Message: "invalid page parameter"}
var InvalidLimitParam = &Failure{Code: http.StatusBadRequest, Type: TypeValidation, Message: "invalid limit parameter"}
var ForbiddenError = &Failure{Code: http.StatusForbidden, Type: TypeForbidden, Message: "You don't have the required permissions"}

// Error returns the error message.
func (e *Failure) Error() string {
	return e.Message
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Type:    TypeValidation,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Type:    TypeValidation,
		Message: msg,
	}
}

// Validation returns a bad request Failure carrying per-field messages.
func Validation(msg string, details map[string]string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Type:    TypeValidation,
		Message: msg,
		Details: details,
	}
}

// Unauthorized returns a new Failure with code for unauthorized requests.
func Unauthorized(msg string) error {
	return &Failure{
		Code:    http.StatusUnauthorized,
		Type:    TypeUnauthorized,
		Message: msg,
	}
}

// InternalError returns a new Failure with code for internal error and message derived from an error interface.
func InternalError(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusInternalServerError,
			Type:    TypeInternal,
			Message: err.Error(),
		}
	}

	return nil
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Type:    TypeNotFound,
		Message: entityName,
	}
}

// Conflict returns a new Failure with code for conflict situations.
func Conflict(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Type:    TypeConflict,
		Message: message,
	}
}

func Forbidden(msg string) error {
	return &Failure{
		Code:    http.StatusForbidden,
		Type:    TypeForbidden,
		Message: msg,
	}
}

func TooManyRequests(msg string) error {
	return &Failure{
		Code:    http.StatusTooManyRequests,
		Type:    TypeRateLimited,
		Message: msg,
	}
}

func Unavailable(msg string) error {
	return &Failure{
		Code:    http.StatusServiceUnavailable,
		Type:    TypeUnavailable,
		Message: msg,
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// From returns the Failure inside err. Errors that are not failures become a generic
// internal error so nothing about the underlying cause reaches the client.
func From(err error) *Failure {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail
	}

	return &Failure{
		Code:    http.StatusInternalServerError,
		Type:    TypeInternal,
		Message: MessageInternal,
	}
}
