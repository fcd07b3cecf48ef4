package failure_test

import (
	"errors"
	"excursions/shared/failure"
	"fmt"
	"net/http"
	"testing"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusBadRequest,
		Message: "test error message",
	}

	if f.Error() != "test error message" {
		t.Errorf("expected error message to be 'test error message', got %s", f.Error())
	}
}

func TestPredefinedFailures(t *testing.T) {
	tests := []struct {
		name    string
		failure *failure.Failure
		code    int
		message string
	}{
		{
			name:    "InvalidPageParam",
			failure: failure.InvalidPageParam,
			code:    http.StatusBadRequest,
			message: "invalid page parameter",
		},
		{
			name:    "InvalidLimitParam",
			failure: failure.InvalidLimitParam,
			code:    http.StatusBadRequest,
			message: "invalid limit parameter",
		},
		{
			name:    "ForbiddenError",
			failure: failure.ForbiddenError,
			code:    http.StatusForbidden,
			message: "You don't have the required permissions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.failure.Code != tt.code {
				t.Errorf("expected code to be %d, got %d", tt.code, tt.failure.Code)
			}
			if tt.failure.Message != tt.message {
				t.Errorf("expected message to be %s, got %s", tt.message, tt.failure.Message)
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     int
		failType string
	}{
		{"BadRequest", failure.BadRequest(errors.New("bad")), http.StatusBadRequest, failure.TypeValidation},
		{"BadRequestFromString", failure.BadRequestFromString("bad"), http.StatusBadRequest, failure.TypeValidation},
		{"Validation", failure.Validation("bad", map[string]string{"email": "invalid"}), http.StatusBadRequest, failure.TypeValidation},
		{"Unauthorized", failure.Unauthorized("no"), http.StatusUnauthorized, failure.TypeUnauthorized},
		{"InternalError", failure.InternalError(errors.New("boom")), http.StatusInternalServerError, failure.TypeInternal},
		{"NotFound", failure.NotFound("booking not found"), http.StatusNotFound, failure.TypeNotFound},
		{"Conflict", failure.Conflict("dup"), http.StatusConflict, failure.TypeConflict},
		{"Forbidden", failure.Forbidden("no"), http.StatusForbidden, failure.TypeForbidden},
		{"TooManyRequests", failure.TooManyRequests("slow down"), http.StatusTooManyRequests, failure.TypeRateLimited},
		{"Unavailable", failure.Unavailable("down"), http.StatusServiceUnavailable, failure.TypeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failure.GetCode(tt.err); got != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, got)
			}

			if got := failure.From(tt.err).Type; got != tt.failType {
				t.Errorf("expected type %s, got %s", tt.failType, got)
			}
		})
	}
}

func TestNilErrors(t *testing.T) {
	if failure.BadRequest(nil) != nil {
		t.Error("expected BadRequest(nil) to be nil")
	}

	if failure.InternalError(nil) != nil {
		t.Error("expected InternalError(nil) to be nil")
	}
}

func TestGetCode_WrappedAndPlain(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", failure.NotFound("missing"))
	if got := failure.GetCode(wrapped); got != http.StatusNotFound {
		t.Errorf("expected wrapped failure code 404, got %d", got)
	}

	if got := failure.GetCode(errors.New("plain")); got != http.StatusInternalServerError {
		t.Errorf("expected plain error code 500, got %d", got)
	}
}

func TestFrom_HidesPlainErrors(t *testing.T) {
	f := failure.From(errors.New("pq: password authentication failed"))

	if f.Type != failure.TypeInternal {
		t.Errorf("expected type %s, got %s", failure.TypeInternal, f.Type)
	}

	if f.Message != failure.MessageInternal {
		t.Errorf("expected generic message, got %q", f.Message)
	}
}
