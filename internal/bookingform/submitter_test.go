package bookingform_test

import (
	"context"
	"encoding/json"
	"errors"
	"excursions/internal/bookingform"
	"excursions/internal/domains/booking/model/dto"
	"excursions/shared/constant"
	"excursions/shared/failure"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payload() dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		ContactDetails: dto.ContactDetails{FullName: "Jane Doe", Email: "jane@example.com", Phone: "8095551234"},
		TripDetails:    dto.TripDetails{Adults: 2, Children: 1, ArrivalDate: "2030-01-15", ArrivalTime: "09:00"},
		Excursion:      1,
		Locale:         constant.LocaleSpanish,
	}
}

func TestHTTPSubmitter_Created(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/bookings", r.URL.Path)
		assert.Equal(t, "key-1", r.Header.Get(constant.RequestHeaderIdempotencyKey))
		assert.Equal(t, constant.LocaleSpanish, r.Header.Get(constant.RequestHeaderAcceptLanguage))

		body, _ := io.ReadAll(r.Body)

		var sent map[string]any
		assert.NoError(t, json.Unmarshal(body, &sent))
		assert.Equal(t, float64(1), sent["excursion"])
		assert.Equal(t, "2030-01-15", sent["arrivalDate"])

		w.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"booking":{"id":"b-1","status":"pending"},"emailSent":true}`))
	}))
	defer server.Close()

	res, err := bookingform.NewHTTPSubmitter(server.URL+"/", nil).Submit(context.Background(), payload(), "key-1")

	require.NoError(t, err)
	assert.True(t, res.EmailSent)
	assert.Equal(t, "b-1", res.Booking.ID)
	assert.Equal(t, "pending", res.Booking.Status)
}

func TestHTTPSubmitter_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode int
		wantType string
		wantMsg  string
	}{
		{
			name:     "validation envelope",
			status:   http.StatusBadRequest,
			body:     `{"success":false,"error":{"type":"VALIDATION_ERROR","message":"Email is required","details":{"email":"Email is required"}}}`,
			wantCode: http.StatusBadRequest,
			wantType: failure.TypeValidation,
			wantMsg:  "Email is required",
		},
		{
			name:     "internal envelope",
			status:   http.StatusInternalServerError,
			body:     `{"success":false,"error":{"type":"INTERNAL_ERROR","message":"An unexpected error occurred. Please try again later."}}`,
			wantCode: http.StatusInternalServerError,
			wantType: failure.TypeInternal,
			wantMsg:  failure.MessageInternal,
		},
		{
			name:     "proxy error page",
			status:   http.StatusBadGateway,
			body:     `<html>bad gateway</html>`,
			wantCode: http.StatusBadGateway,
			wantType: failure.TypeInternal,
			wantMsg:  "booking endpoint answered 502",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := bookingform.NewHTTPSubmitter(server.URL, server.Client()).Submit(context.Background(), payload(), "")

			var fail *failure.Failure
			require.True(t, errors.As(err, &fail))
			assert.Equal(t, tt.wantCode, fail.Code)
			assert.Equal(t, tt.wantType, fail.Type)
			assert.Equal(t, tt.wantMsg, fail.Message)
		})
	}
}

func TestHTTPSubmitter_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := bookingform.NewHTTPSubmitter(url, nil).Submit(context.Background(), payload(), "key-1")

	require.Error(t, err)

	var fail *failure.Failure
	assert.False(t, errors.As(err, &fail))
}
