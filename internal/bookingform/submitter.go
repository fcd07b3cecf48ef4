package bookingform

import (
	"bytes"
	"context"
	"encoding/json"
	"excursions/internal/domains/booking/model/dto"
	"excursions/shared/constant"
	"excursions/shared/failure"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	bookingsPath          = "/v1/bookings"
	defaultSubmitTimeout  = 20 * time.Second
	maxResponseBodyLength = 1 << 20
)

// HTTPSubmitter posts drafts to the booking endpoint.
type HTTPSubmitter struct {
	client   *http.Client
	endpoint string
}

// NewHTTPSubmitter targets baseURL + /v1/bookings. A nil client gets a default with a timeout.
func NewHTTPSubmitter(baseURL string, client *http.Client) *HTTPSubmitter {
	if client == nil {
		client = &http.Client{Timeout: defaultSubmitTimeout}
	}

	return &HTTPSubmitter{
		client:   client,
		endpoint: strings.TrimRight(baseURL, "/") + bookingsPath,
	}
}

type errorEnvelope struct {
	Success bool             `json:"success"`
	Error   *failure.Failure `json:"error"`
}

// Submit returns the server's failure (with its HTTP code) for 4xx and 5xx responses.
func (s *HTTPSubmitter) Submit(ctx context.Context, payload dto.CreateBookingRequest, idempotencyKey string) (Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("failed to encode booking: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("failed to build booking request: %w", err)
	}

	request.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	request.Header.Set("Accept", constant.ContentTypeJSON)

	if payload.Locale != "" {
		request.Header.Set(constant.RequestHeaderAcceptLanguage, payload.Locale)
	}

	if idempotencyKey != "" {
		request.Header.Set(constant.RequestHeaderIdempotencyKey, idempotencyKey)
	}

	response, err := s.client.Do(request)
	if err != nil {
		return Result{}, fmt.Errorf("failed to send booking: %w", err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBodyLength))
	if err != nil {
		return Result{}, fmt.Errorf("failed to read booking response: %w", err)
	}

	if response.StatusCode == http.StatusOK || response.StatusCode == http.StatusCreated {
		var res dto.SubmitBookingResponse
		if err = json.Unmarshal(raw, &res); err != nil || !res.Success {
			return Result{}, fmt.Errorf("unexpected booking response: %s", http.StatusText(response.StatusCode))
		}

		return Result{Booking: res.Booking, EmailSent: res.EmailSent}, nil
	}

	var envelope errorEnvelope
	if err = json.Unmarshal(raw, &envelope); err != nil || envelope.Error == nil {
		return Result{}, &failure.Failure{
			Code:    response.StatusCode,
			Type:    failure.TypeInternal,
			Message: fmt.Sprintf("booking endpoint answered %d", response.StatusCode),
		}
	}

	envelope.Error.Code = response.StatusCode

	return Result{}, envelope.Error
}
