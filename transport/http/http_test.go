package http_test

import (
	"context"
	"excursions/config"
	"excursions/infras/otel/mocks"
	bookingMocks "excursions/internal/domains/booking/mocks"
	excursionMocks "excursions/internal/domains/excursion/mocks"
	"excursions/internal/domains/excursion/model/dto"
	"excursions/internal/handlers/booking"
	"excursions/internal/handlers/excursion"
	cacheMocks "excursions/shared/cache/mocks"
	"excursions/shared/constant"
	transport "excursions/transport/http"
	"excursions/transport/http/middleware"
	"excursions/transport/http/router"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type pinger struct {
	err error
}

func (p pinger) Ping(context.Context) error {
	return p.err
}

type fixture struct {
	excursions *excursionMocks.MockExcursionService
	server     *transport.HTTP
}

func newFixture(t *testing.T, cfg *config.Config) fixture {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	otel := mocks.NewOtel()
	excursions := excursionMocks.NewMockExcursionService(ctrl)

	r := router.New(router.DomainHandlers{
		Excursion: excursion.New(excursions, otel),
		Booking:   booking.New(bookingMocks.NewMockBookingService(ctrl), middleware.NewAuthMiddleware(otel, cfg), otel),
	})

	app := middleware.NewAppMiddleware(otel, cfg, cacheMocks.NewMockRedisCache(ctrl))

	return fixture{
		excursions: excursions,
		server:     transport.New(cfg, r, app, nil, otel),
	}
}

func serve(server *transport.HTTP, request *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, request)

	return recorder
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name     string
		db       transport.Pinger
		wantCode int
	}{
		{name: "database reachable", db: pinger{}, wantCode: http.StatusOK},
		{name: "database down", db: pinger{err: assert.AnError}, wantCode: http.StatusServiceUnavailable},
		{name: "no database", wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, &config.Config{})
			f.server.DB = tt.db

			recorder := serve(f.server, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			assert.Equal(t, tt.wantCode, recorder.Code)
			assert.Equal(t, transport.ServerStateReady, f.server.State())
		})
	}
}

func TestRoutes(t *testing.T) {
	f := newFixture(t, &config.Config{})

	f.excursions.EXPECT().Get(gomock.Any(), int64(1)).Return(dto.ExcursionResponse{ID: 1}, nil)

	assert.Equal(t, http.StatusOK, serve(f.server, httptest.NewRequest(http.MethodGet, "/v1/excursions/1", nil)).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(f.server, httptest.NewRequest(http.MethodGet, "/v1/bookings", nil)).Code)
	assert.Equal(t, http.StatusNotFound, serve(f.server, httptest.NewRequest(http.MethodGet, "/v1/rooms", nil)).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(f.server, httptest.NewRequest(http.MethodDelete, "/v1/excursions/1", nil)).Code)
}

func TestCORS(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.CORS.Enable = true
	cfg.App.CORS.AllowedOrigins = []string{"https://tours.example.com"}
	cfg.App.CORS.AllowedMethods = []string{http.MethodGet, http.MethodPost}
	cfg.App.CORS.AllowedHeaders = []string{constant.RequestHeaderContentType, constant.RequestHeaderIdempotencyKey}

	f := newFixture(t, cfg)

	request := httptest.NewRequest(http.MethodOptions, "/v1/bookings", nil)
	request.Header.Set("Origin", "https://tours.example.com")
	request.Header.Set("Access-Control-Request-Method", http.MethodPost)
	request.Header.Set("Access-Control-Request-Headers", constant.RequestHeaderIdempotencyKey)

	recorder := serve(f.server, request)

	assert.Equal(t, "https://tours.example.com", recorder.Header().Get("Access-Control-Allow-Origin"))
}
