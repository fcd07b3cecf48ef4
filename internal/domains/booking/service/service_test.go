package service_test

import (
	"context"
	"database/sql"
	"errors"
	"excursions/config"
	"excursions/infras/kafka"
	kafkaMocks "excursions/infras/kafka/mocks"
	"excursions/infras/otel"
	"excursions/infras/otel/mocks"
	"excursions/internal/domains/booking/model"
	"excursions/internal/domains/booking/model/dto"
	"excursions/internal/domains/booking/service"
	bookingMocks "excursions/internal/domains/booking/mocks"
	excursionDto "excursions/internal/domains/excursion/model/dto"
	excursionService "excursions/internal/domains/excursion/service"
	excursionMocks "excursions/internal/domains/excursion/mocks"
	notificationDto "excursions/internal/domains/notification/model/dto"
	notificationMocks "excursions/internal/domains/notification/mocks"
	"excursions/shared/cache"
	cacheMocks "excursions/shared/cache/mocks"
	gDto "excursions/shared/dto"
	"excursions/shared/failure"
	"excursions/shared/locale"
	gRepo "excursions/shared/repository"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const bookingID = "2b1f0c8e-5d0e-4b8a-9f3e-1c2d3e4f5a6b"

type fixture struct {
	repo          *bookingMocks.MockBooking
	excursions    *excursionMocks.MockExcursionService
	notifications *notificationMocks.MockNotification
	kafka         *kafkaMocks.MockClient
	cache         *cacheMocks.MockRedisCache
	svc           service.Booking
}

func newFixture(t *testing.T) fixture {
	return newTracedFixture(t, mocks.NewOtel())
}

func newTracedFixture(t *testing.T, ot otel.Otel) fixture {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	cfg := &config.Config{}
	cfg.Cache.TTL = 60
	cfg.Booking.IdempotencyKeyMaxLength = 128
	cfg.Kafka.Topics.BookingCreated = "booking.created"

	f := fixture{
		repo:          bookingMocks.NewMockBooking(ctrl),
		excursions:    excursionMocks.NewMockExcursionService(ctrl),
		notifications: notificationMocks.NewMockNotification(ctrl),
		kafka:         kafkaMocks.NewMockClient(ctrl),
		cache:         cacheMocks.NewMockRedisCache(ctrl),
	}
	f.svc = service.New(f.repo, f.excursions, f.notifications, f.kafka, cfg, f.cache, ot)

	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func scenarioRequest() dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		ContactDetails: dto.ContactDetails{FullName: "Jane Doe", Email: "jane@example.com", Phone: "8095551234"},
		TripDetails:    dto.TripDetails{Adults: 2, Children: 1, ArrivalDate: "2030-01-15", ArrivalTime: "09:00"},
		Excursion:      1,
	}
}

func saona() excursionDto.ExcursionResponse {
	return excursionDto.ExcursionResponse{ID: 1, Title: "Saona Island", Price: decimal.RequireFromString("85")}
}

func stored(key string) model.Booking {
	return model.Booking{
		ID:             bookingID,
		ExcursionID:    1,
		FullName:       "Jane Doe",
		Email:          "jane@example.com",
		Phone:          "8095551234",
		Adults:         2,
		Children:       1,
		ArrivalDate:    time.Date(2030, 1, 15, 0, 0, 0, 0, time.UTC),
		ArrivalTime:    "09:00",
		Status:         model.StatusPending,
		Locale:         "en",
		IdempotencyKey: sql.NullString{String: key, Valid: key != ""},
	}
}

func sent() notificationDto.EmailDeliveryResult {
	id := "cust-1"

	return notificationDto.EmailDeliveryResult{Success: true, CustomerEmailID: &id}
}

func TestSubmit(t *testing.T) {
	tests := []struct {
		name          string
		req           func() dto.CreateBookingRequest
		key           string
		setup         func(f fixture)
		wantCode      int
		wantEmailSent bool
		wantReplayed  bool
		wantDetail    string
	}{
		{
			name: "healthy transport",
			req:  scenarioRequest,
			setup: func(f fixture) {
				f.excursions.EXPECT().Get(gomock.Any(), int64(1)).Return(saona(), nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, b model.Booking) error {
						assert.Equal(t, model.StatusPending, b.Status)
						assert.Equal(t, int64(1), b.ExcursionID)
						assert.False(t, b.IdempotencyKey.Valid)

						return nil
					})
				f.notifications.EXPECT().SendBookingConfirmation(gomock.Any(), gomock.Any(), saona()).Return(sent())
				f.kafka.EXPECT().Configured().Return(false).AnyTimes()
			},
			wantEmailSent: true,
		},
		{
			name: "mail transport not configured",
			req:  scenarioRequest,
			setup: func(f fixture) {
				f.excursions.EXPECT().Get(gomock.Any(), int64(1)).Return(saona(), nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
				f.notifications.EXPECT().SendBookingConfirmation(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(notificationDto.EmailDeliveryResult{Error: notificationDto.ErrorNotConfigured})
				f.kafka.EXPECT().Configured().Return(false).AnyTimes()
			},
			wantEmailSent: false,
		},
		{
			name: "unknown excursion",
			req: func() dto.CreateBookingRequest {
				req := scenarioRequest()
				req.Excursion = 999999

				return req
			},
			setup: func(f fixture) {
				f.excursions.EXPECT().Get(gomock.Any(), int64(999999)).Return(excursionDto.ExcursionResponse{}, excursionService.ErrExcursionNotFound)
			},
			wantCode:   http.StatusBadRequest,
			wantDetail: "Excursion 999999 does not exist",
		},
		{
			name: "excursion lookup fails",
			req:  scenarioRequest,
			setup: func(f fixture) {
				f.excursions.EXPECT().Get(gomock.Any(), int64(1)).Return(excursionDto.ExcursionResponse{}, errors.New("redis and postgres down"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "persistence fails",
			req:  scenarioRequest,
			setup: func(f fixture) {
				f.excursions.EXPECT().Get(gomock.Any(), int64(1)).Return(saona(), nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "new idempotency key",
			req:  scenarioRequest,
			key:  "  form-42  ",
			setup: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)
				f.excursions.EXPECT().Get(gomock.Any(), int64(1)).Return(saona(), nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, b model.Booking) error {
						assert.Equal(t, "form-42", b.IdempotencyKey.String)

						return nil
					})
				f.notifications.EXPECT().SendBookingConfirmation(gomock.Any(), gomock.Any(), gomock.Any()).Return(sent())
				f.kafka.EXPECT().Configured().Return(true).AnyTimes()
				f.kafka.EXPECT().SendMessages(gomock.Any(), "booking.created", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
						assert.Len(t, messages, 1)

						event, ok := messages[0].Value.(dto.BookingCreatedEvent)
						assert.True(t, ok)
						assert.Equal(t, "2030-01-15", event.ArrivalDate)
						assert.True(t, event.EmailSent)

						return nil
					}).AnyTimes()
			},
			wantEmailSent: true,
		},
		{
			name: "repeated idempotency key",
			req:  scenarioRequest,
			key:  "form-42",
			setup: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored("form-42"), nil)
			},
			wantReplayed: true,
		},
		{
			name: "reused idempotency key with a different booking",
			req: func() dto.CreateBookingRequest {
				req := scenarioRequest()
				req.ArrivalDate = "2030-02-20"

				return req
			},
			key: "form-42",
			setup: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored("form-42"), nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "concurrent duplicate key with a different booking",
			req: func() dto.CreateBookingRequest {
				req := scenarioRequest()
				req.Adults = 4

				return req
			},
			key: "form-42",
			setup: func(f fixture) {
				gomock.InOrder(
					f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil),
					f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored("form-42"), nil),
				)
				f.excursions.EXPECT().Get(gomock.Any(), int64(1)).Return(saona(), nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(fmt.Errorf("insert: %w", gRepo.ErrDuplicate))
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "concurrent duplicate key",
			req:  scenarioRequest,
			key:  "form-42",
			setup: func(f fixture) {
				gomock.InOrder(
					f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil),
					f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored("form-42"), nil),
				)
				f.excursions.EXPECT().Get(gomock.Any(), int64(1)).Return(saona(), nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(fmt.Errorf("insert: %w", gRepo.ErrDuplicate))
			},
			wantReplayed: true,
		},
		{
			name:       "idempotency key too long",
			req:        scenarioRequest,
			key:        strings.Repeat("k", 129),
			setup:      func(_ fixture) {},
			wantCode:   http.StatusBadRequest,
			wantDetail: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)

			res, err := f.svc.Submit(context.Background(), tt.req(), tt.key)

			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				if tt.wantDetail != "" {
					assert.Equal(t, tt.wantDetail, failure.From(err).Details["excursion"])
				}

				return
			}

			require.NoError(t, err)
			assert.True(t, res.Success)
			assert.Equal(t, tt.wantEmailSent, res.EmailSent)
			assert.Equal(t, tt.wantReplayed, res.Replayed)
			assert.Equal(t, model.StatusPending, res.Booking.Status)
			assert.Equal(t, "2030-01-15", res.Booking.ArrivalDate)
			assert.NotEmpty(t, res.Booking.ID)
		})
	}
}

func TestSubmit_TracesFailure(t *testing.T) {
	recorder := mocks.NewRecorder()
	f := newTracedFixture(t, recorder)
	f.excursions.EXPECT().Get(gomock.Any(), int64(1)).Return(saona(), nil)
	f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

	_, err := f.svc.Submit(context.Background(), scenarioRequest(), "")
	require.Error(t, err)

	traced := recorder.Errors("service.Submit")
	require.Len(t, traced, 1)
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(traced[0]))
}

func TestSubmit_Locale(t *testing.T) {
	f := newFixture(t)

	f.excursions.EXPECT().Get(gomock.Any(), int64(1)).Return(saona(), nil)
	f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, b model.Booking) error {
			assert.Equal(t, "es", b.Locale)

			return nil
		})
	f.notifications.EXPECT().SendBookingConfirmation(gomock.Any(), gomock.Any(), gomock.Any()).Return(sent())
	f.kafka.EXPECT().Configured().Return(false).AnyTimes()

	ctx := locale.WithLocale(context.Background(), "es-DO")

	_, err := f.svc.Submit(ctx, scenarioRequest(), "")

	time.Sleep(10 * time.Millisecond)

	require.NoError(t, err)
}

func TestGet(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Get(context.Background(), "not-a-uuid")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), "booking:get:"+bookingID, gomock.Any()).Return(cache.Nil)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := f.svc.Get(context.Background(), bookingID)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("found", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), "booking:get:"+bookingID, gomock.Any()).Return(cache.Nil)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored(""), nil)

		res, err := f.svc.Get(context.Background(), bookingID)

		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, bookingID, res.ID)
		assert.Equal(t, "Jane Doe", res.FullName)
	})
}

func TestGetAll(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).Times(2)
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(21, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Booking, error) {
			assert.Equal(t, "arrival_date", params.SortBy)
			assert.Equal(t, "DESC", params.SortDir)

			return []model.Booking{stored("")}, nil
		})

	res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10, SortBy: "arrival_date"}, gDto.FilterGroup{})

	time.Sleep(10 * time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, 21, res.TotalData)
	assert.Equal(t, 3, res.TotalPage)
	assert.Len(t, res.Bookings, 1)
}

func TestUpdateStatus(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		next     string
		affected int64
		updateFn bool
		wantCode int
	}{
		{name: "confirm pending", current: model.StatusPending, next: model.StatusConfirmed, affected: 1, updateFn: true},
		{name: "cancel confirmed", current: model.StatusConfirmed, next: model.StatusCancelled, affected: 1, updateFn: true},
		{name: "same status is a no-op", current: model.StatusConfirmed, next: model.StatusConfirmed},
		{name: "cancelled is terminal", current: model.StatusCancelled, next: model.StatusConfirmed, wantCode: http.StatusConflict},
		{name: "changed concurrently", current: model.StatusPending, next: model.StatusConfirmed, affected: 0, updateFn: true, wantCode: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			booking := stored("")
			booking.Status = tt.current

			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

			if tt.updateFn {
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, mod map[string]any, filter gDto.FilterGroup) (int64, error) {
						assert.Equal(t, tt.next, mod["status"])
						assert.Equal(t, "back-office", mod["modified_by"])

						_, args := filter.GetWhereClause()
						assert.Equal(t, tt.current, args["current_status"])

						return tt.affected, nil
					})
			}

			err := f.svc.UpdateStatus(context.Background(), bookingID, dto.UpdateBookingStatusRequest{Status: tt.next}, "back-office")

			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}

	t.Run("unknown booking", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		err := f.svc.UpdateStatus(context.Background(), bookingID, dto.UpdateBookingStatusRequest{Status: model.StatusConfirmed}, "back-office")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
