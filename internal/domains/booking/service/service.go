package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"errors"
	"excursions/config"
	"excursions/infras/kafka"
	"excursions/infras/otel"
	"excursions/internal/domains/booking/model"
	"excursions/internal/domains/booking/model/dto"
	"excursions/internal/domains/booking/repository"
	excursionService "excursions/internal/domains/excursion/service"
	notificationService "excursions/internal/domains/notification/service"
	"excursions/shared"
	"excursions/shared/cache"
	"excursions/shared/constant"
	gDto "excursions/shared/dto"
	"excursions/shared/failure"
	"excursions/shared/locale"
	gRepo "excursions/shared/repository"
	"excursions/shared/timezone"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

var (
	ErrBookingNotFound = failure.NotFound("booking not found")
	ErrStatusChanged   = failure.Conflict("booking status was changed by someone else, reload and try again")
	ErrKeyReused       = failure.Conflict("Idempotency-Key was already used for a different booking")
)

type Booking interface {
	Submit(ctx context.Context, req dto.CreateBookingRequest, idempotencyKey string) (dto.SubmitBookingResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateBookingStatusRequest, actor string) error
}

type serviceImpl struct {
	repo          repository.Booking
	excursions    excursionService.Excursion
	notifications notificationService.Notification
	kafka         kafka.Client
	cfg           *config.Config
	cache         cache.RedisCache
	otel          otel.Otel
}

func New(
	repo repository.Booking,
	excursions excursionService.Excursion,
	notifications notificationService.Notification,
	kafka kafka.Client,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:          repo,
		excursions:    excursions,
		notifications: notifications,
		kafka:         kafka,
		cfg:           cfg,
		cache:         cache,
		otel:          otel,
	}
}

// Submit persists a validated booking and sends the confirmation emails. The excursion
// is resolved first so an unknown reference is rejected before anything is stored.
// A repeated idempotency key returns the stored booking with Replayed set and sends nothing.
func (s *serviceImpl) Submit(ctx context.Context, req dto.CreateBookingRequest, idempotencyKey string) (res dto.SubmitBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Submit")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	idempotencyKey = strings.TrimSpace(idempotencyKey)
	if maxLength := s.cfg.Booking.IdempotencyKeyMaxLength; maxLength > 0 && len(idempotencyKey) > maxLength {
		msg := fmt.Sprintf("Idempotency-Key must be at most %d characters", maxLength)

		return res, failure.Validation(msg, map[string]string{"idempotencyKey": msg})
	}

	if idempotencyKey != constant.Empty {
		existing, err := s.findByIdempotencyKey(ctx, idempotencyKey)
		if err != nil {
			return res, err
		}

		if existing.ID != constant.Empty {
			return replayIfSame(req, existing)
		}
	}

	excursion, err := s.excursions.Get(ctx, int64(req.Excursion))
	if failure.GetCode(err) == http.StatusNotFound {
		return res, failure.Validation("Please choose an excursion that exists", map[string]string{
			"excursion": fmt.Sprintf("Excursion %d does not exist", req.Excursion),
		})
	}

	if err != nil {
		log.Error().Err(err).Int64("excursion", int64(req.Excursion)).Msg("failed to look up excursion for booking")

		return res, fmt.Errorf("failed to look up excursion: %w", err)
	}

	loc := locale.FromContext(ctx)
	if req.Locale != constant.Empty {
		loc = locale.Normalize(req.Locale)
	}

	booking, err := req.ToModel(idempotencyKey, loc)
	if err != nil {
		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, booking); err != nil {
		if errors.Is(err, gRepo.ErrDuplicate) && idempotencyKey != constant.Empty {
			existing, findErr := s.findByIdempotencyKey(ctx, idempotencyKey)
			if findErr == nil && existing.ID != constant.Empty {
				return replayIfSame(req, existing)
			}
		}

		log.Error().Err(err).
			Int64("excursion", booking.ExcursionID).
			Strs("fields", req.Shape()).
			Time("at", timezone.Now()).
			Msg("failed to persist booking")

		return res, fmt.Errorf("failed to persist booking: %w", err)
	}

	delivery := s.notifications.SendBookingConfirmation(ctx, booking, excursion)

	go func() {
		c := context.WithoutCancel(ctx)

		s.publishCreated(c, booking, delivery.Success)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()

	res.Success = true
	res.Booking.FromModel(booking)
	res.EmailSent = delivery.Success

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if _, err = uuid.Parse(id); err != nil {
		return res, ErrBookingNotFound
	}

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params.Sanitize(model.SortableFields...)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, gDto.QueryParams{}, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

// UpdateStatus moves a booking along pending -> confirmed -> cancelled. Setting the
// current status again is a no-op so redelivered status events are harmless.
func (s *serviceImpl) UpdateStatus(ctx context.Context, id string, req dto.UpdateBookingStatusRequest, actor string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if _, err = uuid.Parse(id); err != nil {
		return ErrBookingNotFound
	}

	booking, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if booking.Status == req.Status {
		return nil
	}

	if !model.CanTransition(booking.Status, req.Status) {
		return failure.Conflict(fmt.Sprintf("a %s booking cannot become %s", booking.Status, req.Status)) //nolint:wrapcheck
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			shared.FilterByID(id, model.FieldID, model.TableName),
			gDto.Filter{Field: model.FieldStatus, ArgName: "current_status", Value: booking.Status, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}

	affected, err := s.repo.Update(ctx, shared.TransformFields(req, actor), filter)
	if err != nil {
		log.Error().Err(err).Str("booking", id).Msg("failed to update booking status")

		return fmt.Errorf("failed to update booking status: %w", err)
	}

	if affected == 0 {
		return ErrStatusChanged
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetBooking)
		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()

	return nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("booking", id).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, ErrBookingNotFound
	}

	return booking, nil
}

func (s *serviceImpl) findByIdempotencyKey(ctx context.Context, key string) (model.Booking, error) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldIdempotencyKey, Value: key, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}

	booking, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to look up idempotency key")

		return booking, fmt.Errorf("failed to look up idempotency key: %w", err)
	}

	return booking, nil
}

func (s *serviceImpl) publishCreated(ctx context.Context, booking model.Booking, emailSent bool) {
	if s.kafka == nil || !s.kafka.Configured() {
		return
	}

	var event dto.BookingCreatedEvent
	event.FromModel(booking, emailSent)

	err := s.kafka.SendMessages(ctx, s.cfg.Kafka.Topics.BookingCreated, kafka.Message{Key: booking.ID, Value: event})
	if err != nil {
		log.Error().Err(err).Str("booking", booking.ID).Msg("failed to publish booking created event")
	}
}

func replayIfSame(req dto.CreateBookingRequest, existing model.Booking) (dto.SubmitBookingResponse, error) {
	if !req.Matches(existing) {
		log.Warn().Str("booking", existing.ID).Msg("idempotency key reused with a different payload")

		return dto.SubmitBookingResponse{}, ErrKeyReused
	}

	log.Info().Str("booking", existing.ID).Msg("replaying booking for repeated idempotency key")

	return replay(existing), nil
}

func replay(booking model.Booking) (res dto.SubmitBookingResponse) {
	res.Success = true
	res.Replayed = true
	res.Booking.FromModel(booking)

	return res
}
