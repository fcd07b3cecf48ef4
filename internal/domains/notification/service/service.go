package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"excursions/config"
	"excursions/infras/mailer"
	"excursions/infras/otel"
	bookingModel "excursions/internal/domains/booking/model"
	excursionDto "excursions/internal/domains/excursion/model/dto"
	"excursions/internal/domains/notification/model/dto"
	"excursions/internal/domains/notification/template"
	"excursions/shared/constant"
	"excursions/shared/locale"
	"excursions/shared/settle"
	"fmt"

	"github.com/rs/zerolog/log"
)

const (
	tagCategory      = "category"
	tagBooking       = "booking_id"
	categoryCustomer = "booking_confirmation"
	categoryBusiness = "booking_alert"
)

var errNoBusinessAddress = errors.New("business notification address is not configured")

type Notification interface {
	SendBookingConfirmation(ctx context.Context, booking bookingModel.Booking, excursion excursionDto.ExcursionResponse) dto.EmailDeliveryResult
}

type serviceImpl struct {
	mailer mailer.Mailer
	cfg    *config.Config
	otel   otel.Otel
}

func New(mailer mailer.Mailer, cfg *config.Config, otel otel.Otel) Notification {
	return &serviceImpl{
		mailer: mailer,
		cfg:    cfg,
		otel:   otel,
	}
}

// SendBookingConfirmation sends the customer confirmation and the business alert at the
// same time and waits for both. It never fails: every problem ends up in the result.
func (s *serviceImpl) SendBookingConfirmation(ctx context.Context, booking bookingModel.Booking, excursion excursionDto.ExcursionResponse) (res dto.EmailDeliveryResult) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SendBookingConfirmation")
	defer scope.End()

	if !s.mailer.Configured() {
		log.Warn().Str("booking", booking.ID).Msg("mailer not configured, skipping booking emails")
		scope.AddEvent(dto.ErrorNotConfigured)

		return dto.EmailDeliveryResult{Error: dto.ErrorNotConfigured}
	}

	customer, business := settle.Both(ctx,
		func(ctx context.Context) (string, error) { return s.sendCustomer(ctx, booking, excursion) },
		func(ctx context.Context) (string, error) { return s.sendBusiness(ctx, booking, excursion) },
	)

	if customer.OK() {
		res.CustomerEmailID = &customer.Value
	} else {
		log.Error().Err(customer.Err).Str("booking", booking.ID).Msg("failed to send customer confirmation email")
	}

	if business.OK() {
		res.BusinessEmailID = &business.Value
	} else {
		log.Error().Err(business.Err).Str("booking", booking.ID).Msg("failed to send business notification email")
	}

	res.Success = customer.OK() || business.OK()
	if !res.Success {
		res.Error = dto.ErrorDeliveryFailed
		scope.TraceError(errors.Join(customer.Err, business.Err))
	}

	return res
}

func (s *serviceImpl) sendCustomer(ctx context.Context, booking bookingModel.Booking, excursion excursionDto.ExcursionResponse) (string, error) {
	email, err := template.Customer(s.view(booking, excursion, booking.Locale))
	if err != nil {
		return constant.Empty, err //nolint:wrapcheck
	}

	id, err := s.mailer.Send(ctx, mailer.Message{
		To:      booking.Email,
		ReplyTo: s.cfg.Mail.BusinessAddress,
		Subject: email.Subject,
		HTML:    email.HTML,
		Tags:    map[string]string{tagCategory: categoryCustomer, tagBooking: booking.ID},
	})
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to send customer email: %w", err)
	}

	return id, nil
}

func (s *serviceImpl) sendBusiness(ctx context.Context, booking bookingModel.Booking, excursion excursionDto.ExcursionResponse) (string, error) {
	if s.cfg.Mail.BusinessAddress == constant.Empty {
		return constant.Empty, errNoBusinessAddress
	}

	email, err := template.Business(s.view(booking, excursion, s.cfg.App.DefaultLocale))
	if err != nil {
		return constant.Empty, err //nolint:wrapcheck
	}

	id, err := s.mailer.Send(ctx, mailer.Message{
		To:      s.cfg.Mail.BusinessAddress,
		ReplyTo: booking.Email,
		Subject: email.Subject,
		HTML:    email.HTML,
		Tags:    map[string]string{tagCategory: categoryBusiness, tagBooking: booking.ID},
	})
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to send business email: %w", err)
	}

	return id, nil
}

func (s *serviceImpl) view(booking bookingModel.Booking, excursion excursionDto.ExcursionResponse, loc string) template.Booking {
	loc = locale.Normalize(loc)

	arrivalTime, err := locale.FormatTime(booking.ArrivalTime, loc)
	if err != nil {
		arrivalTime = booking.ArrivalTime
	}

	return template.Booking{
		Locale:         loc,
		BookingID:      booking.ID,
		FullName:       booking.FullName,
		Email:          booking.Email,
		Phone:          booking.Phone,
		Adults:         booking.Adults,
		Children:       booking.Children,
		ArrivalDate:    locale.FormatLongDate(booking.ArrivalDate, loc),
		ArrivalTime:    arrivalTime,
		Message:        booking.Message,
		ExcursionID:    excursion.ID,
		ExcursionTitle: excursion.Title,
		Location:       excursion.Location,
		Duration:       excursion.Duration,
		Price:          locale.FormatPrice(excursion.Price, loc),
		ImageURL:       excursion.Image,
		CustomerLocale: locale.Normalize(booking.Locale),
	}
}
