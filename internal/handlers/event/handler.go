// Package event consumes booking status changes published by the back office.
package event

import (
	"context"
	"excursions/config"
	"excursions/infras/kafka"
	"excursions/infras/otel"
	"excursions/internal/domains/booking/model/dto"
	"excursions/internal/domains/booking/service"
	"excursions/shared/constant"
	"excursions/shared/failure"
	"excursions/shared/validator"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

type Handler struct {
	service service.Booking
	kafka   kafka.Client
	cfg     *config.Config
	otel    otel.Otel
}

func New(service service.Booking, kafka kafka.Client, cfg *config.Config, otel otel.Otel) Handler {
	return Handler{
		service: service,
		kafka:   kafka,
		cfg:     cfg,
		otel:    otel,
	}
}

// Start blocks consuming the booking status topic until ctx is done.
func (handler *Handler) Start(ctx context.Context) error {
	topic := handler.cfg.Kafka.Topics.BookingStatus

	log.Info().Str("topic", topic).Msg("starting booking status consumer")

	if err := handler.kafka.Consume(ctx, handler.cfg.Kafka.ConsumerGroup, topic, handler.BookingStatusChanged); err != nil {
		return fmt.Errorf("failed to consume %s: %w", topic, err)
	}

	return nil
}

// BookingStatusChanged applies one status change. Messages that can never succeed
// (undecodable, invalid, unknown booking, refused transition) are logged and acknowledged.
// Anything else is returned so the offset stays uncommitted.
func (handler *Handler) BookingStatusChanged(ctx context.Context, message kafkaGo.Message) (err error) {
	ctx, scope := handler.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".BookingStatusChanged")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute("messaging.kafka.offset", message.Offset)

	event, err := kafka.Decode[dto.BookingStatusChangedEvent](message)
	if err != nil {
		log.Warn().Err(err).Int64("offset", message.Offset).Msg("skipping undecodable booking status event")

		return nil
	}

	if err = validator.ValidateStruct(&event); err != nil {
		log.Warn().Err(err).Int64("offset", message.Offset).Msg("skipping invalid booking status event")

		return nil
	}

	actor := event.Actor
	if actor == "" {
		actor = constant.ActorEvent
	}

	err = handler.service.UpdateStatus(ctx, event.BookingID, dto.UpdateBookingStatusRequest{Status: event.Status}, actor)
	if err == nil {
		log.Info().Str("booking", event.BookingID).Str("status", event.Status).Msg("booking status updated from event")

		return nil
	}

	if failure.GetCode(err) < http.StatusInternalServerError {
		log.Warn().Err(err).Str("booking", event.BookingID).Str("status", event.Status).Msg("booking status event refused")

		return nil
	}

	log.Error().Err(err).Str("booking", event.BookingID).Msg("failed to apply booking status event")

	return fmt.Errorf("failed to apply booking status event: %w", err)
}

// Close releases the consumer group readers and the producer.
func (handler *Handler) Close() error {
	if err := handler.kafka.Close(); err != nil {
		return fmt.Errorf("failed to close kafka client: %w", err)
	}

	return nil
}
