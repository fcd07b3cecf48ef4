package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"excursions/infras/otel"
	"excursions/infras/postgres"
	"excursions/internal/domains/booking/model"
	gDto "excursions/shared/dto"
	gRepo "excursions/shared/repository"
	"fmt"

	"github.com/rs/zerolog/log"
)

// ErrInvalidRecord means a stored row failed model validation.
var ErrInvalidRecord = errors.New("invalid booking record")

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) (int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

// Get returns the zero Booking when nothing matches and ErrInvalidRecord when the
// stored row does not pass validation.
func (r *repositoryImpl) Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error) {
	booking, err := r.Repository.Get(ctx, filter, columns...)
	if err != nil || booking.ID == "" {
		return booking, err //nolint:wrapcheck
	}

	if len(columns) > 0 {
		return booking, nil
	}

	if err = booking.Validate(); err != nil {
		log.Error().Err(err).Str("id", booking.ID).Msg("stored booking failed validation")

		return model.Booking{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	return booking, nil
}
