package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"excursions/infras/otel"
	"excursions/infras/postgres"
	"excursions/internal/domains/excursion/model"
	"excursions/shared"
	gDto "excursions/shared/dto"
	gRepo "excursions/shared/repository"
	"fmt"

	"github.com/rs/zerolog/log"
)

// ErrInvalidRecord means a stored row failed model validation.
var ErrInvalidRecord = errors.New("invalid excursion record")

type Excursion interface {
	Find(ctx context.Context, id int64) (model.Excursion, bool, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Excursion, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Excursion]
}

func New(db *postgres.Connection, otel otel.Otel) Excursion {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Excursion](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

// Find loads an active excursion by id. found is false when no active row exists.
func (r *repositoryImpl) Find(ctx context.Context, id int64) (model.Excursion, bool, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			shared.FilterByID(id, model.FieldID, model.TableName),
			gDto.Filter{Field: model.FieldActive, Value: true, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}

	excursion, err := r.Get(ctx, filter)
	if err != nil {
		return excursion, false, err //nolint:wrapcheck
	}

	if excursion.ID == 0 {
		return excursion, false, nil
	}

	if err = excursion.Validate(); err != nil {
		log.Error().Err(err).Int64("id", id).Msg("stored excursion failed validation")

		return model.Excursion{}, false, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	return excursion, true, nil
}

// GetAll drops rows that fail validation instead of failing the whole page.
func (r *repositoryImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Excursion, error) {
	rows, err := r.Repository.GetAll(ctx, params, filter, columns...)
	if err != nil {
		return rows, err //nolint:wrapcheck
	}

	valid := rows[:0]

	for _, row := range rows {
		if err := row.Validate(); err != nil {
			log.Warn().Err(err).Int64("id", row.ID).Msg("skipping invalid excursion")

			continue
		}

		valid = append(valid, row)
	}

	return valid, nil
}
