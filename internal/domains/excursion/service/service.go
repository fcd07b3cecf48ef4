package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Excursion=MockExcursionService

import (
	"context"
	"errors"
	"excursions/config"
	"excursions/infras/otel"
	"excursions/internal/domains/excursion/model"
	"excursions/internal/domains/excursion/model/dto"
	"excursions/internal/domains/excursion/repository"
	mediaService "excursions/internal/domains/media/service"
	"excursions/shared"
	"excursions/shared/cache"
	"excursions/shared/constant"
	gDto "excursions/shared/dto"
	"excursions/shared/failure"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetExcursion    = "excursion:get"
	cacheGetAllExcursion = "excursion:gets"
	cacheCountExcursion  = "excursion:count"
)

var ErrExcursionNotFound = failure.NotFound("excursion not found")

type Excursion interface {
	Get(ctx context.Context, id int64) (dto.ExcursionResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetExcursionsResponse, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type serviceImpl struct {
	repo  repository.Excursion
	media mediaService.Media
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Excursion, media mediaService.Media, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Excursion {
	return &serviceImpl{
		repo:  repo,
		media: media,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Get(ctx context.Context, id int64) (res dto.ExcursionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if id <= 0 {
		return res, ErrExcursionNotFound
	}

	cacheKey := shared.BuildCacheKey(cacheGetExcursion, strconv.FormatInt(id, 10))

	var raw dto.ExcursionResponse

	err = s.cache.Get(ctx, cacheKey, &raw)
	if err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for excursion")

		return raw.Resolved(s.resolver(ctx)), nil
	}

	mod, found, err := s.repo.Find(ctx, id)
	if errors.Is(err, repository.ErrInvalidRecord) {
		return res, ErrExcursionNotFound
	}

	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to get excursion")

		return res, fmt.Errorf("failed to get excursion: %w", err)
	}

	if !found {
		return res, ErrExcursionNotFound
	}

	raw.FromModel(mod)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, raw, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save excursion to cache")
		}
	}()

	return raw.Resolved(s.resolver(ctx)), nil
}

// GetAll lists active excursions only.
func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetExcursionsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params.Sanitize(model.SortableFields...)
	filter = activeOnly(filter)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllExcursion, params, filter)

	var raw dto.GetExcursionsResponse

	err = s.cache.Get(ctx, cacheKey, &raw)
	if err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for excursions")

		return raw.Resolved(s.resolver(ctx)), nil
	}

	total, err := s.Count(ctx, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get excursions")

		return res, fmt.Errorf("failed to get excursions: %w", err)
	}

	raw.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, raw, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save excursions to cache")
		}
	}()

	return raw.Resolved(s.resolver(ctx)), nil
}

func (s *serviceImpl) Count(ctx context.Context, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter = activeOnly(filter)
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountExcursion, gDto.QueryParams{}, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count excursions")

		return res, fmt.Errorf("failed to count excursions: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save excursion count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) resolver(ctx context.Context) func(string) string {
	return func(ref string) string {
		return s.media.ResolveURL(ctx, ref)
	}
}

func activeOnly(filter gDto.FilterGroup) gDto.FilterGroup {
	active := gDto.Filter{Field: model.FieldActive, Value: true, Operator: gDto.FilterOperatorEq, Table: model.TableName}

	for _, f := range filter.Filters {
		if existing, ok := f.(gDto.Filter); ok && existing.Field == model.FieldActive {
			return filter
		}
	}

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  append([]any{active}, filter.Filters...),
	}
}
