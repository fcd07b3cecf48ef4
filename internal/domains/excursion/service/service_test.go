package service_test

import (
	"context"
	"errors"
	"excursions/config"
	"excursions/infras/otel/mocks"
	"excursions/internal/domains/excursion/model"
	"excursions/internal/domains/excursion/model/dto"
	"excursions/internal/domains/excursion/repository"
	"excursions/internal/domains/excursion/service"
	excursionMocks "excursions/internal/domains/excursion/mocks"
	mediaMocks "excursions/internal/domains/media/mocks"
	"excursions/shared/cache"
	cacheMocks "excursions/shared/cache/mocks"
	gDto "excursions/shared/dto"
	"excursions/shared/failure"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	repo  *excursionMocks.MockExcursion
	media *mediaMocks.MockMedia
	cache *cacheMocks.MockRedisCache
	svc   service.Excursion
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	cfg := &config.Config{}
	cfg.Cache.TTL = 60

	f := fixture{
		repo:  excursionMocks.NewMockExcursion(ctrl),
		media: mediaMocks.NewMockMedia(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
	}
	f.svc = service.New(f.repo, f.media, cfg, f.cache, mocks.NewOtel())

	return f
}

func saona() model.Excursion {
	return model.Excursion{
		ID:       7,
		Title:    "Saona Island",
		Location: "Bayahibe",
		Price:    decimal.RequireFromString("85.50"),
		Duration: "8 hours",
		Image:    "excursions/saona.jpg",
		Gallery:  pq.StringArray{"excursions/saona-1.jpg", "broken"},
		Active:   true,
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		name     string
		id       int64
		setup    func(f fixture)
		wantCode int
		want     dto.ExcursionResponse
	}{
		{
			name:     "non positive id",
			id:       0,
			setup:    func(_ fixture) {},
			wantCode: http.StatusNotFound,
		},
		{
			name: "cache hit resolves media after the read",
			id:   7,
			setup: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), "excursion:get:7", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, value any) error {
						*value.(*dto.ExcursionResponse) = dto.ExcursionResponse{ID: 7, Title: "Cached", Image: "excursions/saona.jpg"}

						return nil
					})
				f.media.EXPECT().ResolveURL(gomock.Any(), "excursions/saona.jpg").Return("https://bucket.example.com/saona.jpg?X-Amz-Expires=3600")
			},
			want: dto.ExcursionResponse{ID: 7, Title: "Cached", Image: "https://bucket.example.com/saona.jpg?X-Amz-Expires=3600"},
		},
		{
			name: "found and resolved",
			id:   7,
			setup: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), "excursion:get:7", gomock.Any()).Return(cache.Nil)
				f.repo.EXPECT().Find(gomock.Any(), int64(7)).Return(saona(), true, nil)
				f.media.EXPECT().ResolveURL(gomock.Any(), "excursions/saona.jpg").Return("https://media.example.com/saona.jpg")
				f.media.EXPECT().ResolveURL(gomock.Any(), "excursions/saona-1.jpg").Return("https://media.example.com/saona-1.jpg")
				f.media.EXPECT().ResolveURL(gomock.Any(), "broken").Return("")
				f.cache.EXPECT().Save(gomock.Any(), "excursion:get:7", gomock.Any(), 60).Return(nil).AnyTimes()
			},
			want: dto.ExcursionResponse{
				ID:       7,
				Title:    "Saona Island",
				Location: "Bayahibe",
				Price:    decimal.RequireFromString("85.50"),
				Duration: "8 hours",
				Image:    "https://media.example.com/saona.jpg",
				Gallery:  []string{"https://media.example.com/saona-1.jpg"},
				Metadata: gDto.Metadata{CreatedAt: "", UpdatedAt: ""},
			},
		},
		{
			name: "not found",
			id:   999999,
			setup: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
				f.repo.EXPECT().Find(gomock.Any(), int64(999999)).Return(model.Excursion{}, false, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "invalid stored row",
			id:   3,
			setup: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
				f.repo.EXPECT().Find(gomock.Any(), int64(3)).Return(model.Excursion{}, false, fmt.Errorf("%w: title", repository.ErrInvalidRecord))
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "database error",
			id:   7,
			setup: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
				f.repo.EXPECT().Find(gomock.Any(), int64(7)).Return(model.Excursion{}, false, errors.New("connection refused"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)

			res, err := f.svc.Get(context.Background(), tt.id)

			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want.ID, res.ID)
			assert.Equal(t, tt.want.Title, res.Title)
			assert.Equal(t, tt.want.Image, res.Image)
			assert.Equal(t, tt.want.Gallery, res.Gallery)
			assert.True(t, tt.want.Price.Equal(res.Price))
		})
	}
}

func TestGet_CachesMediaReferences(t *testing.T) {
	f := newFixture(t)

	saved := make(chan dto.ExcursionResponse, 1)

	f.cache.EXPECT().Get(gomock.Any(), "excursion:get:7", gomock.Any()).Return(cache.Nil)
	f.repo.EXPECT().Find(gomock.Any(), int64(7)).Return(saona(), true, nil)
	f.media.EXPECT().ResolveURL(gomock.Any(), gomock.Any()).Return("https://bucket.example.com/signed").AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), "excursion:get:7", gomock.Any(), 60).
		DoAndReturn(func(_ context.Context, _ string, value any, _ int) error {
			saved <- value.(dto.ExcursionResponse)

			return nil
		})

	res, err := f.svc.Get(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, "https://bucket.example.com/signed", res.Image)

	select {
	case cached := <-saved:
		assert.Equal(t, "excursions/saona.jpg", cached.Image)
		assert.Equal(t, []string{"excursions/saona-1.jpg", "broken"}, cached.Gallery)
	case <-time.After(time.Second):
		t.Fatal("excursion was not cached")
	}
}

func TestGetAll(t *testing.T) {
	t.Run("sanitizes params and forces active filter", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).Times(2)
		f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				where, args := filter.GetWhereClause()
				assert.Contains(t, where, "excursions.active = :active")
				assert.Equal(t, true, args["active"])

				return 11, nil
			})

		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Excursion, error) {
				assert.Equal(t, "created_at", params.SortBy)
				assert.Equal(t, gDto.MaxLimit, params.Limit)

				return []model.Excursion{saona()}, nil
			})

		f.media.EXPECT().ResolveURL(gomock.Any(), gomock.Any()).Return("https://media.example.com/x.jpg").AnyTimes()

		res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 500, SortBy: "price; DROP TABLE bookings", SortDir: "ASC"}, gDto.FilterGroup{})

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.Equal(t, 11, res.TotalData)
		assert.Equal(t, 1, res.TotalPage)
		assert.Len(t, res.Excursions, 1)
	})

	t.Run("repository error", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).Times(2)
		f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))

		_, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

		time.Sleep(10 * time.Millisecond)

		assert.Error(t, err)
	})
}
