package excursion_test

import (
	"encoding/json"
	"excursions/infras/otel/mocks"
	excursionMocks "excursions/internal/domains/excursion/mocks"
	"excursions/internal/domains/excursion/model/dto"
	"excursions/internal/domains/excursion/service"
	"excursions/internal/handlers/excursion"
	gDto "excursions/shared/dto"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setup(t *testing.T) (*excursionMocks.MockExcursionService, chi.Router) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	svc := excursionMocks.NewMockExcursionService(ctrl)
	handler := excursion.New(svc, mocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return svc, router
}

func get(router chi.Router, target string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))

	return recorder
}

func TestGetExcursions(t *testing.T) {
	svc, router := setup(t)

	svc.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetExcursionsResponse, error) {
			assert.Equal(t, 1, params.Page)
			assert.Equal(t, 10, params.Limit)

			where, args := filter.GetWhereClause()
			assert.Equal(t, "(excursions.location = :location AND LOWER(excursions.title) LIKE LOWER(:title) )", where)
			assert.Equal(t, map[string]any{"location": "Bayahibe", "title": "%saona%"}, args)

			return dto.GetExcursionsResponse{
				Excursions: []dto.ExcursionResponse{{ID: 1, Title: "Saona Island", Price: decimal.RequireFromString("85")}},
				TotalData:  1,
				TotalPage:  1,
			}, nil
		})

	recorder := get(router, "/excursions?location=Bayahibe&q=saona")

	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Success bool                      `json:"success"`
		Data    dto.GetExcursionsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Saona Island", body.Data.Excursions[0].Title)
}

func TestGetExcursionByID(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		setup    func(svc *excursionMocks.MockExcursionService)
		wantCode int
	}{
		{
			name:   "found",
			target: "/excursions/1",
			setup: func(svc *excursionMocks.MockExcursionService) {
				svc.EXPECT().Get(gomock.Any(), int64(1)).Return(dto.ExcursionResponse{ID: 1, Title: "Saona Island"}, nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name:   "not found",
			target: "/excursions/42",
			setup: func(svc *excursionMocks.MockExcursionService) {
				svc.EXPECT().Get(gomock.Any(), int64(42)).Return(dto.ExcursionResponse{}, service.ErrExcursionNotFound)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:     "non numeric id",
			target:   "/excursions/saona",
			setup:    func(_ *excursionMocks.MockExcursionService) {},
			wantCode: http.StatusNotFound,
		},
		{
			name:   "storage failure",
			target: "/excursions/7",
			setup: func(svc *excursionMocks.MockExcursionService) {
				svc.EXPECT().Get(gomock.Any(), int64(7)).Return(dto.ExcursionResponse{}, assert.AnError)
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, router := setup(t)
			tt.setup(svc)

			assert.Equal(t, tt.wantCode, get(router, tt.target).Code)
		})
	}
}
