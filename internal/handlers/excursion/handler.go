package excursion

import (
	"excursions/infras/otel"
	"excursions/internal/domains/excursion/model"
	"excursions/internal/domains/excursion/service"
	"excursions/shared/constant"
	gDto "excursions/shared/dto"
	"excursions/shared/failure"
	"excursions/transport/http/response"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

const (
	queryParamLocation = "location"
	queryParamSearch   = "q"
)

type Handler struct {
	service service.Excursion
	otel    otel.Otel
}

func New(service service.Excursion, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/excursions", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetExcursions)
		routerGroup.Get("/{id}", handler.GetExcursionByID)
	})
}

// GetExcursions lists the bookable excursions.
// @Summary Get all excursions
// @Description Retrieve active excursions with resolved image URLs.
// @Tags Excursion
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param location query string false "Filter by location"
// @Param q query string false "Search by title"
// @Success 200 {object} response.Data[dto.GetExcursionsResponse]
// @Failure 500 {object} response.Error
// @Router /v1/excursions [get]
func (handler *Handler) GetExcursions(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetExcursions")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if location := r.URL.Query().Get(queryParamLocation); location != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldLocation,
			Operator: gDto.FilterOperatorEq,
			Value:    location,
			Table:    model.TableName,
		})
	}

	if search := r.URL.Query().Get(queryParamSearch); search != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldTitle,
			Operator: gDto.FilterOperatorLike,
			Value:    search,
			Table:    model.TableName,
		})
	}

	excursions, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get excursions")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, excursions)
}

// GetExcursionByID retrieves one active excursion.
// @Summary Get an excursion by ID
// @Tags Excursion
// @Produce json
// @Param id path integer true "Excursion ID"
// @Success 200 {object} response.Data[dto.ExcursionResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/excursions/{id} [get]
func (handler *Handler) GetExcursionByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetExcursionByID")
	defer scope.End()

	id, err := strconv.ParseInt(chi.URLParam(r, constant.RequestParamID), 10, 64)
	if err != nil {
		response.WithError(w, failure.NotFound("excursion not found"))

		return
	}

	excursion, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)

		if failure.GetCode(err) == http.StatusInternalServerError {
			log.Error().Err(err).Int64("id", id).Msg("failed to get excursion")
		}

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, excursion)
}
