package booking

import (
	"excursions/infras/otel"
	"excursions/internal/domains/booking/model"
	"excursions/internal/domains/booking/model/dto"
	"excursions/internal/domains/booking/service"
	"excursions/shared/constant"
	gDto "excursions/shared/dto"
	"excursions/shared/failure"
	"excursions/shared/validator"
	"excursions/transport/http/middleware"
	"excursions/transport/http/response"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

const (
	queryParamStatus      = "status"
	queryParamExcursion   = "excursion"
	queryParamArrivalDate = "arrival_date"
)

type Handler struct {
	service service.Booking
	auth    middleware.Auth
	otel    otel.Otel
}

func New(service service.Booking, auth middleware.Auth, otel otel.Otel) Handler {
	return Handler{
		service: service,
		auth:    auth,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)

		routerGroup.Group(func(admin chi.Router) {
			admin.Use(handler.auth.APIKey)

			admin.Get("/", handler.GetBookings)
			admin.Get("/{id}", handler.GetBookingByID)
			admin.Patch("/{id}/status", handler.UpdateBookingStatus)
		})
	})
}

// CreateBooking handles a booking form submission.
// @Summary Submit a booking
// @Description Validate and store a booking, then send the customer and business emails.
// @Description A repeated Idempotency-Key returns the stored booking with 200 and sends nothing.
// @Tags Booking
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Client generated key for safe retries"
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} dto.SubmitBookingResponse
// @Success 200 {object} dto.SubmitBookingResponse "Replayed booking"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [post]
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	request.Body = http.MaxBytesReader(writer, request.Body, constant.RequestMaxBodySize)

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("booking request rejected by validation")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Submit(ctx, req, request.Header.Get(constant.RequestHeaderIdempotencyKey))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to submit booking")

		response.WithError(writer, err)

		return
	}

	if res.Replayed {
		writer.Header().Set(constant.ResponseHeaderIdempotentReplay, "true")
		response.WithBody(writer, http.StatusOK, res)

		return
	}

	scope.AddEvent("Booking submitted, email sent: " + strconv.FormatBool(res.EmailSent))

	response.WithBody(writer, http.StatusCreated, res)
}

// GetBookings lists bookings for the back office.
// @Summary Get all bookings
// @Description Retrieve bookings with optional filtering and pagination.
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status (pending, confirmed, cancelled)"
// @Param excursion query integer false "Filter by excursion ID"
// @Param arrival_date query string false "Filter by arrival date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [get]
// @Security ApiKeyAuth
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup, err := bookingFilter(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	bookings, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetBookingByID retrieves a booking by its ID.
// @Summary Get a booking by ID
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [get]
// @Security ApiKeyAuth
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	booking, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// UpdateBookingStatus confirms or cancels a booking.
// @Summary Change a booking status
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.UpdateBookingStatusRequest true "New status"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/status [patch]
// @Security ApiKeyAuth
func (handler *Handler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBookingStatus")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateBookingStatusRequest{}
	if err := validator.Validate(http.MaxBytesReader(w, r.Body, constant.RequestMaxBodySize), &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err := handler.service.UpdateStatus(ctx, id, req, middleware.Actor(ctx)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking", id).Msg("failed to update booking status")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking " + id + " moved to " + req.Status)

	response.WithMessage(w, http.StatusOK, "Booking status updated successfully")
}

func bookingFilter(r *http.Request) (gDto.FilterGroup, error) {
	query := r.URL.Query()

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if status := query.Get(queryParamStatus); status != "" {
		if !model.IsValidStatus(status) {
			return filterGroup, failure.Validation("invalid status filter", map[string]string{queryParamStatus: "Unknown booking status"})
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	if excursion := query.Get(queryParamExcursion); excursion != "" {
		id, err := strconv.ParseInt(excursion, 10, 64)
		if err != nil || id <= 0 {
			return filterGroup, failure.Validation("invalid excursion filter", map[string]string{queryParamExcursion: "Excursion must be a positive number"})
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldExcursionID,
			Operator: gDto.FilterOperatorEq,
			Value:    id,
			Table:    model.TableName,
		})
	}

	if arrivalDate := query.Get(queryParamArrivalDate); arrivalDate != "" {
		if err := validator.ValidateVar(arrivalDate, "datetime=2006-01-02"); err != nil {
			return filterGroup, failure.Validation("invalid arrival date filter", map[string]string{queryParamArrivalDate: "Use the YYYY-MM-DD format"})
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldArrivalDate,
			Operator: gDto.FilterOperatorEq,
			Value:    arrivalDate,
			Table:    model.TableName,
		})
	}

	return filterGroup, nil
}
