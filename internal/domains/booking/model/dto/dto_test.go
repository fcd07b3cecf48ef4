package dto_test

import (
	"encoding/json"
	"excursions/internal/domains/booking/model"
	"excursions/internal/domains/booking/model/dto"
	"excursions/shared/constant"
	"excursions/shared/failure"
	"excursions/shared/timezone"
	"excursions/shared/validator"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		ContactDetails: dto.ContactDetails{FullName: "Jane Doe", Email: "jane@example.com", Phone: "8095551234"},
		TripDetails: dto.TripDetails{
			Adults:      2,
			Children:    1,
			ArrivalDate: "2030-01-15",
			ArrivalTime: "09:00",
		},
		Excursion: 1,
	}
}

func TestCreateBookingRequest_Validation(t *testing.T) {
	today := timezone.Format(timezone.Today(), constant.DateOnly)
	yesterday := timezone.Format(timezone.Today().AddDate(0, 0, -1), constant.DateOnly)

	tests := []struct {
		name    string
		mutate  func(r *dto.CreateBookingRequest)
		field   string
		message string
	}{
		{name: "valid", mutate: func(_ *dto.CreateBookingRequest) {}},
		{name: "today is allowed", mutate: func(r *dto.CreateBookingRequest) { r.ArrivalDate = today }},
		{name: "short email is allowed", mutate: func(r *dto.CreateBookingRequest) { r.Email = "a@b.co" }},
		{
			name:    "no adults",
			mutate:  func(r *dto.CreateBookingRequest) { r.Adults = 0 },
			field:   "adults",
			message: "At least 1 adult is required",
		},
		{
			name:    "yesterday",
			mutate:  func(r *dto.CreateBookingRequest) { r.ArrivalDate = yesterday },
			field:   "arrivalDate",
			message: "Arrival date cannot be in the past",
		},
		{
			name:    "bad email",
			mutate:  func(r *dto.CreateBookingRequest) { r.Email = "not-an-email" },
			field:   "email",
			message: "Please enter a valid email address",
		},
		{
			name:    "missing email",
			mutate:  func(r *dto.CreateBookingRequest) { r.Email = "" },
			field:   "email",
			message: "Email is required",
		},
		{
			name:    "blank name",
			mutate:  func(r *dto.CreateBookingRequest) { r.FullName = "   " },
			field:   "fullName",
			message: "Full name is required",
		},
		{
			name:    "short phone",
			mutate:  func(r *dto.CreateBookingRequest) { r.Phone = "809555" },
			field:   "phone",
			message: "Phone number must be at least 10 characters",
		},
		{
			name:    "short phone padded with spaces",
			mutate:  func(r *dto.CreateBookingRequest) { r.Phone = "  1234567  " },
			field:   "phone",
			message: "Phone number must be at least 10 characters",
		},
		{name: "padded email is trimmed", mutate: func(r *dto.CreateBookingRequest) { r.Email = "  jane@example.com " }},
		{
			name:    "negative children",
			mutate:  func(r *dto.CreateBookingRequest) { r.Children = -1 },
			field:   "children",
			message: "Children cannot be negative",
		},
		{
			name:    "off slot time",
			mutate:  func(r *dto.CreateBookingRequest) { r.ArrivalTime = "09:15" },
			field:   "arrivalTime",
			message: "Please choose an arrival time between 6:00 AM and 6:30 PM",
		},
		{
			name:    "late time",
			mutate:  func(r *dto.CreateBookingRequest) { r.ArrivalTime = "19:00" },
			field:   "arrivalTime",
			message: "Please choose an arrival time between 6:00 AM and 6:30 PM",
		},
		{
			name:    "long message",
			mutate:  func(r *dto.CreateBookingRequest) { r.Message = strings.Repeat("a", 1001) },
			field:   "message",
			message: "Message must be at most 1000 characters",
		},
		{
			name:    "no excursion",
			mutate:  func(r *dto.CreateBookingRequest) { r.Excursion = 0 },
			field:   "excursion",
			message: "Please choose an excursion",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			err := validator.ValidateStruct(&req)

			if tt.field == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, failure.TypeValidation, failure.From(err).Type)
			assert.Equal(t, tt.message, validator.Details(err)[tt.field])
		})
	}
}

func TestCreateBookingRequest_NormalizedBeforeValidation(t *testing.T) {
	req := validRequest()
	req.FullName = "  Jane Doe "
	req.Phone = " 8095551234  "
	req.Message = "\n  Pick us up at the lobby  \n"

	require.NoError(t, validator.ValidateStruct(&req))

	booking, err := req.ToModel("", constant.LocaleEnglish)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", booking.FullName)
	assert.Equal(t, "8095551234", booking.Phone)
	assert.GreaterOrEqual(t, len(booking.Phone), 10)
	assert.Equal(t, "Pick us up at the lobby", booking.Message)
}

func TestCreateBookingRequest_Matches(t *testing.T) {
	booking, err := validRequest().ToModel("form-42", constant.LocaleEnglish)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(r *dto.CreateBookingRequest)
		want   bool
	}{
		{name: "same request", mutate: func(_ *dto.CreateBookingRequest) {}, want: true},
		{name: "email case differs", mutate: func(r *dto.CreateBookingRequest) { r.Email = "Jane@Example.com" }, want: true},
		{name: "other excursion", mutate: func(r *dto.CreateBookingRequest) { r.Excursion = 2 }},
		{name: "other date", mutate: func(r *dto.CreateBookingRequest) { r.ArrivalDate = "2030-02-20" }},
		{name: "other guests", mutate: func(r *dto.CreateBookingRequest) { r.Children = 3 }},
		{name: "other customer", mutate: func(r *dto.CreateBookingRequest) { r.Email = "john@example.com" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			assert.Equal(t, tt.want, req.Matches(booking))
		})
	}
}

func TestStepSchemasValidateIndependently(t *testing.T) {
	contact := dto.ContactDetails{FullName: "Jane Doe", Email: "jane@example.com", Phone: "8095551234"}
	trip := dto.TripDetails{Adults: 0, ArrivalDate: "2030-01-15", ArrivalTime: "09:00"}

	assert.NoError(t, validator.ValidateStruct(&contact))

	err := validator.ValidateStruct(&trip)
	require.Error(t, err)
	assert.Equal(t, map[string]string{"adults": "At least 1 adult is required"}, validator.Details(err))
}

func TestExcursionRef_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    dto.ExcursionRef
		wantErr bool
	}{
		{name: "number", input: `1`, want: 1},
		{name: "numeric string", input: `" 42 "`, want: 42},
		{name: "null", input: `null`, want: 0},
		{name: "zero", input: `0`, wantErr: true},
		{name: "negative", input: `-3`, wantErr: true},
		{name: "fraction", input: `1.5`, wantErr: true},
		{name: "word", input: `"abc"`, wantErr: true},
		{name: "bool", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ref dto.ExcursionRef

			err := json.Unmarshal([]byte(tt.input), &ref)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, validator.Details(err), "excursion")

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, ref)
		})
	}
}

func TestCreateBookingRequest_Decode(t *testing.T) {
	body := `{"fullName":"Jane Doe","email":"jane@example.com","phone":"8095551234","adults":2,"children":1,"arrivalDate":"2030-01-15","arrivalTime":"09:00","excursion":"1"}`

	var req dto.CreateBookingRequest

	err := validator.Validate(strings.NewReader(body), &req)

	require.NoError(t, err)
	assert.Equal(t, dto.ExcursionRef(1), req.Excursion)
	assert.Equal(t, "Jane Doe", req.FullName)
	assert.Equal(t, 2, req.Adults)
}

func TestCreateBookingRequest_Shape(t *testing.T) {
	req := validRequest()

	assert.Equal(t,
		[]string{"fullName", "email", "phone", "adults", "children", "arrivalDate", "arrivalTime", "excursion"},
		req.Shape(),
	)
}

func TestCreateBookingRequest_ToModel(t *testing.T) {
	req := validRequest()
	req.FullName = "  Jane Doe "

	booking, err := req.ToModel("key-1", constant.LocaleSpanish)

	require.NoError(t, err)
	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, "Jane Doe", booking.FullName)
	assert.Equal(t, int64(1), booking.ExcursionID)
	assert.Equal(t, model.StatusPending, booking.Status)
	assert.Equal(t, "2030-01-15", booking.ArrivalDate.Format(constant.DateOnly))
	assert.True(t, booking.IdempotencyKey.Valid)
	assert.Equal(t, "key-1", booking.IdempotencyKey.String)
	assert.Equal(t, constant.ActorCustomer, booking.CreatedBy)
	assert.NoError(t, booking.Validate())

	noKey, err := req.ToModel("", constant.LocaleEnglish)
	require.NoError(t, err)
	assert.False(t, noKey.IdempotencyKey.Valid)
}

func TestBookingResponse_FromModel(t *testing.T) {
	req := validRequest()
	booking, err := req.ToModel("", constant.LocaleEnglish)
	require.NoError(t, err)

	var res dto.BookingResponse
	res.FromModel(booking)

	assert.Equal(t, booking.ID, res.ID)
	assert.Equal(t, int64(1), res.Excursion)
	assert.Equal(t, "2030-01-15", res.ArrivalDate)
	assert.Equal(t, "09:00", res.ArrivalTime)
	assert.Equal(t, model.StatusPending, res.Status)
}
