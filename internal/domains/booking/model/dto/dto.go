package dto

import (
	"bytes"
	"database/sql"
	"excursions/internal/domains/booking/model"
	"excursions/shared"
	"excursions/shared/constant"
	gDto "excursions/shared/dto"
	"excursions/shared/failure"
	gModel "excursions/shared/model"
	"excursions/shared/timezone"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const messageExcursionRef = "Please choose an excursion"

// fieldMessages are the user facing messages shared by both form steps and the endpoint.
var fieldMessages = map[string]string{
	"fullName.notblank":    "Full name is required",
	"fullName.max":         "Full name must be at most 120 characters",
	"email.required":       "Email is required",
	"email.email":          "Please enter a valid email address",
	"email.max":            "Email must be at most 254 characters",
	"phone.required":       "Phone number is required",
	"phone.min":            "Phone number must be at least 10 characters",
	"phone.max":            "Phone number must be at most 30 characters",
	"adults.min":           "At least 1 adult is required",
	"adults.max":           "A booking can include at most 50 adults",
	"children.min":         "Children cannot be negative",
	"children.max":         "A booking can include at most 50 children",
	"arrivalDate.required": "Arrival date is required",
	"arrivalDate.datetime": "Arrival date must be a valid date",
	"arrivalDate.notpast":  "Arrival date cannot be in the past",
	"arrivalTime.required": "Arrival time is required",
	"arrivalTime.timeslot": "Please choose an arrival time between 6:00 AM and 6:30 PM",
	"message.max":          "Message must be at most 1000 characters",
	"excursion.gt":         messageExcursionRef,
	"locale.oneof":         "Locale must be en or es",
}

// ContactDetails is the first step of the booking form.
type ContactDetails struct {
	FullName string `json:"fullName" validate:"notblank,max=120"`
	Email    string `json:"email"    validate:"required,email,max=254"`
	Phone    string `json:"phone"    validate:"required,min=10,max=30"`
}

func (ContactDetails) FieldMessages() map[string]string { return fieldMessages }

// Normalize trims the contact fields so length rules apply to what gets stored.
func (c *ContactDetails) Normalize() {
	c.FullName = strings.TrimSpace(c.FullName)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
}

// TripDetails is the second step of the booking form.
type TripDetails struct {
	Adults      int    `json:"adults"            validate:"min=1,max=50"`
	Children    int    `json:"children"          validate:"min=0,max=50"`
	ArrivalDate string `json:"arrivalDate"       validate:"required,datetime=2006-01-02,notpast"`
	ArrivalTime string `json:"arrivalTime"       validate:"required,timeslot=06:00-18:30"`
	Message     string `json:"message,omitempty" validate:"max=1000"`
}

func (TripDetails) FieldMessages() map[string]string { return fieldMessages }

func (t *TripDetails) Normalize() {
	t.ArrivalDate = strings.TrimSpace(t.ArrivalDate)
	t.ArrivalTime = strings.TrimSpace(t.ArrivalTime)
	t.Message = strings.TrimSpace(t.Message)
}

// ExcursionRef is an excursion id that decodes from a JSON number or a numeric string.
type ExcursionRef int64

func (e *ExcursionRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*e = 0

		return nil
	}

	raw := string(data)
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return failure.Validation(messageExcursionRef, map[string]string{ //nolint:wrapcheck
			"excursion": "excursion must be a positive integer",
		})
	}

	*e = ExcursionRef(id)

	return nil
}

// CreateBookingRequest is the payload of POST /bookings.
type CreateBookingRequest struct {
	ContactDetails
	TripDetails
	Excursion ExcursionRef `json:"excursion"        validate:"gt=0"`
	Locale    string       `json:"locale,omitempty" validate:"omitempty,oneof=en es"`
}

func (CreateBookingRequest) FieldMessages() map[string]string { return fieldMessages }

func (c *CreateBookingRequest) Normalize() {
	c.ContactDetails.Normalize()
	c.TripDetails.Normalize()
	c.Locale = strings.TrimSpace(c.Locale)
}

// Shape lists the json names of the fields that carry a value. It is what gets logged
// when a submission fails, never the values themselves.
func (c CreateBookingRequest) Shape() []string {
	present := map[string]bool{
		"fullName":    c.FullName != "",
		"email":       c.Email != "",
		"phone":       c.Phone != "",
		"adults":      c.Adults != 0,
		"children":    c.Children != 0,
		"arrivalDate": c.ArrivalDate != "",
		"arrivalTime": c.ArrivalTime != "",
		"message":     c.Message != "",
		"excursion":   c.Excursion != 0,
		"locale":      c.Locale != "",
	}

	fields := make([]string, 0, len(present))
	for _, name := range []string{"fullName", "email", "phone", "adults", "children", "arrivalDate", "arrivalTime", "message", "excursion", "locale"} {
		if present[name] {
			fields = append(fields, name)
		}
	}

	return fields
}

// Matches reports whether booking was stored from this same request. A reused
// idempotency key with a different payload must not replay someone else's booking.
func (c CreateBookingRequest) Matches(booking model.Booking) bool {
	return int64(c.Excursion) == booking.ExcursionID &&
		strings.EqualFold(strings.TrimSpace(c.Email), booking.Email) &&
		strings.TrimSpace(c.FullName) == booking.FullName &&
		strings.TrimSpace(c.Phone) == booking.Phone &&
		c.Adults == booking.Adults &&
		c.Children == booking.Children &&
		strings.TrimSpace(c.ArrivalDate) == booking.ArrivalDate.Format(constant.DateOnly) &&
		c.ArrivalTime == booking.ArrivalTime &&
		strings.TrimSpace(c.Message) == booking.Message
}

func (c CreateBookingRequest) ToModel(idempotencyKey, locale string) (model.Booking, error) {
	arrivalDate, err := timezone.ParseDate(c.ArrivalDate)
	if err != nil {
		return model.Booking{}, fmt.Errorf("failed to parse arrival date: %w", err)
	}

	now := timezone.Now()

	return model.Booking{
		ID:             uuid.NewString(),
		ExcursionID:    int64(c.Excursion),
		FullName:       strings.TrimSpace(c.FullName),
		Email:          strings.TrimSpace(c.Email),
		Phone:          strings.TrimSpace(c.Phone),
		Adults:         c.Adults,
		Children:       c.Children,
		ArrivalDate:    arrivalDate,
		ArrivalTime:    c.ArrivalTime,
		Message:        strings.TrimSpace(c.Message),
		Status:         model.StatusPending,
		Locale:         locale,
		IdempotencyKey: sql.NullString{String: idempotencyKey, Valid: idempotencyKey != ""},
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  constant.ActorCustomer,
			ModifiedBy: constant.ActorCustomer,
		},
	}, nil
}

type BookingResponse struct {
	ID          string `json:"id"`
	Excursion   int64  `json:"excursion"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Adults      int    `json:"adults"`
	Children    int    `json:"children"`
	ArrivalDate string `json:"arrivalDate"`
	ArrivalTime string `json:"arrivalTime"`
	Message     string `json:"message,omitempty"`
	Status      string `json:"status"`
	Locale      string `json:"locale"`
	gDto.Metadata
}

// FromModel renders the arrival date from its calendar fields only, since a DATE column
// scans as UTC midnight and a timezone conversion could move it to the previous day.
func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.Excursion = model.ExcursionID
	r.FullName = model.FullName
	r.Email = model.Email
	r.Phone = model.Phone
	r.Adults = model.Adults
	r.Children = model.Children
	r.ArrivalDate = model.ArrivalDate.Format(constant.DateOnly)
	r.ArrivalTime = model.ArrivalTime
	r.Message = model.Message
	r.Status = model.Status
	r.Locale = model.Locale
	r.Metadata.FromModel(model.Metadata)
}

// SubmitBookingResponse is written as is, without the data envelope.
type SubmitBookingResponse struct {
	Success   bool            `json:"success"`
	Booking   BookingResponse `json:"booking"`
	EmailSent bool            `json:"emailSent"`

	Replayed bool `json:"-"`
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"totalPage"`
	TotalData int               `json:"totalData"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type UpdateBookingStatusRequest struct {
	Status string `db:"status" json:"status" validate:"required,oneof=pending confirmed cancelled"`
}

// BookingStatusChangedEvent is published by the back office when a booking is
// confirmed or cancelled.
type BookingStatusChangedEvent struct {
	BookingID string `json:"bookingId" validate:"required,uuid"`
	Status    string `json:"status"    validate:"required,oneof=pending confirmed cancelled"`
	Actor     string `json:"actor"     validate:"omitempty,max=100"`
}

// BookingCreatedEvent carries no personal data.
type BookingCreatedEvent struct {
	BookingID   string `json:"bookingId"`
	ExcursionID int64  `json:"excursionId"`
	ArrivalDate string `json:"arrivalDate"`
	Adults      int    `json:"adults"`
	Children    int    `json:"children"`
	EmailSent   bool   `json:"emailSent"`
	CreatedAt   string `json:"createdAt"`
}

func (e *BookingCreatedEvent) FromModel(model model.Booking, emailSent bool) {
	e.BookingID = model.ID
	e.ExcursionID = model.ExcursionID
	e.ArrivalDate = model.ArrivalDate.Format(constant.DateOnly)
	e.Adults = model.Adults
	e.Children = model.Children
	e.EmailSent = emailSent
	e.CreatedAt = timezone.Format(model.CreatedAt, constant.DateFormat)
}
