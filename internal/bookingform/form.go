// Package bookingform drives the two-step booking wizard: contact details first, trip
// details second, then submission and the success view. It holds no transport of its
// own; a Submitter delivers the finished draft.
package bookingform

import (
	"context"
	"errors"
	"excursions/internal/domains/booking/model/dto"
	"excursions/shared/constant"
	"excursions/shared/failure"
	"excursions/shared/locale"
	"excursions/shared/timezone"
	"excursions/shared/validator"
	"fmt"
	"maps"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Step int

const (
	StepContact Step = iota
	StepTrip
	StepSubmitting
	StepSuccess
)

func (s Step) String() string {
	switch s {
	case StepContact:
		return "contact"
	case StepTrip:
		return "trip"
	case StepSubmitting:
		return "submitting"
	case StepSuccess:
		return "success"
	default:
		return "unknown"
	}
}

const DefaultCloseDelay = 3 * time.Second

const (
	FieldFullName    = "fullName"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldAdults      = "adults"
	FieldChildren    = "children"
	FieldArrivalDate = "arrivalDate"
	FieldArrivalTime = "arrivalTime"
	FieldMessage     = "message"
)

var (
	ErrInvalidTransition = errors.New("bookingform: action is not allowed in the current step")
	ErrSubmitInProgress  = errors.New("bookingform: a submission is already in progress")
	ErrUnknownField      = errors.New("bookingform: unknown field")
	ErrInvalidValue      = errors.New("bookingform: invalid field value")
	ErrStepInvalid       = errors.New("bookingform: trip details are invalid")
)

var submitErrors = map[string]string{
	constant.LocaleEnglish: "We could not submit your booking. Please check your connection and try again.",
	constant.LocaleSpanish: "No pudimos enviar tu reserva. Revisa tu conexión e inténtalo de nuevo.",
}

// Result is what a successful submission hands back.
type Result struct {
	Booking   dto.BookingResponse
	EmailSent bool
}

type Submitter interface {
	Submit(ctx context.Context, payload dto.CreateBookingRequest, idempotencyKey string) (Result, error)
}

type Option func(*Form)

// WithCloseDelay sets how long the success view stays before the completion callback runs.
func WithCloseDelay(delay time.Duration) Option {
	return func(f *Form) {
		f.closeDelay = delay
	}
}

// WithOnComplete sets the callback the host uses to close the workflow after a success.
func WithOnComplete(fn func()) Option {
	return func(f *Form) {
		f.onComplete = fn
	}
}

func WithPlaceholderImage(url string) Option {
	return func(f *Form) {
		f.placeholder = url
	}
}

// Form is safe for concurrent use. The submitter is called without holding the lock so
// the host can keep reading state while a request is in flight.
type Form struct {
	mu sync.Mutex

	submitter   Submitter
	excursionID int64
	locale      string
	closeDelay  time.Duration
	onComplete  func()
	placeholder string

	step           Step
	contact        dto.ContactDetails
	trip           dto.TripDetails
	errors         map[string]string
	submitError    string
	idempotencyKey string
	result         Result
	timer          *time.Timer
}

func New(submitter Submitter, excursionID int64, loc string, opts ...Option) *Form {
	form := &Form{
		submitter:   submitter,
		excursionID: excursionID,
		locale:      locale.Normalize(loc),
		closeDelay:  DefaultCloseDelay,
		placeholder: DefaultPlaceholderImage,
	}

	for _, opt := range opts {
		opt(form)
	}

	form.reset()

	return form
}

func (f *Form) reset() {
	f.step = StepContact
	f.contact = dto.ContactDetails{}
	f.trip = dto.TripDetails{Adults: 1}
	f.errors = map[string]string{}
	f.submitError = ""
	f.idempotencyKey = ""
	f.result = Result{}
}

// UpdateField merges raw widget input into the draft and clears the field's error.
// Numbers must parse as integers and past arrival dates are not selectable; in both
// cases the draft keeps its previous value and the field gets an error.
func (f *Form) UpdateField(field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepContact && f.step != StepTrip {
		return ErrInvalidTransition
	}

	delete(f.errors, field)

	switch field {
	case FieldFullName:
		f.contact.FullName = value
	case FieldEmail:
		f.contact.Email = strings.TrimSpace(value)
	case FieldPhone:
		f.contact.Phone = strings.TrimSpace(value)
	case FieldAdults, FieldChildren:
		number, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return f.reject(field, "Please enter a whole number")
		}

		if field == FieldAdults {
			f.trip.Adults = number
		} else {
			f.trip.Children = number
		}
	case FieldArrivalDate:
		if !IsSelectableDate(value) {
			return f.reject(field, "Arrival date cannot be in the past")
		}

		f.trip.ArrivalDate = value
	case FieldArrivalTime:
		canonical, err := canonicalTime(value, f.locale)
		if err != nil {
			return f.reject(field, "Please choose an arrival time from the list")
		}

		f.trip.ArrivalTime = canonical
	case FieldMessage:
		f.trip.Message = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	f.idempotencyKey = ""

	return nil
}

func (f *Form) reject(field, message string) error {
	f.errors[field] = message

	return fmt.Errorf("%w: %s", ErrInvalidValue, field)
}

// canonicalTime accepts the stored "HH:MM" form or what the time picker displays.
func canonicalTime(value, loc string) (string, error) {
	value = strings.TrimSpace(value)

	if parsed, err := time.Parse(constant.ClockTime24, value); err == nil {
		return parsed.Format(constant.ClockTime24), nil
	}

	return locale.ParseDisplayTime(value, loc) //nolint:wrapcheck
}

// IsSelectableDate reports whether the date picker offers value: a valid "YYYY-MM-DD"
// that is today or later in the application timezone.
func IsSelectableDate(value string) bool {
	date, err := timezone.ParseDate(value)
	if err != nil {
		return false
	}

	return !date.Before(timezone.Today())
}

// ValidateStep1 checks the contact details and moves on to the trip details when they pass.
func (f *Form) ValidateStep1() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepContact && f.step != StepTrip {
		return false
	}

	if !f.validate(validator.ValidateStruct(&f.contact), FieldFullName, FieldEmail, FieldPhone) {
		return false
	}

	f.step = StepTrip

	return true
}

// ValidateStep2 checks the trip details. It never changes the step.
func (f *Form) ValidateStep2() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.validateTrip()
}

func (f *Form) validateTrip() bool {
	return f.validate(validator.ValidateStruct(&f.trip), FieldAdults, FieldChildren, FieldArrivalDate, FieldArrivalTime, FieldMessage)
}

func (f *Form) validate(err error, fields ...string) bool {
	for _, field := range fields {
		delete(f.errors, field)
	}

	if err == nil {
		return true
	}

	maps.Copy(f.errors, validator.Details(err))

	return false
}

// GoBack returns to the contact step. Nothing entered so far is lost.
func (f *Form) GoBack() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepTrip {
		return ErrInvalidTransition
	}

	f.step = StepContact

	return nil
}

// Submit sends the draft. A failure puts the form back on the trip step with a
// submission message and keeps the idempotency key, so retrying the same draft can
// never create a second booking.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()

	switch f.step {
	case StepSubmitting:
		f.mu.Unlock()

		return ErrSubmitInProgress
	case StepTrip:
	default:
		f.mu.Unlock()

		return ErrInvalidTransition
	}

	if !f.validateTrip() {
		f.mu.Unlock()

		return ErrStepInvalid
	}

	if f.idempotencyKey == "" {
		f.idempotencyKey = uuid.NewString()
	}

	f.step = StepSubmitting
	f.submitError = ""
	payload := f.payload()
	key := f.idempotencyKey

	f.mu.Unlock()

	result, err := f.submitter.Submit(ctx, payload, key)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		log.Warn().Err(err).Msg("booking submission failed")

		f.step = StepTrip
		f.submitError = f.submitMessage(err)

		return err
	}

	f.step = StepSuccess
	f.result = result

	if f.onComplete != nil {
		f.timer = time.AfterFunc(f.closeDelay, f.onComplete)
	}

	return nil
}

func (f *Form) payload() dto.CreateBookingRequest {
	trip := f.trip
	trip.Message = strings.TrimSpace(trip.Message)

	return dto.CreateBookingRequest{
		ContactDetails: dto.ContactDetails{
			FullName: strings.TrimSpace(f.contact.FullName),
			Email:    f.contact.Email,
			Phone:    f.contact.Phone,
		},
		TripDetails: trip,
		Excursion:   dto.ExcursionRef(f.excursionID),
		Locale:      f.locale,
	}
}

func (f *Form) submitMessage(err error) string {
	var fail *failure.Failure
	if errors.As(err, &fail) && fail.Type != failure.TypeInternal && fail.Message != "" {
		return fail.Message
	}

	return submitErrors[f.locale]
}

// Close dismisses the success view, cancels the pending completion callback and starts
// over for the next booking.
func (f *Form) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step == StepSubmitting {
		return ErrSubmitInProgress
	}

	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}

	f.reset()

	return nil
}

func (f *Form) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.step
}

// Errors returns a copy of the field errors keyed by json field name.
func (f *Form) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return maps.Clone(f.errors)
}

func (f *Form) SubmitError() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.submitError
}

// Draft returns the payload as it would be submitted now.
func (f *Form) Draft() dto.CreateBookingRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.payload()
}

func (f *Form) EmailSent() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.result.EmailSent
}

func (f *Form) Booking() dto.BookingResponse {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.result.Booking
}

func (f *Form) Locale() string {
	return f.locale
}

func (f *Form) Placeholder() string {
	return f.placeholder
}
