package validator

import (
	"encoding/json"
	"errors"
	"excursions/shared/failure"
	"excursions/shared/timezone"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	val "github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

const (
	clockLayout     = "15:04"
	slotStepMinutes = 30
)

var validate *val.Validate

// FieldMessenger lets a request type override the generic message of a field/tag pair.
// Keys are "<jsonField>.<tag>", e.g. "adults.min".
type FieldMessenger interface {
	FieldMessages() map[string]string
}

// Normalizer lets a request type clean its own input (trimming, case folding) before it
// is validated, so the rules see the values that will be stored.
type Normalizer interface {
	Normalize()
}

func jsonTagName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")

	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	default:
		return name
	}
}

// registerNotPastValidation accepts a "YYYY-MM-DD" string or a time.Time that is not before
// today in the application timezone. Only the calendar date is compared.
func registerNotPastValidation(field val.FieldLevel) bool {
	var date time.Time

	switch value := field.Field().Interface().(type) {
	case time.Time:
		date = timezone.StartOfDay(value)
	case string:
		parsed, err := timezone.ParseDate(value)
		if err != nil {
			return false
		}

		date = parsed
	default:
		return false
	}

	return !date.Before(timezone.Today())
}

// registerTimeSlotValidation accepts a 24h "HH:MM" on a half-hour mark inside the
// inclusive range given as the tag param, e.g. timeslot=06:00-18:30.
func registerTimeSlotValidation(field val.FieldLevel) bool {
	value, ok := field.Field().Interface().(string)
	if !ok {
		return false
	}

	first, last, ok := strings.Cut(field.Param(), "-")
	if !ok {
		return false
	}

	slot, err := time.Parse(clockLayout, value)
	if err != nil || slot.Format(clockLayout) != value || slot.Minute()%slotStepMinutes != 0 {
		return false
	}

	from, errFrom := time.Parse(clockLayout, first)
	to, errTo := time.Parse(clockLayout, last)

	if errFrom != nil || errTo != nil {
		return false
	}

	return !slot.Before(from) && !slot.After(to)
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonTagName)

	err := validate.RegisterValidation("empty", func(fl val.FieldLevel) bool {
		return fl.Field().IsZero()
	})
	if err != nil {
		panic(err)
	}

	if err = validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}

	if err = validate.RegisterValidation("notpast", registerNotPastValidation); err != nil {
		panic(err)
	}

	if err = validate.RegisterValidation("timeslot", registerTimeSlotValidation); err != nil {
		panic(err)
	}
}

// Validate reads from the given io.Reader into the given struct, and then performs validation
// on the struct using the validator package. If the struct is invalid according to the
// validation rules, an error is returned. Otherwise, nil is returned.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)

	if err := decoder.Decode(data); err != nil {
		return decodeFailure(err)
	}

	return ValidateStruct(data)
}

// ValidateStruct returns a VALIDATION_ERROR failure carrying one message per invalid field.
func ValidateStruct[T any](data *T) error {
	if normalizer, ok := any(data).(Normalizer); ok {
		normalizer.Normalize()
	}

	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var overrides map[string]string
	if messenger, ok := any(data).(FieldMessenger); ok {
		overrides = messenger.FieldMessages()
	}

	summary, details := messages(err, overrides)

	return failure.Validation(summary, details) //nolint:wrapcheck
}

func ValidateVar(field any, tag string) error {
	err := validate.Var(field, tag)
	if err == nil {
		return nil
	}

	summary, _ := messages(err, nil)

	return failure.BadRequestFromString(summary) //nolint:wrapcheck
}

// Details returns the per-field messages of a validation failure, or nil.
func Details(err error) map[string]string {
	var fail *failure.Failure
	if errors.As(err, &fail) {
		return fail.Details
	}

	return nil
}

func decodeFailure(err error) error {
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.Is(err, io.EOF):
		return failure.BadRequestFromString("request body is required") //nolint:wrapcheck
	case errors.As(err, &typeErr) && typeErr.Field != "":
		msg := fmt.Sprintf("%s has an invalid type", typeErr.Field)

		return failure.Validation(msg, map[string]string{typeErr.Field: msg}) //nolint:wrapcheck
	default:
		var fail *failure.Failure
		if errors.As(err, &fail) {
			return fail
		}

		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}
}
