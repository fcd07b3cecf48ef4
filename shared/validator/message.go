package validator

import (
	"errors"
	"reflect"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var (
	tagMessages = map[string]string{
		"required": "{field} is required",
		"notblank": "{field} is required",
		"gt":       "{field} must be greater than {param}",
		"gte":      "{field} must be greater than or equal to {param}",
		"lte":      "{field} must be less than or equal to {param}",
		"oneof":    "{field} must be one of {param}",
		"max":      "{field} must be less than or equal to {param}",
		"min":      "{field} must be greater than or equal to {param}",
		"email":    "{field} must be a valid email address",
		"datetime": "{field} must be a date in the format YYYY-MM-DD",
		"notpast":  "{field} cannot be in the past",
		"timeslot": "{field} must be a half-hour time between {param}",
		"uuid":     "{field} must be a valid id",
	}

	lengthMessages = map[string]string{
		"max": "{field} must be at most {param} characters",
		"min": "{field} must be at least {param} characters",
	}
)

func isLength(kind reflect.Kind) bool {
	return kind == reflect.String || kind == reflect.Slice || kind == reflect.Map
}

func render(valErr val.FieldError) string {
	tmpl, ok := lengthMessages[valErr.Tag()]
	if !ok || !isLength(valErr.Kind()) {
		tmpl = tagMessages[valErr.Tag()]
	}

	if tmpl == "" {
		return valErr.Error()
	}

	tmpl = strings.ReplaceAll(tmpl, "{field}", valErr.Field())

	return strings.ReplaceAll(tmpl, "{param}", strings.ReplaceAll(valErr.Param(), "-", " and "))
}

// messages returns the first message and a field to message map. Only the first
// failing rule of each field is reported.
func messages(err error, overrides map[string]string) (string, map[string]string) {
	var valErrors val.ValidationErrors

	if !errors.As(err, &valErrors) {
		return err.Error(), nil
	}

	summary := ""
	details := make(map[string]string, len(valErrors))

	for _, valErr := range valErrors {
		field := valErr.Field()
		if _, seen := details[field]; seen {
			continue
		}

		msg, ok := overrides[field+"."+valErr.Tag()]
		if !ok {
			msg = render(valErr)
		}

		details[field] = msg

		if summary == "" {
			summary = msg
		}
	}

	return summary, details
}
