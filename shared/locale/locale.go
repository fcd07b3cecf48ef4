// Package locale negotiates the storefront language and formats dates, times and prices
// the way customers read them in the booking form, the success view and the emails.
package locale

import (
	"context"
	"excursions/shared/constant"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	clock24      = "15:04"
	clock12      = "3:04 PM"
	longDateEN   = "Monday, January 2, 2006"
	priceDecimal = 2
)

var (
	supported = []language.Tag{language.English, language.Spanish}
	matcher   = language.NewMatcher(supported)

	weekdaysES = [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}
	monthsES   = [...]string{
		"enero", "febrero", "marzo", "abril", "mayo", "junio",
		"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
	}
)

// Negotiate picks "en" or "es" from an Accept-Language header, falling back when
// nothing matches.
func Negotiate(acceptLanguage, fallback string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Normalize(fallback)
	}

	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return Normalize(fallback)
	}

	return code(supported[index])
}

// Normalize maps any tag ("es-DO", "EN") to a supported locale code, defaulting to English.
func Normalize(tag string) string {
	parsed, err := language.Parse(strings.TrimSpace(tag))
	if err != nil {
		return constant.LocaleEnglish
	}

	_, index, confidence := matcher.Match(parsed)
	if confidence == language.No {
		return constant.LocaleEnglish
	}

	return code(supported[index])
}

func code(tag language.Tag) string {
	base, _ := tag.Base()

	return base.String()
}

func WithLocale(ctx context.Context, loc string) context.Context {
	return context.WithValue(ctx, constant.ContextKeyLocale, Normalize(loc))
}

func FromContext(ctx context.Context) string {
	if loc, ok := ctx.Value(constant.ContextKeyLocale).(string); ok && loc != "" {
		return loc
	}

	return constant.LocaleEnglish
}

// FormatLongDate renders weekday, month name, day and year.
func FormatLongDate(date time.Time, loc string) string {
	if Normalize(loc) == constant.LocaleSpanish {
		return fmt.Sprintf("%s, %d de %s de %d",
			weekdaysES[date.Weekday()], date.Day(), monthsES[date.Month()-1], date.Year())
	}

	return date.Format(longDateEN)
}

// FormatTime turns a stored 24h "HH:MM" into its display form: "2:30 PM" in English,
// "14:30" in Spanish.
func FormatTime(value, loc string) (string, error) {
	parsed, err := time.Parse(clock24, value)
	if err != nil {
		return "", fmt.Errorf("invalid time %q: %w", value, err)
	}

	if Normalize(loc) == constant.LocaleSpanish {
		return parsed.Format(clock24), nil
	}

	return parsed.Format(clock12), nil
}

// ParseDisplayTime is the inverse of FormatTime and returns the canonical "HH:MM".
func ParseDisplayTime(display, loc string) (string, error) {
	layout := clock12
	if Normalize(loc) == constant.LocaleSpanish {
		layout = clock24
	}

	parsed, err := time.Parse(layout, strings.ToUpper(strings.TrimSpace(display)))
	if err != nil {
		return "", fmt.Errorf("invalid display time %q: %w", display, err)
	}

	return parsed.Format(clock24), nil
}

// FormatPrice renders a USD amount with the locale's separators.
func FormatPrice(amount decimal.Decimal, loc string) string {
	tag := language.English
	if Normalize(loc) == constant.LocaleSpanish {
		tag = language.Spanish
	}

	value, _ := amount.Round(priceDecimal).Float64()

	return message.NewPrinter(tag).Sprintf("$%.2f", value)
}
