// Package template renders the booking confirmation emails.
//
// Bodies go through html/template, so every interpolated value is escaped for the
// context it lands in. Escape is only needed where text is turned into trusted markup
// by hand, as multiline does. Escaping is not idempotent: escaping "&lt;" again gives
// "&amp;lt;", so a value must be escaped exactly once.
package template

import (
	"bytes"
	"embed"
	"excursions/shared/constant"
	"excursions/shared/locale"
	"fmt"
	"html"
	"html/template"
	"strings"
)

const (
	customerTemplate = "customer.html"
	businessTemplate = "business.html"
)

//go:embed templates/*.html
var files embed.FS

var templates = template.Must(
	template.New("").Funcs(template.FuncMap{"multiline": multiline}).ParseFS(files, "templates/*.html"),
)

// Booking is the data both emails are rendered from. Date, time and price are
// expected to be formatted for Locale already.
type Booking struct {
	Locale         string
	BookingID      string
	FullName       string
	Email          string
	Phone          string
	Adults         int
	Children       int
	ArrivalDate    string
	ArrivalTime    string
	Message        string
	ExcursionID    int64
	ExcursionTitle string
	Location       string
	Duration       string
	Price          string
	ImageURL       string
	CustomerLocale string
}

type Email struct {
	Subject string
	HTML    string
}

type view struct {
	Booking
	Subject string
	Text    text
}

// Escape replaces &, <, >, " and ' with HTML entities.
func Escape(value string) string {
	return html.EscapeString(value)
}

func multiline(value string) template.HTML {
	lines := strings.Split(strings.ReplaceAll(value, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = Escape(line)
	}

	return template.HTML(strings.Join(lines, "<br>")) //nolint:gosec
}

// Customer renders the confirmation sent to the person who booked.
func Customer(data Booking) (Email, error) {
	txt := customerText(data.Locale)

	return render(customerTemplate, data, txt, fmt.Sprintf(txt.Subject, data.ExcursionTitle))
}

// Business renders the alert sent to the operator.
func Business(data Booking) (Email, error) {
	txt := businessText(data.Locale)

	return render(businessTemplate, data, txt, fmt.Sprintf(txt.Subject, data.ExcursionTitle, data.ArrivalDate))
}

func render(name string, data Booking, txt text, subject string) (Email, error) {
	var body bytes.Buffer

	err := templates.ExecuteTemplate(&body, name, view{Booking: data, Subject: subject, Text: txt})
	if err != nil {
		return Email{}, fmt.Errorf("failed to render %s: %w", name, err)
	}

	return Email{Subject: subject, HTML: body.String()}, nil
}

func customerText(loc string) text {
	if locale.Normalize(loc) == constant.LocaleSpanish {
		return customerES
	}

	return customerEN
}

func businessText(loc string) text {
	if locale.Normalize(loc) == constant.LocaleSpanish {
		return businessES
	}

	return businessEN
}
