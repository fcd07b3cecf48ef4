package bookingform

import (
	"bytes"
	"embed"
	"excursions/internal/domains/booking/model/dto"
	excursionDto "excursions/internal/domains/excursion/model/dto"
	"excursions/shared/constant"
	"excursions/shared/locale"
	"excursions/shared/timezone"
	"fmt"
	"html/template"
	"io"
)

// DefaultPlaceholderImage is shown when the excursion has no image.
const DefaultPlaceholderImage = "/images/placeholder-excursion.jpg"

//go:embed templates/success.html
var files embed.FS

var successTemplate = template.Must(template.ParseFS(files, "templates/success.html"))

type successText struct {
	Heading   string
	EmailSent string
	NoEmail   string
	Date      string
	Time      string
	Guests    string
	Price     string
	Close     string
	Adult     [2]string
	Child     [2]string
}

var successTexts = map[string]successText{
	constant.LocaleEnglish: {
		Heading:   "Booking confirmed!",
		EmailSent: "A confirmation email has been sent to %s.",
		NoEmail:   "Your booking is confirmed. We could not send a confirmation email, so please keep this page for your records.",
		Date:      "Date",
		Time:      "Time",
		Guests:    "Guests",
		Price:     "Price per person",
		Close:     "Close",
		Adult:     [2]string{"adult", "adults"},
		Child:     [2]string{"child", "children"},
	},
	constant.LocaleSpanish: {
		Heading:   "¡Reserva confirmada!",
		EmailSent: "Hemos enviado un correo de confirmación a %s.",
		NoEmail:   "Tu reserva está confirmada. No pudimos enviar el correo de confirmación, guarda esta página como comprobante.",
		Date:      "Fecha",
		Time:      "Hora",
		Guests:    "Personas",
		Price:     "Precio por persona",
		Close:     "Cerrar",
		Adult:     [2]string{"adulto", "adultos"},
		Child:     [2]string{"niño", "niños"},
	},
}

// SuccessView is everything the confirmation panel shows, already formatted.
type SuccessView struct {
	Locale         string
	ExcursionTitle string
	Location       string
	Duration       string
	ImageURL       string
	Price          string
	ArrivalDate    string
	ArrivalTime    string
	Guests         string
	Heading        string
	Notice         string
	EmailSent      bool

	Labels successText
}

type ViewOption func(*SuccessView)

func WithPlaceholder(url string) ViewOption {
	return func(v *SuccessView) {
		if v.ImageURL == "" {
			v.ImageURL = url
		}
	}
}

// NewSuccessView builds the confirmation from what was booked. It has no side effects.
func NewSuccessView(excursion excursionDto.ExcursionResponse, payload dto.CreateBookingRequest, emailSent bool, loc string, opts ...ViewOption) SuccessView {
	loc = locale.Normalize(loc)
	labels := successTexts[loc]

	view := SuccessView{
		Locale:         loc,
		ExcursionTitle: excursion.Title,
		Location:       excursion.Location,
		Duration:       excursion.Duration,
		ImageURL:       excursion.Image,
		Price:          locale.FormatPrice(excursion.Price, loc),
		ArrivalDate:    payload.ArrivalDate,
		ArrivalTime:    payload.ArrivalTime,
		Guests:         guests(payload.Adults, payload.Children, labels),
		Heading:        labels.Heading,
		EmailSent:      emailSent,
		Labels:         labels,
	}

	if date, err := timezone.ParseDate(payload.ArrivalDate); err == nil {
		view.ArrivalDate = locale.FormatLongDate(date, loc)
	}

	if clock, err := locale.FormatTime(payload.ArrivalTime, loc); err == nil {
		view.ArrivalTime = clock
	}

	if emailSent {
		view.Notice = fmt.Sprintf(labels.EmailSent, payload.Email)
	} else {
		view.Notice = labels.NoEmail
	}

	for _, opt := range append(opts, WithPlaceholder(DefaultPlaceholderImage)) {
		opt(&view)
	}

	return view
}

func guests(adults, children int, labels successText) string {
	plural := func(n int, words [2]string) string {
		if n == 1 {
			return fmt.Sprintf("%d %s", n, words[0])
		}

		return fmt.Sprintf("%d %s", n, words[1])
	}

	if children == 0 {
		return plural(adults, labels.Adult)
	}

	return plural(adults, labels.Adult) + ", " + plural(children, labels.Child)
}

// Render writes the confirmation panel as an HTML fragment.
func (v SuccessView) Render(w io.Writer) error {
	var buf bytes.Buffer

	if err := successTemplate.Execute(&buf, v); err != nil {
		return fmt.Errorf("failed to render success view: %w", err)
	}

	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write success view: %w", err)
	}

	return nil
}

// SuccessView builds the confirmation for the submission that just succeeded.
func (f *Form) SuccessView(excursion excursionDto.ExcursionResponse) (SuccessView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepSuccess {
		return SuccessView{}, ErrInvalidTransition
	}

	return NewSuccessView(excursion, f.payload(), f.result.EmailSent, f.locale, WithPlaceholder(f.placeholder)), nil
}
