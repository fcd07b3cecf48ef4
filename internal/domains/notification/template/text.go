package template

type text struct {
	Subject   string
	Heading   string
	Greeting  string
	Intro     string
	Details   string
	Excursion string
	Location  string
	Duration  string
	Date      string
	Time      string
	Adults    string
	Children  string
	Price     string
	Reference string
	Message   string
	Customer  string
	Email     string
	Phone     string
	Language  string
	Closing   string
	Signature string
}

var customerEN = text{
	Subject:   "Your booking is confirmed: %s",
	Heading:   "Thank you for your booking!",
	Greeting:  "Hi %s,",
	Intro:     "We have received your booking request. Our team will contact you shortly to confirm the pickup details.",
	Details:   "Booking details",
	Excursion: "Excursion",
	Location:  "Location",
	Duration:  "Duration",
	Date:      "Date",
	Time:      "Time",
	Adults:    "Adults",
	Children:  "Children",
	Price:     "Price per person",
	Reference: "Booking reference",
	Message:   "Your message",
	Closing:   "If you have any questions, just reply to this email.",
	Signature: "See you soon!",
}

var customerES = text{
	Subject:   "Tu reserva está confirmada: %s",
	Heading:   "¡Gracias por tu reserva!",
	Greeting:  "Hola %s,",
	Intro:     "Hemos recibido tu solicitud de reserva. Nuestro equipo se pondrá en contacto contigo pronto para confirmar los detalles de recogida.",
	Details:   "Detalles de la reserva",
	Excursion: "Excursión",
	Location:  "Ubicación",
	Duration:  "Duración",
	Date:      "Fecha",
	Time:      "Hora",
	Adults:    "Adultos",
	Children:  "Niños",
	Price:     "Precio por persona",
	Reference: "Referencia de la reserva",
	Message:   "Tu mensaje",
	Closing:   "Si tienes alguna pregunta, responde a este correo.",
	Signature: "¡Hasta pronto!",
}

var businessEN = text{
	Subject:   "New booking: %s on %s",
	Heading:   "New booking received",
	Intro:     "A customer has just submitted a booking. Reply to this email to contact them.",
	Excursion: "Excursion",
	Date:      "Date",
	Time:      "Time",
	Adults:    "Adults",
	Children:  "Children",
	Price:     "Price per person",
	Reference: "Booking reference",
	Message:   "Customer message",
	Customer:  "Customer",
	Email:     "Email",
	Phone:     "Phone",
	Language:  "Language",
}

var businessES = text{
	Subject:   "Nueva reserva: %s el %s",
	Heading:   "Nueva reserva recibida",
	Intro:     "Un cliente acaba de enviar una reserva. Responde a este correo para contactarlo.",
	Excursion: "Excursión",
	Date:      "Fecha",
	Time:      "Hora",
	Adults:    "Adultos",
	Children:  "Niños",
	Price:     "Precio por persona",
	Reference: "Referencia de la reserva",
	Message:   "Mensaje del cliente",
	Customer:  "Cliente",
	Email:     "Correo",
	Phone:     "Teléfono",
	Language:  "Idioma",
}
