package router

import (
	"excursions/internal/handlers/booking"
	"excursions/internal/handlers/excursion"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Excursion excursion.Handler
	Booking   booking.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Excursion.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
