package middleware

import (
	"excursions/config"
	"excursions/infras/otel"
	"excursions/shared/cache"
	"excursions/shared/constant"
	"excursions/shared/locale"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

const (
	otelHTTPScopeName = "http"
)

type AppMiddleware interface {
	Tracing(next http.Handler) http.Handler
	RequestLogger(next http.Handler) http.Handler
	Locale(next http.Handler) http.Handler
	RateLimit() func(http.Handler) http.Handler
}

type appMiddleware struct {
	otel   otel.Otel
	config *config.Config
	cache  cache.RedisCache
}

func NewAppMiddleware(otel otel.Otel, config *config.Config, cache cache.RedisCache) AppMiddleware {
	return &appMiddleware{
		otel:   otel,
		config: config,
		cache:  cache,
	}
}

// Tracing opens one span per request and echoes its trace id as X-Request-ID.
func (a *appMiddleware) Tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := a.otel.NewScope(request.Context(), otelHTTPScopeName,
			fmt.Sprintf("%s %s", request.Method, request.URL.Path))
		defer scope.End()

		if traceID := scope.TraceID(); traceID != "" {
			writer.Header().Set(constant.RequestHeaderRequestID, traceID)
		}

		scope.SetAttributes(map[string]any{
			"app.name":        a.config.App.Name,
			"http.path":       request.URL.Path,
			"http.method":     request.Method,
			"http.user_agent": a.getUA(request),
			"http.host":       request.Host,
			"http.source":     a.getClientIP(request),
		})

		wrapped := chiMiddleware.NewWrapResponseWriter(writer, request.ProtoMajor)

		next.ServeHTTP(wrapped, request.WithContext(ctx))

		if routeContext := chi.RouteContext(ctx); routeContext != nil {
			scope.SetAttribute("http.route", routeContext.RoutePattern())
		}

		scope.SetAttribute("http.status_code", wrapped.Status())
	})
}

// RequestLogger writes one access log line per request. Bodies are never logged.
func (a *appMiddleware) RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		start := time.Now()
		wrapped := chiMiddleware.NewWrapResponseWriter(writer, request.ProtoMajor)

		next.ServeHTTP(wrapped, request)

		event := log.Info()
		if wrapped.Status() >= http.StatusInternalServerError {
			event = log.Error()
		}

		event.
			Str("method", request.Method).
			Str("path", request.URL.Path).
			Int("status", wrapped.Status()).
			Int("bytes", wrapped.BytesWritten()).
			Dur("latency", time.Since(start)).
			Str("request_id", writer.Header().Get(constant.RequestHeaderRequestID)).
			Msg("http request")
	})
}

// Locale stores the negotiated storefront language in the request context.
func (a *appMiddleware) Locale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		loc := locale.Negotiate(request.Header.Get(constant.RequestHeaderAcceptLanguage), a.config.App.DefaultLocale)

		next.ServeHTTP(writer, request.WithContext(locale.WithLocale(request.Context(), loc)))
	})
}
