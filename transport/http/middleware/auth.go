package middleware

import (
	"context"
	"crypto/subtle"
	"excursions/config"
	"excursions/infras/otel"
	"excursions/shared/constant"
	"excursions/shared/failure"
	"excursions/transport/http/response"
	"net/http"
)

type ActorKey string

// Auth guards the back-office routes.
type Auth interface {
	APIKey(http.Handler) http.Handler
}

type authImpl struct {
	otel otel.Otel
	cfg  *config.Config
}

func NewAuthMiddleware(otel otel.Otel, cfg *config.Config) Auth {
	return &authImpl{
		otel: otel,
		cfg:  cfg,
	}
}

// APIKey requires X-API-Key to match APP_API_KEY. With no key configured every request is refused.
func (m *authImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "api_key.middleware")

		scope.SetAttribute("middleware.type", "api_key")

		expected := m.cfg.App.APIKey
		apiKey := request.Header.Get(constant.RequestHeaderAPIKey)

		var err error

		switch {
		case expected == "":
			err = failure.Unauthorized("Back-office access is not configured")
		case apiKey == "":
			err = failure.Unauthorized("Missing API key")
		case subtle.ConstantTimeCompare([]byte(apiKey), []byte(expected)) != 1:
			err = failure.Unauthorized("Invalid API key")
		}

		if err != nil {
			scope.TraceError(err)
			scope.End()
			response.WithError(writer, err)

			return
		}

		ctx = context.WithValue(ctx, ActorKey("actor"), constant.ActorAdmin)

		scope.End()
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// Actor returns who is calling, as set by APIKey.
func Actor(ctx context.Context) string {
	if actor, ok := ctx.Value(ActorKey("actor")).(string); ok {
		return actor
	}

	return constant.ActorSystem
}
