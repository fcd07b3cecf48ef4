package handler

import (
	"excursions/config"
	"excursions/di"
	"excursions/shared/logger"
	transport "excursions/transport/http"
	"net/http"
	"sync"
)

var (
	server *transport.HTTP
	once   sync.Once
)

// Handler is the serverless entry point. The dependency graph is built once per instance.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()

		logger.SetLogLevel(cfg)
		logger.UseJSONOutput(cfg)

		server = di.InitializeService()
	})

	server.ServeHTTP(w, r)
}
