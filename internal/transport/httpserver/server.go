package httpserver

import (
	"net/http"
	"time"

	"community-app-go/internal/config"
)

// New builds the HTTP server. WriteTimeout stays above the router's own
// request timeout so slow handlers are cut off with a response, not a
// dropped connection.
func New(cfg config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
