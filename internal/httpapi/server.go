package httpapi

import (
	"net/http"
	"time"

	"floodalert/internal/config"
)

func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           requestLogger(recoverer(handler)),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
