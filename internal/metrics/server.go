package metrics

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// NewRouter mounts the metrics handler and a liveness probe.
func NewRouter(m *Metrics) *chi.Mux {
	r := chi.NewRouter()
	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// NewServer builds the local metrics HTTP server listening on addr.
func NewServer(addr string, m *Metrics) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           NewRouter(m),
		ReadHeaderTimeout: 5 * time.Second,
	}
}
