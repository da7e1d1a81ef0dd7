package preview

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// EventsPath is where pages subscribe for rebuild notifications.
const EventsPath = "/_events"

// NewRouter serves the files under dir, a liveness probe, and the event
// stream of broker.
func NewRouter(dir string, broker *Broker) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get(EventsPath, broker.ServeHTTP)
	r.Handle("/*", http.FileServer(http.Dir(dir)))

	return r
}
