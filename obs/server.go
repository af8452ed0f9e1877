package obs

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hypergram/lib/sl"
)

// Server exposes /healthz and /metrics on a side listener.
type Server struct {
	srv *http.Server
	log *slog.Logger
}

func NewServer(addr string, log *slog.Logger) *Server {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		MetricsHandler().ServeHTTP(w, req)
	})

	return &Server{
		srv: &http.Server{Addr: addr, Handler: r},
		log: log.With(sl.Module("obs")),
	}
}

func (s *Server) Start() {
	go func() {
		s.log.Info("metrics server listening", slog.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("metrics server stopped", sl.Err(err))
		}
	}()
}

func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
