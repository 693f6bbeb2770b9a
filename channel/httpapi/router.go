// Package httpapi exposes the persona chat pipeline over a JSON HTTP API.
// It is a thin transport: request decoding, defaulting and status mapping
// live here; all response synthesis happens in the root package.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	personachat "github.com/cultureweave/personachat"
	"github.com/cultureweave/personachat/persona"
)

// ChatService is the slice of the orchestrator the transport needs.
type ChatService interface {
	Chat(ctx context.Context, req personachat.ChatRequest) personachat.ChatResult
	GenerateStyledText(ctx context.Context, req personachat.GenerateRequest) personachat.GenerateResult
	Engine() personachat.Engine
}

// Server wires the chat service, catalog and optional history store into an
// HTTP handler.
type Server struct {
	svc     ChatService
	reg     *persona.Registry
	history personachat.HistoryStore // nil disables session history
	log     zerolog.Logger
}

// NewServer creates the HTTP API server. history may be nil.
func NewServer(svc ChatService, reg *persona.Registry, history personachat.HistoryStore, log zerolog.Logger) *Server {
	return &Server{
		svc:     svc,
		reg:     reg,
		history: history,
		log:     log.With().Str("component", "httpapi").Logger(),
	}
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)

	r.Get("/", s.handleRoot)
	r.Post("/chat", s.handleChat)
	r.Post("/generate", s.handleGenerate)
	r.Get("/personas", s.handlePersonas)
	r.Get("/cultures", s.handleCultures)
	r.Get("/combinations", s.handleCombinations)
	r.Get("/styles", s.handleStyles)
	r.Get("/test-persona/{persona}/{culture}", s.handleTestPersona)
	r.Get("/health", s.handleHealth)
	r.Get("/model-info", s.handleModelInfo)
	r.Post("/reload-model", s.handleReloadModel)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
