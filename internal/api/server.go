package api

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"skypop/internal/sim"
)

// Server combines the HTTP router with the WebSocket hub. Background
// workers do not start until Start is called, so tests can construct a
// server and exercise Router() without goroutines running.
type Server struct {
	engine      EngineInterface
	router      *chi.Mux
	wsHub       *WebSocketHub
	rateLimiter *IPRateLimiter
	events      <-chan sim.Event
}

// NewServer creates an API server around the engine. events is the
// engine's subscribed event stream, forwarded to WebSocket clients.
func NewServer(engine EngineInterface, events <-chan sim.Event) *Server {
	s := &Server{
		engine: engine,
		wsHub:  NewWebSocketHub(),
		events: events,
	}

	s.rateLimiter = NewIPRateLimiter(DefaultRateLimitConfig)
	s.router = NewRouter(RouterConfig{
		Engine:      engine,
		RateLimiter: s.rateLimiter,
	})

	s.router.Get("/ws", s.handleWS)

	return s
}

// Start launches the hub workers and serves HTTP on addr. Blocks.
func (s *Server) Start(addr string) error {
	go s.wsHub.Run()
	s.wsHub.StartBroadcastLoops(s.engine, s.events)

	log.Printf("api: server on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// Router returns the handler for use with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Stop shuts down background workers.
func (s *Server) Stop() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	s.wsHub.HandleWebSocket(s.engine, w, r)
}
