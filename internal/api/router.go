package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"skypop/internal/minimap"
	"skypop/internal/sim"
)

// EngineInterface defines the engine methods the API layer uses. It keeps
// handlers mockable without spinning up the tick loop.
type EngineInterface interface {
	// Snapshot returns the latest lock-free HUD snapshot.
	Snapshot() *sim.HudSnapshot
	// Phase returns the current session phase.
	Phase() sim.Phase
	// Activate enters Placing from Idle.
	Activate()
	// SelectAnchor queues a placement probe for a screen point.
	SelectAnchor(screenX, screenY float64)
	// Fire queues a shot.
	Fire()
	// EndSession queues an explicit session stop.
	EndSession()
	// ResetSession queues a reset into a fresh session.
	ResetSession()
	// GetEventLogStats returns event log counters.
	GetEventLogStats() map[string]interface{}
	// Config returns the engine configuration.
	Config() sim.Config
}

// RouterConfig contains the dependencies needed to build the HTTP router.
type RouterConfig struct {
	// Engine is the simulation engine (required).
	Engine EngineInterface

	// RateLimiter is an optional pre-configured limiter; built from
	// RateLimitConfig (or defaults) when nil.
	RateLimiter     *IPRateLimiter
	RateLimitConfig *RateLimitConfig

	// CORSOrigins overrides the default allowed origins.
	CORSOrigins []string

	// Minimap is the optional debug renderer; a default one is created
	// when nil.
	Minimap *minimap.Renderer

	// DisableLogging drops the request logger middleware (benchmarks).
	DisableLogging bool
}

type routerHandlers struct {
	engine  EngineInterface
	minimap *minimap.Renderer
}

// metricsMiddleware records latency and status per route pattern, keeping
// metric cardinality bounded by the route table.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		pattern := chi.RouteContext(r.Context()).RoutePattern()
		if pattern == "" {
			pattern = "unmatched"
		}
		RecordRequest(r.Method, pattern, ww.Status(), time.Since(start))
	})
}

// NewRouter constructs the HTTP router with all middleware and routes.
// The function is pure: no goroutines, no listeners, safe for httptest.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{
			"http://localhost:*",
			"http://127.0.0.1:*",
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	mm := cfg.Minimap
	if mm == nil {
		mm = minimap.NewRenderer(480, 480)
	}

	h := &routerHandlers{engine: cfg.Engine, minimap: mm}

	r.Route("/api/session", func(r chi.Router) {
		r.Get("/state", h.handleGetState)
		r.Get("/stats", h.handleGetStats)
		r.Get("/minimap.png", h.handleMinimap)

		r.Post("/activate", h.handleActivate)
		r.Post("/anchor", h.handleSelectAnchor)
		r.Post("/fire", h.handleFire)
		r.Post("/stop", h.handleStop)
		r.Post("/reset", h.handleReset)
	})

	return r
}
