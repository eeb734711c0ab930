// Package api exposes the portfolio service over HTTP with chi.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-chi/jwtauth"
	"github.com/go-chi/render"
	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

const (
	// DefaultRateLimit and DefaultRateWindow bound requests per client IP
	DefaultRateLimit  = 100
	DefaultRateWindow = 15 * time.Minute
)

// RequestObserver receives one call per served request
type RequestObserver interface {
	ObserveRequest(method, route string, status int, seconds float64)
}

// Config configures the HTTP surface
type Config struct {
	// JWTSecret enables HS256 bearer verification on write routes when set
	JWTSecret string

	// AllowedOrigins is the CORS allow-list; empty allows any origin
	AllowedOrigins []string

	// RateLimit requests per RateWindow per client IP; negative disables
	RateLimit  int
	RateWindow time.Duration

	// MaxBodyBytes caps request bodies; zero leaves them uncapped
	MaxBodyBytes int64

	// Files, when set, serves stored blobs under /files/* for deployments
	// whose public URLs point back at this server
	Files portfolio.BlobStore

	Observer RequestObserver
	Logger   *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.RateLimit == 0 {
		c.RateLimit = DefaultRateLimit
	}
	if c.RateWindow <= 0 {
		c.RateWindow = DefaultRateWindow
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Handler serves the portfolio API
type Handler struct {
	service portfolio.Service
	files   portfolio.BlobStore
	auth    *jwtauth.JWTAuth
	logger  *slog.Logger
}

// NewHandler creates a handler for svc
func NewHandler(svc portfolio.Service, cfg Config) *Handler {
	cfg = cfg.withDefaults()
	h := &Handler{service: svc, files: cfg.Files, logger: cfg.Logger}
	if cfg.JWTSecret != "" {
		h.auth = jwtauth.New("HS256", []byte(cfg.JWTSecret), nil)
	}
	return h
}

// NewRouter builds the complete router: middleware, /api routes and, when
// configured, /files
func NewRouter(svc portfolio.Service, cfg Config) chi.Router {
	cfg = cfg.withDefaults()
	h := NewHandler(svc, cfg)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(cfg.Logger, cfg.Observer))
	r.Use(middleware.Recoverer)
	r.Use(corsHandler(cfg.AllowedOrigins))
	if cfg.RateLimit > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimit, cfg.RateWindow))
	}
	if cfg.MaxBodyBytes > 0 {
		r.Use(middleware.RequestSize(cfg.MaxBodyBytes))
	}

	r.Mount("/api", h.Routes())
	if h.files != nil {
		r.Get("/files/*", h.ServeFile)
	}
	return r
}

// Routes returns the /api routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", h.Health)

	// Reads are public
	r.Get("/artwork", h.ListArtworks)
	r.Get("/artwork/{id}", h.GetArtwork)
	r.Get("/artwork/{id}/media-url", h.GetArtworkMediaURL)
	r.Get("/travel", h.ListTravels)
	r.Get("/travel/current", h.GetCurrentTravel)
	r.Get("/travel/{id}", h.GetTravel)

	r.Group(func(r chi.Router) {
		if h.auth != nil {
			r.Use(jwtauth.Verifier(h.auth))
			r.Use(jwtauth.Authenticator)
		}

		r.Post("/artwork", h.CreateArtwork)
		r.Post("/artwork/no-upload", h.CreateArtworkFromURL)
		r.Put("/artwork/{id}", h.UpdateArtwork)
		r.Delete("/artwork/{id}", h.DeleteArtwork)
		r.Delete("/artwork", h.DeleteAllArtworks)

		r.Post("/travel", h.CreateTravel)
		r.Put("/travel/{id}", h.UpdateTravel)
		r.Delete("/travel/{id}", h.DeleteTravel)
		r.Delete("/travel", h.DeleteAllTravels)

		r.Post("/photo/extract", h.ExtractPhotoMetadata)

		r.Post("/upload/single", h.UploadSingle)
		r.Post("/upload/multiple", h.UploadMultiple)
		r.Delete("/upload/{fileName}", h.DeleteMedia)
	})

	return r
}

// HealthResponse reports service and database state
type HealthResponse struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}

// Health pings the record store
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Database: "connected", Timestamp: time.Now().UTC()}
	if err := h.service.Ping(r.Context()); err != nil {
		resp.Status = "degraded"
		resp.Database = "disconnected"
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, resp)
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

// requestLogger logs each request with slog and reports it to obs
func requestLogger(logger *slog.Logger, obs RequestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}

			logger.Info("request",
				"method", r.Method,
				"route", route,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", elapsed,
				"request_id", middleware.GetReqID(r.Context()),
			)
			if obs != nil {
				obs.ObserveRequest(r.Method, route, status, elapsed.Seconds())
			}
		})
	}
}
