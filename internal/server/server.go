package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/caseopen-dev/kazino/internal/casebox"
	"github.com/caseopen-dev/kazino/internal/catalog"
	"github.com/caseopen-dev/kazino/internal/database"
	"github.com/caseopen-dev/kazino/internal/economy"
	"github.com/caseopen-dev/kazino/internal/feed"
	"github.com/caseopen-dev/kazino/internal/giveaway"
	"github.com/caseopen-dev/kazino/internal/handler"
	"github.com/caseopen-dev/kazino/internal/logger"
	"github.com/caseopen-dev/kazino/internal/metrics"
	"github.com/caseopen-dev/kazino/internal/upgrade"
	"github.com/caseopen-dev/kazino/internal/user"
)

// Services bundles everything the HTTP surface needs.
type Services struct {
	Catalog  *catalog.Catalog
	Feed     *feed.Feed
	User     user.Service
	Casebox  casebox.Service
	Upgrade  upgrade.Service
	Economy  economy.Service
	Giveaway giveaway.Service
}

type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance
func NewServer(port int, dbPool database.Pool, svcs Services) *Server {
	r := chi.NewRouter()

	// Middleware executes in the order defined, outermost first
	r.Use(SecurityHeadersMiddleware())
	r.Use(CORSMiddleware())
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", handler.HandleLogin(svcs.User))
		r.Get("/leaderboard", handler.HandleLeaderboard(svcs.User))
		r.Get("/feed", handler.HandleFeed(svcs.Feed))
		r.Get("/cases", handler.HandleListCases(svcs.Catalog))

		// Everything below requires a bearer token
		r.Group(func(r chi.Router) {
			r.Use(handler.AuthMiddleware(svcs.User))

			r.Get("/me", handler.HandleMe(svcs.User))
			r.Post("/cases/open", handler.HandleOpenCase(svcs.Casebox))

			r.Route("/upgrade", func(r chi.Router) {
				r.Post("/targets", handler.HandleUpgradeTargets(svcs.Upgrade))
				r.Post("/resolve", handler.HandleUpgradeResolve(svcs.Upgrade))
			})

			r.Post("/items/sell", handler.HandleSellItem(svcs.Economy))
			r.Post("/bonus/claim", handler.HandleClaimBonus(svcs.Economy))

			r.Route("/giveaways", func(r chi.Router) {
				r.Get("/", handler.HandleListGiveaways(svcs.Giveaway))
				r.Get("/notifications", handler.HandleGiveawayNotifications(svcs.Giveaway))
				r.Post("/{id}/join", handler.HandleJoinGiveaway(svcs.Giveaway))
			})
		})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Health checks and scrapes would drown out the useful lines
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)
		log.Info("Request started",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info("Server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
