package chi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/marcelsud/webhook-debugger/capture"
	"github.com/marcelsud/webhook-debugger/replay"
)

// EndpointCatalog lists the configured capture endpoints
type EndpointCatalog interface {
	List() []capture.Endpoint
	Get(id string) (capture.Endpoint, error)
}

// Options tunes the router. The zero value is usable.
type Options struct {
	Logger         *httplog.Logger
	RequestTimeout time.Duration
	// JWTSecret protects /api with HS256 bearer tokens; empty leaves it open
	JWTSecret string
	// Metrics is mounted at /metrics when set
	Metrics http.Handler
	Now     func() time.Time
}

/* Handlers wires the ingestion route, the dashboard API, health and metrics
 * /hook/{path} accepts every method and always answers 200
 */
func Handlers(ctx context.Context, captures capture.UseCase, replayer replay.UseCase, endpoints EndpointCatalog, opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = httplog.NewLogger("webhook-debugger", httplog.Options{
			JSON: true,
		})
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", health(opts.Now))
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	// The ingestion route is bounded by the server read timeout, not middleware.Timeout,
	// which would answer 504 instead of 200.
	r.HandleFunc("/hook/{path}", receiveHook(captures, logger.Logger))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(opts.RequestTimeout))
		if opts.JWTSecret != "" {
			r.Use(RequireBearer([]byte(opts.JWTSecret)))
		} else {
			logger.Logger.WarnContext(ctx, "dashboard API is unauthenticated, set DASHBOARD_JWT_SECRET to protect it")
		}

		r.Get("/endpoints", getEndpoints(endpoints))
		r.Get("/endpoints/{id}/webhooks", getWebhooks(captures, endpoints))
		r.Get("/webhooks/{id}", getWebhook(captures))
		r.Post("/webhooks/{id}/replay", postReplay(captures, replayer, logger.Logger))
	})

	return r
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func health(now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{
			Status:    "ok",
			Timestamp: now().UTC().Format(time.RFC3339),
		})
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
