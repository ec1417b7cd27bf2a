// Package httpapi assembles the portal's HTTP surface.
package httpapi

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"veriportal/internal/http/shared"
	kychandler "veriportal/internal/kyc/handler"
	"veriportal/internal/platform/metrics"
	"veriportal/internal/platform/middleware"
	"veriportal/internal/platform/postgres"
	"veriportal/internal/platform/redis"
	profilehandler "veriportal/internal/profile/handler"
)

type Deps struct {
	Logger          *slog.Logger
	Metrics         *metrics.Metrics
	ClaimsValidator middleware.ClaimsValidator
	OperatorToken   string

	Profile *profilehandler.Handler
	KYC     *kychandler.Handler

	// Optional backends surfaced through /healthz. Nil means the portal
	// runs on in-memory fallbacks.
	DB    *sql.DB
	Redis *redis.Client
}

// NewRouter wires middleware, health and metrics endpoints, and the
// authenticated and operator route groups.
func NewRouter(deps Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Latency(deps.Metrics))

	r.Get("/healthz", healthHandler(deps))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(deps.ClaimsValidator, deps.Logger))
		deps.Profile.Register(r)
		deps.KYC.Register(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireOperatorToken(deps.OperatorToken, deps.Logger))
		deps.KYC.RegisterOperator(r)
	})

	return r
}

type healthResponse struct {
	Status   string            `json:"status"`
	Backends map[string]string `json:"backends"`
}

func healthHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok", Backends: map[string]string{}}

		resp.Backends["postgres"] = backendState(r.Context(), deps.DB != nil, func(ctx context.Context) error {
			return postgres.Health(ctx, deps.DB)
		})
		resp.Backends["redis"] = backendState(r.Context(), deps.Redis != nil, func(ctx context.Context) error {
			return deps.Redis.Health(ctx)
		})

		status := http.StatusOK
		for _, state := range resp.Backends {
			if state == "down" {
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
			}
		}
		shared.WriteJSON(w, status, resp)
	}
}

func backendState(ctx context.Context, configured bool, check func(context.Context) error) string {
	if !configured {
		return "memory"
	}
	if err := check(ctx); err != nil {
		return "down"
	}
	return "up"
}
