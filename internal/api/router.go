package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Cheertaboi/Ecommerce-voucher-microservice/internal/api/handlers"
	"github.com/Cheertaboi/Ecommerce-voucher-microservice/internal/api/middleware"
)

// DBPinger reports backing-store reachability for the health endpoint.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// Deps carries the wired services and knobs the router needs.
type Deps struct {
	Allocation handlers.AllocationEngine
	Redemption handlers.RedemptionEngine
	CastAdmin  handlers.CastAdmin
	Limiter    *middleware.ClaimLimiter
	DB         DBPinger
	Log        zerolog.Logger
}

// NewRouter builds the HTTP router for the voucher-service
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	voucherHandler := handlers.NewVoucherHandler(deps.Allocation, deps.Redemption, deps.Log)
	castHandler := handlers.NewCastHandler(deps.CastAdmin, deps.Log)

	// Public voucher endpoints
	r.Route("/vouchers", func(r chi.Router) {
		r.With(deps.Limiter.Middleware).Post("/claim", voucherHandler.Claim)
		r.Get("/validate/product/{id}", voucherHandler.ValidateProduct)
		r.Get("/validate/shipping/{id}", voucherHandler.ValidateShipping)
		r.Get("/mine", voucherHandler.ListMine)
	})

	// Admin endpoints
	r.Route("/admin/casts", func(r chi.Router) {
		r.Post("/", castHandler.CreateCast)
		r.Delete("/{id}", castHandler.DeleteCast)
		r.Get("/", castHandler.ListCasts)
	})

	// health
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"voucher-service"}`))
	})
	r.Get("/health/db", func(w http.ResponseWriter, req *http.Request) {
		if err := deps.DB.PingContext(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"error","message":"postgres unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","postgres":"connected"}`))
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
