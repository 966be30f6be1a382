package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}

type LeaseHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	ListByStatus(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	CreditCheck(w http.ResponseWriter, r *http.Request)
	LegacyCreditCheck(w http.ResponseWriter, r *http.Request)
}

type VehicleHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type Middleware = func(http.Handler) http.Handler

type Deps struct {
	Health   HealthHandler
	Auth     AuthHandler
	Lease    LeaseHandler
	Vehicles VehicleHandler

	// Global chain, outermost first. Nil entries are skipped.
	Global []Middleware

	AuthMW   Middleware
	DealerMW Middleware

	// Optional per-route rate limits.
	RLRegister    Middleware
	RLLogin       Middleware
	RLCreditCheck Middleware

	// Metrics exposes /metrics when set.
	Metrics http.Handler
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("nil Auth handler")
	}
	if deps.Lease == nil {
		return nil, fmt.Errorf("nil Lease handler")
	}
	if deps.Vehicles == nil {
		return nil, fmt.Errorf("nil Vehicles handler")
	}
	if deps.AuthMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}
	if deps.DealerMW == nil {
		return nil, fmt.Errorf("nil Dealer middleware")
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	for _, mw := range deps.Global {
		if mw != nil {
			r.Use(mw)
		}
	}

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Route("/lease/v1", func(r chi.Router) {
		r.With(present(deps.RLRegister)...).Post("/auth/register", deps.Auth.Register)
		r.With(present(deps.RLLogin)...).Post("/auth/login", deps.Auth.Login)

		r.Get("/vehicles", deps.Vehicles.List)

		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMW)

			r.Get("/me", deps.Auth.Me)

			r.Post("/leases", deps.Lease.Submit)
			r.Get("/leases", deps.Lease.ListMine)
			r.Get("/leases/{id}", deps.Lease.Get)

			check := r.With(present(deps.RLCreditCheck)...)
			check.Post("/leases/{id}/credit-check", deps.Lease.CreditCheck)
			check.Post("/credit-check", deps.Lease.LegacyCreditCheck)

			r.With(deps.DealerMW).Get("/dealer/leases", deps.Lease.ListByStatus)
		})
	})

	return r, nil
}

// MetricsHandler serves the default Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

func present(mws ...Middleware) []Middleware {
	out := make([]Middleware, 0, len(mws))
	for _, mw := range mws {
		if mw != nil {
			out = append(out, mw)
		}
	}
	return out
}
