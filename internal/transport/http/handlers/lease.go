package http_handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/lease-service/internal/application/lease"
	"github.com/baechuer/lease-service/internal/logger"
	"github.com/baechuer/lease-service/internal/transport/http/dto"
	"github.com/baechuer/lease-service/internal/transport/http/middleware"
	"github.com/baechuer/lease-service/internal/transport/http/response"
)

type LeaseHandler struct {
	svc *lease.Service
}

func NewLeaseHandler(svc *lease.Service) *LeaseHandler {
	return &LeaseHandler{svc: svc}
}

// Submit handles POST /leases.
func (h *LeaseHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitLeaseRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	caller := middleware.CallerFromContext(r.Context())
	lv, err := h.svc.SubmitLease(r.Context(), caller, lease.SubmitInput{
		VehicleID:   req.VehicleID,
		LeaseTerm:   *req.LeaseTerm,
		DownPayment: *req.DownPayment,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	middleware.LeaseSubmissionsTotal.Inc()

	logger.WithCtx(r.Context()).Info().
		Str("lease_id", lv.Lease.ID).
		Str("user_id", caller.UserID).
		Str("vehicle_id", lv.Lease.VehicleID).
		Msg("lease_submitted")

	response.Created(w, dto.NewLeaseView(lv))
}

// ListMine handles GET /leases.
func (h *LeaseHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	leases, err := h.svc.ListMyLeases(r.Context(), middleware.CallerFromContext(r.Context()))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewLeaseViews(leases))
}

// ListByStatus handles GET /dealer/leases?status=pending.
func (h *LeaseHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())
	leases, err := h.svc.ListLeasesByStatus(r.Context(), caller, r.URL.Query().Get("status"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewLeaseViews(leases))
}

// Get handles GET /leases/{id}.
func (h *LeaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	lv, err := h.svc.GetLease(r.Context(), middleware.CallerFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewLeaseView(lv))
}

// CreditCheck handles POST /leases/{id}/credit-check.
func (h *LeaseHandler) CreditCheck(w http.ResponseWriter, r *http.Request) {
	h.runCreditCheck(w, r, chi.URLParam(r, "id"))
}

// LegacyCreditCheck handles POST /credit-check with the id in the body.
func (h *LeaseHandler) LegacyCreditCheck(w http.ResponseWriter, r *http.Request) {
	var req dto.CreditCheckRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}
	h.runCreditCheck(w, r, req.ID())
}

func (h *LeaseHandler) runCreditCheck(w http.ResponseWriter, r *http.Request, leaseID string) {
	caller := middleware.CallerFromContext(r.Context())

	res, err := h.svc.RunCreditCheck(r.Context(), caller, leaseID)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("lease_id", res.LeaseID).
		Str("status", string(res.Status)).
		Bool("applied", res.Applied).
		Str("caller_id", caller.UserID).
		Msg("credit_check_completed")

	response.OK(w, dto.NewCreditCheckResponse(res))
}
