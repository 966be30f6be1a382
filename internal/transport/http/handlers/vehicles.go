package http_handlers

import (
	"net/http"

	"github.com/baechuer/lease-service/internal/application/lease"
	"github.com/baechuer/lease-service/internal/transport/http/dto"
	"github.com/baechuer/lease-service/internal/transport/http/response"
)

type VehicleHandler struct {
	svc *lease.Service
}

func NewVehicleHandler(svc *lease.Service) *VehicleHandler {
	return &VehicleHandler{svc: svc}
}

// List handles GET /vehicles.
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	vs, err := h.svc.ListVehicles(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewVehicleViews(vs))
}
