package dto

import "strings"

// SubmitLeaseRequest accepts snake_case fields and the camelCase names older
// clients send. Pointers distinguish "absent" from zero.
type SubmitLeaseRequest struct {
	VehicleID   string   `json:"vehicle_id" validate:"required"`
	LeaseTerm   *int     `json:"lease_term" validate:"required,gt=0,lte=600"`
	DownPayment *float64 `json:"down_payment" validate:"required,gte=0,lt=10000000000"`

	LegacyVehicleID   string   `json:"vehicleId,omitempty" validate:"-"`
	LegacyLeaseTerm   *int     `json:"leaseTerm,omitempty" validate:"-"`
	LegacyDownPayment *float64 `json:"downPayment,omitempty" validate:"-"`
}

func (r *SubmitLeaseRequest) Validate() error {
	if r.VehicleID == "" {
		r.VehicleID = r.LegacyVehicleID
	}
	if r.LeaseTerm == nil {
		r.LeaseTerm = r.LegacyLeaseTerm
	}
	if r.DownPayment == nil {
		r.DownPayment = r.LegacyDownPayment
	}
	r.VehicleID = strings.TrimSpace(r.VehicleID)
	return validateStruct(r)
}

// CreditCheckRequest is the body of the legacy POST /credit-check route.
type CreditCheckRequest struct {
	LeaseID       string `json:"lease_id"`
	LegacyLeaseID string `json:"leaseId,omitempty"`
}

func (r *CreditCheckRequest) ID() string {
	if id := strings.TrimSpace(r.LeaseID); id != "" {
		return id
	}
	return strings.TrimSpace(r.LegacyLeaseID)
}

func (r *CreditCheckRequest) Validate() error {
	v := struct {
		LeaseID string `json:"lease_id" validate:"required"`
	}{LeaseID: r.ID()}
	return validateStruct(v)
}
