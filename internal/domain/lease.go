package domain

import (
	"math"
	"strings"
	"time"
)

type LeaseStatus string

const (
	LeaseStatusPending  LeaseStatus = "pending"
	LeaseStatusApproved LeaseStatus = "approved"
	LeaseStatusRejected LeaseStatus = "rejected"
)

// IsTerminal reports whether a status is a final credit decision.
func (s LeaseStatus) IsTerminal() bool {
	return s == LeaseStatusApproved || s == LeaseStatusRejected
}

// CanTransition allows only pending -> approved | rejected.
func CanTransition(from, to LeaseStatus) bool {
	return from == LeaseStatusPending && to.IsTerminal()
}

// ParseDecision maps a remote decision value onto a terminal lease status.
func ParseDecision(v string) (LeaseStatus, bool) {
	switch LeaseStatus(strings.ToLower(strings.TrimSpace(v))) {
	case LeaseStatusApproved:
		return LeaseStatusApproved, true
	case LeaseStatusRejected:
		return LeaseStatusRejected, true
	default:
		return "", false
	}
}

// Upper bounds match the leases table: lease_term is an INTEGER of months,
// down_payment is NUMERIC(12,2).
const (
	MaxLeaseTermMonths = 600
	MaxDownPayment     = 1e10 // exclusive
)

type Lease struct {
	ID          string
	UserID      string
	VehicleID   string
	LeaseTerm   int // months
	DownPayment float64
	Status      LeaseStatus
	CreatedAt   time.Time
	DecidedAt   *time.Time
}

type Vehicle struct {
	ID        string
	Brand     string
	Model     string
	Price     float64
	Available bool
}

// LeaseWithVehicle is a lease joined with the vehicle it references.
type LeaseWithVehicle struct {
	Lease   Lease
	Vehicle Vehicle
}

// NewLease validates submission input and returns a pending lease.
func NewLease(id, userID, vehicleID string, leaseTerm int, downPayment float64, now time.Time) (Lease, error) {
	if strings.TrimSpace(id) == "" {
		return Lease{}, ErrMissingField("id")
	}
	if strings.TrimSpace(userID) == "" {
		return Lease{}, ErrMissingField("user_id")
	}
	if strings.TrimSpace(vehicleID) == "" {
		return Lease{}, ErrMissingField("vehicle_id")
	}
	if leaseTerm <= 0 {
		return Lease{}, ErrInvalidField("lease_term", "must be a positive number of months")
	}
	if leaseTerm > MaxLeaseTermMonths {
		return Lease{}, ErrInvalidField("lease_term", "must be at most 600 months")
	}
	if math.IsNaN(downPayment) || math.IsInf(downPayment, 0) {
		return Lease{}, ErrInvalidField("down_payment", "must be a finite amount")
	}
	if downPayment < 0 {
		return Lease{}, ErrInvalidField("down_payment", "must not be negative")
	}
	if downPayment >= MaxDownPayment {
		return Lease{}, ErrInvalidField("down_payment", "must be less than 10000000000")
	}

	return Lease{
		ID:          id,
		UserID:      userID,
		VehicleID:   strings.TrimSpace(vehicleID),
		LeaseTerm:   leaseTerm,
		DownPayment: downPayment,
		Status:      LeaseStatusPending,
		CreatedAt:   now.UTC(),
	}, nil
}
