package lease

import (
	"context"
	"strconv"
	"strings"

	"github.com/baechuer/lease-service/internal/domain"
)

type SubmitInput struct {
	VehicleID   string
	LeaseTerm   int // months
	DownPayment float64
}

// SubmitLease records a new pending lease for the caller.
func (s *Service) SubmitLease(ctx context.Context, caller Caller, in SubmitInput) (domain.LeaseWithVehicle, error) {
	if caller.UserID == "" {
		return domain.LeaseWithVehicle{}, domain.ErrTokenMissing()
	}

	l, err := domain.NewLease(s.newID(), caller.UserID, in.VehicleID, in.LeaseTerm, in.DownPayment, s.now())
	if err != nil {
		return domain.LeaseWithVehicle{}, err
	}

	v, err := s.vehicles.GetByID(ctx, strings.TrimSpace(in.VehicleID))
	if err != nil {
		return domain.LeaseWithVehicle{}, err
	}

	created, err := s.leases.Create(ctx, l)
	if err != nil {
		return domain.LeaseWithVehicle{}, err
	}

	s.audit("lease.submitted", map[string]string{
		"lease_id":   created.ID,
		"user_id":    created.UserID,
		"vehicle_id": created.VehicleID,
		"lease_term": strconv.Itoa(created.LeaseTerm),
	})

	return domain.LeaseWithVehicle{Lease: created, Vehicle: v}, nil
}
