package lease

import (
	"context"
	"strings"

	"github.com/baechuer/lease-service/internal/domain"
)

func (s *Service) GetLease(ctx context.Context, caller Caller, id string) (domain.LeaseWithVehicle, error) {
	if caller.UserID == "" {
		return domain.LeaseWithVehicle{}, domain.ErrTokenMissing()
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.LeaseWithVehicle{}, domain.ErrMissingField("id")
	}

	lv, err := s.leases.FindByID(ctx, id)
	if err != nil {
		return domain.LeaseWithVehicle{}, err
	}
	if !caller.canAccess(lv.Lease) {
		return domain.LeaseWithVehicle{}, domain.ErrForbidden()
	}
	return lv, nil
}

func (s *Service) ListMyLeases(ctx context.Context, caller Caller) ([]domain.LeaseWithVehicle, error) {
	if caller.UserID == "" {
		return nil, domain.ErrTokenMissing()
	}
	return s.leases.ListByUser(ctx, caller.UserID)
}

// ListLeasesByStatus is the dealer work queue. Customers are refused even if
// a route forgets the role guard.
func (s *Service) ListLeasesByStatus(ctx context.Context, caller Caller, status string) ([]domain.LeaseWithVehicle, error) {
	if caller.UserID == "" {
		return nil, domain.ErrTokenMissing()
	}
	if !caller.IsDealer() {
		return nil, domain.ErrInsufficientRole(string(domain.RoleDealer))
	}

	st := domain.LeaseStatus(strings.ToLower(strings.TrimSpace(status)))
	if st == "" {
		st = domain.LeaseStatusPending
	}
	if st != domain.LeaseStatusPending && !st.IsTerminal() {
		return nil, domain.ErrInvalidField("status", "must be pending, approved or rejected")
	}
	return s.leases.ListByStatus(ctx, st)
}

func (s *Service) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	return s.vehicles.List(ctx)
}
