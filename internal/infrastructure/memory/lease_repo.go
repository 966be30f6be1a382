package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/baechuer/lease-service/internal/domain"
)

// LeaseRepo keeps leases in memory. Status updates are conditional on the
// lease still being pending, under the same lock as the read.
type LeaseRepo struct {
	mu       sync.RWMutex
	byID     map[string]domain.Lease
	vehicles *VehicleRepo
	now      func() time.Time
}

func NewLeaseRepo(vehicles *VehicleRepo) *LeaseRepo {
	if vehicles == nil {
		vehicles = NewVehicleRepo()
	}
	return &LeaseRepo{
		byID:     make(map[string]domain.Lease),
		vehicles: vehicles,
		now:      time.Now,
	}
}

func (r *LeaseRepo) Create(ctx context.Context, l domain.Lease) (domain.Lease, error) {
	if l.ID == "" {
		return domain.Lease{}, domain.ErrMissingField("id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[l.ID]; exists {
		return domain.Lease{}, domain.ErrInternal(nil)
	}
	l.Status = domain.LeaseStatusPending
	l.DecidedAt = nil
	r.byID[l.ID] = l
	return l, nil
}

func (r *LeaseRepo) FindByID(ctx context.Context, id string) (domain.LeaseWithVehicle, error) {
	r.mu.RLock()
	l, ok := r.byID[id]
	r.mu.RUnlock()

	if !ok {
		return domain.LeaseWithVehicle{}, domain.ErrLeaseNotFound()
	}
	return r.join(ctx, l), nil
}

func (r *LeaseRepo) UpdateStatus(ctx context.Context, id string, status domain.LeaseStatus) (bool, error) {
	if !status.IsTerminal() {
		return false, domain.ErrInvalidField("status", "must be approved or rejected")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.byID[id]
	if !ok {
		return false, domain.ErrLeaseNotFound()
	}
	if !domain.CanTransition(l.Status, status) {
		return false, nil
	}

	at := r.now().UTC()
	l.Status = status
	l.DecidedAt = &at
	r.byID[id] = l
	return true, nil
}

func (r *LeaseRepo) ListByUser(ctx context.Context, userID string) ([]domain.LeaseWithVehicle, error) {
	return r.list(ctx, func(l domain.Lease) bool { return l.UserID == userID }), nil
}

func (r *LeaseRepo) ListByStatus(ctx context.Context, status domain.LeaseStatus) ([]domain.LeaseWithVehicle, error) {
	return r.list(ctx, func(l domain.Lease) bool { return l.Status == status }), nil
}

// list returns matching leases newest first.
func (r *LeaseRepo) list(ctx context.Context, match func(domain.Lease) bool) []domain.LeaseWithVehicle {
	r.mu.RLock()
	var hits []domain.Lease
	for _, l := range r.byID {
		if match(l) {
			hits = append(hits, l)
		}
	}
	r.mu.RUnlock()

	sort.Slice(hits, func(i, j int) bool {
		if !hits[i].CreatedAt.Equal(hits[j].CreatedAt) {
			return hits[i].CreatedAt.After(hits[j].CreatedAt)
		}
		return hits[i].ID > hits[j].ID
	})

	out := make([]domain.LeaseWithVehicle, 0, len(hits))
	for _, l := range hits {
		out = append(out, r.join(ctx, l))
	}
	return out
}

func (r *LeaseRepo) join(ctx context.Context, l domain.Lease) domain.LeaseWithVehicle {
	// vehicles are never deleted, so a miss only happens with hand-built data
	v, _ := r.vehicles.GetByID(ctx, l.VehicleID)
	return domain.LeaseWithVehicle{Lease: l, Vehicle: v}
}
