package lease

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/baechuer/lease-service/internal/domain"
)

type fakeLeaseRepo struct {
	mu     sync.Mutex
	leases map[string]domain.Lease
	veh    map[string]domain.Vehicle

	createErr error
	updateErr error
	updates   int
}

func newFakeLeaseRepo(vehicles ...domain.Vehicle) *fakeLeaseRepo {
	r := &fakeLeaseRepo{leases: map[string]domain.Lease{}, veh: map[string]domain.Vehicle{}}
	for _, v := range vehicles {
		r.veh[v.ID] = v
	}
	return r
}

func (r *fakeLeaseRepo) Create(ctx context.Context, l domain.Lease) (domain.Lease, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return domain.Lease{}, r.createErr
	}
	r.leases[l.ID] = l
	return l, nil
}

func (r *fakeLeaseRepo) FindByID(ctx context.Context, id string) (domain.LeaseWithVehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.leases[id]
	if !ok {
		return domain.LeaseWithVehicle{}, domain.ErrLeaseNotFound()
	}
	return domain.LeaseWithVehicle{Lease: l, Vehicle: r.veh[l.VehicleID]}, nil
}

func (r *fakeLeaseRepo) UpdateStatus(ctx context.Context, id string, status domain.LeaseStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return false, r.updateErr
	}
	l, ok := r.leases[id]
	if !ok {
		return false, domain.ErrLeaseNotFound()
	}
	if l.Status != domain.LeaseStatusPending {
		return false, nil
	}
	now := time.Now().UTC()
	l.Status = status
	l.DecidedAt = &now
	r.leases[id] = l
	r.updates++
	return true, nil
}

func (r *fakeLeaseRepo) ListByUser(ctx context.Context, userID string) ([]domain.LeaseWithVehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.LeaseWithVehicle
	for _, l := range r.leases {
		if l.UserID == userID {
			out = append(out, domain.LeaseWithVehicle{Lease: l, Vehicle: r.veh[l.VehicleID]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Lease.CreatedAt.After(out[j].Lease.CreatedAt) })
	return out, nil
}

func (r *fakeLeaseRepo) ListByStatus(ctx context.Context, status domain.LeaseStatus) ([]domain.LeaseWithVehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.LeaseWithVehicle
	for _, l := range r.leases {
		if l.Status == status {
			out = append(out, domain.LeaseWithVehicle{Lease: l, Vehicle: r.veh[l.VehicleID]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Lease.CreatedAt.After(out[j].Lease.CreatedAt) })
	return out, nil
}

func (r *fakeLeaseRepo) status(id string) domain.LeaseStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.leases[id].Status
}

type fakeVehicles struct {
	byID map[string]domain.Vehicle
	err  error
}

func (f *fakeVehicles) GetByID(ctx context.Context, id string) (domain.Vehicle, error) {
	if f.err != nil {
		return domain.Vehicle{}, f.err
	}
	v, ok := f.byID[id]
	if !ok {
		return domain.Vehicle{}, domain.ErrVehicleNotFound()
	}
	return v, nil
}

func (f *fakeVehicles) List(ctx context.Context) ([]domain.Vehicle, error) {
	out := make([]domain.Vehicle, 0, len(f.byID))
	for _, v := range f.byID {
		out = append(out, v)
	}
	return out, nil
}

// fakeBank returns decide(n) for the n-th call (1-based) or err.
type fakeBank struct {
	calls  atomic.Int32
	err    error
	decide func(n int32) domain.LeaseStatus
	gate   chan struct{}

	gotLease   domain.Lease
	gotVehicle domain.Vehicle
	mu         sync.Mutex
}

func (b *fakeBank) RequestDecision(ctx context.Context, l domain.Lease, v domain.Vehicle) (domain.LeaseStatus, error) {
	n := b.calls.Add(1)
	b.mu.Lock()
	b.gotLease, b.gotVehicle = l, v
	b.mu.Unlock()
	if b.gate != nil {
		<-b.gate
	}
	if b.err != nil {
		return "", b.err
	}
	if b.decide != nil {
		return b.decide(n), nil
	}
	return domain.LeaseStatusApproved, nil
}

var testVehicle = domain.Vehicle{ID: "v1", Brand: "Toyota", Model: "Corolla", Price: 24000, Available: true}

type harness struct {
	svc      *Service
	repo     *fakeLeaseRepo
	vehicles *fakeVehicles
	bank     *fakeBank
	audit    *[]string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	repo := newFakeLeaseRepo(testVehicle)
	vehicles := &fakeVehicles{byID: map[string]domain.Vehicle{testVehicle.ID: testVehicle}}
	bank := &fakeBank{}

	var (
		mu      sync.Mutex
		actions []string
	)
	svc := NewService(repo, vehicles, bank).WithAudit(func(action string, _ map[string]string) {
		mu.Lock()
		defer mu.Unlock()
		actions = append(actions, action)
	})

	var n atomic.Int32
	svc.newID = func() string { return "l" + string(rune('0'+n.Add(1))) }
	svc.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

	return &harness{svc: svc, repo: repo, vehicles: vehicles, bank: bank, audit: &actions}
}

func (h *harness) seedPending(t *testing.T, id, userID string) {
	t.Helper()
	l, err := domain.NewLease(id, userID, testVehicle.ID, 36, 1000, time.Now())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := h.repo.Create(context.Background(), l); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func requireDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	if !domain.Is(err, code) {
		t.Fatalf("expected domain code %q, got %v", code, err)
	}
}
