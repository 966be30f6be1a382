package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/baechuer/lease-service/internal/domain"
)

type VehicleRepo struct {
	mu   sync.RWMutex
	byID map[string]domain.Vehicle
}

func NewVehicleRepo(vs ...domain.Vehicle) *VehicleRepo {
	r := &VehicleRepo{byID: make(map[string]domain.Vehicle, len(vs))}
	for _, v := range vs {
		r.byID[v.ID] = v
	}
	return r
}

func (r *VehicleRepo) GetByID(ctx context.Context, id string) (domain.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.byID[id]
	if !ok {
		return domain.Vehicle{}, domain.ErrVehicleNotFound()
	}
	return v, nil
}

// List is ordered by brand, then model.
func (r *VehicleRepo) List(ctx context.Context) ([]domain.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Vehicle, 0, len(r.byID))
	for _, v := range r.byID {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Brand != out[j].Brand {
			return out[i].Brand < out[j].Brand
		}
		return out[i].Model < out[j].Model
	})
	return out, nil
}

func (r *VehicleRepo) Upsert(v domain.Vehicle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[v.ID] = v
}
