package lease

import (
	"context"

	"github.com/baechuer/lease-service/internal/domain"
)

/*
Repository
----------
Persistence port for leases.
*/
type Repository interface {
	Create(ctx context.Context, l domain.Lease) (domain.Lease, error)
	// FindByID returns domain.ErrLeaseNotFound when the lease does not exist.
	FindByID(ctx context.Context, id string) (domain.LeaseWithVehicle, error)
	// UpdateStatus is a conditional write: it only moves a lease that is
	// still pending. applied=false with a nil error means another writer got
	// there first.
	UpdateStatus(ctx context.Context, id string, status domain.LeaseStatus) (applied bool, err error)
	// ListByUser returns the user's leases, newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.LeaseWithVehicle, error)
	ListByStatus(ctx context.Context, status domain.LeaseStatus) ([]domain.LeaseWithVehicle, error)
}

// VehicleReader is the read-only view of the vehicle catalog.
type VehicleReader interface {
	GetByID(ctx context.Context, id string) (domain.Vehicle, error)
	List(ctx context.Context) ([]domain.Vehicle, error)
}

/*
DecisionClient
--------------
Asks the external bank for a credit decision. Implementations never touch
lease state; they return approved/rejected or a decision_* error.
*/
type DecisionClient interface {
	RequestDecision(ctx context.Context, l domain.Lease, v domain.Vehicle) (domain.LeaseStatus, error)
}

// Caller is the authenticated principal, as resolved by the auth middleware.
type Caller struct {
	UserID string
	Role   string
}

func (c Caller) IsDealer() bool { return c.Role == string(domain.RoleDealer) }

func (c Caller) canAccess(l domain.Lease) bool {
	return c.IsDealer() || (c.UserID != "" && c.UserID == l.UserID)
}
