package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/baechuer/lease-service/internal/domain"
)

type LeaseRepo struct {
	db *sql.DB
}

func NewLeaseRepo(db *sql.DB) *LeaseRepo {
	return &LeaseRepo{db: db}
}

const leaseJoinSelect = `
SELECT l.id, l.user_id, l.vehicle_id, l.lease_term, l.down_payment::float8, l.status, l.created_at, l.decided_at,
       v.id, v.brand, v.model, v.price::float8, v.available
FROM leases l
JOIN vehicles v ON v.id = l.vehicle_id`

func scanLeaseWithVehicle(row interface{ Scan(...any) error }) (domain.LeaseWithVehicle, error) {
	var (
		lv        domain.LeaseWithVehicle
		status    string
		decidedAt sql.NullTime
	)
	err := row.Scan(
		&lv.Lease.ID, &lv.Lease.UserID, &lv.Lease.VehicleID, &lv.Lease.LeaseTerm, &lv.Lease.DownPayment,
		&status, &lv.Lease.CreatedAt, &decidedAt,
		&lv.Vehicle.ID, &lv.Vehicle.Brand, &lv.Vehicle.Model, &lv.Vehicle.Price, &lv.Vehicle.Available,
	)
	if err != nil {
		return domain.LeaseWithVehicle{}, err
	}
	lv.Lease.Status = domain.LeaseStatus(status)
	if decidedAt.Valid {
		t := decidedAt.Time
		lv.Lease.DecidedAt = &t
	}
	return lv, nil
}

func (r *LeaseRepo) Create(ctx context.Context, l domain.Lease) (domain.Lease, error) {
	if l.ID == "" {
		return domain.Lease{}, domain.ErrMissingField("id")
	}

	const q = `
INSERT INTO leases (id, user_id, vehicle_id, lease_term, down_payment, status, created_at)
VALUES ($1, $2, $3, $4, $5, 'pending', $6)`

	_, err := r.db.ExecContext(ctx, q, l.ID, l.UserID, l.VehicleID, l.LeaseTerm, l.DownPayment, l.CreatedAt)
	if err != nil {
		code, constraint := pgCodeAndConstraint(err)
		switch code {
		case pgForeignKeyViolation:
			// token for a user that no longer exists
			if constraint == leasesUserFK {
				return domain.Lease{}, domain.ErrTokenInvalid()
			}
			return domain.Lease{}, domain.ErrVehicleNotFound()
		case pgInvalidTextRepr:
			return domain.Lease{}, domain.ErrVehicleNotFound()
		case pgNumericOutOfRange:
			return domain.Lease{}, domain.ErrInvalidField("lease", "lease_term or down_payment out of range")
		}
		return domain.Lease{}, domain.ErrDBUnavailable(err)
	}

	l.Status = domain.LeaseStatusPending
	l.DecidedAt = nil
	return l, nil
}

func (r *LeaseRepo) FindByID(ctx context.Context, id string) (domain.LeaseWithVehicle, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.LeaseWithVehicle{}, domain.ErrMissingField("id")
	}

	lv, err := scanLeaseWithVehicle(r.db.QueryRowContext(ctx, leaseJoinSelect+` WHERE l.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || pgCode(err) == pgInvalidTextRepr {
			return domain.LeaseWithVehicle{}, domain.ErrLeaseNotFound()
		}
		return domain.LeaseWithVehicle{}, domain.ErrDBUnavailable(err)
	}
	return lv, nil
}

// UpdateStatus only touches a lease that is still pending. Postgres
// re-checks the WHERE clause after acquiring the row lock, so two racing
// writers cannot both succeed.
func (r *LeaseRepo) UpdateStatus(ctx context.Context, id string, status domain.LeaseStatus) (bool, error) {
	if !status.IsTerminal() {
		return false, domain.ErrInvalidField("status", "must be approved or rejected")
	}

	const q = `
UPDATE leases
SET status = $2, decided_at = now()
WHERE id = $1 AND status = 'pending'`

	res, err := r.db.ExecContext(ctx, q, id, string(status))
	if err != nil {
		if pgCode(err) == pgInvalidTextRepr {
			return false, domain.ErrLeaseNotFound()
		}
		return false, domain.ErrDBUnavailable(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, domain.ErrDBUnavailable(err)
	}
	if n == 1 {
		return true, nil
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM leases WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, domain.ErrDBUnavailable(err)
	}
	if !exists {
		return false, domain.ErrLeaseNotFound()
	}
	return false, nil
}

func (r *LeaseRepo) ListByUser(ctx context.Context, userID string) ([]domain.LeaseWithVehicle, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrMissingField("user_id")
	}
	return r.list(ctx, ` WHERE l.user_id = $1`, userID)
}

func (r *LeaseRepo) ListByStatus(ctx context.Context, status domain.LeaseStatus) ([]domain.LeaseWithVehicle, error) {
	return r.list(ctx, ` WHERE l.status = $1`, string(status))
}

func (r *LeaseRepo) list(ctx context.Context, where string, arg any) ([]domain.LeaseWithVehicle, error) {
	rows, err := r.db.QueryContext(ctx, leaseJoinSelect+where+` ORDER BY l.created_at DESC, l.id DESC`, arg)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := []domain.LeaseWithVehicle{}
	for rows.Next() {
		lv, err := scanLeaseWithVehicle(rows)
		if err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, lv)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}
