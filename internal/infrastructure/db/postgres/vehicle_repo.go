package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/baechuer/lease-service/internal/domain"
)

type VehicleRepo struct {
	db *sql.DB
}

func NewVehicleRepo(db *sql.DB) *VehicleRepo {
	return &VehicleRepo{db: db}
}

func (r *VehicleRepo) GetByID(ctx context.Context, id string) (domain.Vehicle, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Vehicle{}, domain.ErrMissingField("vehicle_id")
	}

	const q = `SELECT id, brand, model, price::float8, available FROM vehicles WHERE id = $1`

	var v domain.Vehicle
	err := r.db.QueryRowContext(ctx, q, id).Scan(&v.ID, &v.Brand, &v.Model, &v.Price, &v.Available)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || pgCode(err) == pgInvalidTextRepr {
			return domain.Vehicle{}, domain.ErrVehicleNotFound()
		}
		return domain.Vehicle{}, domain.ErrDBUnavailable(err)
	}
	return v, nil
}

func (r *VehicleRepo) List(ctx context.Context) ([]domain.Vehicle, error) {
	const q = `SELECT id, brand, model, price::float8, available FROM vehicles ORDER BY brand, model`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := []domain.Vehicle{}
	for rows.Next() {
		var v domain.Vehicle
		if err := rows.Scan(&v.ID, &v.Brand, &v.Model, &v.Price, &v.Available); err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

// Upsert is used by the dev seed only; the catalog is otherwise read-only here.
func (r *VehicleRepo) Upsert(ctx context.Context, v domain.Vehicle) error {
	const q = `
INSERT INTO vehicles (id, brand, model, price, available)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, q, v.ID, v.Brand, v.Model, v.Price, v.Available); err != nil {
		return domain.ErrDBUnavailable(err)
	}
	return nil
}
