package postgres

import (
	"context"

	"github.com/baechuer/lease-service/internal/domain"
	"github.com/baechuer/lease-service/internal/logger"
)

// SeedVehicles inserts the dev catalog. Restart safe.
func SeedVehicles(ctx context.Context, repo *VehicleRepo, vehicles []domain.Vehicle) {
	seeded := 0
	for _, v := range vehicles {
		if err := repo.Upsert(ctx, v); err != nil {
			logger.Logger.Warn().Err(err).Str("vehicle_id", v.ID).Msg("seed vehicle failed")
			continue
		}
		seeded++
	}
	logger.Logger.Info().Int("count", seeded).Msg("postgres vehicles seeded")
}
