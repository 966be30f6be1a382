package memory

import "github.com/baechuer/lease-service/internal/domain"

// DevVehicles is the catalog used by the memory store and the dev seed.
func DevVehicles() []domain.Vehicle {
	return []domain.Vehicle{
		{ID: "0b9a3c52-6f0e-4a43-9d55-1d8a3f1c0a01", Brand: "Toyota", Model: "Corolla", Price: 24000, Available: true},
		{ID: "0b9a3c52-6f0e-4a43-9d55-1d8a3f1c0a02", Brand: "Volkswagen", Model: "Golf", Price: 29500, Available: true},
		{ID: "0b9a3c52-6f0e-4a43-9d55-1d8a3f1c0a03", Brand: "Tesla", Model: "Model 3", Price: 42990, Available: true},
		{ID: "0b9a3c52-6f0e-4a43-9d55-1d8a3f1c0a04", Brand: "BMW", Model: "X3", Price: 51000, Available: false},
	}
}
