package lease

import (
	"time"

	"github.com/google/uuid"
)

type Service struct {
	leases   Repository
	vehicles VehicleReader
	bank     DecisionClient

	newID func() string
	now   func() time.Time
	audit func(action string, fields map[string]string)
}

func NewService(leases Repository, vehicles VehicleReader, bank DecisionClient) *Service {
	return &Service{
		leases:   leases,
		vehicles: vehicles,
		bank:     bank,
		newID:    uuid.NewString,
		now:      time.Now,
		audit:    func(string, map[string]string) {},
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}
