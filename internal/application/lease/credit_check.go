package lease

import (
	"context"
	"errors"
	"strings"

	"github.com/baechuer/lease-service/internal/domain"
)

type CreditCheckResult struct {
	LeaseID string
	Status  domain.LeaseStatus
	// Applied is false when the lease had already been decided, either
	// before this call or by a concurrent check that won the write.
	Applied bool
}

// RunCreditCheck asks the bank for a decision on a pending lease and persists it.
// A failed bank call leaves the lease pending. No retries are attempted here.
func (s *Service) RunCreditCheck(ctx context.Context, caller Caller, leaseID string) (CreditCheckResult, error) {
	if caller.UserID == "" {
		return CreditCheckResult{}, domain.ErrTokenMissing()
	}
	leaseID = strings.TrimSpace(leaseID)
	if leaseID == "" {
		return CreditCheckResult{}, domain.ErrMissingField("lease_id")
	}

	lv, err := s.leases.FindByID(ctx, leaseID)
	if err != nil {
		return CreditCheckResult{}, err
	}
	if !caller.canAccess(lv.Lease) {
		return CreditCheckResult{}, domain.ErrForbidden()
	}

	if lv.Lease.Status.IsTerminal() {
		return CreditCheckResult{LeaseID: leaseID, Status: lv.Lease.Status}, nil
	}

	decision, err := s.bank.RequestDecision(ctx, lv.Lease, lv.Vehicle)
	if err != nil {
		s.audit("lease.decision_failed", map[string]string{
			"lease_id": leaseID,
			"code":     errCode(err),
		})
		return CreditCheckResult{}, err
	}
	if !domain.CanTransition(domain.LeaseStatusPending, decision) {
		return CreditCheckResult{}, domain.ErrDecisionFormat(nil)
	}

	applied, err := s.leases.UpdateStatus(ctx, leaseID, decision)
	if err != nil {
		return CreditCheckResult{}, err
	}
	if !applied {
		// A concurrent check persisted first; report what is stored.
		cur, err := s.leases.FindByID(ctx, leaseID)
		if err != nil {
			return CreditCheckResult{}, err
		}
		return CreditCheckResult{LeaseID: leaseID, Status: cur.Lease.Status}, nil
	}

	s.audit("lease.decided", map[string]string{
		"lease_id": leaseID,
		"status":   string(decision),
	})

	return CreditCheckResult{LeaseID: leaseID, Status: decision, Applied: true}, nil
}

func errCode(err error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Code
	}
	return "unknown"
}
