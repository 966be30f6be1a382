package auth

import (
	"context"
	"strings"
	"time"

	"github.com/baechuer/lease-service/internal/domain"
)

// bcrypt ignores everything past 72 bytes.
const maxPasswordBytes = 72

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string // optional, defaults to customer
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := domain.NormalizeEmail(in.Email)

	if name == "" {
		return domain.User{}, domain.ErrMissingField("name")
	}
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if in.Password == "" {
		return domain.User{}, domain.ErrMissingField("password")
	}
	if len(in.Password) > maxPasswordBytes {
		return domain.User{}, domain.ErrInvalidField("password", "must be at most 72 bytes")
	}

	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = string(domain.RoleCustomer)
	}
	if !domain.IsValidRole(role) {
		return domain.User{}, domain.ErrInvalidRole(role)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, domain.ErrHashFailed(err)
	}

	created, err := s.users.Create(ctx, domain.User{
		ID:           s.newID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return domain.User{}, err
	}

	s.audit("user.registered", map[string]string{
		"user_id": created.ID,
		"role":    created.Role,
	})

	return created, nil
}
