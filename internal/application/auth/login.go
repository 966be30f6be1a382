package auth

import (
	"context"

	"github.com/baechuer/lease-service/internal/domain"
)

// Login authenticates a user and issues a session token.
// IMPORTANT: must not leak whether the email exists (avoid user enumeration).
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = domain.NormalizeEmail(email)

	if email == "" || password == "" {
		return LoginResult{}, s.loginFailed(email, "missing_fields")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Infra failures must stay visible; only not-found is folded in.
		if domain.Is(err, "user_not_found") {
			_ = s.hasher.Compare(s.dummyHash(), password)
			return LoginResult{}, s.loginFailed(email, "unknown_email")
		}
		return LoginResult{}, err
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return LoginResult{}, s.loginFailed(email, "bad_password")
	}

	tok, err := s.issueToken(u.ID, u.Role)
	if err != nil {
		return LoginResult{}, err
	}

	s.audit("user.logged_in", map[string]string{"user_id": u.ID})

	return LoginResult{User: u, Token: tok}, nil
}

// loginFailed records the real reason for the audit trail only. Callers
// always get the same error.
func (s *Service) loginFailed(email, reason string) error {
	s.audit("user.login_failed", map[string]string{
		"email":  email,
		"reason": reason,
	})
	return domain.ErrInvalidCredentials()
}
