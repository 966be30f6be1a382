package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/baechuer/lease-service/internal/domain"
)

const defaultTokenTTL = time.Hour

type Service struct {
	users  UserRepo
	hasher PasswordHasher
	signer TokenSigner

	tokenTTL time.Duration
	newID    func() string
	audit    func(action string, fields map[string]string)

	dummyOnce sync.Once
	dummy     string
}

type Config struct {
	TokenTTL time.Duration
}

func NewService(users UserRepo, hasher PasswordHasher, signer TokenSigner, cfg Config) *Service {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &Service{
		users:    users,
		hasher:   hasher,
		signer:   signer,
		tokenTTL: ttl,
		newID:    uuid.NewString,
		audit:    func(string, map[string]string) {},
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

// SessionToken is the token output for handlers/DTO mapping.
type SessionToken struct {
	AccessToken string
	TokenType   string // "Bearer"
	ExpiresIn   int64  // seconds
}

type LoginResult struct {
	User  domain.User
	Token SessionToken
}

func (s *Service) issueToken(userID, role string) (SessionToken, error) {
	tok, err := s.signer.SignAccessToken(userID, role, s.tokenTTL)
	if err != nil {
		return SessionToken{}, domain.ErrTokenSignFailed(err)
	}
	return SessionToken{
		AccessToken: tok,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
	}, nil
}

// GetUserByID backs GET /me.
func (s *Service) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	if id == "" {
		return domain.User{}, domain.ErrTokenInvalid()
	}
	return s.users.GetByID(ctx, id)
}

// dummyHash is compared against when the email is unknown, so both login
// failures cost one hash comparison. Computed on first use with the real
// hasher's cost.
func (s *Service) dummyHash() string {
	s.dummyOnce.Do(func() {
		if h, err := s.hasher.Hash("not-a-real-password"); err == nil {
			s.dummy = h
		}
	})
	return s.dummy
}
