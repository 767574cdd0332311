package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const defaultTokenTTL = 15 * time.Minute

// Service resolves principals from credentials and bearer tokens.
type Service struct {
	profiles ProfileStore
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

// Option configures Service behavior.
type Option func(*Service) error

// WithTokenTTL configures issued token lifetime.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) error {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
		return nil
	}
}

// WithClock overrides time source (useful for tests).
func WithClock(fn func() time.Time) Option {
	return func(s *Service) error {
		if fn != nil {
			s.now = fn
		}
		return nil
	}
}

// NewService constructs a Service. The signing secret is held by the service
// explicitly rather than read from ambient process state.
func NewService(profiles ProfileStore, secret string, opts ...Option) (*Service, error) {
	if profiles == nil {
		return nil, errors.New("profile store is required")
	}
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth secret is required")
	}
	svc := &Service{
		profiles: profiles,
		secret:   []byte(secret),
		tokenTTL: defaultTokenTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		if err := opt(svc); err != nil {
			return nil, err
		}
	}
	return svc, nil
}

// TokenPair carries the signed token and its expiry.
type TokenPair struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login verifies credentials and issues a bearer token for the profile.
func (s *Service) Login(ctx context.Context, email, password string) (TokenPair, Principal, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return TokenPair{}, Principal{}, ErrNotAuthenticated
	}
	profile, err := s.profiles.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return TokenPair{}, Principal{}, ErrNotAuthenticated
		}
		return TokenPair{}, Principal{}, err
	}
	if err := VerifyPassword(profile.PasswordHash, password); err != nil {
		return TokenPair{}, Principal{}, ErrNotAuthenticated
	}
	token, expiresAt, err := GenerateToken(s.secret, profile.ID, profile.Role, s.tokenTTL)
	if err != nil {
		return TokenPair{}, Principal{}, err
	}
	return TokenPair{Token: token, ExpiresAt: expiresAt}, principalOf(profile), nil
}

// Authenticate validates a bearer token and resolves the backing profile.
// A valid session without a profile row surfaces ErrProfileMissing to the
// caller instead of silently defaulting the principal.
func (s *Service) Authenticate(ctx context.Context, token string) (Principal, error) {
	claims, err := ParseAndValidate(s.secret, token)
	if err != nil {
		return Principal{}, ErrNotAuthenticated
	}
	profile, err := s.profiles.Find(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Principal{}, ErrProfileMissing
		}
		return Principal{}, err
	}
	return principalOf(profile), nil
}

// Register creates a profile with a hashed password. Role and department
// assignment stay an administrative concern; callers pass them explicitly.
func (s *Service) Register(ctx context.Context, profile Profile, password string) (Principal, error) {
	role, err := ParseRole(string(profile.Role))
	if err != nil {
		return Principal{}, err
	}
	profile.Role = role
	profile.Email = strings.TrimSpace(strings.ToLower(profile.Email))
	if profile.Email == "" || !strings.Contains(profile.Email, "@") {
		return Principal{}, fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return Principal{}, err
	}
	profile.PasswordHash = hash
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = s.now().UTC()
	}
	if err := s.profiles.Create(ctx, &profile); err != nil {
		return Principal{}, err
	}
	return principalOf(&profile), nil
}

func principalOf(p *Profile) Principal {
	return Principal{
		ID:           p.ID,
		FullName:     p.FullName,
		Role:         p.Role,
		DepartmentID: p.DepartmentID,
	}
}
