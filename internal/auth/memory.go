package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"arts.org/internal/ids"
)

// InMemoryProfiles implements ProfileStore with in-process concurrency safety.
// Used by tests and by deployments without a database DSN.
type InMemoryProfiles struct {
	mu      sync.RWMutex
	byID    map[string]*Profile
	byEmail map[string]string
}

// NewInMemoryProfiles creates an empty profile store.
func NewInMemoryProfiles() *InMemoryProfiles {
	return &InMemoryProfiles{
		byID:    make(map[string]*Profile),
		byEmail: make(map[string]string),
	}
}

func (s *InMemoryProfiles) Create(ctx context.Context, p *Profile) error {
	if p.ID == "" {
		p.ID = ids.New()
	}
	email := strings.ToLower(strings.TrimSpace(p.Email))
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[p.ID]; ok {
		return ErrAlreadyExists
	}
	if email != "" {
		if _, ok := s.byEmail[email]; ok {
			return ErrAlreadyExists
		}
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	cp := *p
	s.byID[p.ID] = &cp
	if email != "" {
		s.byEmail[email] = p.ID
	}
	return nil
}

func (s *InMemoryProfiles) Find(ctx context.Context, id string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *InMemoryProfiles) FindByEmail(ctx context.Context, email string) (*Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s.byID[id]
	return &cp, nil
}
