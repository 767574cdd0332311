package auth

import "context"

// ProfileStore describes persistence operations required to resolve principals.
type ProfileStore interface {
	Create(ctx context.Context, p *Profile) error
	Find(ctx context.Context, id string) (*Profile, error)
	FindByEmail(ctx context.Context, email string) (*Profile, error)
}
