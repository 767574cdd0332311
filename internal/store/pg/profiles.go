package pg

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"arts.org/internal/auth"
	"arts.org/internal/ids"
)

// Profiles returns the profile store backed by the same connection pool.
func (s *Store) Profiles() auth.ProfileStore { return pgProfiles{s} }

type pgProfiles struct{ s *Store }

var _ auth.ProfileStore = pgProfiles{}

func (p pgProfiles) Create(ctx context.Context, profile *auth.Profile) error {
	if profile.ID == "" {
		profile.ID = ids.New()
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}
	var departmentID any
	if profile.DepartmentID != "" {
		departmentID = profile.DepartmentID
	}
	_, err := p.s.db.ExecContext(ctx, `
		insert into profiles (id, email, password_hash, full_name, role, department_id, created_at)
		values ($1, $2, $3, $4, $5, $6, $7)
	`, profile.ID, strings.ToLower(profile.Email), profile.PasswordHash, profile.FullName,
		string(profile.Role), departmentID, profile.CreatedAt)
	if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
		return auth.ErrAlreadyExists
	}
	return err
}

func (p pgProfiles) Find(ctx context.Context, id string) (*auth.Profile, error) {
	return p.scanOne(ctx, `
		select id, email, password_hash, full_name, role, department_id, created_at
		from profiles where id=$1
	`, id)
}

func (p pgProfiles) FindByEmail(ctx context.Context, email string) (*auth.Profile, error) {
	return p.scanOne(ctx, `
		select id, email, password_hash, full_name, role, department_id, created_at
		from profiles where email=$1
	`, strings.ToLower(strings.TrimSpace(email)))
}

func (p pgProfiles) scanOne(ctx context.Context, query string, arg any) (*auth.Profile, error) {
	var (
		profile      auth.Profile
		departmentID sql.NullString
	)
	err := p.s.db.QueryRowContext(ctx, query, arg).Scan(
		&profile.ID, &profile.Email, &profile.PasswordHash, &profile.FullName,
		&profile.Role, &departmentID, &profile.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	profile.DepartmentID = departmentID.String
	return &profile, nil
}
