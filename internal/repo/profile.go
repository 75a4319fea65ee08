package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/trip-planner/internal/domain"
)

// ProfileRepo defines the persistence of user profiles.
type ProfileRepo interface {
	// FindByEmail looks a profile up by its (case-insensitive) email.
	// Returns domain.ErrUserNotFound if no profile has that email.
	FindByEmail(ctx context.Context, email string) (domain.Profile, error)

	// Upsert creates or refreshes the profile row of a signed-in user.
	Upsert(ctx context.Context, p domain.Profile) error
}

// pgProfileRepo is the Postgres implementation of ProfileRepo.
type pgProfileRepo struct {
	db db
}

// NewProfileRepo constructs a ProfileRepo backed by the provided db connection.
func NewProfileRepo(db db) ProfileRepo {
	return &pgProfileRepo{db: db}
}

// FindByEmail returns the profile with the given email.
func (r *pgProfileRepo) FindByEmail(ctx context.Context, email string) (domain.Profile, error) {
	const q = `
		SELECT id, email, display_name, avatar_url
		FROM profiles
		WHERE lower(email) = lower(@email)`

	var p domain.Profile
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"email": email}).
		Scan(&p.ID, &p.Email, &p.DisplayName, &p.AvatarURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, fmt.Errorf("repo.ProfileRepo.FindByEmail: %w", domain.ErrUserNotFound)
		}
		return domain.Profile{}, fmt.Errorf("repo.ProfileRepo.FindByEmail: %w", err)
	}
	return p, nil
}

// Upsert inserts the profile or refreshes its email. Display name and avatar
// are only overwritten when the caller supplies them.
func (r *pgProfileRepo) Upsert(ctx context.Context, p domain.Profile) error {
	const q = `
		INSERT INTO profiles (id, email, display_name, avatar_url)
		VALUES (@id, @email, @display_name, @avatar_url)
		ON CONFLICT (id) DO UPDATE
		SET email        = EXCLUDED.email,
		    display_name = COALESCE(NULLIF(EXCLUDED.display_name, ''), profiles.display_name),
		    avatar_url   = COALESCE(NULLIF(EXCLUDED.avatar_url, ''), profiles.avatar_url),
		    updated_at   = now()`

	args := pgx.NamedArgs{
		"id":           p.ID,
		"email":        p.Email,
		"display_name": p.DisplayName,
		"avatar_url":   p.AvatarURL,
	}
	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.ProfileRepo.Upsert: %w", err)
	}
	return nil
}
