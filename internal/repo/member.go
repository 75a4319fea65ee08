package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/trip-planner/internal/domain"
)

// MemberRepo defines the persistence of trip memberships.
type MemberRepo interface {
	// Add grants role on tripID to userID. Adding an existing member
	// overwrites the role.
	Add(ctx context.Context, tripID, userID string, role domain.Role) error

	// ListByTrip returns the members of a trip with their profiles, in the
	// order they joined, owner first.
	ListByTrip(ctx context.Context, tripID string) ([]domain.Member, error)

	// UpdateRole changes a member's role.
	// Returns domain.ErrNotFound if the user is not a member of the trip.
	UpdateRole(ctx context.Context, tripID, userID string, role domain.Role) error

	// Remove revokes a membership.
	// Returns domain.ErrNotFound if the user is not a member of the trip.
	Remove(ctx context.Context, tripID, userID string) error
}

// pgMemberRepo is the Postgres implementation of MemberRepo.
type pgMemberRepo struct {
	db db
}

// NewMemberRepo constructs a MemberRepo backed by the provided db connection.
func NewMemberRepo(db db) MemberRepo {
	return &pgMemberRepo{db: db}
}

// Add upserts a membership row.
func (r *pgMemberRepo) Add(ctx context.Context, tripID, userID string, role domain.Role) error {
	const q = `
		INSERT INTO trip_members (trip_id, user_id, role)
		VALUES (@trip_id, @user_id, @role)
		ON CONFLICT (trip_id, user_id) DO UPDATE SET role = EXCLUDED.role`

	args := pgx.NamedArgs{"trip_id": tripID, "user_id": userID, "role": string(role)}
	if _, err := r.db.Exec(ctx, q, args); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("repo.MemberRepo.Add: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("repo.MemberRepo.Add: %w", err)
	}
	return nil
}

// ListByTrip returns memberships joined with profiles.
func (r *pgMemberRepo) ListByTrip(ctx context.Context, tripID string) ([]domain.Member, error) {
	const q = `
		SELECT m.trip_id, m.user_id, m.role, p.id, p.email, p.display_name, p.avatar_url
		FROM trip_members m
		JOIN profiles p ON p.id = m.user_id
		WHERE m.trip_id = @trip_id
		ORDER BY m.role = 'owner' DESC, m.created_at, m.user_id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.MemberRepo.ListByTrip: %w", err)
	}
	members, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Member, error) {
		return scanMember(row)
	})
	if err != nil {
		return nil, fmt.Errorf("repo.MemberRepo.ListByTrip: scan: %w", err)
	}
	return members, nil
}

// UpdateRole changes the role column of one membership.
func (r *pgMemberRepo) UpdateRole(ctx context.Context, tripID, userID string, role domain.Role) error {
	const q = `UPDATE trip_members SET role = @role WHERE trip_id = @trip_id AND user_id = @user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID, "role": string(role)})
	if err != nil {
		return fmt.Errorf("repo.MemberRepo.UpdateRole: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.MemberRepo.UpdateRole: %w", domain.ErrNotFound)
	}
	return nil
}

// Remove deletes one membership.
func (r *pgMemberRepo) Remove(ctx context.Context, tripID, userID string) error {
	const q = `DELETE FROM trip_members WHERE trip_id = @trip_id AND user_id = @user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("repo.MemberRepo.Remove: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.MemberRepo.Remove: %w", domain.ErrNotFound)
	}
	return nil
}

// scanMember maps a membership row joined with its profile.
func scanMember(s scanner) (domain.Member, error) {
	var (
		m    domain.Member
		role string
	)
	err := s.Scan(&m.TripID, &m.UserID, &role, &m.Profile.ID, &m.Profile.Email,
		&m.Profile.DisplayName, &m.Profile.AvatarURL)
	if err != nil {
		return domain.Member{}, err
	}
	m.Role = domain.Role(role)
	return m, nil
}

// isForeignKeyViolation reports whether err is Postgres error 23503.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
