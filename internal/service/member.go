package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/session"
	"github.com/pkordes/trip-planner/internal/store"
)

// memberRepo is the membership part of the remote repository.
type memberRepo interface {
	Add(ctx context.Context, tripID, userID string, role domain.Role) error
	ListByTrip(ctx context.Context, tripID string) ([]domain.Member, error)
	UpdateRole(ctx context.Context, tripID, userID string, role domain.Role) error
	Remove(ctx context.Context, tripID, userID string) error
}

// profileFinder resolves an invitee by email.
type profileFinder interface {
	FindByEmail(ctx context.Context, email string) (domain.Profile, error)
}

// MemberService manages trip collaborators. Membership only exists in the
// remote store, so every operation requires a signed-in user.
type MemberService struct {
	store    *store.TripStore
	session  sessionState
	members  memberRepo
	profiles profileFinder
	logger   *slog.Logger
}

// NewMemberService constructs a MemberService.
func NewMemberService(st *store.TripStore, sess sessionState, members memberRepo, profiles profileFinder, logger *slog.Logger) *MemberService {
	return &MemberService{store: st, session: sess, members: members, profiles: profiles, logger: logger}
}

// List returns the members of a trip with their profiles, owner first.
func (s *MemberService) List(ctx context.Context, tripID string) ([]domain.Member, error) {
	if _, err := s.caller(tripID); err != nil {
		return nil, fmt.Errorf("service.MemberService.List: %w", err)
	}
	members, err := s.refresh(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.MemberService.List: %w", err)
	}
	return members, nil
}

// Invite adds the user registered under email as editor or viewer.
// Returns domain.ErrUserNotFound when no profile has that email.
func (s *MemberService) Invite(ctx context.Context, tripID, email string, role domain.Role) ([]domain.Member, error) {
	if err := domain.ValidateInviteRole(role); err != nil {
		return nil, fmt.Errorf("service.MemberService.Invite: %w", err)
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("service.MemberService.Invite: %w: email is required", domain.ErrValidation)
	}
	if err := s.requireOwner(tripID); err != nil {
		return nil, fmt.Errorf("service.MemberService.Invite: %w", err)
	}
	profile, err := s.profiles.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("service.MemberService.Invite: %w", err)
	}
	if err := s.members.Add(ctx, tripID, profile.ID, role); err != nil {
		return nil, fmt.Errorf("service.MemberService.Invite: %w", err)
	}
	s.logger.Info("member invited", "trip_id", tripID, "user_id", profile.ID, "role", role)
	return s.refresh(ctx, tripID)
}

// UpdateRole changes a collaborator's role. The owner's role is fixed.
func (s *MemberService) UpdateRole(ctx context.Context, tripID, userID string, role domain.Role) ([]domain.Member, error) {
	if err := domain.ValidateInviteRole(role); err != nil {
		return nil, fmt.Errorf("service.MemberService.UpdateRole: %w", err)
	}
	if err := s.requireOwner(tripID); err != nil {
		return nil, fmt.Errorf("service.MemberService.UpdateRole: %w", err)
	}
	if s.isOwner(tripID, userID) {
		return nil, fmt.Errorf("service.MemberService.UpdateRole: %w: the owner's role cannot change", domain.ErrForbidden)
	}
	if err := s.members.UpdateRole(ctx, tripID, userID, role); err != nil {
		return nil, fmt.Errorf("service.MemberService.UpdateRole: %w", err)
	}
	return s.refresh(ctx, tripID)
}

// Remove takes a collaborator off the trip. The owner may remove anyone but
// themselves; other members may only remove themselves.
func (s *MemberService) Remove(ctx context.Context, tripID, userID string) ([]domain.Member, error) {
	id, err := s.caller(tripID)
	if err != nil {
		return nil, fmt.Errorf("service.MemberService.Remove: %w", err)
	}
	if s.isOwner(tripID, userID) {
		return nil, fmt.Errorf("service.MemberService.Remove: %w: the owner cannot be removed", domain.ErrForbidden)
	}
	if userID != id.UserID && !s.isOwner(tripID, id.UserID) {
		return nil, fmt.Errorf("service.MemberService.Remove: %w", domain.ErrForbidden)
	}
	if err := s.members.Remove(ctx, tripID, userID); err != nil {
		return nil, fmt.Errorf("service.MemberService.Remove: %w", err)
	}
	if userID == id.UserID {
		// left the trip: it is no longer visible to this user
		s.forget(tripID)
		return []domain.Member{}, nil
	}
	return s.refresh(ctx, tripID)
}

// caller returns the signed-in identity after checking the trip is loaded.
func (s *MemberService) caller(tripID string) (*session.Identity, error) {
	id := s.session.Identity()
	if id == nil {
		return nil, domain.ErrAuthRequired
	}
	if _, ok := s.store.Trip(tripID); !ok {
		return nil, domain.ErrNotFound
	}
	return id, nil
}

func (s *MemberService) requireOwner(tripID string) error {
	id, err := s.caller(tripID)
	if err != nil {
		return err
	}
	if !s.isOwner(tripID, id.UserID) {
		return domain.ErrForbidden
	}
	return nil
}

func (s *MemberService) isOwner(tripID, userID string) bool {
	trip, ok := s.store.Trip(tripID)
	if !ok {
		return false
	}
	if trip.OwnerID != "" {
		return trip.OwnerID == userID
	}
	for _, m := range trip.Members {
		if m.UserID == userID {
			return m.Role == domain.RoleOwner
		}
	}
	return false
}

// refresh reloads the member list and writes it into the in-memory trip.
func (s *MemberService) refresh(ctx context.Context, tripID string) ([]domain.Member, error) {
	members, err := s.members.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.UpdateTrip(tripID, func(t domain.Trip) (domain.Trip, error) {
		t.Members = members
		return t, nil
	}); err != nil {
		return nil, err
	}
	return members, nil
}

func (s *MemberService) forget(tripID string) {
	_, _ = s.store.Update(func(st store.State) (store.State, error) {
		if i := indexByID(st.Trips, tripID, tripIDOf); i >= 0 {
			st.Trips = removeAt(st.Trips, i)
		}
		if st.ActiveTripID == tripID {
			st.ActiveTripID = ""
		}
		return st, nil
	})
}
