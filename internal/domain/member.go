package domain

import "fmt"

// Role is a member's permission level on a trip.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// Profile is the public view of a user account.
type Profile struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// Member associates a trip with a user and a role.
type Member struct {
	TripID  string  `json:"tripId"`
	UserID  string  `json:"userId"`
	Role    Role    `json:"role"`
	Profile Profile `json:"profile"`
}

// ValidateInviteRole rejects roles that cannot be granted by invitation.
// Ownership is assigned once, to the creator.
func ValidateInviteRole(r Role) error {
	if !r.Valid() || r == RoleOwner {
		return fmt.Errorf("%w: role must be editor or viewer", ErrValidation)
	}
	return nil
}
