package dto

import "github.com/spec-kit/ghostname-service/internal/domain"

// ProfileRequest updates the caller's display name.
type ProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// OwnedGhost is the user's copy of its committed name.
type OwnedGhost struct {
	UniqueID    string `json:"unique_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UserResponse is the account view returned to its owner.
type UserResponse struct {
	Email        string      `json:"email"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	ProfileReady bool        `json:"profile_complete"`
	GhostName    *OwnedGhost `json:"ghost_name,omitempty"`
}

// NewUserResponse maps a user record.
func NewUserResponse(u *domain.User) UserResponse {
	resp := UserResponse{
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		ProfileReady: u.FirstName != "" && u.LastName != "",
	}
	if u.OwnsGhost() {
		resp.GhostName = &OwnedGhost{
			UniqueID:    u.OwnedGhostID,
			Name:        u.OwnedGhostName,
			Description: u.OwnedGhostDescription,
		}
	}
	return resp
}
