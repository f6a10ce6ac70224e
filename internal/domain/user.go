package domain

import "time"

// User is an identity that may own at most one ghost name.
type User struct {
	ID                    int64
	Email                 string
	FirstName             string
	LastName              string
	OwnedGhostID          string
	OwnedGhostName        string
	OwnedGhostDescription string
	Version               int64
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// OwnsGhost reports whether the user points at an owned ghost name.
func (u *User) OwnsGhost() bool {
	return u.OwnedGhostID != ""
}

// PointTo sets the denormalized owned-name pointer to g.
func (u *User) PointTo(g *GhostName) {
	u.OwnedGhostID = g.UniqueID
	u.OwnedGhostName = g.Name
	u.OwnedGhostDescription = g.Description
}
