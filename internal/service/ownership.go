package service

import (
	"time"

	"github.com/spec-kit/ghostname-service/internal/domain"
)

// bindOwner makes u the owner of g: g takes u's display name and u points at g.
// Every path that writes owner fields goes through here so both records agree.
func bindOwner(g *domain.GhostName, u *domain.User, since time.Time) {
	g.Claim = domain.OwnedClaim(u.Email, u.FirstName, u.LastName, since)
	u.PointTo(g)
}
