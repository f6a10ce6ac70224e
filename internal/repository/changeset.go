package repository

import (
	"sort"
	"time"

	"github.com/spec-kit/ghostname-service/internal/domain"
)

// Changeset collects the records an engine decided to rewrite. Every record
// carries the version it was read at; Store.Apply writes all of them or none.
type Changeset struct {
	at     time.Time
	ghosts map[string]*domain.GhostName
	users  map[string]*domain.User
}

// NewChangeset starts a batch stamped with at.
func NewChangeset(at time.Time) *Changeset {
	return &Changeset{
		at:     at,
		ghosts: make(map[string]*domain.GhostName),
		users:  make(map[string]*domain.User),
	}
}

// At returns the write timestamp of the batch.
func (c *Changeset) At() time.Time { return c.at }

// PutGhost stages g. A later put of the same unique id replaces the earlier one.
func (c *Changeset) PutGhost(g *domain.GhostName) {
	c.ghosts[g.UniqueID] = g
}

// PutUser stages u.
func (c *Changeset) PutUser(u *domain.User) {
	c.users[u.Email] = u
}

// Empty reports whether nothing was staged.
func (c *Changeset) Empty() bool {
	return len(c.ghosts) == 0 && len(c.users) == 0
}

// Ghosts returns the staged names in write order: releases before claims so the
// one-owner index never sees two rows for the same owner, each group by id.
func (c *Changeset) Ghosts() []*domain.GhostName {
	out := make([]*domain.GhostName, 0, len(c.ghosts))
	for _, g := range c.ghosts {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		oi, oj := out[i].IsOwned(), out[j].IsOwned()
		if oi != oj {
			return !oi
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Users returns the staged users ordered by id.
func (c *Changeset) Users() []*domain.User {
	out := make([]*domain.User, 0, len(c.users))
	for _, u := range c.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
