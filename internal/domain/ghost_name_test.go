package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaim_ZeroValueIsFree(t *testing.T) {
	var c Claim
	assert.Equal(t, ClaimFree, c.Kind())
	assert.Empty(t, c.Email())
}

func TestClaim_EmptyEmailCollapsesToFree(t *testing.T) {
	now := time.Now()
	assert.Equal(t, ClaimFree, HeldClaim("", now).Kind())
	assert.Equal(t, ClaimFree, OwnedClaim("", "A", "B", now).Kind())
}

func TestClaim_ColumnsRoundTrip(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	owned := OwnedClaim("x@example.com", "Ada", "Lovelace", at)
	cols := owned.Columns()
	assert.Equal(t, "x@example.com", cols.OwnerEmail)
	assert.Empty(t, cols.HeldByEmail, "owned names carry no hold")
	assert.Equal(t, owned, ClaimFromColumns(cols))

	held := HeldClaim("y@example.com", at)
	cols = held.Columns()
	assert.Empty(t, cols.OwnerEmail)
	assert.Equal(t, "y@example.com", cols.HeldByEmail)
	assert.Equal(t, held, ClaimFromColumns(cols))
}

func TestClaimFromColumns_OwnershipWinsOverLeftoverHold(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := ClaimFromColumns(ClaimColumns{OwnerEmail: "a@example.com", HeldByEmail: "a@example.com", HeldAt: at})
	assert.Equal(t, ClaimOwned, c.Kind())
	assert.Equal(t, "a@example.com", c.Email())
}

func TestGhostName_HoldExpiryBoundary(t *testing.T) {
	held := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	g := &GhostName{Claim: HeldClaim("x@example.com", held)}

	assert.False(t, g.HoldExpired(held.Add(time.Hour-time.Nanosecond), time.Hour))
	assert.True(t, g.HoldExpired(held.Add(time.Hour), time.Hour))
	assert.True(t, g.HoldExpired(held.Add(2*time.Hour), time.Hour))
}

func TestGhostName_ClaimableBy(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	ttl := time.Hour

	tests := []struct {
		name  string
		claim Claim
		who   string
		want  bool
	}{
		{"free", FreeClaim(), "x@example.com", true},
		{"held by self", HeldClaim("x@example.com", now), "x@example.com", true},
		{"held by other active", HeldClaim("y@example.com", now.Add(-time.Minute)), "x@example.com", false},
		{"held by other expired", HeldClaim("y@example.com", now.Add(-ttl)), "x@example.com", true},
		{"owned by self", OwnedClaim("x@example.com", "", "", now), "x@example.com", true},
		{"owned by other", OwnedClaim("y@example.com", "", "", now), "x@example.com", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := &GhostName{Claim: tc.claim}
			assert.Equal(t, tc.want, g.ClaimableBy(tc.who, now, ttl))
		})
	}
}

func TestUser_PointTo(t *testing.T) {
	u := &User{Email: "x@example.com"}
	require.False(t, u.OwnsGhost())

	u.PointTo(&GhostName{UniqueID: "u-1", Name: "Casper", Description: "friendly"})
	assert.True(t, u.OwnsGhost())
	assert.Equal(t, "u-1", u.OwnedGhostID)
	assert.Equal(t, "Casper", u.OwnedGhostName)
	assert.Equal(t, "friendly", u.OwnedGhostDescription)
}
