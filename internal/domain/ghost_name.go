package domain

import "time"

// ClaimKind enumerates the allocation states of a ghost name.
type ClaimKind string

const (
	ClaimFree  ClaimKind = "FREE"
	ClaimHeld  ClaimKind = "HELD"
	ClaimOwned ClaimKind = "OWNED"
)

// Claim is the allocation state of a ghost name. The zero value is a free claim;
// held and owned claims are built with HeldClaim and OwnedClaim so that a name can
// never be owned and held at the same time.
type Claim struct {
	kind      ClaimKind
	email     string
	since     time.Time
	firstName string
	lastName  string
}

// FreeClaim returns the unallocated state.
func FreeClaim() Claim {
	return Claim{kind: ClaimFree}
}

// HeldClaim returns a temporary hold by email starting at since.
func HeldClaim(email string, since time.Time) Claim {
	if email == "" {
		return FreeClaim()
	}
	return Claim{kind: ClaimHeld, email: email, since: since}
}

// OwnedClaim returns a committed ownership carrying the owner's display name.
func OwnedClaim(email, firstName, lastName string, since time.Time) Claim {
	if email == "" {
		return FreeClaim()
	}
	return Claim{kind: ClaimOwned, email: email, since: since, firstName: firstName, lastName: lastName}
}

// Kind reports the claim state.
func (c Claim) Kind() ClaimKind {
	if c.kind == "" {
		return ClaimFree
	}
	return c.kind
}

// Email returns the holder or owner, empty when free.
func (c Claim) Email() string { return c.email }

// Since returns when the hold or ownership was written.
func (c Claim) Since() time.Time { return c.since }

// OwnerName returns the denormalized owner display name.
func (c Claim) OwnerName() (string, string) { return c.firstName, c.lastName }

// GhostName is one allocatable name in the pool.
type GhostName struct {
	ID          int64
	UniqueID    string
	Name        string
	Description string
	Claim       Claim
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OwnerEmail returns the committed owner, empty when not owned.
func (g *GhostName) OwnerEmail() string {
	if g.Claim.Kind() != ClaimOwned {
		return ""
	}
	return g.Claim.Email()
}

// HeldByEmail returns the identity holding the name, empty when not held.
func (g *GhostName) HeldByEmail() string {
	if g.Claim.Kind() != ClaimHeld {
		return ""
	}
	return g.Claim.Email()
}

// IsOwned reports whether the name has been committed to anyone.
func (g *GhostName) IsOwned() bool {
	return g.Claim.Kind() == ClaimOwned
}

// IsHeldBy reports whether email currently holds the name, regardless of expiry.
func (g *GhostName) IsHeldBy(email string) bool {
	return email != "" && g.HeldByEmail() == email
}

// HoldExpired reports whether a hold written at Since is reclaimable at now.
// Free and owned names never expire.
func (g *GhostName) HoldExpired(now time.Time, ttl time.Duration) bool {
	if g.Claim.Kind() != ClaimHeld {
		return false
	}
	return !now.Before(g.Claim.Since().Add(ttl))
}

// ClaimableBy reports whether email may commit to the name at now: it must not be
// owned by someone else nor actively held by someone else.
func (g *GhostName) ClaimableBy(email string, now time.Time, ttl time.Duration) bool {
	switch g.Claim.Kind() {
	case ClaimOwned:
		return g.Claim.Email() == email
	case ClaimHeld:
		return g.Claim.Email() == email || g.HoldExpired(now, ttl)
	default:
		return true
	}
}

// ClaimColumns is the persisted projection of a Claim.
type ClaimColumns struct {
	OwnerEmail     string
	OwnerFirstName string
	OwnerLastName  string
	HeldByEmail    string
	HeldAt         time.Time
}

// Columns flattens the claim for storage.
func (c Claim) Columns() ClaimColumns {
	switch c.Kind() {
	case ClaimOwned:
		return ClaimColumns{
			OwnerEmail:     c.email,
			OwnerFirstName: c.firstName,
			OwnerLastName:  c.lastName,
			HeldAt:         c.since,
		}
	case ClaimHeld:
		return ClaimColumns{HeldByEmail: c.email, HeldAt: c.since}
	default:
		return ClaimColumns{HeldAt: c.since}
	}
}

// ClaimFromColumns rebuilds a Claim from stored columns. Ownership wins over a
// leftover hold.
func ClaimFromColumns(cols ClaimColumns) Claim {
	switch {
	case cols.OwnerEmail != "":
		return OwnedClaim(cols.OwnerEmail, cols.OwnerFirstName, cols.OwnerLastName, cols.HeldAt)
	case cols.HeldByEmail != "":
		return HeldClaim(cols.HeldByEmail, cols.HeldAt)
	default:
		return Claim{kind: ClaimFree, since: cols.HeldAt}
	}
}
