package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ghostname-service/internal/config"
	"github.com/spec-kit/ghostname-service/internal/domain"
	"github.com/spec-kit/ghostname-service/internal/events"
)

func TestUpsertUser_FindOrCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u1, err := f.users.UpsertUser(ctx, " x@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "x@example.com", u1.Email)

	f.clock.Set(t0.Add(time.Hour))
	u2, err := f.users.UpsertUser(ctx, "x@example.com")
	require.NoError(t, err)
	assert.Equal(t, u1.ID, u2.ID)
	assert.True(t, u2.CreatedAt.Equal(t0))

	_, err = f.users.UpsertUser(ctx, "  ")
	assert.ErrorIs(t, err, domain.ErrIdentityRequired)
}

func TestUpdateProfile_PropagatesToOwnedName(t *testing.T) {
	f := newFixture(t, "A", "B")
	ctx := context.Background()
	f.user(t, "x@example.com")

	_, err := f.commit.CommitSelection(ctx, "uid-A", t0, "x@example.com")
	require.NoError(t, err)

	f.clock.Set(t0.Add(time.Hour))
	u, err := f.users.UpdateProfile(ctx, "x@example.com", "  Mary-Jane ", "O'Neil")
	require.NoError(t, err)
	assert.Equal(t, "Mary-Jane", u.FirstName)
	assert.Equal(t, "uid-A", u.OwnedGhostID)

	a := f.ghost(t, "A")
	first, last := a.Claim.OwnerName()
	assert.Equal(t, "Mary-Jane", first)
	assert.Equal(t, "O'Neil", last)
	assert.True(t, a.Claim.Since().Equal(t0), "ownership time is kept")

	assert.Contains(t, f.events.types(), events.EventProfileUpdated)
}

func TestUpdateProfile_OwnerNameCopiedOnCommit(t *testing.T) {
	f := newFixture(t, "A")
	ctx := context.Background()
	f.user(t, "x@example.com")

	_, err := f.users.UpdateProfile(ctx, "x@example.com", "Ada", "Lovelace")
	require.NoError(t, err)
	_, err = f.commit.CommitSelection(ctx, "uid-A", t0, "x@example.com")
	require.NoError(t, err)

	first, last := f.ghost(t, "A").Claim.OwnerName()
	assert.Equal(t, "Ada", first)
	assert.Equal(t, "Lovelace", last)
}

func TestUpdateProfile_UnchangedIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user(t, "x@example.com")

	u, err := f.users.UpdateProfile(ctx, "x@example.com", "Ada", "Lovelace")
	require.NoError(t, err)
	version := u.Version

	u, err = f.users.UpdateProfile(ctx, "x@example.com", "Ada", "Lovelace")
	require.NoError(t, err)
	assert.Equal(t, version, u.Version)
}

func TestUpdateProfile_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user(t, "x@example.com")

	tests := []struct {
		name        string
		first, last string
		field       string
	}{
		{"empty first", "", "Lovelace", "first_name"},
		{"blank last", "Ada", "   ", "last_name"},
		{"digits", "Ada2", "Lovelace", "first_name"},
		{"markup", "Ada", "<b>Lovelace</b>", "last_name"},
		{"non ascii", "José", "Lovelace", "first_name"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.users.UpdateProfile(ctx, "x@example.com", tc.first, tc.last)
			require.ErrorIs(t, err, domain.ErrInvalidProfile)

			var pe *ProfileError
			require.ErrorAs(t, err, &pe)
			assert.Contains(t, pe.Fields, tc.field)
		})
	}
}

func TestUpdateProfile_UnknownUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.users.UpdateProfile(context.Background(), "nobody@example.com", "Ada", "Lovelace")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNormalizeProfile_ComposesCombiningMarks(t *testing.T) {
	first, last, err := NormalizeProfile("Ada", "Love lace")
	require.NoError(t, err)
	assert.Equal(t, "Ada", first)
	assert.Equal(t, "Love lace", last)

	// e + combining acute composes to a single rune, still outside the alphabet
	_, _, err = NormalizeProfile("Rene\u0301", "Smith")
	assert.ErrorIs(t, err, domain.ErrInvalidProfile)
}

func TestListClaimedNames_OnlyOwned(t *testing.T) {
	f := newFixture(t, "C", "A", "B")
	ctx := context.Background()

	got, err := f.listing.ListClaimedNames(ctx)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	f.user(t, "x@example.com")
	f.user(t, "y@example.com")
	_, err = f.commit.CommitSelection(ctx, "uid-C", t0, "x@example.com")
	require.NoError(t, err)
	_, err = f.commit.CommitSelection(ctx, "uid-A", t0, "y@example.com")
	require.NoError(t, err)
	_, err = f.alloc.OfferCandidates(ctx, "z@example.com", t0)
	require.NoError(t, err)

	got, err = f.listing.ListClaimedNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, namesOf(got))
}

func TestNotificationService_Handle(t *testing.T) {
	n := NewNotificationService(nil, configWithStubs())
	for _, et := range n.EventTypes() {
		assert.NoError(t, n.Handle(context.Background(), events.Event{Type: et, Identity: "x@example.com"}))
	}
	assert.NoError(t, n.Handle(context.Background(), events.Event{Type: "unknown"}))
}

func configWithStubs() config.NotificationConfig {
	return config.NotificationConfig{EmailFrom: "noreply@example.com", WebhookURL: "http://hooks.local/ghosts"}
}
