package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ghostname-service/internal/config"
	"github.com/spec-kit/ghostname-service/internal/domain"
	"github.com/spec-kit/ghostname-service/internal/events"
	"github.com/spec-kit/ghostname-service/internal/observability"
	"github.com/spec-kit/ghostname-service/internal/persistence"
	"github.com/spec-kit/ghostname-service/internal/repository"
)

var t0 = time.Date(2025, 10, 31, 18, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type eventLog struct {
	mu     sync.Mutex
	events []events.Event
}

func (l *eventLog) handler(_ context.Context, e events.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
	return nil
}

func (l *eventLog) types() []events.EventType {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]events.EventType, 0, len(l.events))
	for _, e := range l.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	store    *repository.Store
	clock    *fakeClock
	outcomes *observability.MemoryOutcomes
	events   *eventLog
	alloc    *AllocationService
	commit   *CommitService
	users    *UserService
	listing  *ListingService
}

func newFixture(t *testing.T, names ...string) *fixture {
	t.Helper()
	db, err := persistence.OpenSQLite(filepath.Join(t.TempDir(), "ghosts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, persistence.RunMigrations(context.Background(), db, config.DriverSQLite, zap.NewNop()))

	store := repository.NewStore(db)
	batch := make([]*domain.GhostName, 0, len(names))
	for _, n := range names {
		batch = append(batch, &domain.GhostName{UniqueID: "uid-" + n, Name: n, Description: "the " + n, CreatedAt: t0})
	}
	_, err = store.InsertGhostNames(context.Background(), batch)
	require.NoError(t, err)

	f := &fixture{
		store:    store,
		clock:    &fakeClock{now: t0},
		outcomes: observability.NewMemoryOutcomes(),
		events:   &eventLog{},
	}
	d := events.NewInMemoryDispatcher()
	for _, et := range []events.EventType{events.EventNamesHeld, events.EventNameCommitted, events.EventNameReleased, events.EventProfileUpdated} {
		d.Subscribe(et, f.events.handler)
	}

	f.alloc = NewAllocationService(AllocationDependencies{
		Store: store, Dispatcher: d, Outcomes: f.outcomes, HoldTTL: time.Hour, OfferSize: 3,
	})
	f.commit = NewCommitService(CommitDependencies{
		Store: store, Dispatcher: d, Outcomes: f.outcomes, Clock: f.clock.Now, HoldTTL: time.Hour, OfferSize: 3,
	})
	f.users = NewUserService(UserDependencies{Store: store, Dispatcher: d, Clock: f.clock.Now})
	f.listing = NewListingService(store)
	return f
}

func (f *fixture) user(t *testing.T, email string) *domain.User {
	t.Helper()
	u, err := f.users.UpsertUser(context.Background(), email)
	require.NoError(t, err)
	return u
}

func (f *fixture) ghost(t *testing.T, name string) *domain.GhostName {
	t.Helper()
	g, err := f.store.Ghosts().GetByUniqueID(context.Background(), "uid-"+name)
	require.NoError(t, err)
	return g
}

func namesOf(gs []*domain.GhostName) []string {
	out := make([]string, 0, len(gs))
	for _, g := range gs {
		out = append(out, g.Name)
	}
	return out
}
