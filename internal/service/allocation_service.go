package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ghostname-service/internal/domain"
	"github.com/spec-kit/ghostname-service/internal/events"
	"github.com/spec-kit/ghostname-service/internal/observability"
	"github.com/spec-kit/ghostname-service/internal/repository"
)

// Defaults used when dependencies leave them unset.
const (
	DefaultHoldTTL   = time.Hour
	DefaultOfferSize = 3
)

// AllocationService offers candidate names and keeps them held for the caller.
type AllocationService struct {
	store     ReservationStore
	holdTTL   time.Duration
	offerSize int
	effects   sideEffects
}

// AllocationDependencies bundles collaborators.
type AllocationDependencies struct {
	Store      ReservationStore
	Dispatcher events.Dispatcher
	Outcomes   observability.OutcomeRecorder
	Logger     *zap.Logger
	HoldTTL    time.Duration
	OfferSize  int
}

// NewAllocationService creates the service.
func NewAllocationService(deps AllocationDependencies) *AllocationService {
	s := &AllocationService{
		store:     deps.Store,
		holdTTL:   deps.HoldTTL,
		offerSize: deps.OfferSize,
		effects: sideEffects{
			dispatcher: deps.Dispatcher,
			outcomes:   deps.Outcomes,
			logger:     orNop(deps.Logger),
		},
	}
	if s.holdTTL <= 0 {
		s.holdTTL = DefaultHoldTTL
	}
	if s.offerSize <= 0 {
		s.offerSize = DefaultOfferSize
	}
	return s
}

// OfferCandidates returns up to the offer size of names held for identity as of
// now. Names the identity already holds come first so a refresh shows the same
// set. An empty result means the pool is exhausted; it is not an error.
func (s *AllocationService) OfferCandidates(ctx context.Context, identity string, now time.Time) ([]*domain.GhostName, error) {
	if identity == "" {
		return nil, domain.ErrIdentityRequired
	}
	logger := s.effects.logger.With(zap.String("identity", identity))

	ghosts := s.store.Ghosts()
	sticky, err := ghosts.ListHeldBy(ctx, identity, s.offerSize)
	if err != nil {
		logger.Error("load held names failed", zap.Error(err))
		return nil, err
	}
	free, err := ghosts.ListClaimable(ctx, now.Add(-s.holdTTL), 2*s.offerSize)
	if err != nil {
		logger.Error("load free names failed", zap.Error(err))
		return nil, err
	}

	final := make([]*domain.GhostName, 0, s.offerSize)
	seen := make(map[int64]bool)
	add := func(g *domain.GhostName) {
		if len(final) < s.offerSize && !seen[g.ID] {
			seen[g.ID] = true
			final = append(final, g)
		}
	}
	for _, g := range sticky {
		if g.IsHeldBy(identity) {
			add(g)
		}
	}
	for _, g := range free {
		if g.OwnerEmail() != identity {
			add(g)
		}
	}

	if len(final) == 0 {
		logger.Warn("ghost name pool exhausted")
		s.effects.record(ctx, observability.OutcomeExhausted, now)
		return []*domain.GhostName{}, nil
	}

	cs := repository.NewChangeset(now)
	// Unselected claimable rows only carry expired holds; they go back to the pool.
	var released []string
	for _, g := range free {
		if !seen[g.ID] && g.HeldByEmail() != "" {
			g.Claim = domain.FreeClaim()
			cs.PutGhost(g)
			released = append(released, g.UniqueID)
		}
	}
	ids := make([]string, 0, len(final))
	for _, g := range final {
		g.Claim = domain.HeldClaim(identity, now)
		cs.PutGhost(g)
		ids = append(ids, g.UniqueID)
	}

	if err := s.store.Apply(ctx, cs); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			logger.Info("offer lost a race", zap.Error(err))
			s.effects.record(ctx, observability.OutcomeConflict, now)
		} else {
			logger.Error("write holds failed", zap.Error(err))
			s.effects.record(ctx, observability.OutcomeFailed, now)
		}
		return nil, err
	}

	s.effects.record(ctx, observability.OutcomeOffered, now)
	s.effects.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventNamesHeld,
		Identity:  identity,
		Timestamp: now,
		Payload:   events.NamesHeldPayload{UniqueIDs: ids, Released: released},
	})
	return final, nil
}
