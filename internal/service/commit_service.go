package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ghostname-service/internal/domain"
	"github.com/spec-kit/ghostname-service/internal/events"
	"github.com/spec-kit/ghostname-service/internal/observability"
	"github.com/spec-kit/ghostname-service/internal/repository"
)

// CommitService turns a held candidate into the caller's owned name.
type CommitService struct {
	store     ReservationStore
	now       Clock
	holdTTL   time.Duration
	offerSize int
	effects   sideEffects
}

// CommitDependencies bundles collaborators.
type CommitDependencies struct {
	Store      ReservationStore
	Dispatcher events.Dispatcher
	Outcomes   observability.OutcomeRecorder
	Logger     *zap.Logger
	Clock      Clock
	HoldTTL    time.Duration
	OfferSize  int
}

// Selection is the outcome of a successful commit.
type Selection struct {
	Ghost *domain.GhostName
	User  *domain.User
}

// NewCommitService creates the service.
func NewCommitService(deps CommitDependencies) *CommitService {
	s := &CommitService{
		store:     deps.Store,
		now:       deps.Clock,
		holdTTL:   deps.HoldTTL,
		offerSize: deps.OfferSize,
		effects: sideEffects{
			dispatcher: deps.Dispatcher,
			outcomes:   deps.Outcomes,
			logger:     orNop(deps.Logger),
		},
	}
	if s.now == nil {
		s.now = SystemClock
	}
	if s.holdTTL <= 0 {
		s.holdTTL = DefaultHoldTTL
	}
	if s.offerSize <= 0 {
		s.offerSize = DefaultOfferSize
	}
	return s
}

// CommitSelection assigns the name identified by uniqueID to identity in one
// batch: the caller's other holds are released, any name it owned before goes
// back to the pool, and the user record points at the new name. reservedAt is the
// client's view of when the candidate was offered; it is logged and published
// but every stored timestamp is server time.
func (s *CommitService) CommitSelection(ctx context.Context, uniqueID string, reservedAt time.Time, identity string) (*Selection, error) {
	if identity == "" {
		return nil, domain.ErrIdentityRequired
	}
	now := s.now()
	logger := s.effects.logger.With(
		zap.String("identity", identity),
		zap.String("unique_id", uniqueID),
		zap.Time("reserved_at", reservedAt),
	)

	ghosts := s.store.Ghosts()
	target, err := ghosts.GetByUniqueID(ctx, uniqueID)
	if err != nil {
		return nil, s.readFailed(logger, "load target", err)
	}
	if !target.ClaimableBy(identity, now, s.holdTTL) {
		logger.Info("ghost name claimed by another identity", zap.String("claim", string(target.Claim.Kind())))
		s.effects.record(ctx, observability.OutcomeConflict, now)
		return nil, fmt.Errorf("commit %s: %w", uniqueID, domain.ErrConflict)
	}

	user, err := s.store.Users().GetByEmail(ctx, identity)
	if err != nil {
		return nil, s.readFailed(logger, "load user", err)
	}
	held, err := ghosts.ListHeldBy(ctx, identity, s.offerSize)
	if err != nil {
		return nil, s.readFailed(logger, "load held names", err)
	}
	previous, err := ghosts.GetByOwner(ctx, identity)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, s.readFailed(logger, "load owned name", err)
	}

	cs := repository.NewChangeset(now)
	for _, g := range held {
		if g.ID == target.ID {
			continue
		}
		g.Claim = domain.FreeClaim()
		cs.PutGhost(g)
	}
	var vacated *domain.GhostName
	if previous != nil && previous.ID != target.ID {
		previous.Claim = domain.FreeClaim()
		cs.PutGhost(previous)
		vacated = previous
	}
	bindOwner(target, user, now)
	cs.PutGhost(target)
	cs.PutUser(user)

	if err := s.store.Apply(ctx, cs); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			logger.Info("commit lost a race", zap.Error(err))
			s.effects.record(ctx, observability.OutcomeConflict, now)
		} else {
			logger.Error("commit write failed", zap.Error(err))
			s.effects.record(ctx, observability.OutcomeFailed, now)
		}
		return nil, err
	}

	logger.Info("ghost name committed", zap.String("name", target.Name))
	s.effects.record(ctx, observability.OutcomeCommitted, now)

	payload := events.NameCommittedPayload{UniqueID: target.UniqueID, Name: target.Name, ReservedAt: reservedAt}
	if vacated != nil {
		payload.Previous = vacated.UniqueID
		s.effects.publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventNameReleased,
			Identity:  identity,
			Timestamp: now,
			Payload:   events.NameReleasedPayload{UniqueID: vacated.UniqueID, Name: vacated.Name},
		})
	}
	s.effects.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventNameCommitted,
		Identity:  identity,
		Timestamp: now,
		Payload:   payload,
	})

	return &Selection{Ghost: target, User: user}, nil
}

func (s *CommitService) readFailed(logger *zap.Logger, what string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		logger.Info(what+": not found")
	} else {
		logger.Error(what+" failed", zap.Error(err))
	}
	return err
}
