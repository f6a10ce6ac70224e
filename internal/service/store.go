package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ghostname-service/internal/events"
	"github.com/spec-kit/ghostname-service/internal/observability"
	"github.com/spec-kit/ghostname-service/internal/repository"
)

// ReservationStore is the store surface the engines read from and write to.
type ReservationStore interface {
	Ghosts() repository.GhostNameRepository
	Users() repository.UserRepository
	Apply(ctx context.Context, cs *repository.Changeset) error
}

// Clock supplies the server time used for every persisted timestamp.
type Clock func() time.Time

// SystemClock returns the current UTC time at the precision the stores keep.
func SystemClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// sideEffects groups the best-effort work that follows a committed batch.
type sideEffects struct {
	dispatcher events.Dispatcher
	outcomes   observability.OutcomeRecorder
	logger     *zap.Logger
}

func (s sideEffects) record(ctx context.Context, outcome observability.Outcome, at time.Time) {
	if s.outcomes == nil {
		return
	}
	if err := s.outcomes.Record(ctx, outcome, at); err != nil {
		s.logger.Warn("record outcome failed", zap.String("outcome", string(outcome)), zap.Error(err))
	}
}

func (s sideEffects) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
