package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ghostname-service/internal/domain"
)

// DefaultBatchSize bounds the number of names written per transaction.
const DefaultBatchSize = 500

// Inserter persists seeded names and reports how many were new.
type Inserter interface {
	InsertGhostNames(ctx context.Context, names []*domain.GhostName) (int, error)
}

// Result summarizes a seeding run.
type Result struct {
	Read     int
	Inserted int
	Skipped  int
}

// Loader copies the inventory into the store. Names already present are skipped
// so a rerun only adds what is new.
type Loader struct {
	store     Inserter
	logger    *zap.Logger
	batchSize int
	now       func() time.Time
	newID     func() string
}

// NewLoader constructs a loader. A non-positive batchSize uses DefaultBatchSize.
func NewLoader(store Inserter, logger *zap.Logger, batchSize int) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Loader{
		store:     store,
		logger:    logger,
		batchSize: batchSize,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

// Load reads src and inserts its entries in batches.
func (l *Loader) Load(ctx context.Context, src Source) (Result, error) {
	entries, err := src.Entries(ctx)
	if err != nil {
		return Result{}, err
	}

	res := Result{Read: len(entries)}
	now := l.now()
	batch := make([]*domain.GhostName, 0, l.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := l.store.InsertGhostNames(ctx, batch)
		if err != nil {
			return fmt.Errorf("insert batch: %w", err)
		}
		res.Inserted += n
		l.logger.Info("seed batch written", zap.Int("size", len(batch)), zap.Int("inserted", n))
		batch = batch[:0]
		return nil
	}

	for i, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			l.logger.Warn("seed entry without a name", zap.Int("index", i))
			continue
		}
		batch = append(batch, &domain.GhostName{
			UniqueID:    l.newID(),
			Name:        name,
			Description: strings.TrimSpace(e.Description),
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if len(batch) == l.batchSize {
			if err := flush(); err != nil {
				return res, err
			}
		}
	}
	if err := flush(); err != nil {
		return res, err
	}

	res.Skipped = res.Read - res.Inserted
	l.logger.Info("seed complete", zap.Int("read", res.Read), zap.Int("inserted", res.Inserted), zap.Int("skipped", res.Skipped))
	return res, nil
}
