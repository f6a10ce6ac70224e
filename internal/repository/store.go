package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spec-kit/ghostname-service/internal/domain"
)

// Store is the resource store shared by the engines: indexed reads through the
// repositories plus all-or-nothing changeset writes.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Ghosts returns a ghost name repository reading outside any transaction.
func (s *Store) Ghosts() GhostNameRepository {
	return NewGhostNameRepository(s.db)
}

// Users returns a user repository reading outside any transaction.
func (s *Store) Users() UserRepository {
	return NewUserRepository(s.db)
}

// Apply writes every staged record in one transaction. Each write is checked
// against the version the record was read at; any mismatch rolls the whole batch
// back with domain.ErrConflict. On success the in-memory versions are advanced.
func (s *Store) Apply(ctx context.Context, cs *Changeset) error {
	if cs == nil || cs.Empty() {
		return nil
	}

	ghosts := cs.Ghosts()
	users := cs.Users()

	err := WithTx(ctx, s.db, nil, func(ctx context.Context, tx DBTX) error {
		ghostRepo := NewGhostNameRepository(tx)
		for _, g := range ghosts {
			if err := ghostRepo.Update(ctx, g, cs.At()); err != nil {
				return err
			}
		}
		userRepo := NewUserRepository(tx)
		for _, u := range users {
			if err := userRepo.Update(ctx, u, cs.At()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return storeError("apply changeset", err)
	}

	at := cs.At().UTC()
	for _, g := range ghosts {
		g.Version++
		g.UpdatedAt = at
	}
	for _, u := range users {
		u.Version++
		u.UpdatedAt = at
	}
	return nil
}

// InsertGhostNames adds a batch of seeded names in one transaction and returns how
// many were new.
func (s *Store) InsertGhostNames(ctx context.Context, names []*domain.GhostName) (int, error) {
	inserted := 0
	err := WithTx(ctx, s.db, nil, func(ctx context.Context, tx DBTX) error {
		repo := NewGhostNameRepository(tx)
		for _, g := range names {
			ok, err := repo.Insert(ctx, g)
			if err != nil {
				return err
			}
			if ok {
				inserted++
			}
		}
		return nil
	})
	if err != nil {
		return 0, storeError("insert ghost names", err)
	}
	return inserted, nil
}

// Ping verifies the store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("ping store: %w", domain.ErrStoreUnavailable)
	}
	if err := s.db.PingContext(ctx); err != nil {
		return storeError("ping store", err)
	}
	return nil
}
