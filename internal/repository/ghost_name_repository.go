package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/spec-kit/ghostname-service/internal/domain"
)

// GhostNameRepository encapsulates ghost name persistence.
type GhostNameRepository interface {
	GetByUniqueID(ctx context.Context, uniqueID string) (*domain.GhostName, error)
	GetByOwner(ctx context.Context, email string) (*domain.GhostName, error)
	ListHeldBy(ctx context.Context, email string, limit int) ([]*domain.GhostName, error)
	ListClaimable(ctx context.Context, cutoff time.Time, limit int) ([]*domain.GhostName, error)
	ListOwned(ctx context.Context) ([]*domain.GhostName, error)
	Insert(ctx context.Context, g *domain.GhostName) (bool, error)
	Update(ctx context.Context, g *domain.GhostName, at time.Time) error
}

type ghostNameRepository struct {
	db DBTX
}

// NewGhostNameRepository binds the repository to a connection or transaction.
func NewGhostNameRepository(db DBTX) GhostNameRepository {
	return &ghostNameRepository{db: db}
}

const ghostNameColumns = `id, unique_id, name, description, owner_email, owner_first_name, owner_last_name,
        held_by_email, held_at, version, created_at, updated_at`

func (r *ghostNameRepository) GetByUniqueID(ctx context.Context, uniqueID string) (*domain.GhostName, error) {
	query := `SELECT ` + ghostNameColumns + ` FROM ghost_names WHERE unique_id=$1`

	g, err := scanGhostName(r.db.QueryRowContext(ctx, query, uniqueID))
	if err != nil {
		return nil, storeError("get ghost name", err)
	}
	return g, nil
}

func (r *ghostNameRepository) GetByOwner(ctx context.Context, email string) (*domain.GhostName, error) {
	query := `SELECT ` + ghostNameColumns + ` FROM ghost_names WHERE owner_email=$1 AND owner_email <> ''`

	g, err := scanGhostName(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, storeError("get owned ghost name", err)
	}
	return g, nil
}

func (r *ghostNameRepository) ListHeldBy(ctx context.Context, email string, limit int) ([]*domain.GhostName, error) {
	query := `SELECT ` + ghostNameColumns + `
        FROM ghost_names
        WHERE held_by_email=$1 AND held_by_email <> ''
        ORDER BY id
        LIMIT $2`

	return r.list(ctx, "list held ghost names", query, email, limit)
}

// ListClaimable returns unowned names that are either unheld or whose hold was
// written at or before cutoff.
func (r *ghostNameRepository) ListClaimable(ctx context.Context, cutoff time.Time, limit int) ([]*domain.GhostName, error) {
	query := `SELECT ` + ghostNameColumns + `
        FROM ghost_names
        WHERE owner_email = '' AND (held_by_email = '' OR held_at IS NULL OR held_at <= $1)
        ORDER BY id
        LIMIT $2`

	return r.list(ctx, "list claimable ghost names", query, cutoff.UTC(), limit)
}

func (r *ghostNameRepository) ListOwned(ctx context.Context) ([]*domain.GhostName, error) {
	query := `SELECT ` + ghostNameColumns + `
        FROM ghost_names
        WHERE owner_email <> ''
        ORDER BY name`

	return r.list(ctx, "list owned ghost names", query)
}

// Insert adds a freshly seeded name. It reports false when a name with the same
// text already exists.
func (r *ghostNameRepository) Insert(ctx context.Context, g *domain.GhostName) (bool, error) {
	const query = `
        INSERT INTO ghost_names (unique_id, name, description, version, created_at, updated_at)
        VALUES ($1, $2, $3, 1, $4, $4)
        ON CONFLICT (name) DO NOTHING`

	created := g.CreatedAt.UTC()
	res, err := r.db.ExecContext(ctx, query, g.UniqueID, g.Name, g.Description, created)
	if err != nil {
		return false, storeError("insert ghost name", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storeError("insert ghost name", err)
	}
	if n == 0 {
		return false, nil
	}
	g.Version = 1
	g.UpdatedAt = g.CreatedAt
	return true, nil
}

// Update writes the claim columns of g if its version is unchanged since it was
// read. It does not modify g; the caller bumps the version after commit.
func (r *ghostNameRepository) Update(ctx context.Context, g *domain.GhostName, at time.Time) error {
	const query = `
        UPDATE ghost_names
        SET owner_email=$1, owner_first_name=$2, owner_last_name=$3, held_by_email=$4, held_at=$5,
            version=version+1, updated_at=$6
        WHERE id=$7 AND version=$8`

	cols := g.Claim.Columns()
	res, err := r.db.ExecContext(ctx, query,
		cols.OwnerEmail,
		cols.OwnerFirstName,
		cols.OwnerLastName,
		cols.HeldByEmail,
		nullTime(cols.HeldAt),
		at.UTC(),
		g.ID,
		g.Version,
	)
	if err != nil {
		return storeError("update ghost name", err)
	}
	return expectOneRow("update ghost name", res)
}

func (r *ghostNameRepository) list(ctx context.Context, op, query string, args ...any) ([]*domain.GhostName, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError(op, err)
	}
	defer rows.Close()

	var out []*domain.GhostName
	for rows.Next() {
		g, err := scanGhostName(rows)
		if err != nil {
			return nil, storeError(op, err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(op, err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGhostName(row rowScanner) (*domain.GhostName, error) {
	var (
		g      domain.GhostName
		cols   domain.ClaimColumns
		heldAt sql.NullTime
	)
	if err := row.Scan(
		&g.ID,
		&g.UniqueID,
		&g.Name,
		&g.Description,
		&cols.OwnerEmail,
		&cols.OwnerFirstName,
		&cols.OwnerLastName,
		&cols.HeldByEmail,
		&heldAt,
		&g.Version,
		&g.CreatedAt,
		&g.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if heldAt.Valid {
		cols.HeldAt = heldAt.Time.UTC()
	}
	g.CreatedAt = g.CreatedAt.UTC()
	g.UpdatedAt = g.UpdatedAt.UTC()
	g.Claim = domain.ClaimFromColumns(cols)
	return &g, nil
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func expectOneRow(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storeError(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrConflict)
	}
	return nil
}
