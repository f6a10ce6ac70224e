package repository

import (
	"context"
	"time"

	"github.com/spec-kit/ghostname-service/internal/domain"
)

// UserRepository defines persistence access for identities.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateIfAbsent(ctx context.Context, email string, at time.Time) (*domain.User, error)
	Update(ctx context.Context, user *domain.User, at time.Time) error
}

type userRepository struct {
	db DBTX
}

// NewUserRepository binds the repository to a connection or transaction.
func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT id, email, first_name, last_name, owned_ghost_id, owned_ghost_name, owned_ghost_description,
            version, created_at, updated_at
        FROM users WHERE email=$1`

	var user domain.User
	if err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.OwnedGhostID,
		&user.OwnedGhostName,
		&user.OwnedGhostDescription,
		&user.Version,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, storeError("get user", err)
	}
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	return &user, nil
}

// CreateIfAbsent inserts an empty profile for email unless one exists, then
// returns the stored record.
func (r *userRepository) CreateIfAbsent(ctx context.Context, email string, at time.Time) (*domain.User, error) {
	const query = `
        INSERT INTO users (email, version, created_at, updated_at)
        VALUES ($1, 1, $2, $2)
        ON CONFLICT (email) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, email, at.UTC()); err != nil {
		return nil, storeError("create user", err)
	}
	return r.GetByEmail(ctx, email)
}

// Update writes the profile and owned-name pointer if the version is unchanged.
func (r *userRepository) Update(ctx context.Context, user *domain.User, at time.Time) error {
	const query = `
        UPDATE users
        SET first_name=$1, last_name=$2, owned_ghost_id=$3, owned_ghost_name=$4, owned_ghost_description=$5,
            version=version+1, updated_at=$6
        WHERE id=$7 AND version=$8`

	res, err := r.db.ExecContext(ctx, query,
		user.FirstName,
		user.LastName,
		user.OwnedGhostID,
		user.OwnedGhostName,
		user.OwnedGhostDescription,
		at.UTC(),
		user.ID,
		user.Version,
	)
	if err != nil {
		return storeError("update user", err)
	}
	return expectOneRow("update user", res)
}
