package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/signalement-service/internal/domain"
)

// AdminRepository is the optional secondary identity source. Callers must
// check Available before relying on lookups.
type AdminRepository interface {
	// Available reports whether the admin table exists and is reachable.
	Available(ctx context.Context) bool
	Create(ctx context.Context, admin *domain.Admin) error
	GetByID(ctx context.Context, id int64) (*domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
}

type adminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository returns a Postgres-backed implementation.
func NewAdminRepository(pool *pgxpool.Pool) AdminRepository {
	return &adminRepository{pool: pool}
}

func (r *adminRepository) Available(ctx context.Context) bool {
	if r.pool == nil {
		return false
	}
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT to_regclass('admin') IS NOT NULL`).Scan(&exists); err != nil {
		return false
	}
	return exists
}

func (r *adminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	const query = `
        INSERT INTO admin (email, password_hash)
        VALUES ($1, $2)
        RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query, admin.Email, admin.PasswordHash).Scan(&admin.ID, &admin.CreatedAt)
	return translateError(err)
}

func (r *adminRepository) GetByID(ctx context.Context, id int64) (*domain.Admin, error) {
	return r.fetchSingle(ctx, `SELECT id, email, password_hash, created_at FROM admin WHERE id=$1`, id)
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	return r.fetchSingle(ctx, `SELECT id, email, password_hash, created_at FROM admin WHERE email=$1`, email)
}

func (r *adminRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Admin, error) {
	var admin domain.Admin
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&admin.ID,
		&admin.Email,
		&admin.PasswordHash,
		&admin.CreatedAt,
	); err != nil {
		return nil, translateError(err)
	}
	return &admin, nil
}
