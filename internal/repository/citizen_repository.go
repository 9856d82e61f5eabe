package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/signalement-service/internal/domain"
)

// CitizenRepository defines persistence access for citizens.
type CitizenRepository interface {
	Create(ctx context.Context, citizen *domain.Citizen) error
	Update(ctx context.Context, citizen *domain.Citizen) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Citizen, error)
	GetByEmail(ctx context.Context, email string) (*domain.Citizen, error)
	List(ctx context.Context, limit, offset int) ([]domain.Citizen, error)
}

type citizenRepository struct {
	pool *pgxpool.Pool
}

// NewCitizenRepository returns a Postgres-backed implementation.
func NewCitizenRepository(pool *pgxpool.Pool) CitizenRepository {
	return &citizenRepository{pool: pool}
}

const citizenColumns = `id, email, password_hash, first_name, last_name, phone_number, created_at`

func (r *citizenRepository) Create(ctx context.Context, citizen *domain.Citizen) error {
	const query = `
        INSERT INTO citizen (email, password_hash, first_name, last_name, phone_number)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		citizen.Email,
		citizen.PasswordHash,
		citizen.FirstName,
		citizen.LastName,
		citizen.PhoneNumber,
	).Scan(&citizen.ID, &citizen.CreatedAt)
	return translateError(err)
}

func (r *citizenRepository) Update(ctx context.Context, citizen *domain.Citizen) error {
	const query = `
        UPDATE citizen SET email=$1, password_hash=$2, first_name=$3, last_name=$4, phone_number=$5
        WHERE id=$6`

	cmd, err := r.pool.Exec(ctx, query,
		citizen.Email,
		citizen.PasswordHash,
		citizen.FirstName,
		citizen.LastName,
		citizen.PhoneNumber,
		citizen.ID,
	)
	if err != nil {
		return translateError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *citizenRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM citizen WHERE id=$1`, id)
	if err != nil {
		return translateError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *citizenRepository) GetByID(ctx context.Context, id int64) (*domain.Citizen, error) {
	return r.fetchSingle(ctx, `SELECT `+citizenColumns+` FROM citizen WHERE id=$1`, id)
}

func (r *citizenRepository) GetByEmail(ctx context.Context, email string) (*domain.Citizen, error) {
	return r.fetchSingle(ctx, `SELECT `+citizenColumns+` FROM citizen WHERE email=$1`, email)
}

func (r *citizenRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Citizen, error) {
	var citizen domain.Citizen
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&citizen.ID,
		&citizen.Email,
		&citizen.PasswordHash,
		&citizen.FirstName,
		&citizen.LastName,
		&citizen.PhoneNumber,
		&citizen.CreatedAt,
	); err != nil {
		return nil, translateError(err)
	}
	return &citizen, nil
}

func (r *citizenRepository) List(ctx context.Context, limit, offset int) ([]domain.Citizen, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+citizenColumns+` FROM citizen ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Citizen
	for rows.Next() {
		var citizen domain.Citizen
		if err := rows.Scan(
			&citizen.ID,
			&citizen.Email,
			&citizen.PasswordHash,
			&citizen.FirstName,
			&citizen.LastName,
			&citizen.PhoneNumber,
			&citizen.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, citizen)
	}
	return result, rows.Err()
}
