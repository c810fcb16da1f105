package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rolodexhq/rolodex/internal/application/ports"
	"github.com/rolodexhq/rolodex/internal/domain"
	domerrors "github.com/rolodexhq/rolodex/internal/domain/errors"
)

const (
	createUserSQL = `INSERT INTO users (id, email, password_hash, refresh_token, avatar, confirmed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	getUserByEmailSQL = `SELECT id, email, password_hash, refresh_token, avatar, confirmed, created_at, updated_at
		FROM users WHERE email = $1`
	confirmEmailSQL       = `UPDATE users SET confirmed = true, updated_at = NOW() WHERE email = $1`
	rotateRefreshTokenSQL = `UPDATE users SET refresh_token = $1, updated_at = NOW() WHERE email = $2`
	updateAvatarSQL       = `UPDATE users SET avatar = $1, updated_at = NOW() WHERE email = $2`
)

// uniqueViolation is the Postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.pool.Exec(ctx, createUserSQL,
		user.ID.UUID, user.Email, user.PasswordHash, user.RefreshToken,
		user.Avatar, user.Confirmed, user.CreatedAt, user.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domerrors.ErrEmailTaken
	}
	return err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, getUserByEmailSQL, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) ConfirmEmail(ctx context.Context, email string) error {
	tag, err := r.pool.Exec(ctx, confirmEmailSQL, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domerrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) RotateRefreshToken(ctx context.Context, email string, token *string) error {
	tag, err := r.pool.Exec(ctx, rotateRefreshTokenSQL, token, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domerrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, email, url string) error {
	tag, err := r.pool.Exec(ctx, updateAvatarSQL, url, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domerrors.ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID.UUID, &u.Email, &u.PasswordHash, &u.RefreshToken,
		&u.Avatar, &u.Confirmed, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

var _ ports.UserRepository = (*UserRepository)(nil)
