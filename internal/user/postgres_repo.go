package user

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const selectUser = `
	SELECT id, login_id, kakao_id, apple_id, nickname, gender, role, created_at
	FROM users
	`

func (r *PostgresRepo) findOne(ctx context.Context, where string, arg string) (User, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var user User
	err := r.db.QueryRow(timeoutCtx, selectUser+where+" LIMIT 1", arg).Scan(
		&user.ID, &user.LoginID, &user.KakaoID, &user.AppleID,
		&user.Nickname, &user.Gender, &user.Role, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

func (r *PostgresRepo) FindByLoginID(ctx context.Context, loginID string) (User, error) {
	return r.findOne(ctx, "WHERE login_id = $1", loginID)
}

func (r *PostgresRepo) FindByKakaoID(ctx context.Context, kakaoID string) (User, error) {
	return r.findOne(ctx, "WHERE kakao_id = $1", kakaoID)
}

func (r *PostgresRepo) FindByAppleID(ctx context.Context, appleID string) (User, error) {
	return r.findOne(ctx, "WHERE apple_id = $1", appleID)
}
