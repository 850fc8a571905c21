package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orionjupiterai/finbrain-api/internal/domain/user"
	"github.com/orionjupiterai/finbrain-api/internal/observability"
)

type UsersStore struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersStore(pool *pgxpool.Pool, prom *observability.Prom) *UsersStore {
	return &UsersStore{pool: pool, prom: prom}
}

func (s *UsersStore) observe(op string, fn func() error) error {
	if s.prom != nil {
		return s.prom.ObserveStore(op, fn)
	}
	return fn()
}

func (s *UsersStore) Create(ctx context.Context, u user.User) error {
	err := s.observe("users.create", func() error {
		_, e := s.pool.Exec(ctx,
			`INSERT INTO users (email, password_hash, full_name, is_officer, created_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			u.Email, u.PasswordHash, u.FullName, u.IsOfficer, u.CreatedAt,
		)
		return e
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (s *UsersStore) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := s.observe("users.get_by_email", func() error {
		return s.pool.QueryRow(ctx,
			`SELECT email, password_hash, full_name, is_officer, created_at
			 FROM users
			 WHERE email = $1`,
			email,
		).Scan(&u.Email, &u.PasswordHash, &u.FullName, &u.IsOfficer, &u.CreatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func (s *UsersStore) Count(ctx context.Context) (int, error) {
	var total int
	err := s.observe("users.count", func() error {
		return s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total)
	})
	return total, err
}
