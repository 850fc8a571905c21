package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orionjupiterai/finbrain-api/internal/domain/account"
	"github.com/orionjupiterai/finbrain-api/internal/observability"
)

type AccountsStore struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewAccountsStore(pool *pgxpool.Pool, prom *observability.Prom) *AccountsStore {
	return &AccountsStore{pool: pool, prom: prom}
}

func (s *AccountsStore) observe(op string, fn func() error) error {
	if s.prom != nil {
		return s.prom.ObserveStore(op, fn)
	}
	return fn()
}

func (s *AccountsStore) Create(ctx context.Context, a account.Account) error {
	return s.observe("accounts.create", func() error {
		_, e := s.pool.Exec(ctx,
			`INSERT INTO accounts
			   (id, user_email, account_type, account_name, institution, balance,
			    credit_limit, interest_rate, minimum_payment, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			a.ID, a.UserEmail, a.Type, a.Name, a.Institution, a.Balance,
			a.CreditLimit, a.InterestRate, a.MinimumPayment, a.CreatedAt, a.UpdatedAt,
		)
		return e
	})
}

func (s *AccountsStore) GetByID(ctx context.Context, id string) (account.Account, error) {
	var a account.Account

	err := s.observe("accounts.get_by_id", func() error {
		return s.pool.QueryRow(ctx,
			`SELECT id, user_email, account_type, account_name, institution, balance,
			        credit_limit, interest_rate, minimum_payment, created_at, updated_at
			 FROM accounts
			 WHERE id = $1`,
			id,
		).Scan(
			&a.ID, &a.UserEmail, &a.Type, &a.Name, &a.Institution, &a.Balance,
			&a.CreditLimit, &a.InterestRate, &a.MinimumPayment, &a.CreatedAt, &a.UpdatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return account.Account{}, account.ErrNotFound
		}
		return account.Account{}, err
	}
	return a, nil
}

func (s *AccountsStore) ListByOwner(ctx context.Context, ownerEmail string) ([]account.Account, error) {
	var rows pgx.Rows

	err := s.observe("accounts.list_by_owner", func() error {
		var qerr error
		rows, qerr = s.pool.Query(ctx,
			`SELECT id, user_email, account_type, account_name, institution, balance,
			        credit_limit, interest_rate, minimum_payment, created_at, updated_at
			 FROM accounts
			 WHERE user_email = $1
			 ORDER BY seq ASC`,
			ownerEmail,
		)
		return qerr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]account.Account, 0)
	for rows.Next() {
		var a account.Account
		if scanErr := rows.Scan(
			&a.ID, &a.UserEmail, &a.Type, &a.Name, &a.Institution, &a.Balance,
			&a.CreditLimit, &a.InterestRate, &a.MinimumPayment, &a.CreatedAt, &a.UpdatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		out = append(out, a)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return out, nil
}

func (s *AccountsStore) Update(ctx context.Context, a account.Account) error {
	var tag pgconn.CommandTag

	err := s.observe("accounts.update", func() error {
		var e error
		tag, e = s.pool.Exec(ctx,
			`UPDATE accounts
			 SET account_type = $2, account_name = $3, institution = $4, balance = $5,
			     credit_limit = $6, interest_rate = $7, minimum_payment = $8, updated_at = $9
			 WHERE id = $1`,
			a.ID, a.Type, a.Name, a.Institution, a.Balance,
			a.CreditLimit, a.InterestRate, a.MinimumPayment, a.UpdatedAt,
		)
		return e
	})
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return account.ErrNotFound
	}
	return nil
}

func (s *AccountsStore) Delete(ctx context.Context, id string) error {
	var tag pgconn.CommandTag

	err := s.observe("accounts.delete", func() error {
		var e error
		tag, e = s.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
		return e
	})
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return account.ErrNotFound
	}
	return nil
}

func (s *AccountsStore) Count(ctx context.Context) (int, error) {
	var total int
	err := s.observe("accounts.count", func() error {
		return s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&total)
	})
	return total, err
}
