// Package store defines the persistence contracts the HTTP layer depends
// on. Backends live in subpackages; the default wiring is in-memory, with
// postgres and redis variants selected through configuration.
package store

import (
	"context"

	"github.com/orionjupiterai/finbrain-api/internal/domain/account"
	"github.com/orionjupiterai/finbrain-api/internal/domain/session"
	"github.com/orionjupiterai/finbrain-api/internal/domain/user"
)

// Users holds one record per email. Create returns user.ErrEmailTaken when
// the email is already registered; GetByEmail returns user.ErrNotFound for
// unknown emails.
type Users interface {
	Create(ctx context.Context, u user.User) error
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Count(ctx context.Context) (int, error)
}

// Sessions maps opaque bearer tokens to user emails. GetByToken returns
// session.ErrNotFound for tokens the store never issued.
type Sessions interface {
	Create(ctx context.Context, s session.Session) error
	GetByToken(ctx context.Context, token string) (session.Session, error)
	Count(ctx context.Context) (int, error)
}

// Accounts keys records by their generated id. ListByOwner preserves
// creation order and returns an empty, never nil, slice when the owner has
// no accounts. Lookups and mutations on unknown ids return
// account.ErrNotFound.
type Accounts interface {
	Create(ctx context.Context, a account.Account) error
	GetByID(ctx context.Context, id string) (account.Account, error)
	ListByOwner(ctx context.Context, ownerEmail string) ([]account.Account, error)
	Update(ctx context.Context, a account.Account) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
