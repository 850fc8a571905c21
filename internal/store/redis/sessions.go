// Package redis keeps sessions in a shared redis instance so restarts do
// not log everyone out. Selected with SESSION_BACKEND=redis.
package redis

import (
	"context"
	"errors"

	goredis "github.com/redis/go-redis/v9"

	"github.com/orionjupiterai/finbrain-api/internal/domain/session"
	"github.com/orionjupiterai/finbrain-api/internal/observability"
)

const keyPrefix = "finbrain:session:"

type SessionsStore struct {
	rdb  *goredis.Client
	prom *observability.Prom
}

func NewSessionsStore(rdb *goredis.Client, prom *observability.Prom) *SessionsStore {
	return &SessionsStore{rdb: rdb, prom: prom}
}

func (s *SessionsStore) observe(op string, fn func() error) error {
	if s.prom != nil {
		return s.prom.ObserveStore(op, fn)
	}
	return fn()
}

// Create stores the token without a TTL; sessions only end when the
// deployment is reset.
func (s *SessionsStore) Create(ctx context.Context, sess session.Session) error {
	return s.observe("sessions.create", func() error {
		return s.rdb.Set(ctx, keyPrefix+sess.Token, sess.UserEmail, 0).Err()
	})
}

func (s *SessionsStore) GetByToken(ctx context.Context, token string) (session.Session, error) {
	var email string

	err := s.observe("sessions.get_by_token", func() error {
		var e error
		email, e = s.rdb.Get(ctx, keyPrefix+token).Result()
		return e
	})

	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return session.Session{}, session.ErrNotFound
		}
		return session.Session{}, err
	}
	return session.Session{Token: token, UserEmail: email}, nil
}

func (s *SessionsStore) Count(ctx context.Context) (int, error) {
	var total int

	err := s.observe("sessions.count", func() error {
		iter := s.rdb.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
		for iter.Next(ctx) {
			total++
		}
		return iter.Err()
	})
	return total, err
}
