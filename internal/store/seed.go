package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/orionjupiterai/finbrain-api/internal/config"
	"github.com/orionjupiterai/finbrain-api/internal/domain/user"
	"github.com/orionjupiterai/finbrain-api/internal/security"
)

// EnsureOfficerUser creates the configured officer account at boot when it
// does not exist yet. Leaving the seed email or password blank disables
// seeding. Safe to run on every start.
func EnsureOfficerUser(ctx context.Context, users Users, cfg config.Config) error {
	if cfg.SeedOfficerEmail == "" || cfg.SeedOfficerPassword == "" {
		return nil
	}

	_, err := users.GetByEmail(ctx, cfg.SeedOfficerEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, user.ErrNotFound) {
		return fmt.Errorf("look up officer user: %w", err)
	}

	hash, err := security.HashPassword(cfg.SeedOfficerPassword)
	if err != nil {
		return fmt.Errorf("hash officer password: %w", err)
	}

	u := user.New(cfg.SeedOfficerEmail, hash, cfg.SeedOfficerName, true)
	if err := users.Create(ctx, u); err != nil && !errors.Is(err, user.ErrEmailTaken) {
		return fmt.Errorf("create officer user: %w", err)
	}
	return nil
}
