// Package seed provisions the initial currencies and demo data.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yalapay/yala_backend/internal/apperrors"
	"github.com/yalapay/yala_backend/internal/core/domain"
	portsrepo "github.com/yalapay/yala_backend/internal/core/ports/repositories"
	"github.com/yalapay/yala_backend/internal/utils"
	"github.com/yalapay/yala_backend/pkg/config"
)

// systemUserID is recorded in audit fields for rows created by seeding.
const systemUserID = "system"

const demoPassword = "password123"

type demoAccount struct {
	currency string
	balance  string
}

type demoUser struct {
	username string
	email    string
	fullName string
	accounts []demoAccount
}

var demoUsers = []demoUser{
	{
		username: "x_demo",
		email:    "x@example.com",
		fullName: "X Demo",
		accounts: []demoAccount{{"PEN", "100"}, {"USD", "200"}},
	},
	{
		username: "y_demo",
		email:    "y@example.com",
		fullName: "Y Demo",
		accounts: []demoAccount{{"PEN", "50"}, {"USD", "100"}},
	},
}

// Run seeds the supported currencies (idempotent upsert) and, when the user
// table is empty, the two demo users with their pre-funded accounts.
func Run(ctx context.Context, cfg *config.Config, repos portsrepo.RepositoryProvider, logger *slog.Logger) error {
	if err := seedCurrencies(ctx, cfg, repos); err != nil {
		return err
	}

	count, err := repos.UserRepo.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to check user count before seeding: %w", err)
	}
	if count > 0 {
		logger.Info("Users already present, skipping demo data seed")
		return nil
	}

	for _, du := range demoUsers {
		if err := seedDemoUser(ctx, repos, du); err != nil {
			return err
		}
	}

	logger.Info("Demo data seeded", slog.Int("users", len(demoUsers)))
	return nil
}

func seedCurrencies(ctx context.Context, cfg *config.Config, repos portsrepo.RepositoryProvider) error {
	now := time.Now().UTC()

	// Deterministic order keeps the audit trail stable across restarts.
	codes := make([]string, 0, len(cfg.SupportedCurrencies))
	for code := range cfg.SupportedCurrencies {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		currency := domain.Currency{
			CurrencyCode: code,
			Name:         cfg.SupportedCurrencies[code],
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     systemUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: systemUserID,
			},
		}
		if err := repos.CurrencyRepo.SaveCurrency(ctx, currency); err != nil {
			return fmt.Errorf("failed to seed currency %s: %w", code, err)
		}
	}
	return nil
}

func seedDemoUser(ctx context.Context, repos portsrepo.RepositoryProvider, du demoUser) error {
	existing, err := repos.UserRepo.FindUserByEmail(ctx, du.email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to check demo user %s: %w", du.email, err)
	}
	if existing != nil {
		return nil
	}

	hash, err := utils.HashPassword(demoPassword)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     du.username,
		Email:        du.email,
		FullName:     du.fullName,
		PasswordHash: hash,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     systemUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: systemUserID,
		},
	}
	if err := repos.UserRepo.SaveUser(ctx, user); err != nil {
		return fmt.Errorf("failed to seed demo user %s: %w", du.email, err)
	}

	for _, da := range du.accounts {
		account := domain.Account{
			AccountID:    uuid.NewString(),
			OwnerID:      user.UserID,
			CurrencyCode: da.currency,
			Balance:      decimal.RequireFromString(da.balance),
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     systemUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: systemUserID,
			},
		}
		if err := repos.AccountRepo.SaveAccount(ctx, account); err != nil {
			return fmt.Errorf("failed to seed account %s %s for %s: %w", da.balance, da.currency, du.email, err)
		}
	}
	return nil
}
