package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/dmitrijs2005/promptify/internal/common"
	"github.com/dmitrijs2005/promptify/internal/dbx"
	"github.com/dmitrijs2005/promptify/internal/logging"
	"github.com/dmitrijs2005/promptify/internal/server/auth"
	"github.com/dmitrijs2005/promptify/internal/server/models"
	"github.com/dmitrijs2005/promptify/internal/server/repositories/repomanager"
)

// ProfileService bootstraps the profile of an authenticated identity.
type ProfileService struct {
	db            dbx.Transactor
	repomanager   repomanager.RepositoryManager
	startingCoins int64
	logger        logging.Logger

	retryAttempts uint
	retryDelay    time.Duration
}

func NewProfileService(db dbx.Transactor, m repomanager.RepositoryManager, startingCoins int, logger logging.Logger) *ProfileService {
	return &ProfileService{
		db:            db,
		repomanager:   m,
		startingCoins: int64(startingCoins),
		logger:        logger.With("module", "profile"),
		retryAttempts: 3,
		retryDelay:    100 * time.Millisecond,
	}
}

// EnsureProfile returns the profile of id, creating it with the starting
// balance on first sight. Concurrent first calls converge on one row: the
// insert is a no-op for the loser and the read returns the winner's row.
// Transient store errors are retried.
func (s *ProfileService) EnsureProfile(ctx context.Context, id auth.Identity) (*models.Profile, error) {
	if id.ID == "" {
		return nil, common.ErrorUnauthorized
	}

	return retry.DoWithData(
		func() (*models.Profile, error) {
			return s.ensure(ctx, id)
		},
		retry.Context(ctx),
		retry.Attempts(s.retryAttempts),
		retry.Delay(s.retryDelay),
		retry.RetryIf(dbx.IsTransient),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Warn(ctx, "profile bootstrap retry", "user_id", id.ID, "attempt", n+1, "error", err)
		}),
	)
}

func (s *ProfileService) ensure(ctx context.Context, id auth.Identity) (*models.Profile, error) {
	repo := s.repomanager.Profiles(s.db.Conn())

	p, err := repo.GetByID(ctx, id.ID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	created, err := repo.Insert(ctx, &models.Profile{
		ID:          id.ID,
		Email:       id.Email,
		DisplayName: displayName(id),
		AvatarURL:   id.AvatarURL,
		Coins:       s.startingCoins,
		Role:        models.RoleUser,
	})
	if err != nil {
		return nil, err
	}
	if created {
		s.logger.Info(ctx, "profile created", "user_id", id.ID, "coins", s.startingCoins)
	}

	return repo.GetByID(ctx, id.ID)
}

// displayName picks the token name, else the local part of the email.
func displayName(id auth.Identity) string {
	if id.DisplayName != "" {
		return id.DisplayName
	}
	if local, _, ok := strings.Cut(id.Email, "@"); ok && local != "" {
		return local
	}
	return models.DefaultDisplayName
}
