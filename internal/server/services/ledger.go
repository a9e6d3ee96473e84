package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/promptify/internal/common"
	"github.com/dmitrijs2005/promptify/internal/dbx"
	"github.com/dmitrijs2005/promptify/internal/logging"
	"github.com/dmitrijs2005/promptify/internal/server/metrics"
	"github.com/dmitrijs2005/promptify/internal/server/models"
	"github.com/dmitrijs2005/promptify/internal/server/repositories/repomanager"
)

// UnlockObserver receives the outcome and duration of every unlock attempt.
type UnlockObserver interface {
	ObserveUnlock(outcome string, d time.Duration)
}

// LedgerService is the only writer of coin balances and grants.
//
// Unlock runs as one transaction that first locks the caller's profile row,
// so all unlocks of one user are serialized whichever prompts they target.
// A user is debited at most once per prompt and never below zero.
type LedgerService struct {
	db          dbx.Transactor
	repomanager repomanager.RepositoryManager
	observer    UnlockObserver
	logger      logging.Logger
}

func NewLedgerService(db dbx.Transactor, m repomanager.RepositoryManager, observer UnlockObserver, logger logging.Logger) *LedgerService {
	return &LedgerService{
		db:          db,
		repomanager: m,
		observer:    observer,
		logger:      logger.With("module", "ledger"),
	}
}

// Unlock grants promptID to userID for one coin.
//
// Owning the prompt already is a success with AlreadyOwned set and no debit.
// Errors: common.ErrInvalidPromptID, common.ErrorNotFound (profile or
// prompt), common.ErrInsufficientBalance.
func (s *LedgerService) Unlock(ctx context.Context, userID, promptID string) (*models.UnlockResult, error) {
	start := time.Now()

	res, err := s.unlock(ctx, userID, promptID)

	outcome := outcomeOf(res, err)
	if s.observer != nil {
		s.observer.ObserveUnlock(outcome, time.Since(start))
	}

	switch outcome {
	case metrics.OutcomeGranted:
		s.logger.Info(ctx, "prompt unlocked", "user_id", userID, "prompt_id", promptID, "coins_left", res.CoinsRemaining)
	case metrics.OutcomeError:
		s.logger.Error(ctx, "unlock failed", "user_id", userID, "prompt_id", promptID, "error", err)
	default:
		s.logger.Debug(ctx, "unlock declined", "user_id", userID, "prompt_id", promptID, "outcome", outcome)
	}

	return res, err
}

func (s *LedgerService) unlock(ctx context.Context, userID, promptID string) (*models.UnlockResult, error) {
	promptID, err := canonicalPromptID(promptID)
	if err != nil {
		return nil, err
	}

	var result *models.UnlockResult

	err = s.db.WithTx(ctx, nil, func(ctx context.Context, tx dbx.DBTX) error {
		profileRepo := s.repomanager.Profiles(tx)
		grantRepo := s.repomanager.Grants(tx)
		promptRepo := s.repomanager.Prompts(tx)

		coins, err := profileRepo.LockCoins(ctx, userID)
		if err != nil {
			return err
		}

		owned, err := grantRepo.Exists(ctx, userID, promptID)
		if err != nil {
			return err
		}
		if owned {
			result = &models.UnlockResult{PromptID: promptID, Granted: true, CoinsRemaining: coins, AlreadyOwned: true}
			return nil
		}

		exists, err := promptRepo.Exists(ctx, promptID)
		if err != nil {
			return err
		}
		if !exists {
			return common.ErrorNotFound
		}

		if coins < 1 {
			return common.ErrInsufficientBalance
		}

		left, err := profileRepo.DebitCoin(ctx, userID)
		if err != nil {
			return err
		}
		if err := grantRepo.Insert(ctx, userID, promptID); err != nil {
			return err
		}
		if err := promptRepo.IncrementUnlockCount(ctx, promptID); err != nil {
			return err
		}

		result = &models.UnlockResult{PromptID: promptID, Granted: true, CoinsRemaining: left}
		return nil
	})
	if err != nil {
		if isLedgerError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("unlock: %w", err)
	}

	return result, nil
}

// ListGrants returns the ids of every prompt userID owns.
func (s *LedgerService) ListGrants(ctx context.Context, userID string) ([]string, error) {
	return s.repomanager.Grants(s.db.Conn()).ListPromptIDs(ctx, userID)
}

func isLedgerError(err error) bool {
	return errors.Is(err, common.ErrInsufficientBalance) ||
		errors.Is(err, common.ErrorNotFound) ||
		errors.Is(err, common.ErrInvalidPromptID)
}

func outcomeOf(res *models.UnlockResult, err error) string {
	switch {
	case err == nil && res.AlreadyOwned:
		return metrics.OutcomeOwned
	case err == nil:
		return metrics.OutcomeGranted
	case errors.Is(err, common.ErrInsufficientBalance):
		return metrics.OutcomeInsufficient
	case errors.Is(err, common.ErrorNotFound), errors.Is(err, common.ErrInvalidPromptID):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}
