package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/promptify/internal/common"
	"github.com/dmitrijs2005/promptify/internal/dbx"
	"github.com/dmitrijs2005/promptify/internal/logging"
	"github.com/dmitrijs2005/promptify/internal/server/repositories/repomanager"
)

// GateService releases secret prompt text to grant holders only. The viewer
// is always the authenticated caller; nothing in the request can widen it.
type GateService struct {
	db          dbx.Transactor
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewGateService(db dbx.Transactor, m repomanager.RepositoryManager, logger logging.Logger) *GateService {
	return &GateService{db: db, repomanager: m, logger: logger.With("module", "gate")}
}

// FetchSecret returns the secret text of promptID for userID.
// Errors: common.ErrInvalidPromptID, common.ErrorNotFound when the prompt
// does not exist, common.ErrForbidden when userID holds no grant.
func (s *GateService) FetchSecret(ctx context.Context, userID, promptID string) (string, error) {
	promptID, err := canonicalPromptID(promptID)
	if err != nil {
		return "", err
	}

	var text string

	err = s.db.WithTx(ctx, &sql.TxOptions{ReadOnly: true}, func(ctx context.Context, tx dbx.DBTX) error {
		secretRepo := s.repomanager.Secrets(tx)

		if err := secretRepo.SetViewer(ctx, userID); err != nil {
			return err
		}

		exists, err := s.repomanager.Prompts(tx).Exists(ctx, promptID)
		if err != nil {
			return err
		}
		if !exists {
			return common.ErrorNotFound
		}

		text, err = secretRepo.GetForViewer(ctx, userID, promptID)
		return err
	})

	switch {
	case err == nil:
		return text, nil
	case errors.Is(err, common.ErrForbidden):
		s.logger.Warn(ctx, "secret denied", "user_id", userID, "prompt_id", promptID)
		return "", err
	case errors.Is(err, common.ErrorNotFound):
		return "", err
	default:
		s.logger.Error(ctx, "secret fetch failed", "user_id", userID, "prompt_id", promptID, "error", err)
		return "", fmt.Errorf("fetch secret: %w", err)
	}
}
