package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/promptify/internal/client/client"
	"github.com/dmitrijs2005/promptify/internal/client/models"
)

// CatalogService lists public prompt metadata and marks cached ownership.
type CatalogService interface {
	List(ctx context.Context) ([]*models.Prompt, error)
	Get(ctx context.Context, promptID string) (*models.Prompt, error)
}

type catalogService struct {
	client client.Client
	db     *sql.DB
}

func NewCatalogService(c client.Client, db *sql.DB) CatalogService {
	return &catalogService{client: c, db: db}
}

func (s *catalogService) List(ctx context.Context) ([]*models.Prompt, error) {
	list, err := s.client.ListPrompts(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.markOwned(ctx, list...); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *catalogService) Get(ctx context.Context, promptID string) (*models.Prompt, error) {
	p, err := s.client.GetPrompt(ctx, promptID)
	if err != nil {
		return nil, err
	}
	if err := s.markOwned(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *catalogService) markOwned(ctx context.Context, list ...*models.Prompt) error {
	sess, err := currentSession(ctx, s.db)
	if errors.Is(err, client.ErrNotAuthenticated) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, p := range list {
		p.Owned = sess.Owns(p.ID)
	}
	return nil
}
