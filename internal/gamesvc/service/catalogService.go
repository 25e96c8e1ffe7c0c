package service

import (
	"context"

	"github.com/2507-aws-himawari/menkoverse-services/internal/apperr"
	"github.com/2507-aws-himawari/menkoverse-services/internal/gamesvc/models"
)

type catalogStore interface {
	GetByID(ctx context.Context, id string) (*models.Follower, error)
	List(ctx context.Context) ([]*models.Follower, error)
}

// CatalogService is the read side of the follower catalog.
type CatalogService struct {
	store catalogStore
}

func NewCatalogService(store catalogStore) *CatalogService {
	return &CatalogService{store: store}
}

func (s *CatalogService) ListFollowers(ctx context.Context) ([]*models.Follower, error) {
	return s.store.List(ctx)
}

func (s *CatalogService) GetFollower(ctx context.Context, id string) (*models.Follower, error) {
	follower, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if follower == nil {
		return nil, apperr.ErrFollowerNotFound
	}
	return follower, nil
}
