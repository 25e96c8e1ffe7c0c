package service

import (
	"context"

	"github.com/2507-aws-himawari/menkoverse-services/internal/gamesvc/models"
	log "github.com/sirupsen/logrus"
)

type userStore interface {
	CreateUser(ctx context.Context, user models.User) (string, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// UserService struct represents the user service layer
type UserService struct {
	userStore userStore
}

// NewUserService creates a new UserService instance
func NewUserService(userStore userStore) *UserService {
	return &UserService{
		userStore: userStore,
	}
}

// GetOrCreateUser resolves the user for an authenticated identity,
// registering it on first sight.
func (s *UserService) GetOrCreateUser(ctx context.Context, userInfo models.User) (*models.User, error) {
	existing, err := s.userStore.GetByID(ctx, userInfo.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	log.WithField("user_id", userInfo.ID).Info("registering new user")

	userInfo.Status = "ACTIVE"
	if _, err := s.userStore.CreateUser(ctx, userInfo); err != nil {
		return nil, err
	}
	return &userInfo, nil
}
