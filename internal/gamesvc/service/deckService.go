package service

import (
	"context"
	"time"

	"github.com/2507-aws-himawari/menkoverse-services/internal/apperr"
	"github.com/2507-aws-himawari/menkoverse-services/internal/gamesvc/engine"
	"github.com/2507-aws-himawari/menkoverse-services/internal/gamesvc/models"
	"github.com/google/uuid"
)

// deckStore is the slice of the deck registry the service needs.
type deckStore interface {
	GetByID(ctx context.Context, id string) (*models.Deck, error)
	ListForUser(ctx context.Context, userID string) ([]*models.Deck, error)
	Create(ctx context.Context, deck *models.Deck) error
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
	AddCard(ctx context.Context, card *models.DeckCard) error
	RemoveCard(ctx context.Context, deckID, cardID string) (bool, error)
	CountCards(ctx context.Context, deckID string) (int, error)
	GetComposition(ctx context.Context, deckID string) ([]string, error)
}

type followerCatalog interface {
	GetByID(ctx context.Context, id string) (*models.Follower, error)
}

// DeckService enforces the deck registry rules: decks belong to one
// user, rental decks are shared and immutable, and a deck never holds
// more than the maximum number of cards.
type DeckService struct {
	decks     deckStore
	followers followerCatalog
}

func NewDeckService(decks deckStore, followers followerCatalog) *DeckService {
	return &DeckService{decks: decks, followers: followers}
}

func (s *DeckService) ListDecks(ctx context.Context, userID string) ([]*models.Deck, error) {
	return s.decks.ListForUser(ctx, userID)
}

func (s *DeckService) GetDeck(ctx context.Context, userID, deckID string) (*models.Deck, error) {
	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if deck == nil {
		return nil, apperr.ErrDeckNotFound
	}
	if !deck.IsRental() && *deck.UserID != userID {
		return nil, apperr.ErrUnauthorized
	}
	return deck, nil
}

func (s *DeckService) CreateDeck(ctx context.Context, userID, name string) (*models.Deck, error) {
	now := time.Now()
	deck := &models.Deck{
		ID:        "D-" + uuid.NewString(),
		UserID:    &userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.decks.Create(ctx, deck); err != nil {
		return nil, err
	}
	return deck, nil
}

func (s *DeckService) RenameDeck(ctx context.Context, userID, deckID, name string) error {
	if _, err := s.ownDeck(ctx, userID, deckID); err != nil {
		return err
	}
	return s.decks.Rename(ctx, deckID, name)
}

func (s *DeckService) DeleteDeck(ctx context.Context, userID, deckID string) error {
	if _, err := s.ownDeck(ctx, userID, deckID); err != nil {
		return err
	}
	return s.decks.Delete(ctx, deckID)
}

// AddCard appends one copy of a follower to the deck.
func (s *DeckService) AddCard(ctx context.Context, userID, deckID, followerID string) (*models.DeckCard, error) {
	if _, err := s.ownDeck(ctx, userID, deckID); err != nil {
		return nil, err
	}

	follower, err := s.followers.GetByID(ctx, followerID)
	if err != nil {
		return nil, err
	}
	if follower == nil {
		return nil, apperr.ErrFollowerNotFound
	}

	count, err := s.decks.CountCards(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if count >= engine.MaxDeckSize {
		return nil, apperr.ErrDeckFull
	}

	card := &models.DeckCard{
		ID:         "DC-" + uuid.NewString(),
		DeckID:     deckID,
		FollowerID: followerID,
	}
	if err := s.decks.AddCard(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

func (s *DeckService) RemoveCard(ctx context.Context, userID, deckID, cardID string) error {
	if _, err := s.ownDeck(ctx, userID, deckID); err != nil {
		return err
	}

	removed, err := s.decks.RemoveCard(ctx, deckID, cardID)
	if err != nil {
		return err
	}
	if !removed {
		return apperr.ErrInvalidCard
	}
	return nil
}

func (s *DeckService) GetComposition(ctx context.Context, userID, deckID string) ([]string, error) {
	if _, err := s.GetDeck(ctx, userID, deckID); err != nil {
		return nil, err
	}
	return s.decks.GetComposition(ctx, deckID)
}

// ownDeck resolves a deck the user is allowed to mutate.
func (s *DeckService) ownDeck(ctx context.Context, userID, deckID string) (*models.Deck, error) {
	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if deck == nil {
		return nil, apperr.ErrDeckNotFound
	}
	if deck.IsRental() {
		return nil, apperr.ErrDeckReadOnly
	}
	if *deck.UserID != userID {
		return nil, apperr.ErrUnauthorized
	}
	return deck, nil
}
