package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/2507-aws-himawari/menkoverse-services/internal/gamesvc/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DeckStore persists user decks and the shared rental decks. User
// decks live in decks/deck_cards, rental decks in rental_decks/
// rental_deck_cards; reads merge the two so callers see one registry.
type DeckStore struct {
	db *pgxpool.Pool
}

func NewDeckStore(db *pgxpool.Pool) *DeckStore {
	return &DeckStore{db: db}
}

func (s *DeckStore) GetByID(ctx context.Context, id string) (*models.Deck, error) {
	query := `
		SELECT id, user_id, name, created_at, updated_at
		FROM decks
		WHERE id = $1
	`

	var d models.Deck
	err := s.db.QueryRow(ctx, query, id).Scan(
		&d.ID,
		&d.UserID,
		&d.Name,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err == nil {
		return &d, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to get deck by id: %w", err)
	}

	// fall through to rental decks (no owner column)
	rentalQuery := `
		SELECT id, name, created_at, updated_at
		FROM rental_decks
		WHERE id = $1
	`
	err = s.db.QueryRow(ctx, rentalQuery, id).Scan(
		&d.ID,
		&d.Name,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get rental deck by id: %w", err)
	}
	d.UserID = nil
	return &d, nil
}

// ListForUser returns the user's own decks followed by all rental
// decks, both name-ordered.
func (s *DeckStore) ListForUser(ctx context.Context, userID string) ([]*models.Deck, error) {
	query := `
		SELECT id, user_id, name, created_at, updated_at
		FROM decks
		WHERE user_id = $1
		ORDER BY name
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	defer rows.Close()

	var decks []*models.Deck
	for rows.Next() {
		var d models.Deck
		if err := rows.Scan(&d.ID, &d.UserID, &d.Name, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		decks = append(decks, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rentalRows, err := s.db.Query(ctx, `
		SELECT id, name, created_at, updated_at
		FROM rental_decks
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list rental decks: %w", err)
	}
	defer rentalRows.Close()

	for rentalRows.Next() {
		var d models.Deck
		if err := rentalRows.Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		decks = append(decks, &d)
	}

	return decks, rentalRows.Err()
}

func (s *DeckStore) Create(ctx context.Context, deck *models.Deck) error {
	query := `
		INSERT INTO decks (id, user_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.Exec(ctx, query, deck.ID, deck.UserID, deck.Name, deck.CreatedAt, deck.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create deck: %w", err)
	}
	return nil
}

func (s *DeckStore) Rename(ctx context.Context, id, name string) error {
	_, err := s.db.Exec(ctx, `UPDATE decks SET name = $2, updated_at = now() WHERE id = $1`, id, name)
	if err != nil {
		return fmt.Errorf("failed to rename deck: %w", err)
	}
	return nil
}

// Delete removes a user deck and its composition.
func (s *DeckStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin delete deck: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM deck_cards WHERE deck_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete deck cards: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM decks WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete deck: %w", err)
	}
	return tx.Commit(ctx)
}

func (s *DeckStore) AddCard(ctx context.Context, card *models.DeckCard) error {
	query := `
		INSERT INTO deck_cards (id, deck_id, follower_id)
		VALUES ($1, $2, $3)
	`
	_, err := s.db.Exec(ctx, query, card.ID, card.DeckID, card.FollowerID)
	if err != nil {
		return fmt.Errorf("failed to add deck card: %w", err)
	}
	return nil
}

func (s *DeckStore) RemoveCard(ctx context.Context, deckID, cardID string) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM deck_cards WHERE id = $1 AND deck_id = $2`, cardID, deckID)
	if err != nil {
		return false, fmt.Errorf("failed to remove deck card: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *DeckStore) CountCards(ctx context.Context, deckID string) (int, error) {
	var count int
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM deck_cards WHERE deck_id = $1`, deckID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count deck cards: %w", err)
	}
	return count, nil
}

// GetComposition returns the follower ids of a deck (user or rental),
// one entry per copy.
func (s *DeckStore) GetComposition(ctx context.Context, deckID string) ([]string, error) {
	query := `
		SELECT follower_id FROM deck_cards WHERE deck_id = $1
		UNION ALL
		SELECT follower_id FROM rental_deck_cards WHERE rental_deck_id = $1
	`

	rows, err := s.db.Query(ctx, query, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to get deck composition: %w", err)
	}
	defer rows.Close()

	var followerIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		followerIDs = append(followerIDs, id)
	}

	return followerIDs, rows.Err()
}
