package models

import "time"

// Deck is a named list of follower references owned by a user.
// Rental decks have no owner (UserID nil) and are read only.
type Deck struct {
	ID        string    `json:"id"` // "D-<uuid>" for user decks, "R-<n>" for rental decks
	UserID    *string   `json:"user_id,omitempty"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeckCard is a single follower slot in a deck composition.
type DeckCard struct {
	ID         string `json:"id"`
	DeckID     string `json:"deck_id"`
	FollowerID string `json:"follower_id"`
}

// IsRental reports whether the deck is a shared immutable deck.
func (d *Deck) IsRental() bool {
	return d.UserID == nil
}
