package models

import "time"

// Turn status of a room player. At most one player per room is active
// while the room is playing.
const (
	TurnActive = "active"
	TurnEnded  = "ended"
)

// RoomPlayer is the per-room mutable state of one participant.
type RoomPlayer struct {
	ID             string    `json:"id" bson:"_id"`
	RoomID         string    `json:"room_id" bson:"room_id"`
	UserID         string    `json:"user_id" bson:"user_id"`
	HP             int       `json:"hp" bson:"hp"`
	PP             int       `json:"pp" bson:"pp"`
	Turn           int       `json:"turn" bson:"turn"`
	TurnStatus     string    `json:"turn_status" bson:"turn_status"`
	SelectedDeckID *string   `json:"selected_deck_id,omitempty" bson:"selected_deck_id,omitempty"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}
