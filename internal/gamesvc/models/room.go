package models

import "time"

// Room status lifecycle: waiting -> playing -> finish, never backward.
const (
	RoomWaiting = "waiting"
	RoomPlaying = "playing"
	RoomFinish  = "finish"
)

// Room is a game session keyed by a human chosen passphrase.
// ActivePlayerID and TurnOrder are set at game start; TurnOrder[0] is
// the first (senko) player, TurnOrder[1] the second.
type Room struct {
	ID             string    `json:"id" bson:"_id"`
	OwnerID        string    `json:"owner_id" bson:"owner_id"`
	Status         string    `json:"status" bson:"status"`
	ActivePlayerID string    `json:"active_player_id,omitempty" bson:"active_player_id,omitempty"`
	TurnOrder      [2]string `json:"turn_order,omitempty" bson:"turn_order,omitempty"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}
