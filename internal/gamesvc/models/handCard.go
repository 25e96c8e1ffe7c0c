package models

// HandCard is a drawn card waiting to be played. Cost, attack and hp
// are snapshots of the follower at draw time.
type HandCard struct {
	ID           string `json:"id" bson:"_id"`
	RoomPlayerID string `json:"room_player_id" bson:"room_player_id"`
	CardID       string `json:"card_id" bson:"card_id"`
	Cost         int    `json:"cost" bson:"cost"`
	Attack       int    `json:"attack" bson:"attack"`
	HP           int    `json:"hp" bson:"hp"`
}
