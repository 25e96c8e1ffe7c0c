package models

// BoardCard is a summoned follower in play. HP mutates from combat,
// CanAttack gates both summoning sickness and "already attacked".
type BoardCard struct {
	ID           string `json:"id" bson:"_id"`
	RoomPlayerID string `json:"room_player_id" bson:"room_player_id"`
	CardID       string `json:"card_id" bson:"card_id"`
	Cost         int    `json:"cost" bson:"cost"`
	Attack       int    `json:"attack" bson:"attack"`
	HP           int    `json:"hp" bson:"hp"`
	Position     int    `json:"position" bson:"position"` // 0-based board slot
	CanAttack    bool   `json:"can_attack" bson:"can_attack"`
	SummonedTurn int    `json:"summoned_turn" bson:"summoned_turn"`
}
