package comm

import (
	"encoding/json"
)

// WSMessage is the envelope exchanged between web clients, the socket
// service and the game service over NATS.
type WSMessage struct {
	Type     string          `json:"type"` // e.g. "join-room", "turn-switched"
	Data     json.RawMessage `json:"data"`
	RoomID   string          `json:"roomid,omitempty"`
	SocketId string          `json:"socketid,omitempty"`
}

// Game event types published by the engine after state changes.
const (
	EventRoomCreated      = "room-created"
	EventPlayerJoined     = "player-joined"
	EventDeckSelected     = "deck-selected"
	EventGameStarted      = "game-started"
	EventTurnSwitched     = "turn-switched"
	EventFollowerSummoned = "follower-summoned"
	EventFollowerAttacked = "follower-attacked"
	EventPPConsumed       = "pp-consumed"
	EventPlayerDamaged    = "player-damaged"
	EventGameFinished     = "game-finished"
)

// GameEvent is the engine-side event payload before it is wrapped in
// a WSMessage for transport.
type GameEvent struct {
	Type   string `json:"type"`
	RoomID string `json:"room_id"`
	Data   any    `json:"data,omitempty"`
}

// TurnSwitchData describes who holds the turn after a switch.
type TurnSwitchData struct {
	ActiveUserID string `json:"active_user_id"`
	Turn         int    `json:"turn"`
	PP           int    `json:"pp"`
}

// AttackData reports a combat exchange to clients.
type AttackData struct {
	AttackerCardID   string   `json:"attacker_card_id"`
	TargetType       string   `json:"target_type"`
	TargetID         string   `json:"target_id"`
	DestroyedCardIDs []string `json:"destroyed_card_ids,omitempty"`
}

// DamageData reports direct player damage.
type DamageData struct {
	TargetUserID string `json:"target_user_id"`
	Damage       int    `json:"damage"`
	RemainingHP  int    `json:"remaining_hp"`
}
