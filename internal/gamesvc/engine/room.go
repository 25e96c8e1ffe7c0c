package engine

import (
	"context"
	"time"

	"github.com/2507-aws-himawari/menkoverse-services/internal/apperr"
	"github.com/2507-aws-himawari/menkoverse-services/internal/comm"
	"github.com/2507-aws-himawari/menkoverse-services/internal/gamesvc/models"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// RoomView aggregates everything a client needs to render a room.
type RoomView struct {
	Room    *models.Room  `json:"room"`
	Players []*PlayerView `json:"players"`
}

// PlayerView is one participant with their hand and board.
type PlayerView struct {
	Player *models.RoomPlayer  `json:"player"`
	Hand   []*models.HandCard  `json:"hand"`
	Board  []*models.BoardCard `json:"board"`
}

func newRoomPlayer(roomID, userID string) *models.RoomPlayer {
	now := time.Now()
	return &models.RoomPlayer{
		ID:         uuid.New().String(),
		RoomID:     roomID,
		UserID:     userID,
		HP:         InitialHP,
		PP:         1, // turn 1, pp cap 1
		Turn:       1,
		TurnStatus: models.TurnEnded,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// CreateRoom allocates a waiting room keyed by the given passphrase and
// seats the owner. An empty roomID gets a generated one.
func (e *Engine) CreateRoom(ctx context.Context, roomID, ownerID string) (*models.Room, error) {
	if roomID == "" {
		roomID = uuid.New().String()
	}

	existing, err := e.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, apperr.ErrInternal.Wrap(err)
	}
	if existing != nil {
		return nil, apperr.ErrInvalidState
	}

	now := time.Now()
	room := &models.Room{
		ID:        roomID,
		OwnerID:   ownerID,
		Status:    models.RoomWaiting,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.store.SaveRoom(ctx, room); err != nil {
		return nil, apperr.ErrInternal.Wrap(err)
	}
	if err := e.store.SavePlayer(ctx, newRoomPlayer(roomID, ownerID)); err != nil {
		return nil, apperr.ErrInternal.Wrap(err)
	}

	log.Infof("room %s created by %s", roomID, ownerID)
	e.notify(comm.EventRoomCreated, roomID, room)
	return room, nil
}

// JoinRoom seats a second player in a waiting room. Rejoining the same
// room is idempotent and returns the existing seat.
func (e *Engine) JoinRoom(ctx context.Context, roomID, userID string) (*models.RoomPlayer, error) {
	room, err := e.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.Status != models.RoomWaiting {
		return nil, apperr.ErrInvalidState
	}

	players, err := e.store.GetPlayers(ctx, roomID)
	if err != nil {
		return nil, apperr.ErrInternal.Wrap(err)
	}
	if len(players) >= 2 {
		return nil, apperr.ErrRoomFull
	}
	if existing := findPlayer(players, userID); existing != nil {
		return existing, nil
	}

	player := newRoomPlayer(roomID, userID)
	if err := e.store.SavePlayer(ctx, player); err != nil {
		return nil, apperr.ErrInternal.Wrap(err)
	}

	log.Infof("user %s joined room %s", userID, roomID)
	e.notify(comm.EventPlayerJoined, roomID, player)
	return player, nil
}

// SelectDeck sets a player's deck while the room is still waiting.
// Overwriting an earlier selection is allowed; the deck locks once the
// game starts.
func (e *Engine) SelectDeck(ctx context.Context, roomID, userID, deckID string) (*models.RoomPlayer, error) {
	room, err := e.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.Status != models.RoomWaiting {
		return nil, apperr.ErrInvalidState
	}

	players, err := e.store.GetPlayers(ctx, roomID)
	if err != nil {
		return nil, apperr.ErrInternal.Wrap(err)
	}
	player := findPlayer(players, userID)
	if player == nil {
		return nil, apperr.ErrUnauthorized
	}

	player.SelectedDeckID = &deckID
	player.UpdatedAt = time.Now()
	if err := e.store.SavePlayer(ctx, player); err != nil {
		return nil, apperr.ErrInternal.Wrap(err)
	}

	e.notify(comm.EventDeckSelected, roomID, player)
	return player, nil
}

// StartGame moves a waiting room to playing: shuffles turn order,
// initializes both players and deals opening hands. Only the owner may
// start, unless demo mode is enabled and the caller asks for the
// bypass.
func (e *Engine) StartGame(ctx context.Context, roomID, userID string, demo bool) (*models.Room, error) {
	room, err := e.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if userID != room.OwnerID && !(demo && e.demo) {
		return nil, apperr.ErrUnauthorized
	}
	if room.Status != models.RoomWaiting {
		return nil, apperr.ErrInvalidState
	}

	players, err := e.store.GetPlayers(ctx, roomID)
	if err != nil {
		return nil, apperr.ErrInternal.Wrap(err)
	}
	if len(players) != 2 {
		return nil, apperr.ErrNotEnoughPlayers
	}
	for _, p := range players {
		if p.SelectedDeckID == nil {
			return nil, apperr.ErrDeckNotSelected
		}
	}

	// Coin flip for first/second seat.
	first, second := players[0], players[1]
	if e.intn(2) == 1 {
		first, second = second, first
	}

	room.Status = models.RoomPlaying
	room.TurnOrder = [2]string{first.UserID, second.UserID}
	room.ActivePlayerID = first.UserID
	room.UpdatedAt = time.Now()

	first.Turn = 1
	first.PP = 1
	first.TurnStatus = models.TurnActive

	second.Turn = 1
	second.PP = 0
	second.TurnStatus = models.TurnEnded

	for _, p := range []*models.RoomPlayer{first, second} {
		p.UpdatedAt = room.UpdatedAt
		if err := e.store.SavePlayer(ctx, p); err != nil {
			return nil, apperr.ErrInternal.Wrap(err)
		}
		if err := e.dealInitialHand(ctx, p); err != nil {
			return nil, err
		}
	}

	// The first player also gets the regular turn-start draw, so they
	// open with six cards against the second player's five.
	if err := e.drawCard(ctx, first); err != nil {
		return nil, err
	}

	if err := e.store.SaveRoom(ctx, room); err != nil {
		return nil, apperr.ErrInternal.Wrap(err)
	}

	log.Infof("room %s started, first player %s", roomID, first.UserID)
	e.notify(comm.EventGameStarted, roomID, room)
	return room, nil
}

// GetRoomView returns the full room snapshot for polling clients.
func (e *Engine) GetRoomView(ctx context.Context, roomID string) (*RoomView, error) {
	room, err := e.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	players, err := e.store.GetPlayers(ctx, roomID)
	if err != nil {
		return nil, apperr.ErrInternal.Wrap(err)
	}

	view := &RoomView{Room: room}
	for _, p := range players {
		hand, err := e.store.GetHand(ctx, p.ID)
		if err != nil {
			return nil, apperr.ErrInternal.Wrap(err)
		}
		board, err := e.store.GetBoard(ctx, p.ID)
		if err != nil {
			return nil, apperr.ErrInternal.Wrap(err)
		}
		view.Players = append(view.Players, &PlayerView{
			Player: p,
			Hand:   hand,
			Board:  board,
		})
	}
	return view, nil
}
