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

// drawCard moves one random card from the player's deck composition
// into their hand. Missing deck selection or an empty composition is a
// no-op, not an error.
func (e *Engine) drawCard(ctx context.Context, player *models.RoomPlayer) error {
	if player.SelectedDeckID == nil {
		return nil
	}
	composition, err := e.store.GetDeckComposition(ctx, *player.SelectedDeckID)
	if err != nil {
		return apperr.ErrInternal.Wrap(err)
	}
	if len(composition) == 0 {
		return nil
	}

	followerID := composition[e.intn(len(composition))]
	follower, err := e.store.GetFollower(ctx, followerID)
	if err != nil {
		return apperr.ErrInternal.Wrap(err)
	}
	if follower == nil {
		// deck references a removed catalog entry; draw yields nothing
		log.Warnf("deck %s references unknown follower %s", *player.SelectedDeckID, followerID)
		return nil
	}

	card := &models.HandCard{
		ID:           uuid.New().String(),
		RoomPlayerID: player.ID,
		CardID:       follower.ID,
		Cost:         follower.Cost,
		Attack:       follower.Attack,
		HP:           follower.HP,
	}
	if err := e.store.SaveHandCard(ctx, card); err != nil {
		return apperr.ErrInternal.Wrap(err)
	}
	return nil
}

// dealInitialHand deals the opening hand by sampling the deck
// composition without replacement.
func (e *Engine) dealInitialHand(ctx context.Context, player *models.RoomPlayer) error {
	if player.SelectedDeckID == nil {
		return nil
	}
	composition, err := e.store.GetDeckComposition(ctx, *player.SelectedDeckID)
	if err != nil {
		return apperr.ErrInternal.Wrap(err)
	}
	if len(composition) == 0 {
		return nil
	}

	n := InitialHandSize
	if len(composition) < n {
		n = len(composition)
	}
	for _, idx := range e.perm(len(composition))[:n] {
		follower, err := e.store.GetFollower(ctx, composition[idx])
		if err != nil {
			return apperr.ErrInternal.Wrap(err)
		}
		if follower == nil {
			continue
		}
		card := &models.HandCard{
			ID:           uuid.New().String(),
			RoomPlayerID: player.ID,
			CardID:       follower.ID,
			Cost:         follower.Cost,
			Attack:       follower.Attack,
			HP:           follower.HP,
		}
		if err := e.store.SaveHandCard(ctx, card); err != nil {
			return apperr.ErrInternal.Wrap(err)
		}
	}
	return nil
}

// beginTurn runs the turn-start sequence for a player: recover pp to
// the turn cap, wake up the board (summoning sickness and "already
// attacked" both reset) and draw one card. Only cards summoned in an
// earlier turn wake up; a card summoned this turn stays sick even if
// the sequence runs again mid-turn.
func (e *Engine) beginTurn(ctx context.Context, player *models.RoomPlayer) error {
	player.PP = PPMax(player.Turn)
	player.UpdatedAt = time.Now()
	if err := e.store.SavePlayer(ctx, player); err != nil {
		return apperr.ErrInternal.Wrap(err)
	}

	board, err := e.store.GetBoard(ctx, player.ID)
	if err != nil {
		return apperr.ErrInternal.Wrap(err)
	}
	for _, card := range board {
		if card.CanAttack || card.SummonedTurn >= player.Turn {
			continue
		}
		card.CanAttack = true
		if err := e.store.SaveBoardCard(ctx, card); err != nil {
			return apperr.ErrInternal.Wrap(err)
		}
	}

	return e.drawCard(ctx, player)
}

// StartTurn runs the turn-start sequence for the active player. EndTurn
// already invokes this for the incoming player; the standalone
// operation exists for clients that drive the sequence manually.
func (e *Engine) StartTurn(ctx context.Context, roomID, userID string) (*models.RoomPlayer, error) {
	room, err := e.loadPlayingRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	_, actor, err := e.requireActive(ctx, room, userID)
	if err != nil {
		return nil, err
	}
	if err := e.beginTurn(ctx, actor); err != nil {
		return nil, err
	}
	return actor, nil
}

// EndTurn passes the turn. When the first player ends, the second
// player becomes active within the same round; when the second player
// ends, a new round begins and both turn counters advance. The incoming
// player's turn-start sequence runs exactly once as part of the switch.
func (e *Engine) EndTurn(ctx context.Context, roomID, userID string) (*models.Room, error) {
	room, err := e.loadPlayingRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	players, actor, err := e.requireActive(ctx, room, userID)
	if err != nil {
		return nil, err
	}
	return e.switchTurns(ctx, room, players, actor)
}

// ForceEndOpponentTurn ends the opponent's turn on their behalf. It is
// a demo affordance with authorization reversed from EndTurn: the
// caller must NOT be the active player, and demo mode must be enabled.
func (e *Engine) ForceEndOpponentTurn(ctx context.Context, roomID, userID string) (*models.Room, error) {
	if !e.demo {
		return nil, apperr.ErrUnauthorized
	}
	room, err := e.loadPlayingRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.ActivePlayerID == userID {
		return nil, apperr.ErrUnauthorized
	}

	players, err := e.store.GetPlayers(ctx, roomID)
	if err != nil {
		return nil, apperr.ErrInternal.Wrap(err)
	}
	if findPlayer(players, userID) == nil {
		return nil, apperr.ErrUnauthorized
	}
	active := findPlayer(players, room.ActivePlayerID)
	if active == nil {
		return nil, apperr.ErrInvalidState
	}

	log.Infof("room %s: %s force-ends turn of %s", roomID, userID, active.UserID)
	return e.switchTurns(ctx, room, players, active)
}

// switchTurns applies the turn transition for the player ending now.
func (e *Engine) switchTurns(ctx context.Context, room *models.Room, players []*models.RoomPlayer, ending *models.RoomPlayer) (*models.Room, error) {
	first := findPlayer(players, room.TurnOrder[0])
	second := findPlayer(players, room.TurnOrder[1])
	if first == nil || second == nil {
		return nil, apperr.ErrInvalidState
	}

	var next *models.RoomPlayer
	if ending.UserID == first.UserID {
		// first player done, second plays the same round
		next = second
	} else {
		// second player done, new round for both
		first.Turn++
		second.Turn++
		next = first
	}

	ending.PP = 0
	ending.TurnStatus = models.TurnEnded
	next.TurnStatus = models.TurnActive
	room.ActivePlayerID = next.UserID
	room.UpdatedAt = time.Now()

	for _, p := range []*models.RoomPlayer{first, second} {
		p.UpdatedAt = room.UpdatedAt
		if err := e.store.SavePlayer(ctx, p); err != nil {
			return nil, apperr.ErrInternal.Wrap(err)
		}
	}
	if err := e.store.SaveRoom(ctx, room); err != nil {
		return nil, apperr.ErrInternal.Wrap(err)
	}

	if err := e.beginTurn(ctx, next); err != nil {
		return nil, err
	}

	e.notify(comm.EventTurnSwitched, room.ID, comm.TurnSwitchData{
		ActiveUserID: next.UserID,
		Turn:         next.Turn,
		PP:           next.PP,
	})
	return room, nil
}

// ConsumePP spends pp of the active player. Consumption is final; there
// is no rollback once applied.
func (e *Engine) ConsumePP(ctx context.Context, roomID, userID string, cost int) (*models.RoomPlayer, error) {
	room, err := e.loadPlayingRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	_, actor, err := e.requireActive(ctx, room, userID)
	if err != nil {
		return nil, err
	}
	if actor.PP < cost {
		return nil, apperr.ErrInsufficientPP
	}

	actor.PP -= cost
	actor.UpdatedAt = time.Now()
	if err := e.store.SavePlayer(ctx, actor); err != nil {
		return nil, apperr.ErrInternal.Wrap(err)
	}

	e.notify(comm.EventPPConsumed, roomID, actor)
	return actor, nil
}
