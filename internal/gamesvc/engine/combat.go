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

// Attack target kinds.
const (
	TargetPlayer   = "player"
	TargetFollower = "follower"
)

// AttackResult reports the outcome of a combat exchange.
type AttackResult struct {
	DestroyedCardIDs []string `json:"destroyed_card_ids"`
	Finished         bool     `json:"finished"` // a player dropped to 0 hp
}

func findBoardCard(board []*models.BoardCard, id string) *models.BoardCard {
	for _, c := range board {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// nextFreePosition returns the lowest unused board slot.
func nextFreePosition(board []*models.BoardCard) int {
	used := make(map[int]bool, len(board))
	for _, c := range board {
		used[c.Position] = true
	}
	for pos := 0; pos < MaxBoardSize; pos++ {
		if !used[pos] {
			return pos
		}
	}
	return len(board)
}

// SummonFollower plays a hand card onto the board. The new follower
// enters with summoning sickness and cannot attack until its owner's
// next turn.
func (e *Engine) SummonFollower(ctx context.Context, roomID, userID, handCardID string) (*models.BoardCard, error) {
	room, err := e.loadPlayingRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	_, actor, err := e.requireActive(ctx, room, userID)
	if err != nil {
		return nil, err
	}

	hand, err := e.store.GetHand(ctx, actor.ID)
	if err != nil {
		return nil, apperr.ErrInternal.Wrap(err)
	}
	var card *models.HandCard
	for _, h := range hand {
		if h.ID == handCardID {
			card = h
			break
		}
	}
	if card == nil {
		return nil, apperr.ErrInvalidCard
	}
	if actor.PP < card.Cost {
		return nil, apperr.ErrInsufficientPP
	}

	board, err := e.store.GetBoard(ctx, actor.ID)
	if err != nil {
		return nil, apperr.ErrInternal.Wrap(err)
	}
	if len(board) >= MaxBoardSize {
		return nil, apperr.ErrBoardFull
	}

	actor.PP -= card.Cost
	actor.UpdatedAt = time.Now()
	if err := e.store.SavePlayer(ctx, actor); err != nil {
		return nil, apperr.ErrInternal.Wrap(err)
	}
	if err := e.store.DeleteHandCard(ctx, card.ID); err != nil {
		return nil, apperr.ErrInternal.Wrap(err)
	}

	summoned := &models.BoardCard{
		ID:           uuid.New().String(),
		RoomPlayerID: actor.ID,
		CardID:       card.CardID,
		Cost:         card.Cost,
		Attack:       card.Attack,
		HP:           card.HP,
		Position:     nextFreePosition(board),
		CanAttack:    false,
		SummonedTurn: actor.Turn,
	}
	if err := e.store.SaveBoardCard(ctx, summoned); err != nil {
		return nil, apperr.ErrInternal.Wrap(err)
	}

	log.Infof("room %s: %s summoned %s at position %d", roomID, userID, summoned.CardID, summoned.Position)
	e.notify(comm.EventFollowerSummoned, roomID, summoned)
	return summoned, nil
}

// AttackWithFollower resolves an attack against the opposing player or
// one of their followers. Follower combat applies damage both ways from
// pre-attack values; either side (or both) can be destroyed.
func (e *Engine) AttackWithFollower(ctx context.Context, roomID, userID, attackerCardID, targetType, targetID string) (*AttackResult, error) {
	room, err := e.loadPlayingRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	players, actor, err := e.requireActive(ctx, room, userID)
	if err != nil {
		return nil, err
	}

	board, err := e.store.GetBoard(ctx, actor.ID)
	if err != nil {
		return nil, apperr.ErrInternal.Wrap(err)
	}
	attacker := findBoardCard(board, attackerCardID)
	if attacker == nil {
		return nil, apperr.ErrAttackerNotFound
	}
	if !attacker.CanAttack {
		return nil, apperr.ErrCannotAttack
	}

	result := &AttackResult{}
	switch targetType {
	case TargetPlayer:
		if err := e.attackPlayer(ctx, room, players, attacker, targetID, result); err != nil {
			return nil, err
		}
	case TargetFollower:
		if err := e.attackFollower(ctx, players, actor, attacker, targetID, result); err != nil {
			return nil, err
		}
	default:
		return nil, apperr.ErrTargetNotFound
	}

	e.notify(comm.EventFollowerAttacked, roomID, comm.AttackData{
		AttackerCardID:   attackerCardID,
		TargetType:       targetType,
		TargetID:         targetID,
		DestroyedCardIDs: result.DestroyedCardIDs,
	})
	if result.Finished {
		e.notify(comm.EventGameFinished, roomID, room)
	}
	return result, nil
}

func (e *Engine) attackPlayer(ctx context.Context, room *models.Room, players []*models.RoomPlayer, attacker *models.BoardCard, targetUserID string, result *AttackResult) error {
	target := findPlayer(players, targetUserID)
	if target == nil {
		return apperr.ErrTargetNotFound
	}
	if target.ID == attacker.RoomPlayerID {
		return apperr.ErrInvalidTarget
	}

	target.HP -= attacker.Attack
	if target.HP < 0 {
		target.HP = 0
	}
	target.UpdatedAt = time.Now()
	if err := e.store.SavePlayer(ctx, target); err != nil {
		return apperr.ErrInternal.Wrap(err)
	}

	attacker.CanAttack = false
	if err := e.store.SaveBoardCard(ctx, attacker); err != nil {
		return apperr.ErrInternal.Wrap(err)
	}

	if target.HP <= 0 {
		if err := e.finishRoom(ctx, room); err != nil {
			return err
		}
		result.Finished = true
	}
	return nil
}

func (e *Engine) attackFollower(ctx context.Context, players []*models.RoomPlayer, actor *models.RoomPlayer, attacker *models.BoardCard, targetCardID string, result *AttackResult) error {
	var target *models.BoardCard
	for _, p := range players {
		board, err := e.store.GetBoard(ctx, p.ID)
		if err != nil {
			return apperr.ErrInternal.Wrap(err)
		}
		if c := findBoardCard(board, targetCardID); c != nil {
			target = c
			break
		}
	}
	if target == nil {
		return apperr.ErrTargetNotFound
	}
	if target.RoomPlayerID == actor.ID {
		return apperr.ErrInvalidTarget
	}

	// simultaneous exchange from pre-attack values
	attackerDamage := attacker.Attack
	targetDamage := target.Attack
	attacker.HP -= targetDamage
	target.HP -= attackerDamage
	attacker.CanAttack = false

	for _, c := range []*models.BoardCard{attacker, target} {
		if c.HP <= 0 {
			if err := e.store.DeleteBoardCard(ctx, c.ID); err != nil {
				return apperr.ErrInternal.Wrap(err)
			}
			result.DestroyedCardIDs = append(result.DestroyedCardIDs, c.ID)
			continue
		}
		if err := e.store.SaveBoardCard(ctx, c); err != nil {
			return apperr.ErrInternal.Wrap(err)
		}
	}
	return nil
}

// DamagePlayer applies direct damage to a participant. Any member of
// the room may invoke it (the original exposes it as a debug control);
// lethal damage finishes the room.
func (e *Engine) DamagePlayer(ctx context.Context, roomID, userID, targetUserID string, damage int) (*models.RoomPlayer, error) {
	room, err := e.loadPlayingRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	players, err := e.store.GetPlayers(ctx, roomID)
	if err != nil {
		return nil, apperr.ErrInternal.Wrap(err)
	}
	if findPlayer(players, userID) == nil {
		return nil, apperr.ErrUnauthorized
	}
	target := findPlayer(players, targetUserID)
	if target == nil {
		return nil, apperr.ErrTargetNotFound
	}

	target.HP -= damage
	if target.HP < 0 {
		target.HP = 0
	}
	if target.HP > MaxHP {
		target.HP = MaxHP
	}
	target.UpdatedAt = time.Now()
	if err := e.store.SavePlayer(ctx, target); err != nil {
		return nil, apperr.ErrInternal.Wrap(err)
	}

	e.notify(comm.EventPlayerDamaged, roomID, comm.DamageData{
		TargetUserID: targetUserID,
		Damage:       damage,
		RemainingHP:  target.HP,
	})

	if target.HP <= 0 {
		if err := e.finishRoom(ctx, room); err != nil {
			return nil, err
		}
		e.notify(comm.EventGameFinished, roomID, room)
	}
	return target, nil
}

func (e *Engine) finishRoom(ctx context.Context, room *models.Room) error {
	room.Status = models.RoomFinish
	room.UpdatedAt = time.Now()
	if err := e.store.SaveRoom(ctx, room); err != nil {
		return apperr.ErrInternal.Wrap(err)
	}
	log.Infof("room %s finished", room.ID)
	return nil
}
