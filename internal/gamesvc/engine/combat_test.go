package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/2507-aws-himawari/menkoverse-services/internal/apperr"
	"github.com/2507-aws-himawari/menkoverse-services/internal/comm"
	"github.com/2507-aws-himawari/menkoverse-services/internal/gamesvc/models"
)

func giveHandCard(t *testing.T, store *MemStore, playerID, id string, cost, attack, hp int) {
	t.Helper()
	err := store.SaveHandCard(context.Background(), &models.HandCard{
		ID:           id,
		RoomPlayerID: playerID,
		CardID:       "F-test",
		Cost:         cost,
		Attack:       attack,
		HP:           hp,
	})
	if err != nil {
		t.Fatal(err)
	}
}

func putBoardCard(t *testing.T, store *MemStore, playerID, id string, attack, hp, position int, canAttack bool) {
	t.Helper()
	err := store.SaveBoardCard(context.Background(), &models.BoardCard{
		ID:           id,
		RoomPlayerID: playerID,
		CardID:       "F-test",
		Cost:         1,
		Attack:       attack,
		HP:           hp,
		Position:     position,
		CanAttack:    canAttack,
		SummonedTurn: 1,
	})
	if err != nil {
		t.Fatal(err)
	}
}

// A fresh 1-cost 2/1 summon spends the pp, lands with summoning
// sickness and cannot attack the same turn.
func TestSummonFollower(t *testing.T) {
	e, store, notifier := newTestEngine(t, 3, false)
	roomID, firstUser, secondUser := startedGame(t, e, store)
	ctx := context.Background()

	first := getPlayer(t, store, roomID, firstUser)
	giveHandCard(t, store, first.ID, "h-goblin", 1, 2, 1)

	if _, err := e.SummonFollower(ctx, roomID, secondUser, "h-goblin"); !errors.Is(err, apperr.ErrNotYourTurn) {
		t.Fatalf("summon by waiting player: got %v, want NotYourTurn", err)
	}
	if _, err := e.SummonFollower(ctx, roomID, firstUser, "h-missing"); !errors.Is(err, apperr.ErrInvalidCard) {
		t.Fatalf("summon unknown card: got %v, want InvalidCard", err)
	}

	summoned, err := e.SummonFollower(ctx, roomID, firstUser, "h-goblin")
	if err != nil {
		t.Fatalf("SummonFollower: %v", err)
	}
	if summoned.CanAttack {
		t.Error("summoned follower must have summoning sickness")
	}
	if summoned.SummonedTurn != 1 || summoned.Position != 0 {
		t.Errorf("summoned card: %+v", summoned)
	}

	first = getPlayer(t, store, roomID, firstUser)
	if first.PP != 0 {
		t.Errorf("pp = %d, want 0", first.PP)
	}

	hand, _ := store.GetHand(ctx, first.ID)
	for _, c := range hand {
		if c.ID == "h-goblin" {
			t.Error("played card still in hand")
		}
	}

	// attacking with it the same turn fails
	if _, err := e.AttackWithFollower(ctx, roomID, firstUser, summoned.ID, TargetPlayer, secondUser); !errors.Is(err, apperr.ErrCannotAttack) {
		t.Fatalf("attack with sick follower: got %v, want CannotAttack", err)
	}

	if !notifier.has(comm.EventFollowerSummoned) {
		t.Error("follower-summoned event not published")
	}
}

func TestSummonFollowerInsufficientPP(t *testing.T) {
	e, store, _ := newTestEngine(t, 3, false)
	roomID, firstUser, _ := startedGame(t, e, store)

	first := getPlayer(t, store, roomID, firstUser)
	giveHandCard(t, store, first.ID, "h-dragon", 5, 5, 5)

	if _, err := e.SummonFollower(context.Background(), roomID, firstUser, "h-dragon"); !errors.Is(err, apperr.ErrInsufficientPP) {
		t.Fatalf("summon above pp: got %v, want InsufficientPP", err)
	}
	first = getPlayer(t, store, roomID, firstUser)
	if first.PP != 1 {
		t.Fatalf("pp changed on failed summon: %d", first.PP)
	}
}

func TestSummonFollowerBoardFull(t *testing.T) {
	e, store, _ := newTestEngine(t, 3, false)
	roomID, firstUser, _ := startedGame(t, e, store)

	first := getPlayer(t, store, roomID, firstUser)
	for i := 0; i < MaxBoardSize; i++ {
		putBoardCard(t, store, first.ID, "b-"+string(rune('a'+i)), 1, 1, i, true)
	}
	giveHandCard(t, store, first.ID, "h-goblin", 1, 2, 1)

	if _, err := e.SummonFollower(context.Background(), roomID, firstUser, "h-goblin"); !errors.Is(err, apperr.ErrBoardFull) {
		t.Fatalf("summon onto full board: got %v, want BoardFull", err)
	}
}

func TestSummonFillsLowestFreePosition(t *testing.T) {
	e, store, _ := newTestEngine(t, 3, false)
	roomID, firstUser, _ := startedGame(t, e, store)

	first := getPlayer(t, store, roomID, firstUser)
	putBoardCard(t, store, first.ID, "b-0", 1, 1, 0, true)
	putBoardCard(t, store, first.ID, "b-2", 1, 1, 2, true)
	giveHandCard(t, store, first.ID, "h-goblin", 1, 2, 1)

	summoned, err := e.SummonFollower(context.Background(), roomID, firstUser, "h-goblin")
	if err != nil {
		t.Fatalf("SummonFollower: %v", err)
	}
	if summoned.Position != 1 {
		t.Fatalf("position = %d, want 1 (lowest free slot)", summoned.Position)
	}
}

func TestAttackPlayer(t *testing.T) {
	e, store, notifier := newTestEngine(t, 3, false)
	roomID, firstUser, secondUser := startedGame(t, e, store)
	ctx := context.Background()

	first := getPlayer(t, store, roomID, firstUser)
	putBoardCard(t, store, first.ID, "b-knight", 2, 2, 0, true)

	result, err := e.AttackWithFollower(ctx, roomID, firstUser, "b-knight", TargetPlayer, secondUser)
	if err != nil {
		t.Fatalf("AttackWithFollower: %v", err)
	}
	if result.Finished {
		t.Error("20 hp player should survive 2 damage")
	}

	second := getPlayer(t, store, roomID, secondUser)
	if second.HP != InitialHP-2 {
		t.Errorf("target hp = %d, want %d", second.HP, InitialHP-2)
	}

	board, _ := store.GetBoard(ctx, first.ID)
	if board[0].CanAttack {
		t.Error("attacker must be spent after attacking")
	}

	// second strike in the same turn is rejected
	if _, err := e.AttackWithFollower(ctx, roomID, firstUser, "b-knight", TargetPlayer, secondUser); !errors.Is(err, apperr.ErrCannotAttack) {
		t.Fatalf("double attack: got %v, want CannotAttack", err)
	}

	if !notifier.has(comm.EventFollowerAttacked) {
		t.Error("follower-attacked event not published")
	}
}

func TestAttackOwnPlayerRejected(t *testing.T) {
	e, store, _ := newTestEngine(t, 3, false)
	roomID, firstUser, _ := startedGame(t, e, store)
	ctx := context.Background()

	first := getPlayer(t, store, roomID, firstUser)
	putBoardCard(t, store, first.ID, "b-knight", 2, 2, 0, true)

	if _, err := e.AttackWithFollower(ctx, roomID, firstUser, "b-knight", TargetPlayer, firstUser); !errors.Is(err, apperr.ErrInvalidTarget) {
		t.Fatalf("self-directed attack: got %v, want InvalidTarget", err)
	}

	// the attacker stays ready and the player unharmed
	first = getPlayer(t, store, roomID, firstUser)
	if first.HP != InitialHP {
		t.Errorf("hp = %d, want %d", first.HP, InitialHP)
	}
	board, _ := store.GetBoard(ctx, first.ID)
	if !board[0].CanAttack {
		t.Error("attacker spent on rejected attack")
	}
}

func TestAttackPlayerLethalFinishesRoom(t *testing.T) {
	e, store, notifier := newTestEngine(t, 3, false)
	roomID, firstUser, secondUser := startedGame(t, e, store)
	ctx := context.Background()

	second := getPlayer(t, store, roomID, secondUser)
	second.HP = 2
	if err := store.SavePlayer(ctx, second); err != nil {
		t.Fatal(err)
	}

	first := getPlayer(t, store, roomID, firstUser)
	putBoardCard(t, store, first.ID, "b-golem", 3, 4, 0, true)

	result, err := e.AttackWithFollower(ctx, roomID, firstUser, "b-golem", TargetPlayer, secondUser)
	if err != nil {
		t.Fatalf("AttackWithFollower: %v", err)
	}
	if !result.Finished {
		t.Error("lethal damage must finish the game")
	}

	second = getPlayer(t, store, roomID, secondUser)
	if second.HP != 0 {
		t.Errorf("hp = %d, want 0 (floored)", second.HP)
	}

	room, _ := store.GetRoom(ctx, roomID)
	if room.Status != models.RoomFinish {
		t.Errorf("room status = %s, want finish", room.Status)
	}
	if !notifier.has(comm.EventGameFinished) {
		t.Error("game-finished event not published")
	}
}

func TestAttackFollowerMutualDamage(t *testing.T) {
	e, store, _ := newTestEngine(t, 3, false)
	roomID, firstUser, secondUser := startedGame(t, e, store)
	ctx := context.Background()

	first := getPlayer(t, store, roomID, firstUser)
	second := getPlayer(t, store, roomID, secondUser)
	putBoardCard(t, store, first.ID, "b-attacker", 2, 4, 0, true)
	putBoardCard(t, store, second.ID, "b-target", 1, 3, 0, true)

	result, err := e.AttackWithFollower(ctx, roomID, firstUser, "b-attacker", TargetFollower, "b-target")
	if err != nil {
		t.Fatalf("AttackWithFollower: %v", err)
	}
	if len(result.DestroyedCardIDs) != 0 {
		t.Errorf("destroyed = %v, want none", result.DestroyedCardIDs)
	}

	// symmetric, from pre-attack values
	firstBoard, _ := store.GetBoard(ctx, first.ID)
	secondBoard, _ := store.GetBoard(ctx, second.ID)
	if firstBoard[0].HP != 4-1 {
		t.Errorf("attacker hp = %d, want 3", firstBoard[0].HP)
	}
	if secondBoard[0].HP != 3-2 {
		t.Errorf("target hp = %d, want 1", secondBoard[0].HP)
	}
	if firstBoard[0].CanAttack {
		t.Error("attacker must be spent")
	}
}

func TestAttackFollowerBothDestroyed(t *testing.T) {
	e, store, _ := newTestEngine(t, 3, false)
	roomID, firstUser, secondUser := startedGame(t, e, store)
	ctx := context.Background()

	first := getPlayer(t, store, roomID, firstUser)
	second := getPlayer(t, store, roomID, secondUser)
	putBoardCard(t, store, first.ID, "b-attacker", 3, 2, 0, true)
	putBoardCard(t, store, second.ID, "b-target", 2, 3, 0, true)

	result, err := e.AttackWithFollower(ctx, roomID, firstUser, "b-attacker", TargetFollower, "b-target")
	if err != nil {
		t.Fatalf("AttackWithFollower: %v", err)
	}
	if len(result.DestroyedCardIDs) != 2 {
		t.Fatalf("destroyed = %v, want both cards", result.DestroyedCardIDs)
	}

	firstBoard, _ := store.GetBoard(ctx, first.ID)
	secondBoard, _ := store.GetBoard(ctx, second.ID)
	if len(firstBoard) != 0 || len(secondBoard) != 0 {
		t.Errorf("boards not cleared: %d/%d", len(firstBoard), len(secondBoard))
	}
}

func TestAttackFollowerValidation(t *testing.T) {
	e, store, _ := newTestEngine(t, 3, false)
	roomID, firstUser, _ := startedGame(t, e, store)
	ctx := context.Background()

	first := getPlayer(t, store, roomID, firstUser)
	putBoardCard(t, store, first.ID, "b-attacker", 2, 2, 0, true)
	putBoardCard(t, store, first.ID, "b-friend", 1, 1, 1, true)

	if _, err := e.AttackWithFollower(ctx, roomID, firstUser, "b-missing", TargetFollower, "b-friend"); !errors.Is(err, apperr.ErrAttackerNotFound) {
		t.Fatalf("unknown attacker: got %v, want AttackerNotFound", err)
	}
	if _, err := e.AttackWithFollower(ctx, roomID, firstUser, "b-attacker", TargetFollower, "b-nothing"); !errors.Is(err, apperr.ErrTargetNotFound) {
		t.Fatalf("unknown target: got %v, want TargetNotFound", err)
	}
	if _, err := e.AttackWithFollower(ctx, roomID, firstUser, "b-attacker", TargetFollower, "b-friend"); !errors.Is(err, apperr.ErrInvalidTarget) {
		t.Fatalf("friendly fire: got %v, want InvalidTarget", err)
	}
	if _, err := e.AttackWithFollower(ctx, roomID, firstUser, "b-attacker", "spell", "b-friend"); !errors.Is(err, apperr.ErrTargetNotFound) {
		t.Fatalf("bogus target type: got %v, want TargetNotFound", err)
	}
}

func TestDamagePlayer(t *testing.T) {
	e, store, notifier := newTestEngine(t, 3, false)
	roomID, firstUser, secondUser := startedGame(t, e, store)
	ctx := context.Background()

	if _, err := e.DamagePlayer(ctx, roomID, "outsider", secondUser, 3); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("damage by outsider: got %v, want Unauthorized", err)
	}
	if _, err := e.DamagePlayer(ctx, roomID, firstUser, "nobody", 3); !errors.Is(err, apperr.ErrTargetNotFound) {
		t.Fatalf("damage unknown target: got %v, want TargetNotFound", err)
	}

	target, err := e.DamagePlayer(ctx, roomID, firstUser, secondUser, 3)
	if err != nil {
		t.Fatalf("DamagePlayer: %v", err)
	}
	if target.HP != InitialHP-3 {
		t.Errorf("hp = %d, want %d", target.HP, InitialHP-3)
	}

	// lethal overkill floors at zero and finishes the room
	target, err = e.DamagePlayer(ctx, roomID, firstUser, secondUser, 99)
	if err != nil {
		t.Fatalf("DamagePlayer lethal: %v", err)
	}
	if target.HP != 0 {
		t.Errorf("hp = %d, want 0", target.HP)
	}
	room, _ := store.GetRoom(ctx, roomID)
	if room.Status != models.RoomFinish {
		t.Errorf("room status = %s, want finish", room.Status)
	}
	if !notifier.has(comm.EventPlayerDamaged) || !notifier.has(comm.EventGameFinished) {
		t.Error("damage events not published")
	}

	// no further operations once finished
	if _, err := e.DamagePlayer(ctx, roomID, firstUser, secondUser, 1); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("damage after finish: got %v, want InvalidState", err)
	}
}
