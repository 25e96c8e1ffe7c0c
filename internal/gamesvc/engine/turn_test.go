package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/2507-aws-himawari/menkoverse-services/internal/apperr"
	"github.com/2507-aws-himawari/menkoverse-services/internal/comm"
	"github.com/2507-aws-himawari/menkoverse-services/internal/gamesvc/models"
)

func TestEndTurnRejectsNonActivePlayer(t *testing.T) {
	e, store, _ := newTestEngine(t, 3, false)
	roomID, _, secondUser := startedGame(t, e, store)

	if _, err := e.EndTurn(context.Background(), roomID, secondUser); !errors.Is(err, apperr.ErrNotYourTurn) {
		t.Fatalf("end turn by waiting player: got %v, want NotYourTurn", err)
	}
	if _, err := e.EndTurn(context.Background(), roomID, "outsider"); !errors.Is(err, apperr.ErrNotYourTurn) {
		t.Fatalf("end turn by outsider: got %v, want NotYourTurn", err)
	}
}

func TestEndTurnRoundTrip(t *testing.T) {
	e, store, notifier := newTestEngine(t, 3, false)
	roomID, firstUser, secondUser := startedGame(t, e, store)
	ctx := context.Background()

	// first player ends: second becomes active in the same round
	room, err := e.EndTurn(ctx, roomID, firstUser)
	if err != nil {
		t.Fatalf("EndTurn first: %v", err)
	}
	if room.ActivePlayerID != secondUser {
		t.Fatalf("active = %s, want %s", room.ActivePlayerID, secondUser)
	}

	first := getPlayer(t, store, roomID, firstUser)
	second := getPlayer(t, store, roomID, secondUser)
	if first.Turn != 1 || second.Turn != 1 {
		t.Errorf("turns advanced early: first=%d second=%d", first.Turn, second.Turn)
	}
	if second.TurnStatus != models.TurnActive || second.PP != PPMax(1) {
		t.Errorf("second player after switch: %+v", second)
	}
	if first.TurnStatus != models.TurnEnded || first.PP != 0 {
		t.Errorf("first player after ending: %+v", first)
	}

	// second player ends: new round, both counters advance
	room, err = e.EndTurn(ctx, roomID, secondUser)
	if err != nil {
		t.Fatalf("EndTurn second: %v", err)
	}
	if room.ActivePlayerID != firstUser {
		t.Fatalf("active = %s, want %s", room.ActivePlayerID, firstUser)
	}

	first = getPlayer(t, store, roomID, firstUser)
	second = getPlayer(t, store, roomID, secondUser)
	if first.Turn != 2 || second.Turn != 2 {
		t.Errorf("turns = %d/%d, want 2/2", first.Turn, second.Turn)
	}
	if first.TurnStatus != models.TurnActive || first.PP != PPMax(2) {
		t.Errorf("first player new round: %+v", first)
	}
	if second.TurnStatus != models.TurnEnded {
		t.Errorf("second player new round: %+v", second)
	}

	if !notifier.has(comm.EventTurnSwitched) {
		t.Error("turn-switched event not published")
	}
}

func TestEndTurnDrawsForIncomingPlayer(t *testing.T) {
	e, store, _ := newTestEngine(t, 3, false)
	roomID, firstUser, secondUser := startedGame(t, e, store)
	ctx := context.Background()

	second := getPlayer(t, store, roomID, secondUser)
	before, _ := store.GetHand(ctx, second.ID)

	if _, err := e.EndTurn(ctx, roomID, firstUser); err != nil {
		t.Fatalf("EndTurn: %v", err)
	}

	after, _ := store.GetHand(ctx, second.ID)
	if len(after) != len(before)+1 {
		t.Fatalf("incoming player hand = %d, want %d", len(after), len(before)+1)
	}
}

func TestEndTurnClearsSummoningSickness(t *testing.T) {
	e, store, _ := newTestEngine(t, 3, false)
	roomID, firstUser, secondUser := startedGame(t, e, store)
	ctx := context.Background()

	first := getPlayer(t, store, roomID, firstUser)
	asleep := &models.BoardCard{
		ID:           "b1",
		RoomPlayerID: first.ID,
		CardID:       "F-goblin",
		Cost:         1,
		Attack:       2,
		HP:           1,
		Position:     0,
		CanAttack:    false,
		SummonedTurn: 1,
	}
	if err := store.SaveBoardCard(ctx, asleep); err != nil {
		t.Fatal(err)
	}

	// full round: first ends, second ends, first's turn starts again
	if _, err := e.EndTurn(ctx, roomID, firstUser); err != nil {
		t.Fatal(err)
	}

	board, _ := store.GetBoard(ctx, first.ID)
	if board[0].CanAttack {
		t.Fatal("sickness cleared during opponent's turn start")
	}

	if _, err := e.EndTurn(ctx, roomID, secondUser); err != nil {
		t.Fatal(err)
	}

	board, _ = store.GetBoard(ctx, first.ID)
	if !board[0].CanAttack {
		t.Fatal("sickness not cleared on owner's turn start")
	}
}

func TestPPCapsAtMax(t *testing.T) {
	e, store, _ := newTestEngine(t, 3, false)
	roomID, firstUser, secondUser := startedGame(t, e, store)
	ctx := context.Background()

	// play 14 full rounds; pp must cap at MaxPP
	for i := 0; i < 14; i++ {
		if _, err := e.EndTurn(ctx, roomID, firstUser); err != nil {
			t.Fatalf("round %d EndTurn first: %v", i, err)
		}
		if _, err := e.EndTurn(ctx, roomID, secondUser); err != nil {
			t.Fatalf("round %d EndTurn second: %v", i, err)
		}
	}

	first := getPlayer(t, store, roomID, firstUser)
	if first.Turn != 15 {
		t.Errorf("turn = %d, want 15", first.Turn)
	}
	if first.PP != MaxPP {
		t.Errorf("pp = %d, want %d", first.PP, MaxPP)
	}
}

func TestStartTurnRequiresActivePlayer(t *testing.T) {
	e, store, _ := newTestEngine(t, 3, false)
	roomID, firstUser, secondUser := startedGame(t, e, store)
	ctx := context.Background()

	if _, err := e.StartTurn(ctx, roomID, secondUser); !errors.Is(err, apperr.ErrNotYourTurn) {
		t.Fatalf("StartTurn by waiting player: got %v, want NotYourTurn", err)
	}

	player, err := e.StartTurn(ctx, roomID, firstUser)
	if err != nil {
		t.Fatalf("StartTurn: %v", err)
	}
	if player.PP != PPMax(player.Turn) {
		t.Errorf("pp = %d, want %d", player.PP, PPMax(player.Turn))
	}
}

// Re-running the turn-start sequence mid-turn must not wake a follower
// summoned this turn.
func TestStartTurnKeepsSameTurnSummonAsleep(t *testing.T) {
	e, store, _ := newTestEngine(t, 3, false)
	roomID, firstUser, secondUser := startedGame(t, e, store)
	ctx := context.Background()

	first := getPlayer(t, store, roomID, firstUser)
	giveHandCard(t, store, first.ID, "h-goblin", 1, 2, 1)

	summoned, err := e.SummonFollower(ctx, roomID, firstUser, "h-goblin")
	if err != nil {
		t.Fatalf("SummonFollower: %v", err)
	}

	if _, err := e.StartTurn(ctx, roomID, firstUser); err != nil {
		t.Fatalf("StartTurn: %v", err)
	}

	board, _ := store.GetBoard(ctx, first.ID)
	if board[0].CanAttack {
		t.Fatal("same-turn summon woke up on repeated turn start")
	}
	if _, err := e.AttackWithFollower(ctx, roomID, firstUser, summoned.ID, TargetPlayer, secondUser); !errors.Is(err, apperr.ErrCannotAttack) {
		t.Fatalf("attack after repeated turn start: got %v, want CannotAttack", err)
	}
}

func TestConsumePP(t *testing.T) {
	e, store, _ := newTestEngine(t, 3, false)
	roomID, firstUser, secondUser := startedGame(t, e, store)
	ctx := context.Background()

	if _, err := e.ConsumePP(ctx, roomID, secondUser, 1); !errors.Is(err, apperr.ErrNotYourTurn) {
		t.Fatalf("consume by waiting player: got %v, want NotYourTurn", err)
	}

	// cost above current pp leaves state unchanged
	if _, err := e.ConsumePP(ctx, roomID, firstUser, 5); !errors.Is(err, apperr.ErrInsufficientPP) {
		t.Fatalf("overspend: got %v, want InsufficientPP", err)
	}
	first := getPlayer(t, store, roomID, firstUser)
	if first.PP != 1 {
		t.Fatalf("pp changed on failed consume: %d", first.PP)
	}

	player, err := e.ConsumePP(ctx, roomID, firstUser, 1)
	if err != nil {
		t.Fatalf("ConsumePP: %v", err)
	}
	if player.PP != 0 {
		t.Errorf("pp = %d, want 0", player.PP)
	}
}

func TestForceEndOpponentTurn(t *testing.T) {
	e, store, _ := newTestEngine(t, 3, true)
	roomID, firstUser, secondUser := startedGame(t, e, store)
	ctx := context.Background()

	// authorization is reversed: the active player may not force
	if _, err := e.ForceEndOpponentTurn(ctx, roomID, firstUser); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("force by active player: got %v, want Unauthorized", err)
	}
	if _, err := e.ForceEndOpponentTurn(ctx, roomID, "outsider"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("force by outsider: got %v, want Unauthorized", err)
	}

	room, err := e.ForceEndOpponentTurn(ctx, roomID, secondUser)
	if err != nil {
		t.Fatalf("ForceEndOpponentTurn: %v", err)
	}
	if room.ActivePlayerID != secondUser {
		t.Fatalf("active = %s, want %s", room.ActivePlayerID, secondUser)
	}
}

func TestForceEndOpponentTurnDisabledOutsideDemo(t *testing.T) {
	e, store, _ := newTestEngine(t, 3, false)
	roomID, _, secondUser := startedGame(t, e, store)

	if _, err := e.ForceEndOpponentTurn(context.Background(), roomID, secondUser); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("force without demo mode: got %v, want Unauthorized", err)
	}
}

func TestDrawFromEmptyDeckIsNoop(t *testing.T) {
	e, store, _ := newTestEngine(t, 5, false)
	ctx := context.Background()
	store.SeedDeck("empty-a", nil)
	store.SeedDeck("empty-b", nil)

	if _, err := e.CreateRoom(ctx, "sparse", "u1"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.JoinRoom(ctx, "sparse", "u2"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.SelectDeck(ctx, "sparse", "u1", "empty-a"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.SelectDeck(ctx, "sparse", "u2", "empty-b"); err != nil {
		t.Fatal(err)
	}
	room, err := e.StartGame(ctx, "sparse", "u1", false)
	if err != nil {
		t.Fatal(err)
	}

	// ending the turn draws for the incoming player; empty deck must
	// not fail, just yield nothing
	if _, err := e.EndTurn(ctx, "sparse", room.TurnOrder[0]); err != nil {
		t.Fatalf("EndTurn with empty decks: %v", err)
	}
	second := getPlayer(t, store, "sparse", room.TurnOrder[1])
	hand, _ := store.GetHand(ctx, second.ID)
	if len(hand) != 0 {
		t.Fatalf("hand = %d cards, want 0", len(hand))
	}
}
