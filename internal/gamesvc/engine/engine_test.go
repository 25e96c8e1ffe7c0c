package engine

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/2507-aws-himawari/menkoverse-services/internal/comm"
	"github.com/2507-aws-himawari/menkoverse-services/internal/gamesvc/models"
)

// captureNotifier records published events for assertions.
type captureNotifier struct {
	mu     sync.Mutex
	events []comm.GameEvent
}

func (n *captureNotifier) Notify(event comm.GameEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *captureNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.events))
	for _, ev := range n.events {
		out = append(out, ev.Type)
	}
	return out
}

func (n *captureNotifier) has(eventType string) bool {
	for _, t := range n.types() {
		if t == eventType {
			return true
		}
	}
	return false
}

func newTestEngine(t *testing.T, seed int64, demo bool) (*Engine, *MemStore, *captureNotifier) {
	t.Helper()
	store := NewMemStore()
	notifier := &captureNotifier{}
	e := New(store, rand.New(rand.NewSource(seed)), notifier, demo)
	return e, store, notifier
}

// seedCatalog registers a small follower catalog and two 12-card decks
// ("deck-a", "deck-b") built from it.
func seedCatalog(store *MemStore) {
	followers := []*models.Follower{
		{ID: "F-goblin", Name: "Goblin", Cost: 1, Attack: 2, HP: 1},
		{ID: "F-knight", Name: "Knight", Cost: 2, Attack: 2, HP: 2},
		{ID: "F-golem", Name: "Golem", Cost: 3, Attack: 3, HP: 4},
		{ID: "F-dragon", Name: "Dragon", Cost: 5, Attack: 5, HP: 5},
	}
	for _, f := range followers {
		store.SeedFollower(f)
	}

	var composition []string
	for i := 0; i < 3; i++ {
		for _, f := range followers {
			composition = append(composition, f.ID)
		}
	}
	store.SeedDeck("deck-a", composition)
	store.SeedDeck("deck-b", composition)
}

// startedGame builds a playing room with users u1 and u2 and returns
// the room id plus the first and second player's user ids.
func startedGame(t *testing.T, e *Engine, store *MemStore) (roomID, firstUser, secondUser string) {
	t.Helper()
	ctx := context.Background()
	seedCatalog(store)

	if _, err := e.CreateRoom(ctx, "himawari", "u1"); err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if _, err := e.JoinRoom(ctx, "himawari", "u2"); err != nil {
		t.Fatalf("JoinRoom: %v", err)
	}
	if _, err := e.SelectDeck(ctx, "himawari", "u1", "deck-a"); err != nil {
		t.Fatalf("SelectDeck u1: %v", err)
	}
	if _, err := e.SelectDeck(ctx, "himawari", "u2", "deck-b"); err != nil {
		t.Fatalf("SelectDeck u2: %v", err)
	}
	room, err := e.StartGame(ctx, "himawari", "u1", false)
	if err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	return room.ID, room.TurnOrder[0], room.TurnOrder[1]
}

func getPlayer(t *testing.T, store *MemStore, roomID, userID string) *models.RoomPlayer {
	t.Helper()
	players, err := store.GetPlayers(context.Background(), roomID)
	if err != nil {
		t.Fatalf("GetPlayers: %v", err)
	}
	p := findPlayer(players, userID)
	if p == nil {
		t.Fatalf("player %s not found in room %s", userID, roomID)
	}
	return p
}

func TestPPMax(t *testing.T) {
	tests := []struct {
		turn int
		want int
	}{
		{turn: 1, want: 1},
		{turn: 2, want: 2},
		{turn: 9, want: 9},
		{turn: 10, want: 10},
		{turn: 11, want: 10},
		{turn: 50, want: 10},
	}

	for _, tt := range tests {
		if got := PPMax(tt.turn); got != tt.want {
			t.Errorf("PPMax(%d) = %d, want %d", tt.turn, got, tt.want)
		}
	}

	// monotonic non-decreasing
	prev := 0
	for turn := 1; turn <= 30; turn++ {
		cur := PPMax(turn)
		if cur < prev {
			t.Fatalf("PPMax not monotonic at turn %d: %d < %d", turn, cur, prev)
		}
		prev = cur
	}
}
