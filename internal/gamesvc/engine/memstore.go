package engine

import (
	"context"
	"sort"
	"sync"

	"github.com/2507-aws-himawari/menkoverse-services/internal/gamesvc/models"
)

// MemStore is an in-memory Store keyed by room id. It backs tests and
// demo runs; production uses the document store adapter.
type MemStore struct {
	mu           sync.RWMutex
	rooms        map[string]*models.Room
	players      map[string][]*models.RoomPlayer // roomID -> players in join order
	hands        map[string][]*models.HandCard   // roomPlayerID -> hand
	boards       map[string][]*models.BoardCard  // roomPlayerID -> board
	compositions map[string][]string             // deckID -> follower ids
	followers    map[string]*models.Follower
}

func NewMemStore() *MemStore {
	return &MemStore{
		rooms:        make(map[string]*models.Room),
		players:      make(map[string][]*models.RoomPlayer),
		hands:        make(map[string][]*models.HandCard),
		boards:       make(map[string][]*models.BoardCard),
		compositions: make(map[string][]string),
		followers:    make(map[string]*models.Follower),
	}
}

// SeedFollower registers a catalog entry.
func (m *MemStore) SeedFollower(f *models.Follower) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.followers[f.ID] = f
}

// SeedDeck registers a deck composition.
func (m *MemStore) SeedDeck(deckID string, followerIDs []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.compositions[deckID] = append([]string(nil), followerIDs...)
}

func (m *MemStore) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	room, ok := m.rooms[id]
	if !ok {
		return nil, nil
	}
	cp := *room
	return &cp, nil
}

func (m *MemStore) SaveRoom(ctx context.Context, room *models.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *room
	m.rooms[room.ID] = &cp
	return nil
}

func (m *MemStore) GetPlayers(ctx context.Context, roomID string) ([]*models.RoomPlayer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	players := m.players[roomID]
	out := make([]*models.RoomPlayer, 0, len(players))
	for _, p := range players {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemStore) SavePlayer(ctx context.Context, player *models.RoomPlayer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *player
	players := m.players[player.RoomID]
	for i, p := range players {
		if p.ID == player.ID {
			players[i] = &cp
			return nil
		}
	}
	m.players[player.RoomID] = append(players, &cp)
	return nil
}

func (m *MemStore) GetDeckComposition(ctx context.Context, deckID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.compositions[deckID]...), nil
}

func (m *MemStore) GetFollower(ctx context.Context, id string) (*models.Follower, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.followers[id]
	if !ok {
		return nil, nil
	}
	cp := *f
	return &cp, nil
}

func (m *MemStore) GetHand(ctx context.Context, roomPlayerID string) ([]*models.HandCard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	hand := m.hands[roomPlayerID]
	out := make([]*models.HandCard, 0, len(hand))
	for _, c := range hand {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemStore) SaveHandCard(ctx context.Context, card *models.HandCard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *card
	hand := m.hands[card.RoomPlayerID]
	for i, c := range hand {
		if c.ID == card.ID {
			hand[i] = &cp
			return nil
		}
	}
	m.hands[card.RoomPlayerID] = append(hand, &cp)
	return nil
}

func (m *MemStore) DeleteHandCard(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for owner, hand := range m.hands {
		for i, c := range hand {
			if c.ID == id {
				m.hands[owner] = append(hand[:i], hand[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

func (m *MemStore) GetBoard(ctx context.Context, roomPlayerID string) ([]*models.BoardCard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	board := m.boards[roomPlayerID]
	out := make([]*models.BoardCard, 0, len(board))
	for _, c := range board {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m *MemStore) SaveBoardCard(ctx context.Context, card *models.BoardCard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *card
	board := m.boards[card.RoomPlayerID]
	for i, c := range board {
		if c.ID == card.ID {
			board[i] = &cp
			return nil
		}
	}
	m.boards[card.RoomPlayerID] = append(board, &cp)
	return nil
}

func (m *MemStore) DeleteBoardCard(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for owner, board := range m.boards {
		for i, c := range board {
			if c.ID == id {
				m.boards[owner] = append(board[:i], board[i+1:]...)
				return nil
			}
		}
	}
	return nil
}
