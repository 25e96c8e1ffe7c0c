package engine

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/2507-aws-himawari/menkoverse-services/internal/apperr"
	"github.com/2507-aws-himawari/menkoverse-services/internal/comm"
	"github.com/2507-aws-himawari/menkoverse-services/internal/gamesvc/models"
	log "github.com/sirupsen/logrus"
)

// Game rule constants.
const (
	InitialHP       = 20
	MaxHP           = 20
	MaxPP           = 10
	MaxBoardSize    = 5
	MaxDeckSize     = 40
	InitialHandSize = 5
)

// Store is the persistence collaborator for the rules engine. Lookup
// methods return (nil, nil) when the entity does not exist; the engine
// translates that into its own error taxonomy.
//
// GetPlayers must return players in join order.
type Store interface {
	GetRoom(ctx context.Context, id string) (*models.Room, error)
	SaveRoom(ctx context.Context, room *models.Room) error
	GetPlayers(ctx context.Context, roomID string) ([]*models.RoomPlayer, error)
	SavePlayer(ctx context.Context, player *models.RoomPlayer) error

	GetDeckComposition(ctx context.Context, deckID string) ([]string, error)
	GetFollower(ctx context.Context, id string) (*models.Follower, error)

	GetHand(ctx context.Context, roomPlayerID string) ([]*models.HandCard, error)
	SaveHandCard(ctx context.Context, card *models.HandCard) error
	DeleteHandCard(ctx context.Context, id string) error

	GetBoard(ctx context.Context, roomPlayerID string) ([]*models.BoardCard, error)
	SaveBoardCard(ctx context.Context, card *models.BoardCard) error
	DeleteBoardCard(ctx context.Context, id string) error
}

// Notifier publishes game events for realtime fan-out. Publishing is
// fire and forget; the engine never waits for acknowledgment.
type Notifier interface {
	Notify(event comm.GameEvent)
}

// Engine applies the turn-based card game rules on top of a Store.
// Operations are atomic with respect to a single room; callers must
// serialize operations per room. Cross-room calls are independent.
type Engine struct {
	store    Store
	notifier Notifier
	demo     bool

	mu  sync.Mutex // guards rng; *rand.Rand is not safe for concurrent use
	rng *rand.Rand
}

// New creates an engine. rng may be nil, in which case a time-seeded
// source is used; tests inject a fixed seed. notifier may be nil.
// demo enables the demo-only operations (forced turn end, start-game
// owner bypass).
func New(store Store, rng *rand.Rand, notifier Notifier, demo bool) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		store:    store,
		notifier: notifier,
		demo:     demo,
		rng:      rng,
	}
}

// PPMax is the pp cap for a turn: min(turn, MaxPP).
func PPMax(turn int) int {
	if turn < MaxPP {
		return turn
	}
	return MaxPP
}

func (e *Engine) intn(n int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Intn(n)
}

func (e *Engine) perm(n int) []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Perm(n)
}

func (e *Engine) notify(eventType, roomID string, data any) {
	if e.notifier == nil {
		return
	}
	e.notifier.Notify(comm.GameEvent{
		Type:   eventType,
		RoomID: roomID,
		Data:   data,
	})
}

// loadRoom fetches a room or fails with RoomNotFound.
func (e *Engine) loadRoom(ctx context.Context, roomID string) (*models.Room, error) {
	room, err := e.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, apperr.ErrInternal.Wrap(err)
	}
	if room == nil {
		log.Warnf("room %s not found", roomID)
		return nil, apperr.ErrRoomNotFound
	}
	return room, nil
}

// loadPlayingRoom fetches a room and requires status=playing.
func (e *Engine) loadPlayingRoom(ctx context.Context, roomID string) (*models.Room, error) {
	room, err := e.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.Status != models.RoomPlaying {
		return nil, apperr.ErrInvalidState
	}
	return room, nil
}

func findPlayer(players []*models.RoomPlayer, userID string) *models.RoomPlayer {
	for _, p := range players {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

// requireActive loads the room players and checks that userID holds
// the current turn.
func (e *Engine) requireActive(ctx context.Context, room *models.Room, userID string) ([]*models.RoomPlayer, *models.RoomPlayer, error) {
	players, err := e.store.GetPlayers(ctx, room.ID)
	if err != nil {
		return nil, nil, apperr.ErrInternal.Wrap(err)
	}
	if room.ActivePlayerID != userID {
		return nil, nil, apperr.ErrNotYourTurn
	}
	actor := findPlayer(players, userID)
	if actor == nil {
		return nil, nil, apperr.ErrNotYourTurn
	}
	return players, actor, nil
}
