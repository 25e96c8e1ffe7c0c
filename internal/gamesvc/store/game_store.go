package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/2507-aws-himawari/menkoverse-services/internal/gamesvc/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GameStore is the production engine.Store: live room state lives in
// document collections (the original keeps it in a DynamoDB single
// table), while deck compositions and the follower catalog come from
// the relational stores.
type GameStore struct {
	rooms   *mongo.Collection
	players *mongo.Collection
	hands   *mongo.Collection
	boards  *mongo.Collection

	decks     *DeckStore
	followers *FollowerStore
}

func NewGameStore(db *mongo.Database, decks *DeckStore, followers *FollowerStore) *GameStore {
	return &GameStore{
		rooms:     db.Collection("rooms"),
		players:   db.Collection("players"),
		hands:     db.Collection("hands"),
		boards:    db.Collection("boards"),
		decks:     decks,
		followers: followers,
	}
}

func (s *GameStore) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	var room models.Room
	err := s.rooms.FindOne(ctx, bson.M{"_id": id}).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return &room, nil
}

func (s *GameStore) SaveRoom(ctx context.Context, room *models.Room) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.rooms.ReplaceOne(ctx, bson.M{"_id": room.ID}, room, opts)
	if err != nil {
		return fmt.Errorf("failed to save room: %w", err)
	}
	return nil
}

// GetPlayers returns the room's players in join order.
func (s *GameStore) GetPlayers(ctx context.Context, roomID string) ([]*models.RoomPlayer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.players.Find(ctx, bson.M{"room_id": roomID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}
	defer cursor.Close(ctx)

	var players []*models.RoomPlayer
	if err := cursor.All(ctx, &players); err != nil {
		return nil, fmt.Errorf("failed to decode players: %w", err)
	}
	return players, nil
}

func (s *GameStore) SavePlayer(ctx context.Context, player *models.RoomPlayer) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.players.ReplaceOne(ctx, bson.M{"_id": player.ID}, player, opts)
	if err != nil {
		return fmt.Errorf("failed to save player: %w", err)
	}
	return nil
}

func (s *GameStore) GetDeckComposition(ctx context.Context, deckID string) ([]string, error) {
	return s.decks.GetComposition(ctx, deckID)
}

func (s *GameStore) GetFollower(ctx context.Context, id string) (*models.Follower, error) {
	return s.followers.GetByID(ctx, id)
}

func (s *GameStore) GetHand(ctx context.Context, roomPlayerID string) ([]*models.HandCard, error) {
	cursor, err := s.hands.Find(ctx, bson.M{"room_player_id": roomPlayerID})
	if err != nil {
		return nil, fmt.Errorf("failed to get hand: %w", err)
	}
	defer cursor.Close(ctx)

	var hand []*models.HandCard
	if err := cursor.All(ctx, &hand); err != nil {
		return nil, fmt.Errorf("failed to decode hand: %w", err)
	}
	return hand, nil
}

func (s *GameStore) SaveHandCard(ctx context.Context, card *models.HandCard) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.hands.ReplaceOne(ctx, bson.M{"_id": card.ID}, card, opts)
	if err != nil {
		return fmt.Errorf("failed to save hand card: %w", err)
	}
	return nil
}

func (s *GameStore) DeleteHandCard(ctx context.Context, id string) error {
	_, err := s.hands.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete hand card: %w", err)
	}
	return nil
}

func (s *GameStore) GetBoard(ctx context.Context, roomPlayerID string) ([]*models.BoardCard, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cursor, err := s.boards.Find(ctx, bson.M{"room_player_id": roomPlayerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get board: %w", err)
	}
	defer cursor.Close(ctx)

	var board []*models.BoardCard
	if err := cursor.All(ctx, &board); err != nil {
		return nil, fmt.Errorf("failed to decode board: %w", err)
	}
	return board, nil
}

func (s *GameStore) SaveBoardCard(ctx context.Context, card *models.BoardCard) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.boards.ReplaceOne(ctx, bson.M{"_id": card.ID}, card, opts)
	if err != nil {
		return fmt.Errorf("failed to save board card: %w", err)
	}
	return nil
}

func (s *GameStore) DeleteBoardCard(ctx context.Context, id string) error {
	_, err := s.boards.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete board card: %w", err)
	}
	return nil
}
