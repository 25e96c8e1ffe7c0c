package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/2507-aws-himawari/menkoverse-services/internal/gamesvc/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FollowerStore struct {
	db *pgxpool.Pool
}

func NewFollowerStore(db *pgxpool.Pool) *FollowerStore {
	return &FollowerStore{db: db}
}

func (s *FollowerStore) GetByID(ctx context.Context, id string) (*models.Follower, error) {
	query := `
		SELECT id, name, cost, attack, hp, created_at, updated_at
		FROM followers
		WHERE id = $1
	`

	var f models.Follower
	err := s.db.QueryRow(ctx, query, id).Scan(
		&f.ID,
		&f.Name,
		&f.Cost,
		&f.Attack,
		&f.HP,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get follower by id: %w", err)
	}

	return &f, nil
}

func (s *FollowerStore) List(ctx context.Context) ([]*models.Follower, error) {
	query := `
		SELECT id, name, cost, attack, hp, created_at, updated_at
		FROM followers
		ORDER BY cost, name
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}
	defer rows.Close()

	var followers []*models.Follower
	for rows.Next() {
		var f models.Follower
		err := rows.Scan(
			&f.ID,
			&f.Name,
			&f.Cost,
			&f.Attack,
			&f.HP,
			&f.CreatedAt,
			&f.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		followers = append(followers, &f)
	}

	return followers, rows.Err()
}
