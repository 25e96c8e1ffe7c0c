package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/2507-aws-himawari/menkoverse-services/internal/gamesvc/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserStore struct {
	db *pgxpool.Pool
}

func NewUserStore(db *pgxpool.Pool) *UserStore {
	return &UserStore{db: db}
}

func (r *UserStore) CreateUser(ctx context.Context, user models.User) (string, error) {
	var userID string

	query := `
        INSERT INTO users (id, name, is_admin, status)
        VALUES ($1, $2, $3, $4)
        RETURNING id;
    `

	err := r.db.QueryRow(ctx, query, user.ID, user.Name, user.IsAdmin, user.Status).Scan(&userID)
	if err != nil {
		return "", fmt.Errorf("could not create user: %w", err)
	}

	return userID, nil
}

func (r *UserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	row := r.db.QueryRow(ctx, `
        SELECT id, name, is_admin, status, created_at, updated_at
        FROM users
        WHERE id = $1
    `, id)

	u := &models.User{}
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.IsAdmin,
		&u.Status,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return u, nil
}
