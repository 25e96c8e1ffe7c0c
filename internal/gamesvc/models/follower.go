package models

import "time"

// Follower is a catalog card definition. Seeded once, never mutated.
type Follower struct {
	ID        string    `json:"id"`     // e.g. "F-<uuid>"
	Name      string    `json:"name"`
	Cost      int       `json:"cost"`   // >= 0
	Attack    int       `json:"attack"` // >= 0
	HP        int       `json:"hp"`     // >= 1
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
