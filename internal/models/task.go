package models

import (
	"time"

	"github.com/google/uuid"
)

// Task is owned by exactly one user; UserID never changes after creation
// and is not serialized to clients.
type Task struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"-"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
