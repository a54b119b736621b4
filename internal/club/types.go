package club

import (
	"database/sql"
	"errors"
	"sync"
	"time"
)

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrEmptyName      = errors.New("player name must not be empty")
)

// store handles all database operations for the player registry.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Player is a persistent identity reusable across sessions.
type Player struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
