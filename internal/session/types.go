package session

import (
	"database/sql"
	"errors"
	"sync"
	"time"
)

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrUnknownPlayer       = errors.New("player is not registered")
	ErrAlreadyInSession    = errors.New("player already joined this session")
	ErrNameRequired        = errors.New("temporary participants need a name")
	ErrInvalidDate         = errors.New("session date must be formatted as YYYY-MM-DD")
	ErrInvalidScore        = errors.New("wins and losses must be non-negative")
	ErrInvalidFee          = errors.New("fees and rewards must be non-negative")
)

// DateLayout is the calendar format of Session.Date.
const DateLayout = "2006-01-02"

// store handles all database operations for sessions and their participants.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Role tells master participants (registered players) apart from temporary ones.
type Role string

const (
	RoleMaster    Role = "master"
	RoleTemporary Role = "temporary"
)

// Session is one dated event.
type Session struct {
	ID             string    `json:"id"`
	Date           string    `json:"date"` // YYYY-MM-DD
	ServiceFee     float64   `json:"service_fee"`
	PerMatchReward float64   `json:"per_match_reward"`
	CreatedAt      time.Time `json:"created_at"`
}

// Participant is a player's presence in one session.
type Participant struct {
	ID        string  `json:"id"`
	SessionID string  `json:"session_id"`
	Role      Role    `json:"role"`
	PlayerID  string  `json:"player_id,omitempty"` // set only for RoleMaster
	Name      string  `json:"name"`
	Wins      int     `json:"wins"`
	Losses    int     `json:"losses"`
	Fee       float64 `json:"fee"`
	Paid      bool    `json:"paid"`
}

// IsMaster reports whether the participant is a registered player.
func (p Participant) IsMaster() bool {
	return p.Role == RoleMaster
}

// NewParticipant describes a participant to add. A master participant carries
// PlayerID plus the registry name to snapshot; a temporary one only a Name and
// optionally a Fee. A nil Fee takes the session's service fee.
type NewParticipant struct {
	PlayerID string
	Name     string
	Fee      *float64
}

// ParticipantUpdate holds optional edits; nil fields are left untouched.
type ParticipantUpdate struct {
	Wins   *int
	Losses *int
	Fee    *float64
	Paid   *bool
}

// SessionUpdate holds optional edits; nil fields are left untouched.
type SessionUpdate struct {
	ServiceFee     *float64
	PerMatchReward *float64
}
