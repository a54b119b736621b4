package session

import "github.com/mauv0809/court-ledger/internal/ranking"

// SessionStore manages dated sessions.
type SessionStore interface {
	CreateSession(date string, serviceFee, perMatchReward float64) (*Session, error)
	GetSession(sessionID string) (*Session, error)
	// UpdateSession applies the update. A new service fee is copied onto every
	// temporary participant of the session in the same transaction.
	UpdateSession(sessionID string, update SessionUpdate) (*Session, error)
	FindByDate(date string) (*Session, error)
	// ListSessions returns sessions with from <= date <= to. Empty bounds are open.
	ListSessions(from, to string) ([]Session, error)
}

// ParticipantStore manages session membership and scores.
type ParticipantStore interface {
	ListParticipants(sessionID string) ([]Participant, error)
	AddParticipant(sessionID string, np NewParticipant) (*Participant, error)
	UpdateParticipant(participantID string, update ParticipantUpdate) (*Participant, error)
	RecordWin(participantID string) (*Participant, error)
	RecordLoss(participantID string) (*Participant, error)
	DeleteParticipant(participantID string) error
	// UpdateAllFees sets the fee of every temporary participant in the session.
	UpdateAllFees(sessionID string, fee float64) (int64, error)
	// ListParticipation returns every master participation with its session date.
	ListParticipation() ([]ranking.Record, error)
}

// Store combines both stores; they share the same tables.
type Store interface {
	SessionStore
	ParticipantStore
}
