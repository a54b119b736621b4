package session

import (
	"sync"

	"github.com/mauv0809/court-ledger/internal/ranking"
)

// UpdateParticipantCall records one UpdateParticipant invocation.
type UpdateParticipantCall struct {
	ParticipantID string
	Update        ParticipantUpdate
}

// AddParticipantCall records one AddParticipant invocation.
type AddParticipantCall struct {
	SessionID string
	New       NewParticipant
}

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	CreateSessionFunc     func(date string, serviceFee, perMatchReward float64) (*Session, error)
	GetSessionFunc        func(sessionID string) (*Session, error)
	UpdateSessionFunc     func(sessionID string, update SessionUpdate) (*Session, error)
	FindByDateFunc        func(date string) (*Session, error)
	ListSessionsFunc      func(from, to string) ([]Session, error)
	ListParticipantsFunc  func(sessionID string) ([]Participant, error)
	AddParticipantFunc    func(sessionID string, np NewParticipant) (*Participant, error)
	UpdateParticipantFunc func(participantID string, update ParticipantUpdate) (*Participant, error)
	RecordWinFunc         func(participantID string) (*Participant, error)
	RecordLossFunc        func(participantID string) (*Participant, error)
	DeleteParticipantFunc func(participantID string) error
	UpdateAllFeesFunc     func(sessionID string, fee float64) (int64, error)
	ListParticipationFunc func() ([]ranking.Record, error)

	// Call records
	AddParticipantCalls    []AddParticipantCall
	UpdateParticipantCalls []UpdateParticipantCall
	RecordWinCalls         []string
	RecordLossCalls        []string
	DeleteParticipantCalls []string
	ListSessionsCalls      [][2]string
}

var _ Store = (*MockStore)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddParticipantCalls = nil
	m.UpdateParticipantCalls = nil
	m.RecordWinCalls = nil
	m.RecordLossCalls = nil
	m.DeleteParticipantCalls = nil
	m.ListSessionsCalls = nil
}

func (m *MockStore) CreateSession(date string, serviceFee, perMatchReward float64) (*Session, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(date, serviceFee, perMatchReward)
	}
	return &Session{ID: "mock-session", Date: date, ServiceFee: serviceFee, PerMatchReward: perMatchReward}, nil
}

func (m *MockStore) GetSession(sessionID string) (*Session, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(sessionID)
	}
	return nil, ErrSessionNotFound
}

func (m *MockStore) UpdateSession(sessionID string, update SessionUpdate) (*Session, error) {
	if m.UpdateSessionFunc != nil {
		return m.UpdateSessionFunc(sessionID, update)
	}
	return nil, ErrSessionNotFound
}

func (m *MockStore) FindByDate(date string) (*Session, error) {
	if m.FindByDateFunc != nil {
		return m.FindByDateFunc(date)
	}
	return nil, ErrSessionNotFound
}

func (m *MockStore) ListSessions(from, to string) ([]Session, error) {
	m.mu.Lock()
	m.ListSessionsCalls = append(m.ListSessionsCalls, [2]string{from, to})
	m.mu.Unlock()
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(from, to)
	}
	return []Session{}, nil
}

func (m *MockStore) ListParticipants(sessionID string) ([]Participant, error) {
	if m.ListParticipantsFunc != nil {
		return m.ListParticipantsFunc(sessionID)
	}
	return []Participant{}, nil
}

func (m *MockStore) AddParticipant(sessionID string, np NewParticipant) (*Participant, error) {
	m.mu.Lock()
	m.AddParticipantCalls = append(m.AddParticipantCalls, AddParticipantCall{SessionID: sessionID, New: np})
	m.mu.Unlock()
	if m.AddParticipantFunc != nil {
		return m.AddParticipantFunc(sessionID, np)
	}
	return &Participant{ID: "mock-participant", SessionID: sessionID, Name: np.Name}, nil
}

func (m *MockStore) UpdateParticipant(participantID string, update ParticipantUpdate) (*Participant, error) {
	m.mu.Lock()
	m.UpdateParticipantCalls = append(m.UpdateParticipantCalls, UpdateParticipantCall{ParticipantID: participantID, Update: update})
	m.mu.Unlock()
	if m.UpdateParticipantFunc != nil {
		return m.UpdateParticipantFunc(participantID, update)
	}
	return &Participant{ID: participantID}, nil
}

func (m *MockStore) RecordWin(participantID string) (*Participant, error) {
	m.mu.Lock()
	m.RecordWinCalls = append(m.RecordWinCalls, participantID)
	m.mu.Unlock()
	if m.RecordWinFunc != nil {
		return m.RecordWinFunc(participantID)
	}
	return &Participant{ID: participantID, Wins: 1}, nil
}

func (m *MockStore) RecordLoss(participantID string) (*Participant, error) {
	m.mu.Lock()
	m.RecordLossCalls = append(m.RecordLossCalls, participantID)
	m.mu.Unlock()
	if m.RecordLossFunc != nil {
		return m.RecordLossFunc(participantID)
	}
	return &Participant{ID: participantID, Losses: 1}, nil
}

func (m *MockStore) DeleteParticipant(participantID string) error {
	m.mu.Lock()
	m.DeleteParticipantCalls = append(m.DeleteParticipantCalls, participantID)
	m.mu.Unlock()
	if m.DeleteParticipantFunc != nil {
		return m.DeleteParticipantFunc(participantID)
	}
	return nil
}

func (m *MockStore) UpdateAllFees(sessionID string, fee float64) (int64, error) {
	if m.UpdateAllFeesFunc != nil {
		return m.UpdateAllFeesFunc(sessionID, fee)
	}
	return 0, nil
}

func (m *MockStore) ListParticipation() ([]ranking.Record, error) {
	if m.ListParticipationFunc != nil {
		return m.ListParticipationFunc()
	}
	return []ranking.Record{}, nil
}
