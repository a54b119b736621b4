package notifier

import (
	"sync"

	"github.com/mauv0809/court-ledger/internal/ledger"
	"github.com/mauv0809/court-ledger/internal/pairing"
	"github.com/mauv0809/court-ledger/internal/ranking"
	"github.com/mauv0809/court-ledger/internal/session"
)

// ScheduleCall records one SendSchedule invocation.
type ScheduleCall struct {
	Session session.Session
	Plan    pairing.Plan
	DryRun  bool
}

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for send functions
	SendLeaderboardFunc   func(entries []ranking.Entry, period ranking.Period, dryRun bool) error
	SendScheduleFunc      func(sess session.Session, plan pairing.Plan, dryRun bool) error
	SendSessionReportFunc func(report ledger.SessionReport, dryRun bool) error

	// Spies for format functions
	FormatLeaderboardResponseFunc    func(entries []ranking.Entry, period ranking.Period) (any, error)
	FormatPlayerStatsResponseFunc    func(entry *ranking.Entry, period ranking.Period) (any, error)
	FormatPlayerNotFoundResponseFunc func(query string) (any, error)

	// Call records
	SendLeaderboardCalls   [][]ranking.Entry
	SendScheduleCalls      []ScheduleCall
	SendSessionReportCalls []ledger.SessionReport

	// Call records for format functions
	LastLeaderboardResponse    any
	LastPlayerStatsResponse    any
	LastPlayerNotFoundResponse any
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = nil
	m.SendScheduleCalls = nil
	m.SendSessionReportCalls = nil
	m.LastLeaderboardResponse = nil
	m.LastPlayerStatsResponse = nil
	m.LastPlayerNotFoundResponse = nil
}

func (m *Mock) SendLeaderboard(entries []ranking.Entry, period ranking.Period, dryRun bool) error {
	m.mu.Lock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, entries)
	m.mu.Unlock()
	if m.SendLeaderboardFunc != nil {
		return m.SendLeaderboardFunc(entries, period, dryRun)
	}
	return nil
}

func (m *Mock) SendSchedule(sess session.Session, plan pairing.Plan, dryRun bool) error {
	m.mu.Lock()
	m.SendScheduleCalls = append(m.SendScheduleCalls, ScheduleCall{Session: sess, Plan: plan, DryRun: dryRun})
	m.mu.Unlock()
	if m.SendScheduleFunc != nil {
		return m.SendScheduleFunc(sess, plan, dryRun)
	}
	return nil
}

func (m *Mock) SendSessionReport(report ledger.SessionReport, dryRun bool) error {
	m.mu.Lock()
	m.SendSessionReportCalls = append(m.SendSessionReportCalls, report)
	m.mu.Unlock()
	if m.SendSessionReportFunc != nil {
		return m.SendSessionReportFunc(report, dryRun)
	}
	return nil
}

func (m *Mock) FormatLeaderboardResponse(entries []ranking.Entry, period ranking.Period) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatLeaderboardResponseFunc != nil {
		resp, err := m.FormatLeaderboardResponseFunc(entries, period)
		m.LastLeaderboardResponse = resp
		return resp, err
	}
	m.LastLeaderboardResponse = entries
	return entries, nil
}

func (m *Mock) FormatPlayerStatsResponse(entry *ranking.Entry, period ranking.Period) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatPlayerStatsResponseFunc != nil {
		resp, err := m.FormatPlayerStatsResponseFunc(entry, period)
		m.LastPlayerStatsResponse = resp
		return resp, err
	}
	m.LastPlayerStatsResponse = entry
	return entry, nil
}

func (m *Mock) FormatPlayerNotFoundResponse(query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatPlayerNotFoundResponseFunc != nil {
		resp, err := m.FormatPlayerNotFoundResponseFunc(query)
		m.LastPlayerNotFoundResponse = resp
		return resp, err
	}
	m.LastPlayerNotFoundResponse = query
	return query, nil
}
