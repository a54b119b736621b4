package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                 sync.Mutex
	resultsRecorded    int
	schedulesGenerated map[string]int
	pairingFallbacks   int
	sessionsClosed     int
	reportDurations    []float64
	slackNotifSent     int
	slackNotifFailed   int
	startupTime        float64
}

var _ Metrics = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		schedulesGenerated: make(map[string]int),
		reportDurations:    make([]float64, 0),
	}
}

func (m *Mock) IncResultsRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resultsRecorded++
}

func (m *Mock) IncSchedulesGenerated(mode string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedulesGenerated[mode]++
}

func (m *Mock) IncPairingFallbacks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pairingFallbacks++
}

func (m *Mock) IncSessionsClosed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionsClosed++
}

func (m *Mock) ObserveReportDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reportDurations = append(m.reportDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// ResultsRecorded returns the number of times IncResultsRecorded was called.
func (m *Mock) ResultsRecorded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resultsRecorded
}

// SchedulesGenerated returns how often IncSchedulesGenerated was called for mode.
func (m *Mock) SchedulesGenerated(mode string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.schedulesGenerated[mode]
}

// PairingFallbacks returns the number of times IncPairingFallbacks was called.
func (m *Mock) PairingFallbacks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pairingFallbacks
}

// SessionsClosed returns the number of times IncSessionsClosed was called.
func (m *Mock) SessionsClosed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionsClosed
}

// ReportDurations returns every observed report duration.
func (m *Mock) ReportDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.reportDurations...)
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

// UsageMock is an in-memory UsageStore for testing.
type UsageMock struct {
	mu       sync.Mutex
	counters map[string]int
}

var _ UsageStore = (*UsageMock)(nil)

// NewUsageMock creates a new in-memory usage store.
func NewUsageMock() *UsageMock {
	return &UsageMock{counters: make(map[string]int)}
}

func (m *UsageMock) Increment(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[key]++
}

func (m *UsageMock) GetAll() (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.counters))
	for k, v := range m.counters {
		out[k] = v
	}
	return out, nil
}
