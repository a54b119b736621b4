package metrics

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
)

// NewUsageStore creates a new UsageStore.
func NewUsageStore(db *sql.DB) UsageStore {
	return &usageStore{
		db: db,
	}
}

// Increment upserts a counter key and increments its value by one. Failures
// are logged and never surface to the caller.
func (s *usageStore) Increment(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO usage_counters (key, value) VALUES (?, 1)
		ON CONFLICT(key) DO UPDATE SET value = value + 1;
	`, key)
	if err != nil {
		log.Error("Failed to increment usage counter", "error", err, "key", key)
		return
	}
	log.Debug("Incremented usage counter", "key", key)
}

// GetAll returns all usage counters.
func (s *usageStore) GetAll() (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT key, value FROM usage_counters")
	if err != nil {
		return nil, fmt.Errorf("failed to query usage counters: %w", err)
	}
	defer rows.Close()

	counters := make(map[string]int)
	for rows.Next() {
		var key string
		var value int
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan usage counter: %w", err)
		}
		counters[key] = value
	}
	return counters, rows.Err()
}
