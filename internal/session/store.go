package session

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/court-ledger/internal/ranking"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRow(query string, args ...any) *sql.Row
}

const participantColumns = "id, session_id, player_id, player_name, fee, wins, losses, paid"

// New creates a new Store.
func New(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

func (s *store) CreateSession(date string, serviceFee, perMatchReward float64) (*Session, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	if serviceFee < 0 || perMatchReward < 0 {
		return nil, ErrInvalidFee
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &Session{
		ID:             uuid.New().String(),
		Date:           date,
		ServiceFee:     serviceFee,
		PerMatchReward: perMatchReward,
		CreatedAt:      time.Now().UTC().Truncate(time.Second),
	}
	_, err := s.db.Exec(
		"INSERT INTO sessions (id, session_date, service_fee, per_match_reward, created_at) VALUES (?, ?, ?, ?, ?)",
		sess.ID, sess.Date, sess.ServiceFee, sess.PerMatchReward, sess.CreatedAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Info("Created session", "sessionID", sess.ID, "date", sess.Date, "serviceFee", serviceFee, "perMatchReward", perMatchReward)
	return sess, nil
}

func (s *store) GetSession(sessionID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getSession(s.db, sessionID)
}

func (s *store) UpdateSession(sessionID string, update SessionUpdate) (*Session, error) {
	if (update.ServiceFee != nil && *update.ServiceFee < 0) || (update.PerMatchReward != nil && *update.PerMatchReward < 0) {
		return nil, ErrInvalidFee
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sess, err := getSession(tx, sessionID)
	if err != nil {
		return nil, err
	}

	if update.ServiceFee != nil {
		sess.ServiceFee = *update.ServiceFee
		res, err := tx.Exec("UPDATE session_players SET fee = ? WHERE session_id = ? AND player_id IS NULL", sess.ServiceFee, sessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to cascade service fee: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			log.Debug("Cascaded service fee to temporary participants", "sessionID", sessionID, "count", n)
		}
	}
	if update.PerMatchReward != nil {
		sess.PerMatchReward = *update.PerMatchReward
	}

	_, err = tx.Exec("UPDATE sessions SET service_fee = ?, per_match_reward = ? WHERE id = ?", sess.ServiceFee, sess.PerMatchReward, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit session update: %w", err)
	}

	log.Info("Updated session", "sessionID", sessionID, "serviceFee", sess.ServiceFee, "perMatchReward", sess.PerMatchReward)
	return sess, nil
}

// FindByDate returns the earliest created session on the given date.
func (s *store) FindByDate(date string) (*Session, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(
		"SELECT id, session_date, service_fee, per_match_reward, created_at FROM sessions WHERE session_date = ? ORDER BY created_at, rowid LIMIT 1",
		date,
	)
	sess, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: no session on %s", ErrSessionNotFound, date)
		}
		return nil, fmt.Errorf("failed to find session by date: %w", err)
	}
	return sess, nil
}

func (s *store) ListSessions(from, to string) ([]Session, error) {
	query := "SELECT id, session_date, service_fee, per_match_reward, created_at FROM sessions"
	var conds []string
	var args []any
	if from != "" {
		conds = append(conds, "session_date >= ?")
		args = append(args, from)
	}
	if to != "" {
		conds = append(conds, "session_date <= ?")
		args = append(args, to)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY session_date, created_at, rowid"

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Error("Failed to query sessions", "error", err, "from", from, "to", to)
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]Session, 0)
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		sessions = append(sessions, *sess)
	}
	return sessions, rows.Err()
}

func (s *store) ListParticipants(sessionID string) ([]Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT "+participantColumns+" FROM session_players WHERE session_id = ? ORDER BY created_at, rowid", sessionID)
	if err != nil {
		log.Error("Failed to query participants", "error", err, "sessionID", sessionID)
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	participants := make([]Participant, 0)
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", err)
		}
		participants = append(participants, *p)
	}
	return participants, rows.Err()
}

// AddParticipant adds a master (np.PlayerID set) or temporary participant.
// Masters always carry a zero fee; temporaries default to the session fee.
func (s *store) AddParticipant(sessionID string, np NewParticipant) (*Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sess, err := getSession(tx, sessionID)
	if err != nil {
		return nil, err
	}

	p := &Participant{
		ID:        uuid.New().String(),
		SessionID: sessionID,
	}

	if np.PlayerID != "" {
		name := strings.TrimSpace(np.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: master %s has no registry name", ErrNameRequired, np.PlayerID)
		}
		var exists bool
		err := tx.QueryRow("SELECT EXISTS(SELECT 1 FROM session_players WHERE session_id = ? AND player_id = ?)", sessionID, np.PlayerID).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("failed to check membership: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyInSession, name)
		}
		p.Role = RoleMaster
		p.PlayerID = np.PlayerID
		p.Name = name
	} else {
		name := strings.TrimSpace(np.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		p.Role = RoleTemporary
		p.Name = name
		p.Fee = sess.ServiceFee
		if np.Fee != nil {
			if *np.Fee < 0 {
				return nil, ErrInvalidFee
			}
			p.Fee = *np.Fee
		}
	}

	_, err = tx.Exec(
		"INSERT INTO session_players (id, session_id, player_id, player_name, fee, wins, losses, paid, created_at) VALUES (?, ?, ?, ?, ?, 0, 0, 0, ?)",
		p.ID, p.SessionID, nullableString(p.PlayerID), p.Name, p.Fee, time.Now().Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add participant: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit participant: %w", err)
	}

	log.Info("Added participant to session", "sessionID", sessionID, "participantID", p.ID, "name", p.Name, "role", p.Role)
	return p, nil
}

// UpdateParticipant applies the given edits. Fee edits on master
// participants are ignored.
func (s *store) UpdateParticipant(participantID string, update ParticipantUpdate) (*Participant, error) {
	if (update.Wins != nil && *update.Wins < 0) || (update.Losses != nil && *update.Losses < 0) {
		return nil, ErrInvalidScore
	}
	if update.Fee != nil && *update.Fee < 0 {
		return nil, ErrInvalidFee
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	p, err := getParticipant(tx, participantID)
	if err != nil {
		return nil, err
	}
	if update.Wins != nil {
		p.Wins = *update.Wins
	}
	if update.Losses != nil {
		p.Losses = *update.Losses
	}
	if update.Fee != nil {
		if p.IsMaster() {
			log.Warn("Ignoring fee update for master participant", "participantID", participantID)
		} else {
			p.Fee = *update.Fee
		}
	}
	if update.Paid != nil {
		p.Paid = *update.Paid
	}

	_, err = tx.Exec("UPDATE session_players SET wins = ?, losses = ?, fee = ?, paid = ? WHERE id = ?", p.Wins, p.Losses, p.Fee, p.Paid, participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to update participant: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit participant update: %w", err)
	}

	log.Debug("Updated participant", "participantID", participantID, "wins", p.Wins, "losses", p.Losses, "fee", p.Fee, "paid", p.Paid)
	return p, nil
}

func (s *store) RecordWin(participantID string) (*Participant, error) {
	return s.increment(participantID, "wins")
}

func (s *store) RecordLoss(participantID string) (*Participant, error) {
	return s.increment(participantID, "losses")
}

func (s *store) increment(participantID, column string) (*Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE session_players SET "+column+" = "+column+" + 1 WHERE id = ?", participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to increment %s: %w", column, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: %s", ErrParticipantNotFound, participantID)
	}
	return getParticipant(s.db, participantID)
}

func (s *store) DeleteParticipant(participantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM session_players WHERE id = ?", participantID)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrParticipantNotFound, participantID)
	}

	log.Info("Removed participant", "participantID", participantID)
	return nil
}

func (s *store) UpdateAllFees(sessionID string, fee float64) (int64, error) {
	if fee < 0 {
		return 0, ErrInvalidFee
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := getSession(s.db, sessionID); err != nil {
		return 0, err
	}
	res, err := s.db.Exec("UPDATE session_players SET fee = ? WHERE session_id = ? AND player_id IS NULL", fee, sessionID)
	if err != nil {
		return 0, fmt.Errorf("failed to update fees: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	log.Info("Updated fees for temporary participants", "sessionID", sessionID, "fee", fee, "count", affected)
	return affected, nil
}

func (s *store) ListParticipation() ([]ranking.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT sp.player_id, sp.wins, sp.losses, s.session_date
		FROM session_players sp
		JOIN sessions s ON s.id = sp.session_id
		WHERE sp.player_id IS NOT NULL
		ORDER BY sp.rowid`)
	if err != nil {
		log.Error("Failed to query participation history", "error", err)
		return nil, fmt.Errorf("failed to list participation: %w", err)
	}
	defer rows.Close()

	records := make([]ranking.Record, 0)
	for rows.Next() {
		var r ranking.Record
		if err := rows.Scan(&r.PlayerID, &r.Wins, &r.Losses, &r.SessionDate); err != nil {
			return nil, fmt.Errorf("failed to scan participation row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func getSession(q queryer, sessionID string) (*Session, error) {
	row := q.QueryRow("SELECT id, session_date, service_fee, per_match_reward, created_at FROM sessions WHERE id = ?", sessionID)
	sess, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return sess, nil
}

func getParticipant(q queryer, participantID string) (*Participant, error) {
	row := q.QueryRow("SELECT "+participantColumns+" FROM session_players WHERE id = ?", participantID)
	p, err := scanParticipant(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrParticipantNotFound, participantID)
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return p, nil
}

type scanner interface{ Scan(...any) error }

func scanSession(sc scanner) (*Session, error) {
	var sess Session
	var createdAt int64
	if err := sc.Scan(&sess.ID, &sess.Date, &sess.ServiceFee, &sess.PerMatchReward, &createdAt); err != nil {
		return nil, err
	}
	sess.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &sess, nil
}

func scanParticipant(sc scanner) (*Participant, error) {
	var p Participant
	var playerID sql.NullString
	if err := sc.Scan(&p.ID, &p.SessionID, &playerID, &p.Name, &p.Fee, &p.Wins, &p.Losses, &p.Paid); err != nil {
		return nil, err
	}
	if playerID.Valid {
		p.Role = RoleMaster
		p.PlayerID = playerID.String
	} else {
		p.Role = RoleTemporary
	}
	return &p, nil
}

func nullableString(v string) any {
	if v == "" {
		return nil
	}
	return v
}
