package processor

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-ledger/internal/club"
	"github.com/mauv0809/court-ledger/internal/config"
	"github.com/mauv0809/court-ledger/internal/ledger"
	"github.com/mauv0809/court-ledger/internal/metrics"
	"github.com/mauv0809/court-ledger/internal/pairing"
	"github.com/mauv0809/court-ledger/internal/pubsub"
	"github.com/mauv0809/court-ledger/internal/ranking"
	"github.com/mauv0809/court-ledger/internal/session"
)

// New creates a new Processor. The notifier may be nil when Slack is not configured.
func New(
	players club.PlayerStore,
	sessions session.Store,
	notifier Notifier,
	metrics metrics.Metrics,
	usage metrics.UsageStore,
	pubsub pubsub.PubSubClient,
	defaults config.LedgerConfig,
) *Processor {
	return &Processor{
		players:  players,
		sessions: sessions,
		notifier: notifier,
		metrics:  metrics,
		usage:    usage,
		pubsub:   pubsub,
		defaults: defaults,
		now:      time.Now,
	}
}

// WithClock replaces the processor's clock. Used by tests.
func (p *Processor) WithClock(now func() time.Time) *Processor {
	p.now = now
	return p
}

// CurrentPeriod is the calendar month of the processor's clock.
func (p *Processor) CurrentPeriod() ranking.Period {
	now := p.now()
	return ranking.Period{Month: int(now.Month()), Year: now.Year()}
}

// CreateSession opens a session, applying the configured defaults for
// missing amounts.
func (p *Processor) CreateSession(date string, serviceFee, perMatchReward *float64) (*session.Session, error) {
	fee := p.defaults.DefaultServiceFee
	if serviceFee != nil {
		fee = *serviceFee
	}
	reward := p.defaults.DefaultPerMatchReward
	if perMatchReward != nil {
		reward = *perMatchReward
	}

	sess, err := p.sessions.CreateSession(date, fee, reward)
	if err != nil {
		return nil, err
	}
	p.usage.Increment(metrics.KeySessionsCreated)
	return sess, nil
}

// AddParticipant adds a participant to a session. Registered players are
// looked up so their current name is snapshotted on the participant.
func (p *Processor) AddParticipant(sessionID string, np session.NewParticipant) (*session.Participant, error) {
	if np.PlayerID != "" {
		player, err := p.players.GetPlayer(np.PlayerID)
		if err != nil {
			if errors.Is(err, club.ErrPlayerNotFound) {
				return nil, fmt.Errorf("%w: %s", session.ErrUnknownPlayer, np.PlayerID)
			}
			return nil, err
		}
		np.Name = player.Name
	}
	return p.sessions.AddParticipant(sessionID, np)
}

// Leaderboard builds the leaderboard for the given month.
func (p *Processor) Leaderboard(period ranking.Period) ([]ranking.Entry, error) {
	records, err := p.sessions.ListParticipation()
	if err != nil {
		return nil, fmt.Errorf("failed to load participation: %w", err)
	}

	seen := make(map[string]bool)
	var ids []string
	for _, r := range records {
		if r.PlayerID != "" && !seen[r.PlayerID] {
			seen[r.PlayerID] = true
			ids = append(ids, r.PlayerID)
		}
	}
	players, err := p.players.GetPlayers(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}
	names := make(map[string]string, len(players))
	for _, pl := range players {
		names[pl.ID] = pl.Name
	}

	entries := ranking.Build(records, names, period)
	log.Debug("Built leaderboard", "month", period.Month, "year", period.Year, "entries", len(entries))
	return entries, nil
}

// FindPlayerEntry returns the first leaderboard entry whose name contains
// the query, ignoring case. It returns nil when nobody matches.
func (p *Processor) FindPlayerEntry(query string, period ranking.Period) (*ranking.Entry, error) {
	entries, err := p.Leaderboard(period)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	for i := range entries {
		if strings.Contains(strings.ToLower(entries[i].Name), q) {
			return &entries[i], nil
		}
	}
	return nil, nil
}

// PostLeaderboard sends the month's leaderboard to Slack.
func (p *Processor) PostLeaderboard(period ranking.Period, dryRun bool) error {
	if p.notifier == nil {
		log.Warn("Slack is not configured, not posting leaderboard")
		return nil
	}
	entries, err := p.Leaderboard(period)
	if err != nil {
		return err
	}
	return p.notifier.SendLeaderboard(entries, period, dryRun)
}

// tierLookup derives tiers from the current month's leaderboard.
func (p *Processor) tierLookup() (map[string]ranking.Tier, error) {
	entries, err := p.Leaderboard(p.CurrentPeriod())
	if err != nil {
		return nil, err
	}
	return ranking.TierMap(entries), nil
}

// GeneratePlan pairs the session's roster and schedules the matches. A nil
// seed draws a random one.
func (p *Processor) GeneratePlan(sessionID string, mode pairing.Mode, seed *uint64) (*session.Session, pairing.Plan, error) {
	sess, err := p.sessions.GetSession(sessionID)
	if err != nil {
		return nil, pairing.Plan{}, err
	}
	participants, err := p.sessions.ListParticipants(sessionID)
	if err != nil {
		return nil, pairing.Plan{}, err
	}

	var rng *rand.Rand
	if seed != nil {
		rng = rand.New(rand.NewPCG(*seed, *seed))
	}

	pairs, used := pairing.Generate(participants, mode, p.tierLookup, rng)
	if mode == pairing.ModeBalanced && used != pairing.ModeBalanced {
		p.metrics.IncPairingFallbacks()
	}
	plan := pairing.NewPlan(participants, pairs, used)

	p.metrics.IncSchedulesGenerated(string(used))
	p.usage.Increment(metrics.KeySchedulesGenerated)
	log.Info("Generated schedule", "sessionID", sessionID, "mode", used, "pairs", len(plan.Pairs), "matches", len(plan.Matches))
	return sess, plan, nil
}

// AnnounceSchedule posts the plan to Slack.
func (p *Processor) AnnounceSchedule(sess *session.Session, plan pairing.Plan, dryRun bool) error {
	if p.notifier == nil {
		log.Warn("Slack is not configured, not announcing schedule", "sessionID", sess.ID)
		return nil
	}
	return p.notifier.SendSchedule(*sess, plan, dryRun)
}

// ApplyAction applies a participant edit.
func (p *Processor) ApplyAction(participantID string, a Action) (*session.Participant, error) {
	var (
		updated *session.Participant
		err     error
		scored  bool
	)

	switch a.Kind {
	case ActionWin:
		updated, err = p.sessions.RecordWin(participantID)
		scored = true
	case ActionLoss:
		updated, err = p.sessions.RecordLoss(participantID)
		scored = true
	case ActionSetWins, ActionSetLosses:
		n, convErr := toCount(a.Number)
		if convErr != nil {
			return nil, convErr
		}
		upd := session.ParticipantUpdate{Wins: &n}
		if a.Kind == ActionSetLosses {
			upd = session.ParticipantUpdate{Losses: &n}
		}
		updated, err = p.sessions.UpdateParticipant(participantID, upd)
		scored = true
	case ActionSetFee:
		updated, err = p.sessions.UpdateParticipant(participantID, session.ParticipantUpdate{Fee: &a.Number})
	case ActionSetPaid:
		updated, err = p.sessions.UpdateParticipant(participantID, session.ParticipantUpdate{Paid: &a.Flag})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, a.Kind)
	}
	if err != nil {
		return nil, err
	}

	if scored {
		p.metrics.IncResultsRecorded()
		p.usage.Increment(metrics.KeyResultsRecorded)
	}
	return updated, nil
}

func toCount(v float64) (int, error) {
	if v < 0 || v != math.Trunc(v) || v > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %v", session.ErrInvalidScore, v)
	}
	return int(v), nil
}

// SessionReport builds the settlement sheet of one session.
func (p *Processor) SessionReport(sessionID string) (ledger.SessionReport, error) {
	start := time.Now()
	defer func() {
		p.metrics.ObserveReportDuration(time.Since(start).Seconds())
	}()

	sess, err := p.sessions.GetSession(sessionID)
	if err != nil {
		return ledger.SessionReport{}, err
	}
	participants, err := p.sessions.ListParticipants(sessionID)
	if err != nil {
		return ledger.SessionReport{}, err
	}
	return ledger.BuildReport(*sess, participants), nil
}

// Reports builds the reports of every session selected by the query.
func (p *Processor) Reports(q ReportQuery) (ReportSet, error) {
	set := ReportSet{Type: q.Type}

	var sessions []session.Session
	var err error
	switch q.Type {
	case ReportDaily:
		date := q.Date
		if date == "" {
			date = q.StartDate
		}
		if date == "" {
			date = p.now().Format(session.DateLayout)
		}
		set.StartDate, set.EndDate = date, date
		sessions, err = p.sessions.ListSessions(date, date)
	case ReportRange:
		if q.StartDate == "" || q.EndDate == "" {
			return ReportSet{}, fmt.Errorf("%w: range reports need startDate and endDate", ErrInvalidReportQuery)
		}
		if q.StartDate > q.EndDate {
			return ReportSet{}, fmt.Errorf("%w: startDate is after endDate", ErrInvalidReportQuery)
		}
		set.StartDate, set.EndDate = q.StartDate, q.EndDate
		sessions, err = p.sessions.ListSessions(q.StartDate, q.EndDate)
	case ReportAll:
		sessions, err = p.sessions.ListSessions("", "")
	default:
		return ReportSet{}, fmt.Errorf("%w: %q", ErrUnknownReportType, q.Type)
	}
	if err != nil {
		return ReportSet{}, err
	}

	set.Reports = make([]ledger.SessionReport, 0, len(sessions))
	for _, s := range sessions {
		report, err := p.SessionReport(s.ID)
		if err != nil {
			return ReportSet{}, fmt.Errorf("failed to build report for session %s: %w", s.ID, err)
		}
		set.Reports = append(set.Reports, report)
	}
	set.TotalReceivable = ledger.GrandTotal(set.Reports)

	log.Info("Built reports", "type", q.Type, "sessions", len(set.Reports), "totalReceivable", set.TotalReceivable)
	return set, nil
}

// RecordExport counts an exported report.
func (p *Processor) RecordExport() {
	p.usage.Increment(metrics.KeyReportsExported)
}

// UsageStats returns the lifetime usage counters.
func (p *Processor) UsageStats() (map[string]int, error) {
	return p.usage.GetAll()
}

// CloseSession publishes a session-closed event. Subscribers post the
// session report to Slack.
func (p *Processor) CloseSession(sessionID string, dryRun bool) error {
	if _, err := p.sessions.GetSession(sessionID); err != nil {
		return err
	}

	event := pubsub.SessionClosedEvent{
		SessionID: sessionID,
		ClosedAt:  p.now().Unix(),
		DryRun:    dryRun,
	}
	if err := p.pubsub.SendMessage(pubsub.EventSessionClosed, event); err != nil {
		return fmt.Errorf("failed to publish session-closed event: %w", err)
	}

	p.metrics.IncSessionsClosed()
	p.usage.Increment(metrics.KeySessionsClosed)
	log.Info("Closed session", "sessionID", sessionID, "dryRun", dryRun)
	return nil
}

// HandleSessionClosed consumes an encoded session-closed event.
func (p *Processor) HandleSessionClosed(data []byte) error {
	var event pubsub.SessionClosedEvent
	if err := p.pubsub.ProcessMessage(data, &event); err != nil {
		return err
	}
	if event.SessionID == "" {
		return fmt.Errorf("%w: session-closed event without session id", session.ErrSessionNotFound)
	}
	return p.NotifySessionReport(event.SessionID, event.DryRun)
}

// NotifySessionReport posts the session's report to Slack.
func (p *Processor) NotifySessionReport(sessionID string, dryRun bool) error {
	report, err := p.SessionReport(sessionID)
	if err != nil {
		return err
	}
	if p.notifier == nil {
		log.Warn("Slack is not configured, not posting session report", "sessionID", sessionID)
		return nil
	}
	return p.notifier.SendSessionReport(report, dryRun)
}
