package ledger

import "github.com/mauv0809/court-ledger/internal/session"

// Summary holds the totals shown for one session.
type Summary struct {
	TotalWins        int     `json:"total_wins"`
	TotalLosses      int     `json:"total_losses"`
	TotalFees        float64 `json:"total_fees"`
	NetBet           float64 `json:"net_bet"`
	TotalReceivable  float64 `json:"total_receivable"`
	Outstanding      float64 `json:"outstanding"`
	PaidCount        int     `json:"paid_count"`
	ParticipantCount int     `json:"participant_count"`
}

// Summarize totals the session's participants.
func Summarize(participants []session.Participant, perMatchReward float64) Summary {
	s := Summary{ParticipantCount: len(participants)}
	for _, p := range participants {
		s.TotalWins += p.Wins
		s.TotalLosses += p.Losses
		s.NetBet += float64(p.Wins-p.Losses) * perMatchReward
		if !p.IsMaster() {
			s.TotalFees += p.Fee
		}

		payable := Payable(p, perMatchReward)
		s.TotalReceivable += payable
		if p.Paid {
			s.PaidCount++
		} else if payable > 0 {
			s.Outstanding += payable
		}
	}
	return s
}

// Line is one participant row of a report.
type Line struct {
	Participant session.Participant `json:"participant"`
	Payable     float64             `json:"payable"`
}

// SessionReport is the settlement sheet of a single session.
type SessionReport struct {
	Session session.Session `json:"session"`
	Lines   []Line          `json:"lines"`
	Summary Summary         `json:"summary"`
}

// BuildReport computes the settlement sheet for a session.
func BuildReport(sess session.Session, participants []session.Participant) SessionReport {
	lines := make([]Line, 0, len(participants))
	for _, p := range participants {
		lines = append(lines, Line{Participant: p, Payable: Payable(p, sess.PerMatchReward)})
	}
	return SessionReport{
		Session: sess,
		Lines:   lines,
		Summary: Summarize(participants, sess.PerMatchReward),
	}
}

// GrandTotal sums the receivable across reports.
func GrandTotal(reports []SessionReport) float64 {
	var total float64
	for _, r := range reports {
		total += r.Summary.TotalReceivable
	}
	return total
}
