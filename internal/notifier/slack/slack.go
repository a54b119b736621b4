package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-ledger/internal/ledger"
	"github.com/mauv0809/court-ledger/internal/metrics"
	"github.com/mauv0809/court-ledger/internal/notifier"
	"github.com/mauv0809/court-ledger/internal/pairing"
	"github.com/mauv0809/court-ledger/internal/ranking"
	"github.com/mauv0809/court-ledger/internal/session"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Slack rejects messages with more than 50 blocks.
const (
	leaderboardBatch       = 10
	maxLeaderboardSections = 48
)

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-channel", "dry-run-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendLeaderboard(entries []ranking.Entry, period ranking.Period, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatLeaderboard(entries, period), dryRun)
	return err
}

func (s *Notifier) SendSchedule(sess session.Session, plan pairing.Plan, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatSchedule(sess, plan), dryRun)
	return err
}

func (s *Notifier) SendSessionReport(report ledger.SessionReport, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatSessionReport(report), dryRun)
	return err
}

// FormatLeaderboardResponse formats a leaderboard message for a slash command response.
func (s *Notifier) FormatLeaderboardResponse(entries []ranking.Entry, period ranking.Period) (any, error) {
	return s.formatLeaderboard(entries, period), nil
}

// FormatPlayerStatsResponse formats a single player's monthly stats for a slash command response.
func (s *Notifier) FormatPlayerStatsResponse(entry *ranking.Entry, period ranking.Period) (any, error) {
	return s.formatPlayerStats(entry, period), nil
}

// FormatPlayerNotFoundResponse formats a player not found message for a slash command response.
func (s *Notifier) FormatPlayerNotFoundResponse(query string) (any, error) {
	return s.formatPlayerNotFound(query), nil
}

func plainSection(text string) *slack.SectionBlock {
	return slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", text, true, false), nil, nil)
}

func mrkdwnSection(text string) *slack.SectionBlock {
	return slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil)
}

var mrkdwnEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeMrkdwn(s string) string {
	return mrkdwnEscaper.Replace(s)
}

func header(text string) *slack.HeaderBlock {
	return slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", text, true, false))
}

func periodLabel(p ranking.Period) string {
	if p.Month < 1 || p.Month > 12 {
		return strconv.Itoa(p.Year)
	}
	return fmt.Sprintf("%s %d", time.Month(p.Month), p.Year)
}

func medal(rank int) string {
	switch rank {
	case 1:
		return "🥇 "
	case 2:
		return "🥈 "
	case 3:
		return "🥉 "
	}
	return ""
}

// formatAmount prints money without trailing zeros.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatLeaderboard creates a Slack message to display the monthly leaderboard.
func (s *Notifier) formatLeaderboard(entries []ranking.Entry, period ranking.Period) slack.Message {
	blocks := []slack.Block{header(fmt.Sprintf("🏆 Leaderboard %s 🏆", periodLabel(period)))}

	if len(entries) == 0 {
		blocks = append(blocks, plainSection("No results this month yet. Go play some matches!"))
		return slack.NewBlockMessage(blocks...)
	}

	lines := make([]string, 0, leaderboardBatch)
	flush := func() {
		blocks = append(blocks, mrkdwnSection(strings.Join(lines, "\n")))
		lines = lines[:0]
	}
	for i, e := range entries {
		rank := i + 1
		if len(blocks) == maxLeaderboardSections+1 {
			blocks = append(blocks, mrkdwnSection(fmt.Sprintf("_…and %d more_", len(entries)-i)))
			return slack.NewBlockMessage(blocks...)
		}
		lines = append(lines, fmt.Sprintf("%d. %s*%s* [%s]\n> Win rate: %.1f%% (%d/%d) | Sessions: %d",
			rank,
			medal(rank),
			escapeMrkdwn(e.Name),
			e.Tier,
			e.WinRate,
			e.Wins,
			e.Total,
			e.Sessions,
		))
		if len(lines) == leaderboardBatch {
			flush()
		}
	}
	if len(lines) > 0 {
		flush()
	}
	return slack.NewBlockMessage(blocks...)
}

func (s *Notifier) formatPlayerStats(e *ranking.Entry, period ranking.Period) slack.Message {
	text := fmt.Sprintf("> *Tier*: %s\n> *Win rate*: %.1f%% (%d/%d)\n> *Losses*: %d\n> *Sessions*: %d",
		e.Tier, e.WinRate, e.Wins, e.Total, e.Losses, e.Sessions)
	return slack.NewBlockMessage(
		header(fmt.Sprintf("🏸 %s, %s", e.Name, periodLabel(period))),
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
}

func (s *Notifier) formatPlayerNotFound(query string) slack.Message {
	text := fmt.Sprintf("Sorry, I couldn't find a player matching *%s* on this month's leaderboard.", query)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
}

// formatSchedule lists the matches of a plan grouped by round.
func (s *Notifier) formatSchedule(sess session.Session, plan pairing.Plan) slack.Message {
	blocks := []slack.Block{header(fmt.Sprintf("🏸 Schedule for %s", sess.Date))}

	if len(plan.Matches) == 0 {
		blocks = append(blocks, plainSection("Not enough pairs for a schedule."))
		return slack.NewBlockMessage(blocks...)
	}

	var lines []string
	round := 0
	flush := func() {
		if len(lines) > 0 {
			blocks = append(blocks, plainSection(fmt.Sprintf("Round %d\n%s", round, strings.Join(lines, "\n"))))
			lines = nil
		}
	}
	for _, m := range plan.Matches {
		if m.Round != round {
			flush()
			round = m.Round
		}
		lines = append(lines, fmt.Sprintf("• %s vs %s",
			strings.Join(m.PairA.Names(), " & "),
			strings.Join(m.PairB.Names(), " & "),
		))
	}
	flush()

	blocks = append(blocks, slack.NewContextBlock("",
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("Pairing: %s • Avg. matches per player: %.1f", plan.Mode, plan.AverageMatches), true, false),
	))
	return slack.NewBlockMessage(blocks...)
}

// formatSessionReport lists every participant's payable and the session totals.
func (s *Notifier) formatSessionReport(report ledger.SessionReport) slack.Message {
	blocks := []slack.Block{header(fmt.Sprintf("💰 Session report %s", report.Session.Date))}

	if len(report.Lines) == 0 {
		blocks = append(blocks, plainSection("Nobody played in this session."))
		return slack.NewBlockMessage(blocks...)
	}

	lines := make([]string, 0, len(report.Lines))
	for _, l := range report.Lines {
		status := ""
		if l.Participant.Paid {
			status = " ✅"
		}
		lines = append(lines, fmt.Sprintf("• %s (%d-%d): %s%s",
			l.Participant.Name, l.Participant.Wins, l.Participant.Losses, formatAmount(l.Payable), status))
	}
	blocks = append(blocks, plainSection(strings.Join(lines, "\n")))

	sum := report.Summary
	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject("plain_text", "Receivable: "+formatAmount(sum.TotalReceivable), true, false),
		slack.NewTextBlockObject("plain_text", "Outstanding: "+formatAmount(sum.Outstanding), true, false),
		slack.NewTextBlockObject("plain_text", "Fees: "+formatAmount(sum.TotalFees), true, false),
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("Paid: %d/%d", sum.PaidCount, sum.ParticipantCount), true, false),
	}
	blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))
	return slack.NewBlockMessage(blocks...)
}
