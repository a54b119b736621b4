package processor

import (
	"errors"
	"time"

	"github.com/mauv0809/court-ledger/internal/club"
	"github.com/mauv0809/court-ledger/internal/config"
	"github.com/mauv0809/court-ledger/internal/ledger"
	"github.com/mauv0809/court-ledger/internal/metrics"
	"github.com/mauv0809/court-ledger/internal/pubsub"
	"github.com/mauv0809/court-ledger/internal/session"
)

var (
	ErrUnknownAction      = errors.New("unknown participant action")
	ErrUnknownReportType  = errors.New("unknown report type")
	ErrInvalidReportQuery = errors.New("invalid report query")
)

// Processor handles the business logic on top of the stores.
type Processor struct {
	players  club.PlayerStore
	sessions session.Store
	pubsub   pubsub.PubSubClient
	notifier Notifier
	metrics  metrics.Metrics
	usage    metrics.UsageStore
	defaults config.LedgerConfig
	now      func() time.Time
}

// ActionKind names an edit applied to a participant.
type ActionKind string

const (
	ActionWin       ActionKind = "win"
	ActionLoss      ActionKind = "loss"
	ActionSetWins   ActionKind = "set_wins"
	ActionSetLosses ActionKind = "set_losses"
	ActionSetFee    ActionKind = "set_fee"
	ActionSetPaid   ActionKind = "set_paid"
)

// Action is a participant edit. Number is read by the set_wins, set_losses
// and set_fee kinds, Flag by set_paid.
type Action struct {
	Kind   ActionKind
	Number float64
	Flag   bool
}

// ReportType selects which sessions a report covers.
type ReportType string

const (
	ReportDaily ReportType = "daily"
	ReportRange ReportType = "range"
	ReportAll   ReportType = "all"
)

// ReportQuery selects sessions for a report. Daily reports use Date, then
// StartDate, then today; StartDate and EndDate are required for range reports.
type ReportQuery struct {
	Type      ReportType
	Date      string
	StartDate string
	EndDate   string
}

// ReportSet is the result of a report query.
type ReportSet struct {
	Type            ReportType             `json:"type"`
	StartDate       string                 `json:"start_date,omitempty"`
	EndDate         string                 `json:"end_date,omitempty"`
	Reports         []ledger.SessionReport `json:"reports"`
	TotalReceivable float64                `json:"total_receivable"`
}
