package processor

import (
	"github.com/mauv0809/court-ledger/internal/notifier"
)

// Notifier defines the notification operations required by the processor.
// Implementations may be nil when Slack is not configured.
type Notifier interface {
	notifier.Notifier
}
