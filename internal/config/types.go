package config

// Config holds all configuration for the application.
type Config struct {
	DBName    string
	Port      string
	Slack     SlackConfig
	Turso     TursoConfig
	ProjectID string
	Ledger    LedgerConfig
}
type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// LedgerConfig holds the defaults applied to newly opened sessions.
type LedgerConfig struct {
	DefaultServiceFee     float64
	DefaultPerMatchReward float64
}

// SlackEnabled reports whether a bot token and channel are configured.
func (c Config) SlackEnabled() bool {
	return c.Slack.Token != "" && c.Slack.ChannelID != ""
}

// PubSubEnabled reports whether session events should go through Google Pub/Sub.
func (c Config) PubSubEnabled() bool {
	return c.ProjectID != ""
}
