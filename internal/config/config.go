// Package config holds the process-wide application configuration. It is
// parsed once at startup and injected into handlers and services; the struct
// itself is read-only after Load so it is safe to share across requests.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full application configuration, parsed from the environment.
type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	GinMode string `env:"GIN_MODE" envDefault:"debug"`

	// Base URL of the deployed app, used in invite links and digest emails.
	AppBaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
	LoginURL   string `env:"LOGIN_URL" envDefault:"http://localhost:8080/login"`

	// Shared secrets. SessionSecret signs/verifies user session tokens issued
	// by the auth provider; the other two gate machine-to-machine endpoints.
	SessionSecret string `env:"SESSION_JWT_SECRET"`
	CronSecret    string `env:"CRON_SECRET"`
	IngestSecret  string `env:"INGEST_SECRET"`

	// Upstream APIs
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	MailerBaseURL string `env:"MAILER_BASE_URL" envDefault:"https://api.resend.com"`
	MailerAPIKey  string `env:"MAILER_API_KEY"`
	MailerFrom    string `env:"MAILER_FROM" envDefault:"Radar <digest@radar.local>"`
	SocialBaseURL string `env:"SOCIAL_BASE_URL"`
	SocialAPIKey  string `env:"SOCIAL_API_KEY"`

	// Source quota per account. WarnThreshold drives the near-limit flag
	// surfaced to the UI before the hard cap is hit.
	MaxSourcesPerAccount int `env:"MAX_SOURCES_PER_ACCOUNT" envDefault:"25"`
	SourceWarnThreshold  int `env:"SOURCE_WARN_THRESHOLD" envDefault:"20"`

	// Invite lifecycle
	InviteTTL              time.Duration `env:"INVITE_TTL" envDefault:"168h"`
	InviteMaxReminders     int           `env:"INVITE_MAX_REMINDERS" envDefault:"3"`
	InviteReminderInterval time.Duration `env:"INVITE_REMINDER_INTERVAL" envDefault:"48h"`

	// Outbound fetch deadline for article backfill and channel discovery.
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"15s"`

	// Background RSS refresh
	RSSRefreshSpec string `env:"RSS_REFRESH_SPEC" envDefault:"*/15 * * * *"`
}

// Load parses configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
