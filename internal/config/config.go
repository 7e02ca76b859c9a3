package config

import (
	"fmt"
	"strings"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Backend selects where submissions go
type Backend string

const (
	BackendSimulated Backend = "simulated"
	BackendStore     Backend = "store"
	BackendRemote    Backend = "remote"
)

// Config holds the application configuration
type Config struct {
	// DataDir holds the signup database and the WhatsApp device store
	DataDir string `env:"DATA_DIR" envDefault:"data"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"false"`

	// ConsoleEnabled starts the interactive operator console on stdin
	ConsoleEnabled bool `env:"CONSOLE_ENABLED" envDefault:"false"`

	HTTP     HTTPConfig
	Forms    FormsConfig
	Backend  BackendConfig
	Email    EmailConfig    `envPrefix:"MAILGUN_"`
	WhatsApp WhatsAppConfig `envPrefix:"WHATSAPP_"`
}

type HTTPConfig struct {
	Addr         string        `env:"HTTP_ADDR" envDefault:":8080"`
	CookieSecure bool          `env:"HTTP_COOKIE_SECURE" envDefault:"false"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	SweepEvery   time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`
	// RateLimit is the number of submissions per minute allowed per client
	RateLimit int `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20"`
	RateBurst int `env:"RATE_LIMIT_BURST" envDefault:"5"`
}

type FormsConfig struct {
	NewsletterDelay time.Duration `env:"NEWSLETTER_DELAY" envDefault:"1500ms"`
	WaitlistDelay   time.Duration `env:"WAITLIST_DELAY" envDefault:"2000ms"`
	ContactDelay    time.Duration `env:"CONTACT_DELAY" envDefault:"1500ms"`
	ResetAfter      time.Duration `env:"SUCCESS_RESET_AFTER" envDefault:"3s"`
	SubmitTimeout   time.Duration `env:"SUBMIT_TIMEOUT" envDefault:"15s"`
}

type BackendConfig struct {
	Kind          Backend       `env:"BACKEND" envDefault:"simulated"`
	RemoteBaseURL string        `env:"REMOTE_BASE_URL"`
	RemoteAPIKey  string        `env:"REMOTE_API_KEY"`
	RemoteTimeout time.Duration `env:"REMOTE_TIMEOUT" envDefault:"10s"`
}

type EmailConfig struct {
	Enabled   bool          `env:"ENABLED" envDefault:"false"`
	Domain    string        `env:"DOMAIN"`
	APIKey    string        `env:"API_KEY"`
	APIBase   string        `env:"API_BASE"`
	FromEmail string        `env:"FROM_ADDRESS" envDefault:"hello@voiceverse.io"`
	FromName  string        `env:"FROM_NAME" envDefault:"VoiceVerse"`
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

type WhatsAppConfig struct {
	Enabled       bool   `env:"ENABLED" envDefault:"false"`
	OperatorPhone string `env:"OPERATOR_PHONE"`
	CountryCode   string `env:"COUNTRY_CODE"`
}

// LoadConfig loads configuration from a .env file (when present) and the
// environment
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.Sanitize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Sanitize applies guardrails to values loaded from the environment
func (c *Config) Sanitize() {
	c.Backend.Kind = Backend(strings.ToLower(strings.TrimSpace(string(c.Backend.Kind))))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))

	if c.HTTP.RateLimit < 1 {
		c.HTTP.RateLimit = 1
	}
	if c.HTTP.RateBurst < 1 {
		c.HTTP.RateBurst = 1
	}
	if c.HTTP.SweepEvery <= 0 {
		c.HTTP.SweepEvery = time.Minute
	}
	if c.HTTP.SessionTTL < c.Forms.ResetAfter {
		c.HTTP.SessionTTL = c.Forms.ResetAfter
	}
	if c.Forms.SubmitTimeout <= 0 {
		c.Forms.SubmitTimeout = 15 * time.Second
	}
	c.Backend.RemoteBaseURL = strings.TrimRight(c.Backend.RemoteBaseURL, "/")
}

// Validate reports settings that cannot work together
func (c *Config) Validate() error {
	switch c.Backend.Kind {
	case BackendSimulated, BackendStore:
	case BackendRemote:
		if c.Backend.RemoteBaseURL == "" {
			return fmt.Errorf("REMOTE_BASE_URL is required when BACKEND=remote")
		}
	default:
		return fmt.Errorf("unknown BACKEND %q (want simulated, store or remote)", c.Backend.Kind)
	}

	if c.WhatsApp.Enabled && c.Backend.Kind != BackendStore {
		return fmt.Errorf("WHATSAPP_ENABLED requires BACKEND=store")
	}
	if c.Email.Enabled && c.Backend.Kind != BackendStore {
		return fmt.Errorf("MAILGUN_ENABLED requires BACKEND=store")
	}
	if c.ConsoleEnabled && c.Backend.Kind != BackendStore {
		return fmt.Errorf("CONSOLE_ENABLED requires BACKEND=store")
	}
	return nil
}

// StoragePath is the signup database location
func (c *Config) StoragePath() string {
	return fmt.Sprintf("%s/signups.db", c.DataDir)
}
