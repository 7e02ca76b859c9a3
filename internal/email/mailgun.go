package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/rs/zerolog"

	"voiceverse-signup/internal/models"
)

type Config struct {
	Enabled   bool
	Domain    string
	APIKey    string
	APIBase   string
	FromEmail string
	FromName  string
	Timeout   time.Duration
}

// IsConfigured reports whether enough settings exist to talk to Mailgun
func (c *Config) IsConfigured() bool {
	return c.Enabled && c.Domain != "" && c.APIKey != "" && c.FromEmail != ""
}

type client interface {
	NewMessage(from, subject, text string, to ...string) *mailgun.Message
	Send(ctx context.Context, m *mailgun.Message) (string, string, error)
}

// Confirmer sends the confirmation email promised by the success messages
type Confirmer struct {
	cfg    *Config
	log    zerolog.Logger
	client client
}

// NewConfirmer returns nil when Mailgun is not configured
func NewConfirmer(cfg *Config, log zerolog.Logger) *Confirmer {
	if !cfg.IsConfigured() {
		return nil
	}

	mg := mailgun.NewMailgun(cfg.Domain, cfg.APIKey)
	if cfg.APIBase != "" {
		mg.SetAPIBase(cfg.APIBase)
	}

	return newConfirmer(cfg, log, mg)
}

func newConfirmer(cfg *Config, log zerolog.Logger, c client) *Confirmer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Confirmer{
		cfg:    cfg,
		log:    log.With().Str("component", "Mailgun").Logger(),
		client: c,
	}
}

// NotifySignup emails the person who signed up
func (c *Confirmer) NotifySignup(ctx context.Context, signup models.Signup) error {
	subject, text := Confirmation(signup)
	id, err := c.send(ctx, signup.Name(), signup.Email, subject, text)
	if err != nil {
		return fmt.Errorf("failed to send confirmation to %s: %w", signup.Email, err)
	}

	c.log.Info().Str("kind", string(signup.Kind)).Str("message_id", id).Msg("Confirmation sent")
	return nil
}

// NotifyContact acknowledges a contact message to its sender
func (c *Confirmer) NotifyContact(ctx context.Context, msg models.ContactMessage) error {
	subject, text := ContactAcknowledgement(msg)
	id, err := c.send(ctx, msg.Name, msg.Email, subject, text)
	if err != nil {
		return fmt.Errorf("failed to acknowledge contact from %s: %w", msg.Email, err)
	}

	c.log.Info().Str("contact_id", msg.ID).Str("message_id", id).Msg("Contact acknowledgement sent")
	return nil
}

func (c *Confirmer) send(ctx context.Context, name, address, subject, text string) (string, error) {
	from := c.cfg.FromEmail
	if c.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", c.cfg.FromName, c.cfg.FromEmail)
	}
	to := address
	if name != "" && name != address {
		to = fmt.Sprintf("%s <%s>", name, address)
	}

	message := c.client.NewMessage(from, subject, text, to)

	sendCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	_, id, err := c.client.Send(sendCtx, message)
	return id, err
}

// Confirmation builds the subject and body of the confirmation email
func Confirmation(signup models.Signup) (subject, text string) {
	var b strings.Builder
	switch signup.Kind {
	case models.KindWaitlist:
		subject = "You're on the VoiceVerse waitlist"
		fmt.Fprintf(&b, "Hi %s,\n\n", signup.Name())
		b.WriteString("Welcome to VoiceVerse! You're now on our exclusive waitlist.\n\n")
		b.WriteString("As a waitlist member you get:\n")
		for _, perk := range []string{"Early Alpha Access", "Exclusive NFT Drops", "Founder Benefits", "VIP Community Access"} {
			fmt.Fprintf(&b, "  - %s\n", perk)
		}
		if len(signup.Interests) > 0 {
			fmt.Fprintf(&b, "\nWe'll keep you posted about: %s.\n", strings.Join(signup.Interests, ", "))
		}
	default:
		subject = "Welcome to the VoiceVerse newsletter"
		b.WriteString("Welcome aboard!\n\n")
		b.WriteString("You'll receive VoiceVerse news and updates at this address.\n")
	}
	b.WriteString("\nWe respect your privacy. Unsubscribe at any time. No spam, ever.\n")
	return subject, b.String()
}

// ContactAcknowledgement quotes the message back to its sender
func ContactAcknowledgement(msg models.ContactMessage) (subject, text string) {
	var b strings.Builder
	subject = "We got your message: " + msg.Subject
	fmt.Fprintf(&b, "Hi %s,\n\n", msg.Name)
	b.WriteString("Thanks for reaching out! We'll get back to you soon.\n\n")
	b.WriteString("Your message:\n")
	for _, line := range strings.Split(msg.Message, "\n") {
		fmt.Fprintf(&b, "> %s\n", line)
	}
	b.WriteString("\nThe VoiceVerse team\n")
	return subject, b.String()
}
