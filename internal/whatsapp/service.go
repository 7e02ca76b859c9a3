package whatsapp

import (
	"context"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"

	"voiceverse-signup/internal/models"
)

// MessageHandler is a callback function for handling incoming messages
type MessageHandler func(*events.Message) error

type Config struct {
	DataDir string
	// OperatorPhone receives signup alerts and may send operator commands
	OperatorPhone string
	// CountryCode replaces the trunk prefix of local numbers, e.g. "972"
	CountryCode string
}

type Service struct {
	client         *whatsmeow.Client
	cfg            *Config
	log            zerolog.Logger
	messageHandler MessageHandler
}

// NewService creates a new WhatsApp service backed by a sqlite device store
func NewService(ctx context.Context, cfg *Config, log zerolog.Logger) (*Service, error) {
	logger := log.With().Str("component", "WhatsApp").Logger()

	container, err := sqlstore.New(ctx, "sqlite3", fmt.Sprintf("file:%s/whatsmeow.db?_foreign_keys=on", cfg.DataDir), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	client := whatsmeow.NewClient(deviceStore, nil)

	service := &Service{
		client: client,
		cfg:    cfg,
		log:    logger,
	}

	client.AddEventHandler(func(evt interface{}) {
		service.eventHandler(evt)
	})

	return service, nil
}

// NormalizePhoneNumber strips formatting characters and converts local
// numbers (leading trunk 0) or 00-prefixed numbers into international digits.
func NormalizePhoneNumber(phoneNumber, countryCode string) string {
	phoneNumber = strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phoneNumber)

	if strings.HasPrefix(phoneNumber, "00") {
		phoneNumber = phoneNumber[2:]
	}

	if countryCode != "" {
		// local format: 05XXXXXXXX -> 9725XXXXXXXX
		if strings.HasPrefix(phoneNumber, "0") && len(phoneNumber) == 10 {
			phoneNumber = countryCode + phoneNumber[1:]
		}
		// country code followed by a stray trunk 0
		if strings.HasPrefix(phoneNumber, countryCode+"0") {
			phoneNumber = countryCode + phoneNumber[len(countryCode)+1:]
		}
	}

	return phoneNumber
}

// IsOperator reports whether sender (a phone or JID user part) is the operator
func (s *Service) IsOperator(sender string) bool {
	return isOperator(s.cfg, sender)
}

func isOperator(cfg *Config, sender string) bool {
	if cfg.OperatorPhone == "" {
		return false
	}
	user, _, _ := strings.Cut(sender, "@")
	user, _, _ = strings.Cut(user, ":")
	return NormalizePhoneNumber(user, cfg.CountryCode) == NormalizePhoneNumber(cfg.OperatorPhone, cfg.CountryCode)
}

// Connect connects to WhatsApp, printing a pairing QR code on first run
func (s *Service) Connect(ctx context.Context) error {
	if s.client.Store.ID != nil {
		if err := s.client.Connect(); err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}
		return nil
	}

	qrChan, _ := s.client.GetQRChannel(ctx)
	if err := s.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	for evt := range qrChan {
		if evt.Event != "code" {
			s.log.Info().Str("event", evt.Event).Msg("Login event")
			continue
		}
		q, err := qrcode.New(evt.Code, qrcode.Medium)
		if err != nil {
			fmt.Printf("QR Code: %s\n", evt.Code)
			fmt.Println("Please scan this QR code with WhatsApp to connect.")
			continue
		}
		fmt.Println("\n" + q.ToSmallString(false))
		fmt.Println("📱 Please scan the QR code above with WhatsApp:")
		fmt.Println("   1. Open WhatsApp on your phone")
		fmt.Println("   2. Go to Settings > Linked Devices")
		fmt.Println("   3. Tap 'Link a Device'")
		fmt.Println("   4. Scan the QR code shown above")
	}
	return nil
}

// Disconnect disconnects from WhatsApp
func (s *Service) Disconnect() {
	s.client.Disconnect()
}

// NotifySignup alerts the operator about a new signup
func (s *Service) NotifySignup(ctx context.Context, signup models.Signup) error {
	if s.cfg.OperatorPhone == "" {
		return nil
	}
	return s.SendMessage(ctx, s.cfg.OperatorPhone, FormatSignupAlert(signup))
}

// FormatSignupAlert renders the operator alert for a signup
func FormatSignupAlert(signup models.Signup) string {
	var b strings.Builder
	switch signup.Kind {
	case models.KindWaitlist:
		fmt.Fprintf(&b, "🚀 *New waitlist signup*\n\n%s <%s>\n", signup.Name(), signup.Email)
		fmt.Fprintf(&b, "Role: %s\n", signup.Role)
		if signup.Company != "" {
			fmt.Fprintf(&b, "Company: %s\n", signup.Company)
		}
		if len(signup.Interests) > 0 {
			fmt.Fprintf(&b, "Interests: %s\n", strings.Join(signup.Interests, ", "))
		}
		if signup.ReferralSource != "" {
			fmt.Fprintf(&b, "Heard via: %s\n", signup.ReferralSource)
		}
	default:
		fmt.Fprintf(&b, "📬 *New newsletter subscriber*\n\n%s\n", signup.Email)
	}
	return b.String()
}

// NotifyContact forwards a contact message to the operator
func (s *Service) NotifyContact(ctx context.Context, msg models.ContactMessage) error {
	if s.cfg.OperatorPhone == "" {
		return nil
	}
	return s.SendMessage(ctx, s.cfg.OperatorPhone, FormatContactAlert(msg))
}

func FormatContactAlert(msg models.ContactMessage) string {
	return fmt.Sprintf("✉️ *New contact message*\n\n%s <%s>\nSubject: %s\n\n%s\n", msg.Name, msg.Email, msg.Subject, msg.Message)
}

// SendMessage sends a simple text message
func (s *Service) SendMessage(ctx context.Context, phoneNumber, message string) error {
	jid, err := s.resolveJID(ctx, phoneNumber)
	if err != nil {
		return err
	}

	s.log.Debug().Str("jid", jid.String()).Msg("Attempting to send message")

	sent, err := s.client.SendMessage(ctx, jid, &waE2E.Message{
		Conversation: &message,
	})
	if err != nil {
		if strings.Contains(err.Error(), "unknown server") || strings.Contains(err.Error(), "can't send message") {
			return fmt.Errorf("failed to send message to %s (JID: %s): %w. Note: the recipient must be in your WhatsApp contacts", phoneNumber, jid.String(), err)
		}
		return fmt.Errorf("failed to send message: %w", err)
	}

	s.log.Info().Str("id", string(sent.ID)).Time("timestamp", sent.Timestamp).Msg("Message sent")
	return nil
}

// resolveJID verifies the number is on WhatsApp and returns its JID
func (s *Service) resolveJID(ctx context.Context, phoneNumber string) (types.JID, error) {
	phoneNumber = NormalizePhoneNumber(phoneNumber, s.cfg.CountryCode)

	resp, err := s.client.IsOnWhatsApp(ctx, []string{phoneNumber})
	if err != nil {
		return types.JID{}, fmt.Errorf("failed to verify number on WhatsApp: %w", err)
	}
	if len(resp) == 0 || !resp[0].IsIn {
		return types.JID{}, fmt.Errorf("number %s is not registered on WhatsApp", phoneNumber)
	}

	s.log.Debug().Str("phone", phoneNumber).Str("jid", resp[0].JID.String()).Msg("Number verified on WhatsApp")
	return resp[0].JID, nil
}

// eventHandler handles incoming WhatsApp events
func (s *Service) eventHandler(evt interface{}) {
	if evt == nil {
		return
	}
	switch evt := evt.(type) {
	case *events.Message:
		s.handleMessage(evt)
	case *events.Connected:
		s.log.Info().Msg("Connected to WhatsApp")
	case *events.Disconnected:
		s.log.Info().Msg("Disconnected from WhatsApp")
	case *events.LoggedOut:
		s.log.Info().Msg("Logged out from WhatsApp")
	}
}

// handleMessage processes incoming messages
func (s *Service) handleMessage(msg *events.Message) {
	if msg.Info.IsFromMe {
		return
	}

	if s.messageHandler == nil {
		s.log.Debug().Str("sender", msg.Info.Sender.String()).Msg("Received message")
		return
	}
	if err := s.messageHandler(msg); err != nil {
		s.log.Error().Err(err).Msg("Error handling message")
	}
}

// SetMessageHandler sets a custom handler for incoming messages
func (s *Service) SetMessageHandler(handler MessageHandler) {
	s.messageHandler = handler
}
