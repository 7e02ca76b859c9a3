package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mau.fi/whatsmeow/types/events"

	"voiceverse-signup/internal/models"
)

// SignupReader is the read side of the signup store
type SignupReader interface {
	CountByKind(ctx context.Context) (map[models.SignupKind]int, error)
	LatestSignups(ctx context.Context, limit int) ([]models.Signup, error)
	CountContactMessages(ctx context.Context) (int, error)
	LatestContactMessages(ctx context.Context, limit int) ([]models.ContactMessage, error)
}

// Messenger sends WhatsApp replies and recognises the operator
type Messenger interface {
	SendMessage(ctx context.Context, phoneNumber, message string) error
	IsOperator(sender string) bool
}

type OperatorHandler struct {
	messenger Messenger
	storage   SignupReader
	timeout   time.Duration
}

// NewOperatorHandler creates a handler for operator commands
func NewOperatorHandler(messenger Messenger, storage SignupReader) *OperatorHandler {
	return &OperatorHandler{
		messenger: messenger,
		storage:   storage,
		timeout:   30 * time.Second,
	}
}

// HandleMessage answers operator commands sent over WhatsApp. Messages from
// anyone else are ignored.
func (h *OperatorHandler) HandleMessage(msg *events.Message) error {
	if msg.Message == nil {
		return nil
	}

	text := msg.Message.GetConversation()
	if text == "" {
		return nil
	}

	sender := msg.Info.Sender.String()
	if !h.messenger.IsOperator(sender) {
		return nil
	}
	phoneNumber, _, _ := strings.Cut(sender, "@")
	phoneNumber, _, _ = strings.Cut(phoneNumber, ":")

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	reply, err := h.Reply(ctx, text)
	if err != nil {
		return err
	}
	if reply == "" {
		return nil
	}

	if err := h.messenger.SendMessage(ctx, phoneNumber, reply); err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}

// Reply computes the answer to one operator command. Unknown text yields an
// empty reply.
func (h *OperatorHandler) Reply(ctx context.Context, text string) (string, error) {
	command := strings.ToLower(strings.TrimSpace(text))

	switch {
	case containsAny(command, "stats", "count", "how many"):
		counts, err := h.storage.CountByKind(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to count signups: %w", err)
		}
		messages, err := h.storage.CountContactMessages(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to count contact messages: %w", err)
		}
		return fmt.Sprintf(
			"📊 *Signups*\n\nWaitlist: %d\nNewsletter: %d\nContact messages: %d",
			counts[models.KindWaitlist], counts[models.KindNewsletter], messages,
		), nil

	case containsAny(command, "messages", "inbox"):
		messages, err := h.storage.LatestContactMessages(ctx, 5)
		if err != nil {
			return "", fmt.Errorf("failed to load contact messages: %w", err)
		}
		if len(messages) == 0 {
			return "No contact messages yet.", nil
		}
		var b strings.Builder
		b.WriteString("✉️ *Latest messages*\n")
		for _, m := range messages {
			fmt.Fprintf(&b, "\n• %s <%s> %s\n  %s", m.Name, m.Email, m.CreatedAt.Format("2006-01-02 15:04"), m.Subject)
		}
		return b.String(), nil

	case containsAny(command, "latest", "recent", "last"):
		signups, err := h.storage.LatestSignups(ctx, 5)
		if err != nil {
			return "", fmt.Errorf("failed to load signups: %w", err)
		}
		if len(signups) == 0 {
			return "No signups yet.", nil
		}
		var b strings.Builder
		b.WriteString("🕒 *Latest signups*\n")
		for _, s := range signups {
			fmt.Fprintf(&b, "\n• [%s] %s", s.Kind, s.Name())
			if s.Role != "" {
				fmt.Fprintf(&b, " (%s)", s.Role)
			}
			fmt.Fprintf(&b, " %s", s.CreatedAt.Format("2006-01-02 15:04"))
		}
		return b.String(), nil

	case containsAny(command, "help", "?"):
		return "Commands:\n• *stats* signup counts\n• *latest* five most recent signups\n• *messages* five most recent contact messages", nil
	}

	return "", nil
}

// containsAny checks if the text contains any of the given keywords
func containsAny(text string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
