package submit

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"voiceverse-signup/internal/models"
)

// SignupWriter persists signups and contact messages. changed is false when
// an identical record was already stored.
type SignupWriter interface {
	AddSignup(ctx context.Context, signup models.Signup) (models.Signup, bool, error)
	AddContactMessage(ctx context.Context, msg models.ContactMessage) (models.ContactMessage, bool, error)
}

// Store saves signups locally and then notifies. A failed save fails the
// submission; failed notifications are only logged. Resubmitting an
// unchanged record notifies nobody.
type Store struct {
	storage   SignupWriter
	notifiers []Notifier
	log       zerolog.Logger
}

// NewStore skips nil notifiers
func NewStore(storage SignupWriter, log zerolog.Logger, notifiers ...Notifier) *Store {
	s := &Store{
		storage: storage,
		log:     log.With().Str("component", "SignupStore").Logger(),
	}
	for _, n := range notifiers {
		if n != nil {
			s.notifiers = append(s.notifiers, n)
		}
	}
	return s
}

func (s *Store) SubmitNewsletter(ctx context.Context, email string) error {
	return s.save(ctx, models.Signup{
		Kind:       models.KindNewsletter,
		Email:      email,
		Newsletter: true,
	})
}

func (s *Store) SubmitWaitlist(ctx context.Context, input models.WaitlistInput) error {
	return s.save(ctx, input.Signup())
}

func (s *Store) SubmitContact(ctx context.Context, input models.ContactInput) error {
	saved, changed, err := s.storage.AddContactMessage(ctx, input.ContactMessage())
	if err != nil {
		return fmt.Errorf("failed to store contact message: %w", err)
	}
	if !changed {
		s.log.Info().Str("id", saved.ID).Msg("Contact message already stored, skipping notifications")
		return nil
	}

	s.log.Info().Str("id", saved.ID).Msg("Contact message stored")

	for _, n := range s.notifiers {
		cn, ok := n.(ContactNotifier)
		if !ok {
			continue
		}
		if err := cn.NotifyContact(ctx, saved); err != nil {
			s.log.Error().Err(err).Str("id", saved.ID).Msg("Error notifying contact message")
		}
	}
	return nil
}

func (s *Store) save(ctx context.Context, signup models.Signup) error {
	saved, changed, err := s.storage.AddSignup(ctx, signup)
	if err != nil {
		return fmt.Errorf("failed to store %s signup: %w", signup.Kind, err)
	}
	if !changed {
		s.log.Info().Str("kind", string(saved.Kind)).Str("id", saved.ID).Msg("Signup unchanged, skipping notifications")
		return nil
	}

	s.log.Info().Str("kind", string(saved.Kind)).Str("id", saved.ID).Msg("Signup stored")

	for _, n := range s.notifiers {
		if err := n.NotifySignup(ctx, saved); err != nil {
			s.log.Error().Err(err).Str("kind", string(saved.Kind)).Str("id", saved.ID).Msg("Error notifying signup")
		}
	}
	return nil
}
