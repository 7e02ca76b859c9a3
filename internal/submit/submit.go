// Package submit holds the capabilities that carry a validated form to its
// destination. The workflows only see the Backend interface, so the simulated
// backend, the local store and a remote HTTP backend are interchangeable.
//
// A workflow reports Error when its context ends, even if the capability had
// already finished. The store therefore treats an identical resubmission as a
// no-op and does not notify twice.
package submit

import (
	"context"
	"time"

	"voiceverse-signup/internal/models"
)

type NewsletterSubmitter interface {
	SubmitNewsletter(ctx context.Context, email string) error
}

type WaitlistSubmitter interface {
	SubmitWaitlist(ctx context.Context, input models.WaitlistInput) error
}

type ContactSubmitter interface {
	SubmitContact(ctx context.Context, input models.ContactInput) error
}

// Backend accepts every form of the landing page
type Backend interface {
	NewsletterSubmitter
	WaitlistSubmitter
	ContactSubmitter
}

// Notifier is told about every new or changed signup
type Notifier interface {
	NotifySignup(ctx context.Context, signup models.Signup) error
}

// ContactNotifier is implemented by notifiers that also relay contact
// messages
type ContactNotifier interface {
	NotifyContact(ctx context.Context, msg models.ContactMessage) error
}

const (
	DefaultNewsletterDelay = 1500 * time.Millisecond
	DefaultWaitlistDelay   = 2000 * time.Millisecond
	DefaultContactDelay    = 1500 * time.Millisecond
)

// Simulated waits a fixed delay and then succeeds, or returns Err when set
type Simulated struct {
	NewsletterDelay time.Duration
	WaitlistDelay   time.Duration
	ContactDelay    time.Duration
	Err             error
}

// NewSimulated uses the default landing page delays
func NewSimulated() *Simulated {
	return &Simulated{
		NewsletterDelay: DefaultNewsletterDelay,
		WaitlistDelay:   DefaultWaitlistDelay,
		ContactDelay:    DefaultContactDelay,
	}
}

func (s *Simulated) SubmitNewsletter(ctx context.Context, _ string) error {
	return s.wait(ctx, s.NewsletterDelay)
}

func (s *Simulated) SubmitWaitlist(ctx context.Context, _ models.WaitlistInput) error {
	return s.wait(ctx, s.WaitlistDelay)
}

func (s *Simulated) SubmitContact(ctx context.Context, _ models.ContactInput) error {
	return s.wait(ctx, s.ContactDelay)
}

func (s *Simulated) wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return s.Err
	}
}
