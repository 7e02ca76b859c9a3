package session

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voiceverse-signup/internal/forms"
	"voiceverse-signup/internal/models"
	"voiceverse-signup/internal/workflow"
)

func testFactory(resetAfter time.Duration) FormFactory {
	return func(onDismiss func()) Forms {
		return Forms{
			Newsletter: forms.NewNewsletterForm(func(context.Context, string) error { return nil }, workflow.ResetAfter(resetAfter)),
			Waitlist:   forms.NewWaitlistForm(func(context.Context, models.WaitlistInput) error { return nil }, onDismiss, workflow.ResetAfter(resetAfter)),
			Contact:    forms.NewContactForm(func(context.Context, models.ContactInput) error { return nil }, workflow.ResetAfter(resetAfter)),
		}
	}
}

func TestOpenGetDrop(t *testing.T) {
	r := NewRegistry(testFactory(time.Hour), time.Minute, zerolog.Nop())

	v := r.Open()
	require.NotEmpty(t, v.ID)
	assert.Equal(t, 1, r.Len())

	got, ok := r.Get(v.ID)
	require.True(t, ok)
	assert.Same(t, v, got)

	assert.True(t, r.Drop(v.ID))
	assert.False(t, r.Drop(v.ID))
	_, ok = r.Get(v.ID)
	assert.False(t, ok)
}

func TestViewsAreIndependent(t *testing.T) {
	r := NewRegistry(testFactory(time.Hour), time.Minute, zerolog.Nop())
	a, b := r.Open(), r.Open()

	a.Newsletter.SetEmail("a@example.com")
	b.Newsletter.SetEmail("b@example.com")
	require.NoError(t, a.Newsletter.Submit(context.Background()))

	assert.Equal(t, models.StatusSuccess, a.Newsletter.Status().Kind)
	assert.Equal(t, models.StatusIdle, b.Newsletter.Status().Kind)
	assert.Equal(t, "b@example.com", b.Newsletter.Email())
}

func TestSweepDropsIdleViews(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewRegistry(testFactory(time.Hour), time.Minute, zerolog.Nop())
	r.now = func() time.Time { return now }

	stale := r.Open()
	stale.Newsletter.SetEmail("gone@example.com")
	now = now.Add(45 * time.Second)
	fresh := r.Open()
	now = now.Add(30 * time.Second)

	assert.Equal(t, 1, r.Sweep())
	_, ok := r.Get(stale.ID)
	assert.False(t, ok)
	_, ok = r.Get(fresh.ID)
	assert.True(t, ok)

	assert.Empty(t, stale.Newsletter.Email(), "dropped views are discarded")
}

func TestWaitlistResetClosesForm(t *testing.T) {
	r := NewRegistry(testFactory(10*time.Millisecond), time.Minute, zerolog.Nop())
	v := r.Open()
	v.OpenWaitlist()

	_ = v.Waitlist.SetField("firstName", "John")
	_ = v.Waitlist.SetField("lastName", "Doe")
	_ = v.Waitlist.SetField("email", "john@example.com")
	_ = v.Waitlist.SetField("role", "Student")
	require.NoError(t, v.Waitlist.Submit(context.Background()))
	assert.True(t, v.WaitlistOpen())

	require.Eventually(t, func() bool { return !v.WaitlistOpen() }, time.Second, 5*time.Millisecond)
	assert.Empty(t, v.Waitlist.Input().FirstName)
}

func TestRunClosesViewsOnShutdown(t *testing.T) {
	r := NewRegistry(testFactory(time.Hour), time.Minute, zerolog.Nop())
	v := r.Open()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, time.Hour) }()
	cancel()

	require.NoError(t, <-done)
	assert.Zero(t, r.Len())
	v.Newsletter.SetEmail("a@b.com")
	assert.ErrorIs(t, v.Newsletter.Submit(context.Background()), workflow.ErrClosed)
	assert.ErrorIs(t, v.Contact.SubmitInput(context.Background(), models.ContactInput{
		Name: "Ada", Email: "ada@example.com", Subject: "Hi", Message: "Hello",
	}), workflow.ErrClosed)
}
