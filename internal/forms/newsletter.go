package forms

import (
	"context"
	"strings"
	"sync"

	"voiceverse-signup/internal/models"
	"voiceverse-signup/internal/workflow"
)

// NewsletterMessages are the fixed status messages of the newsletter form
var NewsletterMessages = workflow.Messages{
	Loading: "Subscribing...",
	Success: "Welcome aboard! Check your email for confirmation.",
	Error:   "Something went wrong. Please try again.",
}

// NewsletterForm holds the email buffer of one newsletter form and the
// workflow that submits it
type NewsletterForm struct {
	mu    sync.Mutex
	email string
	guard submitGuard
	wf    *workflow.Workflow[string]
}

// NewNewsletterForm creates an empty form. submit is called with the email
// once validation passed.
func NewNewsletterForm(submit workflow.SubmitFunc[string], opts ...workflow.Option) *NewsletterForm {
	f := &NewsletterForm{}
	opts = append(opts, workflow.OnSuccess(f.clear))
	f.wf = workflow.New("newsletter", submit, NewsletterMessages, opts...)
	return f
}

func (f *NewsletterForm) SetEmail(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.email = strings.TrimSpace(email)
}

func (f *NewsletterForm) Email() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.email
}

func (f *NewsletterForm) Status() models.Status { return f.wf.Status() }

// Submit validates the buffer and runs the workflow with a snapshot of it
func (f *NewsletterForm) Submit(ctx context.Context) error {
	return f.guard.run(f.wf.Status, func() error { return f.submit(ctx) })
}

// SubmitEmail replaces the buffer with email and submits it. A rejected
// submit returns ErrBusy and leaves the buffer as it was.
func (f *NewsletterForm) SubmitEmail(ctx context.Context, email string) error {
	return f.guard.run(f.wf.Status, func() error {
		f.SetEmail(email)
		return f.submit(ctx)
	})
}

func (f *NewsletterForm) submit(ctx context.Context) error {
	input := models.NewsletterInput{Email: f.Email()}
	if err := Validate(input); err != nil {
		return err
	}
	return f.wf.Submit(ctx, input.Email)
}

func (f *NewsletterForm) Dismiss() bool { return f.wf.Dismiss() }

// Close discards the form when its view goes away
func (f *NewsletterForm) Close() {
	f.wf.Close()
	f.clear()
}

func (f *NewsletterForm) clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.email = ""
}
