package forms

import (
	"context"
	"strings"
	"sync"

	"voiceverse-signup/internal/models"
	"voiceverse-signup/internal/workflow"
)

// WaitlistMessages are the fixed status messages of the waitlist form
var WaitlistMessages = workflow.Messages{
	Loading: "Adding you to the waitlist...",
	Success: "Welcome to VoiceVerse! You're now on our exclusive waitlist. Check your email for confirmation and next steps.",
	Error:   "Sorry, something went wrong. Please try again or contact us directly.",
}

// WaitlistForm holds the waitlist buffer of one view. The buffer survives a
// successful submit until the success message times out, then it is cleared
// and the host is asked to dismiss the form.
type WaitlistForm struct {
	mu        sync.Mutex
	input     models.WaitlistInput
	onDismiss func()
	guard     submitGuard
	wf        *workflow.Workflow[models.WaitlistInput]
}

// NewWaitlistForm creates an empty form. onDismiss may be nil.
func NewWaitlistForm(submit workflow.SubmitFunc[models.WaitlistInput], onDismiss func(), opts ...workflow.Option) *WaitlistForm {
	f := &WaitlistForm{
		input:     models.NewWaitlistInput(),
		onDismiss: onDismiss,
	}
	opts = append(opts, workflow.OnReset(f.resetAndDismiss))
	f.wf = workflow.New("waitlist", submit, WaitlistMessages, opts...)
	return f
}

// Input returns a copy of the buffer
func (f *WaitlistForm) Input() models.WaitlistInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input.Clone()
}

// SetField updates a field by its form name
func (f *WaitlistForm) SetField(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input.SetField(name, value)
}

func (f *WaitlistForm) ToggleInterest(interest string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.input.ToggleInterest(interest)
}

// Replace swaps the whole buffer, as a JSON client editing every field would
func (f *WaitlistForm) Replace(in models.WaitlistInput) {
	in = normaliseWaitlist(in)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.input = in
}

func normaliseWaitlist(in models.WaitlistInput) models.WaitlistInput {
	in = in.Clone()
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.Role = strings.TrimSpace(in.Role)
	in.Company = strings.TrimSpace(in.Company)
	in.ReferralSource = strings.TrimSpace(in.ReferralSource)
	in.SetInterests(in.Interests)
	return in
}

func (f *WaitlistForm) Status() models.Status { return f.wf.Status() }

// Submit validates the buffer and runs the workflow with a snapshot of it
func (f *WaitlistForm) Submit(ctx context.Context) error {
	return f.guard.run(f.wf.Status, func() error { return f.submit(ctx) })
}

// SubmitInput replaces the buffer with in and submits it. A rejected submit
// returns ErrBusy and leaves the buffer as it was.
func (f *WaitlistForm) SubmitInput(ctx context.Context, in models.WaitlistInput) error {
	return f.guard.run(f.wf.Status, func() error {
		f.Replace(in)
		return f.submit(ctx)
	})
}

func (f *WaitlistForm) submit(ctx context.Context) error {
	input := f.Input()
	if err := Validate(input); err != nil {
		return err
	}
	return f.wf.Submit(ctx, input)
}

func (f *WaitlistForm) Dismiss() bool { return f.wf.Dismiss() }

// Close discards the form when its view goes away
func (f *WaitlistForm) Close() {
	f.wf.Close()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.input = models.NewWaitlistInput()
}

func (f *WaitlistForm) resetAndDismiss() {
	f.mu.Lock()
	f.input = models.NewWaitlistInput()
	f.mu.Unlock()

	if f.onDismiss != nil {
		f.onDismiss()
	}
}
