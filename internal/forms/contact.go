package forms

import (
	"context"
	"sync"

	"voiceverse-signup/internal/models"
	"voiceverse-signup/internal/workflow"
)

// ContactMessages are the fixed status messages of the contact form
var ContactMessages = workflow.Messages{
	Loading: "Sending your message...",
	Success: "Thanks for reaching out! We'll get back to you soon.",
	Error:   "Something went wrong. Please try again or email hello@voiceverse.io.",
}

// ContactForm holds the "send us a message" buffer of one view. The buffer
// is cleared once the message went out.
type ContactForm struct {
	mu    sync.Mutex
	input models.ContactInput
	guard submitGuard
	wf    *workflow.Workflow[models.ContactInput]
}

func NewContactForm(submit workflow.SubmitFunc[models.ContactInput], opts ...workflow.Option) *ContactForm {
	f := &ContactForm{}
	opts = append(opts, workflow.OnSuccess(f.clear))
	f.wf = workflow.New("contact", submit, ContactMessages, opts...)
	return f
}

func (f *ContactForm) Input() models.ContactInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input
}

// SetField updates a field by its form name
func (f *ContactForm) SetField(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input.SetField(name, value)
}

func (f *ContactForm) Replace(in models.ContactInput) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.input = in.Trimmed()
}

func (f *ContactForm) Status() models.Status { return f.wf.Status() }

// Submit validates the buffer and runs the workflow with a snapshot of it
func (f *ContactForm) Submit(ctx context.Context) error {
	return f.guard.run(f.wf.Status, func() error { return f.submit(ctx) })
}

// SubmitInput replaces the buffer with in and submits it. A rejected submit
// returns ErrBusy and leaves the buffer as it was.
func (f *ContactForm) SubmitInput(ctx context.Context, in models.ContactInput) error {
	return f.guard.run(f.wf.Status, func() error {
		f.Replace(in)
		return f.submit(ctx)
	})
}

func (f *ContactForm) submit(ctx context.Context) error {
	input := f.Input()
	if err := Validate(input); err != nil {
		return err
	}
	return f.wf.Submit(ctx, input)
}

func (f *ContactForm) Dismiss() bool { return f.wf.Dismiss() }

// Close discards the form when its view goes away
func (f *ContactForm) Close() {
	f.wf.Close()
	f.clear()
}

func (f *ContactForm) clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.input = models.ContactInput{}
}
