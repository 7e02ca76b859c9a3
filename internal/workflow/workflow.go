package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"voiceverse-signup/internal/models"
)

// DefaultResetAfter is how long a Success status stays visible
const DefaultResetAfter = 3 * time.Second

var (
	// ErrBusy is returned when a submission is loading or its success is still displayed
	ErrBusy = errors.New("submission already in progress")
	// ErrClosed is returned once the hosting view is gone
	ErrClosed = errors.New("workflow closed")
	// ErrSubmissionFailed matches every *SubmissionError
	ErrSubmissionFailed = errors.New("submission failed")
)

// SubmissionError carries the user-facing message alongside the cause
type SubmissionError struct {
	Form    string
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("%s submission failed: %v", e.Form, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

func (e *SubmissionError) Is(target error) bool { return target == ErrSubmissionFailed }

// SubmitFunc performs the remote part of a submission
type SubmitFunc[T any] func(ctx context.Context, input T) error

// Messages are the fixed status messages of one form
type Messages struct {
	Loading string
	Success string
	Error   string
}

// Option configures a Workflow
type Option func(*settings)

type settings struct {
	resetAfter time.Duration
	observers  []func(models.Status)
	onSuccess  []func()
	onReset    []func()
	log        zerolog.Logger
}

// ResetAfter overrides DefaultResetAfter
func ResetAfter(d time.Duration) Option {
	return func(s *settings) { s.resetAfter = d }
}

// OnTransition registers fn to observe every status change. Observers run in
// transition order while the workflow is locked and must not call back into it.
func OnTransition(fn func(models.Status)) Option {
	return func(s *settings) { s.observers = append(s.observers, fn) }
}

// OnSuccess registers fn to run right after Success is entered
func OnSuccess(fn func()) Option {
	return func(s *settings) { s.onSuccess = append(s.onSuccess, fn) }
}

// OnReset registers fn to run when Success times out back to Idle
func OnReset(fn func()) Option {
	return func(s *settings) { s.onReset = append(s.onReset, fn) }
}

// WithLogger sets the logger used for transition tracing
func WithLogger(log zerolog.Logger) Option {
	return func(s *settings) { s.log = log }
}

// Workflow drives one form through Idle -> Loading -> Success|Error. Success
// returns to Idle on its own after the reset delay; Error stays until the next
// Submit or Dismiss.
type Workflow[T any] struct {
	name     string
	submit   SubmitFunc[T]
	messages Messages
	cfg      settings

	mu     sync.Mutex
	status models.Status
	timer  *time.Timer
	epoch  uint64
	closed bool
}

// New creates a workflow in the Idle state
func New[T any](name string, submit SubmitFunc[T], messages Messages, opts ...Option) *Workflow[T] {
	cfg := settings{
		resetAfter: DefaultResetAfter,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Workflow[T]{
		name:     name,
		submit:   submit,
		messages: messages,
		cfg:      cfg,
		status:   models.Idle(),
	}
}

// Status returns the current status
func (w *Workflow[T]) Status() models.Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Submit runs one submission to completion. It returns ErrBusy without side
// effects unless the workflow is Idle or in Error. A failing capability, a
// panic inside it or a cancelled ctx all end in the Error status.
func (w *Workflow[T]) Submit(ctx context.Context, input T) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	if !w.status.AcceptsSubmit() {
		w.mu.Unlock()
		return ErrBusy
	}
	w.setLocked(models.Loading(w.messages.Loading))
	w.mu.Unlock()

	err := w.call(ctx, input)

	w.mu.Lock()
	if err != nil {
		w.setLocked(models.Error(w.messages.Error))
		w.mu.Unlock()
		w.cfg.log.Warn().Err(err).Str("form", w.name).Msg("Submission failed")
		return &SubmissionError{Form: w.name, Message: w.messages.Error, Err: err}
	}

	w.setLocked(models.Success(w.messages.Success))
	for _, fn := range w.cfg.onSuccess {
		fn()
	}
	if !w.closed {
		w.epoch++
		epoch := w.epoch
		w.timer = time.AfterFunc(w.cfg.resetAfter, func() { w.reset(epoch) })
	}
	w.mu.Unlock()
	return nil
}

// Dismiss clears an Error status. Other statuses are left alone.
func (w *Workflow[T]) Dismiss() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.status.Kind != models.StatusError {
		return false
	}
	w.setLocked(models.Idle())
	return true
}

// Close stops a pending auto-reset and refuses further submissions
func (w *Workflow[T]) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	w.epoch++
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

func (w *Workflow[T]) call(ctx context.Context, input T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("submit panicked: %v", r)
		}
	}()
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := w.submit(ctx, input); err != nil {
		return err
	}
	// Cancellation wins over a late success, so the user may retry a
	// submission that did land. Capabilities must treat a repeat as a no-op.
	return ctx.Err()
}

func (w *Workflow[T]) reset(epoch uint64) {
	w.mu.Lock()
	if epoch != w.epoch || w.status.Kind != models.StatusSuccess {
		w.mu.Unlock()
		return
	}
	w.timer = nil
	w.setLocked(models.Idle())
	hooks := w.cfg.onReset
	w.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

func (w *Workflow[T]) setLocked(s models.Status) {
	w.status = s
	w.cfg.log.Debug().Str("form", w.name).Str("status", string(s.Kind)).Msg("Status changed")
	for _, fn := range w.cfg.observers {
		fn(s)
	}
}
