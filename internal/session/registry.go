// Package session keeps the per-view form state of the landing page. Each
// browser view owns a newsletter form, a waitlist form and a contact form for
// as long as it keeps talking to the server.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"voiceverse-signup/internal/forms"
	"voiceverse-signup/internal/metrics"
)

// View is the server-side state of one page view
type View struct {
	ID         string
	Newsletter *forms.NewsletterForm
	Waitlist   *forms.WaitlistForm
	Contact    *forms.ContactForm

	mu           sync.Mutex
	waitlistOpen bool
	lastSeen     time.Time
}

// OpenWaitlist shows the waitlist form, as the "join waitlist" buttons do
func (v *View) OpenWaitlist() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.waitlistOpen = true
}

// CloseWaitlist hides the waitlist form
func (v *View) CloseWaitlist() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.waitlistOpen = false
}

func (v *View) WaitlistOpen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.waitlistOpen
}

func (v *View) touch(now time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lastSeen = now
}

func (v *View) idleSince(now time.Time) time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return now.Sub(v.lastSeen)
}

func (v *View) close() {
	v.Newsletter.Close()
	v.Waitlist.Close()
	v.Contact.Close()
}

// Forms are the forms of one view
type Forms struct {
	Newsletter *forms.NewsletterForm
	Waitlist   *forms.WaitlistForm
	Contact    *forms.ContactForm
}

// FormFactory builds the forms of a new view. onDismiss must be wired as the
// waitlist dismiss callback.
type FormFactory func(onDismiss func()) Forms

type Registry struct {
	mu      sync.Mutex
	views   map[string]*View
	factory FormFactory
	ttl     time.Duration
	now     func() time.Time
	log     zerolog.Logger
}

// NewRegistry creates an empty registry. Views unused for ttl are swept.
func NewRegistry(factory FormFactory, ttl time.Duration, log zerolog.Logger) *Registry {
	return &Registry{
		views:   make(map[string]*View),
		factory: factory,
		ttl:     ttl,
		now:     time.Now,
		log:     log.With().Str("component", "Sessions").Logger(),
	}
}

// Open creates a fresh view
func (r *Registry) Open() *View {
	v := &View{ID: uuid.NewString(), lastSeen: r.now()}
	f := r.factory(v.CloseWaitlist)
	v.Newsletter, v.Waitlist, v.Contact = f.Newsletter, f.Waitlist, f.Contact

	r.mu.Lock()
	r.views[v.ID] = v
	n := len(r.views)
	r.mu.Unlock()

	metrics.ActiveViews.Set(float64(n))
	r.log.Debug().Str("view", v.ID).Msg("View opened")
	return v
}

// Get returns the view with id and marks it as used
func (r *Registry) Get(id string) (*View, bool) {
	r.mu.Lock()
	v, ok := r.views[id]
	r.mu.Unlock()
	if !ok {
		return nil, false
	}
	v.touch(r.now())
	return v, true
}

// Drop unmounts a view and discards its forms
func (r *Registry) Drop(id string) bool {
	r.mu.Lock()
	v, ok := r.views[id]
	delete(r.views, id)
	n := len(r.views)
	r.mu.Unlock()
	if !ok {
		return false
	}
	v.close()
	metrics.ActiveViews.Set(float64(n))
	r.log.Debug().Str("view", id).Msg("View dropped")
	return true
}

// Len returns the number of live views
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// Sweep drops views idle for longer than the ttl and returns how many
func (r *Registry) Sweep() int {
	now := r.now()
	var stale []*View

	r.mu.Lock()
	for id, v := range r.views {
		if v.idleSince(now) > r.ttl {
			stale = append(stale, v)
			delete(r.views, id)
		}
	}
	n := len(r.views)
	r.mu.Unlock()

	for _, v := range stale {
		v.close()
	}
	if len(stale) > 0 {
		metrics.ActiveViews.Set(float64(n))
		r.log.Info().Int("dropped", len(stale)).Int("active", n).Msg("Swept idle views")
	}
	return len(stale)
}

// Run sweeps every interval until ctx ends, then drops every view
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			return nil
		case <-ticker.C:
			r.Sweep()
		}
	}
}

func (r *Registry) closeAll() {
	r.mu.Lock()
	views := r.views
	r.views = make(map[string]*View)
	r.mu.Unlock()

	for _, v := range views {
		v.close()
	}
	metrics.ActiveViews.Set(0)
}
