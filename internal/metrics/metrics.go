package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"voiceverse-signup/internal/models"
)

var (
	Submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voiceverse_submissions_total",
		Help: "Form submissions by form and terminal status",
	}, []string{"form", "outcome"})

	SubmissionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "voiceverse_submission_duration_seconds",
		Help:    "Time spent in the loading status",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 1.5, 2, 3, 5, 10, 30},
	}, []string{"form"})

	InFlight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "voiceverse_submissions_in_flight",
		Help: "Submissions currently loading",
	}, []string{"form"})

	ActiveViews = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "voiceverse_active_views",
		Help: "Browser views currently holding form state",
	})

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voiceverse_rate_limited_total",
		Help: "Requests rejected by the per-client rate limiter",
	})
)

// Observer returns a transition observer for one workflow instance
func Observer(form string) func(models.Status) {
	var mu sync.Mutex
	var started time.Time
	return func(s models.Status) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case s.Kind == models.StatusLoading:
			started = time.Now()
			InFlight.WithLabelValues(form).Inc()
		case s.Terminal():
			if !started.IsZero() {
				SubmissionDuration.WithLabelValues(form).Observe(time.Since(started).Seconds())
				InFlight.WithLabelValues(form).Dec()
				started = time.Time{}
			}
			Submissions.WithLabelValues(form, string(s.Kind)).Inc()
		}
	}
}
