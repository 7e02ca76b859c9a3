package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"voiceverse-signup/internal/session"
)

const viewCookie = "voiceverse_view"

type Options struct {
	Views         *session.Registry
	Log           zerolog.Logger
	SubmitTimeout time.Duration
	RateLimit     int
	RateBurst     int
	CookieSecure  bool
}

// Server hosts the landing page and the form API
type Server struct {
	views         *session.Registry
	limiter       *ClientRateLimiter
	log           zerolog.Logger
	submitTimeout time.Duration
	cookieSecure  bool
}

func NewServer(opts Options) *Server {
	if opts.SubmitTimeout <= 0 {
		opts.SubmitTimeout = 15 * time.Second
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 20
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 5
	}
	return &Server{
		views:         opts.Views,
		limiter:       NewClientRateLimiter(opts.RateLimit, opts.RateBurst),
		log:           opts.Log.With().Str("component", "HTTP").Logger(),
		submitTimeout: opts.SubmitTimeout,
		cookieSecure:  opts.CookieSecure,
	}
}

// Routes builds the HTTP handler
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.landingPage)
	r.Get("/health", health)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(s.limiter.PageMiddleware)
		r.Post("/newsletter", s.newsletterForm)
		r.Post("/waitlist", s.waitlistForm)
		r.Post("/contact", s.contactForm)
	})
	r.Post("/waitlist/open", s.openWaitlistForm)
	r.Post("/waitlist/close", s.closeWaitlistForm)

	r.Route("/api", func(r chi.Router) {
		r.Get("/session", s.getSession)
		r.Delete("/session", s.deleteSession)

		r.Put("/newsletter", s.putNewsletter)
		r.Post("/newsletter/dismiss", s.dismissNewsletter)

		r.Put("/waitlist", s.putWaitlist)
		r.Patch("/waitlist", s.patchField(waitlistOf))
		r.Post("/waitlist/interests", s.toggleInterest)
		r.Post("/waitlist/open", s.openWaitlist)
		r.Post("/waitlist/dismiss", s.dismissWaitlist)

		r.Put("/contact", s.putContact)
		r.Patch("/contact", s.patchField(contactOf))
		r.Post("/contact/dismiss", s.dismissContact)

		r.Group(func(r chi.Router) {
			r.Use(s.limiter.Middleware)
			r.Post("/newsletter/submit", s.submitNewsletter)
			r.Post("/waitlist/submit", s.submitWaitlist)
			r.Post("/contact/submit", s.submitContact)
		})
	})

	return r
}

// view returns the caller's view, opening a new one when the cookie is
// missing or stale
func (s *Server) view(w http.ResponseWriter, r *http.Request) *session.View {
	if c, err := r.Cookie(viewCookie); err == nil {
		if v, ok := s.views.Get(c.Value); ok {
			return v
		}
	}

	v := s.views.Open()
	http.SetCookie(w, &http.Cookie{
		Name:     viewCookie,
		Value:    v.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return v
}

// submitContext bounds a submission by the request and the submit timeout
func (s *Server) submitContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.submitTimeout)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}

func health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
