package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"voiceverse-signup/internal/config"
	"voiceverse-signup/internal/email"
	"voiceverse-signup/internal/forms"
	"voiceverse-signup/internal/handler"
	"voiceverse-signup/internal/metrics"
	"voiceverse-signup/internal/session"
	"voiceverse-signup/internal/storage"
	"voiceverse-signup/internal/submit"
	"voiceverse-signup/internal/web"
	"voiceverse-signup/internal/whatsapp"
	"voiceverse-signup/internal/workflow"
)

const shutdownTimeout = 10 * time.Second

func main() {
	fmt.Println("🎙️  VoiceVerse Signup")
	fmt.Println("====================")

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg)
	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
	fmt.Println("Goodbye! 👋")
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stderr
	if cfg.LogPretty {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// services are the long-lived dependencies behind the selected backend
type services struct {
	backend  submit.Backend
	storage  *storage.Storage
	whatsapp *whatsapp.Service
}

func (s *services) Close() {
	if s.whatsapp != nil {
		s.whatsapp.Disconnect()
	}
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

func newServices(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*services, error) {
	switch cfg.Backend.Kind {
	case config.BackendRemote:
		return &services{
			backend: submit.NewRemote(cfg.Backend.RemoteBaseURL, cfg.Backend.RemoteAPIKey, cfg.Backend.RemoteTimeout),
		}, nil

	case config.BackendStore:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data dir: %w", err)
		}
		store, err := storage.NewStorage(cfg.StoragePath())
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		svc := &services{storage: store}

		var notifiers []submit.Notifier
		if confirmer := email.NewConfirmer(&email.Config{
			Enabled:   cfg.Email.Enabled,
			Domain:    cfg.Email.Domain,
			APIKey:    cfg.Email.APIKey,
			APIBase:   cfg.Email.APIBase,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
			Timeout:   cfg.Email.Timeout,
		}, log); confirmer != nil {
			notifiers = append(notifiers, confirmer)
		} else if cfg.Email.Enabled {
			log.Warn().Msg("Mailgun enabled but not configured, confirmation emails are off")
		}

		if cfg.WhatsApp.Enabled {
			wa, err := whatsapp.NewService(ctx, &whatsapp.Config{
				DataDir:       cfg.DataDir,
				OperatorPhone: cfg.WhatsApp.OperatorPhone,
				CountryCode:   cfg.WhatsApp.CountryCode,
			}, log)
			if err != nil {
				svc.Close()
				return nil, fmt.Errorf("failed to initialize WhatsApp service: %w", err)
			}
			wa.SetMessageHandler(handler.NewOperatorHandler(wa, store).HandleMessage)
			svc.whatsapp = wa
			notifiers = append(notifiers, wa)
		}

		svc.backend = submit.NewStore(store, log, notifiers...)
		return svc, nil

	default:
		return &services{
			backend: &submit.Simulated{
				NewsletterDelay: cfg.Forms.NewsletterDelay,
				WaitlistDelay:   cfg.Forms.WaitlistDelay,
				ContactDelay:    cfg.Forms.ContactDelay,
			},
		}, nil
	}
}

// formFactory wires every new view's forms to the backend
func formFactory(backend submit.Backend, cfg *config.Config, log zerolog.Logger) session.FormFactory {
	return func(onDismiss func()) session.Forms {
		return session.Forms{
			Newsletter: forms.NewNewsletterForm(
				backend.SubmitNewsletter,
				workflow.ResetAfter(cfg.Forms.ResetAfter),
				workflow.OnTransition(metrics.Observer("newsletter")),
				workflow.WithLogger(log),
			),
			Waitlist: forms.NewWaitlistForm(
				backend.SubmitWaitlist,
				onDismiss,
				workflow.ResetAfter(cfg.Forms.ResetAfter),
				workflow.OnTransition(metrics.Observer("waitlist")),
				workflow.WithLogger(log),
			),
			Contact: forms.NewContactForm(
				backend.SubmitContact,
				workflow.ResetAfter(cfg.Forms.ResetAfter),
				workflow.OnTransition(metrics.Observer("contact")),
				workflow.WithLogger(log),
			),
		}
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := newServices(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	views := session.NewRegistry(formFactory(svc.backend, cfg, log), cfg.HTTP.SessionTTL, log)
	server := web.NewServer(web.Options{
		Views:         views,
		Log:           log,
		SubmitTimeout: cfg.Forms.SubmitTimeout,
		RateLimit:     cfg.HTTP.RateLimit,
		RateBurst:     cfg.HTTP.RateBurst,
		CookieSecure:  cfg.HTTP.CookieSecure,
	})
	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTP.Addr).Str("backend", string(cfg.Backend.Kind)).Msg("Listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return views.Run(gctx, cfg.HTTP.SweepEvery)
	})

	if svc.whatsapp != nil {
		g.Go(func() error {
			log.Info().Msg("Connecting to WhatsApp...")
			if err := svc.whatsapp.Connect(gctx); err != nil {
				return fmt.Errorf("whatsapp: %w", err)
			}
			log.Info().Msg("Connected to WhatsApp")
			return nil
		})
	}

	if cfg.ConsoleEnabled && svc.storage != nil {
		go startConsole(gctx, svc.storage, stop)
	}

	return g.Wait()
}
