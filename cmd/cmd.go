package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"couple-journal-backend/internal/config"
	"couple-journal-backend/internal/database"
	"couple-journal-backend/internal/handlers"
	"couple-journal-backend/internal/middleware"
	"couple-journal-backend/internal/repository"
	"couple-journal-backend/internal/repository/memory"
	"couple-journal-backend/internal/repository/postgres"
	"couple-journal-backend/internal/services"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// app is the wired server before it starts listening.
type app struct {
	handler   http.Handler
	hub       *services.WSHub
	notify    *services.AsyncNotifier
	reminders *services.ReminderDispatcher
	limiter   *middleware.RateLimiter
	db        *database.DB
}

func (a *app) close() {
	if a.notify != nil {
		a.notify.Wait()
	}
	a.hub.Close()
	if a.db != nil {
		a.db.Close()
	}
}

// Run starts the HTTP server and blocks until SIGINT or SIGTERM.
func Run(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	setupLogger(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	stopCleanup := make(chan struct{})
	defer close(stopCleanup)
	a.limiter.StartCleanup(time.Minute, stopCleanup)

	if cfg.Reminders.Enabled {
		scheduler := cron.New()
		if _, err := a.reminders.Schedule(ctx, scheduler, cfg.Reminders.Schedule); err != nil {
			return fmt.Errorf("failed to schedule reminders: %w", err)
		}
		scheduler.Start()
		defer func() { <-scheduler.Stop().Done() }()
		log.Info().Str("schedule", cfg.Reminders.Schedule).Msg("Event reminders scheduled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      a.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// hijacked websocket connections are not closed by Shutdown
	a.hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
	return nil
}

// Migrate creates or updates the PostgreSQL schema and exits.
func Migrate(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	setupLogger(cfg.Log.Level)

	if cfg.Database.Driver == "memory" {
		return errors.New("nothing to migrate for the memory driver")
	}

	ctx := context.Background()
	db, err := database.Open(ctx, cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return err
	}
	log.Info().Msg("Database schema is up to date")
	return nil
}

// newApp opens storage and wires services, notifiers and routes.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	loc, err := cfg.App.Location()
	if err != nil {
		return nil, err
	}

	a := &app{}
	var store *repository.Store
	switch cfg.Database.Driver {
	case "memory":
		log.Warn().Msg("Using in-memory store; data is lost on restart")
		store = memory.New().Repositories()
	default:
		db, err := database.Open(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		log.Info().Msg("Database connection established")
		a.db = db
		store = postgres.NewStore(db.Gorm)
	}

	// the hub needs the couple guard, so it joins the fan-out after construction
	notifiers := &services.Notifiers{}
	a.notify = services.NewAsyncNotifier(notifierFunc(func(ctx context.Context, recipientID string, n services.Notification) {
		notifiers.Notify(ctx, recipientID, n)
	}))
	fanout := a.notify

	userService := services.NewUserService(store.Users, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, loc)
	coupleService := services.NewCoupleService(store.Couples, store.Users, fanout, loc)
	a.hub = services.NewWSHub(coupleService)
	*notifiers = append(*notifiers, a.hub)

	if cfg.APNs.Enabled() {
		client, err := services.NewAPNsClient(cfg.APNs)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to create APNs client: %w", err)
		}
		*notifiers = append(*notifiers, services.NewPushNotifier(client, store.Users, cfg.APNs.Topic))
		log.Info().Bool("production", cfg.APNs.Production).Msg("Push notifications enabled")
	}

	var media *services.MediaService
	if cfg.AWS.S3Bucket != "" {
		presigner, err := services.NewS3Presigner(ctx, cfg.AWS)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to create S3 presigner: %w", err)
		}
		media = services.NewMediaService(presigner, coupleService, cfg.AWS.S3Bucket, cfg.AWS.PublicURL)
	} else {
		media = services.NewMediaService(nil, coupleService, "", "")
	}

	a.reminders = services.NewReminderDispatcher(store.Events, store.Couples, fanout)
	a.limiter = middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst)

	deps := handlers.Deps{
		Users:    userService,
		OAuth:    services.NewOAuthService(cfg.Auth.Google, userService),
		Couples:  coupleService,
		Messages: services.NewMessageService(store.Messages, coupleService, fanout),
		Diary:    services.NewDiaryService(store.Diary, coupleService, fanout, loc),
		Events:   services.NewEventService(store.Events, coupleService, fanout, loc),
		Bucket:   services.NewBucketListService(store.Bucket, coupleService, fanout),
		Moods:    services.NewMoodService(store.Moods, coupleService, loc),
		Places:   services.NewPlaceService(store.Places, coupleService, fanout, loc),
		Expenses: services.NewExpenseService(store.Expenses, coupleService, fanout, loc),
		Media:    media,
		Hub:      a.hub,
		Limiter:  a.limiter,
	}
	if a.db != nil {
		deps.DB = a.db
	}
	a.handler = handlers.NewRouter(deps)

	return a, nil
}

// notifierFunc adapts a function to services.Notifier.
type notifierFunc func(ctx context.Context, recipientID string, n services.Notification)

func (f notifierFunc) Notify(ctx context.Context, recipientID string, n services.Notification) {
	f(ctx, recipientID, n)
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
