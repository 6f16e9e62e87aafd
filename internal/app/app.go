package app

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/driftroom/driftroom-server/internal/config"
	"github.com/driftroom/driftroom-server/internal/core"
	"github.com/driftroom/driftroom-server/internal/session"
	transporthttp "github.com/driftroom/driftroom-server/internal/transport/http"
	"github.com/driftroom/driftroom-server/internal/verify"
)

// App wires together core, session gate, verifier, and transport.
type App struct {
	server          *stdhttp.Server
	gate            *session.MemoryGate
	shutdownTimeout time.Duration
	log             *zerolog.Logger
}

// New constructs the application with the provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) *App {
	registry := core.NewRegistry()
	hub := core.NewHub(cfg.SubscriberBuffer)
	svc := core.NewService(registry, hub, cfg.MessageMaxLength)

	gate := session.NewMemoryGate(cfg.SessionTTL)

	var verifier verify.Verifier
	if cfg.TurnstileSecret != "" {
		verifier = verify.NewTurnstile(cfg.TurnstileSecret, cfg.TurnstileURL)
		logger.Info().Msg("turnstile verification enabled")
	} else {
		verifier = verify.Static(true)
		logger.Warn().Msg("no turnstile secret configured, captcha disabled")
	}

	if cfg.SessionSecret == "" {
		// Sessions won't survive a restart, which matches the rest of the
		// in-memory state.
		cfg.SessionSecret = uuid.NewString()
		logger.Warn().Msg("no session secret configured, using an ephemeral one")
	}

	server := transporthttp.NewServer(svc, gate, verifier, cfg, logger)

	return &App{
		server:          server,
		gate:            gate,
		shutdownTimeout: cfg.ShutdownTimeout,
		log:             logger,
	}
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go a.gate.Run(ctx)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}
