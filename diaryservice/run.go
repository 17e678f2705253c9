// Package diaryservice boots the diary HTTP service.
package diaryservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkwell-app/inkwell-diary/internal/api"
	"github.com/inkwell-app/inkwell-diary/internal/auth"
	"github.com/inkwell-app/inkwell-diary/internal/config"
	"github.com/inkwell-app/inkwell-diary/internal/factory"
	"github.com/inkwell-app/inkwell-diary/internal/feedback"
	"github.com/inkwell-app/inkwell-diary/internal/health"
	"github.com/inkwell-app/inkwell-diary/internal/logger"
	"github.com/inkwell-app/inkwell-diary/internal/services"
	"github.com/inkwell-app/inkwell-diary/internal/store"
)

// Run starts the diary service HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("diary-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Str("feedback_model", cfg.FeedbackModel).
		Msg("Diary service starting")

	// Cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	st, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return err
	}

	gen := feedback.NewOpenAIGenerator(cfg)
	router := buildRouter(st, gen, cfg, log)

	// Health checkers; startup blocks on the store only. A degraded
	// feedback provider is reported but must not keep auth and reads down.
	storeChecker := startHealthCheckers(ctx, cfg, log, st, gen)
	if err := waitUntilHealthy(ctx, cfg, storeChecker); err != nil {
		log.Error().Stack().Err(err).Msg("startup health check failed")
		return err
	}

	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// buildRouter wires services and middleware into the HTTP router.
func buildRouter(st store.Store, gen feedback.Generator, cfg *config.Config, log zerolog.Logger) http.Handler {
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authMW := auth.NewMiddleware(jwtManager, log)

	authSvc := services.NewAuthService(st, jwtManager)
	diarySvc := services.NewDiaryService(st, gen)

	return api.NewRouter(authSvc, diarySvc, authMW)
}

// startHealthCheckers starts component checkers and the service-level
// aggregator, binds the health endpoint, and returns the store checker
// used to gate startup.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, st store.Store, gen feedback.Generator) *store.StoreHealthChecker {
	probeTimeout := time.Duration(cfg.HealthProbeTimeoutSeconds) * time.Second
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second

	storeChecker := store.NewStoreHealthChecker(st, log, probeTimeout)
	go storeChecker.Start(ctx, interval)

	genChecker := feedback.NewGeneratorHealthChecker(gen, log, probeTimeout)
	go genChecker.Start(ctx, interval)

	svcHealth := health.NewServiceHealthChecker(log, storeChecker, genChecker)
	go svcHealth.Start(ctx, interval)
	api.BindServiceHealth(svcHealth.IsHealthy)
	return storeChecker
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		// Creation waits on the external feedback call; the write
		// timeout has to outlive it.
		WriteTimeout: 150 * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// waitUntilHealthy blocks until the store reports healthy or the
// startup window expires.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, checker *store.StoreHealthChecker) error {
	timeoutSeconds := cfg.HealthIntervalSeconds * 2
	if timeoutSeconds < 60 {
		timeoutSeconds = 60
	}
	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if checker.IsHealthy() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("startup aborted: store not healthy within %d seconds", timeoutSeconds)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
