package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/letterboxhq/letterbox-api/internal/adapters/middleware"
	"github.com/letterboxhq/letterbox-api/pkg/safego"
)

const defaultShutdownTimeout = 30 * time.Second

// Run wires the HTTP routes, starts the server, and blocks until the context
// is cancelled or a termination signal arrives.
func (a *App) Run(ctx context.Context) error {
	a.registerRoutes()

	appCfg := a.configProvider.Get()
	a.logger.Info(ctx, "Starting HTTP server",
		"address", a.httpServer.Addr,
		"service", appCfg.App.ServiceName,
		"version", appCfg.App.Version,
	)

	serverErr := make(chan error, 1)
	safego.Execute(ctx, a.logger, "HTTPServer", func() {
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-serverErr:
		if err != nil {
			a.logger.Error(ctx, "HTTP server failed", "error", err.Error())
			return err
		}
		return nil
	case sig := <-sigCh:
		a.logger.Info(ctx, "Received termination signal, shutting down", "signal", sig.String())
	case <-ctx.Done():
		a.logger.Info(ctx, "Application context cancelled, shutting down")
	}

	shutdownTimeout := defaultShutdownTimeout
	if secs := a.configProvider.Get().App.ShutdownTimeoutSeconds; secs > 0 {
		shutdownTimeout = time.Duration(secs) * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error(ctx, "HTTP server shutdown error", "error", err.Error())
		return err
	}
	a.logger.Info(ctx, "HTTP server stopped")
	return nil
}

// registerRoutes mounts every endpoint on the mux. All routes carry the
// request-ID middleware; mutating newsletter routes and the profile route
// additionally require a valid session token.
func (a *App) registerRoutes() {
	mux := a.httpServeMux
	auth := a.authMiddleware

	public := func(h http.HandlerFunc) http.Handler {
		return middleware.RequestIDMiddleware(h)
	}
	protected := func(h http.HandlerFunc) http.Handler {
		return middleware.RequestIDMiddleware(auth(h))
	}

	// Tasks
	mux.Handle("GET /tasks", public(a.taskHandler.List))
	mux.Handle("POST /tasks", public(a.taskHandler.Create))
	mux.Handle("GET /tasks/{id}", public(a.taskHandler.Get))
	mux.Handle("PUT /tasks/{id}", public(a.taskHandler.Update))
	mux.Handle("DELETE /tasks/{id}", public(a.taskHandler.Delete))

	// Newsletters
	mux.Handle("GET /newsletters", public(a.newsletterHandler.List))
	mux.Handle("POST /newsletters", protected(a.newsletterHandler.Create))
	mux.Handle("PUT /newsletters/{id}", protected(a.newsletterHandler.Update))
	mux.Handle("DELETE /newsletters/{id}", protected(a.newsletterHandler.Delete))

	// Accounts
	mux.Handle("POST /register", public(a.authHandler.Register))
	mux.Handle("POST /signin", public(a.authHandler.SignIn))
	mux.Handle("GET /profile", protected(a.authHandler.Profile))
	mux.Handle("POST /auth/resend-confirmation", public(a.authHandler.ResendConfirmation))

	// Operational endpoints
	mux.Handle("GET /health", public(a.handleHealth))
	mux.Handle("GET /ready", public(a.handleReady))
	mux.Handle("GET /metrics", promhttp.Handler())
}

func (a *App) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleReady reports the status of every backing dependency. The NATS link
// is optional, so a disabled publisher never makes the service unready.
func (a *App) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ready := true
	deps := make(map[string]string, 3)

	if err := a.redisClient.Ping(ctx).Err(); err != nil {
		deps["redis"] = "unreachable"
		ready = false
	} else {
		deps["redis"] = "ok"
	}

	if sqlDB, err := a.db.DB(); err != nil {
		deps["database"] = "unavailable"
		ready = false
	} else if err := sqlDB.PingContext(ctx); err != nil {
		deps["database"] = "unreachable"
		ready = false
	} else {
		deps["database"] = "ok"
	}

	switch conn := a.emailPublisher.Conn(); {
	case conn == nil:
		deps["nats"] = "disabled"
	case conn.Status() == nats.CONNECTED:
		deps["nats"] = "ok"
	default:
		deps["nats"] = conn.Status().String()
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"ready":        ready,
		"dependencies": deps,
	})
}
