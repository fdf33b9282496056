package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/letterboxhq/letterbox-api/internal/adapters/config"
	"github.com/letterboxhq/letterbox-api/internal/domain"
)

// EmailPublisherAdapter implements domain.EmailEventPublisher by publishing
// confirmation-email events to NATS for a mailer worker to consume.
type EmailPublisherAdapter struct {
	nc      *nats.Conn
	subject string
	logger  domain.Logger
}

var _ domain.EmailEventPublisher = (*EmailPublisherAdapter)(nil)

// NewEmailPublisherAdapter connects to NATS and returns the publisher plus a
// cleanup function draining the connection. An empty NATS URL is not an
// error: it returns a nil adapter, which disables email dispatch entirely.
func NewEmailPublisherAdapter(ctx context.Context, cfgProvider config.Provider, appLogger domain.Logger) (*EmailPublisherAdapter, func(), error) {
	appCfg := cfgProvider.Get()
	natsCfg := appCfg.NATS
	if natsCfg.URL == "" {
		appLogger.Warn(ctx, "NATS URL not configured; confirmation email dispatch disabled")
		return nil, func() {}, nil
	}

	appLogger.Info(ctx, "Attempting to connect to NATS server", "url", natsCfg.URL)

	nc, err := nats.Connect(natsCfg.URL,
		nats.Name(fmt.Sprintf("%s-email-publisher", appCfg.App.ServiceName)),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(5*time.Second), // Connection timeout
		nats.ClosedHandler(func(c *nats.Conn) {
			appLogger.Info(ctx, "NATS connection closed")
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			appLogger.Info(ctx, "NATS reconnected", "url", c.ConnectedUrl())
		}),
		nats.DisconnectErrHandler(func(c *nats.Conn, err error) {
			appLogger.Warn(ctx, "NATS disconnected", "error", err)
		}),
	)
	if err != nil {
		appLogger.Error(ctx, "Failed to connect to NATS", "url", natsCfg.URL, "error", err.Error())
		return nil, nil, fmt.Errorf("failed to connect to NATS at %s: %w", natsCfg.URL, err)
	}

	appLogger.Info(ctx, "Successfully connected to NATS server", "url", nc.ConnectedUrl())

	adapter := &EmailPublisherAdapter{
		nc:      nc,
		subject: natsCfg.EmailSubject,
		logger:  appLogger,
	}

	cleanup := func() {
		appLogger.Info(context.Background(), "Draining NATS connection...")
		if err := nc.Drain(); err != nil {
			appLogger.Error(context.Background(), "NATS drain failed", "error", err.Error())
			nc.Close()
		}
	}
	return adapter, cleanup, nil
}

// Conn exposes the underlying connection for readiness checks.
func (a *EmailPublisherAdapter) Conn() *nats.Conn {
	if a == nil {
		return nil
	}
	return a.nc
}

// PublishConfirmationRequested publishes a confirmation email event.
func (a *EmailPublisherAdapter) PublishConfirmationRequested(ctx context.Context, event domain.ConfirmationEmailEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal confirmation email event: %w", err)
	}
	if err := a.nc.Publish(a.subject, payload); err != nil {
		a.logger.Error(ctx, "Failed to publish confirmation email event", "subject", a.subject, "error", err.Error())
		return fmt.Errorf("nats publish to '%s' failed: %w", a.subject, err)
	}
	a.logger.Debug(ctx, "Confirmation email event published", "subject", a.subject, "user_id", event.UserID)
	return nil
}
