package domain

import (
	"context"
	"time"
)

// ConfirmationEmailEvent is published when a confirmation email should be
// dispatched to a user. A mailer worker consumes these; failure to publish
// never fails the originating request.
type ConfirmationEmailEvent struct {
	UserID      uint      `json:"user_id"`
	Email       string    `json:"email"`
	VerifyURL   string    `json:"verify_url"`
	RequestedAt time.Time `json:"requested_at"`
}

// EmailEventPublisher publishes outbound email dispatch events.
type EmailEventPublisher interface {
	PublishConfirmationRequested(ctx context.Context, event ConfirmationEmailEvent) error
}
