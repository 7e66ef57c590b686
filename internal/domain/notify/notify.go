// Package notify defines the outbound notification port used by account flows.
package notify

import (
	"context"

	"inventrack/pkg/logger"
)

// Recipient is the data a welcome message is rendered from.
type Recipient struct {
	Name  string
	Email string
	Role  string
}

// Notifier delivers account notifications.
type Notifier interface {
	Welcome(ctx context.Context, to Recipient) error
}

// LogNotifier only logs; used when no mail server is configured.
type LogNotifier struct{}

// Welcome implements Notifier.
func (LogNotifier) Welcome(ctx context.Context, to Recipient) error {
	logger.Info(ctx, "welcome notification skipped, mail disabled",
		"email", to.Email,
		"role", to.Role,
	)
	return nil
}

// SendAfterCommit delivers a welcome message and logs any failure.
// Delivery problems never reach the caller: the account already exists.
func SendAfterCommit(ctx context.Context, n Notifier, to Recipient) {
	if n == nil {
		return
	}
	if err := n.Welcome(ctx, to); err != nil {
		logger.Error(ctx, "welcome notification failed",
			"email", to.Email,
			"error", err,
		)
	}
}
