package common

import (
	"context"
)

type EmailService interface {
	SendEmail(to, subject, body string) error
}

// EventPublisher fans domain events out after a transaction commits.
// Implementations must not block the request on broker failures.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, payload interface{}) error
}
