package events

import (
	"context"
	"time"

	"go.uber.org/zap"

	"thanksboard/internal/common"
)

// Subjects are relative to the configured prefix.
const (
	ReactionCreated    = "reaction.created"
	ReactionChanged    = "reaction.changed"
	ReactionRemoved    = "reaction.removed"
	CardDeactivated    = "card.deactivated"
	ThanksDeactivated  = "thanks.deactivated"
	CardReportsReset   = "card.reports.reset"
	ThanksReportsReset = "thanks.reports.reset"
)

type ReactionEvent struct {
	ReactionID   int64     `json:"reactionId"`
	ThanksID     int64     `json:"thanksId"`
	ReactionerID int64     `json:"reactionerId"`
	Type         string    `json:"type"`
	At           time.Time `json:"at"`
}

type ModerationEvent struct {
	ItemID    int64     `json:"itemId"`
	ActorID   int64     `json:"actorId"`
	Reporters int64     `json:"reporters"`
	At        time.Time `json:"at"`
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, interface{}) error { return nil }

// Emit publishes after a commit has already happened, so a failure is only logged.
func Emit(ctx context.Context, pub common.EventPublisher, logger *zap.Logger, subject string, payload interface{}) {
	if err := pub.Publish(ctx, subject, payload); err != nil {
		logger.Warn("event dropped", zap.String("subject", subject), zap.Error(err))
	}
}
