package thanks

import (
	"context"
	"time"

	"go.uber.org/zap"

	"thanksboard/internal/common"
	"thanksboard/internal/dbmysql"
	"thanksboard/internal/events"
	"thanksboard/internal/ledger"
)

// ReactionLedger is the counter-keeping part of *ledger.Ledger.
type ReactionLedger interface {
	Create(ctx context.Context, reactionerID, thanksID int64, kind common.ReactionType) (*dbmysql.Reaction, error)
	Change(ctx context.Context, reactionerID, reactionID int64, kind common.ReactionType) (*dbmysql.Reaction, ledger.Outcome, error)
	Remove(ctx context.Context, reactionerID, reactionID int64) (*dbmysql.Reaction, error)
}

// ReactionChange reports what a change request did. Asking for the kind a
// reaction already has removes it.
type ReactionChange struct {
	Outcome  string            `json:"outcome"`
	Reaction *dbmysql.Reaction `json:"reaction"`
}

type ReactionService interface {
	CreateReaction(ctx context.Context, actor *common.Principal, thanksID int64, rawType string) (*dbmysql.Reaction, error)
	ListReactions(ctx context.Context, thanksID int64) ([]dbmysql.Reaction, error)
	FindMyReaction(ctx context.Context, actor *common.Principal, reactionID int64) (*dbmysql.Reaction, error)
	ChangeReaction(ctx context.Context, actor *common.Principal, reactionID int64, rawType string) (*ReactionChange, error)
	RemoveReaction(ctx context.Context, actor *common.Principal, reactionID int64) error
}

type reactionService struct {
	thanksRepo ThanksRepository
	ledger     ReactionLedger
	events     common.EventPublisher
	logger     *zap.Logger
	now        func() time.Time
}

func NewReactionService(thanksRepo ThanksRepository, l ReactionLedger, publisher common.EventPublisher, logger *zap.Logger) ReactionService {
	return &reactionService{
		thanksRepo: thanksRepo,
		ledger:     l,
		events:     publisher,
		logger:     logger.Named("reaction"),
		now:        time.Now,
	}
}

func (s *reactionService) emit(ctx context.Context, subject string, r *dbmysql.Reaction) {
	events.Emit(ctx, s.events, s.logger, subject, events.ReactionEvent{
		ReactionID:   r.ID,
		ThanksID:     r.ThanksID,
		ReactionerID: r.ReactionerID,
		Type:         r.Type.String(),
		At:           s.now(),
	})
}

// CreateReaction rejects reactions on inactive notes; the ledger handles the rest.
func (s *reactionService) CreateReaction(ctx context.Context, actor *common.Principal, thanksID int64, rawType string) (*dbmysql.Reaction, error) {
	kind, err := common.ParseReactionType(rawType)
	if err != nil {
		return nil, err
	}
	thanks, err := s.thanksRepo.GetThanksByID(ctx, thanksID)
	if err != nil {
		return nil, common.FromRepoError(err, "thanks")
	}
	if !thanks.IsActive {
		return nil, common.NotFound("thanks not found")
	}

	reaction, err := s.ledger.Create(ctx, actor.UserID, thanksID, kind)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, events.ReactionCreated, reaction)
	return reaction, nil
}

func (s *reactionService) ListReactions(ctx context.Context, thanksID int64) ([]dbmysql.Reaction, error) {
	if _, err := s.thanksRepo.GetThanksByID(ctx, thanksID); err != nil {
		return nil, common.FromRepoError(err, "thanks")
	}
	reactions, err := s.thanksRepo.ListReactions(ctx, thanksID)
	if err != nil {
		return nil, common.FromRepoError(err, "reactions")
	}
	if reactions == nil {
		reactions = []dbmysql.Reaction{}
	}
	return reactions, nil
}

func (s *reactionService) FindMyReaction(ctx context.Context, actor *common.Principal, reactionID int64) (*dbmysql.Reaction, error) {
	reaction, err := s.thanksRepo.GetReaction(ctx, reactionID, actor.UserID)
	if err != nil {
		return nil, common.FromRepoError(err, "reaction")
	}
	return reaction, nil
}

func (s *reactionService) ChangeReaction(ctx context.Context, actor *common.Principal, reactionID int64, rawType string) (*ReactionChange, error) {
	kind, err := common.ParseReactionType(rawType)
	if err != nil {
		return nil, err
	}
	reaction, outcome, err := s.ledger.Change(ctx, actor.UserID, reactionID, kind)
	if err != nil {
		return nil, err
	}

	subject := events.ReactionChanged
	if outcome == ledger.Removed {
		subject = events.ReactionRemoved
	}
	s.emit(ctx, subject, reaction)
	return &ReactionChange{Outcome: outcome.String(), Reaction: reaction}, nil
}

func (s *reactionService) RemoveReaction(ctx context.Context, actor *common.Principal, reactionID int64) error {
	reaction, err := s.ledger.Remove(ctx, actor.UserID, reactionID)
	if err != nil {
		return err
	}
	s.emit(ctx, events.ReactionRemoved, reaction)
	return nil
}
