package ledger

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"thanksboard/internal/common"
	"thanksboard/internal/dbmysql"
)

// Store is the transactional view of thanks counters and reaction rows.
// Methods called on the Store handed to Transaction run inside that transaction.
// Missing rows are reported as common.NotFound, unique violations as common.Conflict.
type Store interface {
	Transaction(ctx context.Context, fn func(tx Store) error) error

	// LockCounts reads a thanks note's counter map, holding a row lock until commit.
	LockCounts(ctx context.Context, thanksID int64) (common.ReactionCounts, error)
	SaveCounts(ctx context.Context, thanksID int64, counts common.ReactionCounts) error

	ReactionExists(ctx context.Context, reactionerID, thanksID int64) (bool, error)
	FindReaction(ctx context.Context, reactionID, reactionerID int64) (*dbmysql.Reaction, error)
	InsertReaction(ctx context.Context, reaction *dbmysql.Reaction) error
	// UpdateReactionType and DeleteReaction report affected=false when the row
	// no longer matches, i.e. a concurrent request got there first.
	UpdateReactionType(ctx context.Context, reactionID int64, from, to common.ReactionType) (bool, error)
	DeleteReaction(ctx context.Context, reactionID int64, kind common.ReactionType) (bool, error)
}

// Outcome tells the caller what a change request ended up doing.
type Outcome int

const (
	Created Outcome = iota
	Changed
	Removed
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Changed:
		return "changed"
	default:
		return "removed"
	}
}

// Ledger keeps each thanks note's counter map equal to its reaction rows.
// Every mutation is one transaction: lock counter, compute, write counter, write reaction.
type Ledger struct {
	store  Store
	logger *zap.Logger
}

func New(store Store, logger *zap.Logger) *Ledger {
	return &Ledger{store: store, logger: logger.Named("ledger")}
}

// Create adds a reaction and bumps its counter. A second reaction by the same
// user on the same note is a conflict and leaves the counter alone.
func (l *Ledger) Create(ctx context.Context, reactionerID, thanksID int64, kind common.ReactionType) (*dbmysql.Reaction, error) {
	if !kind.IsValid() {
		return nil, common.BadRequest("unknown reaction type")
	}

	exists, err := l.store.ReactionExists(ctx, reactionerID, thanksID)
	if err != nil {
		return nil, common.Internal("check reaction", err)
	}
	if exists {
		return nil, common.Conflict("already reacted to this thanks")
	}

	reaction := &dbmysql.Reaction{Type: kind, ReactionerID: reactionerID, ThanksID: thanksID}
	err = l.store.Transaction(ctx, func(tx Store) error {
		counts, err := tx.LockCounts(ctx, thanksID)
		if err != nil {
			return err
		}
		if err := tx.SaveCounts(ctx, thanksID, counts.Increment(kind)); err != nil {
			return err
		}
		return tx.InsertReaction(ctx, reaction)
	})
	if err != nil {
		return nil, classify(err, "create reaction")
	}

	l.logger.Debug("reaction created",
		zap.Int64("thanks_id", thanksID),
		zap.Int64("reaction_id", reaction.ID),
		zap.String("type", kind.String()))
	return reaction, nil
}

// Change switches a reaction's kind. Asking for the kind it already has removes it.
func (l *Ledger) Change(ctx context.Context, reactionerID, reactionID int64, kind common.ReactionType) (*dbmysql.Reaction, Outcome, error) {
	if !kind.IsValid() {
		return nil, Changed, common.BadRequest("unknown reaction type")
	}

	current, err := l.find(ctx, reactionID, reactionerID)
	if err != nil {
		return nil, Changed, err
	}
	if current.Type == kind {
		if err := l.remove(ctx, current); err != nil {
			return nil, Removed, err
		}
		return current, Removed, nil
	}

	from := current.Type
	err = l.store.Transaction(ctx, func(tx Store) error {
		counts, err := tx.LockCounts(ctx, current.ThanksID)
		if err != nil {
			return err
		}
		next, err := counts.Move(from, kind)
		if err != nil {
			return err
		}
		if err := tx.SaveCounts(ctx, current.ThanksID, next); err != nil {
			return err
		}
		ok, err := tx.UpdateReactionType(ctx, current.ID, from, kind)
		if err != nil {
			return err
		}
		if !ok {
			return common.NotFound("reaction not found")
		}
		return nil
	})
	if err != nil {
		return nil, Changed, classify(err, "change reaction")
	}

	current.Type = kind
	l.logger.Debug("reaction changed",
		zap.Int64("reaction_id", current.ID),
		zap.String("from", from.String()),
		zap.String("to", kind.String()))
	return current, Changed, nil
}

// Remove deletes the caller's reaction and decrements its counter.
func (l *Ledger) Remove(ctx context.Context, reactionerID, reactionID int64) (*dbmysql.Reaction, error) {
	current, err := l.find(ctx, reactionID, reactionerID)
	if err != nil {
		return nil, err
	}
	if err := l.remove(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

func (l *Ledger) find(ctx context.Context, reactionID, reactionerID int64) (*dbmysql.Reaction, error) {
	current, err := l.store.FindReaction(ctx, reactionID, reactionerID)
	if err != nil {
		return nil, classify(err, "find reaction")
	}
	return current, nil
}

func (l *Ledger) remove(ctx context.Context, current *dbmysql.Reaction) error {
	err := l.store.Transaction(ctx, func(tx Store) error {
		counts, err := tx.LockCounts(ctx, current.ThanksID)
		if err != nil {
			return err
		}
		next, err := counts.Decrement(current.Type)
		if err != nil {
			return err
		}
		if err := tx.SaveCounts(ctx, current.ThanksID, next); err != nil {
			return err
		}
		ok, err := tx.DeleteReaction(ctx, current.ID, current.Type)
		if err != nil {
			return err
		}
		if !ok {
			return common.NotFound("reaction not found")
		}
		return nil
	})
	if err != nil {
		return classify(err, "remove reaction")
	}

	l.logger.Debug("reaction removed",
		zap.Int64("thanks_id", current.ThanksID),
		zap.Int64("reaction_id", current.ID))
	return nil
}

// classify keeps domain errors and turns store failures into internal ones.
func classify(err error, op string) error {
	if errors.Is(err, common.ErrCounterUnderflow) {
		return common.BadRequest("reaction count is out of sync; nothing was changed")
	}
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return common.Internal(op, err)
}
