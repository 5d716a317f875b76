package ledger

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"thanksboard/internal/common"
	"thanksboard/internal/dbmysql"
)

// GormStore is the Store over the thanks and reactions tables.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) LockCounts(ctx context.Context, thanksID int64) (common.ReactionCounts, error) {
	var thanks dbmysql.Thanks
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "reactions_count").
		Where("id = ?", thanksID).
		First(&thanks).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.NotFound("thanks not found")
	}
	if err != nil {
		return nil, err
	}
	if thanks.ReactionsCount == nil {
		return common.NewReactionCounts(), nil
	}
	return thanks.ReactionsCount, nil
}

func (s *GormStore) SaveCounts(ctx context.Context, thanksID int64, counts common.ReactionCounts) error {
	data, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	// updated_at tracks content edits only.
	result := s.db.WithContext(ctx).
		Model(&dbmysql.Thanks{}).
		Where("id = ?", thanksID).
		UpdateColumn("reactions_count", string(data))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.NotFound("thanks not found")
	}
	return nil
}

func (s *GormStore) ReactionExists(ctx context.Context, reactionerID, thanksID int64) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&dbmysql.Reaction{}).
		Where("reactioner_id = ? AND thanks_id = ?", reactionerID, thanksID).
		Count(&n).Error
	return n > 0, err
}

func (s *GormStore) FindReaction(ctx context.Context, reactionID, reactionerID int64) (*dbmysql.Reaction, error) {
	var reaction dbmysql.Reaction
	err := s.db.WithContext(ctx).
		Where("id = ? AND reactioner_id = ?", reactionID, reactionerID).
		First(&reaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.NotFound("reaction not found")
	}
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (s *GormStore) InsertReaction(ctx context.Context, reaction *dbmysql.Reaction) error {
	err := s.db.WithContext(ctx).Create(reaction).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return common.Conflict("already reacted to this thanks")
	}
	return err
}

func (s *GormStore) UpdateReactionType(ctx context.Context, reactionID int64, from, to common.ReactionType) (bool, error) {
	result := s.db.WithContext(ctx).Model(&dbmysql.Reaction{}).
		Where("id = ? AND type = ?", reactionID, from).
		Update("type", to)
	return result.RowsAffected > 0, result.Error
}

func (s *GormStore) DeleteReaction(ctx context.Context, reactionID int64, kind common.ReactionType) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("id = ? AND type = ?", reactionID, kind).
		Delete(&dbmysql.Reaction{})
	return result.RowsAffected > 0, result.Error
}
