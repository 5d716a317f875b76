package thanks

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"thanksboard/internal/dbmysql"
	"thanksboard/internal/pagination"
)

// ThanksTable is the composer view of thanks notes. They have no answered state.
var ThanksTable = pagination.Table{
	Name:         "thanks",
	Columns:      []string{"id", "content", "writer_id", "is_active", "reactions_count", "created_at", "updated_at"},
	ActiveColumn: "is_active",
	OwnerColumn:  "writer_id",
}

type ThanksRepository interface {
	Transaction(ctx context.Context, fn func(repo ThanksRepository) error) error

	CreateThanks(ctx context.Context, thanks *dbmysql.Thanks) error
	GetThanksByID(ctx context.Context, thanksID int64) (*dbmysql.Thanks, error)
	LockThanks(ctx context.Context, thanksID int64) (*dbmysql.Thanks, error)
	UpdateContent(ctx context.Context, thanksID int64, content string) error
	SetThanksActive(ctx context.Context, thanksID int64, active bool) error
	DeleteThanks(ctx context.Context, thanksID int64) error
	// DeleteThanksRelations removes the note's reactions and report rows.
	DeleteThanksRelations(ctx context.Context, thanksID int64) error

	ListThanks(ctx context.Context, q pagination.Query, take int) (pagination.Page[dbmysql.Thanks], error)
	ListWriters(ctx context.Context, userIDs []int64) ([]dbmysql.User, error)
	ListViewerReactions(ctx context.Context, reactionerID int64, thanksIDs []int64) ([]dbmysql.Reaction, error)

	ListReactions(ctx context.Context, thanksID int64) ([]dbmysql.Reaction, error)
	GetReaction(ctx context.Context, reactionID, reactionerID int64) (*dbmysql.Reaction, error)

	HasReported(ctx context.Context, thanksID, userID int64) (bool, error)
	AddReporter(ctx context.Context, thanksID, userID int64) error
	CountReporters(ctx context.Context, thanksID int64) (int64, error)
	ClearReporters(ctx context.Context, thanksID int64) (int64, error)
}

type thanksRepository struct {
	db *gorm.DB
}

func NewThanksRepository(db *gorm.DB) ThanksRepository {
	return &thanksRepository{db: db}
}

func (r *thanksRepository) Transaction(ctx context.Context, fn func(repo ThanksRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&thanksRepository{db: tx})
	})
}

func (r *thanksRepository) CreateThanks(ctx context.Context, thanks *dbmysql.Thanks) error {
	return r.db.WithContext(ctx).Create(thanks).Error
}

func (r *thanksRepository) GetThanksByID(ctx context.Context, thanksID int64) (*dbmysql.Thanks, error) {
	var thanks dbmysql.Thanks
	if err := r.db.WithContext(ctx).Where("id = ?", thanksID).First(&thanks).Error; err != nil {
		return nil, err
	}
	return &thanks, nil
}

func (r *thanksRepository) LockThanks(ctx context.Context, thanksID int64) (*dbmysql.Thanks, error) {
	var thanks dbmysql.Thanks
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", thanksID).
		First(&thanks).Error
	if err != nil {
		return nil, err
	}
	return &thanks, nil
}

func (r *thanksRepository) UpdateContent(ctx context.Context, thanksID int64, content string) error {
	result := r.db.WithContext(ctx).Model(&dbmysql.Thanks{}).Where("id = ?", thanksID).Update("content", content)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetThanksActive skips updated_at, which only tracks content edits.
func (r *thanksRepository) SetThanksActive(ctx context.Context, thanksID int64, active bool) error {
	return r.db.WithContext(ctx).Model(&dbmysql.Thanks{}).Where("id = ?", thanksID).UpdateColumn("is_active", active).Error
}

func (r *thanksRepository) DeleteThanks(ctx context.Context, thanksID int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", thanksID).Delete(&dbmysql.Thanks{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *thanksRepository) DeleteThanksRelations(ctx context.Context, thanksID int64) error {
	if err := r.db.WithContext(ctx).Where("thanks_id = ?", thanksID).Delete(&dbmysql.Reaction{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("thanks_id = ?", thanksID).Delete(&dbmysql.UserReportThanks{}).Error
}

func (r *thanksRepository) ListThanks(ctx context.Context, q pagination.Query, take int) (pagination.Page[dbmysql.Thanks], error) {
	tx, err := pagination.Compose(r.db.WithContext(ctx), q)
	if err != nil {
		return pagination.Page[dbmysql.Thanks]{}, err
	}
	return pagination.Fetch(tx, take, func(t dbmysql.Thanks) int64 { return t.ID })
}

func (r *thanksRepository) ListWriters(ctx context.Context, userIDs []int64) ([]dbmysql.User, error) {
	var users []dbmysql.User
	if len(userIDs) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).Select(dbmysql.SummaryColumns).Where("id IN ?", userIDs).Find(&users).Error
	return users, err
}

func (r *thanksRepository) ListViewerReactions(ctx context.Context, reactionerID int64, thanksIDs []int64) ([]dbmysql.Reaction, error) {
	var reactions []dbmysql.Reaction
	if len(thanksIDs) == 0 {
		return reactions, nil
	}
	err := r.db.WithContext(ctx).
		Where("reactioner_id = ? AND thanks_id IN ?", reactionerID, thanksIDs).
		Find(&reactions).Error
	return reactions, err
}

func (r *thanksRepository) ListReactions(ctx context.Context, thanksID int64) ([]dbmysql.Reaction, error) {
	var reactions []dbmysql.Reaction
	err := r.db.WithContext(ctx).Where("thanks_id = ?", thanksID).Order("id").Find(&reactions).Error
	return reactions, err
}

func (r *thanksRepository) GetReaction(ctx context.Context, reactionID, reactionerID int64) (*dbmysql.Reaction, error) {
	var reaction dbmysql.Reaction
	err := r.db.WithContext(ctx).
		Where("id = ? AND reactioner_id = ?", reactionID, reactionerID).
		First(&reaction).Error
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (r *thanksRepository) HasReported(ctx context.Context, thanksID, userID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&dbmysql.UserReportThanks{}).
		Where("thanks_id = ? AND user_id = ?", thanksID, userID).
		Count(&n).Error
	return n > 0, err
}

func (r *thanksRepository) AddReporter(ctx context.Context, thanksID, userID int64) error {
	return r.db.WithContext(ctx).Create(&dbmysql.UserReportThanks{ThanksID: thanksID, UserID: userID}).Error
}

func (r *thanksRepository) CountReporters(ctx context.Context, thanksID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&dbmysql.UserReportThanks{}).Where("thanks_id = ?", thanksID).Count(&n).Error
	return n, err
}

func (r *thanksRepository) ClearReporters(ctx context.Context, thanksID int64) (int64, error) {
	result := r.db.WithContext(ctx).Where("thanks_id = ?", thanksID).Delete(&dbmysql.UserReportThanks{})
	return result.RowsAffected, result.Error
}
