package card

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"thanksboard/internal/dbmysql"
	"thanksboard/internal/pagination"
)

// CardsTable is the composer view of cards.
var CardsTable = pagination.Table{
	Name:           "cards",
	Columns:        []string{"id", "title", "content", "is_anonymity", "is_answered", "is_active", "writer_id", "created_at"},
	SearchColumns:  []string{"title", "content"},
	ActiveColumn:   "is_active",
	OwnerColumn:    "writer_id",
	AnsweredColumn: "is_answered",
}

// CardKeyword is one (card, keyword) pair of the card_tags join.
type CardKeyword struct {
	CardID  int64
	Keyword string
}

type CardRepository interface {
	Transaction(ctx context.Context, fn func(repo CardRepository) error) error

	CreateCard(ctx context.Context, card *dbmysql.Card) error
	GetCardByID(ctx context.Context, cardID int64) (*dbmysql.Card, error)
	// LockCard reads the card holding a row lock until the transaction ends.
	LockCard(ctx context.Context, cardID int64) (*dbmysql.Card, error)
	SetCardAnswered(ctx context.Context, cardID int64, answered bool) error
	SetCardActive(ctx context.Context, cardID int64, active bool) error
	DeleteCard(ctx context.Context, cardID int64) error

	ListCards(ctx context.Context, q pagination.Query, take int) (pagination.Page[dbmysql.Card], error)
	// MatchTagSet returns ids of active cards carrying every keyword, cursor-bounded.
	MatchTagSet(ctx context.Context, keywords []string, cursor pagination.Cursor, order pagination.Direction, limit int) ([]int64, error)
	CountActiveUnanswered(ctx context.Context) (int64, error)
	GetActiveUnansweredAt(ctx context.Context, offset int) (*dbmysql.Card, error)

	FindOrCreateTags(ctx context.Context, keywords []string) ([]dbmysql.Tag, error)
	AttachTags(ctx context.Context, cardID int64, tagIDs []int64) error
	CardTagIDs(ctx context.Context, cardID int64) ([]int64, error)
	DeleteOrphanTagsAmong(ctx context.Context, tagIDs []int64) (int64, error)

	ListCardKeywords(ctx context.Context, cardIDs []int64) ([]CardKeyword, error)
	ListPickers(ctx context.Context, cardIDs []int64) ([]dbmysql.UserPicker, error)
	ListWriters(ctx context.Context, userIDs []int64) ([]dbmysql.User, error)

	HasPicked(ctx context.Context, cardID, userID int64) (bool, error)
	AddPicker(ctx context.Context, cardID, userID int64) error
	RemovePicker(ctx context.Context, cardID, userID int64) error
	CountPickers(ctx context.Context, cardID int64) (int64, error)

	HasReported(ctx context.Context, cardID, userID int64) (bool, error)
	AddReporter(ctx context.Context, cardID, userID int64) error
	CountReporters(ctx context.Context, cardID int64) (int64, error)
	ClearReporters(ctx context.Context, cardID int64) (int64, error)

	// DeleteCardRelations removes the card's tag, pick and report rows.
	DeleteCardRelations(ctx context.Context, cardID int64) error
}

type cardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Transaction(ctx context.Context, fn func(repo CardRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&cardRepository{db: tx})
	})
}

func (r *cardRepository) CreateCard(ctx context.Context, card *dbmysql.Card) error {
	return r.db.WithContext(ctx).Create(card).Error
}

func (r *cardRepository) GetCardByID(ctx context.Context, cardID int64) (*dbmysql.Card, error) {
	var card dbmysql.Card
	if err := r.db.WithContext(ctx).Where("id = ?", cardID).First(&card).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *cardRepository) LockCard(ctx context.Context, cardID int64) (*dbmysql.Card, error) {
	var card dbmysql.Card
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", cardID).
		First(&card).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *cardRepository) SetCardAnswered(ctx context.Context, cardID int64, answered bool) error {
	return r.updateColumn(ctx, cardID, "is_answered", answered)
}

func (r *cardRepository) SetCardActive(ctx context.Context, cardID int64, active bool) error {
	return r.updateColumn(ctx, cardID, "is_active", active)
}

func (r *cardRepository) updateColumn(ctx context.Context, cardID int64, column string, value interface{}) error {
	result := r.db.WithContext(ctx).Model(&dbmysql.Card{}).Where("id = ?", cardID).Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// MySQL reports 0 when the value did not change, so confirm the row exists.
		var n int64
		if err := r.db.WithContext(ctx).Model(&dbmysql.Card{}).Where("id = ?", cardID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

func (r *cardRepository) DeleteCard(ctx context.Context, cardID int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", cardID).Delete(&dbmysql.Card{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *cardRepository) ListCards(ctx context.Context, q pagination.Query, take int) (pagination.Page[dbmysql.Card], error) {
	tx, err := pagination.Compose(r.db.WithContext(ctx), q)
	if err != nil {
		return pagination.Page[dbmysql.Card]{}, err
	}
	return pagination.Fetch(tx, take, func(c dbmysql.Card) int64 { return c.ID })
}

func (r *cardRepository) MatchTagSet(ctx context.Context, keywords []string, cursor pagination.Cursor, order pagination.Direction, limit int) ([]int64, error) {
	tx := r.db.WithContext(ctx).
		Table("cards").
		Joins("JOIN card_tags ON card_tags.card_id = cards.id").
		Joins("JOIN tags ON tags.id = card_tags.tag_id").
		Where("tags.keyword IN ?", keywords).
		Where("cards.is_active = ?", true)
	tx = pagination.Bounded(tx, "cards.id", cursor, order).
		Group("cards.id").
		Having("COUNT(DISTINCT tags.keyword) = ?", len(keywords)).
		Limit(limit)

	var ids []int64
	if err := tx.Pluck("cards.id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *cardRepository) activeUnanswered(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&dbmysql.Card{}).
		Where("is_active = ? AND is_answered = ?", true, false)
}

func (r *cardRepository) CountActiveUnanswered(ctx context.Context) (int64, error) {
	var n int64
	err := r.activeUnanswered(ctx).Count(&n).Error
	return n, err
}

func (r *cardRepository) GetActiveUnansweredAt(ctx context.Context, offset int) (*dbmysql.Card, error) {
	var card dbmysql.Card
	err := r.activeUnanswered(ctx).Order("id").Offset(offset).Take(&card).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *cardRepository) FindOrCreateTags(ctx context.Context, keywords []string) ([]dbmysql.Tag, error) {
	tags := make([]dbmysql.Tag, 0, len(keywords))
	for _, kw := range keywords {
		var tag dbmysql.Tag
		if err := r.db.WithContext(ctx).Where(dbmysql.Tag{Keyword: kw}).FirstOrCreate(&tag).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (r *cardRepository) AttachTags(ctx context.Context, cardID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]dbmysql.CardTag, len(tagIDs))
	for i, id := range tagIDs {
		rows[i] = dbmysql.CardTag{CardID: cardID, TagID: id}
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *cardRepository) CardTagIDs(ctx context.Context, cardID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&dbmysql.CardTag{}).Where("card_id = ?", cardID).Pluck("tag_id", &ids).Error
	return ids, err
}

func (r *cardRepository) DeleteOrphanTagsAmong(ctx context.Context, tagIDs []int64) (int64, error) {
	if len(tagIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Where("id IN ?", tagIDs).
		Where("NOT EXISTS (SELECT 1 FROM card_tags WHERE card_tags.tag_id = tags.id)").
		Delete(&dbmysql.Tag{})
	return result.RowsAffected, result.Error
}

func (r *cardRepository) ListCardKeywords(ctx context.Context, cardIDs []int64) ([]CardKeyword, error) {
	var rows []CardKeyword
	if len(cardIDs) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).
		Table("card_tags").
		Select("card_tags.card_id, tags.keyword").
		Joins("JOIN tags ON tags.id = card_tags.tag_id").
		Where("card_tags.card_id IN ?", cardIDs).
		Order("tags.id").
		Scan(&rows).Error
	return rows, err
}

func (r *cardRepository) ListPickers(ctx context.Context, cardIDs []int64) ([]dbmysql.UserPicker, error) {
	var rows []dbmysql.UserPicker
	if len(cardIDs) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).Where("card_id IN ?", cardIDs).Find(&rows).Error
	return rows, err
}

func (r *cardRepository) ListWriters(ctx context.Context, userIDs []int64) ([]dbmysql.User, error) {
	var users []dbmysql.User
	if len(userIDs) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).Select(dbmysql.SummaryColumns).Where("id IN ?", userIDs).Find(&users).Error
	return users, err
}

func (r *cardRepository) exists(ctx context.Context, model interface{}, cardID, userID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(model).Where("card_id = ? AND user_id = ?", cardID, userID).Count(&n).Error
	return n > 0, err
}

func (r *cardRepository) count(ctx context.Context, model interface{}, cardID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(model).Where("card_id = ?", cardID).Count(&n).Error
	return n, err
}

func (r *cardRepository) HasPicked(ctx context.Context, cardID, userID int64) (bool, error) {
	return r.exists(ctx, &dbmysql.UserPicker{}, cardID, userID)
}

func (r *cardRepository) AddPicker(ctx context.Context, cardID, userID int64) error {
	return r.db.WithContext(ctx).Create(&dbmysql.UserPicker{CardID: cardID, UserID: userID}).Error
}

func (r *cardRepository) RemovePicker(ctx context.Context, cardID, userID int64) error {
	return r.db.WithContext(ctx).
		Where("card_id = ? AND user_id = ?", cardID, userID).
		Delete(&dbmysql.UserPicker{}).Error
}

func (r *cardRepository) CountPickers(ctx context.Context, cardID int64) (int64, error) {
	return r.count(ctx, &dbmysql.UserPicker{}, cardID)
}

func (r *cardRepository) HasReported(ctx context.Context, cardID, userID int64) (bool, error) {
	return r.exists(ctx, &dbmysql.UserReporter{}, cardID, userID)
}

func (r *cardRepository) AddReporter(ctx context.Context, cardID, userID int64) error {
	return r.db.WithContext(ctx).Create(&dbmysql.UserReporter{CardID: cardID, UserID: userID}).Error
}

func (r *cardRepository) CountReporters(ctx context.Context, cardID int64) (int64, error) {
	return r.count(ctx, &dbmysql.UserReporter{}, cardID)
}

func (r *cardRepository) ClearReporters(ctx context.Context, cardID int64) (int64, error) {
	result := r.db.WithContext(ctx).Where("card_id = ?", cardID).Delete(&dbmysql.UserReporter{})
	return result.RowsAffected, result.Error
}

func (r *cardRepository) DeleteCardRelations(ctx context.Context, cardID int64) error {
	for _, model := range []interface{}{&dbmysql.CardTag{}, &dbmysql.UserPicker{}, &dbmysql.UserReporter{}} {
		if err := r.db.WithContext(ctx).Where("card_id = ?", cardID).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
