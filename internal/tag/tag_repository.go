package tag

import (
	"context"

	"gorm.io/gorm"

	"thanksboard/internal/dbmysql"
	"thanksboard/internal/pagination"
)

// TagsTable is the composer view of tags. Tags carry no activity flag.
var TagsTable = pagination.Table{
	Name:          "tags",
	Columns:       []string{"id", "keyword", "created_at"},
	SearchColumns: []string{"keyword"},
}

// BestTag is a tag with the number of cards carrying it.
type BestTag struct {
	ID         int64  `json:"id"`
	Keyword    string `json:"keyword"`
	CardsCount int64  `json:"cardsCount"`
}

type TagRepository interface {
	GetTagByID(ctx context.Context, tagID int64) (*dbmysql.Tag, error)
	GetTagByKeyword(ctx context.Context, keyword string) (*dbmysql.Tag, error)
	CheckTagExists(ctx context.Context, keyword string) (bool, error)
	CreateTag(ctx context.Context, tag *dbmysql.Tag) error
	DeleteTag(ctx context.Context, tagID int64) error
	DeleteOrphanTags(ctx context.Context) (int64, error)
	CountCards(ctx context.Context, tagID int64) (int64, error)
	ListBestTags(ctx context.Context, limit int) ([]BestTag, error)
	ListTags(ctx context.Context, q pagination.Query, take int) (pagination.Page[dbmysql.Tag], error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) GetTagByID(ctx context.Context, tagID int64) (*dbmysql.Tag, error) {
	var tag dbmysql.Tag
	if err := r.db.WithContext(ctx).Where("id = ?", tagID).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) GetTagByKeyword(ctx context.Context, keyword string) (*dbmysql.Tag, error) {
	var tag dbmysql.Tag
	err := r.db.WithContext(ctx).
		Select("id", "keyword", "created_at").
		Where("keyword = ?", keyword).
		First(&tag).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) CheckTagExists(ctx context.Context, keyword string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&dbmysql.Tag{}).Where("keyword = ?", keyword).Count(&count).Error
	return count > 0, err
}

func (r *tagRepository) CreateTag(ctx context.Context, tag *dbmysql.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

func (r *tagRepository) DeleteTag(ctx context.Context, tagID int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", tagID).Delete(&dbmysql.Tag{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteOrphanTags removes every tag no card carries and reports how many went.
func (r *tagRepository) DeleteOrphanTags(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM card_tags WHERE card_tags.tag_id = tags.id)").
		Delete(&dbmysql.Tag{})
	return res.RowsAffected, res.Error
}

func (r *tagRepository) CountCards(ctx context.Context, tagID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&dbmysql.CardTag{}).Where("tag_id = ?", tagID).Count(&count).Error
	return count, err
}

func (r *tagRepository) ListBestTags(ctx context.Context, limit int) ([]BestTag, error) {
	var tags []BestTag
	err := r.db.WithContext(ctx).
		Table("tags").
		Select("tags.id, tags.keyword, COUNT(DISTINCT card_tags.card_id) AS cards_count").
		Joins("LEFT JOIN card_tags ON card_tags.tag_id = tags.id").
		Group("tags.id, tags.keyword").
		Order("cards_count DESC, tags.id DESC").
		Limit(limit).
		Scan(&tags).Error
	return tags, err
}

func (r *tagRepository) ListTags(ctx context.Context, q pagination.Query, take int) (pagination.Page[dbmysql.Tag], error) {
	tx, err := pagination.Compose(r.db.WithContext(ctx), q)
	if err != nil {
		return pagination.Page[dbmysql.Tag]{}, err
	}
	return pagination.Fetch(tx, take, func(t dbmysql.Tag) int64 { return t.ID })
}
