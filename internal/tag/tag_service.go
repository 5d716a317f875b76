package tag

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"

	"thanksboard/internal/cache"
	"thanksboard/internal/common"
	"thanksboard/internal/config"
	"thanksboard/internal/dbmysql"
	"thanksboard/internal/pagination"
)

const (
	bestTagsKey   = "tags:best"
	bestTagsLimit = 10
)

type TagService interface {
	GetTagByKeyword(ctx context.Context, keyword string) (*dbmysql.Tag, error)
	ListBestTags(ctx context.Context) ([]BestTag, error)
	InvalidateBestTags(ctx context.Context)
	SearchTags(ctx context.Context, keyword string, req pagination.Request) (pagination.Page[dbmysql.Tag], error)
	CreateTag(ctx context.Context, keyword string) (*dbmysql.Tag, error)
	DeleteTag(ctx context.Context, actor *common.Principal, tagID int64) error
	ClearOrphanTags(ctx context.Context, actor *common.Principal) (int64, error)
}

type tagService struct {
	tagRepo TagRepository
	cache   cache.Store
	cfg     *config.Config
	logger  *zap.Logger
}

func NewTagService(tagRepo TagRepository, store cache.Store, cfg *config.Config, logger *zap.Logger) TagService {
	return &tagService{tagRepo: tagRepo, cache: store, cfg: cfg, logger: logger.Named("tag")}
}

func (s *tagService) GetTagByKeyword(ctx context.Context, keyword string) (*dbmysql.Tag, error) {
	keyword = strings.TrimSpace(keyword)
	if err := common.ValidateKeyword(keyword); err != nil {
		return nil, err
	}
	tag, err := s.tagRepo.GetTagByKeyword(ctx, keyword)
	if err != nil {
		return nil, common.FromRepoError(err, "tag")
	}
	return tag, nil
}

// ListBestTags serves the top tags from Redis when it can. A cache failure
// falls through to the database.
func (s *tagService) ListBestTags(ctx context.Context) ([]BestTag, error) {
	if raw, err := s.cache.Get(ctx, bestTagsKey); err == nil {
		var cached []BestTag
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached, nil
		}
		s.logger.Warn("dropping unreadable best-tags cache entry")
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("best-tags cache read failed", zap.Error(err))
	}

	tags, err := s.tagRepo.ListBestTags(ctx, bestTagsLimit)
	if err != nil {
		return nil, common.FromRepoError(err, "best tags")
	}
	if tags == nil {
		tags = []BestTag{}
	}

	if payload, err := json.Marshal(tags); err == nil {
		if err := s.cache.SetWithRandomTTL(ctx, bestTagsKey, string(payload), s.cfg.Moderation.BestTagsTTL); err != nil {
			s.logger.Warn("best-tags cache write failed", zap.Error(err))
		}
	}
	return tags, nil
}

func (s *tagService) InvalidateBestTags(ctx context.Context) {
	if err := s.cache.Del(ctx, bestTagsKey); err != nil {
		s.logger.Warn("best-tags cache invalidation failed", zap.Error(err))
	}
}

func (s *tagService) SearchTags(ctx context.Context, keyword string, req pagination.Request) (pagination.Page[dbmysql.Tag], error) {
	page, err := s.tagRepo.ListTags(ctx, pagination.Query{
		Table:  TagsTable,
		List:   pagination.Search{Keyword: keyword},
		Cursor: req.Cursor,
		Order:  req.Order,
	}, req.Take)
	if err != nil {
		return page, common.FromRepoError(err, "tags")
	}
	return page, nil
}

func (s *tagService) CreateTag(ctx context.Context, keyword string) (*dbmysql.Tag, error) {
	keyword = strings.TrimSpace(keyword)
	if err := common.ValidateKeyword(keyword); err != nil {
		return nil, err
	}

	exists, err := s.tagRepo.CheckTagExists(ctx, keyword)
	if err != nil {
		return nil, common.FromRepoError(err, "tag")
	}
	if exists {
		return nil, common.Conflict("tag already exists")
	}

	tag := &dbmysql.Tag{Keyword: keyword}
	if err := s.tagRepo.CreateTag(ctx, tag); err != nil {
		return nil, common.FromRepoError(err, "tag")
	}
	s.logger.Info("tag created", zap.Int64("tag_id", tag.ID), zap.String("keyword", keyword))
	return tag, nil
}

func (s *tagService) DeleteTag(ctx context.Context, actor *common.Principal, tagID int64) error {
	if !actor.IsAdmin() {
		return common.Forbidden("admin role required")
	}
	if _, err := s.tagRepo.GetTagByID(ctx, tagID); err != nil {
		return common.FromRepoError(err, "tag")
	}

	used, err := s.tagRepo.CountCards(ctx, tagID)
	if err != nil {
		return common.FromRepoError(err, "tag")
	}
	if used > 0 {
		return common.Conflict("tag is still used by cards")
	}

	if err := s.tagRepo.DeleteTag(ctx, tagID); err != nil {
		return common.FromRepoError(err, "tag")
	}
	s.InvalidateBestTags(ctx)
	return nil
}

func (s *tagService) ClearOrphanTags(ctx context.Context, actor *common.Principal) (int64, error) {
	if !actor.IsAdmin() {
		return 0, common.Forbidden("admin role required")
	}
	n, err := s.tagRepo.DeleteOrphanTags(ctx)
	if err != nil {
		return 0, common.FromRepoError(err, "tags")
	}
	if n > 0 {
		s.InvalidateBestTags(ctx)
	}
	s.logger.Info("orphan tags cleared", zap.Int64("deleted", n), zap.Int64("actor_id", actor.UserID))
	return n, nil
}
