package thanks

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"thanksboard/internal/common"
	"thanksboard/internal/config"
	"thanksboard/internal/dbmysql"
	"thanksboard/internal/events"
	"thanksboard/internal/pagination"
)

// MyReaction is the caller's own reaction on a note.
type MyReaction struct {
	ID   int64               `json:"id"`
	Type common.ReactionType `json:"type"`
}

type ThanksView struct {
	ID             int64                 `json:"id"`
	Content        string                `json:"content"`
	IsActive       bool                  `json:"isActive"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
	Writer         *dbmysql.UserSummary  `json:"writer"`
	ReactionsCount common.ReactionCounts `json:"reactionsCount"`
	MyReaction     *MyReaction           `json:"myReaction"`
}

type ReportResult struct {
	Reporters int64 `json:"reporters"`
	IsActive  bool  `json:"isActive"`
}

// List names accepted by ListThanks.
const (
	ListAll      = "all"
	ListMine     = "my"
	ListInactive = "inactive"
)

type ThanksService interface {
	CreateThanks(ctx context.Context, actor *common.Principal, content string) (*ThanksView, error)
	ListThanks(ctx context.Context, viewer *common.Principal, listName string, req pagination.Request) (pagination.Page[ThanksView], error)
	GetThanks(ctx context.Context, viewer *common.Principal, thanksID int64) (*ThanksView, error)
	ReactionsCount(ctx context.Context, viewer *common.Principal, thanksID int64) (common.ReactionCounts, error)
	UpdateThanks(ctx context.Context, actor *common.Principal, thanksID int64, content string) (*ThanksView, error)
	ToggleActive(ctx context.Context, actor *common.Principal, thanksID int64) (bool, error)
	Report(ctx context.Context, actor *common.Principal, thanksID int64) (*ReportResult, error)
	ResetReports(ctx context.Context, actor *common.Principal, thanksID int64) error
	DeleteThanks(ctx context.Context, actor *common.Principal, thanksID int64) error
}

type thanksService struct {
	thanksRepo ThanksRepository
	events     common.EventPublisher
	cfg        *config.Config
	logger     *zap.Logger
	now        func() time.Time
}

func NewThanksService(thanksRepo ThanksRepository, publisher common.EventPublisher, cfg *config.Config, logger *zap.Logger) ThanksService {
	return &thanksService{
		thanksRepo: thanksRepo,
		events:     publisher,
		cfg:        cfg,
		logger:     logger.Named("thanks"),
		now:        time.Now,
	}
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if err := common.ValidateLength("content", content, 2, 100); err != nil {
		return "", err
	}
	return content, nil
}

func (s *thanksService) CreateThanks(ctx context.Context, actor *common.Principal, content string) (*ThanksView, error) {
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}
	thanks := &dbmysql.Thanks{
		Content:        content,
		WriterID:       actor.UserID,
		IsActive:       true,
		ReactionsCount: common.NewReactionCounts(),
	}
	if err := s.thanksRepo.CreateThanks(ctx, thanks); err != nil {
		return nil, common.FromRepoError(err, "thanks")
	}
	s.logger.Info("thanks created", zap.Int64("thanks_id", thanks.ID), zap.Int64("writer_id", actor.UserID))
	return s.view(ctx, actor, thanks)
}

// listType resolves a list name for the viewer. Unknown names are rejected.
func listType(viewer *common.Principal, listName string) (pagination.ListType, error) {
	switch strings.ToLower(listName) {
	case "", ListAll:
		return pagination.All{}, nil
	case ListMine:
		if viewer == nil {
			return nil, common.Unauthorized("sign in to list your thanks")
		}
		return pagination.Mine{OwnerID: viewer.UserID}, nil
	case ListInactive:
		if viewer == nil {
			return nil, common.Unauthorized("sign in to list inactive thanks")
		}
		if !viewer.IsAdmin() {
			return nil, common.Forbidden("admin role required")
		}
		return pagination.Inactive{}, nil
	default:
		return nil, common.BadRequest("type must be all, my or inactive")
	}
}

func (s *thanksService) ListThanks(ctx context.Context, viewer *common.Principal, listName string, req pagination.Request) (pagination.Page[ThanksView], error) {
	lt, err := listType(viewer, listName)
	if err != nil {
		return pagination.Page[ThanksView]{}, err
	}
	page, err := s.thanksRepo.ListThanks(ctx, pagination.Query{
		Table:  ThanksTable,
		List:   lt,
		Cursor: req.Cursor,
		Order:  req.Order,
	}, req.Take)
	if err != nil {
		return pagination.Page[ThanksView]{}, common.FromRepoError(err, "thanks")
	}
	views, err := s.hydrate(ctx, viewer, page.List)
	if err != nil {
		return pagination.Page[ThanksView]{}, err
	}
	return pagination.Page[ThanksView]{List: views, Cursor: page.Cursor}, nil
}

// GetThanks hides inactive notes from everyone but their writer and admins.
func (s *thanksService) GetThanks(ctx context.Context, viewer *common.Principal, thanksID int64) (*ThanksView, error) {
	thanks, err := s.thanksRepo.GetThanksByID(ctx, thanksID)
	if err != nil {
		return nil, common.FromRepoError(err, "thanks")
	}
	if !thanks.IsActive && !canModify(viewer, thanks) {
		return nil, common.NotFound("thanks not found")
	}
	return s.view(ctx, viewer, thanks)
}

func canModify(p *common.Principal, thanks *dbmysql.Thanks) bool {
	return p != nil && (p.UserID == thanks.WriterID || p.IsAdmin())
}

func (s *thanksService) ReactionsCount(ctx context.Context, viewer *common.Principal, thanksID int64) (common.ReactionCounts, error) {
	thanks, err := s.thanksRepo.GetThanksByID(ctx, thanksID)
	if err != nil {
		return nil, common.FromRepoError(err, "thanks")
	}
	if !thanks.IsActive && !canModify(viewer, thanks) {
		return nil, common.NotFound("thanks not found")
	}
	return thanks.ReactionsCount.Clone(), nil
}

func (s *thanksService) UpdateThanks(ctx context.Context, actor *common.Principal, thanksID int64, content string) (*ThanksView, error) {
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}
	thanks, err := s.thanksRepo.GetThanksByID(ctx, thanksID)
	if err != nil {
		return nil, common.FromRepoError(err, "thanks")
	}
	if thanks.WriterID != actor.UserID {
		return nil, common.Forbidden("only the writer can edit this thanks")
	}
	if thanks.Content != content {
		if err := s.thanksRepo.UpdateContent(ctx, thanksID, content); err != nil {
			return nil, common.FromRepoError(err, "thanks")
		}
		thanks.Content = content
		thanks.UpdatedAt = s.now()
	}
	return s.view(ctx, actor, thanks)
}

func (s *thanksService) ToggleActive(ctx context.Context, actor *common.Principal, thanksID int64) (bool, error) {
	if !actor.IsAdmin() {
		return false, common.Forbidden("admin role required")
	}
	thanks, err := s.thanksRepo.GetThanksByID(ctx, thanksID)
	if err != nil {
		return false, common.FromRepoError(err, "thanks")
	}
	if err := s.thanksRepo.SetThanksActive(ctx, thanksID, !thanks.IsActive); err != nil {
		return false, common.FromRepoError(err, "thanks")
	}
	s.logger.Info("thanks activity toggled", zap.Int64("thanks_id", thanksID), zap.Bool("active", !thanks.IsActive))
	return !thanks.IsActive, nil
}

// Report works like card reports: one per user, and the report reaching the
// threshold deactivates the note inside the same transaction.
func (s *thanksService) Report(ctx context.Context, actor *common.Principal, thanksID int64) (*ReportResult, error) {
	result := &ReportResult{}
	var deactivated bool
	err := s.thanksRepo.Transaction(ctx, func(repo ThanksRepository) error {
		thanks, err := repo.LockThanks(ctx, thanksID)
		if err != nil {
			return err
		}
		reported, err := repo.HasReported(ctx, thanksID, actor.UserID)
		if err != nil {
			return err
		}
		if reported {
			return common.Conflict("thanks already reported")
		}
		if err := repo.AddReporter(ctx, thanksID, actor.UserID); err != nil {
			return err
		}
		if result.Reporters, err = repo.CountReporters(ctx, thanksID); err != nil {
			return err
		}
		result.IsActive = thanks.IsActive
		if thanks.IsActive && result.Reporters >= int64(s.cfg.Moderation.ReportThreshold) {
			if err := repo.SetThanksActive(ctx, thanksID, false); err != nil {
				return err
			}
			result.IsActive = false
			deactivated = true
		}
		return nil
	})
	if err != nil {
		return nil, common.FromRepoError(err, "thanks")
	}

	if deactivated {
		s.logger.Info("thanks deactivated by reports", zap.Int64("thanks_id", thanksID), zap.Int64("reporters", result.Reporters))
		events.Emit(ctx, s.events, s.logger, events.ThanksDeactivated, events.ModerationEvent{
			ItemID:    thanksID,
			ActorID:   actor.UserID,
			Reporters: result.Reporters,
			At:        s.now(),
		})
	}
	return result, nil
}

func (s *thanksService) ResetReports(ctx context.Context, actor *common.Principal, thanksID int64) error {
	if !actor.IsAdmin() {
		return common.Forbidden("admin role required")
	}
	var cleared int64
	err := s.thanksRepo.Transaction(ctx, func(repo ThanksRepository) error {
		if _, err := repo.LockThanks(ctx, thanksID); err != nil {
			return err
		}
		var err error
		if cleared, err = repo.ClearReporters(ctx, thanksID); err != nil {
			return err
		}
		return repo.SetThanksActive(ctx, thanksID, true)
	})
	if err != nil {
		return common.FromRepoError(err, "thanks")
	}

	events.Emit(ctx, s.events, s.logger, events.ThanksReportsReset, events.ModerationEvent{
		ItemID:    thanksID,
		ActorID:   actor.UserID,
		Reporters: cleared,
		At:        s.now(),
	})
	return nil
}

func (s *thanksService) DeleteThanks(ctx context.Context, actor *common.Principal, thanksID int64) error {
	thanks, err := s.thanksRepo.GetThanksByID(ctx, thanksID)
	if err != nil {
		return common.FromRepoError(err, "thanks")
	}
	if !canModify(actor, thanks) {
		return common.Forbidden("only the writer or an admin can delete this thanks")
	}

	err = s.thanksRepo.Transaction(ctx, func(repo ThanksRepository) error {
		if _, err := repo.LockThanks(ctx, thanksID); err != nil {
			return err
		}
		if err := repo.DeleteThanksRelations(ctx, thanksID); err != nil {
			return err
		}
		return repo.DeleteThanks(ctx, thanksID)
	})
	if err != nil {
		return common.FromRepoError(err, "thanks")
	}
	s.logger.Info("thanks deleted", zap.Int64("thanks_id", thanksID), zap.Int64("actor_id", actor.UserID))
	return nil
}

func (s *thanksService) view(ctx context.Context, viewer *common.Principal, thanks *dbmysql.Thanks) (*ThanksView, error) {
	views, err := s.hydrate(ctx, viewer, []dbmysql.Thanks{*thanks})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *thanksService) hydrate(ctx context.Context, viewer *common.Principal, notes []dbmysql.Thanks) ([]ThanksView, error) {
	views := make([]ThanksView, len(notes))
	if len(notes) == 0 {
		return views, nil
	}

	ids := make([]int64, len(notes))
	writerIDs := make([]int64, len(notes))
	for i, t := range notes {
		ids[i] = t.ID
		writerIDs[i] = t.WriterID
	}

	writers, err := s.thanksRepo.ListWriters(ctx, writerIDs)
	if err != nil {
		return nil, common.FromRepoError(err, "thanks writers")
	}
	summaries := make(map[int64]dbmysql.UserSummary, len(writers))
	for i := range writers {
		summaries[writers[i].ID] = writers[i].Summary()
	}

	mine := map[int64]*MyReaction{}
	if viewer != nil {
		reactions, err := s.thanksRepo.ListViewerReactions(ctx, viewer.UserID, ids)
		if err != nil {
			return nil, common.FromRepoError(err, "reactions")
		}
		for _, r := range reactions {
			mine[r.ThanksID] = &MyReaction{ID: r.ID, Type: r.Type}
		}
	}

	for i, t := range notes {
		counts := t.ReactionsCount
		if counts == nil {
			counts = common.NewReactionCounts()
		}
		views[i] = ThanksView{
			ID:             t.ID,
			Content:        t.Content,
			IsActive:       t.IsActive,
			CreatedAt:      t.CreatedAt,
			UpdatedAt:      t.UpdatedAt,
			ReactionsCount: counts,
			MyReaction:     mine[t.ID],
		}
		if w, ok := summaries[t.WriterID]; ok {
			views[i].Writer = &w
		}
	}
	return views, nil
}
