package card

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"thanksboard/internal/common"
	"thanksboard/internal/config"
	"thanksboard/internal/dbmysql"
	"thanksboard/internal/events"
	"thanksboard/internal/pagination"
)

// CardView is a card as the caller may see it. Writer is nil on anonymous
// cards unless the caller wrote them.
type CardView struct {
	ID          int64                `json:"id"`
	Title       string               `json:"title"`
	Content     string               `json:"content"`
	IsAnonymity bool                 `json:"isAnonymity"`
	IsAnswered  bool                 `json:"isAnswered"`
	IsActive    bool                 `json:"isActive"`
	CreatedAt   time.Time            `json:"createdAt"`
	Writer      *dbmysql.UserSummary `json:"writer"`
	Keywords    []string             `json:"keywords"`
	PickCount   int                  `json:"pickCount"`
	IsPicked    bool                 `json:"isPicked"`
}

type CreateCardInput struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	IsAnonymity bool     `json:"isAnonymity"`
	Keywords    []string `json:"keywords"`
}

type PickResult struct {
	IsPicked  bool  `json:"isPicked"`
	PickCount int64 `json:"pickCount"`
}

type ReportResult struct {
	Reporters int64 `json:"reporters"`
	IsActive  bool  `json:"isActive"`
}

// BestTagsInvalidator drops the cached best-tags list after tags change.
type BestTagsInvalidator interface {
	InvalidateBestTags(ctx context.Context)
}

type CardService interface {
	CreateCard(ctx context.Context, actor *common.Principal, in CreateCardInput) (*CardView, error)
	ListCards(ctx context.Context, viewer *common.Principal, req pagination.Request) (pagination.Page[CardView], error)
	ListMyCards(ctx context.Context, actor *common.Principal, answered *bool, req pagination.Request) (pagination.Page[CardView], error)
	ListInactiveCards(ctx context.Context, actor *common.Principal, req pagination.Request) (pagination.Page[CardView], error)
	SearchCards(ctx context.Context, viewer *common.Principal, keyword string, req pagination.Request) (pagination.Page[CardView], error)
	// ListCardsByTags takes keywords joined by '_' and lists cards carrying all of them.
	ListCardsByTags(ctx context.Context, viewer *common.Principal, keywords string, req pagination.Request) (pagination.Page[CardView], error)
	RandomCard(ctx context.Context, viewer *common.Principal) (*CardView, error)

	SetAnswered(ctx context.Context, actor *common.Principal, cardID int64, answered bool) error
	TogglePick(ctx context.Context, actor *common.Principal, cardID int64) (*PickResult, error)
	Report(ctx context.Context, actor *common.Principal, cardID int64) (*ReportResult, error)
	ResetReports(ctx context.Context, actor *common.Principal, cardID int64) error
	ToggleActive(ctx context.Context, actor *common.Principal, cardID int64) (bool, error)
	DeleteCard(ctx context.Context, actor *common.Principal, cardID int64) error
}

type cardService struct {
	cardRepo CardRepository
	tags     BestTagsInvalidator
	events   common.EventPublisher
	cfg      *config.Config
	logger   *zap.Logger

	now  func() time.Time
	intn func(n int) int
}

func NewCardService(cardRepo CardRepository, tags BestTagsInvalidator, publisher common.EventPublisher, cfg *config.Config, logger *zap.Logger) CardService {
	return &cardService{
		cardRepo: cardRepo,
		tags:     tags,
		events:   publisher,
		cfg:      cfg,
		logger:   logger.Named("card"),
		now:      time.Now,
		intn:     rand.Intn,
	}
}

// normalizeKeywords trims, validates and dedupes, keeping first-seen order.
func normalizeKeywords(raw []string) ([]string, error) {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, kw := range raw {
		kw = strings.TrimSpace(kw)
		if err := common.ValidateKeyword(kw); err != nil {
			return nil, err
		}
		if seen[kw] {
			continue
		}
		seen[kw] = true
		out = append(out, kw)
	}
	if len(out) == 0 {
		return nil, common.BadRequest("at least one keyword is required")
	}
	return out, nil
}

func (s *cardService) CreateCard(ctx context.Context, actor *common.Principal, in CreateCardInput) (*CardView, error) {
	title := strings.TrimSpace(in.Title)
	if err := common.ValidateLength("title", title, 2, 15); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(in.Content)
	if err := common.ValidateLength("content", content, 2, 300); err != nil {
		return nil, err
	}
	keywords, err := normalizeKeywords(in.Keywords)
	if err != nil {
		return nil, err
	}

	card := &dbmysql.Card{
		Title:       title,
		Content:     content,
		IsAnonymity: in.IsAnonymity,
		IsActive:    true,
		WriterID:    actor.UserID,
	}
	err = s.cardRepo.Transaction(ctx, func(repo CardRepository) error {
		if err := repo.CreateCard(ctx, card); err != nil {
			return err
		}
		tags, err := repo.FindOrCreateTags(ctx, keywords)
		if err != nil {
			return err
		}
		ids := make([]int64, len(tags))
		for i, t := range tags {
			ids[i] = t.ID
		}
		return repo.AttachTags(ctx, card.ID, ids)
	})
	if err != nil {
		return nil, common.FromRepoError(err, "card")
	}

	s.tags.InvalidateBestTags(ctx)
	s.logger.Info("card created", zap.Int64("card_id", card.ID), zap.Int64("writer_id", actor.UserID))

	views, err := s.hydrate(ctx, actor, []dbmysql.Card{*card})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *cardService) list(ctx context.Context, viewer *common.Principal, lt pagination.ListType, req pagination.Request) (pagination.Page[CardView], error) {
	page, err := s.cardRepo.ListCards(ctx, pagination.Query{
		Table:  CardsTable,
		List:   lt,
		Cursor: req.Cursor,
		Order:  req.Order,
	}, req.Take)
	if err != nil {
		return pagination.Page[CardView]{}, common.FromRepoError(err, "cards")
	}
	views, err := s.hydrate(ctx, viewer, page.List)
	if err != nil {
		return pagination.Page[CardView]{}, err
	}
	return pagination.Page[CardView]{List: views, Cursor: page.Cursor}, nil
}

func (s *cardService) ListCards(ctx context.Context, viewer *common.Principal, req pagination.Request) (pagination.Page[CardView], error) {
	return s.list(ctx, viewer, pagination.All{}, req)
}

func (s *cardService) ListMyCards(ctx context.Context, actor *common.Principal, answered *bool, req pagination.Request) (pagination.Page[CardView], error) {
	return s.list(ctx, actor, pagination.Mine{OwnerID: actor.UserID, Answered: answered}, req)
}

func (s *cardService) ListInactiveCards(ctx context.Context, actor *common.Principal, req pagination.Request) (pagination.Page[CardView], error) {
	if !actor.IsAdmin() {
		return pagination.Page[CardView]{}, common.Forbidden("admin role required")
	}
	return s.list(ctx, actor, pagination.Inactive{}, req)
}

func (s *cardService) SearchCards(ctx context.Context, viewer *common.Principal, keyword string, req pagination.Request) (pagination.Page[CardView], error) {
	return s.list(ctx, viewer, pagination.Search{Keyword: keyword}, req)
}

func (s *cardService) ListCardsByTags(ctx context.Context, viewer *common.Principal, keywords string, req pagination.Request) (pagination.Page[CardView], error) {
	parts, err := normalizeKeywords(strings.Split(keywords, "_"))
	if err != nil {
		return pagination.Page[CardView]{}, err
	}

	// One extra id so the page after the last match is detectable.
	ids, err := s.cardRepo.MatchTagSet(ctx, parts, req.Cursor, req.Order, req.Take+1)
	if err != nil {
		return pagination.Page[CardView]{}, common.FromRepoError(err, "cards")
	}
	if len(ids) == 0 {
		return pagination.NoMatches[CardView](), nil
	}
	return s.list(ctx, viewer, pagination.ByTagSet{IDs: ids}, req)
}

func (s *cardService) RandomCard(ctx context.Context, viewer *common.Principal) (*CardView, error) {
	n, err := s.cardRepo.CountActiveUnanswered(ctx)
	if err != nil {
		return nil, common.FromRepoError(err, "card")
	}
	if n == 0 {
		return nil, common.NotFound("no open cards")
	}
	card, err := s.cardRepo.GetActiveUnansweredAt(ctx, s.intn(int(n)))
	if err != nil {
		return nil, common.FromRepoError(err, "card")
	}
	views, err := s.hydrate(ctx, viewer, []dbmysql.Card{*card})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *cardService) SetAnswered(ctx context.Context, actor *common.Principal, cardID int64, answered bool) error {
	card, err := s.cardRepo.GetCardByID(ctx, cardID)
	if err != nil {
		return common.FromRepoError(err, "card")
	}
	if card.WriterID != actor.UserID {
		return common.Forbidden("only the writer can change the answered state")
	}
	return common.FromRepoError(s.cardRepo.SetCardAnswered(ctx, cardID, answered), "card")
}

// TogglePick removes the caller's pick when present, otherwise adds it.
func (s *cardService) TogglePick(ctx context.Context, actor *common.Principal, cardID int64) (*PickResult, error) {
	result := &PickResult{}
	err := s.cardRepo.Transaction(ctx, func(repo CardRepository) error {
		if _, err := repo.GetCardByID(ctx, cardID); err != nil {
			return err
		}
		picked, err := repo.HasPicked(ctx, cardID, actor.UserID)
		if err != nil {
			return err
		}
		if picked {
			err = repo.RemovePicker(ctx, cardID, actor.UserID)
		} else {
			err = repo.AddPicker(ctx, cardID, actor.UserID)
		}
		if err != nil {
			return err
		}
		result.IsPicked = !picked
		result.PickCount, err = repo.CountPickers(ctx, cardID)
		return err
	})
	if err != nil {
		return nil, common.FromRepoError(err, "card")
	}
	return result, nil
}

// Report adds the caller to the card's reporters. The report that reaches the
// threshold deactivates the card in the same transaction.
func (s *cardService) Report(ctx context.Context, actor *common.Principal, cardID int64) (*ReportResult, error) {
	result := &ReportResult{}
	var deactivated bool
	err := s.cardRepo.Transaction(ctx, func(repo CardRepository) error {
		card, err := repo.LockCard(ctx, cardID)
		if err != nil {
			return err
		}
		reported, err := repo.HasReported(ctx, cardID, actor.UserID)
		if err != nil {
			return err
		}
		if reported {
			return common.Conflict("card already reported")
		}
		if err := repo.AddReporter(ctx, cardID, actor.UserID); err != nil {
			return err
		}
		n, err := repo.CountReporters(ctx, cardID)
		if err != nil {
			return err
		}
		result.Reporters = n
		result.IsActive = card.IsActive
		if card.IsActive && n >= int64(s.cfg.Moderation.ReportThreshold) {
			if err := repo.SetCardActive(ctx, cardID, false); err != nil {
				return err
			}
			result.IsActive = false
			deactivated = true
		}
		return nil
	})
	if err != nil {
		return nil, common.FromRepoError(err, "card")
	}

	if deactivated {
		s.logger.Info("card deactivated by reports", zap.Int64("card_id", cardID), zap.Int64("reporters", result.Reporters))
		events.Emit(ctx, s.events, s.logger, events.CardDeactivated, events.ModerationEvent{
			ItemID:    cardID,
			ActorID:   actor.UserID,
			Reporters: result.Reporters,
			At:        s.now(),
		})
	}
	return result, nil
}

func (s *cardService) ResetReports(ctx context.Context, actor *common.Principal, cardID int64) error {
	if !actor.IsAdmin() {
		return common.Forbidden("admin role required")
	}
	var cleared int64
	err := s.cardRepo.Transaction(ctx, func(repo CardRepository) error {
		if _, err := repo.LockCard(ctx, cardID); err != nil {
			return err
		}
		var err error
		if cleared, err = repo.ClearReporters(ctx, cardID); err != nil {
			return err
		}
		return repo.SetCardActive(ctx, cardID, true)
	})
	if err != nil {
		return common.FromRepoError(err, "card")
	}

	s.logger.Info("card reports reset", zap.Int64("card_id", cardID), zap.Int64("cleared", cleared), zap.Int64("admin_id", actor.UserID))
	events.Emit(ctx, s.events, s.logger, events.CardReportsReset, events.ModerationEvent{
		ItemID:    cardID,
		ActorID:   actor.UserID,
		Reporters: cleared,
		At:        s.now(),
	})
	return nil
}

func (s *cardService) ToggleActive(ctx context.Context, actor *common.Principal, cardID int64) (bool, error) {
	if !actor.IsAdmin() {
		return false, common.Forbidden("admin role required")
	}
	card, err := s.cardRepo.GetCardByID(ctx, cardID)
	if err != nil {
		return false, common.FromRepoError(err, "card")
	}
	if err := s.cardRepo.SetCardActive(ctx, cardID, !card.IsActive); err != nil {
		return false, common.FromRepoError(err, "card")
	}
	return !card.IsActive, nil
}

// DeleteCard removes the card and its join rows, then any of its tags no other card uses.
func (s *cardService) DeleteCard(ctx context.Context, actor *common.Principal, cardID int64) error {
	card, err := s.cardRepo.GetCardByID(ctx, cardID)
	if err != nil {
		return common.FromRepoError(err, "card")
	}
	if card.WriterID != actor.UserID && !actor.IsAdmin() {
		return common.Forbidden("only the writer or an admin can delete this card")
	}

	var orphans int64
	err = s.cardRepo.Transaction(ctx, func(repo CardRepository) error {
		tagIDs, err := repo.CardTagIDs(ctx, cardID)
		if err != nil {
			return err
		}
		if err := repo.DeleteCardRelations(ctx, cardID); err != nil {
			return err
		}
		if err := repo.DeleteCard(ctx, cardID); err != nil {
			return err
		}
		orphans, err = repo.DeleteOrphanTagsAmong(ctx, tagIDs)
		return err
	})
	if err != nil {
		return common.FromRepoError(err, "card")
	}

	s.tags.InvalidateBestTags(ctx)
	s.logger.Info("card deleted",
		zap.Int64("card_id", cardID),
		zap.Int64("actor_id", actor.UserID),
		zap.Int64("orphan_tags", orphans))
	return nil
}

// hydrate loads keywords, pickers and writers for a page of cards with one query each.
func (s *cardService) hydrate(ctx context.Context, viewer *common.Principal, cards []dbmysql.Card) ([]CardView, error) {
	views := make([]CardView, len(cards))
	if len(cards) == 0 {
		return views, nil
	}

	cardIDs := make([]int64, len(cards))
	writerIDs := make([]int64, 0, len(cards))
	for i, c := range cards {
		cardIDs[i] = c.ID
		writerIDs = append(writerIDs, c.WriterID)
	}

	keywords, err := s.cardRepo.ListCardKeywords(ctx, cardIDs)
	if err != nil {
		return nil, common.FromRepoError(err, "card tags")
	}
	pickers, err := s.cardRepo.ListPickers(ctx, cardIDs)
	if err != nil {
		return nil, common.FromRepoError(err, "card pickers")
	}
	writers, err := s.cardRepo.ListWriters(ctx, writerIDs)
	if err != nil {
		return nil, common.FromRepoError(err, "card writers")
	}

	byCard := make(map[int64][]string, len(cards))
	for _, k := range keywords {
		byCard[k.CardID] = append(byCard[k.CardID], k.Keyword)
	}
	pickCount := make(map[int64]int, len(cards))
	picked := make(map[int64]bool)
	for _, p := range pickers {
		pickCount[p.CardID]++
		if viewer != nil && p.UserID == viewer.UserID {
			picked[p.CardID] = true
		}
	}
	summaries := make(map[int64]dbmysql.UserSummary, len(writers))
	for i := range writers {
		summaries[writers[i].ID] = writers[i].Summary()
	}

	for i, c := range cards {
		v := CardView{
			ID:          c.ID,
			Title:       c.Title,
			Content:     c.Content,
			IsAnonymity: c.IsAnonymity,
			IsAnswered:  c.IsAnswered,
			IsActive:    c.IsActive,
			CreatedAt:   c.CreatedAt,
			Keywords:    byCard[c.ID],
			PickCount:   pickCount[c.ID],
			IsPicked:    picked[c.ID],
		}
		if v.Keywords == nil {
			v.Keywords = []string{}
		}
		isOwner := viewer != nil && viewer.UserID == c.WriterID
		if w, ok := summaries[c.WriterID]; ok && (!c.IsAnonymity || isOwner) {
			v.Writer = &w
		}
		views[i] = v
	}
	return views, nil
}
