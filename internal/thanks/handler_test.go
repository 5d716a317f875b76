package thanks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"thanksboard/internal/common"
	"thanksboard/internal/config"
	"thanksboard/internal/dbmysql"
	"thanksboard/internal/pagination"
)

type fakeThanksSvc struct {
	ThanksService
	CreateThanksFn func(ctx context.Context, actor *common.Principal, content string) (*ThanksView, error)
	ListThanksFn   func(ctx context.Context, viewer *common.Principal, listName string, req pagination.Request) (pagination.Page[ThanksView], error)
	GetThanksFn    func(ctx context.Context, viewer *common.Principal, thanksID int64) (*ThanksView, error)
	DeleteFn       func(ctx context.Context, actor *common.Principal, thanksID int64) error
	ResetFn        func(ctx context.Context, actor *common.Principal, thanksID int64) error
	CountFn        func(ctx context.Context, viewer *common.Principal, thanksID int64) (common.ReactionCounts, error)
}

func (f *fakeThanksSvc) CreateThanks(ctx context.Context, actor *common.Principal, content string) (*ThanksView, error) {
	return f.CreateThanksFn(ctx, actor, content)
}
func (f *fakeThanksSvc) ListThanks(ctx context.Context, viewer *common.Principal, listName string, req pagination.Request) (pagination.Page[ThanksView], error) {
	return f.ListThanksFn(ctx, viewer, listName, req)
}
func (f *fakeThanksSvc) GetThanks(ctx context.Context, viewer *common.Principal, thanksID int64) (*ThanksView, error) {
	return f.GetThanksFn(ctx, viewer, thanksID)
}
func (f *fakeThanksSvc) DeleteThanks(ctx context.Context, actor *common.Principal, thanksID int64) error {
	return f.DeleteFn(ctx, actor, thanksID)
}
func (f *fakeThanksSvc) ResetReports(ctx context.Context, actor *common.Principal, thanksID int64) error {
	return f.ResetFn(ctx, actor, thanksID)
}
func (f *fakeThanksSvc) ReactionsCount(ctx context.Context, viewer *common.Principal, thanksID int64) (common.ReactionCounts, error) {
	return f.CountFn(ctx, viewer, thanksID)
}

type fakeReactionSvc struct {
	ReactionService
	CreateFn func(ctx context.Context, actor *common.Principal, thanksID int64, rawType string) (*dbmysql.Reaction, error)
	ChangeFn func(ctx context.Context, actor *common.Principal, reactionID int64, rawType string) (*ReactionChange, error)
	RemoveFn func(ctx context.Context, actor *common.Principal, reactionID int64) error
}

func (f *fakeReactionSvc) CreateReaction(ctx context.Context, actor *common.Principal, thanksID int64, rawType string) (*dbmysql.Reaction, error) {
	return f.CreateFn(ctx, actor, thanksID, rawType)
}
func (f *fakeReactionSvc) ChangeReaction(ctx context.Context, actor *common.Principal, reactionID int64, rawType string) (*ReactionChange, error) {
	return f.ChangeFn(ctx, actor, reactionID, rawType)
}
func (f *fakeReactionSvc) RemoveReaction(ctx context.Context, actor *common.Principal, reactionID int64) error {
	return f.RemoveFn(ctx, actor, reactionID)
}

type stubLoader map[int64]common.Role

func (s stubLoader) LoadPrincipal(_ context.Context, userID int64) (*common.Principal, error) {
	role, ok := s[userID]
	if !ok {
		return nil, common.NotFound("user not found")
	}
	return &common.Principal{UserID: userID, Role: role}, nil
}

type testServer struct {
	router *mux.Router
	tokens *common.TokenManager
}

func newTestServer(thanksSvc ThanksService, reactionSvc ReactionService) *testServer {
	tokens := common.NewTokenManager(&config.Config{Auth: config.AuthConfig{
		JWTSecret:       "test-secret",
		Issuer:          "thanksboard",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}})
	loader := stubLoader{1: common.RoleAdmin, 2: common.RoleUser, 3: common.RoleUser}
	r := mux.NewRouter()
	NewHandler(thanksSvc, reactionSvc, zap.NewNop()).RegisterRoutes(r, common.NewAuthenticator(tokens, loader, zap.NewNop()))
	return &testServer{router: r, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, target, body string, userID int64, kind common.TokenKind) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if userID != 0 {
		token, err := s.tokens.Sign(common.TokenSubject{UserID: userID}, kind)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_ListThanksPassesType(t *testing.T) {
	var gotName string
	var gotViewer *common.Principal
	var gotOrder pagination.Direction
	srv := newTestServer(&fakeThanksSvc{
		ListThanksFn: func(_ context.Context, viewer *common.Principal, listName string, req pagination.Request) (pagination.Page[ThanksView], error) {
			gotName, gotViewer, gotOrder = listName, viewer, req.Order
			return pagination.Page[ThanksView]{List: []ThanksView{}}, nil
		},
	}, &fakeReactionSvc{})

	rec := srv.do(t, http.MethodGet, "/thanks?type=my&order=asc", "", 2, common.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"list":[],"cursor":null}`, rec.Body.String())
	assert.Equal(t, "my", gotName)
	assert.Equal(t, pagination.Asc, gotOrder)
	require.NotNil(t, gotViewer)
	assert.Equal(t, int64(2), gotViewer.UserID)

	rec = srv.do(t, http.MethodGet, "/thanks", "", 0, common.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, gotViewer)
	assert.Equal(t, "", gotName)
	assert.Equal(t, pagination.Desc, gotOrder)
}

func TestHandler_CreateThanks(t *testing.T) {
	srv := newTestServer(&fakeThanksSvc{
		CreateThanksFn: func(_ context.Context, actor *common.Principal, content string) (*ThanksView, error) {
			assert.Equal(t, "for the ride home", content)
			return &ThanksView{ID: 9, Content: content, IsActive: true, ReactionsCount: common.NewReactionCounts()}, nil
		},
	}, &fakeReactionSvc{})

	rec := srv.do(t, http.MethodPost, "/thanks/new", `{"content":"for the ride home"}`, 2, common.AccessToken)
	require.Equal(t, http.StatusCreated, rec.Code)
	var view ThanksView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, int64(9), view.ID)
	assert.Equal(t, 0, view.ReactionsCount[common.ReactionParty])

	rec = srv.do(t, http.MethodPost, "/thanks/new", `{"content":"for the ride home"}`, 0, common.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(t, http.MethodPost, "/thanks/new", `{"content":"for the ride home"}`, 2, common.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_GetThanksNotFound(t *testing.T) {
	srv := newTestServer(&fakeThanksSvc{
		GetThanksFn: func(_ context.Context, _ *common.Principal, thanksID int64) (*ThanksView, error) {
			assert.Equal(t, int64(77), thanksID)
			return nil, common.NotFound("thanks not found")
		},
	}, &fakeReactionSvc{})

	rec := srv.do(t, http.MethodGet, "/thanks/77", "", 0, common.AccessToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_ReactionsCountSeesViewer(t *testing.T) {
	srv := newTestServer(&fakeThanksSvc{
		CountFn: func(_ context.Context, viewer *common.Principal, thanksID int64) (common.ReactionCounts, error) {
			if viewer == nil || viewer.UserID != 2 {
				return nil, common.NotFound("thanks not found")
			}
			return common.NewReactionCounts().Increment(common.ReactionSmile), nil
		},
	}, &fakeReactionSvc{})

	rec := srv.do(t, http.MethodGet, "/thanks/4/reactions/count", "", 0, common.AccessToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodGet, "/thanks/4/reactions/count", "", 2, common.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var counts map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	assert.Equal(t, 1, counts["smile"])
}

func TestHandler_DeleteAndReset(t *testing.T) {
	srv := newTestServer(&fakeThanksSvc{
		DeleteFn: func(context.Context, *common.Principal, int64) error { return nil },
		ResetFn:  func(context.Context, *common.Principal, int64) error { return nil },
	}, &fakeReactionSvc{})

	rec := srv.do(t, http.MethodDelete, "/thanks/4", "", 2, common.AccessToken)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(t, http.MethodPatch, "/thanks/4/report/reset", "", 2, common.AccessToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodPatch, "/thanks/4/report/reset", "", 1, common.AccessToken)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandler_ReactionRoutes(t *testing.T) {
	srv := newTestServer(&fakeThanksSvc{}, &fakeReactionSvc{
		CreateFn: func(_ context.Context, actor *common.Principal, thanksID int64, rawType string) (*dbmysql.Reaction, error) {
			if rawType == "clap" {
				return nil, common.Conflict("already reacted")
			}
			return &dbmysql.Reaction{ID: 31, ThanksID: thanksID, ReactionerID: actor.UserID, Type: common.ReactionType(rawType)}, nil
		},
		ChangeFn: func(_ context.Context, actor *common.Principal, reactionID int64, rawType string) (*ReactionChange, error) {
			return &ReactionChange{Outcome: "removed", Reaction: &dbmysql.Reaction{ID: reactionID, Type: common.ReactionHeart}}, nil
		},
		RemoveFn: func(context.Context, *common.Principal, int64) error { return nil },
	})

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		userID     int64
		wantStatus int
	}{
		{name: "create", method: http.MethodPost, target: "/thanks/reactions/5", body: `{"type":"heart"}`, userID: 3, wantStatus: http.StatusCreated},
		{name: "duplicate", method: http.MethodPost, target: "/thanks/reactions/5", body: `{"type":"clap"}`, userID: 3, wantStatus: http.StatusConflict},
		{name: "anonymous", method: http.MethodPost, target: "/thanks/reactions/5", body: `{"type":"heart"}`, wantStatus: http.StatusUnauthorized},
		{name: "change", method: http.MethodPatch, target: "/thanks/reactions/31", body: `{"type":"heart"}`, userID: 3, wantStatus: http.StatusOK},
		{name: "remove", method: http.MethodDelete, target: "/thanks/reactions/31", userID: 3, wantStatus: http.StatusNoContent},
		{name: "bad body", method: http.MethodPatch, target: "/thanks/reactions/31", body: `{"type":`, userID: 3, wantStatus: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := srv.do(t, tc.method, tc.target, tc.body, tc.userID, common.AccessToken)
			assert.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())
		})
	}
}
