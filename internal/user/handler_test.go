package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"thanksboard/internal/common"
	"thanksboard/internal/dbmysql"
)

// ---- Fake UserService for handler tests ----

type fakeUserSvc struct {
	UserService
	GetMyInfoFn      func(ctx context.Context, userID int64) (*dbmysql.User, error)
	UpdatePasswordFn func(ctx context.Context, userID int64, current, next string) error
	ToggleRoleFn     func(ctx context.Context, actor *common.Principal, targetID int64) (*dbmysql.User, error)
	DeleteUserFn     func(ctx context.Context, userID int64) error
}

func (f *fakeUserSvc) GetMyInfo(ctx context.Context, userID int64) (*dbmysql.User, error) {
	return f.GetMyInfoFn(ctx, userID)
}
func (f *fakeUserSvc) UpdatePassword(ctx context.Context, userID int64, c, n string) error {
	return f.UpdatePasswordFn(ctx, userID, c, n)
}
func (f *fakeUserSvc) ToggleRole(ctx context.Context, actor *common.Principal, targetID int64) (*dbmysql.User, error) {
	return f.ToggleRoleFn(ctx, actor, targetID)
}
func (f *fakeUserSvc) DeleteUser(ctx context.Context, userID int64) error {
	return f.DeleteUserFn(ctx, userID)
}

func withCaller(r *http.Request, p *common.Principal) *http.Request {
	return r.WithContext(common.WithPrincipal(r.Context(), p))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// ---- Tests ----

func TestHandler_GetMyInfo(t *testing.T) {
	h := NewHandler(&fakeUserSvc{
		GetMyInfoFn: func(_ context.Context, userID int64) (*dbmysql.User, error) {
			return &dbmysql.User{ID: userID, Name: "alice", Account: "alice01", PasswordHash: "secret-hash"}, nil
		},
	}, zap.NewNop())

	req := withCaller(httptest.NewRequest(http.MethodGet, "/user/myinfo", nil), &common.Principal{UserID: 3})
	rec := httptest.NewRecorder()
	h.GetMyInfo(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"account":"alice01"`)
	assert.NotContains(t, rec.Body.String(), "secret-hash")
}

func TestHandler_UpdatePassword(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
	}{
		{name: "ok", body: `{"currentPassword":"Old1!aaaa","newPassword":"New1!aaaa"}`, wantStatus: http.StatusOK},
		{name: "unknown field", body: `{"password":"x"}`, wantStatus: http.StatusBadRequest},
		{name: "wrong current", body: `{"currentPassword":"x","newPassword":"y"}`, svcErr: common.Unauthorized("current password does not match"), wantStatus: http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(&fakeUserSvc{
				UpdatePasswordFn: func(context.Context, int64, string, string) error { return tc.svcErr },
			}, zap.NewNop())

			req := withCaller(httptest.NewRequest(http.MethodPatch, "/user/password", strings.NewReader(tc.body)), &common.Principal{UserID: 3})
			rec := httptest.NewRecorder()
			h.UpdatePassword(rec, req)
			require.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestHandler_ToggleRole(t *testing.T) {
	var gotTarget int64
	h := NewHandler(&fakeUserSvc{
		ToggleRoleFn: func(_ context.Context, actor *common.Principal, targetID int64) (*dbmysql.User, error) {
			gotTarget = targetID
			if !actor.IsAdmin() {
				return nil, common.Forbidden("admin role required")
			}
			return &dbmysql.User{ID: targetID, UserRole: "admin"}, nil
		},
	}, zap.NewNop())

	t.Run("target from path", func(t *testing.T) {
		req := withCaller(httptest.NewRequest(http.MethodPatch, "/user/8/role", nil), &common.Principal{UserID: 1, Role: common.RoleAdmin})
		req = mux.SetURLVars(req, map[string]string{"id": "8"})
		rec := httptest.NewRecorder()
		h.ToggleRole(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(8), gotTarget)
	})

	t.Run("own role", func(t *testing.T) {
		req := withCaller(httptest.NewRequest(http.MethodPatch, "/user/role", nil), &common.Principal{UserID: 1, Role: common.RoleAdmin})
		rec := httptest.NewRecorder()
		h.ToggleOwnRole(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(1), gotTarget)
	})

	t.Run("forbidden for members", func(t *testing.T) {
		req := withCaller(httptest.NewRequest(http.MethodPatch, "/user/8/role", nil), &common.Principal{UserID: 2, Role: common.RoleUser})
		req = mux.SetURLVars(req, map[string]string{"id": "8"})
		rec := httptest.NewRecorder()
		h.ToggleRole(rec, req)

		require.Equal(t, http.StatusForbidden, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, float64(http.StatusForbidden), body["statusCode"])
	})
}

func TestHandler_DeleteUser(t *testing.T) {
	h := NewHandler(&fakeUserSvc{
		DeleteUserFn: func(context.Context, int64) error { return nil },
	}, zap.NewNop())

	req := withCaller(httptest.NewRequest(http.MethodDelete, "/user", nil), &common.Principal{UserID: 3})
	rec := httptest.NewRecorder()
	h.DeleteUser(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
}
