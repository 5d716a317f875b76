package common

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubLoader map[int64]*Principal

func (s stubLoader) LoadPrincipal(_ context.Context, userID int64) (*Principal, error) {
	p, ok := s[userID]
	if !ok {
		return nil, NotFound("user not found")
	}
	cp := *p
	return &cp, nil
}

func newTestAuthenticator() (*Authenticator, *TokenManager) {
	tokens := newTestTokenManager()
	loader := stubLoader{
		1: {UserID: 1, Name: "user", Role: RoleUser},
		2: {UserID: 2, Name: "admin", Role: RoleAdmin},
	}
	return NewAuthenticator(tokens, loader, zap.NewNop()), tokens
}

func echoPrincipal(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFrom(r.Context())
	if p == nil {
		WriteJSON(w, http.StatusOK, map[string]interface{}{"anonymous": true})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"id": p.UserID, "kind": p.TokenKind})
}

func TestAuthenticator_Require(t *testing.T) {
	auth, tokens := newTestAuthenticator()
	access, _ := tokens.Sign(TokenSubject{UserID: 1}, AccessToken)
	refresh, _ := tokens.Sign(TokenSubject{UserID: 1}, RefreshToken)
	ghost, _ := tokens.Sign(TokenSubject{UserID: 99}, AccessToken)

	tests := []struct {
		name       string
		kind       TokenKind
		header     string
		wantStatus int
	}{
		{"access ok", AccessToken, "Bearer " + access, http.StatusOK},
		{"refresh ok", RefreshToken, "Bearer " + refresh, http.StatusOK},
		{"refresh on access route", AccessToken, "Bearer " + refresh, http.StatusUnauthorized},
		{"missing header", AccessToken, "", http.StatusUnauthorized},
		{"wrong scheme", AccessToken, "Basic " + access, http.StatusUnauthorized},
		{"unknown user", AccessToken, "Bearer " + ghost, http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := auth.Require(tc.kind)(http.HandlerFunc(echoPrincipal))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantStatus == http.StatusOK {
				var body map[string]interface{}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, float64(1), body["id"])
				assert.Equal(t, string(tc.kind), body["kind"])
			}
		})
	}
}

func TestAuthenticator_RequireAdmin(t *testing.T) {
	auth, tokens := newTestAuthenticator()
	userToken, _ := tokens.Sign(TokenSubject{UserID: 1}, AccessToken)
	adminToken, _ := tokens.Sign(TokenSubject{UserID: 2}, AccessToken)

	h := auth.Require(AccessToken)(auth.RequireAdmin(http.HandlerFunc(echoPrincipal)))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticator_Optional(t *testing.T) {
	auth, tokens := newTestAuthenticator()
	access, _ := tokens.Sign(TokenSubject{UserID: 1}, AccessToken)
	h := auth.Optional(http.HandlerFunc(echoPrincipal))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), "anonymous")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), "anonymous")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), `"id":1`)
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "abc", seen)
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantMsg    string
	}{
		{NotFound("card not found"), http.StatusNotFound, "card not found"},
		{Conflict("already reported"), http.StatusConflict, "already reported"},
		{Forbidden("not yours"), http.StatusForbidden, "not yours"},
		{Internal("db", assert.AnError), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range tests {
		rec := httptest.NewRecorder()
		WriteError(rec, zap.NewNop(), tc.err)

		assert.Equal(t, tc.wantStatus, rec.Code)
		var body errorBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, tc.wantStatus, body.StatusCode)
		assert.Equal(t, tc.wantMsg, body.Message)
	}
}
