package common

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type principalKey struct{}
type requestIDKey struct{}

// PrincipalLoader resolves a token subject into a live user, so role changes apply immediately.
type PrincipalLoader interface {
	LoadPrincipal(ctx context.Context, userID int64) (*Principal, error)
}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the authenticated caller, or nil on public routes.
func PrincipalFrom(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Authenticator is the single bearer-token check; routes choose the token kind they accept.
type Authenticator struct {
	tokens *TokenManager
	loader PrincipalLoader
	logger *zap.Logger
}

func NewAuthenticator(tokens *TokenManager, loader PrincipalLoader, logger *zap.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, loader: loader, logger: logger.Named("auth")}
}

func (a *Authenticator) authenticate(r *http.Request, kind TokenKind) (*Principal, error) {
	raw, err := AuthorizationValue(r, "Bearer")
	if err != nil {
		return nil, err
	}
	claims, err := a.tokens.Verify(raw, kind)
	if err != nil {
		return nil, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, Unauthorized("invalid token subject")
	}

	p, err := a.loader.LoadPrincipal(r.Context(), userID)
	if err != nil {
		if IsKind(err, KindNotFound) {
			return nil, Unauthorized("user no longer exists")
		}
		return nil, err
	}
	p.TokenKind = kind
	return p, nil
}

// Require rejects requests that do not carry a valid token of the given kind.
func (a *Authenticator) Require(kind TokenKind) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := a.authenticate(r, kind)
			if err != nil {
				WriteError(w, a.logger, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// Optional attaches a principal when a valid access token is present and carries on otherwise.
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			if p, err := a.authenticate(r, AccessToken); err == nil {
				r = r.WithContext(WithPrincipal(r.Context(), p))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin must run after Require.
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !PrincipalFrom(r.Context()).IsAdmin() {
			WriteError(w, a.logger, Forbidden("admin role required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestID tags each request with X-Request-ID, generating one when absent.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// RequestLogger logs one line per request with structured fields.
func RequestLogger(logger *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			fields := []zap.Field{
				zap.Int("status", rec.status),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.String("request_id", RequestIDFrom(r.Context())),
				zap.Duration("latency", time.Since(start)),
			}
			if rec.status >= 500 {
				logger.Error("request failed", fields...)
			} else {
				logger.Info("request served", fields...)
			}
		})
	}
}
