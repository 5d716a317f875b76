package common

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"thanksboard/internal/config"
)

// TokenKind separates short-lived access tokens from refresh tokens.
type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

// Claims represents the data stored in a JWT token
type Claims struct {
	Name           string    `json:"name"`
	Nickname       string    `json:"nickname,omitempty"`
	IsShowNickname bool      `json:"isShowNickname"`
	Role           Role      `json:"userRole"`
	Type           TokenKind `json:"type"`
	jwt.RegisteredClaims
}

// UserID parses the subject back into a user id.
func (c *Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// TokenSubject is what gets signed into a token.
type TokenSubject struct {
	UserID         int64
	Name           string
	Nickname       string
	IsShowNickname bool
	Role           Role
}

type TokenManager struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenManager(cfg *config.Config) *TokenManager {
	return &TokenManager{
		secret:     []byte(cfg.Auth.JWTSecret),
		issuer:     cfg.Auth.Issuer,
		accessTTL:  cfg.Auth.AccessTokenTTL,
		refreshTTL: cfg.Auth.RefreshTokenTTL,
		now:        time.Now,
	}
}

func (m *TokenManager) ttl(kind TokenKind) time.Duration {
	if kind == RefreshToken {
		return m.refreshTTL
	}
	return m.accessTTL
}

func (m *TokenManager) Sign(subject TokenSubject, kind TokenKind) (string, error) {
	now := m.now()
	claims := &Claims{
		Name:           subject.Name,
		Nickname:       subject.Nickname,
		IsShowNickname: subject.IsShowNickname,
		Role:           subject.Role,
		Type:           kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl(kind))),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Subject:   strconv.FormatInt(subject.UserID, 10),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Expired signs a token that is already past its expiry; logout hands these back.
func (m *TokenManager) Expired(kind TokenKind) (string, error) {
	past := m.now().Add(-time.Second)
	claims := &Claims{
		Type: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(past),
			IssuedAt:  jwt.NewNumericDate(past),
			Issuer:    m.issuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify checks signature, expiry and that the token is of the expected kind.
func (m *TokenManager) Verify(tokenString string, kind TokenKind) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithIssuer(m.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, Unauthorized("token expired")
		}
		return nil, Unauthorized("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, Unauthorized("invalid token")
	}
	if claims.Type != kind {
		return nil, Unauthorized("expected " + string(kind) + " token")
	}
	return claims, nil
}
