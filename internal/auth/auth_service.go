package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"thanksboard/internal/cache"
	"thanksboard/internal/common"
	"thanksboard/internal/config"
	"thanksboard/internal/dbmysql"
	"thanksboard/internal/user"
)

// TokenPair is what sign-in and logout hand back.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Credentials is the decoded payload of a Basic authorization header.
type Credentials struct {
	Account  string
	Password string
}

type SignUpInput struct {
	Name     string `json:"name"`
	Account  string `json:"account"`
	Password string `json:"password"`
}

type PasswordResetRequest struct {
	Account string `json:"account"`
	Email   string `json:"email"`
}

type PasswordResetVerify struct {
	Account     string `json:"account"`
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

type AuthService interface {
	SignUp(ctx context.Context, in SignUpInput) (*dbmysql.User, error)
	SignIn(ctx context.Context, creds Credentials) (*TokenPair, error)
	Reissue(ctx context.Context, userID int64, kind common.TokenKind) (string, error)
	Logout() (*TokenPair, error)
	IsAdmin(ctx context.Context, userID int64) (bool, error)
	RequestPasswordReset(ctx context.Context, in PasswordResetRequest) error
	VerifyPasswordReset(ctx context.Context, in PasswordResetVerify) error
}

type authService struct {
	userRepo user.UserRepository
	tokens   *common.TokenManager
	cache    cache.Store
	mailer   common.EmailService
	cfg      *config.Config
	logger   *zap.Logger
	now      func() time.Time
}

func NewAuthService(userRepo user.UserRepository, tokens *common.TokenManager, store cache.Store, mailer common.EmailService, cfg *config.Config, logger *zap.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		cache:    store,
		mailer:   mailer,
		cfg:      cfg,
		logger:   logger.Named("auth"),
		now:      time.Now,
	}
}

// DecodeBasic splits base64("account:password").
func DecodeBasic(token string) (Credentials, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return Credentials{}, common.BadRequest("malformed basic token")
	}
	account, password, ok := strings.Cut(string(raw), ":")
	if !ok || account == "" || strings.Contains(password, ":") {
		return Credentials{}, common.BadRequest("malformed basic token")
	}
	return Credentials{Account: account, Password: password}, nil
}

func subjectOf(u *dbmysql.User) common.TokenSubject {
	s := common.TokenSubject{
		UserID:         u.ID,
		Name:           u.Name,
		IsShowNickname: u.IsShowNickname,
		Role:           common.Role(u.UserRole),
	}
	if u.Nickname != nil {
		s.Nickname = *u.Nickname
	}
	return s
}

func (s *authService) SignUp(ctx context.Context, in SignUpInput) (*dbmysql.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := common.ValidateName(in.Name); err != nil {
		return nil, err
	}
	if err := common.ValidateAccount(in.Account); err != nil {
		return nil, err
	}
	if err := common.ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.CheckAccountExists(ctx, in.Account)
	if err != nil {
		return nil, common.FromRepoError(err, "user")
	}
	if exists {
		return nil, common.Conflict("account already exists")
	}

	hashed, err := common.HashPassword(in.Password)
	if err != nil {
		return nil, common.Internal("hash password", err)
	}

	u := &dbmysql.User{
		Name:         in.Name,
		Account:      in.Account,
		PasswordHash: hashed,
		UserRole:     string(common.RoleUser),
		IsActivate:   true,
	}
	if err := s.userRepo.CreateUser(ctx, u); err != nil {
		return nil, common.FromRepoError(err, "account")
	}

	s.logger.Info("user signed up", zap.Int64("user_id", u.ID))
	return u, nil
}

func (s *authService) SignIn(ctx context.Context, creds Credentials) (*TokenPair, error) {
	u, err := s.userRepo.GetUserByAccount(ctx, creds.Account)
	if err != nil {
		return nil, common.FromRepoError(err, "user")
	}
	if err := common.CheckPassword(creds.Password, u.PasswordHash); err != nil {
		s.logger.Warn("sign-in rejected", zap.Int64("user_id", u.ID))
		return nil, common.Unauthorized("check your password")
	}

	pair, err := s.signPair(u)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user signed in", zap.Int64("user_id", u.ID))
	return pair, nil
}

func (s *authService) signPair(u *dbmysql.User) (*TokenPair, error) {
	access, err := s.tokens.Sign(subjectOf(u), common.AccessToken)
	if err != nil {
		return nil, common.Internal("sign access token", err)
	}
	refresh, err := s.tokens.Sign(subjectOf(u), common.RefreshToken)
	if err != nil {
		return nil, common.Internal("sign refresh token", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Reissue signs a new token of the given kind from the current user row,
// so name and role changes since the refresh token was issued are picked up.
func (s *authService) Reissue(ctx context.Context, userID int64, kind common.TokenKind) (string, error) {
	u, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return "", common.FromRepoError(err, "user")
	}
	token, err := s.tokens.Sign(subjectOf(u), kind)
	if err != nil {
		return "", common.Internal("sign token", err)
	}
	return token, nil
}

func (s *authService) Logout() (*TokenPair, error) {
	access, err := s.tokens.Expired(common.AccessToken)
	if err != nil {
		return nil, common.Internal("sign expired token", err)
	}
	refresh, err := s.tokens.Expired(common.RefreshToken)
	if err != nil {
		return nil, common.Internal("sign expired token", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *authService) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	u, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return false, common.FromRepoError(err, "user")
	}
	if common.Role(u.UserRole) != common.RoleAdmin {
		return false, common.Forbidden("admin role required")
	}
	return true, nil
}

func (s *authService) RequestPasswordReset(ctx context.Context, in PasswordResetRequest) error {
	email := common.NormalizeEmail(in.Email)
	if err := common.ValidateAccount(in.Account); err != nil {
		return err
	}
	if err := common.ValidateEmail(email); err != nil {
		return err
	}

	u, err := s.userRepo.GetUserByAccount(ctx, in.Account)
	if err != nil {
		return common.FromRepoError(err, "user")
	}
	if u.EmailVerified && (u.Email == nil || *u.Email != email) {
		return common.Unauthorized("email does not match")
	}

	if err := user.CheckRateLimit(ctx, s.cache, s.cfg, s.logger, "password-reset:"+in.Account); err != nil {
		return err
	}
	return user.IssueCode(ctx, s.userRepo, s.mailer, s.cfg, s.now(), dbmysql.CodePurposePassword, u.Account, email)
}

func (s *authService) VerifyPasswordReset(ctx context.Context, in PasswordResetVerify) error {
	email := common.NormalizeEmail(in.Email)
	if err := common.ValidateEmail(email); err != nil {
		return err
	}
	if err := common.ValidateCode(in.Code); err != nil {
		return err
	}
	if err := common.ValidatePassword(in.NewPassword); err != nil {
		return err
	}

	u, err := s.userRepo.GetUserByAccount(ctx, in.Account)
	if err != nil {
		return common.FromRepoError(err, "user")
	}

	rc, err := s.userRepo.FindCode(ctx, dbmysql.CodePurposePassword, in.Code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.BadRequest("reset code does not exist")
		}
		return common.FromRepoError(err, "reset code")
	}
	if rc.Account != u.Account {
		return common.BadRequest("reset code does not match")
	}
	if rc.Email != email {
		return common.BadRequest("email does not match")
	}
	if u.EmailVerified && (u.Email == nil || *u.Email != rc.Email) {
		return common.BadRequest("email does not match")
	}
	if rc.Expired(s.now()) {
		return common.BadRequest("reset code expired")
	}

	hashed, err := common.HashPassword(in.NewPassword)
	if err != nil {
		return common.Internal("hash password", err)
	}

	err = s.userRepo.Transaction(ctx, func(repo user.UserRepository) error {
		u.PasswordHash = hashed
		u.Email = &email
		u.EmailVerified = true
		if err := repo.UpdateUser(ctx, u); err != nil {
			return err
		}
		return repo.DeleteCode(ctx, rc.ID)
	})
	if err != nil {
		return common.FromRepoError(err, "user")
	}

	s.logger.Info("password reset", zap.Int64("user_id", u.ID))
	return nil
}
