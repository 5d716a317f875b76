package user

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"thanksboard/internal/cache"
	"thanksboard/internal/common"
	"thanksboard/internal/config"
	"thanksboard/internal/dbmysql"
	"thanksboard/internal/mail"
)

type UserService interface {
	LoadPrincipal(ctx context.Context, userID int64) (*common.Principal, error)
	GetMyInfo(ctx context.Context, userID int64) (*dbmysql.User, error)
	UpdatePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error
	UpdateName(ctx context.Context, userID int64, name string) (*dbmysql.User, error)
	UpdateNickname(ctx context.Context, userID int64, nickname string, isShowNickname bool) (*dbmysql.User, error)
	UpdateEmail(ctx context.Context, userID int64, email string) (*dbmysql.User, error)
	ToggleActivate(ctx context.Context, userID int64) (*dbmysql.User, error)
	ToggleRole(ctx context.Context, actor *common.Principal, targetID int64) (*dbmysql.User, error)
	DeleteUser(ctx context.Context, userID int64) error
	RequestEmailCode(ctx context.Context, userID int64, email string) error
	VerifyEmailCode(ctx context.Context, userID int64, email, code string) (*dbmysql.User, error)
}

type userService struct {
	userRepo UserRepository
	cache    cache.Store
	mailer   common.EmailService
	cfg      *config.Config
	logger   *zap.Logger
	now      func() time.Time
}

func NewUserService(userRepo UserRepository, store cache.Store, mailer common.EmailService, cfg *config.Config, logger *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		cache:    store,
		mailer:   mailer,
		cfg:      cfg,
		logger:   logger.Named("user"),
		now:      time.Now,
	}
}

func (s *userService) getUser(ctx context.Context, userID int64) (*dbmysql.User, error) {
	u, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, common.FromRepoError(err, "user")
	}
	return u, nil
}

func (s *userService) LoadPrincipal(ctx context.Context, userID int64) (*common.Principal, error) {
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &common.Principal{UserID: u.ID, Name: u.DisplayName(), Role: common.Role(u.UserRole)}, nil
}

func (s *userService) GetMyInfo(ctx context.Context, userID int64) (*dbmysql.User, error) {
	return s.getUser(ctx, userID)
}

func (s *userService) UpdatePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	if err := common.ValidatePassword(newPassword); err != nil {
		return err
	}
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := common.CheckPassword(currentPassword, u.PasswordHash); err != nil {
		return common.Unauthorized("current password does not match")
	}

	hashed, err := common.HashPassword(newPassword)
	if err != nil {
		return common.Internal("hash password", err)
	}
	u.PasswordHash = hashed
	return common.FromRepoError(s.userRepo.UpdateUser(ctx, u), "user")
}

func (s *userService) UpdateName(ctx context.Context, userID int64, name string) (*dbmysql.User, error) {
	name = strings.TrimSpace(name)
	if err := common.ValidateName(name); err != nil {
		return nil, err
	}
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.Name = name
	if err := s.userRepo.UpdateUser(ctx, u); err != nil {
		return nil, common.FromRepoError(err, "user")
	}
	return u, nil
}

func (s *userService) UpdateNickname(ctx context.Context, userID int64, nickname string, isShowNickname bool) (*dbmysql.User, error) {
	nickname = strings.TrimSpace(nickname)
	if err := common.ValidateNickname(nickname); err != nil {
		return nil, err
	}
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	taken, err := s.userRepo.CheckNicknameTaken(ctx, nickname, userID)
	if err != nil {
		return nil, common.FromRepoError(err, "user")
	}
	if taken {
		return nil, common.Conflict("nickname already in use")
	}

	u.Nickname = &nickname
	u.IsShowNickname = isShowNickname
	if err := s.userRepo.UpdateUser(ctx, u); err != nil {
		return nil, common.FromRepoError(err, "nickname")
	}
	return u, nil
}

func (s *userService) UpdateEmail(ctx context.Context, userID int64, email string) (*dbmysql.User, error) {
	email = common.NormalizeEmail(email)
	if err := common.ValidateEmail(email); err != nil {
		return nil, err
	}
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	taken, err := s.userRepo.CheckEmailTaken(ctx, email, userID)
	if err != nil {
		return nil, common.FromRepoError(err, "user")
	}
	if taken {
		return nil, common.Conflict("email already in use")
	}

	// a new address has to be verified again
	u.Email = &email
	u.EmailVerified = false
	if err := s.userRepo.UpdateUser(ctx, u); err != nil {
		return nil, common.FromRepoError(err, "email")
	}
	return u, nil
}

func (s *userService) ToggleActivate(ctx context.Context, userID int64) (*dbmysql.User, error) {
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.IsActivate = !u.IsActivate
	if err := s.userRepo.UpdateUser(ctx, u); err != nil {
		return nil, common.FromRepoError(err, "user")
	}
	return u, nil
}

func (s *userService) ToggleRole(ctx context.Context, actor *common.Principal, targetID int64) (*dbmysql.User, error) {
	if !actor.IsAdmin() {
		return nil, common.Forbidden("admin role required")
	}
	u, err := s.getUser(ctx, targetID)
	if err != nil {
		return nil, err
	}
	u.UserRole = string(common.Role(u.UserRole).Toggled())
	if err := s.userRepo.UpdateUser(ctx, u); err != nil {
		return nil, common.FromRepoError(err, "user")
	}

	s.logger.Info("user role toggled",
		zap.Int64("actor_id", actor.UserID),
		zap.Int64("target_id", targetID),
		zap.String("role", u.UserRole))
	return u, nil
}

func (s *userService) DeleteUser(ctx context.Context, userID int64) error {
	if err := s.userRepo.DeleteUser(ctx, userID); err != nil {
		return common.FromRepoError(err, "user")
	}
	s.logger.Info("user deleted", zap.Int64("user_id", userID))
	return nil
}

func (s *userService) RequestEmailCode(ctx context.Context, userID int64, email string) error {
	email = common.NormalizeEmail(email)
	if err := common.ValidateEmail(email); err != nil {
		return err
	}
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := CheckRateLimit(ctx, s.cache, s.cfg, s.logger, "email-code:"+strconv.FormatInt(userID, 10)); err != nil {
		return err
	}

	taken, err := s.userRepo.CheckEmailTaken(ctx, email, userID)
	if err != nil {
		return common.FromRepoError(err, "user")
	}
	if taken {
		return common.Conflict("email already in use")
	}

	return IssueCode(ctx, s.userRepo, s.mailer, s.cfg, s.now(), dbmysql.CodePurposeEmail, u.Account, email)
}

func (s *userService) VerifyEmailCode(ctx context.Context, userID int64, email, code string) (*dbmysql.User, error) {
	email = common.NormalizeEmail(email)
	if err := common.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := common.ValidateCode(code); err != nil {
		return nil, err
	}
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	rc, err := s.userRepo.FindCode(ctx, dbmysql.CodePurposeEmail, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.BadRequest("invalid verification code")
		}
		return nil, common.FromRepoError(err, "verification code")
	}
	if rc.Account != u.Account || rc.Email != email {
		return nil, common.BadRequest("invalid verification code")
	}
	if rc.Expired(s.now()) {
		return nil, common.BadRequest("verification code expired")
	}

	err = s.userRepo.Transaction(ctx, func(repo UserRepository) error {
		u.Email = &email
		u.EmailVerified = true
		if err := repo.UpdateUser(ctx, u); err != nil {
			return err
		}
		return repo.DeleteCode(ctx, rc.ID)
	})
	if err != nil {
		return nil, common.FromRepoError(err, "email")
	}
	return u, nil
}

// CheckRateLimit applies the code-request window. A Redis failure lets the request through.
func CheckRateLimit(ctx context.Context, store cache.Store, cfg *config.Config, logger *zap.Logger, key string) error {
	if cfg.Moderation.CodeRequestLimit <= 0 {
		return nil
	}
	allowed, err := store.AllowRequest(ctx, "ratelimit:"+key, cfg.Moderation.CodeRequestLimit, cfg.Moderation.CodeRequestWindow)
	if err != nil {
		logger.Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
		return nil
	}
	if !allowed {
		return common.BadRequest("too many code requests, try again later")
	}
	return nil
}

// IssueCode stores a fresh code for account/email and mails it.
func IssueCode(ctx context.Context, repo UserRepository, mailer common.EmailService, cfg *config.Config, now time.Time, purpose dbmysql.CodePurpose, account, email string) error {
	code, err := common.GenerateCode()
	if err != nil {
		return common.Internal("generate code", err)
	}

	rc := &dbmysql.ResetCode{
		Purpose:   purpose,
		Account:   account,
		Email:     email,
		Code:      code,
		ExpiresAt: now.Add(cfg.Moderation.CodeTTL),
	}
	if err := repo.CreateCode(ctx, rc); err != nil {
		return common.FromRepoError(err, "code")
	}

	label := "email verification"
	if purpose == dbmysql.CodePurposePassword {
		label = "password reset"
	}
	subject, body := mail.CodeMessage(label, code, cfg.Moderation.CodeTTL)
	if err := mailer.SendEmail(email, subject, body); err != nil {
		return common.Internal(fmt.Sprintf("send %s mail", label), err)
	}
	return nil
}
