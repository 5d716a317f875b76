package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"thanksboard/internal/cache"
	"thanksboard/internal/common"
	"thanksboard/internal/config"
	"thanksboard/internal/dbmysql"
)

type sentMail struct {
	to, subject, body string
}

type recordingMailer struct {
	sent []sentMail
	err  error
}

func (m *recordingMailer) SendEmail(to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

type limitedCache struct {
	cache.Nop
	allowed bool
	err     error
}

func (c limitedCache) AllowRequest(context.Context, string, int, time.Duration) (bool, error) {
	return c.allowed, c.err
}

func testConfig() *config.Config {
	return &config.Config{
		Moderation: config.ModerationConfig{
			ReportThreshold:   5,
			CodeTTL:           30 * time.Minute,
			CodeRequestLimit:  3,
			CodeRequestWindow: 10 * time.Minute,
		},
	}
}

func newTestService(repo UserRepository, store cache.Store, mailer common.EmailService, now time.Time) *userService {
	svc := NewUserService(repo, store, mailer, testConfig(), zap.NewNop()).(*userService)
	svc.now = func() time.Time { return now }
	return svc
}

func strPtr(s string) *string { return &s }

func TestUserService_LoadPrincipal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := NewMockUserRepository(ctrl)
	svc := newTestService(mockUserRepo, cache.Nop{}, &recordingMailer{}, time.Now())
	ctx := context.Background()

	tests := []struct {
		name     string
		setup    func()
		wantName string
		wantRole common.Role
		wantKind common.ErrorKind
	}{
		{
			name: "shown nickname becomes display name",
			setup: func() {
				mockUserRepo.EXPECT().GetUserByID(ctx, int64(1)).Return(&dbmysql.User{
					ID: 1, Name: "alice", Nickname: strPtr("ali"), IsShowNickname: true, UserRole: "admin",
				}, nil)
			},
			wantName: "ali",
			wantRole: common.RoleAdmin,
		},
		{
			name: "missing user",
			setup: func() {
				mockUserRepo.EXPECT().GetUserByID(ctx, int64(1)).Return(nil, gorm.ErrRecordNotFound)
			},
			wantKind: common.KindNotFound,
		},
		{
			name: "db failure is internal",
			setup: func() {
				mockUserRepo.EXPECT().GetUserByID(ctx, int64(1)).Return(nil, errors.New("db is down"))
			},
			wantKind: common.KindInternal,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setup()
			p, err := svc.LoadPrincipal(ctx, 1)
			if tc.wantName == "" {
				require.Error(t, err)
				require.Equal(t, tc.wantKind, common.KindOf(err))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantName, p.Name)
			require.Equal(t, tc.wantRole, p.Role)
		})
	}
}

func TestUserService_UpdatePassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := NewMockUserRepository(ctrl)
	svc := newTestService(mockUserRepo, cache.Nop{}, &recordingMailer{}, time.Now())
	ctx := context.Background()

	hashed, err := common.HashPassword("OldPass1!")
	require.NoError(t, err)

	tests := []struct {
		name        string
		current     string
		next        string
		setup       func()
		wantErr     bool
		errContains string
	}{
		{
			name:    "success",
			current: "OldPass1!",
			next:    "NewPass1!",
			setup: func() {
				mockUserRepo.EXPECT().GetUserByID(ctx, int64(7)).Return(&dbmysql.User{ID: 7, PasswordHash: hashed}, nil)
				mockUserRepo.EXPECT().UpdateUser(ctx, gomock.Any()).DoAndReturn(
					func(_ context.Context, u *dbmysql.User) error {
						require.NoError(t, common.CheckPassword("NewPass1!", u.PasswordHash))
						return nil
					})
			},
		},
		{
			name:    "wrong current password",
			current: "Nope1234!",
			next:    "NewPass1!",
			setup: func() {
				mockUserRepo.EXPECT().GetUserByID(ctx, int64(7)).Return(&dbmysql.User{ID: 7, PasswordHash: hashed}, nil)
			},
			wantErr:     true,
			errContains: "current password",
		},
		{
			name:        "weak new password rejected before lookup",
			current:     "OldPass1!",
			next:        "short",
			setup:       func() {},
			wantErr:     true,
			errContains: "password",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setup()
			err := svc.UpdatePassword(ctx, 7, tc.current, tc.next)
			if tc.wantErr {
				require.Error(t, err)
				require.Contains(t, err.Error(), tc.errContains)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestUserService_UpdateNickname(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := NewMockUserRepository(ctrl)
	svc := newTestService(mockUserRepo, cache.Nop{}, &recordingMailer{}, time.Now())
	ctx := context.Background()

	tests := []struct {
		name     string
		nickname string
		setup    func()
		wantKind common.ErrorKind
		wantErr  bool
	}{
		{
			name:     "success",
			nickname: "sunny",
			setup: func() {
				mockUserRepo.EXPECT().GetUserByID(ctx, int64(3)).Return(&dbmysql.User{ID: 3, Name: "alice"}, nil)
				mockUserRepo.EXPECT().CheckNicknameTaken(ctx, "sunny", int64(3)).Return(false, nil)
				mockUserRepo.EXPECT().UpdateUser(ctx, gomock.Any()).Return(nil)
			},
		},
		{
			name:     "taken by someone else",
			nickname: "sunny",
			setup: func() {
				mockUserRepo.EXPECT().GetUserByID(ctx, int64(3)).Return(&dbmysql.User{ID: 3, Name: "alice"}, nil)
				mockUserRepo.EXPECT().CheckNicknameTaken(ctx, "sunny", int64(3)).Return(true, nil)
			},
			wantErr:  true,
			wantKind: common.KindConflict,
		},
		{
			name:     "race on unique index",
			nickname: "sunny",
			setup: func() {
				mockUserRepo.EXPECT().GetUserByID(ctx, int64(3)).Return(&dbmysql.User{ID: 3, Name: "alice"}, nil)
				mockUserRepo.EXPECT().CheckNicknameTaken(ctx, "sunny", int64(3)).Return(false, nil)
				mockUserRepo.EXPECT().UpdateUser(ctx, gomock.Any()).Return(gorm.ErrDuplicatedKey)
			},
			wantErr:  true,
			wantKind: common.KindConflict,
		},
		{
			name:     "too long",
			nickname: "sunshine",
			setup:    func() {},
			wantErr:  true,
			wantKind: common.KindBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setup()
			u, err := svc.UpdateNickname(ctx, 3, tc.nickname, true)
			if tc.wantErr {
				require.Error(t, err)
				require.Equal(t, tc.wantKind, common.KindOf(err))
				return
			}
			require.NoError(t, err)
			require.Equal(t, "sunny", u.DisplayName())
		})
	}
}

func TestUserService_UpdateEmailResetsVerification(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := NewMockUserRepository(ctrl)
	svc := newTestService(mockUserRepo, cache.Nop{}, &recordingMailer{}, time.Now())
	ctx := context.Background()

	mockUserRepo.EXPECT().GetUserByID(ctx, int64(3)).
		Return(&dbmysql.User{ID: 3, Email: strPtr("old@x.com"), EmailVerified: true}, nil)
	mockUserRepo.EXPECT().CheckEmailTaken(ctx, "new@x.com", int64(3)).Return(false, nil)
	mockUserRepo.EXPECT().UpdateUser(ctx, gomock.Any()).Return(nil)

	u, err := svc.UpdateEmail(ctx, 3, "  NEW@x.com ")
	require.NoError(t, err)
	require.Equal(t, "new@x.com", *u.Email)
	require.False(t, u.EmailVerified)
}

func TestUserService_ToggleRole(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := NewMockUserRepository(ctrl)
	svc := newTestService(mockUserRepo, cache.Nop{}, &recordingMailer{}, time.Now())
	ctx := context.Background()

	admin := &common.Principal{UserID: 1, Role: common.RoleAdmin}
	member := &common.Principal{UserID: 2, Role: common.RoleUser}

	t.Run("non admin is forbidden", func(t *testing.T) {
		_, err := svc.ToggleRole(ctx, member, 2)
		require.True(t, common.IsKind(err, common.KindForbidden))
	})

	t.Run("admin promotes target", func(t *testing.T) {
		mockUserRepo.EXPECT().GetUserByID(ctx, int64(2)).Return(&dbmysql.User{ID: 2, UserRole: "user"}, nil)
		mockUserRepo.EXPECT().UpdateUser(ctx, gomock.Any()).Return(nil)

		u, err := svc.ToggleRole(ctx, admin, 2)
		require.NoError(t, err)
		require.Equal(t, "admin", u.UserRole)
	})

	t.Run("admin demotes self", func(t *testing.T) {
		mockUserRepo.EXPECT().GetUserByID(ctx, int64(1)).Return(&dbmysql.User{ID: 1, UserRole: "admin"}, nil)
		mockUserRepo.EXPECT().UpdateUser(ctx, gomock.Any()).Return(nil)

		u, err := svc.ToggleRole(ctx, admin, 1)
		require.NoError(t, err)
		require.Equal(t, "user", u.UserRole)
	})
}

func TestUserService_ToggleActivate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := NewMockUserRepository(ctrl)
	svc := newTestService(mockUserRepo, cache.Nop{}, &recordingMailer{}, time.Now())
	ctx := context.Background()

	mockUserRepo.EXPECT().GetUserByID(ctx, int64(4)).Return(&dbmysql.User{ID: 4, IsActivate: true}, nil)
	mockUserRepo.EXPECT().UpdateUser(ctx, gomock.Any()).Return(nil)

	u, err := svc.ToggleActivate(ctx, 4)
	require.NoError(t, err)
	require.False(t, u.IsActivate)
}

func TestUserService_DeleteUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := NewMockUserRepository(ctrl)
	svc := newTestService(mockUserRepo, cache.Nop{}, &recordingMailer{}, time.Now())
	ctx := context.Background()

	mockUserRepo.EXPECT().DeleteUser(ctx, int64(9)).Return(gorm.ErrRecordNotFound)
	err := svc.DeleteUser(ctx, 9)
	require.True(t, common.IsKind(err, common.KindNotFound))

	mockUserRepo.EXPECT().DeleteUser(ctx, int64(9)).Return(nil)
	require.NoError(t, svc.DeleteUser(ctx, 9))
}

func TestUserService_RequestEmailCode(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("stores and mails a code", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockUserRepo := NewMockUserRepository(ctrl)
		mailer := &recordingMailer{}
		svc := newTestService(mockUserRepo, cache.Nop{}, mailer, now)

		mockUserRepo.EXPECT().GetUserByID(ctx, int64(5)).Return(&dbmysql.User{ID: 5, Account: "alice01"}, nil)
		mockUserRepo.EXPECT().CheckEmailTaken(ctx, "a@x.com", int64(5)).Return(false, nil)
		mockUserRepo.EXPECT().CreateCode(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, rc *dbmysql.ResetCode) error {
				require.Equal(t, dbmysql.CodePurposeEmail, rc.Purpose)
				require.Equal(t, "alice01", rc.Account)
				require.Len(t, rc.Code, 6)
				require.Equal(t, now.Add(30*time.Minute), rc.ExpiresAt)
				return nil
			})

		require.NoError(t, svc.RequestEmailCode(ctx, 5, "a@x.com"))
		require.Len(t, mailer.sent, 1)
		require.Equal(t, "a@x.com", mailer.sent[0].to)
	})

	t.Run("rate limited", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockUserRepo := NewMockUserRepository(ctrl)
		svc := newTestService(mockUserRepo, limitedCache{allowed: false}, &recordingMailer{}, now)

		mockUserRepo.EXPECT().GetUserByID(ctx, int64(5)).Return(&dbmysql.User{ID: 5, Account: "alice01"}, nil)

		err := svc.RequestEmailCode(ctx, 5, "a@x.com")
		require.True(t, common.IsKind(err, common.KindBadRequest))
		require.Contains(t, err.Error(), "too many")
	})

	t.Run("limiter outage lets the request through", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockUserRepo := NewMockUserRepository(ctrl)
		svc := newTestService(mockUserRepo, limitedCache{err: errors.New("redis down")}, &recordingMailer{}, now)

		mockUserRepo.EXPECT().GetUserByID(ctx, int64(5)).Return(&dbmysql.User{ID: 5, Account: "alice01"}, nil)
		mockUserRepo.EXPECT().CheckEmailTaken(ctx, "a@x.com", int64(5)).Return(false, nil)
		mockUserRepo.EXPECT().CreateCode(ctx, gomock.Any()).Return(nil)

		require.NoError(t, svc.RequestEmailCode(ctx, 5, "a@x.com"))
	})

	t.Run("mail failure is internal", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockUserRepo := NewMockUserRepository(ctrl)
		svc := newTestService(mockUserRepo, cache.Nop{}, &recordingMailer{err: errors.New("smtp down")}, now)

		mockUserRepo.EXPECT().GetUserByID(ctx, int64(5)).Return(&dbmysql.User{ID: 5, Account: "alice01"}, nil)
		mockUserRepo.EXPECT().CheckEmailTaken(ctx, "a@x.com", int64(5)).Return(false, nil)
		mockUserRepo.EXPECT().CreateCode(ctx, gomock.Any()).Return(nil)

		err := svc.RequestEmailCode(ctx, 5, "a@x.com")
		require.Equal(t, common.KindInternal, common.KindOf(err))
	})
}

func TestUserService_VerifyEmailCode(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	owner := &dbmysql.User{ID: 5, Account: "alice01"}

	validCode := func() *dbmysql.ResetCode {
		return &dbmysql.ResetCode{
			ID: 11, Purpose: dbmysql.CodePurposeEmail, Account: "alice01",
			Email: "a@x.com", Code: "123456", ExpiresAt: now.Add(time.Minute),
		}
	}

	tests := []struct {
		name        string
		code        func() *dbmysql.ResetCode
		findErr     error
		wantErr     bool
		errContains string
	}{
		{name: "success", code: validCode},
		{name: "unknown code", findErr: gorm.ErrRecordNotFound, wantErr: true, errContains: "invalid"},
		{
			name: "code for another account",
			code: func() *dbmysql.ResetCode {
				rc := validCode()
				rc.Account = "mallory1"
				return rc
			},
			wantErr:     true,
			errContains: "invalid",
		},
		{
			name: "expired",
			code: func() *dbmysql.ResetCode {
				rc := validCode()
				rc.ExpiresAt = now
				return rc
			},
			wantErr:     true,
			errContains: "expired",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockUserRepo := NewMockUserRepository(ctrl)
			svc := newTestService(mockUserRepo, cache.Nop{}, &recordingMailer{}, now)

			u := *owner
			mockUserRepo.EXPECT().GetUserByID(ctx, int64(5)).Return(&u, nil)
			if tc.findErr != nil {
				mockUserRepo.EXPECT().FindCode(ctx, dbmysql.CodePurposeEmail, "123456").Return(nil, tc.findErr)
			} else {
				mockUserRepo.EXPECT().FindCode(ctx, dbmysql.CodePurposeEmail, "123456").Return(tc.code(), nil)
			}
			if !tc.wantErr {
				mockUserRepo.EXPECT().Transaction(ctx, gomock.Any()).DoAndReturn(
					func(ctx context.Context, fn func(UserRepository) error) error {
						return fn(mockUserRepo)
					})
				mockUserRepo.EXPECT().UpdateUser(ctx, gomock.Any()).Return(nil)
				mockUserRepo.EXPECT().DeleteCode(ctx, int64(11)).Return(nil)
			}

			got, err := svc.VerifyEmailCode(ctx, 5, "a@x.com", "123456")
			if tc.wantErr {
				require.Error(t, err)
				require.True(t, common.IsKind(err, common.KindBadRequest))
				require.Contains(t, err.Error(), tc.errContains)
				return
			}
			require.NoError(t, err)
			require.True(t, got.EmailVerified)
			require.Equal(t, "a@x.com", *got.Email)
		})
	}
}
