package user

import (
	"context"

	"gorm.io/gorm"

	"thanksboard/internal/dbmysql"
)

// UserRepository holds users and the short-lived codes mailed to them.
type UserRepository interface {
	Transaction(ctx context.Context, fn func(repo UserRepository) error) error

	CreateUser(ctx context.Context, user *dbmysql.User) error
	GetUserByID(ctx context.Context, userID int64) (*dbmysql.User, error)
	GetUserByAccount(ctx context.Context, account string) (*dbmysql.User, error)
	UpdateUser(ctx context.Context, user *dbmysql.User) error
	DeleteUser(ctx context.Context, userID int64) error

	CheckAccountExists(ctx context.Context, account string) (bool, error)
	// CheckNicknameTaken and CheckEmailTaken ignore the user's own row.
	CheckNicknameTaken(ctx context.Context, nickname string, exceptUserID int64) (bool, error)
	CheckEmailTaken(ctx context.Context, email string, exceptUserID int64) (bool, error)

	CreateCode(ctx context.Context, code *dbmysql.ResetCode) error
	FindCode(ctx context.Context, purpose dbmysql.CodePurpose, code string) (*dbmysql.ResetCode, error)
	DeleteCode(ctx context.Context, codeID int64) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Transaction(ctx context.Context, fn func(repo UserRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&userRepository{db: tx})
	})
}

func (r *userRepository) CreateUser(ctx context.Context, user *dbmysql.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetUserByID(ctx context.Context, userID int64) (*dbmysql.User, error) {
	var user dbmysql.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByAccount(ctx context.Context, account string) (*dbmysql.User, error) {
	var user dbmysql.User
	err := r.db.WithContext(ctx).Where("account = ?", account).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, user *dbmysql.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// DeleteUser removes the user with their pick and report rows. Reactions stay so
// thanks counters keep matching their rows.
func (r *userRepository) DeleteUser(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&dbmysql.UserPicker{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&dbmysql.UserReporter{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&dbmysql.UserReportThanks{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", userID).Delete(&dbmysql.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *userRepository) CheckAccountExists(ctx context.Context, account string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&dbmysql.User{}).Where("account = ?", account).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) CheckNicknameTaken(ctx context.Context, nickname string, exceptUserID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&dbmysql.User{}).
		Where("nickname = ? AND id <> ?", nickname, exceptUserID).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) CheckEmailTaken(ctx context.Context, email string, exceptUserID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&dbmysql.User{}).
		Where("email = ? AND id <> ?", email, exceptUserID).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) CreateCode(ctx context.Context, code *dbmysql.ResetCode) error {
	return r.db.WithContext(ctx).Create(code).Error
}

// FindCode returns the newest code with this value for the purpose.
func (r *userRepository) FindCode(ctx context.Context, purpose dbmysql.CodePurpose, code string) (*dbmysql.ResetCode, error) {
	var rc dbmysql.ResetCode
	err := r.db.WithContext(ctx).
		Where("purpose = ? AND code = ?", purpose, code).
		Order("id DESC").
		First(&rc).Error
	if err != nil {
		return nil, err
	}
	return &rc, nil
}

func (r *userRepository) DeleteCode(ctx context.Context, codeID int64) error {
	return r.db.WithContext(ctx).Where("id = ?", codeID).Delete(&dbmysql.ResetCode{}).Error
}
