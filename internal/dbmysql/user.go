package dbmysql

import (
	"time"
)

type User struct {
	ID             int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name           string    `gorm:"column:name;size:12;not null" json:"name"`
	Nickname       *string   `gorm:"column:nickname;size:6;uniqueIndex" json:"nickname"`
	IsShowNickname bool      `gorm:"column:is_show_nickname;not null;default:false" json:"isShowNickname"`
	Account        string    `gorm:"column:account;size:12;uniqueIndex;not null" json:"account"`
	PasswordHash   string    `gorm:"column:password;size:255;not null" json:"-"`
	Email          *string   `gorm:"column:email;size:255;uniqueIndex" json:"email"`
	EmailVerified  bool      `gorm:"column:email_verified;not null;default:false" json:"emailVerified"`
	UserRole       string    `gorm:"column:user_role;size:10;not null;default:'user'" json:"userRole"`
	IsActivate     bool      `gorm:"column:is_activate;not null;default:true" json:"isActivate"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// DisplayName is the nickname when the user opted to show it.
func (u *User) DisplayName() string {
	if u.IsShowNickname && u.Nickname != nil && *u.Nickname != "" {
		return *u.Nickname
	}
	return u.Name
}

// SummaryColumns is the projection loaded when only a UserSummary is needed.
var SummaryColumns = []string{"id", "name", "nickname", "is_show_nickname"}

// UserSummary is what other users see of a writer.
type UserSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.DisplayName()}
}
