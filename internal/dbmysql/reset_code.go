package dbmysql

import "time"

type CodePurpose string

const (
	CodePurposePassword CodePurpose = "password"
	CodePurposeEmail    CodePurpose = "email"
)

// ResetCode is a short-lived numeric code mailed for password reset or email verification.
type ResetCode struct {
	ID        int64       `gorm:"primaryKey;autoIncrement;column:id"`
	Purpose   CodePurpose `gorm:"column:purpose;size:16;not null;index:idx_reset_code_lookup"`
	Account   string      `gorm:"column:account;size:12;not null"`
	Email     string      `gorm:"column:email;size:255;not null"`
	Code      string      `gorm:"column:code;size:6;not null;index:idx_reset_code_lookup"`
	ExpiresAt time.Time   `gorm:"column:expires_at;not null"`
	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime"`
}

func (ResetCode) TableName() string { return "reset_codes" }

func (c *ResetCode) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
