package dbmysql

import "time"

type Card struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Title       string    `gorm:"column:title;size:15;not null"`
	Content     string    `gorm:"column:content;size:300;not null"`
	IsAnonymity bool      `gorm:"column:is_anonymity;not null;default:false"`
	IsAnswered  bool      `gorm:"column:is_answered;not null;default:false"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true;index"`
	WriterID    int64     `gorm:"column:writer_id;not null;index"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Card) TableName() string { return "cards" }
