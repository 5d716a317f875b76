package dbmysql

import (
	"time"

	"thanksboard/internal/common"
)

type Thanks struct {
	ID             int64                 `gorm:"primaryKey;autoIncrement;column:id"`
	Content        string                `gorm:"column:content;size:100;not null"`
	WriterID       int64                 `gorm:"column:writer_id;not null;index"`
	IsActive       bool                  `gorm:"column:is_active;not null;default:true;index"`
	ReactionsCount common.ReactionCounts `gorm:"column:reactions_count;serializer:json;not null"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (Thanks) TableName() string { return "thanks" }
