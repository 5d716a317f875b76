package dbmysql

import (
	"time"

	"thanksboard/internal/common"
)

// Reaction is unique per (reactioner, thanks).
type Reaction struct {
	ID           int64               `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Type         common.ReactionType `gorm:"column:type;size:16;not null" json:"type"`
	ReactionerID int64               `gorm:"column:reactioner_id;not null;uniqueIndex:idx_reaction_reactioner_thanks" json:"reactionerId"`
	ThanksID     int64               `gorm:"column:thanks_id;not null;uniqueIndex:idx_reaction_reactioner_thanks;index" json:"thanksId"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (Reaction) TableName() string { return "reactions" }
