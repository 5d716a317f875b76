package dbmysql

import "time"

type Tag struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Keyword   string    `gorm:"column:keyword;size:8;uniqueIndex;not null" json:"keyword"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (Tag) TableName() string { return "tags" }
