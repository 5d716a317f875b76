package dbmysql

// Join tables are mapped as plain models so every join is an explicit query.

type CardTag struct {
	CardID int64 `gorm:"primaryKey;column:card_id;autoIncrement:false"`
	TagID  int64 `gorm:"primaryKey;column:tag_id;autoIncrement:false;index"`
}

func (CardTag) TableName() string { return "card_tags" }

type UserPicker struct {
	CardID int64 `gorm:"primaryKey;column:card_id;autoIncrement:false"`
	UserID int64 `gorm:"primaryKey;column:user_id;autoIncrement:false;index"`
}

func (UserPicker) TableName() string { return "user_pickers" }

type UserReporter struct {
	CardID int64 `gorm:"primaryKey;column:card_id;autoIncrement:false"`
	UserID int64 `gorm:"primaryKey;column:user_id;autoIncrement:false"`
}

func (UserReporter) TableName() string { return "user_reporters" }

type UserReportThanks struct {
	ThanksID int64 `gorm:"primaryKey;column:thanks_id;autoIncrement:false"`
	UserID   int64 `gorm:"primaryKey;column:user_id;autoIncrement:false"`
}

func (UserReportThanks) TableName() string { return "user_report_thanks" }
