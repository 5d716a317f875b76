package dbmysql

import (
	"fmt"

	"gorm.io/gorm"
)

// Models lists every table owned by the service in creation order.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&Tag{},
		&Card{},
		&CardTag{},
		&UserPicker{},
		&UserReporter{},
		&Thanks{},
		&UserReportThanks{},
		&Reaction{},
		&ResetCode{},
	}
}

// keywordCollation makes tags.keyword compare byte-wise on MySQL, whose default
// utf8mb4 collation folds case. PostgreSQL text is already case-sensitive.
const keywordCollation = "ALTER TABLE `tags` MODIFY `keyword` varchar(8) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL"

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return CaseSensitiveKeywords(db)
}

// CaseSensitiveKeywords rebuilds the tag keyword column and its unique index
// with a binary collation. It is a no-op on other dialects.
func CaseSensitiveKeywords(db *gorm.DB) error {
	if db.Dialector.Name() != "mysql" {
		return nil
	}
	if err := db.Exec(keywordCollation).Error; err != nil {
		return fmt.Errorf("failed to set tag keyword collation: %w", err)
	}
	return nil
}
