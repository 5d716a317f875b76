package dbmysql

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"thanksboard/internal/config"
)

// GormConfig routes gorm's own logging through zap and turns driver
// errors into gorm.ErrDuplicatedKey and friends.
func GormConfig(log *zap.Logger) *gorm.Config {
	return &gorm.Config{
		Logger: logger.New(zap.NewStdLog(log.Named("gorm")), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		PrepareStmt:    true,
		TranslateError: true,
	}
}

// ConfigurePool applies pool sizes from config to the underlying sql.DB.
func ConfigurePool(db *gorm.DB, cnf *config.Config) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("sql.DB error: %w", err)
	}
	sqlDB.SetMaxOpenConns(cnf.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cnf.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return nil
}

// NewMySQL returns a GORM DB instance connected to MySQL
func NewMySQL(cnf *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cnf.DSN()), GormConfig(log))
	if err != nil {
		return nil, fmt.Errorf("cannot connect to MySQL: %w", err)
	}
	if err := ConfigurePool(db, cnf); err != nil {
		return nil, err
	}

	log.Info("connected to MySQL",
		zap.String("host", cnf.Database.Host),
		zap.String("database", cnf.Database.DatabaseName))
	return db, nil
}
