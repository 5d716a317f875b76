package dbpostgres

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"thanksboard/internal/config"
	"thanksboard/internal/dbmysql"
)

// NewPostgres opens the same schema on PostgreSQL. Models and gorm settings are shared with MySQL.
func NewPostgres(cnf *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cnf.PostgresDSN(),
		PreferSimpleProtocol: true,
	}), dbmysql.GormConfig(log))
	if err != nil {
		return nil, fmt.Errorf("cannot connect to PostgreSQL: %w", err)
	}
	if err := dbmysql.ConfigurePool(db, cnf); err != nil {
		return nil, err
	}

	log.Info("connected to PostgreSQL",
		zap.String("host", cnf.Database.Host),
		zap.String("database", cnf.Database.DatabaseName))
	return db, nil
}
