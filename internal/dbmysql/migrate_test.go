package dbmysql

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMySQLMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return gormDB, mock
}

func TestCaseSensitiveKeywords_MySQL(t *testing.T) {
	tests := []struct {
		name    string
		execErr error
		wantErr bool
	}{
		{name: "applied"},
		{name: "alter fails", execErr: errors.New("table is locked"), wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := setupMySQLMock(t)

			exp := mock.ExpectExec(regexp.QuoteMeta(
				"ALTER TABLE `tags` MODIFY `keyword` varchar(8) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL"))
			if tc.execErr != nil {
				exp.WillReturnError(tc.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, 0))
			}

			err := CaseSensitiveKeywords(db)
			if tc.wantErr {
				assert.ErrorIs(t, err, tc.execErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCaseSensitiveKeywords_SkipsPostgres(t *testing.T) {
	db := &gorm.DB{Config: &gorm.Config{Dialector: postgres.New(postgres.Config{})}}
	assert.NoError(t, CaseSensitiveKeywords(db))
}
