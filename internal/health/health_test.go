package health

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent),
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return gormDB, mock
}

func TestChecker_Check(t *testing.T) {
	tests := []struct {
		name      string
		mockSetup func(sqlmock.Sqlmock)
		want      healthpb.HealthCheckResponse_ServingStatus
	}{
		{
			name:      "database up",
			mockSetup: func(m sqlmock.Sqlmock) { m.ExpectPing() },
			want:      healthpb.HealthCheckResponse_SERVING,
		},
		{
			name:      "database down",
			mockSetup: func(m sqlmock.Sqlmock) { m.ExpectPing().WillReturnError(errors.New("connection refused")) },
			want:      healthpb.HealthCheckResponse_NOT_SERVING,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := setupTestDB(t)
			tc.mockSetup(mock)

			resp, err := NewChecker(db, zap.NewNop()).Check(context.Background(), &healthpb.HealthCheckRequest{})
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.GetStatus())
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestChecker_UnknownService(t *testing.T) {
	db, _ := setupTestDB(t)

	_, err := NewChecker(db, zap.NewNop()).Check(context.Background(), &healthpb.HealthCheckRequest{Service: "payments"})
	require.Error(t, err)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestNewGRPCServer(t *testing.T) {
	db, _ := setupTestDB(t)
	s := NewGRPCServer(NewChecker(db, zap.NewNop()))
	defer s.Stop()

	info := s.GetServiceInfo()
	assert.Contains(t, info, "grpc.health.v1.Health")
}
