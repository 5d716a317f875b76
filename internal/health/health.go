package health

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"
)

// Checker reports SERVING while the database answers a ping.
type Checker struct {
	healthpb.UnimplementedHealthServer
	db      *gorm.DB
	timeout time.Duration
	logger  *zap.Logger
}

func NewChecker(db *gorm.DB, logger *zap.Logger) *Checker {
	return &Checker{db: db, timeout: 2 * time.Second, logger: logger.Named("health")}
}

// Ping returns the database error, if any.
func (c *Checker) Ping(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

func (c *Checker) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	// "" is the whole server; thanksboard is the only named service
	if svc := req.GetService(); svc != "" && svc != "thanksboard" {
		return nil, status.Error(codes.NotFound, "unknown service")
	}
	if err := c.Ping(ctx); err != nil {
		c.logger.Warn("database ping failed", zap.Error(err))
		return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}, nil
	}
	return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}, nil
}

// NewGRPCServer exposes the health service and reflection.
func NewGRPCServer(checker *Checker) *grpc.Server {
	s := grpc.NewServer()
	healthpb.RegisterHealthServer(s, checker)
	reflection.Register(s)
	return s
}
