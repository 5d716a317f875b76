package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"thanksboard/internal/dbmysql"
	"thanksboard/internal/health"
	"thanksboard/internal/wire"
)

func newServeCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the gRPC health endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "run AutoMigrate before serving")
	return cmd
}

func serve(migrate bool) error {
	app, cleanup, err := wire.InitializeApplication()
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer cleanup()
	defer app.Logger.Sync() //nolint:errcheck

	logger := app.Logger
	cfg := app.Config

	if migrate {
		if err := dbmysql.Migrate(app.DB); err != nil {
			return err
		}
		logger.Info("database migration completed")
	}

	server := &http.Server{
		Addr:           net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:        setupRouter(app),
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	lis, err := net.Listen("tcp", net.JoinHostPort(cfg.Server.Host, cfg.Server.GRPCPort))
	if err != nil {
		return fmt.Errorf("listen on grpc port %s: %w", cfg.Server.GRPCPort, err)
	}
	grpcServer := health.NewGRPCServer(app.Health)

	errCh := make(chan error, 2)
	go func() {
		logger.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		logger.Info("grpc health server listening", zap.String("addr", lis.Addr().String()))
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("server stopped unexpectedly", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	grpcServer.GracefulStop()
	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server gracefully stopped")
	return nil
}
