package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"thanksboard/internal/dbmysql"
	"thanksboard/internal/wire"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, cleanup, err := wire.InitializeMigrator()
			if err != nil {
				return fmt.Errorf("initialize: %w", err)
			}
			defer cleanup()

			if err := dbmysql.Migrate(m.DB); err != nil {
				return err
			}
			m.Logger.Info("database migration completed", zap.Int("tables", len(dbmysql.Models())))
			return nil
		},
	}
}
