package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/xela07ax/shield-console/internal/infra"
	"github.com/xela07ax/shield-console/internal/mockdata"
	"github.com/xela07ax/shield-console/internal/repository/postgres"
	"github.com/xela07ax/shield-console/internal/seed"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		migrate    bool
		schemaOnly bool
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Populate PostgreSQL with SHIELD demo data",
		Long:          "Idempotent: every entity with a natural key is upserted, re-running updates rows in place.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := infra.LoadConfig()
			if err != nil {
				return err
			}
			if !cfg.Database.Enabled() {
				return fmt.Errorf("DATABASE_URL is required")
			}

			logger, err := infra.NewLogger(cfg.Logger)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			pool, err := infra.OpenPool(ctx, cfg.Database, logger)
			if err != nil {
				return err
			}
			defer pool.Close()
			repo := postgres.NewRepo(pool)

			if migrate || schemaOnly || cfg.Seed.Migrate {
				if err := repo.Migrate(ctx); err != nil {
					return err
				}
				logger.Info("schema applied")
			}
			if schemaOnly {
				return nil
			}

			now := time.Now().UTC()
			ds := seed.BuildDataset(mockdata.NewGenerator(), now, cfg.Seed.AdminEmail)
			rep, err := seed.NewSeeder(repo, cfg.Seed.AdminPassword, cfg.Auth.BcryptCost, logger).Run(ctx, ds)
			if err != nil {
				logger.Error("seed failed", zap.Any("written", rep), zap.Error(err))
				return err
			}
			logger.Info("seed complete", zap.Any("rows", rep))
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply migrations/*.sql before seeding")
	cmd.Flags().BoolVar(&schemaOnly, "schema-only", false, "Apply migrations and exit without demo data")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Overall seed timeout")
	return cmd
}
