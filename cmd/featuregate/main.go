package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/railzwaylabs/featuregate/internal/config"
	"github.com/railzwaylabs/featuregate/internal/featureflag"
	featuredomain "github.com/railzwaylabs/featuregate/internal/featureflag/domain"
	"github.com/railzwaylabs/featuregate/internal/migration"
	"github.com/railzwaylabs/featuregate/internal/observability"
	"github.com/railzwaylabs/featuregate/internal/redis"
	"github.com/railzwaylabs/featuregate/internal/seed"
	"github.com/railzwaylabs/featuregate/internal/server"
	"github.com/railzwaylabs/featuregate/pkg/db"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "featuregate",
		Short:         "Feature flag access checks",
		Version:       readVersionFromEnv(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCmd(), newSeedCmd(), newServeCmd(), newCheckCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(migration.Module)
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert missing flag definitions into the features table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(fx.Invoke(func(conn *gorm.DB, log *zap.Logger) error {
				inserted, err := seed.EnsureFlagDefinitions(context.Background(), conn)
				if err != nil {
					return err
				}
				log.Info("flag definitions seeded", zap.Int64("inserted", inserted))
				return nil
			}))
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fx.New(
				config.Module,
				observability.Module,
				db.Module,
				redis.Module,
				featureflag.Module,
				server.Module,
			)
			app.Run()
			return app.Err()
		},
	}
}

func newCheckCmd() *cobra.Command {
	check := &cobra.Command{
		Use:   "check",
		Short: "Evaluate a feature flag once and print the answer",
	}

	check.AddCommand(&cobra.Command{
		Use:   "global <slug>",
		Short: "Check whether a flag is globally enabled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := featuredomain.ParseFlagKey(args[0])
			if err != nil {
				return err
			}
			return runCheck(cmd, func(ctx context.Context, svc featuredomain.Service) (bool, error) {
				return svc.IsGloballyEnabled(ctx, key)
			})
		},
	})

	check.AddCommand(&cobra.Command{
		Use:   "user <user-id> <slug>",
		Short: "Check whether a user has a flag, directly or through a team",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID(args[0])
			if err != nil {
				return featuredomain.ErrInvalidUserID
			}
			key, err := featuredomain.ParseFlagKey(args[1])
			if err != nil {
				return err
			}
			return runCheck(cmd, func(ctx context.Context, svc featuredomain.Service) (bool, error) {
				return svc.UserHasFeature(ctx, userID, string(key))
			})
		},
	})

	check.AddCommand(&cobra.Command{
		Use:   "team <team-id> <slug>",
		Short: "Check whether a team has a flag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			teamID, err := parseID(args[0])
			if err != nil {
				return featuredomain.ErrInvalidTeamID
			}
			key, err := featuredomain.ParseFlagKey(args[1])
			if err != nil {
				return err
			}
			return runCheck(cmd, func(ctx context.Context, svc featuredomain.Service) (bool, error) {
				return svc.TeamHasFeature(ctx, teamID, key)
			})
		},
	})

	return check
}

func runCheck(cmd *cobra.Command, fn func(context.Context, featuredomain.Service) (bool, error)) error {
	var svc featuredomain.Service
	app := fx.New(
		fx.NopLogger,
		config.Module,
		observability.Module,
		db.Module,
		redis.Module,
		featureflag.Module,
		fx.Populate(&svc),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = app.Stop(context.Background()) }()

	enabled, err := fn(ctx, svc)
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), enabled)
	return nil
}

func runOnce(opts ...fx.Option) error {
	base := []fx.Option{
		config.Module,
		observability.Module,
		db.Module,
	}
	app := fx.New(append(base, opts...)...)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return err
	}
	return app.Stop(context.Background())
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func readVersionFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("APP_VERSION")); v != "" {
		return v
	}
	return "dev"
}
