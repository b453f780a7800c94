package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"stayhub/internal/adapters/observability"
	"stayhub/internal/app"
	"stayhub/internal/shared"
	mysqlrepo "stayhub/internal/storage/mysql"
	"stayhub/migrations"
)

const flagDSN = "dsn"

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "hotelctl: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	cmd := &cobra.Command{
		Use:           "hotelctl",
		Short:         "Operational commands for the stayhub database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if dsn, _ := cmd.Flags().GetString(flagDSN); dsn != "" {
				cfg.MySQLDSN = dsn
			}
		},
	}
	cmd.PersistentFlags().String(flagDSN, "", "MySQL DSN (defaults to MYSQL_DSN)")

	cmd.AddCommand(
		newMigrateCommand(&cfg),
		newStatsCommand(&cfg),
		newPromoteAdminCommand(&cfg),
		newSeedCommand(&cfg),
	)
	return cmd
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

func openDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func newMigrateCommand(cfg *shared.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			// each migration file holds several statements
			dc, err := mysql.ParseDSN(cfg.MySQLDSN)
			if err != nil {
				return fmt.Errorf("parse dsn: %w", err)
			}
			dc.MultiStatements = true
			db, err := openDB(ctx, dc.FormatDSN())
			if err != nil {
				return err
			}
			defer db.Close()

			stmts, err := migrations.Statements()
			if err != nil {
				return fmt.Errorf("load migrations: %w", err)
			}
			for i, s := range stmts {
				if _, err := db.ExecContext(ctx, s); err != nil {
					return fmt.Errorf("migration %d: %w", i+1, err)
				}
			}
			log.Info().Int("files", len(stmts)).Str("db", dc.DBName).Msg("migrations applied")
			return nil
		},
	}
}

func newStatsCommand(cfg *shared.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print platform statistics as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()
			db, err := openDB(ctx, cfg.MySQLDSN)
			if err != nil {
				return err
			}
			defer db.Close()

			repo := mysqlrepo.New(db)
			st, err := app.NewAdminService(repo, repo).Stats(ctx)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		},
	}
}

func newPromoteAdminCommand(cfg *shared.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "promote-admin <email>",
		Short: "Grant the admin role to an existing account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()
			db, err := openDB(ctx, cfg.MySQLDSN)
			if err != nil {
				return err
			}
			defer db.Close()

			repo := mysqlrepo.New(db)
			a, err := app.NewAdminService(repo, repo).PromoteAdmin(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "account %d (%s) is now %s\n", a.ID, a.Email, a.Role)
			return nil
		},
	}
}
