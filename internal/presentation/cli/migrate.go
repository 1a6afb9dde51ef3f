package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Zhima-Mochi/minishop-cart/internal/infrastructure/postgres"
)

var (
	// Migrate flags
	upSteps   int
	downSteps int
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Apply or roll back the embedded PostgreSQL migrations.

Subcommands:
  up      - Apply pending migrations
  down    - Rollback migrations
  status  - Show migration status`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	Long: `Apply pending migrations in version order.

Examples:
  minishop migrate up                  # Apply all pending migrations
  minishop migrate up --steps 1        # Apply the next migration`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd, func(m *postgres.Migrator) error {
			applied, err := m.Up(cmd.Context(), upSteps)
			for _, mig := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "applied  %04d_%s\n", mig.Version, mig.Name)
			}
			if err == nil && len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no pending migrations")
			}
			return err
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Rollback migrations",
	Long: `Roll back applied migrations, newest first.

Examples:
  minishop migrate down                # Roll back the last migration
  minishop migrate down --steps 3      # Roll back the last three`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd, func(m *postgres.Migrator) error {
			reverted, err := m.Down(cmd.Context(), downSteps)
			for _, mig := range reverted {
				fmt.Fprintf(cmd.OutOrStdout(), "reverted %04d_%s\n", mig.Version, mig.Name)
			}
			if err == nil && len(reverted) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to roll back")
			}
			return err
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd, func(m *postgres.Migrator) error {
			statuses, err := m.Status(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "VERSION\tNAME\tSTATUS\tAPPLIED AT")
			for _, s := range statuses {
				state, at := "pending", "-"
				if s.Applied() {
					state, at = "applied", s.AppliedAt.Format("2006-01-02 15:04:05")
				}
				fmt.Fprintf(w, "%04d\t%s\t%s\t%s\n", s.Version, s.Name, state, at)
			}
			return w.Flush()
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)

	migrateUpCmd.Flags().IntVar(&upSteps, "steps", 0, "Number of migrations to apply (0 applies all)")
	migrateDownCmd.Flags().IntVar(&downSteps, "steps", 1, "Number of migrations to roll back")
}

func runMigrate(cmd *cobra.Command, fn func(m *postgres.Migrator) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.close()

	pool, err := a.requirePool("migrate")
	if err != nil {
		return err
	}
	migrations, err := postgres.Migrations()
	if err != nil {
		return err
	}
	return fn(postgres.NewMigrator(pool, migrations, a.log))
}
