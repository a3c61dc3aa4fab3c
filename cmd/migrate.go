package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("migrate"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if reset, _ := cmd.Flags().GetBool("reset"); reset {
			zap.L().Warn("dropping all taco tables")
			return st.Reset(ctx)
		}
		if err := st.Migrate(ctx); err != nil {
			return err
		}
		zap.L().Info("migrations applied", zap.String("driver", cfg.Store.Driver))
		return nil
	},
}

func init() {
	migrateCmd.Flags().Bool("reset", false, "drop every table and migrate from scratch")

	rootCmd.AddCommand(migrateCmd)
}
