package main

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/stock-peinture-api/internal/infrastructure/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica las migraciones pendientes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		e, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer e.pool.Close()

		applied, err := postgres.Migrate(ctx, e.pool)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			e.log.Info().Msg("esquema al día")
			return nil
		}
		e.log.Info().Strs("versions", applied).Msg("migraciones aplicadas")
		return nil
	},
}
