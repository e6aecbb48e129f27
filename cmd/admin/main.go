// admin herramientas de operación: migraciones, alta inicial e import de catálogos.
//
// Uso:
//
//	go run ./cmd/admin migrate
//	go run ./cmd/admin seed --owner-email marie@exemple.fr --owner-password ******** --org-name "Peintures Élégance"
//	go run ./cmd/admin import-catalog --org <id> --user <id> --file catalogue.csv --charset latin1
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/stock-peinture-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-peinture-api/pkg/config"
	"github.com/jhoicas/stock-peinture-api/pkg/logger"
)

type env struct {
	cfg  *config.Config
	log  *logger.Logger
	pool *pgxpool.Pool
}

// openEnv carga configuración y abre el pool. El llamador cierra el pool.
func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	return &env{cfg: cfg, log: log, pool: pool}, nil
}

var rootCmd = &cobra.Command{
	Use:           "admin",
	Short:         "Herramientas de administración de stock-peinture",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(migrateCmd, seedCmd, importCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
