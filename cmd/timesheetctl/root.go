package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/cauamenezes/sistema-timesheet/internal/infrastructure/postgres"
	"github.com/cauamenezes/sistema-timesheet/pkg/config"
	"github.com/cauamenezes/sistema-timesheet/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:           "timesheetctl",
	Short:         "Tareas de operador del Sistema Timesheet (migraciones, alta de administradores)",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil {
			fmt.Fprintln(os.Stderr, "sin archivo .env, se usan solo variables de entorno")
		}
	},
}

// Execute corre el comando raíz.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(migrateCmd, adminCmd)
}

// openPool carga la configuración y abre el pool de PostgreSQL.
func openPool(ctx context.Context) (*pgxpool.Pool, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	return pool, log, nil
}
