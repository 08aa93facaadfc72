package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cauamenezes/sistema-timesheet/internal/infrastructure/postgres/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migraciones del esquema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Aplica las migraciones pendientes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pool, log, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		applied, err := migrations.New(pool).Up(ctx)
		if err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
		if len(applied) == 0 {
			log.Info().Msg("esquema al día, nada que aplicar")
			return nil
		}
		for _, v := range applied {
			log.Info().Str("version", v).Msg("migración aplicada")
		}
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Muestra el estado de cada migración",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pool, _, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		list, err := migrations.New(pool).Status(ctx)
		if err != nil {
			return fmt.Errorf("migrate status: %w", err)
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "VERSION\tARCHIVO\tESTADO\tAPLICADA")
		for _, s := range list {
			state, at := "pendiente", "-"
			if s.Applied {
				state = "aplicada"
				if s.AppliedAt != nil {
					at = s.AppliedAt.Format("2006-01-02 15:04:05")
				}
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Version, s.Filename, state, at)
		}
		return w.Flush()
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateStatusCmd)
}
