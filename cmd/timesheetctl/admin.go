package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cauamenezes/sistema-timesheet/internal/application/dto"
	"github.com/cauamenezes/sistema-timesheet/internal/application/onboarding"
	"github.com/cauamenezes/sistema-timesheet/internal/domain/entity"
	"github.com/cauamenezes/sistema-timesheet/internal/infrastructure/postgres"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Gestión de administradores",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Da de alta un colaborador con perfil adm (primer acceso al sistema)",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		in := dto.RegisterEmployeeRequest{Role: entity.RoleAdmin}
		in.FullName, _ = flags.GetString("nome")
		in.Email, _ = flags.GetString("email")
		in.CPF, _ = flags.GetString("cpf")
		in.Password, _ = flags.GetString("senha")
		in.TradeName, _ = flags.GetString("empresa")
		in.CNPJ, _ = flags.GetString("cnpj")

		ctx := cmd.Context()
		pool, log, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		uc := onboarding.NewOnboardingUseCase(postgres.NewTxRunner(pool), postgres.NewEmployeeRepository(pool))
		if err := uc.RegisterEmployee(ctx, entity.SystemIdentity(), in); err != nil {
			return fmt.Errorf("admin create: %w", err)
		}
		log.Info().Str("email", in.Email).Msg("administrador creado")
		return nil
	},
}

func init() {
	f := adminCreateCmd.Flags()
	f.String("nome", "", "nome completo")
	f.String("email", "", "e-mail de acesso")
	f.String("cpf", "", "CPF")
	f.String("senha", "", "senha inicial")
	f.String("empresa", "", "nome fantasia da empresa")
	f.String("cnpj", "", "CNPJ da empresa")
	for _, name := range []string{"nome", "email", "cpf", "senha", "empresa", "cnpj"} {
		_ = adminCreateCmd.MarkFlagRequired(name)
	}
	adminCmd.AddCommand(adminCreateCmd)
}
