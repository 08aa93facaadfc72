package onboarding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/cauamenezes/sistema-timesheet/internal/application/dto"
	"github.com/cauamenezes/sistema-timesheet/internal/domain"
	"github.com/cauamenezes/sistema-timesheet/internal/domain/entity"
	"github.com/cauamenezes/sistema-timesheet/internal/domain/repository"
	"github.com/cauamenezes/sistema-timesheet/internal/domain/timesheet"
)

// OnboardingUseCase alta y listado de colaboradores (solo administradores).
type OnboardingUseCase struct {
	txRunner  TxRunner
	employees repository.EmployeeRepository
	now       func() time.Time
}

// NewOnboardingUseCase construye el caso de uso.
func NewOnboardingUseCase(txRunner TxRunner, employees repository.EmployeeRepository) *OnboardingUseCase {
	return &OnboardingUseCase{txRunner: txRunner, employees: employees, now: time.Now}
}

// RegisterEmployee da de alta un colaborador vinculado a una empresa (reutilizada por CNPJ)
// y, si llegan agencia, conta y chave_pix, sus datos bancarios.
//
// Empresa, colaborador y datos bancarios se escriben en una única transacción:
// cualquier fallo (incluido un CPF o email duplicado) revierte todo.
func (uc *OnboardingUseCase) RegisterEmployee(ctx context.Context, identity entity.Identity, in dto.RegisterEmployeeRequest) error {
	if !identity.IsAdmin() {
		return domain.E(domain.ErrForbidden, "Apenas administradores podem cadastrar colaboradores")
	}

	in = trimRequest(in)
	if in.FullName == "" || in.CPF == "" || in.Password == "" || in.TradeName == "" || in.CNPJ == "" {
		return domain.E(domain.ErrInvalidInput, "Campos obrigatórios faltando")
	}
	role := in.Role
	if role == "" {
		role = entity.RoleConsultant
	}
	if !entity.ValidRole(role) {
		return domain.E(domain.ErrInvalidInput, "tipo_perfil deve ser adm ou consultor")
	}
	var birth *time.Time
	if in.BirthDate != "" {
		d, err := time.Parse(timesheet.DateLayout, in.BirthDate)
		if err != nil {
			return domain.E(domain.ErrInvalidInput, "data_nascimento deve estar no formato YYYY-MM-DD")
		}
		birth = &d
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("onboarding: hash: %w", err)
	}
	now := uc.now()

	return uc.txRunner.RunOnboarding(ctx, func(
		companyRepo repository.CompanyRepository,
		employeeRepo repository.EmployeeRepository,
		bankRepo repository.BankDetailRepository,
	) error {
		company, err := companyRepo.GetByCNPJ(ctx, in.CNPJ)
		if err != nil {
			return fmt.Errorf("onboarding: buscar empresa: %w", err)
		}
		if company == nil {
			company = companyFromRequest(in, now)
			if err := companyRepo.Create(ctx, company); err != nil {
				return err
			}
		}

		dup, err := employeeRepo.GetByCPF(ctx, in.CPF)
		if err != nil {
			return fmt.Errorf("onboarding: buscar cpf: %w", err)
		}
		if dup != nil {
			return domain.E(domain.ErrConflict, "CPF já cadastrado")
		}
		if in.Email != "" {
			dup, err = employeeRepo.GetByEmail(ctx, in.Email)
			if err != nil {
				return fmt.Errorf("onboarding: buscar email: %w", err)
			}
			if dup != nil {
				return domain.E(domain.ErrConflict, "E-mail já cadastrado")
			}
		}

		companyID := company.ID
		emp := &entity.Employee{
			FullName:  in.FullName,
			CPF:       in.CPF,
			RG:        in.RG,
			BirthDate: birth,
			Sex:       in.Sex,
			Email:     in.Email,
			Mobile:    in.Mobile,
			Address: entity.Address{
				CEP:        in.CEP,
				Street:     in.Street,
				Number:     in.Number,
				Complement: in.Complement,
				District:   in.District,
				City:       in.City,
				State:      in.State,
			},
			Role:         role,
			Active:       true,
			Status:       entity.StatusActive,
			PasswordHash: string(hash),
			CompanyID:    &companyID,
			CreatedAt:    now,
		}
		if err := employeeRepo.Create(ctx, emp); err != nil {
			return err
		}

		if in.Agency != "" && in.Account != "" && in.PixKey != "" {
			if err := bankRepo.Create(ctx, &entity.BankDetail{
				EmployeeID: emp.ID,
				Agency:     in.Agency,
				Account:    in.Account,
				PixKey:     in.PixKey,
				Status:     entity.StatusActive,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListEmployees lista colaboradores (id desc) sin datos sensibles. Solo administradores.
func (uc *OnboardingUseCase) ListEmployees(ctx context.Context, identity entity.Identity) ([]dto.EmployeeListItem, error) {
	if !identity.IsAdmin() {
		return nil, domain.E(domain.ErrForbidden, "Sem permissão")
	}
	list, err := uc.employees.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.EmployeeListItem, 0, len(list))
	for _, e := range list {
		items = append(items, dto.EmployeeListItem{
			ID:        e.ID,
			FullName:  e.FullName,
			Email:     e.Email,
			Role:      e.Role,
			CreatedAt: e.CreatedAt,
		})
	}
	return items, nil
}

func companyFromRequest(in dto.RegisterEmployeeRequest, now time.Time) *entity.Company {
	return &entity.Company{
		TradeName:             in.TradeName,
		CNPJ:                  in.CNPJ,
		StateRegistration:     in.StateRegistration,
		MunicipalRegistration: in.MunicipalRegistration,
		TaxRegime:             in.TaxRegime,
		Address: entity.Address{
			CEP:        in.CompanyCEP,
			Street:     in.CompanyStreet,
			Number:     in.CompanyNumber,
			Complement: in.CompanyComplement,
			District:   in.CompanyDistrict,
			City:       in.CompanyCity,
			State:      in.CompanyState,
			Country:    in.CompanyCountry,
		},
		Phone:     in.CompanyPhone,
		Mobile:    in.CompanyMobile,
		Email:     in.CompanyEmail,
		CreatedAt: now,
	}
}

func trimRequest(in dto.RegisterEmployeeRequest) dto.RegisterEmployeeRequest {
	in.Role = strings.TrimSpace(in.Role)
	in.FullName = strings.TrimSpace(in.FullName)
	in.CPF = strings.TrimSpace(in.CPF)
	in.Email = strings.TrimSpace(in.Email)
	in.BirthDate = strings.TrimSpace(in.BirthDate)
	in.TradeName = strings.TrimSpace(in.TradeName)
	in.CNPJ = strings.TrimSpace(in.CNPJ)
	in.Agency = strings.TrimSpace(in.Agency)
	in.Account = strings.TrimSpace(in.Account)
	in.PixKey = strings.TrimSpace(in.PixKey)
	return in
}
