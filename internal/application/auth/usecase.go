package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/cauamenezes/sistema-timesheet/internal/application/dto"
	"github.com/cauamenezes/sistema-timesheet/internal/application/ports"
	"github.com/cauamenezes/sistema-timesheet/internal/domain"
	"github.com/cauamenezes/sistema-timesheet/internal/domain/entity"
	"github.com/cauamenezes/sistema-timesheet/internal/domain/repository"
	"github.com/cauamenezes/sistema-timesheet/pkg/jwt"
	"github.com/cauamenezes/sistema-timesheet/pkg/logger"
)

// ResetTokenTTL vigencia del token de redefinición de contraseña.
const ResetTokenTTL = 15 * time.Minute

// MinPasswordLength longitud mínima para contraseñas nuevas.
const MinPasswordLength = 6

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// ResetConfig configuración del flujo de redefinición.
type ResetConfig struct {
	FrontendURL string // base del enlace enviado por correo
}

// AuthUseCase casos de uso de autenticación: login, redefinición de contraseña y auto-registro.
type AuthUseCase struct {
	employees repository.EmployeeRepository
	mailer    ports.Mailer
	jwtCfg    JWTConfig
	resetCfg  ResetConfig
	log       *logger.Logger

	now      func() time.Time
	newToken func() (string, error)
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	employees repository.EmployeeRepository,
	mailer ports.Mailer,
	jwtCfg JWTConfig,
	resetCfg ResetConfig,
	log *logger.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		employees: employees,
		mailer:    mailer,
		jwtCfg:    jwtCfg,
		resetCfg:  resetCfg,
		log:       log,
		now:       time.Now,
		newToken:  randomResetToken,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *AuthUseCase) WithClock(now func() time.Time) *AuthUseCase {
	uc.now = now
	return uc
}

// Login verifica email y contraseña y genera el JWT (8h por defecto).
// Email desconocido y contraseña incorrecta devuelven el mismo domain.ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.E(domain.ErrInvalidInput, "email e senha são obrigatórios")
	}
	emp, err := uc.employees.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("login: buscar colaborador: %w", err)
	}
	if emp == nil {
		// Igualar el costo de bcrypt para no revelar si el email existe.
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(in.Password))
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !emp.Active {
		return nil, domain.E(domain.ErrForbidden, "Colaborador inativo")
	}
	return uc.issue(emp)
}

// RequestPasswordReset genera un token aleatorio de 32 bytes (hex), lo envía por correo
// y solo después de un envío exitoso lo persiste con expiración de 15 minutos.
func (uc *AuthUseCase) RequestPasswordReset(ctx context.Context, in dto.RecoverRequest) error {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return domain.E(domain.ErrInvalidInput, "E-mail é obrigatório")
	}
	emp, err := uc.employees.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("recover: buscar colaborador: %w", err)
	}
	if emp == nil {
		return domain.E(domain.ErrNotFound, "E-mail não encontrado")
	}
	if !uc.mailer.Enabled() {
		return domain.ErrMailUnavailable
	}

	token, err := uc.newToken()
	if err != nil {
		return fmt.Errorf("recover: generar token: %w", err)
	}
	expires := uc.now().Add(ResetTokenTTL)

	link := fmt.Sprintf("%s/Front-end/reset.html?token=%s", uc.resetCfg.FrontendURL, token)
	msg := ports.MailMessage{
		Kind:    ports.MailKindPasswordReset,
		To:      []string{emp.Email},
		Subject: "Recuperação de senha - Sistema Timesheet",
		Body: fmt.Sprintf("Olá %s,\n\nClique no link abaixo para redefinir sua senha (válido por 15 minutos):\n%s",
			emp.FullName, link),
	}
	if err := uc.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("recover: enviar correo: %w", err)
	}

	if err := uc.employees.SetResetToken(ctx, emp.ID, token, expires); err != nil {
		return fmt.Errorf("recover: guardar token: %w", err)
	}
	uc.log.Info().Int64("colaborador_id", emp.ID).Time("expires", expires).Msg("token de redefinición emitido")
	return nil
}

// ConfirmPasswordReset valida el token (existencia y vigencia), guarda el nuevo hash
// y limpia el token: cada token sirve una sola vez.
func (uc *AuthUseCase) ConfirmPasswordReset(ctx context.Context, in dto.ResetRequest) error {
	token := strings.TrimSpace(in.Token)
	if token == "" || in.NewPassword == "" {
		return domain.E(domain.ErrInvalidInput, "Token e novaSenha são obrigatórios")
	}
	emp, err := uc.employees.GetByResetToken(ctx, token)
	if err != nil {
		return fmt.Errorf("reset: buscar token: %w", err)
	}
	if emp == nil {
		return domain.E(domain.ErrInvalidToken, "Token inválido")
	}
	if emp.ResetTokenExpired(uc.now()) {
		return domain.E(domain.ErrExpiredToken, "Token expirado")
	}
	if len(in.NewPassword) < MinPasswordLength {
		return domain.E(domain.ErrInvalidInput, fmt.Sprintf("A senha deve ter ao menos %d caracteres", MinPasswordLength))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("reset: hash: %w", err)
	}
	updated, err := uc.employees.UpdatePassword(ctx, emp.ID, token, string(hash))
	if err != nil {
		return fmt.Errorf("reset: actualizar contraseña: %w", err)
	}
	if !updated {
		// Otra confirmación consumió el token entre la lectura y la escritura.
		return domain.E(domain.ErrInvalidToken, "Token inválido")
	}
	uc.log.Info().Int64("colaborador_id", emp.ID).Msg("contraseña redefinida")
	return nil
}

// SelfRegister crea un consultor sin empresa y devuelve la sesión. Siempre perfil consultor.
func (uc *AuthUseCase) SelfRegister(ctx context.Context, in dto.SelfRegisterRequest) (*dto.LoginResponse, error) {
	name := strings.TrimSpace(in.FullName)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, domain.E(domain.ErrInvalidInput, "nome_completo, email e senha são obrigatórios")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, domain.E(domain.ErrInvalidInput, fmt.Sprintf("A senha deve ter ao menos %d caracteres", MinPasswordLength))
	}
	existing, err := uc.employees.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("register: buscar email: %w", err)
	}
	if existing != nil {
		return nil, domain.E(domain.ErrConflict, "Email já cadastrado")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash: %w", err)
	}
	emp := &entity.Employee{
		FullName:     name,
		Email:        email,
		Role:         entity.RoleConsultant,
		Active:       true,
		Status:       entity.StatusActive,
		PasswordHash: string(hash),
		CreatedAt:    uc.now(),
	}
	if err := uc.employees.Create(ctx, emp); err != nil {
		return nil, err
	}
	return uc.issue(emp)
}

func (uc *AuthUseCase) issue(emp *entity.Employee) (*dto.LoginResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, emp.ID, emp.Email, emp.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		ID:       emp.ID,
		FullName: emp.FullName,
		Email:    emp.Email,
		Role:     emp.Role,
		Token:    token,
	}, nil
}

func randomResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

var (
	dummyOnce sync.Once
	dummy     []byte
)

func dummyHash() []byte {
	dummyOnce.Do(func() {
		dummy, _ = bcrypt.GenerateFromPassword([]byte("sistema-timesheet"), bcrypt.DefaultCost)
	})
	return dummy
}
