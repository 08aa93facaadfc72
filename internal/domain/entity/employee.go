package entity

import "time"

// Perfiles válidos (columna tipo_perfil). Los valores son los que ya usa el front-end.
const (
	RoleAdmin      = "adm"
	RoleConsultant = "consultor"
)

// Estados de registro para colaboradores y datos bancarios.
const (
	StatusActive = "ativo"
)

// Employee representa un colaborador (tabla colaboradores).
type Employee struct {
	ID           int64
	FullName     string
	CPF          string
	RG           string
	BirthDate    *time.Time
	Sex          string
	Email        string
	Mobile       string
	Address      Address
	Role         string // adm, consultor
	Active       bool
	Status       string
	PasswordHash string // bcrypt, nunca se expone
	ResetToken   string
	ResetExpires *time.Time
	CompanyID    *int64
	CreatedAt    time.Time
}

// IsAdmin informa si el colaborador tiene perfil administrador.
func (e *Employee) IsAdmin() bool {
	return e.Role == RoleAdmin
}

// ResetTokenExpired informa si el token de redefinición ya venció en el instante now.
// Un colaborador sin fecha de expiración se considera vencido.
func (e *Employee) ResetTokenExpired(now time.Time) bool {
	if e.ResetExpires == nil {
		return true
	}
	return now.After(*e.ResetExpires)
}

// Address dirección postal (colaborador o empresa).
type Address struct {
	CEP        string
	Street     string
	Number     string
	Complement string
	District   string
	City       string
	State      string
	Country    string
}

// ValidRole informa si role es uno de los perfiles soportados.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleConsultant
}
