package entity

// Identity es la identidad autenticada extraída del bearer token.
// Se pasa explícitamente a cada caso de uso.
type Identity struct {
	ID    int64
	Email string
	Role  string
}

// IsAdmin informa si la identidad tiene perfil administrador.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// SystemIdentity identidad administrativa usada por tareas de operador (CLI), sin colaborador asociado.
func SystemIdentity() Identity {
	return Identity{ID: 0, Email: "system", Role: RoleAdmin}
}
