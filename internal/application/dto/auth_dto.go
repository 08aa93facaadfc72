package dto

// LoginRequest entrada de login. La contraseña llega en texto plano y solo se compara con el hash.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

// LoginResponse resumen del colaborador + token firmado.
type LoginResponse struct {
	ID       int64  `json:"id"`
	FullName string `json:"nome_completo"`
	Email    string `json:"email"`
	Role     string `json:"tipo_perfil"`
	Token    string `json:"token"`
}

// RecoverRequest solicitud de redefinición de contraseña.
type RecoverRequest struct {
	Email string `json:"email"`
}

// ResetRequest confirmación de redefinición con el token recibido por correo.
type ResetRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"novaSenha"`
}

// SelfRegisterRequest auto-registro público (deshabilitado por defecto).
type SelfRegisterRequest struct {
	FullName string `json:"nome_completo"`
	Email    string `json:"email"`
	Password string `json:"senha"`
}
