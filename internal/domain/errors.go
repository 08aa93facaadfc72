package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los casos de uso agregan contexto con fmt.Errorf("%w: ...") y la capa HTTP clasifica con errors.Is.
var (
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrUnauthorized    = errors.New("credenciales inválidas")
	ErrMissingToken    = errors.New("token no informado")
	ErrInvalidToken    = errors.New("token inválido")
	ErrExpiredToken    = errors.New("token expirado")
	ErrForbidden       = errors.New("acceso denegado")
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrConflict        = errors.New("conflicto con el estado actual")
	ErrNoEntries       = errors.New("no hay lanzamientos en el período")
	ErrMailUnavailable = errors.New("transporte de correo no configurado")
)

// Error adjunta a un error de dominio el mensaje que puede mostrarse al cliente.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

// Unwrap permite errors.Is(err, domain.ErrX).
func (e *Error) Unwrap() error { return e.Kind }

// E construye un *Error del tipo kind con un mensaje para el cliente.
func E(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}
