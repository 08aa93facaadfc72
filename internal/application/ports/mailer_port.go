package ports

import "context"

// Tipos de notificación (etiqueta de métricas y logs).
const (
	MailKindPasswordReset = "password_reset"
	MailKindSubmission    = "timesheet_submission"
)

// Attachment archivo adjunto a un correo.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// MailMessage correo de texto plano a enviar.
type MailMessage struct {
	Kind        string
	To          []string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Mailer define el puerto de salida para el envío de correo.
// Cualquier adaptador (SMTP, mock) debe implementar esta interfaz; la aplicación
// solo conoce este contrato, no el transporte concreto.
type Mailer interface {
	// Enabled informa si hay un transporte configurado. Con false, Send siempre falla.
	Enabled() bool
	// Send entrega el mensaje de forma síncrona. No reintenta.
	Send(ctx context.Context, msg MailMessage) error
}
