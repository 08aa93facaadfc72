package memstore

import (
	"context"
	"errors"
	"sync"

	"github.com/cauamenezes/sistema-timesheet/internal/application/ports"
)

// Mailer implementación de ports.Mailer que registra los mensajes enviados.
type Mailer struct {
	mu       sync.Mutex
	Disabled bool
	Err      error // si no es nil, Send falla con este error
	sent     []ports.MailMessage
}

var _ ports.Mailer = (*Mailer)(nil)

func (m *Mailer) Enabled() bool { return !m.Disabled }

func (m *Mailer) Send(ctx context.Context, msg ports.MailMessage) error {
	if m.Disabled {
		return errors.New("memstore: mailer deshabilitado")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

// Sent copia de los mensajes enviados.
func (m *Mailer) Sent() []ports.MailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.MailMessage(nil), m.sent...)
}
