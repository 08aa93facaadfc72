// Package mail implementa ports.Mailer sobre SMTP: gomail arma el mensaje MIME y lo
// escribe sobre una sesión net/smtp acotada por contexto.
package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/cauamenezes/sistema-timesheet/internal/application/ports"
	"github.com/cauamenezes/sistema-timesheet/internal/domain"
	"github.com/cauamenezes/sistema-timesheet/pkg/config"
	"github.com/cauamenezes/sistema-timesheet/pkg/logger"
)

var _ ports.Mailer = (*SMTPMailer)(nil)

// DefaultSendTimeout tope de una sesión cuando la configuración no trae uno.
const DefaultSendTimeout = 30 * time.Second

// NotificationRecorder registra el resultado de cada envío (métricas). Opcional.
type NotificationRecorder interface {
	ObserveNotification(kind string, err error)
}

// SMTPMailer envía correo de texto plano vía SMTP (STARTTLS en 587, TLS implícito en 465).
type SMTPMailer struct {
	cfg      config.SMTPConfig
	tls      *tls.Config
	timeout  time.Duration
	recorder NotificationRecorder
	log      *logger.Logger
}

// NewSMTPMailer construye el mailer. Con SMTP_HOST vacío queda deshabilitado.
func NewSMTPMailer(cfg config.SMTPConfig, log *logger.Logger) *SMTPMailer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}
	return &SMTPMailer{
		cfg:     cfg,
		tls:     &tls.Config{ServerName: cfg.Host, InsecureSkipVerify: cfg.InsecureTLS}, //nolint:gosec // opt-in para servidores internos
		timeout: timeout,
		log:     log,
	}
}

// WithRecorder agrega el registro de métricas por envío.
func (m *SMTPMailer) WithRecorder(r NotificationRecorder) *SMTPMailer {
	m.recorder = r
	return m
}

// Enabled informa si hay servidor SMTP configurado.
func (m *SMTPMailer) Enabled() bool {
	return m.cfg.Enabled()
}

// Send entrega el mensaje. La sesión completa queda acotada por ctx y por el timeout
// configurado: al devolver Send no queda ningún envío en curso.
func (m *SMTPMailer) Send(ctx context.Context, msg ports.MailMessage) error {
	if !m.Enabled() {
		return domain.ErrMailUnavailable
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("mail: sin destinatarios")
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	err := m.deliver(ctx, BuildMessage(m.cfg.From, msg))

	if m.recorder != nil {
		m.recorder.ObserveNotification(msg.Kind, err)
	}
	if err != nil {
		m.log.Warn().Err(err).Str("kind", msg.Kind).Strs("to", msg.To).Msg("fallo al enviar correo")
		return fmt.Errorf("mail: enviar: %w", err)
	}
	m.log.Info().Str("kind", msg.Kind).Strs("to", msg.To).Int("adjuntos", len(msg.Attachments)).Msg("correo enviado")
	return nil
}

// deliver abre la conexión con el deadline de ctx y la cierra si ctx se cancela,
// lo que corta cualquier lectura o escritura pendiente.
func (m *SMTPMailer) deliver(ctx context.Context, gm *gomail.Message) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	var dialer net.Dialer
	raw, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port)))
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = raw.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() { _ = raw.Close() })
	defer func() {
		stop()
		if ctxErr := ctx.Err(); err != nil && ctxErr != nil {
			err = fmt.Errorf("%w: %v", ctxErr, err)
		}
	}()

	implicitTLS := m.cfg.Port == 465
	conn := raw
	if implicitTLS {
		conn = tls.Client(raw, m.tls)
	}
	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		_ = raw.Close()
		return err
	}
	defer c.Close()

	if !implicitTLS {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(m.tls); err != nil {
				return err
			}
		}
	}
	if m.cfg.User != "" {
		if ok, mechs := c.Extension("AUTH"); ok {
			if err := c.Auth(m.auth(mechs)); err != nil {
				return err
			}
		}
	}

	sender := gomail.SendFunc(func(from string, to []string, body io.WriterTo) error {
		if err := c.Mail(from); err != nil {
			return err
		}
		for _, rcpt := range to {
			if err := c.Rcpt(rcpt); err != nil {
				return err
			}
		}
		w, err := c.Data()
		if err != nil {
			return err
		}
		if _, err := body.WriteTo(w); err != nil {
			_ = w.Close()
			return err
		}
		return w.Close()
	})
	if err := gomail.Send(sender, gm); err != nil {
		return err
	}
	return c.Quit()
}

func (m *SMTPMailer) auth(mechs string) smtp.Auth {
	if strings.Contains(mechs, "CRAM-MD5") {
		return smtp.CRAMMD5Auth(m.cfg.User, m.cfg.Password)
	}
	return smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
}

// BuildMessage arma el mensaje MIME: texto plano más adjuntos.
func BuildMessage(from string, msg ports.MailMessage) *gomail.Message {
	gm := gomail.NewMessage()
	gm.SetHeader("From", from)
	gm.SetHeader("To", msg.To...)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)

	for _, a := range msg.Attachments {
		data := a.Data
		settings := []gomail.FileSetting{
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
		}
		if a.ContentType != "" {
			settings = append(settings, gomail.SetHeader(map[string][]string{
				"Content-Type": {a.ContentType},
			}))
		}
		gm.Attach(a.Filename, settings...)
	}
	return gm
}
