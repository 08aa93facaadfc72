package mail_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"net"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cauamenezes/sistema-timesheet/internal/application/ports"
	"github.com/cauamenezes/sistema-timesheet/internal/domain"
	"github.com/cauamenezes/sistema-timesheet/internal/infrastructure/mail"
	"github.com/cauamenezes/sistema-timesheet/pkg/config"
	"github.com/cauamenezes/sistema-timesheet/pkg/logger"
)

func TestSMTPMailer_SinHostDeshabilitado(t *testing.T) {
	m := mail.NewSMTPMailer(config.SMTPConfig{Port: 587}, logger.Nop())
	assert.False(t, m.Enabled())

	err := m.Send(context.Background(), ports.MailMessage{To: []string{"a@b.com"}})
	assert.ErrorIs(t, err, domain.ErrMailUnavailable)
}

func TestSMTPMailer_ContextoCancelado(t *testing.T) {
	m := mail.NewSMTPMailer(config.SMTPConfig{Host: "smtp.invalid", Port: 587}, logger.Nop())
	require.True(t, m.Enabled())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := m.Send(ctx, ports.MailMessage{To: []string{"a@b.com"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildMessage_CabecerasYAdjunto(t *testing.T) {
	pdf := []byte("%PDF-1.4 contenido")
	gm := mail.BuildMessage("no-reply@cidic.com.br", ports.MailMessage{
		To:      []string{"financeiro@cidic.com.br"},
		Subject: "Timesheet - Ana Souza (2024-03-01 a 2024-03-31) - 5.5h",
		Body:    "Consultor: Ana Souza",
		Attachments: []ports.Attachment{
			{Filename: "timesheet_1.pdf", ContentType: "application/pdf", Data: pdf},
		},
	})

	var buf bytes.Buffer
	_, err := gm.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()

	assert.Contains(t, raw, "From: no-reply@cidic.com.br")
	assert.Contains(t, raw, "To: financeiro@cidic.com.br")
	assert.Contains(t, raw, "Content-Type: application/pdf")
	assert.Contains(t, raw, `filename="timesheet_1.pdf"`)
	assert.Contains(t, raw, base64.StdEncoding.EncodeToString(pdf))
	assert.Equal(t, []string{"financeiro@cidic.com.br"}, gm.GetHeader("To"))
}

// fakeSMTP levanta un servidor TCP local y atiende la primera conexión con handle.
func fakeSMTP(t *testing.T, handle func(conn net.Conn)) (string, int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		handle(conn)
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return addr.IP.String(), addr.Port
}

func TestSMTPMailer_EntregaConAdjunto(t *testing.T) {
	received := make(chan string, 1)
	commands := make(chan string, 16)
	host, port := fakeSMTP(t, func(conn net.Conn) {
		tp := textproto.NewConn(conn)
		_ = tp.PrintfLine("220 localhost ESMTP")
		for {
			line, err := tp.ReadLine()
			if err != nil {
				return
			}
			cmd := strings.ToUpper(line)
			switch {
			case strings.HasPrefix(cmd, "EHLO"):
				_ = tp.PrintfLine("250-localhost")
				_ = tp.PrintfLine("250 8BITMIME")
			case strings.HasPrefix(cmd, "MAIL FROM"), strings.HasPrefix(cmd, "RCPT TO"):
				commands <- line
				_ = tp.PrintfLine("250 OK")
			case cmd == "DATA":
				_ = tp.PrintfLine("354 go ahead")
				data, err := tp.ReadDotBytes()
				if err != nil {
					return
				}
				received <- string(data)
				_ = tp.PrintfLine("250 OK")
			case cmd == "QUIT":
				_ = tp.PrintfLine("221 bye")
				return
			default:
				_ = tp.PrintfLine("500 comando desconocido")
			}
		}
	})

	m := mail.NewSMTPMailer(config.SMTPConfig{
		Host: host, Port: port, From: "no-reply@cidic.com.br", Timeout: 5 * time.Second,
	}, logger.Nop())
	err := m.Send(context.Background(), ports.MailMessage{
		Kind:    ports.MailKindPasswordReset,
		To:      []string{"ana@cidic.com.br"},
		Subject: "Recuperacao de senha",
		Body:    "link",
		Attachments: []ports.Attachment{
			{Filename: "timesheet_1.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")},
		},
	})
	require.NoError(t, err)

	select {
	case raw := <-received:
		assert.Contains(t, raw, "To: ana@cidic.com.br")
		assert.Contains(t, raw, `filename="timesheet_1.pdf"`)
	case <-time.After(2 * time.Second):
		t.Fatal("el servidor no recibió el mensaje")
	}
	assert.Contains(t, <-commands, "<no-reply@cidic.com.br>")
	assert.Contains(t, <-commands, "<ana@cidic.com.br>")
}

func TestSMTPMailer_ServidorColgadoRespetaTimeout(t *testing.T) {
	closed := make(chan struct{})
	host, port := fakeSMTP(t, func(conn net.Conn) {
		// Acepta la conexión y nunca envía el saludo 220.
		_, _ = io.Copy(io.Discard, conn)
		close(closed)
	})

	m := mail.NewSMTPMailer(config.SMTPConfig{Host: host, Port: port, Timeout: 200 * time.Millisecond}, logger.Nop())

	start := time.Now()
	err := m.Send(context.Background(), ports.MailMessage{To: []string{"a@b.com"}})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)

	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("la conexión SMTP quedó abierta después de que Send devolvió")
	}
}

func TestSMTPMailer_CancelacionCierraLaSesion(t *testing.T) {
	closed := make(chan struct{})
	host, port := fakeSMTP(t, func(conn net.Conn) {
		_, _ = io.Copy(io.Discard, conn)
		close(closed)
	})

	m := mail.NewSMTPMailer(config.SMTPConfig{Host: host, Port: port, Timeout: time.Minute}, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)
	err := m.Send(ctx, ports.MailMessage{To: []string{"a@b.com"}})
	assert.ErrorIs(t, err, context.Canceled)

	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("la conexión SMTP quedó abierta después de cancelar")
	}
}
