package smtp

//go:generate go run go.uber.org/mock/mockgen -source=./smtp.go -destination=./mocks/smtp_mock.go -package=mocks

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"ofcoz/config"
	"ofcoz/infras/otel"
	"ofcoz/shared/constant"
)

var ErrNotConfigured = errors.New("smtp host is not configured")

type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type mailerImpl struct {
	config *config.Config
	otel   otel.Otel
	now    func() time.Time
}

func New(config *config.Config, otel otel.Otel) Mailer {
	return &mailerImpl{
		config: config,
		otel:   otel,
		now:    time.Now,
	}
}

func (m *mailerImpl) Send(ctx context.Context, msg Message) (err error) {
	ctx, scope := m.otel.NewScope(ctx, constant.OtelSMTPScopeName, constant.OtelSMTPScopeName+".Send")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cfg := m.config.SMTP
	if cfg.Host == "" {
		return ErrNotConfigured
	}

	if len(msg.To) == 0 {
		return errors.New("smtp message has no recipients")
	}

	scope.SetAttributes(map[string]any{
		"recipients": len(msg.To),
		"subject":    msg.Subject,
	})

	body, err := BuildMIME(m.from(), msg, m.now())
	if err != nil {
		return fmt.Errorf("failed to build message: %w", err)
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}

	client, err := m.dial(ctx, timeout)
	if err != nil {
		log.Error().Err(err).Str("host", cfg.Host).Msg("failed to connect to SMTP server")

		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	if err = m.deliver(client, msg.To, body); err != nil {
		log.Error().Err(err).Strs("to", msg.To).Msg("failed to send email")

		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Info().Strs("to", msg.To).Str("subject", msg.Subject).Msg("email sent")

	return nil
}

// dial opens implicit TLS when Secure is set, otherwise plain TCP upgraded with STARTTLS.
func (m *mailerImpl) dial(ctx context.Context, timeout time.Duration) (*smtp.Client, error) {
	cfg := m.config.SMTP
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	tlsConfig := &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	dialer := &net.Dialer{Timeout: timeout}

	var (
		conn net.Conn
		err  error
	)

	if cfg.Secure {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: tlsConfig}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}

	if err != nil {
		return nil, err
	}

	if err = conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		conn.Close()

		return nil, err
	}

	client, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		conn.Close()

		return nil, err
	}

	if !cfg.Secure {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err = client.StartTLS(tlsConfig); err != nil {
				client.Close()

				return nil, fmt.Errorf("failed to start TLS: %w", err)
			}
		}
	}

	if cfg.Username != "" {
		if err = client.Auth(smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)); err != nil {
			client.Close()

			return nil, fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	return client, nil
}

func (m *mailerImpl) deliver(client *smtp.Client, to []string, body []byte) error {
	if err := client.Mail(m.config.SMTP.From); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	if _, err = w.Write(body); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	if err = w.Close(); err != nil {
		return err
	}

	return client.Quit()
}

func (m *mailerImpl) from() string {
	return (&mail.Address{Name: m.config.SMTP.FromName, Address: m.config.SMTP.From}).String()
}

// BuildMIME renders a multipart/alternative message with a text and an HTML part.
func BuildMIME(from string, msg Message, date time.Time) ([]byte, error) {
	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("From", from)
	header.Set("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	header.Set("Date", date.Format(time.RFC1123Z))
	header.Set("MIME-Version", "1.0")
	header.Set("Content-Type", "multipart/alternative; boundary="+mw.Boundary())
	header.Set("To", strings.Join(msg.To, ", "))

	for _, key := range []string{"From", "To", "Subject", "Date", "MIME-Version", "Content-Type"} {
		fmt.Fprintf(&buf, "%s: %s\r\n", key, header.Get(key))
	}

	buf.WriteString("\r\n")

	parts := []struct {
		contentType string
		body        string
	}{
		{"text/plain; charset=UTF-8", msg.Text},
		{"text/html; charset=UTF-8", msg.HTML},
	}

	for _, p := range parts {
		if p.body == "" {
			continue
		}

		w, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {p.contentType}})
		if err != nil {
			return nil, err
		}

		if _, err = w.Write([]byte(p.body)); err != nil {
			return nil, err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
