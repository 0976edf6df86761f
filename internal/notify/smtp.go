package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/config"
)

// Client is the subset of *smtp.Client the mailer needs.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// Transport opens authenticated SMTP sessions.
type Transport interface {
	Connect(ctx context.Context) (Client, error)
}

// SMTPTransport dials the configured server, upgrades with STARTTLS and
// authenticates with PLAIN.
type SMTPTransport struct {
	host     string
	port     string
	user     string
	password string
	logger   *zap.Logger
}

// NewSMTPTransport builds a transport from notification settings.
func NewSMTPTransport(cfg config.NotificationConfig, logger *zap.Logger) *SMTPTransport {
	return &SMTPTransport{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		logger:   logger,
	}
}

// Connect establishes a session ready for MAIL FROM.
func (t *SMTPTransport) Connect(ctx context.Context) (Client, error) {
	dialer := net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(t.host, t.port))
	if err != nil {
		return nil, fmt.Errorf("dial smtp server: %w", err)
	}

	client, err := smtp.NewClient(conn, t.host)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	if ok, _ := client.Extension("STARTTLS"); !ok {
		_ = client.Close()
		return nil, fmt.Errorf("smtp server %s does not support STARTTLS", t.host)
	}
	if err := client.StartTLS(&tls.Config{ServerName: t.host, MinVersion: tls.VersionTLS12}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("start tls: %w", err)
	}

	if err := client.Auth(smtp.PlainAuth("", t.user, t.password, t.host)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("smtp auth: %w", err)
	}
	return client, nil
}

// SMTPMailer sends each message in its own SMTP session.
type SMTPMailer struct {
	transport Transport
	from      string
	logger    *zap.Logger
	now       func() time.Time
}

// NewSMTPMailer constructs a mailer sending as from.
func NewSMTPMailer(transport Transport, from string, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{transport: transport, from: from, logger: logger, now: time.Now}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("send email: missing recipient")
	}
	payload, err := m.compose(msg)
	if err != nil {
		return err
	}

	client, err := m.transport.Connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close() //nolint:errcheck

	if err := client.Mail(m.from); err != nil {
		return fmt.Errorf("set mail sender: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("set recipient %s: %w", msg.To, err)
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("open data writer: %w", err)
	}
	if _, err := wc.Write(payload); err != nil {
		_ = wc.Close()
		return fmt.Errorf("write message: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("close data writer: %w", err)
	}
	if err := client.Quit(); err != nil {
		return fmt.Errorf("quit smtp session: %w", err)
	}

	m.logger.Info("email sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

// compose renders RFC 5322 headers and a multipart/alternative body.
func (m *SMTPMailer) compose(msg Message) ([]byte, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	parts := []struct {
		contentType string
		content     string
	}{
		{"text/plain; charset=UTF-8", msg.Text},
	}
	if msg.HTML != "" {
		parts = append(parts, struct {
			contentType string
			content     string
		}{"text/html; charset=UTF-8", msg.HTML})
	}

	for _, part := range parts {
		header := textproto.MIMEHeader{}
		header.Set("Content-Type", part.contentType)
		header.Set("Content-Transfer-Encoding", "8bit")
		w, err := writer.CreatePart(header)
		if err != nil {
			return nil, fmt.Errorf("create mime part: %w", err)
		}
		if _, err := io.WriteString(w, part.content); err != nil {
			return nil, fmt.Errorf("write mime part: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close mime writer: %w", err)
	}

	var out bytes.Buffer
	fmt.Fprintf(&out, "From: %s\r\n", m.from)
	fmt.Fprintf(&out, "To: %s\r\n", msg.To)
	fmt.Fprintf(&out, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", msg.Subject))
	fmt.Fprintf(&out, "Date: %s\r\n", m.now().Format(time.RFC1123Z))
	out.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&out, "Content-Type: multipart/alternative; boundary=%q\r\n", writer.Boundary())
	out.WriteString("\r\n")
	out.Write(body.Bytes())
	return out.Bytes(), nil
}
