package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	netmail "net/mail"
	"net/smtp"
	"strings"
	"time"

	"github.com/jordan-wright/email"
)

// Attachment is a file sent along with a message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is a plain-text email with optional attachments.
type Message struct {
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Sender delivers report emails.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig holds the mail server settings.
type SMTPConfig struct {
	Addr     string // host:port
	Host     string
	Username string
	Password string
	From     string

	// Timeout bounds the whole SMTP exchange. Zero means DefaultTimeout.
	Timeout time.Duration
}

// DefaultTimeout is used when SMTPConfig.Timeout is unset.
const DefaultTimeout = 30 * time.Second

// sendFunc delivers a built message; swapped out in tests.
type sendFunc func(ctx context.Context, e *email.Email, addr string, a smtp.Auth) error

// SMTPSender sends mail through an SMTP relay.
type SMTPSender struct {
	cfg  SMTPConfig
	send sendFunc
}

// NewSMTPSender creates an SMTPSender. PLAIN auth is used when a username is set.
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	s := &SMTPSender{cfg: cfg}
	s.send = s.deliver
	return s
}

var _ Sender = (*SMTPSender)(nil)

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("mail: empty recipient")
	}

	e := email.NewEmail()
	e.From = s.cfg.From
	e.To = []string{msg.To}
	e.Subject = msg.Subject
	e.Text = []byte(msg.Body)
	for _, a := range msg.Attachments {
		if _, err := e.Attach(bytes.NewReader(a.Data), a.Filename, a.ContentType); err != nil {
			return fmt.Errorf("mail: attach %s: %w", a.Filename, err)
		}
	}

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	if err := s.send(ctx, e, s.cfg.Addr, auth); err != nil {
		return fmt.Errorf("mail: send: %w", err)
	}

	slog.Info("email sent", "subject", msg.Subject, "attachments", len(msg.Attachments))
	return nil
}

// deliver runs the SMTP exchange on a connection that is cut off at the
// earlier of ctx's deadline and the configured timeout, or when ctx is
// cancelled. STARTTLS is used when the server offers it.
func (s *SMTPSender) deliver(ctx context.Context, e *email.Email, addr string, a smtp.Auth) error {
	raw, err := e.Bytes()
	if err != nil {
		return err
	}
	from, err := netmail.ParseAddress(e.From)
	if err != nil {
		return fmt.Errorf("invalid sender: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return err
		}
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
			return err
		}
	}
	if a != nil {
		if ok, _ := c.Extension("AUTH"); !ok {
			return errors.New("server does not support AUTH")
		}
		if err := c.Auth(a); err != nil {
			return err
		}
	}

	if err := c.Mail(from.Address); err != nil {
		return err
	}
	for _, rcpt := range append(append(append([]string{}, e.To...), e.Cc...), e.Bcc...) {
		to, err := netmail.ParseAddress(rcpt)
		if err != nil {
			return fmt.Errorf("invalid recipient %q: %w", rcpt, err)
		}
		if err := c.Rcpt(to.Address); err != nil {
			return err
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}
