package mailx

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"time"

	"github.com/aussiebroadwan/foodcodes/pkg/slogx"
)

// TLS modes for SMTPConfig.TLS.
const (
	TLSImplicit = "implicit"
	TLSStartTLS = "starttls"
	TLSNone     = "none"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     mail.Address

	// TLS defaults to implicit on port 465 and starttls elsewhere.
	TLS     string
	Timeout time.Duration
}

// SMTPSender dials the relay once per message.
type SMTPSender struct {
	cfg SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, errors.New("mailx: smtp host and port are required")
	}
	if cfg.TLS == "" {
		cfg.TLS = TLSStartTLS
		if cfg.Port == 465 {
			cfg.TLS = TLSImplicit
		}
	}
	switch cfg.TLS {
	case TLSImplicit, TLSStartTLS, TLSNone:
	default:
		return nil, fmt.Errorf("mailx: unknown tls mode %q", cfg.TLS)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &SMTPSender{cfg: cfg}, nil
}

func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	raw, err := Build(s.cfg.From, m, time.Now())
	if err != nil {
		return err
	}

	log := slogx.FromContext(ctx).With(slog.String("smtp_host", s.cfg.Host))

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	conn, err := s.dial(ctx)
	if err != nil {
		log.Error("failed to connect to SMTP server", slog.Any("err", err))
		return fmt.Errorf("mailx: dial: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	rcpt, _ := mail.ParseAddress(m.To)
	if err := s.deliver(conn, rcpt.Address, raw); err != nil {
		log.Error("smtp delivery failed", slog.Any("err", err))
		return err
	}

	log.Info("mail sent", slog.String("to", slogx.Redact(m.To)))
	return nil
}

func (s *SMTPSender) dial(ctx context.Context) (net.Conn, error) {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	d := &net.Dialer{Timeout: s.cfg.Timeout}

	if s.cfg.TLS == TLSImplicit {
		td := &tls.Dialer{NetDialer: d, Config: &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}}
		return td.DialContext(ctx, "tcp", addr)
	}
	return d.DialContext(ctx, "tcp", addr)
}

func (s *SMTPSender) deliver(conn net.Conn, to string, raw []byte) error {
	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return fmt.Errorf("mailx: smtp handshake: %w", err)
	}
	defer c.Close()

	if s.cfg.TLS == TLSStartTLS {
		if ok, _ := c.Extension("STARTTLS"); !ok {
			return errors.New("mailx: server does not offer STARTTLS")
		}
		if err := c.StartTLS(&tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("mailx: starttls: %w", err)
		}
	}

	if s.cfg.Username != "" {
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("mailx: auth: %w", err)
		}
	}

	if err := c.Mail(s.cfg.From.Address); err != nil {
		return fmt.Errorf("mailx: mail from: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("mailx: rcpt to: %w", err)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("mailx: data: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("mailx: write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("mailx: data close: %w", err)
	}

	return c.Quit()
}
