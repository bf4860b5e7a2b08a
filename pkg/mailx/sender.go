// Package mailx sends transactional email over SMTP, or writes it to a
// stream for local development.
package mailx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/mail"
	"sync"
	"time"

	"github.com/aussiebroadwan/foodcodes/pkg/slogx"
)

// Sender delivers one message. Implementations must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// WriterSender writes each rendered message to W. It never contacts a mail
// server.
type WriterSender struct {
	From mail.Address
	W    io.Writer

	mu sync.Mutex
}

func NewWriterSender(from mail.Address, w io.Writer) *WriterSender {
	return &WriterSender{From: from, W: w}
}

func (s *WriterSender) Send(ctx context.Context, m Message) error {
	raw, err := Build(s.From, m, time.Now())
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintf(s.W, "%s\r\n%s\r\n", raw, "----------"); err != nil {
		return fmt.Errorf("mailx: write message: %w", err)
	}

	slogx.FromContext(ctx).Debug("mail written",
		slog.String("to", slogx.Redact(m.To)),
		slog.String("subject", m.Subject),
	)
	return nil
}
