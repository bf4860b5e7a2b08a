package mailx_test

import (
	"net"
	"net/textproto"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/foodcodes/pkg/mailx"
	"github.com/stretchr/testify/require"
)

type received struct {
	from, rcpt string
	data       string
}

// fakeSMTP accepts a single plaintext session and reports what it saw.
func fakeSMTP(t *testing.T) (host string, port int, got <-chan received) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	ch := make(chan received, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		tp := textproto.NewConn(conn)
		var r received
		_ = tp.PrintfLine("220 localhost ESMTP")
		for {
			line, err := tp.ReadLine()
			if err != nil {
				return
			}
			cmd := strings.ToUpper(line)
			switch {
			case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
				_ = tp.PrintfLine("250-localhost")
				_ = tp.PrintfLine("250 HELP")
			case strings.HasPrefix(cmd, "MAIL FROM:"):
				r.from = line[len("MAIL FROM:"):]
				_ = tp.PrintfLine("250 OK")
			case strings.HasPrefix(cmd, "RCPT TO:"):
				r.rcpt = line[len("RCPT TO:"):]
				_ = tp.PrintfLine("250 OK")
			case cmd == "DATA":
				_ = tp.PrintfLine("354 go ahead")
				b, err := tp.ReadDotBytes()
				if err != nil {
					return
				}
				r.data = string(b)
				_ = tp.PrintfLine("250 OK")
			case cmd == "QUIT":
				_ = tp.PrintfLine("221 bye")
				ch <- r
				return
			default:
				_ = tp.PrintfLine("502 not implemented")
			}
		}
	}()

	h, p, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	port, err = strconv.Atoi(p)
	require.NoError(t, err)
	return h, port, ch
}

func TestSMTPSenderDelivers(t *testing.T) {
	host, port, got := fakeSMTP(t)

	s, err := mailx.NewSMTPSender(mailx.SMTPConfig{
		Host:    host,
		Port:    port,
		From:    sender,
		TLS:     mailx.TLSNone,
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)

	err = s.Send(t.Context(), mailx.Message{
		To:      "Alice <alice@example.com>",
		Subject: "Activate your account",
		Text:    "hello",
	})
	require.NoError(t, err)

	select {
	case r := <-got:
		require.Equal(t, "<noreply@foodcodes.test>", r.from)
		require.Equal(t, "<alice@example.com>", r.rcpt)
		require.Contains(t, r.data, "Subject: Activate your account")
	case <-time.After(5 * time.Second):
		t.Fatal("smtp server saw no session")
	}
}

func TestSMTPSenderRequiresStartTLS(t *testing.T) {
	host, port, _ := fakeSMTP(t)

	s, err := mailx.NewSMTPSender(mailx.SMTPConfig{Host: host, Port: port, From: sender})
	require.NoError(t, err)

	err = s.Send(t.Context(), mailx.Message{To: "alice@example.com", Subject: "x", Text: "y"})
	require.ErrorContains(t, err, "STARTTLS")
}

func TestNewSMTPSenderValidation(t *testing.T) {
	_, err := mailx.NewSMTPSender(mailx.SMTPConfig{})
	require.Error(t, err)

	_, err = mailx.NewSMTPSender(mailx.SMTPConfig{Host: "smtp.example.com", Port: 25, TLS: "bogus"})
	require.Error(t, err)
}
