package mailx_test

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/foodcodes/pkg/mailx"
	"github.com/stretchr/testify/require"
)

var sender = mail.Address{Name: "foodcodes", Address: "noreply@foodcodes.test"}

func TestBuildPlainText(t *testing.T) {
	raw, err := mailx.Build(sender, mailx.Message{
		To:      "alice@example.com",
		Subject: "Activate your account",
		Text:    "Hello alice, follow the link.",
	}, time.Now())
	require.NoError(t, err)

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", msg.Header.Get("To"))
	require.Contains(t, msg.Header.Get("From"), "noreply@foodcodes.test")
	require.True(t, strings.HasSuffix(msg.Header.Get("Message-ID"), "@foodcodes.test>"))

	subject, err := new(mime.WordDecoder).DecodeHeader(msg.Header.Get("Subject"))
	require.NoError(t, err)
	require.Equal(t, "Activate your account", subject)

	body, err := io.ReadAll(quotedprintable.NewReader(msg.Body))
	require.NoError(t, err)
	require.Equal(t, "Hello alice, follow the link.", string(body))
}

func TestBuildAlternative(t *testing.T) {
	raw, err := mailx.Build(sender, mailx.Message{
		To:      "bob@example.com",
		Subject: "Héllo",
		Text:    "plain",
		HTML:    "<p>rich</p>",
	}, time.Now())
	require.NoError(t, err)

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)

	mt, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	require.Equal(t, "multipart/alternative", mt)

	mr := multipart.NewReader(msg.Body, params["boundary"])
	var parts []string
	for {
		p, err := mr.NextRawPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		b, err := io.ReadAll(quotedprintable.NewReader(p))
		require.NoError(t, err)
		parts = append(parts, string(b))
	}
	require.Equal(t, []string{"plain", "<p>rich</p>"}, parts)
}

func TestBuildRejectsBadInput(t *testing.T) {
	_, err := mailx.Build(sender, mailx.Message{To: "not an address", Subject: "x"}, time.Now())
	require.Error(t, err)

	_, err = mailx.Build(sender, mailx.Message{To: "a@example.com", Subject: "x\r\nBcc: evil@example.com"}, time.Now())
	require.Error(t, err)
}

func TestWriterSender(t *testing.T) {
	var buf bytes.Buffer
	s := mailx.NewWriterSender(sender, &buf)

	err := s.Send(t.Context(), mailx.Message{To: "alice@example.com", Subject: "hi", Text: "body"})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "To: alice@example.com")
}
