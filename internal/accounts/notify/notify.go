// Package notify renders and sends the account emails.
package notify

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"net/url"
	"text/template"

	"github.com/aussiebroadwan/foodcodes/internal/accounts/markup"
	"github.com/aussiebroadwan/foodcodes/pkg/mailx"
)

const ActivationSubject = "Activate your account"

//go:embed templates/*.tmpl
var templates embed.FS

// ActivationData is the template context of the activation email.
type ActivationData struct {
	User   string
	Domain string
	Scheme string
	UID    string
	Token  string
}

// Link is the absolute activation URL.
func (d ActivationData) Link() string {
	u := url.URL{
		Scheme: d.Scheme,
		Host:   d.Domain,
		Path:   "/v1/accounts/activate/" + d.UID + "/" + d.Token,
	}
	return u.String()
}

type Mailer struct {
	sender mailx.Sender
	md     *markup.Renderer
	tmpl   *template.Template
}

func NewMailer(sender mailx.Sender, md *markup.Renderer) (*Mailer, error) {
	tmpl, err := template.ParseFS(templates, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("notify: parse templates: %w", err)
	}
	return &Mailer{sender: sender, md: md, tmpl: tmpl}, nil
}

// SendActivation sends the activation link. The markdown body is sent as the
// text part and its rendering as the HTML part.
func (m *Mailer) SendActivation(ctx context.Context, to string, d ActivationData) error {
	var text bytes.Buffer
	if err := m.tmpl.ExecuteTemplate(&text, "activation.md.tmpl", d); err != nil {
		return fmt.Errorf("notify: render activation: %w", err)
	}

	html, err := m.md.Render(text.String())
	if err != nil {
		return err
	}

	return m.sender.Send(ctx, mailx.Message{
		To:      to,
		Subject: ActivationSubject,
		Text:    text.String(),
		HTML:    html,
	})
}
