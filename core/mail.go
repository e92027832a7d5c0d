package core

import (
	"bytes"
	"net/mail"
	texttmpl "text/template"

	"github.com/pkg/errors"
)

var mailTemplates = map[string]*texttmpl.Template{
	"welcome": texttmpl.Must(texttmpl.New("welcome").Parse(
		`Hi {{.Name}},

An account has been created for you on {{.AppName}}.

  username: {{.Username}}

Ask your administrator for your initial password, then log in and change it.
`)),
}

type (
	EmailMessage struct {
		To      []mail.Address
		Cc      []mail.Address
		Bcc     []mail.Address
		Subject string
		BodyStr string // simple text/plain, non-templated content

		// templated contents
		TemplateName string
		TemplateData interface{}
		TextContent  string
	}

	// EmailService is any service that can send emails.
	EmailService interface {
		// SendMessages sends messages concurrently.
		SendMessages(messages ...*EmailMessage)
	}
)

// Render prepares the final TextContent; templated content wins over BodyStr.
func (m *EmailMessage) Render() error {
	if m.TemplateName == "" {
		m.TextContent = m.BodyStr
		return nil
	}
	tmpl, ok := mailTemplates[m.TemplateName]
	if !ok {
		return errors.Errorf("unknown email template %q", m.TemplateName)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, m.TemplateData); err != nil {
		return errors.Wrapf(err, "rendering email template %q", m.TemplateName)
	}
	m.TextContent = buf.String()
	return nil
}

func (m *EmailMessage) HasRecipients() bool {
	return (len(m.To) + len(m.Cc) + len(m.Bcc)) > 0
}

func (m *EmailMessage) HasContent() bool {
	return m.TextContent != "" || m.BodyStr != ""
}
