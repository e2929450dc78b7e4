// Package email provides an email sending client.
//
// It uses Resend (resend-go) as the email provider and renders HTML bodies
// from templates embedded in the binary.
package email

import (
	"bytes"
	"context"
	"embed"
	"html/template"

	"github.com/deppfellow/handyman-api/internal/config"
	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Client wraps the Resend client.
type Client struct {
	client    *resend.Client
	from      string
	clientURL string
	logger    *zerolog.Logger
}

// NewClient creates an email Client from the integration settings.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	return &Client{
		client:    resend.NewClient(cfg.Integration.ResendAPIKey),
		from:      cfg.Integration.EmailFrom,
		clientURL: cfg.Auth.ClientURL,
		logger:    logger,
	}
}

// Render executes the named template with data.
func Render(templateName Template, data map[string]string) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, templateName.file(), data); err != nil {
		return "", errors.Wrapf(err, "failed to execute email template %s", templateName)
	}
	return body.String(), nil
}

// SendEmail renders templateName with data and sends it to a single recipient.
func (c *Client) SendEmail(ctx context.Context, to, subject string, templateName Template, data map[string]string) error {
	html, err := Render(templateName, data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	sent, err := c.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return errors.Wrapf(err, "failed to send %s email", templateName)
	}

	c.logger.Debug().
		Str("template", string(templateName)).
		Str("email_id", sent.Id).
		Msg("email sent")

	return nil
}
