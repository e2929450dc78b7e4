package email

import "context"

// SendWelcomeEmail greets a newly registered user. name may be empty.
func (c *Client) SendWelcomeEmail(ctx context.Context, to, name string) error {
	if name == "" {
		name = "there"
	}

	data := map[string]string{
		"UserName":  name,
		"ClientURL": c.clientURL,
	}

	return c.SendEmail(ctx, to, "Welcome to Handyman!", TemplateWelcome, data)
}
