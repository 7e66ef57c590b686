// Package mail delivers account notifications over SMTP.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	gomail "github.com/wneessen/go-mail"

	"inventrack/internal/domain/notify"
	"inventrack/pkg/logger"
)

// Config holds SMTP settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// RequireTLS refuses to send over an unencrypted connection.
	RequireTLS bool
	Timeout    time.Duration
}

var welcomeTmpl = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
<body>
<p>Hello {{.Name}},</p>
<p>Your Inventrack account has been created with the role <strong>{{.Role}}</strong>.</p>
<p>You can now sign in with {{.Email}}.</p>
</body>
</html>
`))

const welcomeSubject = "Welcome to Inventrack"

// SMTPNotifier implements notify.Notifier.
type SMTPNotifier struct {
	cfg Config
}

// NewSMTPNotifier creates a notifier for the given server.
func NewSMTPNotifier(cfg Config) *SMTPNotifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &SMTPNotifier{cfg: cfg}
}

// RenderWelcome returns the HTML body of the welcome message.
func RenderWelcome(to notify.Recipient) (string, error) {
	var buf bytes.Buffer
	if err := welcomeTmpl.Execute(&buf, to); err != nil {
		return "", fmt.Errorf("render welcome: %w", err)
	}
	return buf.String(), nil
}

// Welcome implements notify.Notifier.
func (n *SMTPNotifier) Welcome(ctx context.Context, to notify.Recipient) error {
	msg := gomail.NewMsg()
	if err := msg.From(n.cfg.From); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(to.Email); err != nil {
		return fmt.Errorf("set to: %w", err)
	}
	msg.Subject(welcomeSubject)
	if err := msg.SetBodyHTMLTemplate(welcomeTmpl, to); err != nil {
		return fmt.Errorf("set body: %w", err)
	}

	client, err := gomail.NewClient(n.cfg.Host, n.clientOptions()...)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send welcome: %w", err)
	}

	logger.Info(ctx, "welcome mail sent", "email", to.Email, "role", to.Role)
	return nil
}

func (n *SMTPNotifier) clientOptions() []gomail.Option {
	opts := []gomail.Option{
		gomail.WithPort(n.cfg.Port),
		gomail.WithTimeout(n.cfg.Timeout),
	}
	if n.cfg.RequireTLS {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}
	if n.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(n.cfg.Username),
			gomail.WithPassword(n.cfg.Password),
		)
	}
	return opts
}

var _ notify.Notifier = (*SMTPNotifier)(nil)
