package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"time"
)

// sendMail is a seam for unit tests.
var sendMail = smtp.SendMail

// SMTPConfig holds SMTP relay settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer delivers mail through a plain SMTP relay
type SMTPMailer struct {
	config SMTPConfig
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(config SMTPConfig) *SMTPMailer {
	return &SMTPMailer{config: config}
}

var verificationTmpl = template.Must(template.New("verification").Parse(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
    <h1>Verify your email address</h1>
    <p>Hello {{.Name}},</p>
    <p>Thanks for creating an account. Confirm your email address to activate it:</p>
    <p><a href="{{.Link}}">Verify email</a></p>
    <p>The link is valid for 24 hours. If you did not register, ignore this message.</p>
    <p style="font-size: 12px; color: #777;">&copy; {{.Year}} BlockBustre. This is an automated message.</p>
</body>
</html>
`))

var passwordResetTmpl = template.Must(template.New("password_reset").Parse(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
    <h1>Reset your password</h1>
    <p>Hello {{.Name}},</p>
    <p>We received a request to reset the password for your account. If this was not you, ignore this message.</p>
    <p><a href="{{.Link}}">Reset password</a></p>
    <p>The link is valid for 24 hours.</p>
    <p style="font-size: 12px; color: #777;">&copy; {{.Year}} BlockBustre. This is an automated message.</p>
</body>
</html>
`))

// SendVerificationEmail sends the address confirmation message
func (m *SMTPMailer) SendVerificationEmail(ctx context.Context, to, name, verifyLink string) error {
	body, err := renderLinkMail(verificationTmpl, name, verifyLink)
	if err != nil {
		return err
	}
	return m.send(ctx, to, "Verify your email address", body)
}

// SendPasswordResetEmail sends the password reset message
func (m *SMTPMailer) SendPasswordResetEmail(ctx context.Context, to, name, resetLink string) error {
	body, err := renderLinkMail(passwordResetTmpl, name, resetLink)
	if err != nil {
		return err
	}
	return m.send(ctx, to, "Reset your password", body)
}

func renderLinkMail(tmpl *template.Template, name, link string) (string, error) {
	data := struct {
		Name string
		Link string
		Year int
	}{
		Name: name,
		Link: link,
		Year: time.Now().Year(),
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return body.String(), nil
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	var message bytes.Buffer
	fmt.Fprintf(&message, "From: %s\r\n", m.config.From)
	fmt.Fprintf(&message, "To: %s\r\n", to)
	fmt.Fprintf(&message, "Subject: %s\r\n", subject)
	fmt.Fprintf(&message, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	message.WriteString("MIME-Version: 1.0\r\n")
	message.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	message.WriteString("\r\n")
	message.WriteString(body)

	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)
	var auth smtp.Auth
	if m.config.Username != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}

	if err := sendMail(addr, auth, m.config.From, []string{to}, message.Bytes()); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}
