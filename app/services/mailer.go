package services

import (
	"fmt"
	"log"
	"net/smtp"
)

type MailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type Mailer struct {
	config MailConfig
}

func NewMailer(cfg MailConfig) *Mailer {
	return &Mailer{
		config: cfg,
	}
}

func (m *Mailer) SendHTMLEmail(to, subject, htmlBody string) error {

	headers := map[string]string{
		"From":         m.config.From,
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=\"UTF-8\"",
	}

	var msg string
	for k, v := range headers {
		msg += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	msg += "\r\n" + htmlBody

	auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)

	addr := fmt.Sprintf("%s:%s", m.config.Host, m.config.Port)

	err := smtp.SendMail(addr, auth, m.config.From, []string{to}, []byte(msg))
	if err != nil {
		log.Printf("Failed to send HTML email to %s: %v", to, err)
		return fmt.Errorf("failed to send HTML email: %w", err)
	}

	return nil
}

// SendHTMLEmailAsync sends in a background goroutine. Fire-and-forget: the
// caller gets no completion signal, failures are logged only.
func (m *Mailer) SendHTMLEmailAsync(to, subject, htmlBody string) {
	go func() {
		if err := m.SendHTMLEmail(to, subject, htmlBody); err != nil {
			log.Printf("SendHTMLEmailAsync: delivery to %s failed: %v", to, err)
		}
	}()
}

func BuildContactRequestEmailBody(name, email, phone, message string) string {
	return fmt.Sprintf(`
        <!DOCTYPE html>
        <html>
        <head><meta charset="utf-8"><title>New contact request</title></head>
        <body>
            <h2>New contact request</h2>
            <p><strong>Name:</strong> %s</p>
            <p><strong>Email:</strong> %s</p>
            <p><strong>Phone:</strong> %s</p>
            <p><strong>Message:</strong></p>
            <p>%s</p>
        </body>
        </html>
    `, name, email, phone, message)
}

func BuildWelcomeEmailBody(companyName string) string {
	return fmt.Sprintf(`
        <!DOCTYPE html>
        <html>
        <head><meta charset="utf-8"><title>Welcome</title></head>
        <body>
            <h2>Welcome to the marketplace</h2>
            <p>The account for <strong>%s</strong> has been created.</p>
            <p>You can now publish listings and manage your catalog from the dashboard.</p>
        </body>
        </html>
    `, companyName)
}
