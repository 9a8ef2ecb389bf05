package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/gomail.v2"
)

type Mailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether enough SMTP settings are present to send mail.
func (m *Mailer) Enabled() bool {
	return m != nil && m.Host != "" && m.Port > 0 && m.From != ""
}

func (m *Mailer) SendEmail(to, subject, body string, attachments ...string) error {
	if !m.Enabled() {
		return fmt.Errorf("smtp is not configured")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	for _, filePath := range attachments {
		if _, err := os.Stat(filePath); err != nil {
			Logger.Warnf("Attachment not found, skipping: %s", filePath)
			continue
		}
		msg.Attach(filePath, gomail.Rename(filepath.Base(filePath)))
	}

	username := m.Username
	if username == "" {
		username = m.From
	}

	d := gomail.NewDialer(m.Host, m.Port, username, m.Password)
	if err := d.DialAndSend(msg); err != nil {
		Logger.Errorf("failed to send email to %s", to)
		return fmt.Errorf("failed to send email: %v", err)
	}

	return nil
}
