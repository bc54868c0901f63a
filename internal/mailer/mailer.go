package mailer

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gopkg.in/gomail.v2"
)

const maxAttempts = 3

type Config struct {
	SMTPServer string
	SMTPPort   int
	Sender     string
	Password   string
	Recipients []string
	Subject    string
}

type Sender struct {
	cfg Config
}

func NewSender(cfg Config) *Sender {
	return &Sender{cfg: cfg}
}

// SendReport mails the report as an attachment to every configured
// recipient. Transient dial failures are retried with a linear wait.
func (s *Sender) SendReport(attachmentPath string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.Sender)
	m.SetHeader("To", s.cfg.Recipients...)
	m.SetHeader("Subject", s.cfg.Subject)
	m.SetBody("text/plain", "The GitHub project quality report is attached.")
	m.Attach(attachmentPath)

	d := gomail.NewDialer(s.cfg.SMTPServer, s.cfg.SMTPPort, s.cfg.Sender, s.cfg.Password)
	d.SSL = true

	log.Printf("📤 Sending report | recipients: %s", strings.Join(s.cfg.Recipients, ", "))

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if lastErr = d.DialAndSend(m); lastErr == nil {
			log.Printf("🎉 Report mailed successfully")
			return nil
		}
		if attempt < maxAttempts {
			wait := time.Duration(attempt) * 5 * time.Second
			log.Printf("⚠️ Send attempt %d failed: %v, retrying in %s...", attempt, lastErr, wait)
			time.Sleep(wait)
		}
	}
	return fmt.Errorf("sending report after %d attempts: %w", maxAttempts, lastErr)
}
