package email

import (
	"fmt"
	"strconv"
	"strings"

	"Backend-SurveyHub/src/config"

	gomail "gopkg.in/gomail.v2"
)

type MailSender interface {
	Send(to, subject, html string) error
}

type SMTPSender struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// NewSMTPSender builds a sender from the SMTP_* settings and names any that are missing.
func NewSMTPSender(cfg *config.Config) (*SMTPSender, error) {
	port, _ := strconv.Atoi(cfg.SMTPPort)

	missing := []string{}
	if cfg.SMTPHost == "" {
		missing = append(missing, "SMTP_HOST")
	}
	if port == 0 {
		missing = append(missing, "SMTP_PORT")
	}
	if cfg.SMTPUser == "" {
		missing = append(missing, "SMTP_USER")
	}
	if cfg.SMTPPass == "" {
		missing = append(missing, "SMTP_PASS")
	}
	if cfg.SMTPFrom == "" {
		missing = append(missing, "SMTP_FROM")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing SMTP env: %v", strings.Join(missing, ", "))
	}

	return &SMTPSender{Host: cfg.SMTPHost, Port: port, User: cfg.SMTPUser, Pass: cfg.SMTPPass, From: cfg.SMTPFrom}, nil
}

func (s *SMTPSender) Send(to, subject, html string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Pass)
	return d.DialAndSend(m)
}
