package mail

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"thanksboard/internal/common"
	"thanksboard/internal/config"
)

// dialer is satisfied by *gomail.Dialer.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPMailer struct {
	dialer   dialer
	from     string
	fromName string
	logger   *zap.Logger
}

func NewSMTPMailer(cfg *config.Config, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer:   gomail.NewDialer(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.Username, cfg.Email.Password),
		from:     cfg.Email.FromEmail,
		fromName: cfg.Email.FromName,
		logger:   logger.Named("mail"),
	}
}

func (m *SMTPMailer) SendEmail(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, m.fromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error("smtp send failed", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// LogMailer only logs; used when SMTP is not configured.
type LogMailer struct {
	logger *zap.Logger
}

func (m *LogMailer) SendEmail(to, subject, body string) error {
	m.logger.Info("email not sent, smtp disabled", zap.String("to", to), zap.String("subject", subject))
	return nil
}

func New(cfg *config.Config, logger *zap.Logger) common.EmailService {
	if !cfg.Email.Enabled || cfg.Email.SMTPHost == "" {
		return &LogMailer{logger: logger.Named("mail")}
	}
	return NewSMTPMailer(cfg, logger)
}

// CodeMessage renders the subject and body of a verification or reset code mail.
func CodeMessage(purpose string, code string, ttl time.Duration) (string, string) {
	subject := fmt.Sprintf("[Thanksboard] %s code", purpose)
	body := fmt.Sprintf("Your %s code is %s.\nIt expires in %d minutes.\n", purpose, code, int(ttl.Minutes()))
	return subject, body
}
