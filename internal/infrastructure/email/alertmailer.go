package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/bajabeat/descargas/internal/shared/config"
	"github.com/bajabeat/descargas/internal/shared/logger"
)

// AlertMailer delivers consistency-risk incidents to the operator inbox.
// A provider charge whose local bookkeeping failed cannot wait for someone
// to read the logs.
type AlertMailer struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
	operator string
	logger   logger.Interface
}

func NewAlertMailer(cfg *config.EmailConfig, logger logger.Interface) *AlertMailer {
	return &AlertMailer{
		dialer:   gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:     cfg.FromAddress,
		fromName: cfg.FromName,
		operator: cfg.OperatorAddress,
		logger:   logger,
	}
}

func (m *AlertMailer) NotifyConsistencyRisk(ctx context.Context, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, m.fromName)
	msg.SetHeader("To", m.operator)
	msg.SetHeader("Subject", "[descargas] "+subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		// The caller already holds a consistency-risk error; log loudly
		// but do not mask the original failure with a mail failure.
		m.logger.Errorw("failed to deliver operator alert",
			"error", err, "subject", subject)
		return fmt.Errorf("failed to deliver operator alert: %w", err)
	}

	m.logger.Infow("operator alert delivered", "subject", subject)
	return nil
}
