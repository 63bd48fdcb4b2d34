package infra

import (
	"context"

	"contact-gateway/contact/domain"

	"github.com/sirupsen/logrus"
)

// LogMailer só registra a mensagem; útil em desenvolvimento local.
type LogMailer struct {
	Logger logrus.FieldLogger
}

func (m LogMailer) Send(_ context.Context, msg domain.EmailMessage) error {
	logger := m.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	logger.WithFields(logrus.Fields{
		"from":     msg.From,
		"to":       msg.To,
		"reply_to": msg.ReplyTo,
		"subject":  msg.Subject,
		"text":     msg.Text,
	}).Info("email not sent (log transport)")
	return nil
}
