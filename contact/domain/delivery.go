package domain

import (
	"context"
	"time"
)

// EmailMessage é o payload pronto para o provedor transacional.
type EmailMessage struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

// Mailer entrega uma mensagem. Qualquer erro é tratado como falha da tentativa.
type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// ConfigurableMailer é implementado por mailers que dependem de credencial;
// Configured false gera um erro de configuração antes de qualquer chamada.
type ConfigurableMailer interface {
	Mailer
	Configured() bool
}

// DeliveryAttempt descreve uma tentativa; só vive durante a requisição.
type DeliveryAttempt struct {
	Number   int
	Err      error
	Duration time.Duration
}

func (a DeliveryAttempt) Succeeded() bool { return a.Err == nil }
