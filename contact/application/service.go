package application

import (
	"context"
	"strings"
	"time"

	"contact-gateway/contact/domain"
	"contact-gateway/tracing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// DefaultDeliveryTimeout cobre 3 tentativas com o timeout de 10s do cliente
// HTTP mais as esperas de 1s e 2s.
const DefaultDeliveryTimeout = 35 * time.Second

// MessageValidationFailed é a mensagem de toda rejeição por validação.
const MessageValidationFailed = "Validation failed"

type Outcome string

const (
	OutcomeDelivered  Outcome = "delivered"
	OutcomeSuppressed Outcome = "spam_suppressed"
)

type Result struct {
	Outcome    Outcome
	Submission domain.SanitizedSubmission
	Spam       SpamVerdict
	Attempts   []domain.DeliveryAttempt
}

// Service executa validar -> spam -> entregar para uma submissão.
// Não guarda estado entre chamadas; pode ser compartilhado entre goroutines.
type Service struct {
	Mailer        domain.Mailer
	Backoff       *Backoff
	Addresses     Addresses
	FallbackEmail string
	StrictSpam    bool
	Logger        logrus.FieldLogger
	// DeliveryTimeout limita a entrega inteira (tentativas + esperas);
	// padrão DefaultDeliveryTimeout.
	DeliveryTimeout time.Duration

	Now   func() time.Time
	NewID func() string
}

// Submit devolve *domain.Error com KindClient (validação), KindConfiguration
// ou KindDelivery. Spam não é erro: Outcome vem como OutcomeSuppressed e nada
// é entregue.
func (s *Service) Submit(ctx context.Context, in domain.SubmissionInput) (Result, error) {
	ctx, span := tracing.StartSpan(ctx, "contact.submit")
	defer span.End()

	res := Validate(in)
	sub := res.Data
	sub.ID = s.newID()
	sub.SubmittedAt = s.now().UTC()
	result := Result{Submission: sub}

	if !res.Valid {
		span.SetAttributes(attribute.Int("validation.errors", len(res.Errors)))
		return result, domain.NewClientError(MessageValidationFailed, res.Errors...)
	}

	// a heurística roda sobre o texto aparado e não escapado: o escape de '/'
	// esconderia os links
	verdict := CheckSpam(strings.TrimSpace(in.Message), s.StrictSpam)
	if strings.TrimSpace(in.Website) != "" {
		verdict.Spam = true
		verdict.Signals = append(verdict.Signals, SignalHoneypot)
	}
	result.Spam = verdict
	if verdict.Spam {
		result.Outcome = OutcomeSuppressed
		span.SetAttributes(attribute.Bool("spam", true))
		s.logger().WithFields(logrus.Fields{
			"submission_id": sub.ID,
			"signals":       verdict.Signals,
		}).Info("submission flagged as spam, delivery suppressed")
		return result, nil
	}

	attempts, err := s.Deliver(ctx, sub)
	result.Attempts = attempts
	if err != nil {
		tracing.RecordError(ctx, err)
		return result, err
	}
	result.Outcome = OutcomeDelivered
	return result, nil
}

// Deliver formata e envia a submissão com retry. Falta de credencial vira
// erro de configuração antes de qualquer chamada externa. A entrega não
// herda o cancelamento de ctx: se o visitante desconectar, as tentativas
// seguem até DeliveryTimeout.
func (s *Service) Deliver(ctx context.Context, sub domain.SanitizedSubmission) ([]domain.DeliveryAttempt, error) {
	if s.Mailer == nil {
		return nil, domain.NewConfigurationError(domain.ErrMissingCredential)
	}
	if cm, ok := s.Mailer.(domain.ConfigurableMailer); ok && !cm.Configured() {
		return nil, domain.NewConfigurationError(domain.ErrMissingCredential)
	}

	msg := FormatEmail(sub, s.Addresses)
	backoff := s.Backoff
	if backoff == nil {
		backoff = NewBackoff(DeliveryBackoffConfig())
	}

	timeout := s.DeliveryTimeout
	if timeout <= 0 {
		timeout = DefaultDeliveryTimeout
	}
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	var attempts []domain.DeliveryAttempt
	err := backoff.Retry(dctx, func(n int) error {
		actx, span := tracing.StartSpan(dctx, "contact.deliver", attribute.Int("attempt", n))
		defer span.End()

		start := time.Now()
		err := s.Mailer.Send(actx, msg)
		attempts = append(attempts, domain.DeliveryAttempt{Number: n, Err: err, Duration: time.Since(start)})
		if err != nil {
			tracing.RecordError(actx, err)
			s.logger().WithError(err).WithFields(logrus.Fields{
				"submission_id": sub.ID,
				"attempt":       n,
				"max_attempts":  backoff.MaxAttempts(),
			}).Warn("email delivery attempt failed")
		}
		return err
	})
	if err != nil {
		return attempts, domain.NewDeliveryError(s.deliveryFailureMessage(), err)
	}
	return attempts, nil
}

func (s *Service) deliveryFailureMessage() string {
	if s.FallbackEmail == "" {
		return "Failed to send message. Please try again later."
	}
	return "Failed to send message. Please try again later or contact us directly at " + s.FallbackEmail + "."
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s *Service) logger() logrus.FieldLogger {
	if s.Logger == nil {
		return logrus.StandardLogger()
	}
	return s.Logger
}
