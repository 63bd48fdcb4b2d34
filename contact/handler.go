package contact

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"contact-gateway/contact/application"
	"contact-gateway/contact/domain"
	"contact-gateway/middleware/ratelimit"
	rldomain "contact-gateway/middleware/ratelimit/domain"

	"github.com/sirupsen/logrus"
)

// Desfechos gravados na auditoria.
const (
	OutcomeTooLarge      = "too_large"
	OutcomeRateLimited   = "rate_limited"
	OutcomeInvalidFormat = "invalid_format"
	OutcomeValidation    = "validation_failed"
	OutcomeConfiguration = "configuration_error"
	OutcomeDeliveryFail  = "delivery_failed"
	OutcomeUnavailable   = "unavailable"
	OutcomeDelivered     = "delivered"
	OutcomeSpam          = "spam_suppressed"
)

// Handler atende POST /api/contact depois das checagens de rota, tamanho e
// rate limit.
type Handler struct {
	Service      *application.Service
	Auditor      *application.Auditor
	KeyFn        ratelimit.KeyFunc
	HashKey      []byte
	MaxBodyBytes int64
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := LoggerFromContext(ctx)

	in, err := parseSubmission(r, h.maxBody())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	res, err := h.Service.Submit(ctx, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	ev := domain.AuditEvent{
		Kind:         domain.AuditAnalytics,
		Status:       http.StatusOK,
		ClientHash:   h.clientHash(r),
		SubmissionID: res.Submission.ID,
	}
	if res.Outcome == application.OutcomeSuppressed {
		ev.Outcome = OutcomeSpam
		ev.Fields = map[string]string{"signals": strings.Join(res.Spam.Signals, ",")}
	} else {
		ev.Outcome = OutcomeDelivered
		ev.Fields = map[string]string{"attempts": strconv.Itoa(len(res.Attempts))}
	}
	h.Auditor.Record(ctx, ev)

	logger.WithFields(logrus.Fields{
		"submission_id": res.Submission.ID,
		"outcome":       ev.Outcome,
	}).Info("contact submission accepted")

	// spam recebe a mesma resposta de uma entrega real
	writeJSON(w, http.StatusOK, Response{Success: true, Message: MessageSuccess})
}

// RejectTooLarge responde 413 para corpos declarados acima do limite.
func (h *Handler) RejectTooLarge(w http.ResponseWriter, r *http.Request) {
	h.fail(w, r, errTooLarge)
}

// RejectRateLimited é o RejectFunc do middleware de rate limit; Retry-After
// já vem definido.
func (h *Handler) RejectRateLimited(w http.ResponseWriter, r *http.Request, _ rldomain.Decision) {
	h.fail(w, r, &domain.Error{Kind: domain.KindQuota, Message: MessageTooManyReqs})
}

// RejectUnavailable responde 503 quando não há vaga de concorrência.
func (h *Handler) RejectUnavailable(w http.ResponseWriter, r *http.Request) {
	h.fail(w, r, &domain.Error{Kind: domain.KindUnavailable, Message: MessageUnavailable})
}

var errNotFound = &domain.Error{Kind: domain.KindNotFound, Message: MessageNotFound}

// NotFound responde 404 JSON para qualquer outra rota ou método. Não passa
// por fail: rotas desconhecidas não são auditadas.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, errNotFound.HTTPStatus(), Response{Success: false, Message: errNotFound.Message})
}

// fail traduz o erro em resposta, loga no nível do tipo e audita. A causa
// interna nunca vai para o corpo da resposta.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		derr = domain.NewDeliveryError("Internal server error", err)
	}
	status := derr.HTTPStatus()
	outcome := outcomeFor(derr)

	logger := LoggerFromContext(r.Context()).WithFields(logrus.Fields{
		"error_kind": derr.Kind,
		"status":     status,
		"outcome":    outcome,
	})
	switch derr.Kind {
	case domain.KindClient:
		logger.WithField("details", derr.Details).Info("contact submission rejected")
	case domain.KindQuota:
		logger.WithField("retry_after", w.Header().Get("Retry-After")).Warn("contact submission rate limited")
	case domain.KindSize:
	case domain.KindConfiguration:
		logger.WithError(derr.Cause).Error("contact endpoint misconfigured")
	case domain.KindUnavailable:
		logger.Warn("contact submission shed")
	default:
		logger.WithError(derr.Cause).Error("contact delivery failed")
	}

	h.Auditor.Record(r.Context(), domain.AuditEvent{
		Kind:       domain.AuditError,
		Outcome:    outcome,
		Status:     status,
		Message:    derr.Message,
		Details:    derr.Details,
		ClientHash: h.clientHash(r),
	})

	writeJSON(w, status, Response{Success: false, Message: derr.Message, Errors: derr.Details})
}

func outcomeFor(e *domain.Error) string {
	switch e.Kind {
	case domain.KindClient:
		if e.Message == MessageInvalidFormat {
			return OutcomeInvalidFormat
		}
		return OutcomeValidation
	case domain.KindQuota:
		return OutcomeRateLimited
	case domain.KindSize:
		return OutcomeTooLarge
	case domain.KindConfiguration:
		return OutcomeConfiguration
	case domain.KindUnavailable:
		return OutcomeUnavailable
	default:
		return OutcomeDeliveryFail
	}
}

func (h *Handler) clientHash(r *http.Request) string {
	keyFn := h.KeyFn
	if keyFn == nil {
		keyFn = ratelimit.DefaultKeyFunc("", false)
	}
	return application.Fingerprint(h.HashKey, keyFn(r))
}

func (h *Handler) maxBody() int64 {
	if h.MaxBodyBytes <= 0 {
		return MaxBodyBytes
	}
	return h.MaxBodyBytes
}
