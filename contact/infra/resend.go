package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"contact-gateway/contact/domain"

	"golang.org/x/time/rate"
)

const (
	DefaultResendBaseURL = "https://api.resend.com"
	// limite de conta do Resend
	DefaultResendRPS = 2.0

	maxErrorBody = 4 << 10
)

// ProviderError é devolvido quando o provedor responde fora de 2xx.
type ProviderError struct {
	Status int
	Body   string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("email provider returned status %d: %s", e.Status, e.Body)
}

type resendPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text,omitempty"`
}

// ResendMailer envia pela API HTTP do Resend. As chamadas passam por um
// limiter local para não estourar o limite da conta quando várias
// submissões chegam juntas.
type ResendMailer struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

type ResendOption func(*ResendMailer)

func WithResendBaseURL(u string) ResendOption {
	return func(m *ResendMailer) {
		if u != "" {
			m.baseURL = strings.TrimRight(u, "/")
		}
	}
}

func WithHTTPClient(c *http.Client) ResendOption {
	return func(m *ResendMailer) {
		if c != nil {
			m.client = c
		}
	}
}

// WithRPS ajusta o limiter; rps <= 0 desliga o throttle.
func WithRPS(rps float64) ResendOption {
	return func(m *ResendMailer) {
		if rps <= 0 {
			m.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		m.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func NewResendMailer(apiKey string, opts ...ResendOption) *ResendMailer {
	m := &ResendMailer{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: DefaultResendBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	WithRPS(DefaultResendRPS)(m)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *ResendMailer) Configured() bool { return m.apiKey != "" }

func (m *ResendMailer) Send(ctx context.Context, msg domain.EmailMessage) error {
	if !m.Configured() {
		return domain.ErrMissingCredential
	}
	if err := m.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("resend throttle: %w", err)
	}

	body, err := json.Marshal(resendPayload{
		From:    msg.From,
		To:      msg.To,
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		return fmt.Errorf("encode resend payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build resend request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("resend request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &ProviderError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
