// Package client é o lado de quem envia o formulário: valida localmente, roda
// a checagem de spam estrita, respeita um intervalo mínimo entre envios e só
// então faz um único POST ao endpoint de contato.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"contact-gateway/contact/application"
	"contact-gateway/contact/domain"

	"github.com/sirupsen/logrus"
)

const (
	DefaultMinInterval = 30 * time.Second

	MessageSpam = "Your message was flagged as potential spam. Please revise it and try again."
)

// Result é o que a interface mostra ao visitante.
type Result struct {
	Success bool
	// Status é 0 quando a submissão foi barrada antes da rede.
	Status     int
	Message    string
	Errors     []string
	RetryAfter time.Duration
}

type Client struct {
	endpoint    string
	httpClient  *http.Client
	minInterval time.Duration
	now         func() time.Time
	logger      logrus.FieldLogger

	mu   sync.Mutex
	last time.Time
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

func WithMinInterval(d time.Duration) Option {
	return func(cl *Client) { cl.minInterval = d }
}

func WithClock(now func() time.Time) Option {
	return func(cl *Client) {
		if now != nil {
			cl.now = now
		}
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(cl *Client) {
		if l != nil {
			cl.logger = l
		}
	}
}

// New cria um cliente para a URL completa do endpoint (ex.:
// https://example.com/api/contact).
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:    endpoint,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		minInterval: DefaultMinInterval,
		now:         time.Now,
		logger:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type payload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Message   string `json:"message"`
}

type envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

// Submit só devolve erro para falhas de transporte; rejeições locais e
// respostas do servidor vêm em Result.
func (c *Client) Submit(ctx context.Context, in domain.SubmissionInput) (Result, error) {
	res := application.Validate(in)
	if !res.Valid {
		return Result{Message: application.MessageValidationFailed, Errors: res.Errors}, nil
	}

	verdict := application.CheckSpam(strings.TrimSpace(in.Message), true)
	if strings.TrimSpace(in.Website) != "" {
		verdict.Spam = true
		verdict.Signals = append(verdict.Signals, application.SignalHoneypot)
	}
	if verdict.Spam {
		c.logger.WithField("signals", verdict.Signals).Debug("submission blocked locally as spam")
		return Result{Message: MessageSpam}, nil
	}

	if wait := c.reserve(); wait > 0 {
		secs := int((wait + time.Second - 1) / time.Second)
		return Result{
			Message:    fmt.Sprintf("Please wait %d seconds before submitting again.", secs),
			RetryAfter: wait,
		}, nil
	}

	body, err := json.Marshal(payload{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Message:   strings.TrimSpace(in.Message),
	})
	if err != nil {
		return Result{}, fmt.Errorf("encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("submit contact form: %w", err)
	}
	defer resp.Body.Close()

	out := Result{Status: resp.StatusCode}
	var env envelope
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &env); err != nil {
		out.Message = http.StatusText(resp.StatusCode)
	} else {
		out.Success = env.Success
		out.Message = env.Message
		out.Errors = env.Errors
	}
	if s, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && s > 0 {
		out.RetryAfter = time.Duration(s) * time.Second
	}

	c.logger.WithFields(logrus.Fields{
		"status":  resp.StatusCode,
		"success": out.Success,
	}).Debug("contact form submitted")
	return out, nil
}

// reserve marca o envio atual e devolve quanto falta quando o anterior foi
// há menos de minInterval.
func (c *Client) reserve() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if !c.last.IsZero() && c.minInterval > 0 {
		if elapsed := now.Sub(c.last); elapsed < c.minInterval {
			return c.minInterval - elapsed
		}
	}
	c.last = now
	return 0
}
