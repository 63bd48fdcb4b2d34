package ratelimit

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"contact-gateway/middleware/ratelimit/application"
	"contact-gateway/middleware/ratelimit/domain"

	"github.com/sirupsen/logrus"
)

// UnknownKey agrupa todos os clientes sem endereço identificável num único
// bucket.
const UnknownKey = "unknown"

type KeyFunc func(r *http.Request) string

// RejectFunc escreve a resposta de uma requisição bloqueada. Retry-After e
// os headers X-RateLimit-* já estão definidos quando ela é chamada.
type RejectFunc func(w http.ResponseWriter, r *http.Request, dec domain.Decision)

type Options struct {
	Store              domain.CounterStore
	Policy             domain.Policy
	Stats              domain.StatsStore
	KeyFn              KeyFunc
	KeyHeader          string
	TrustXForwardedFor bool
	OnReject           RejectFunc
	Logger             logrus.FieldLogger

	// StatsKeyFn transforma a chave antes de ir para o StatsStore (ex.: hash
	// do IP). nil grava a chave como está.
	StatsKeyFn func(key string) string
	// StatsTimeout limita cada escrita de stats; padrão 2s.
	StatsTimeout time.Duration
}

// DefaultKeyFunc extrai o endereço do cliente, nesta ordem:
// keyHeader (ex.: CF-Connecting-IP da borda), X-Forwarded-For (primeiro IP,
// só se trustXFF), X-Real-IP, RemoteAddr e, por fim, UnknownKey.
func DefaultKeyFunc(keyHeader string, trustXFF bool) KeyFunc {
	return func(r *http.Request) string {
		if keyHeader != "" {
			if v := strings.TrimSpace(r.Header.Get(keyHeader)); v != "" {
				return v
			}
		}

		if trustXFF {
			// primeiro IP do X-Forwarded-For (cliente original)
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				parts := strings.Split(xff, ",")
				if ip := strings.TrimSpace(parts[0]); ip != "" {
					return ip
				}
			}
			if v := strings.TrimSpace(r.Header.Get("X-Real-IP")); v != "" {
				return v
			}
		}

		host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
		if err == nil && host != "" {
			return host
		}
		if v := strings.TrimSpace(r.RemoteAddr); v != "" {
			return v
		}
		return UnknownKey
	}
}

func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc(opts.KeyHeader, opts.TrustXForwardedFor)
	}
	if opts.OnReject == nil {
		opts.OnReject = defaultReject
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.StatsTimeout <= 0 {
		opts.StatsTimeout = 2 * time.Second
	}

	svc := application.Service{
		Store:  opts.Store,
		Policy: opts.Policy,
		OnStoreError: func(key domain.Key, err error) {
			opts.Logger.WithError(err).Warn("rate limit store unavailable, failing open")
		},
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := opts.KeyFn(r)

			dec := svc.Decide(r.Context(), domain.Key(key))
			if opts.Stats != nil {
				recordStats(r, opts, key, dec)
			}

			w.Header().Set("X-RateLimit-Limit", formatInt(dec.Limit))
			w.Header().Set("X-RateLimit-Remaining", formatInt(dec.Remaining))
			if !dec.Allowed {
				w.Header().Set("Retry-After", formatSeconds(dec.RetryAfter))
				opts.OnReject(w, r, dec)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// recordStats grava a decisão em background: a resposta nunca espera pelo
// StatsStore, e o cancelamento da requisição não interrompe a escrita.
func recordStats(r *http.Request, opts Options, key string, dec domain.Decision) {
	if opts.StatsKeyFn != nil {
		key = opts.StatsKeyFn(key)
	}
	ev := domain.StatsEvent{
		Key:        domain.Key(key),
		Allowed:    dec.Allowed,
		FailedOpen: dec.FailedOpen,
		Method:     r.Method,
		Path:       r.URL.Path,
		At:         time.Now(),
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), opts.StatsTimeout)
	go func() {
		defer cancel()
		if err := opts.Stats.Record(ctx, ev); err != nil {
			opts.Logger.WithError(err).Debug("rate limit stats write failed")
		}
	}()
}

func defaultReject(w http.ResponseWriter, _ *http.Request, _ domain.Decision) {
	http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
}
