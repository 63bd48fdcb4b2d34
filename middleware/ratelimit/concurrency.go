package ratelimit

import (
	"net/http"
	"time"

	"contact-gateway/middleware/ratelimit/application"
	"contact-gateway/middleware/ratelimit/infra"

	"github.com/sirupsen/logrus"
)

type ConcurrencyOptions struct {
	Max            int
	AcquireTimeout time.Duration
	// OnReject escreve a resposta quando não há vaga; padrão 503 em texto.
	OnReject func(w http.ResponseWriter, r *http.Request)
	Logger   logrus.FieldLogger
}

// ConcurrencyMiddleware limita quantas requisições são processadas ao mesmo
// tempo. Max <= 0 desliga o limite.
func ConcurrencyMiddleware(opts ConcurrencyOptions) func(next http.Handler) http.Handler {
	if opts.Max <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.OnReject == nil {
		opts.OnReject = func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		}
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	svc := application.ConcurrencyService{
		Pool:           infra.NewChanPool(opts.Max),
		AcquireTimeout: opts.AcquireTimeout,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			release, ok := svc.Acquire(r.Context())
			if !ok {
				opts.Logger.WithFields(logrus.Fields{
					"in_use": svc.InUse(),
					"max":    opts.Max,
				}).Warn("no concurrency slot available")
				opts.OnReject(w, r)
				return
			}
			defer release()

			next.ServeHTTP(w, r)
		})
	}
}
