package contact

import (
	"net/http"

	"contact-gateway/middleware/cors"
	"contact-gateway/middleware/ratelimit"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Path é a única rota atendida.
const Path = "/api/contact"

type RouterConfig struct {
	Handler *Handler
	CORS    cors.Options
	// RateLimit nil desliga o rate limit. OnReject é preenchido com o
	// Handler quando vazio.
	RateLimit   *ratelimit.Options
	Concurrency ratelimit.ConcurrencyOptions
	Logger      logrus.FieldLogger
}

// NewRouter monta a cadeia completa: CORS e log por fora do roteador;
// tamanho, rate limit e concorrência só na rota de contato.
func NewRouter(cfg RouterConfig) http.Handler {
	h := cfg.Handler

	var route http.Handler = h
	if cfg.Concurrency.OnReject == nil {
		cfg.Concurrency.OnReject = h.RejectUnavailable
	}
	if cfg.Concurrency.Logger == nil {
		cfg.Concurrency.Logger = cfg.Logger
	}
	route = ratelimit.ConcurrencyMiddleware(cfg.Concurrency)(route)
	if cfg.RateLimit != nil {
		opts := *cfg.RateLimit
		if opts.OnReject == nil {
			opts.OnReject = h.RejectRateLimited
		}
		if opts.KeyFn == nil {
			opts.KeyFn = ratelimit.DefaultKeyFunc(opts.KeyHeader, opts.TrustXForwardedFor)
		}
		if opts.Logger == nil {
			opts.Logger = cfg.Logger
		}
		if h.KeyFn == nil {
			h.KeyFn = opts.KeyFn
		}
		route = ratelimit.Middleware(opts)(route)
	}
	route = SizeLimit(h.maxBody(), h.RejectTooLarge)(route)

	r := mux.NewRouter()
	r.Handle(Path, route).Methods(http.MethodPost)
	r.NotFoundHandler = http.HandlerFunc(NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(NotFound)

	var out http.Handler = r
	out = RequestLogger(cfg.Logger)(out)
	out = cors.Middleware(cfg.CORS)(out)
	return out
}
