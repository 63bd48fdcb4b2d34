// Package cors responde preflights e marca toda resposta com
// Access-Control-Allow-Origin. Fica por fora do roteador para que OPTIONS em
// qualquer caminho seja atendido antes da checagem de rota.
package cors

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

type Options struct {
	AllowOrigin  string
	AllowMethods []string
	AllowHeaders []string
	MaxAge       time.Duration
}

func DefaultOptions() Options {
	return Options{
		AllowOrigin:  "*",
		AllowMethods: []string{http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Content-Type"},
		MaxAge:       24 * time.Hour,
	}
}

func Middleware(opts Options) func(next http.Handler) http.Handler {
	def := DefaultOptions()
	if opts.AllowOrigin == "" {
		opts.AllowOrigin = def.AllowOrigin
	}
	if len(opts.AllowMethods) == 0 {
		opts.AllowMethods = def.AllowMethods
	}
	if len(opts.AllowHeaders) == 0 {
		opts.AllowHeaders = def.AllowHeaders
	}
	methods := strings.Join(opts.AllowMethods, ", ")
	headers := strings.Join(opts.AllowHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", opts.AllowOrigin)
			if opts.AllowOrigin != "*" {
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				if opts.MaxAge > 0 {
					w.Header().Set("Access-Control-Max-Age", strconv.Itoa(int(opts.MaxAge.Seconds())))
				}
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
