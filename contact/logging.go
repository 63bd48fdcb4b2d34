package contact

import (
	"context"
	"net/http"
	"time"

	"contact-gateway/tracing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type loggerKey struct{}

// WithLogger guarda o logger da requisição no contexto.
func WithLogger(ctx context.Context, logger logrus.FieldLogger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// LoggerFromContext devolve o logger da requisição ou o logger padrão.
func LoggerFromContext(ctx context.Context) logrus.FieldLogger {
	if l, ok := ctx.Value(loggerKey{}).(logrus.FieldLogger); ok && l != nil {
		return l
	}
	return logrus.StandardLogger()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// RequestLogger anexa um logger com request_id ao contexto e registra uma
// linha por requisição ao final.
func RequestLogger(base logrus.FieldLogger) func(next http.Handler) http.Handler {
	if base == nil {
		base = logrus.StandardLogger()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", requestID)

			ctx, span := tracing.StartSpan(r.Context(), "http.request")
			defer span.End()

			fields := logrus.Fields{"request_id": requestID}
			if traceID := tracing.TraceID(ctx); traceID != "" {
				fields["trace_id"] = traceID
			}
			logger := base.WithFields(fields)

			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r.WithContext(WithLogger(ctx, logger)))

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.WithFields(logrus.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      status,
				"bytes":       rec.bytes,
				"duration_ms": time.Since(start).Milliseconds(),
			}).Info("request completed")
		})
	}
}
