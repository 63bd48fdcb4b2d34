package application

import (
	"context"
	"encoding/hex"
	"sync"
	"time"

	"contact-gateway/contact/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
)

// Auditor grava eventos de auditoria em background. Nenhuma falha de escrita
// chega a quem chamou: o erro é logado em debug e descartado.
type Auditor struct {
	Errors    domain.AuditStore
	Analytics domain.AuditStore
	Logger    logrus.FieldLogger
	Timeout   time.Duration

	wg sync.WaitGroup
}

// Record dispara a escrita sem bloquear. O ctx da requisição só empresta os
// valores: o cancelamento dele não interrompe a escrita.
func (a *Auditor) Record(ctx context.Context, ev domain.AuditEvent) {
	if a == nil {
		return
	}
	store := a.Errors
	if ev.Kind == domain.AuditAnalytics {
		store = a.Analytics
	}
	if store == nil {
		return
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	timeout := a.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer cancel()
		defer func() {
			if rec := recover(); rec != nil {
				a.logger().WithField("panic", rec).Debug("audit write panicked")
			}
		}()
		if err := store.Write(writeCtx, ev); err != nil {
			a.logger().WithError(err).WithFields(logrus.Fields{
				"audit_kind":    ev.Kind,
				"audit_outcome": ev.Outcome,
			}).Debug("audit write failed")
		}
	}()
}

// Wait espera as escritas pendentes (shutdown e testes).
func (a *Auditor) Wait() {
	if a == nil {
		return
	}
	a.wg.Wait()
}

func (a *Auditor) logger() logrus.FieldLogger {
	if a.Logger == nil {
		return logrus.StandardLogger()
	}
	return a.Logger
}

// Fingerprint gera um identificador curto e estável do endereço do cliente
// para logs e auditoria, sem expor o IP. key pode ser vazia.
func Fingerprint(key []byte, addr string) string {
	if addr == "" {
		return ""
	}
	h, err := blake2b.New(16, key)
	if err != nil {
		// chave maior que 64 bytes; usa sem chave
		h, _ = blake2b.New(16, nil)
	}
	h.Write([]byte(addr))
	return hex.EncodeToString(h.Sum(nil))
}
