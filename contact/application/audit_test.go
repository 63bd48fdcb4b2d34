package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"contact-gateway/contact/domain"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureStore struct {
	mu     sync.Mutex
	events []domain.AuditEvent
	err    error
	ctxErr error
}

func (s *captureStore) Write(ctx context.Context, ev domain.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	s.ctxErr = ctx.Err()
	return s.err
}

func (s *captureStore) snapshot() []domain.AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AuditEvent(nil), s.events...)
}

func TestAuditor_RoutesByKind(t *testing.T) {
	errs, analytics := &captureStore{}, &captureStore{}
	a := &Auditor{Errors: errs, Analytics: analytics}

	a.Record(context.Background(), domain.AuditEvent{Kind: domain.AuditError, Outcome: "validation_failed", Status: 400})
	a.Record(context.Background(), domain.AuditEvent{Kind: domain.AuditAnalytics, Outcome: "delivered", Status: 200})
	a.Wait()

	require.Len(t, errs.snapshot(), 1)
	require.Len(t, analytics.snapshot(), 1)
	assert.Equal(t, "validation_failed", errs.snapshot()[0].Outcome)
	assert.NotEmpty(t, errs.snapshot()[0].ID)
	assert.False(t, errs.snapshot()[0].At.IsZero())
}

func TestAuditor_WriteOutlivesRequestContext(t *testing.T) {
	store := &captureStore{}
	a := &Auditor{Errors: store}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a.Record(ctx, domain.AuditEvent{Kind: domain.AuditError, Outcome: "delivery_failed"})
	a.Wait()

	require.Len(t, store.snapshot(), 1)
	assert.NoError(t, store.ctxErr)
}

func TestAuditor_WriteFailureIsSwallowed(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	a := &Auditor{Errors: &captureStore{err: errors.New("redis down")}, Logger: logger, Timeout: time.Second}

	a.Record(context.Background(), domain.AuditEvent{Kind: domain.AuditError})
	a.Wait()

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)
	assert.Equal(t, "audit write failed", hook.LastEntry().Message)
}

func TestAuditor_NilStoresAndReceiverAreNoops(t *testing.T) {
	var nilAuditor *Auditor
	assert.NotPanics(t, func() {
		nilAuditor.Record(context.Background(), domain.AuditEvent{})
		nilAuditor.Wait()
	})

	a := &Auditor{}
	assert.NotPanics(t, func() {
		a.Record(context.Background(), domain.AuditEvent{Kind: domain.AuditAnalytics})
		a.Wait()
	})
}

func TestFingerprint(t *testing.T) {
	fp := Fingerprint(nil, "203.0.113.9")

	assert.Len(t, fp, 32)
	assert.Equal(t, fp, Fingerprint(nil, "203.0.113.9"))
	assert.NotEqual(t, fp, Fingerprint(nil, "203.0.113.10"))
	assert.NotEqual(t, fp, Fingerprint([]byte("secret"), "203.0.113.9"))
	assert.NotContains(t, fp, "203")
	assert.Empty(t, Fingerprint(nil, ""))
}
