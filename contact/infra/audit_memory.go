package infra

import (
	"context"
	"sync"

	"contact-gateway/contact/domain"
)

// MemoryAuditStore guarda os últimos eventos em memória (anel de tamanho fixo).
type MemoryAuditStore struct {
	mu     sync.Mutex
	max    int
	events []domain.AuditEvent
}

func NewMemoryAuditStore(max int) *MemoryAuditStore {
	if max <= 0 {
		max = 1000
	}
	return &MemoryAuditStore{max: max}
}

func (s *MemoryAuditStore) Write(_ context.Context, ev domain.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	if len(s.events) > s.max {
		s.events = s.events[len(s.events)-s.max:]
	}
	return nil
}

// Events devolve uma cópia, do mais antigo para o mais recente.
func (s *MemoryAuditStore) Events() []domain.AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AuditEvent(nil), s.events...)
}
