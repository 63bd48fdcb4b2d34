package domain

import (
	"context"
	"time"
)

// AuditKind separa registros de erro (terminações anormais) de registros de
// analytics (entregas e spam suprimido), que vão para stores diferentes.
type AuditKind string

const (
	AuditError     AuditKind = "error"
	AuditAnalytics AuditKind = "analytics"
)

// AuditEvent é gravado em background ao fim de uma submissão.
type AuditEvent struct {
	ID           string            `json:"id"`
	Kind         AuditKind         `json:"kind"`
	Outcome      string            `json:"outcome"`
	Status       int               `json:"status"`
	Message      string            `json:"message,omitempty"`
	Details      []string          `json:"details,omitempty"`
	ClientHash   string            `json:"client_hash,omitempty"`
	SubmissionID string            `json:"submission_id,omitempty"`
	Fields       map[string]string `json:"fields,omitempty"`
	At           time.Time         `json:"at"`
}

// AuditStore persiste eventos; erros são sempre descartados por quem chama.
type AuditStore interface {
	Write(ctx context.Context, ev AuditEvent) error
}
