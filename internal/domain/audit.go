package domain

import "time"

// AuditEventKind identifies the audit index an event is written to.
type AuditEventKind string

const (
	AuditEventLogin       AuditEventKind = "login"
	AuditEventProductView AuditEventKind = "product_view"
)

// AuditEvent is an append-only analytics record. Events are written best-effort
// to the search index and their loss is tolerated.
type AuditEvent struct {
	Kind      AuditEventKind         `json:"kind"`
	Timestamp time.Time              `json:"timestamp"`
	UserID    string                 `json:"user_id"`
	Payload   map[string]interface{} `json:"payload"`
}
