package shared

import (
	"context"

	"github.com/google/uuid"
)

// AuditEntry is one write-only audit record. OldValues and NewValues hold
// whatever snapshot the caller considers useful; the sink stores them as JSON.
type AuditEntry struct {
	TenantID   uuid.UUID
	Action     string
	EntityType string
	EntityID   uuid.UUID
	ActorID    *uuid.UUID
	OldValues  map[string]interface{}
	NewValues  map[string]interface{}
	Metadata   map[string]interface{}
}

// AuditSink records audit entries. Implementations are fire-and-forget:
// Record never returns an error because audit failure must not fail the
// business operation.
type AuditSink interface {
	Record(ctx context.Context, entry AuditEntry)
}
