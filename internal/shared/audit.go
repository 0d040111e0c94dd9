package shared

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// AuditLog captures a mutating command for the tenant's audit trail.
type AuditLog struct {
	Action   string
	Entity   string
	EntityID string
	Meta     map[string]any
	At       time.Time
}

// AuditRecorder keeps a bounded in-memory trail and mirrors entries to the
// structured log. The demo engine has no durable storage, so the trail is
// capped rather than persisted.
type AuditRecorder struct {
	logger *slog.Logger
	limit  int

	mu      sync.Mutex
	entries []AuditLog
}

// NewAuditRecorder constructs the recorder.
func NewAuditRecorder(logger *slog.Logger, limit int) *AuditRecorder {
	if limit <= 0 {
		limit = 1000
	}
	return &AuditRecorder{logger: logger, limit: limit}
}

// Record appends an audit entry.
func (r *AuditRecorder) Record(ctx context.Context, entry AuditLog) error {
	if r == nil {
		return nil
	}
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}
	r.mu.Lock()
	r.entries = append(r.entries, entry)
	if len(r.entries) > r.limit {
		r.entries = r.entries[len(r.entries)-r.limit:]
	}
	r.mu.Unlock()
	if r.logger != nil {
		r.logger.InfoContext(ctx, "audit",
			slog.String("action", entry.Action),
			slog.String("entity", entry.Entity),
			slog.String("entity_id", entry.EntityID))
	}
	return nil
}

// Entries returns a copy of the recorded trail, oldest first.
func (r *AuditRecorder) Entries() []AuditLog {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]AuditLog, len(r.entries))
	copy(out, r.entries)
	return out
}
