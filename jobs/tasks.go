package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskPublicationAudit is the task type for the stored-versus-derived
	// publication consistency check.
	TaskPublicationAudit = "publications:audit"
)

// PublicationAuditPayload carries the audit request.
type PublicationAuditPayload struct {
	RequestedAt time.Time `json:"requested_at"`
}

// PublicationAuditor recomputes publication state and reports mismatches
// against the stored rows.
type PublicationAuditor interface {
	AuditPublications(ctx context.Context) (int, error)
}

// NewPublicationAuditTask constructs an Asynq task.
func NewPublicationAuditTask() (*asynq.Task, error) {
	data, err := json.Marshal(PublicationAuditPayload{RequestedAt: time.Now().UTC()})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPublicationAudit, data), nil
}

// NewPublicationAuditHandler builds the handler for TaskPublicationAudit.
func NewPublicationAuditHandler(logger *slog.Logger, auditor PublicationAuditor) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload PublicationAuditPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		mismatches, err := auditor.AuditPublications(ctx)
		if err != nil {
			return err
		}
		if mismatches > 0 {
			logger.Warn("publication audit found mismatches", slog.Int("mismatches", mismatches))
			return nil
		}
		logger.Info("publication audit clean")
		return nil
	}
}
