package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dandihq/dandi-api/internal/queue"
)

// UsageWorker persists usage events emitted by the validator so the dashboard
// can chart per-key activity without touching the hot counter.
type UsageWorker struct {
	db *pgxpool.Pool
}

func NewUsageWorker(db *pgxpool.Pool) *UsageWorker {
	return &UsageWorker{db: db}
}

func (w *UsageWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.UsageRecordPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal usage payload: %w", err)
	}

	_, err := w.db.Exec(ctx,
		`INSERT INTO usage_logs (api_key_id, key_name, endpoint, recorded_at)
		 VALUES ($1, $2, $3, $4)`,
		payload.APIKeyID, payload.KeyName, payload.Endpoint, payload.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("insert usage log: %w", err)
	}

	slog.Debug("recorded key usage", "key_id", payload.APIKeyID, "endpoint", payload.Endpoint)
	return nil
}
