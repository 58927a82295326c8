package sqlite

import (
	"context"

	"github.com/aussiebroadwan/doorsign/internal/doorsign/domain"
)

type syncRunsRepo struct {
	q dbtx
}

func (r *syncRunsRepo) Create(ctx context.Context, run domain.SyncRun) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO sync_runs (id, success, error_message, updated_count, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Success, run.ErrorMessage, run.UpdatedCount, run.CreatedAt,
	)
	return err
}

func (r *syncRunsRepo) Latest(ctx context.Context) (domain.SyncRun, error) {
	var run domain.SyncRun
	err := r.q.QueryRowContext(ctx, `
		SELECT id, success, error_message, updated_count, created_at
		FROM sync_runs ORDER BY created_at DESC, id DESC LIMIT 1`).
		Scan(&run.ID, &run.Success, &run.ErrorMessage, &run.UpdatedCount, &run.CreatedAt)
	if err != nil {
		return domain.SyncRun{}, mapNotFound(err)
	}
	return run, nil
}
