package sqlite

import (
	"context"

	"github.com/aussiebroadwan/doorsign/internal/doorsign/domain"
)

type statusHistoryRepo struct {
	q dbtx
}

func (r *statusHistoryRepo) Create(ctx context.Context, h domain.StatusHistory) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO status_history (id, user_id, status, custom_text, changed_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		h.ID, h.UserID, h.Status, h.CustomText, h.ChangedBy, h.CreatedAt,
	)
	return err
}

func (r *statusHistoryRepo) ListForUser(ctx context.Context, userID string, limit int) ([]domain.StatusHistory, error) {
	// created_at can collide within a millisecond under test load; the
	// ULID id is time-ordered and breaks those ties.
	query := `SELECT id, user_id, status, custom_text, changed_by, created_at
		FROM status_history WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.StatusHistory
	for rows.Next() {
		var h domain.StatusHistory
		if err := rows.Scan(&h.ID, &h.UserID, &h.Status, &h.CustomText, &h.ChangedBy, &h.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, h)
	}
	return entries, rows.Err()
}
