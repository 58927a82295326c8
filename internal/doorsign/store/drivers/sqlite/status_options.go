package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/doorsign/internal/doorsign/domain"
	"github.com/aussiebroadwan/doorsign/internal/doorsign/store"
)

type statusOptionsRepo struct {
	q dbtx
}

// requireAffected turns a zero-row UPDATE/DELETE into ErrNotFound so
// mutations on missing ids fail loudly instead of silently succeeding.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *statusOptionsRepo) List(ctx context.Context) ([]domain.StatusOption, error) {
	// rowid order preserves insertion order for the tie rule; the
	// numeric comparison lives in domain.SortOptions, shared with the
	// memory driver.
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, name, color, sort_order, created_at FROM status_options ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var opts []domain.StatusOption
	for rows.Next() {
		var o domain.StatusOption
		if err := rows.Scan(&o.ID, &o.Name, &o.Color, &o.SortOrder, &o.CreatedAt); err != nil {
			return nil, err
		}
		opts = append(opts, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	domain.SortOptions(opts)
	return opts, nil
}

func (r *statusOptionsRepo) Get(ctx context.Context, id string) (domain.StatusOption, error) {
	var o domain.StatusOption
	err := r.q.QueryRowContext(ctx,
		`SELECT id, name, color, sort_order, created_at FROM status_options WHERE id = ?`, id).
		Scan(&o.ID, &o.Name, &o.Color, &o.SortOrder, &o.CreatedAt)
	if err != nil {
		return domain.StatusOption{}, mapNotFound(err)
	}
	return o, nil
}

func (r *statusOptionsRepo) Create(ctx context.Context, o domain.StatusOption) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO status_options (id, name, color, sort_order, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		o.ID, o.Name, o.Color, o.SortOrder, o.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *statusOptionsRepo) Update(ctx context.Context, o domain.StatusOption) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE status_options SET name = ?, color = ?, sort_order = ? WHERE id = ?`,
		o.Name, o.Color, o.SortOrder, o.ID,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireAffected(res)
}

func (r *statusOptionsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM status_options WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
