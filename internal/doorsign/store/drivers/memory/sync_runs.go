package memory

import (
	"context"

	"github.com/aussiebroadwan/doorsign/internal/doorsign/domain"
	"github.com/aussiebroadwan/doorsign/internal/doorsign/store"
)

type syncRunsRepo struct {
	a accessor
}

func (r *syncRunsRepo) Create(ctx context.Context, run domain.SyncRun) error {
	defer r.a.lock()()

	r.a.st.syncRuns = append(r.a.st.syncRuns, run)
	return nil
}

func (r *syncRunsRepo) Latest(ctx context.Context) (domain.SyncRun, error) {
	defer r.a.rlock()()

	if len(r.a.st.syncRuns) == 0 {
		return domain.SyncRun{}, store.ErrNotFound
	}

	latest := r.a.st.syncRuns[0]
	for _, run := range r.a.st.syncRuns[1:] {
		if run.CreatedAt.After(latest.CreatedAt) ||
			(run.CreatedAt.Equal(latest.CreatedAt) && run.ID > latest.ID) {
			latest = run
		}
	}
	return latest, nil
}
