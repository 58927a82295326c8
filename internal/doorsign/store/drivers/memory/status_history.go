package memory

import (
	"context"
	"sort"

	"github.com/aussiebroadwan/doorsign/internal/doorsign/domain"
)

type statusHistoryRepo struct {
	a accessor
}

func (r *statusHistoryRepo) Create(ctx context.Context, h domain.StatusHistory) error {
	defer r.a.lock()()

	r.a.st.history = append(r.a.st.history, h)
	return nil
}

func (r *statusHistoryRepo) ListForUser(ctx context.Context, userID string, limit int) ([]domain.StatusHistory, error) {
	defer r.a.rlock()()

	var entries []domain.StatusHistory
	for _, h := range r.a.st.history {
		if h.UserID == userID {
			entries = append(entries, h)
		}
	}

	// Newest first; the time-ordered ULID id breaks equal-timestamp ties
	// the same way the sqlite query does.
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].ID > entries[j].ID
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
