package memory

import (
	"context"
	"time"

	"github.com/aussiebroadwan/doorsign/internal/doorsign/domain"
	"github.com/aussiebroadwan/doorsign/internal/doorsign/store"
)

type usersRepo struct {
	a accessor
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	defer r.a.rlock()()

	u, ok := r.a.st.users[id]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return u, nil
}

func (r *usersRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	defer r.a.rlock()()

	for _, u := range r.a.st.users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, store.ErrNotFound
}

func (r *usersRepo) List(ctx context.Context) ([]domain.User, error) {
	defer r.a.rlock()()

	return sortedUsers(r.a.st.users), nil
}

func (r *usersRepo) Create(ctx context.Context, u domain.User) error {
	defer r.a.lock()()

	if _, ok := r.a.st.users[u.ID]; ok {
		return store.ErrAlreadyExists
	}
	for _, existing := range r.a.st.users {
		if existing.Username == u.Username {
			return store.ErrAlreadyExists
		}
	}
	r.a.st.users[u.ID] = u
	return nil
}

func (r *usersRepo) Update(ctx context.Context, u domain.User) error {
	defer r.a.lock()()

	current, ok := r.a.st.users[u.ID]
	if !ok {
		return store.ErrNotFound
	}
	for id, existing := range r.a.st.users {
		if id != u.ID && existing.Username == u.Username {
			return store.ErrAlreadyExists
		}
	}

	// Status fields are owned by UpdateStatus; carry them over untouched.
	u.CurrentStatus = current.CurrentStatus
	u.CustomStatusText = current.CustomStatusText
	u.LastUpdated = current.LastUpdated
	u.CreatedAt = current.CreatedAt
	r.a.st.users[u.ID] = u
	return nil
}

func (r *usersRepo) UpdateStatus(ctx context.Context, userID, status, customText string) error {
	defer r.a.lock()()

	u, ok := r.a.st.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	u.CurrentStatus = status
	u.CustomStatusText = customText
	u.LastUpdated = time.Now().UTC()
	r.a.st.users[userID] = u
	return nil
}

func (r *usersRepo) Delete(ctx context.Context, userID string) error {
	defer r.a.lock()()

	if _, ok := r.a.st.users[userID]; !ok {
		return store.ErrNotFound
	}
	delete(r.a.st.users, userID)

	// Cascade, like the sqlite FK does.
	kept := r.a.st.history[:0]
	for _, h := range r.a.st.history {
		if h.UserID != userID {
			kept = append(kept, h)
		}
	}
	r.a.st.history = kept
	return nil
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	defer r.a.rlock()()

	return len(r.a.st.users) == 0, nil
}
