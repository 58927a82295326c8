package memory

import (
	"context"

	"github.com/aussiebroadwan/doorsign/internal/doorsign/domain"
	"github.com/aussiebroadwan/doorsign/internal/doorsign/store"
)

type statusOptionsRepo struct {
	a accessor
}

func (r *statusOptionsRepo) List(ctx context.Context) ([]domain.StatusOption, error) {
	defer r.a.rlock()()

	opts := append([]domain.StatusOption(nil), r.a.st.options...)
	domain.SortOptions(opts)
	return opts, nil
}

func (r *statusOptionsRepo) Get(ctx context.Context, id string) (domain.StatusOption, error) {
	defer r.a.rlock()()

	for _, o := range r.a.st.options {
		if o.ID == id {
			return o, nil
		}
	}
	return domain.StatusOption{}, store.ErrNotFound
}

func (r *statusOptionsRepo) Create(ctx context.Context, o domain.StatusOption) error {
	defer r.a.lock()()

	for _, existing := range r.a.st.options {
		if existing.ID == o.ID || existing.Name == o.Name {
			return store.ErrAlreadyExists
		}
	}
	r.a.st.options = append(r.a.st.options, o)
	return nil
}

func (r *statusOptionsRepo) Update(ctx context.Context, o domain.StatusOption) error {
	defer r.a.lock()()

	idx := -1
	for i, existing := range r.a.st.options {
		if existing.ID == o.ID {
			idx = i
			continue
		}
		if existing.Name == o.Name {
			return store.ErrAlreadyExists
		}
	}
	if idx < 0 {
		return store.ErrNotFound
	}
	o.CreatedAt = r.a.st.options[idx].CreatedAt
	r.a.st.options[idx] = o
	return nil
}

func (r *statusOptionsRepo) Delete(ctx context.Context, id string) error {
	defer r.a.lock()()

	for i, existing := range r.a.st.options {
		if existing.ID == id {
			r.a.st.options = append(r.a.st.options[:i], r.a.st.options[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}
