package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/doorsign/internal/doorsign/domain"
	"github.com/aussiebroadwan/doorsign/internal/doorsign/store"
	"github.com/aussiebroadwan/doorsign/pkg/idx"
)

// OptionService manages the admin-curated quick-select catalog. The
// catalog only suggests; stored user statuses remain free text.
type OptionService struct {
	Store store.Store
}

type OptionParams struct {
	Name      string
	Color     string
	SortOrder string
}

func (p OptionParams) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrValidation)
	}
	if utf8.RuneCountInString(p.Name) > domain.MaxStatusLen {
		return fmt.Errorf("%w: name exceeds %d characters", ErrValidation, domain.MaxStatusLen)
	}
	if !domain.ValidOptionColor(p.Color) {
		return fmt.Errorf("%w: unknown color %q", ErrValidation, p.Color)
	}
	// SortOrder is free text on purpose: unparsable values are legal and
	// simply sort last.
	return nil
}

func (s *OptionService) List(ctx context.Context) ([]domain.StatusOption, error) {
	return s.Store.StatusOptions().List(ctx)
}

func (s *OptionService) Create(ctx context.Context, actor Identity, p OptionParams) (domain.StatusOption, error) {
	if err := RequireAdmin(actor); err != nil {
		return domain.StatusOption{}, err
	}
	if err := p.validate(); err != nil {
		return domain.StatusOption{}, err
	}

	opt := domain.StatusOption{
		ID:        idx.New().String(),
		Name:      strings.TrimSpace(p.Name),
		Color:     p.Color,
		SortOrder: p.SortOrder,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Store.StatusOptions().Create(ctx, opt); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.StatusOption{}, fmt.Errorf("%w: option %q exists", ErrDuplicate, opt.Name)
		}
		return domain.StatusOption{}, err
	}
	return opt, nil
}

func (s *OptionService) Update(ctx context.Context, actor Identity, id string, p OptionParams) (domain.StatusOption, error) {
	if err := RequireAdmin(actor); err != nil {
		return domain.StatusOption{}, err
	}
	if err := p.validate(); err != nil {
		return domain.StatusOption{}, err
	}

	opt := domain.StatusOption{
		ID:        id,
		Name:      strings.TrimSpace(p.Name),
		Color:     p.Color,
		SortOrder: p.SortOrder,
	}
	if err := s.Store.StatusOptions().Update(ctx, opt); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return domain.StatusOption{}, ErrNotFound
		case errors.Is(err, store.ErrAlreadyExists):
			return domain.StatusOption{}, fmt.Errorf("%w: option %q exists", ErrDuplicate, opt.Name)
		}
		return domain.StatusOption{}, err
	}
	return s.Store.StatusOptions().Get(ctx, id)
}

func (s *OptionService) Delete(ctx context.Context, actor Identity, id string) error {
	if err := RequireAdmin(actor); err != nil {
		return err
	}
	err := s.Store.StatusOptions().Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
