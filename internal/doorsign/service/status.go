package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/doorsign/internal/doorsign/domain"
	"github.com/aussiebroadwan/doorsign/internal/doorsign/epaper"
	"github.com/aussiebroadwan/doorsign/internal/doorsign/store"
	"github.com/aussiebroadwan/doorsign/pkg/idx"
	"github.com/aussiebroadwan/doorsign/pkg/slogx"
)

// StatusService runs the interactive status-update workflow: authorize,
// commit locally, then fire the best-effort side effects. Once the
// local commit succeeds the caller is told so, regardless of what the
// history log or the e-paper device do afterwards.
type StatusService struct {
	Store  store.Store
	Epaper *epaper.Client
}

// UpdateStatus changes targetID's status on behalf of actor.
//
// Failure semantics, in order:
//   - validation, missing target, authorization: returned to the caller,
//     nothing is written;
//   - the status commit itself: returned to the caller, no history row
//     and no push happen for a value that was never committed;
//   - history append and e-paper push: logged only. The user's status
//     did change, and saying otherwise would be misleading.
func (s *StatusService) UpdateStatus(ctx context.Context, actor Identity, targetID, status, customText string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	if err := validateStatusInput(status, customText); err != nil {
		return domain.User{}, err
	}

	target, err := s.Store.Users().GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}

	if err := RequireSelfOrAdmin(actor, target.ID); err != nil {
		return domain.User{}, err
	}

	if err := s.Store.Users().UpdateStatus(ctx, target.ID, status, customText); err != nil {
		return domain.User{}, err
	}

	// Committed. Everything below is best-effort.
	if err := s.Store.StatusHistory().Create(ctx, domain.StatusHistory{
		ID:         idx.New().String(),
		UserID:     target.ID,
		Status:     status,
		CustomText: customText,
		ChangedBy:  actor.ID,
		CreatedAt:  time.Now().UTC(),
	}); err != nil {
		log.Error("failed to log status change to history",
			slog.String("user_id", target.ID),
			slog.Any("error", err),
		)
	}

	if target.CanPush() {
		value := customText
		if value == "" {
			value = status
		}
		res := s.Epaper.Push(ctx, target.EpaperImportURL, target.EpaperImportKey, target.EpaperID, value)
		if res.Failed() {
			log.Warn("e-paper push failed, local update succeeded",
				slog.String("user_id", target.ID),
				slog.String("reason", res.Reason),
			)
		}
	}

	return s.Store.Users().GetByID(ctx, target.ID)
}

// History returns a user's status audit trail, newest first.
func (s *StatusService) History(ctx context.Context, userID string, limit int) ([]domain.StatusHistory, error) {
	if _, err := s.Store.Users().GetByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.Store.StatusHistory().ListForUser(ctx, userID, limit)
}

func validateStatusInput(status, customText string) error {
	if status == "" {
		return fmt.Errorf("%w: status must not be empty", ErrValidation)
	}
	if utf8.RuneCountInString(status) > domain.MaxStatusLen {
		return fmt.Errorf("%w: status exceeds %d characters", ErrValidation, domain.MaxStatusLen)
	}
	if utf8.RuneCountInString(customText) > domain.MaxStatusLen {
		return fmt.Errorf("%w: custom text exceeds %d characters", ErrValidation, domain.MaxStatusLen)
	}
	return nil
}
