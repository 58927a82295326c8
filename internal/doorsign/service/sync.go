package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aussiebroadwan/doorsign/internal/doorsign/domain"
	"github.com/aussiebroadwan/doorsign/internal/doorsign/epaper"
	"github.com/aussiebroadwan/doorsign/internal/doorsign/store"
	"github.com/aussiebroadwan/doorsign/pkg/idx"
	"github.com/aussiebroadwan/doorsign/pkg/slogx"
)

// DefaultSyncConcurrency bounds how many provider pulls run at once
// during a reconciliation pass. Users are independent units of work and
// the provider calls dominate latency.
const DefaultSyncConcurrency = 4

// SyncService reconciles locally stored statuses against the e-paper
// provider and keeps the sync-run ledger. One ledger row is written per
// run, success or failure.
type SyncService struct {
	Store  store.Store
	Epaper *epaper.Client

	// Enabled gates sync-back entirely. When false the provider is
	// write-only (dashboard to device) and Run records an immediate
	// success with zero updates.
	Enabled     bool
	Concurrency int

	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

func NewSyncService(st store.Store, client *epaper.Client, enabled bool, interval time.Duration, logger *slog.Logger) *SyncService {
	return &SyncService{
		Store:       st,
		Epaper:      client,
		Enabled:     enabled,
		Concurrency: DefaultSyncConcurrency,
		Logger:      logger,
		Interval:    interval,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Run performs one reconciliation pass and records it in the ledger.
// Per-user failures (unreachable provider, bad payload) skip that user
// and the run carries on; only run-level failures, like the store being
// unreachable, mark the ledger entry as failed.
func (s *SyncService) Run(ctx context.Context) domain.SyncRun {
	log := slogx.FromContext(ctx)

	if !s.Enabled {
		return s.record(ctx, domain.SyncRun{Success: true})
	}

	users, err := s.Store.Users().List(ctx)
	if err != nil {
		log.Error("sync run could not list users", slog.Any("error", err))
		return s.record(ctx, domain.SyncRun{Success: false, ErrorMessage: err.Error()})
	}

	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultSyncConcurrency
	}

	var (
		mu      sync.Mutex
		updated int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, user := range users {
		if !user.CanPull() {
			continue
		}
		g.Go(func() error {
			// Errors stay inside the closure: one user's failure must
			// not cancel the group and abort the remaining users.
			statuses := s.Epaper.Pull(gctx, user.EpaperExportURL, user.EpaperExportKey)
			external, ok := statuses[user.StatusKey()]
			if !ok || external == "" || external == user.CurrentStatus {
				return nil
			}

			// The external value replaces both the status and any stale
			// custom text; the device shows one string.
			if err := s.Store.Users().UpdateStatus(gctx, user.ID, external, ""); err != nil {
				log.Warn("sync could not commit external status",
					slog.String("user_id", user.ID),
					slog.Any("error", err),
				)
				return nil
			}
			mu.Lock()
			updated++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return s.record(ctx, domain.SyncRun{Success: true, UpdatedCount: updated})
}

// record stamps and appends the ledger entry. A ledger write failure is
// logged but does not change the run outcome handed to the caller.
func (s *SyncService) record(ctx context.Context, run domain.SyncRun) domain.SyncRun {
	run.ID = idx.New().String()
	run.CreatedAt = time.Now().UTC()
	if err := s.Store.SyncRuns().Create(ctx, run); err != nil {
		slogx.FromContext(ctx).Error("failed to write sync ledger entry", slog.Any("error", err))
	}
	return run
}

// Latest returns the most recent ledger entry, or a synthetic success
// when no sync has ever run.
func (s *SyncService) Latest(ctx context.Context) (domain.SyncRun, error) {
	run, err := s.Store.SyncRuns().Latest(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return domain.SyncRun{Success: true, CreatedAt: time.Now().UTC()}, nil
	}
	return run, err
}

// Start launches the periodic background sync. A non-positive interval
// disables the loop; on-demand runs via the HTTP surface still work.
func (s *SyncService) Start() {
	if s.Interval <= 0 || !s.Enabled {
		close(s.doneCh)
		s.Logger.Info("periodic sync disabled")
		return
	}
	go s.loop()
	s.Logger.Info("periodic sync started", "interval", s.Interval)
}

// Stop shuts down the background loop, blocking until it exits.
func (s *SyncService) Stop() {
	close(s.stopCh)
	<-s.doneCh
}

func (s *SyncService) loop() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx := slogx.WithContext(context.Background(), s.Logger)
			run := s.Run(ctx)
			s.Logger.Info("periodic sync completed",
				"success", run.Success,
				"updated", run.UpdatedCount,
			)
		case <-s.stopCh:
			return
		}
	}
}
