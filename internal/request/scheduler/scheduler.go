// Package scheduler runs the two periodic sweeps of the data-request
// lifecycle: promoting cooling-off-elapsed deletion requests into the
// deletion pipeline and expiring download links past their retention window.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/awd2211/lnkday-privacy/internal/audit"
	"github.com/awd2211/lnkday-privacy/internal/request/metrics"
	"github.com/awd2211/lnkday-privacy/internal/request/models"
)

// DeletionProcessor is the slice of the orchestrator the deletion sweep
// drives.
type DeletionProcessor interface {
	RunDeletion(ctx context.Context, requestID uuid.UUID) error
}

// SweepStore exposes the queries and the idempotent field clear the sweeps
// need.
type SweepStore interface {
	ListDueDeletions(ctx context.Context, now time.Time) ([]*models.Request, error)
	ListExpiredDownloads(ctx context.Context, now time.Time) ([]*models.Request, error)
	ClearDownloadURL(ctx context.Context, id uuid.UUID) error
}

// BundleStore removes export payloads whose download window has closed.
type BundleStore interface {
	Delete(ctx context.Context, requestID uuid.UUID) error
}

const (
	defaultDeletionInterval = 1 * time.Hour
	defaultCleanupInterval  = 6 * time.Hour

	sweepDeletion = "deletion"
	sweepCleanup  = "export_cleanup"
)

// Option configures the Scheduler.
type Option func(*Scheduler)

// WithDeletionInterval overrides the deletion sweep interval when greater
// than zero.
func WithDeletionInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.deletionInterval = d
		}
	}
}

// WithCleanupInterval overrides the export-cleanup sweep interval when
// greater than zero.
func WithCleanupInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.cleanupInterval = d
		}
	}
}

// WithClock overrides the time source used to evaluate due dates. Tests
// advance a virtual clock instead of sleeping; tick cadence still comes from
// the wall clock.
func WithClock(clock func() time.Time) Option {
	return func(s *Scheduler) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithMetrics sets the metrics instance.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// WithAuditor sets the audit publisher. The cleanup sweep records an
// export_expired event per cleared link.
func WithAuditor(a *audit.Publisher) Option {
	return func(s *Scheduler) { s.auditor = a }
}

// WithBundleStore lets the cleanup sweep delete the stored bundle alongside
// clearing the link.
func WithBundleStore(b BundleStore) Option {
	return func(s *Scheduler) { s.bundles = b }
}

// Scheduler owns the two sweep loops. The design assumes a single active
// instance; the status-predicate claims in the pipelines bound the damage of
// an accidental second instance but do not make concurrent schedulers a
// supported deployment.
type Scheduler struct {
	processor DeletionProcessor
	store     SweepStore
	logger    *slog.Logger
	metrics   *metrics.Metrics
	auditor   *audit.Publisher
	bundles   BundleStore

	deletionInterval time.Duration
	cleanupInterval  time.Duration
	clock            func() time.Time

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// New constructs a Scheduler with required dependencies and options applied.
func New(processor DeletionProcessor, store SweepStore, logger *slog.Logger, opts ...Option) (*Scheduler, error) {
	if processor == nil || store == nil {
		return nil, fmt.Errorf("processor and store are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{
		processor:        processor,
		store:            store,
		logger:           logger,
		deletionInterval: defaultDeletionInterval,
		cleanupInterval:  defaultCleanupInterval,
		clock:            time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Start launches both sweep loops. They run until Stop is called or the
// context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.loop(runCtx, s.deletionInterval, sweepDeletion, s.RunDeletionSweep)
	}()
	go func() {
		defer wg.Done()
		s.loop(runCtx, s.cleanupInterval, sweepCleanup, s.RunCleanupSweep)
	}()
	go func() {
		wg.Wait()
		close(s.done)
	}()

	s.logger.Info("lifecycle scheduler started",
		"deletion_interval", s.deletionInterval.String(),
		"cleanup_interval", s.cleanupInterval.String(),
	)
	return nil
}

// Stop cancels the sweep loops and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.cancel()
	<-s.done
	s.running = false
	s.logger.Info("lifecycle scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, interval time.Duration, name string, run func(context.Context) (int, error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := run(ctx); err != nil {
				s.logger.ErrorContext(ctx, "sweep failed", "sweep", name, "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// RunDeletionSweep processes every deletion request whose cooling-off period
// has elapsed. One item's failure is logged and does not abort the batch;
// failed requests stay failed and are not re-picked. Returns the number of
// successfully processed items.
func (s *Scheduler) RunDeletionSweep(ctx context.Context) (int, error) {
	start := time.Now()
	now := s.clock()

	due, err := s.store.ListDueDeletions(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list due deletions: %w", err)
	}

	processed := 0
	for _, request := range due {
		if err := s.processor.RunDeletion(ctx, request.ID); err != nil {
			s.logger.ErrorContext(ctx, "deletion sweep item failed",
				"request_id", request.ID.String(),
				"user_id", request.UserID.String(),
				"error", err,
			)
			continue
		}
		processed++
	}

	s.observeSweep(sweepDeletion, processed, time.Since(start))
	s.logger.InfoContext(ctx, "deletion sweep completed",
		"due", len(due),
		"processed", processed,
	)
	return processed, nil
}

// RunCleanupSweep nulls the download link of every completed export whose
// retention window has passed. Clearing is idempotent; a second run over the
// same window finds nothing to do.
func (s *Scheduler) RunCleanupSweep(ctx context.Context) (int, error) {
	start := time.Now()
	now := s.clock()

	expired, err := s.store.ListExpiredDownloads(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list expired downloads: %w", err)
	}

	cleared := 0
	for _, request := range expired {
		if err := s.store.ClearDownloadURL(ctx, request.ID); err != nil {
			s.logger.ErrorContext(ctx, "cleanup sweep item failed",
				"request_id", request.ID.String(),
				"error", err,
			)
			continue
		}
		if s.bundles != nil {
			if err := s.bundles.Delete(ctx, request.ID); err != nil {
				s.logger.WarnContext(ctx, "expired bundle removal failed",
					"request_id", request.ID.String(),
					"error", err,
				)
			}
		}
		if s.auditor != nil {
			_ = s.auditor.Emit(ctx, audit.Event{
				UserID:    request.UserID.String(),
				Action:    audit.ActionExportExpired,
				Subject:   request.ID.String(),
				Timestamp: now,
			})
		}
		cleared++
	}

	s.observeSweep(sweepCleanup, cleared, time.Since(start))
	s.logger.InfoContext(ctx, "export cleanup sweep completed",
		"expired", len(expired),
		"cleared", cleared,
	)
	return cleared, nil
}

func (s *Scheduler) observeSweep(name string, processed int, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.AddSweepProcessed(name, float64(processed))
	s.metrics.ObserveSweepDuration(name, elapsed.Seconds())
}
