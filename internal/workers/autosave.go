package workers

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-journal-keeper/internal/config"
	"github.com/MKhiriev/go-journal-keeper/internal/logger"
	"github.com/MKhiriev/go-journal-keeper/models"
)

const defaultAutoSaveInterval = 5 * time.Second

// AutoSaveWorker periodically re-saves the entries currently open for
// editing. Handlers register the latest draft with Track; each flush saves
// the drafts that changed since the previous one. An auto-save and an
// explicit save of the same entry converge because both upsert by entry id.
type AutoSaveWorker struct {
	saver    EntrySaver
	interval time.Duration

	mu     sync.Mutex
	drafts map[string]models.Entry
	dirty  map[string]struct{}
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *logger.Logger
}

// NewAutoSaveWorker creates an AutoSaveWorker flushing at cfg.AutoSaveInterval.
// The worker is idle until Run or Start is called.
func NewAutoSaveWorker(saver EntrySaver, cfg config.Workers, logger *logger.Logger) *AutoSaveWorker {
	return &AutoSaveWorker{
		saver:    saver,
		interval: cfg.AutoSaveInterval,
		drafts:   make(map[string]models.Entry),
		dirty:    make(map[string]struct{}),
		logger:   logger,
	}
}

// Track registers entry as an open draft and marks it for the next flush.
// Tracking the same entry again replaces the draft.
func (w *AutoSaveWorker) Track(entry models.Entry) {
	if entry.ID == "" {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.drafts[entry.ID] = entry
	w.dirty[entry.ID] = struct{}{}
}

// Untrack removes the draft for entryID, typically when the entry is closed
// or deleted. Unknown IDs are a no-op.
func (w *AutoSaveWorker) Untrack(entryID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.drafts, entryID)
	delete(w.dirty, entryID)
}

// Run implements Worker. It starts the flush loop detached from any caller
// context; use Start directly when lifecycle control is needed.
func (w *AutoSaveWorker) Run() {
	w.Start(context.Background())
}

// Start stops any previously running loop, then launches a background
// goroutine that flushes dirty drafts every interval. If the configured
// interval is zero or negative it defaults to 5 seconds. The goroutine exits
// when ctx is cancelled or Stop is called.
func (w *AutoSaveWorker) Start(ctx context.Context) {
	interval := w.interval
	if interval <= 0 {
		interval = defaultAutoSaveInterval
	}

	w.Stop()

	w.mu.Lock()
	loopCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-loopCtx.Done():
				return
			case <-t.C:
				w.flush(loopCtx)
			}
		}
	}()
}

// Stop cancels the flush loop and blocks until it has fully exited. Safe to
// call when the worker is not running (no-op in that case).
func (w *AutoSaveWorker) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}

// flush saves every draft marked dirty since the last flush. A failed save
// re-marks its draft so the next tick retries it.
func (w *AutoSaveWorker) flush(ctx context.Context) {
	w.mu.Lock()
	pending := make([]models.Entry, 0, len(w.dirty))
	for entryID := range w.dirty {
		if draft, ok := w.drafts[entryID]; ok {
			pending = append(pending, draft)
		}
		delete(w.dirty, entryID)
	}
	w.mu.Unlock()

	for _, draft := range pending {
		if _, err := w.saver.SaveEntry(ctx, draft); err != nil {
			w.logger.Warn().Err(err).
				Str("func", "AutoSaveWorker.flush").
				Str("entry ID", draft.ID).
				Msg("auto-save failed, will retry next tick")

			w.mu.Lock()
			if _, stillTracked := w.drafts[draft.ID]; stillTracked {
				w.dirty[draft.ID] = struct{}{}
			}
			w.mu.Unlock()
		}
	}
}
