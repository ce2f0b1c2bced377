// Package tracking runs the background location poller.
package tracking

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"women-safety/internal/geocode"
	"women-safety/internal/logger"
	"women-safety/internal/models"
)

// Recorder persists tracking rows.
type Recorder interface {
	AppendLog(ctx context.Context, entry models.LogEntry) (models.LogEntry, error)
}

// Tracker owns at most one polling goroutine. Each iteration resolves the
// current location, appends a tracking row, then waits for the interval or
// cancellation, whichever comes first. A lookup that finds no match is
// recorded as LocationUnavailable; transport and store failures skip the row.
type Tracker struct {
	locator  geocode.Locator
	recorder Recorder
	interval time.Duration
	logger   logger.Logger
	now      func() time.Time

	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	onRecord func(models.LogEntry)
}

func NewTracker(locator geocode.Locator, recorder Recorder, interval time.Duration, log logger.Logger) *Tracker {
	return &Tracker{
		locator:  locator,
		recorder: recorder,
		interval: interval,
		logger:   log,
		now:      time.Now,
	}
}

// SetRecordHandler registers a callback run after each successful append.
// It is called from the polling goroutine.
func (t *Tracker) SetRecordHandler(fn func(models.LogEntry)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onRecord = fn
}

// Start launches the poller. It returns false if one is already running.
func (t *Tracker) Start(ctx context.Context) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.startLocked(ctx)
}

// Stop cancels the poller and waits for it to exit. It returns false if
// nothing was running.
func (t *Tracker) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopLocked()
}

// Toggle flips between running and stopped and reports the new state.
func (t *Tracker) Toggle(ctx context.Context) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.reapLocked()
	if t.cancel != nil {
		t.stopLocked()
		return false
	}
	return t.startLocked(ctx)
}

// Running reports whether a poller is active. A poller whose parent context
// was cancelled counts as stopped.
func (t *Tracker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reapLocked()
	return t.cancel != nil
}

// Shutdown stops the poller for the shutdown manager.
func (t *Tracker) Shutdown() {
	t.Stop()
}

func (t *Tracker) startLocked(ctx context.Context) bool {
	t.reapLocked()
	if t.cancel != nil {
		return false
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	t.cancel = cancel
	t.done = done

	t.logger.Info("Tracker", "location tracking started", map[string]interface{}{
		"interval": t.interval.String(),
	})
	go t.run(runCtx, done, t.onRecord)
	return true
}

func (t *Tracker) stopLocked() bool {
	t.reapLocked()
	if t.cancel == nil {
		return false
	}
	t.cancel()
	<-t.done
	t.cancel = nil
	t.done = nil

	t.logger.Info("Tracker", "location tracking stopped", nil)
	return true
}

// reapLocked clears the state of a poller that exited on its own.
func (t *Tracker) reapLocked() {
	if t.done == nil {
		return
	}
	select {
	case <-t.done:
		t.cancel()
		t.cancel = nil
		t.done = nil
		t.logger.Info("Tracker", "location tracking ended with its parent context", nil)
	default:
	}
}

func (t *Tracker) run(ctx context.Context, done chan struct{}, onRecord func(models.LogEntry)) {
	defer close(done)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		entry, err := t.poll(ctx)
		switch {
		case err == nil:
			if onRecord != nil {
				onRecord(entry)
			}
		case ctx.Err() != nil:
			return
		default:
			t.logger.Warning("Tracker", "tracking iteration skipped", map[string]interface{}{
				"error": err.Error(),
			})
		}

		timer.Reset(t.interval)
	}
}

func (t *Tracker) poll(ctx context.Context) (models.LogEntry, error) {
	location := models.LocationUnavailable
	fix, err := t.locator.CurrentLocation(ctx)
	switch {
	case err == nil:
		location = fix.Description
	case errors.Is(err, geocode.ErrNotFound):
		// a lookup that answered with nothing still counts as a fix
		t.logger.Debug("Tracker", "no location match", map[string]interface{}{
			"error": err.Error(),
		})
	default:
		return models.LogEntry{}, errors.Wrap(err, "resolve location")
	}

	entry, err := t.recorder.AppendLog(ctx, models.LogEntry{
		Timestamp: t.now(),
		Location:  location,
		Type:      models.LogTypeTracking,
	})
	if err != nil {
		return models.LogEntry{}, errors.Wrap(err, "append tracking row")
	}

	t.logger.Debug("Tracker", "location recorded", map[string]interface{}{
		"id":       entry.ID,
		"location": entry.Location,
	})
	return entry, nil
}
