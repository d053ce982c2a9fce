package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/va2bbw/qle/pkg/models"
	"github.com/va2bbw/qle/pkg/watch"
)

// WatchManager manages auto-refresh of the mirror when the source changes
type WatchManager struct {
	enabled         bool
	interval        time.Duration
	lastRefresh     time.Time
	refreshCallback func() error
	newContactCount int
	isRunning       bool
	stopChan        chan struct{}
	watcher         *watch.Watcher
}

// NewWatchManager creates a new watch manager
func NewWatchManager(interval time.Duration) *WatchManager {
	if interval < time.Second {
		interval = time.Second
	}

	return &WatchManager{
		enabled:         false,
		interval:        interval,
		lastRefresh:     time.Now(),
		newContactCount: 0,
		isRunning:       false,
		stopChan:        make(chan struct{}),
	}
}

// AttachWatcher attaches a filesystem watcher for the source file
func (wm *WatchManager) AttachWatcher(w *watch.Watcher) {
	wm.watcher = w
}

// Enable enables watch mode
func (wm *WatchManager) Enable() error {
	if wm.enabled {
		return fmt.Errorf("watch already enabled")
	}

	wm.enabled = true
	wm.newContactCount = 0
	wm.lastRefresh = time.Now()

	return nil
}

// Disable disables watch mode
func (wm *WatchManager) Disable() error {
	if !wm.enabled {
		return fmt.Errorf("watch not enabled")
	}

	wm.enabled = false

	if wm.isRunning {
		wm.StopWatching()
	}

	return nil
}

// IsEnabled returns whether watch mode is enabled
func (wm *WatchManager) IsEnabled() bool {
	return wm.enabled
}

// SetRefreshCallback sets the callback function for refresh
func (wm *WatchManager) SetRefreshCallback(callback func() error) {
	wm.refreshCallback = callback
}

// RefreshNow invokes the refresh callback immediately
func (wm *WatchManager) RefreshNow() error {
	if wm.refreshCallback == nil {
		return fmt.Errorf("no refresh callback set")
	}

	err := wm.refreshCallback()
	wm.lastRefresh = time.Now()
	return err
}

// StartWatching starts the refresh loop
func (wm *WatchManager) StartWatching(ctx context.Context) error {
	if !wm.enabled {
		return fmt.Errorf("watch not enabled")
	}

	if wm.isRunning {
		return fmt.Errorf("watch already running")
	}

	wm.isRunning = true
	wm.stopChan = make(chan struct{})

	go wm.watchLoop(ctx)

	return nil
}

// StopWatching stops the refresh loop
func (wm *WatchManager) StopWatching() {
	if wm.isRunning {
		wm.isRunning = false
		close(wm.stopChan)
	}
}

// watchLoop refreshes on filesystem change events, with the ticker as
// a fallback for changes the watcher misses
func (wm *WatchManager) watchLoop(ctx context.Context) {
	ticker := time.NewTicker(wm.interval)
	defer ticker.Stop()

	var changed <-chan struct{}
	if wm.watcher != nil {
		changed = wm.watcher.Changed()
	}

	for {
		select {
		case <-ctx.Done():
			wm.isRunning = false
			return
		case <-wm.stopChan:
			wm.isRunning = false
			return
		case <-changed:
			wm.refresh()
		case <-ticker.C:
			wm.refresh()
		}
	}
}

func (wm *WatchManager) refresh() {
	if wm.refreshCallback == nil {
		return
	}
	if err := wm.refreshCallback(); err != nil {
		// Leave the mirror as is and retry on the next event
		_ = err
	}
	wm.lastRefresh = time.Now()
}

// GetLastRefreshTime returns the time of last refresh
func (wm *WatchManager) GetLastRefreshTime() time.Time {
	return wm.lastRefresh
}

// GetTimeSinceLastRefresh returns duration since last refresh
func (wm *WatchManager) GetTimeSinceLastRefresh() time.Duration {
	return time.Since(wm.lastRefresh)
}

// SetInterval sets the fallback refresh interval
func (wm *WatchManager) SetInterval(interval time.Duration) error {
	if interval < time.Second {
		return fmt.Errorf("interval must be at least 1 second")
	}

	if wm.isRunning {
		wm.StopWatching()
		wm.interval = interval
		return nil
	}

	wm.interval = interval
	return nil
}

// GetInterval returns the current interval
func (wm *WatchManager) GetInterval() time.Duration {
	return wm.interval
}

// IncrementNewContactCount increments the new contact count
func (wm *WatchManager) IncrementNewContactCount(count int) {
	wm.newContactCount += count
}

// GetNewContactCount returns the count of contacts added since last look
func (wm *WatchManager) GetNewContactCount() int {
	return wm.newContactCount
}

// ResetNewContactCount resets the new contact count
func (wm *WatchManager) ResetNewContactCount() {
	wm.newContactCount = 0
}

// GetStatus returns the current watch status
func (wm *WatchManager) GetStatus() map[string]interface{} {
	return map[string]interface{}{
		"enabled":      wm.enabled,
		"running":      wm.isRunning,
		"interval":     wm.interval.String(),
		"last_refresh": wm.lastRefresh,
		"new_contacts": wm.newContactCount,
	}
}

// ApplyToWatchState applies watch manager state to the model
func (wm *WatchManager) ApplyToWatchState(ws *models.WatchState) {
	ws.Enabled = wm.enabled
	ws.LastRefreshTime = wm.lastRefresh
	ws.RefreshInterval = wm.interval
	ws.NewContactCount = wm.newContactCount
}

// UpdateFromWatchState updates from the model state
func (wm *WatchManager) UpdateFromWatchState(ws models.WatchState) {
	wm.enabled = ws.Enabled
	wm.lastRefresh = ws.LastRefreshTime
	wm.interval = ws.RefreshInterval
	wm.newContactCount = ws.NewContactCount
}

// GetNextRefreshTime returns the estimated time of the next fallback refresh
func (wm *WatchManager) GetNextRefreshTime() time.Time {
	if !wm.isRunning {
		return time.Time{}
	}
	return wm.lastRefresh.Add(wm.interval)
}
