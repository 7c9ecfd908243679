package sync

import (
	"context"
	"log"
	"os"
	"time"
)

// WatcherConfig configures the background sync watcher.
type WatcherConfig struct {
	// PollInterval is how often to probe the remote endpoint.
	PollInterval time.Duration

	// Logger for watcher activity.
	Logger *log.Logger
}

// DefaultWatcherConfig returns sensible defaults.
func DefaultWatcherConfig() *WatcherConfig {
	return &WatcherConfig{
		PollInterval: 30 * time.Second,
		Logger:       log.New(os.Stderr, "[watch] ", log.LstdFlags),
	}
}

// Watcher is the background trigger: it polls the remote endpoint, detects
// offline-to-online transitions, and runs a full sync on reconnect and on a
// periodic schedule while online. It stands in for the platform connectivity
// events a browser client would subscribe to.
type Watcher struct {
	service *Service
	config  *WatcherConfig
	online  bool
}

func NewWatcher(service *Service, config *WatcherConfig) *Watcher {
	if config == nil {
		config = DefaultWatcherConfig()
	}
	if config.Logger == nil {
		config.Logger = log.New(os.Stderr, "[watch] ", log.LstdFlags)
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultWatcherConfig().PollInterval
	}
	return &Watcher{
		service: service,
		config:  config,
	}
}

// Run blocks until ctx is cancelled, probing and syncing on each tick.
func (w *Watcher) Run(ctx context.Context) error {
	w.config.Logger.Printf("watching remote, poll interval %s", w.config.PollInterval)

	w.tick()

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.config.Logger.Printf("shutting down")
			return nil
		case <-ticker.C:
			w.tick()
		}
	}
}

func (w *Watcher) tick() {
	online := w.service.Online()
	if online && !w.online {
		w.config.Logger.Printf("remote reachable, starting full sync")
	}
	if !online && w.online {
		w.config.Logger.Printf("remote unreachable, changes will queue locally")
	}
	w.online = online
	if !online {
		return
	}

	result := w.service.FullSync()
	if !result.Success {
		w.config.Logger.Printf("full sync failed: %s", result.Error)
		return
	}
	if result.Synced > 0 || result.Conflicts > 0 || result.Failed > 0 {
		w.config.Logger.Printf("full sync: synced=%d conflicts=%d failed=%d",
			result.Synced, result.Conflicts, result.Failed)
	}
}
