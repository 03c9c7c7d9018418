package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"powerisland/pkg/logging"
)

const reloadDebounce = 500 * time.Millisecond

// Run spawns the first producer generation and blocks until the context is
// cancelled. Configuration file changes reload the config and restart the
// producer generation.
func (a *Application) Run(ctx context.Context) error {
	a.module.Init()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.watchConfig(ctx)
	})

	err := g.Wait()

	if shutdownErr := a.module.Shutdown(); shutdownErr != nil {
		logging.Warn("App", "Module shutdown incomplete: %v", shutdownErr)
	}
	if closeErr := a.bus.Close(); closeErr != nil {
		logging.Warn("App", "Failed to close bus connection: %v", closeErr)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// watchConfig watches the configuration file and applies changes. Reload
// events are debounced; a malformed file keeps the previous good
// configuration and is only logged.
func (a *Application) watchConfig(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory so the file can be created or replaced atomically.
	dir := filepath.Dir(a.configPath)
	if err := watcher.Add(dir); err != nil {
		logging.Warn("App", "Cannot watch config directory %s: %v", dir, err)
		<-ctx.Done()
		return ctx.Err()
	}
	logging.Info("App", "Watching %s for configuration changes", a.configPath)

	var debounce *time.Timer
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Name != a.configPath {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(reloadDebounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn("App", "Config watcher error: %v", err)

		case <-reload:
			a.reloadConfig()
		}
	}
}

func (a *Application) reloadConfig() {
	data, err := os.ReadFile(a.configPath)
	if err != nil {
		logging.Warn("App", "Cannot read config file %s: %v", a.configPath, err)
		return
	}
	if err := a.module.UpdateConfig(data); err != nil {
		logging.Error("App", err, "Config change rejected, keeping previous configuration")
		return
	}
	logging.Info("App", "Configuration reloaded, restarting producers")
	a.module.RestartProducers()
}
