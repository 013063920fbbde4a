package keywords

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"atscore/internal/errors"
)

// CatalogWatcher watches the custom keyword catalog file and reloads the
// Catalog when it changes, so keyword updates take effect without a restart.
type CatalogWatcher struct {
	mu sync.RWMutex

	catalog     *Catalog
	lastModTime time.Time

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}

	logger *errors.Logger

	running bool
}

// NewCatalogWatcher creates a watcher for the catalog's backing file.
func NewCatalogWatcher(catalog *Catalog, debounceDelay time.Duration, logger *errors.Logger) (*CatalogWatcher, error) {
	if catalog.Path() == "" {
		return nil, fmt.Errorf("catalog has no backing file to watch")
	}
	if debounceDelay == 0 {
		debounceDelay = time.Second
	}

	return &CatalogWatcher{
		catalog:       catalog,
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1), // Buffered to prevent blocking
		logger:        logger,
	}, nil
}

// Start begins watching the catalog file for changes.
func (w *CatalogWatcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("catalog watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	w.fsWatcher = watcher

	if stat, err := os.Stat(w.catalog.Path()); err == nil {
		w.lastModTime = stat.ModTime()
	}

	if err := w.addCatalogFile(); err != nil {
		if closeErr := w.fsWatcher.Close(); closeErr != nil && w.logger != nil {
			w.logger.LogError(closeErr, "Failed to close file watcher during cleanup")
		}
		return err
	}

	w.running = true
	go w.watchLoop()

	if w.logger != nil {
		w.logger.Info("Keyword catalog watcher started",
			"file", w.catalog.Path(),
			"debounce_delay", w.debounceDelay)
	}
	return nil
}

// Stop stops the watcher.
func (w *CatalogWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	close(w.stopChan)

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}

	if w.fsWatcher != nil {
		if err := w.fsWatcher.Close(); err != nil {
			if w.logger != nil {
				w.logger.LogError(err, "Failed to close file system watcher")
			}
			return err
		}
	}

	w.running = false

	if w.logger != nil {
		w.logger.Info("Keyword catalog watcher stopped")
	}
	return nil
}

// IsRunning returns whether the watcher is currently running.
func (w *CatalogWatcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// addCatalogFile watches the file and its directory to catch atomic writes.
func (w *CatalogWatcher) addCatalogFile() error {
	file := w.catalog.Path()

	if err := w.fsWatcher.Add(file); err != nil {
		// If the file doesn't exist yet, watch its directory instead
		if os.IsNotExist(err) {
			dir := filepath.Dir(file)
			if err := w.fsWatcher.Add(dir); err != nil {
				return fmt.Errorf("failed to watch directory %s: %w", dir, err)
			}
			if w.logger != nil {
				w.logger.Info("Watching directory for keyword catalog",
					"file", file, "directory", dir)
			}
			return nil
		}
		return fmt.Errorf("failed to watch file %s: %w", file, err)
	}

	dir := filepath.Dir(file)
	if err := w.fsWatcher.Add(dir); err != nil && w.logger != nil {
		w.logger.Warn("Failed to watch directory for atomic writes",
			"directory", dir, "error", err)
	}
	return nil
}

// watchLoop is the main event loop for file watching.
func (w *CatalogWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if w.shouldProcessEvent(event) {
				w.scheduleReload()
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.LogError(err, "Keyword catalog watcher error")
			}

		case <-w.reloadChan:
			// Debounced reload trigger
			if w.hasFileChanged() {
				if err := w.catalog.Reload(); err != nil {
					if w.logger != nil {
						w.logger.LogError(err, "Failed to reload keyword catalog")
					}
					continue
				}
				if w.logger != nil {
					w.logger.Info("Keyword catalog reloaded", "file", w.catalog.Path())
				}
			}

		case <-w.stopChan:
			return
		}
	}
}

func (w *CatalogWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	file := w.catalog.Path()
	if event.Name != file && filepath.Base(event.Name) != filepath.Base(file) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (w *CatalogWatcher) hasFileChanged() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	stat, err := os.Stat(w.catalog.Path())
	if err != nil {
		// File was deleted; keep the last loaded catalog
		return false
	}
	if stat.ModTime().After(w.lastModTime) {
		w.lastModTime = stat.ModTime()
		return true
	}
	return false
}

// scheduleReload schedules a debounced reload.
func (w *CatalogWatcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}

	w.debounceTimer = time.AfterFunc(w.debounceDelay, func() {
		select {
		case w.reloadChan <- struct{}{}:
		default:
			// Reload already scheduled
		}
	})
}
