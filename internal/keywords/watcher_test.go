package keywords

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewCatalogWatcherRequiresPath(t *testing.T) {
	catalog, err := NewCatalog("")
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}

	if _, err := NewCatalogWatcher(catalog, 0, nil); err == nil {
		t.Error("expected error for catalog without backing file")
	}
}

func TestCatalogWatcherStartStop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.json")
	if err := os.WriteFile(path, []byte(`{}`), 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	catalog, err := NewCatalog(path)
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}

	watcher, err := NewCatalogWatcher(catalog, 10*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("failed to build watcher: %v", err)
	}

	if err := watcher.Start(); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	if !watcher.IsRunning() {
		t.Error("watcher should be running after Start")
	}
	if err := watcher.Start(); err == nil {
		t.Error("expected error starting watcher twice")
	}

	if err := watcher.Stop(); err != nil {
		t.Fatalf("failed to stop watcher: %v", err)
	}
	if watcher.IsRunning() {
		t.Error("watcher should not be running after Stop")
	}
	if err := watcher.Stop(); err != nil {
		t.Errorf("second Stop should be a no-op, got %v", err)
	}
}

func TestCatalogWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.json")
	if err := os.WriteFile(path, []byte(`{}`), 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	catalog, err := NewCatalog(path)
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}

	watcher, err := NewCatalogWatcher(catalog, 10*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("failed to build watcher: %v", err)
	}
	if err := watcher.Start(); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	defer func() {
		if err := watcher.Stop(); err != nil {
			t.Errorf("failed to stop watcher: %v", err)
		}
	}()

	// mtime resolution can be coarse; make sure the rewrite lands later
	time.Sleep(50 * time.Millisecond)

	updated := `{"industryTerms": {"technical": ["grpc"]}}`
	if err := os.WriteFile(path, []byte(updated), 0600); err != nil {
		t.Fatalf("failed to update file: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		for _, term := range catalog.IndustryTerms("technical") {
			if term == "grpc" {
				return
			}
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("catalog was not reloaded after file change")
}
