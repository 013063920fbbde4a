package index

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"atscore/internal/embedding"
	"atscore/internal/types"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.json")
	ix, err := Open(path, embedding.New(embedding.DefaultDimensions), nil)
	if err != nil {
		t.Fatalf("failed to open index: %v", err)
	}
	return ix
}

func TestAddAndSearch(t *testing.T) {
	ix := newTestIndex(t)

	goJob := "Backend engineer writing Go services with PostgreSQL"
	marketingJob := "Marketing manager for social media campaigns"

	if _, err := ix.Add("Go developer resume text", goJob, "go.txt", 85, types.JobMetadata{Title: "Backend"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := ix.Add("Marketing resume text", marketingJob, "marketing.txt", 70, types.JobMetadata{Title: "Marketing"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	results := ix.Search(goJob, 5)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Path != "go.txt" {
		t.Errorf("expected go.txt first, got %q with similarity %f", results[0].Path, results[0].Similarity)
	}
	if results[0].Similarity <= results[1].Similarity {
		t.Error("results not sorted by similarity")
	}
	if results[0].ID == "" || results[0].ID == results[1].ID {
		t.Error("expected unique non-empty entry IDs")
	}
}

func TestSearchLimitsK(t *testing.T) {
	ix := newTestIndex(t)
	for i := 0; i < 7; i++ {
		if _, err := ix.Add("resume", "job", "", 50, types.JobMetadata{}); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	if got := len(ix.Search("job", 3)); got != 3 {
		t.Errorf("expected 3 results, got %d", got)
	}
	if got := len(ix.Search("job", 0)); got != 5 {
		t.Errorf("expected default of 5 results, got %d", got)
	}
}

func TestSearchEmptyIndex(t *testing.T) {
	ix := newTestIndex(t)
	if results := ix.Search("anything", 5); len(results) != 0 {
		t.Errorf("expected no results, got %v", results)
	}
}

func TestPersistenceAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	e := embedding.New(embedding.DefaultDimensions)

	ix, err := Open(path, e, nil)
	if err != nil {
		t.Fatalf("failed to open index: %v", err)
	}
	id, err := ix.Add("resume text", "job text", "r.txt", 77, types.JobMetadata{Company: "Acme"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	reopened, err := Open(path, e, nil)
	if err != nil {
		t.Fatalf("failed to reopen index: %v", err)
	}
	if reopened.Len() != 1 {
		t.Fatalf("expected 1 entry after reopen, got %d", reopened.Len())
	}

	results := reopened.Search("job text", 1)
	if len(results) != 1 || results[0].ID != id {
		t.Errorf("expected persisted entry %q, got %v", id, results)
	}
	if results[0].Job.Company != "Acme" {
		t.Errorf("job metadata lost: %+v", results[0].Job)
	}
	if results[0].Score != 77 {
		t.Errorf("score lost: %f", results[0].Score)
	}
}

func TestStats(t *testing.T) {
	ix := newTestIndex(t)

	if stats := ix.Stats(70); stats.Count != 0 {
		t.Errorf("expected empty stats, got %+v", stats)
	}

	for _, score := range []float64{60, 80, 100} {
		if _, err := ix.Add("r", "j", "", score, types.JobMetadata{}); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	stats := ix.Stats(70)
	if stats.Count != 3 {
		t.Errorf("count = %d, expected 3", stats.Count)
	}
	if math.Abs(stats.Mean-80) > 1e-9 {
		t.Errorf("mean = %f, expected 80", stats.Mean)
	}
	if stats.Min != 60 || stats.Max != 100 {
		t.Errorf("min/max = %f/%f, expected 60/100", stats.Min, stats.Max)
	}
	if stats.AboveThreshold != 2 {
		t.Errorf("above threshold = %d, expected 2", stats.AboveThreshold)
	}
}

func TestOpenCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	if err := os.WriteFile(path, []byte("{broken"), 0600); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	if _, err := Open(path, embedding.New(64), nil); err == nil {
		t.Error("expected error for corrupt index file")
	}
}
