// Package index keeps an append-only record of scored resumes with their
// embeddings, persisted as a JSON file next to the data directory. It backs
// similarity search over past scoring runs and the score-history stats.
package index

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"atscore/internal/embedding"
	"atscore/internal/errors"
	"atscore/internal/types"
)

// Entry is one scored resume/job pair in the index.
type Entry struct {
	ID         string            `json:"id"`
	ResumePath string            `json:"resumePath,omitempty"`
	Score      float64           `json:"score"`
	Job        types.JobMetadata `json:"job,omitempty"`
	Vector     []float64         `json:"vector"`
	ScoredAt   time.Time         `json:"scoredAt"`
}

// Index is a file-backed vector index over scored resumes.
type Index struct {
	mu       sync.Mutex
	path     string
	embedder *embedding.Embedder
	entries  []Entry
	logger   *errors.Logger
}

// Open loads the index file at path, starting empty when it does not exist.
func Open(path string, e *embedding.Embedder, logger *errors.Logger) (*Index, error) {
	ix := &Index{
		path:     path,
		embedder: e,
		logger:   logger,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ix, nil
		}
		return nil, errors.NewIndexError(errors.ErrCodeIndexLoadFailed,
			"failed to read index file", err).WithContext("path", path)
	}

	if err := json.Unmarshal(data, &ix.entries); err != nil {
		return nil, errors.NewIndexError(errors.ErrCodeIndexLoadFailed,
			"failed to decode index file", err).WithContext("path", path)
	}

	if logger != nil {
		logger.Debug("Loaded resume index", "path", path, "entries", len(ix.entries))
	}
	return ix, nil
}

// Add embeds the resume/job pair and appends an entry, persisting the index.
// It returns the new entry's ID.
func (ix *Index) Add(resumeText, jobDescription, resumePath string, score float64, job types.JobMetadata) (string, error) {
	entry := Entry{
		ID:         uuid.NewString(),
		ResumePath: resumePath,
		Score:      score,
		Job:        job,
		Vector:     ix.embedder.Embed(resumeText + "\n" + jobDescription),
		ScoredAt:   time.Now().UTC(),
	}

	ix.mu.Lock()
	ix.entries = append(ix.entries, entry)
	ix.mu.Unlock()

	if err := ix.Save(); err != nil {
		return entry.ID, err
	}
	return entry.ID, nil
}

// Search returns up to k past entries most similar to the job description,
// ordered by descending similarity.
func (ix *Index) Search(jobDescription string, k int) []types.SimilarResume {
	if k <= 0 {
		k = 5
	}
	queryVec := ix.embedder.Embed(jobDescription)

	ix.mu.Lock()
	results := make([]types.SimilarResume, 0, len(ix.entries))
	for _, e := range ix.entries {
		results = append(results, types.SimilarResume{
			ID:         e.ID,
			Path:       e.ResumePath,
			Score:      e.Score,
			Similarity: embedding.Cosine(queryVec, e.Vector),
			Job:        e.Job,
			ScoredAt:   e.ScoredAt,
		})
	}
	ix.mu.Unlock()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > k {
		results = results[:k]
	}
	return results
}

// Stats summarizes the recorded scores; threshold counts entries at or above
// it. An empty index yields zero stats.
func (ix *Index) Stats(threshold float64) types.ScoreStats {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	stats := types.ScoreStats{Count: len(ix.entries)}
	if stats.Count == 0 {
		return stats
	}

	stats.Min = ix.entries[0].Score
	stats.Max = ix.entries[0].Score
	var sum float64
	for _, e := range ix.entries {
		sum += e.Score
		if e.Score < stats.Min {
			stats.Min = e.Score
		}
		if e.Score > stats.Max {
			stats.Max = e.Score
		}
		if e.Score >= threshold {
			stats.AboveThreshold++
		}
	}
	stats.Mean = sum / float64(stats.Count)
	return stats
}

// Len returns the number of indexed entries.
func (ix *Index) Len() int {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return len(ix.entries)
}

// Save writes the index to disk atomically (write to temp file, then rename).
func (ix *Index) Save() error {
	ix.mu.Lock()
	data, err := json.MarshalIndent(ix.entries, "", "  ")
	ix.mu.Unlock()
	if err != nil {
		return errors.NewIndexError(errors.ErrCodeIndexSaveFailed,
			"failed to encode index", err)
	}

	dir := filepath.Dir(ix.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return errors.NewIndexError(errors.ErrCodeIndexSaveFailed,
			"failed to create index directory", err).WithContext("path", dir)
	}

	tmp, err := os.CreateTemp(dir, ".index-*.json")
	if err != nil {
		return errors.NewIndexError(errors.ErrCodeIndexSaveFailed,
			"failed to create temp index file", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.NewIndexError(errors.ErrCodeIndexSaveFailed,
			"failed to write index", err).WithContext("path", tmpName)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.NewIndexError(errors.ErrCodeIndexSaveFailed,
			"failed to close index file", err).WithContext("path", tmpName)
	}

	if err := os.Rename(tmpName, ix.path); err != nil {
		_ = os.Remove(tmpName)
		return errors.NewIndexError(errors.ErrCodeIndexSaveFailed,
			"failed to replace index file", err).WithContext("path", ix.path)
	}
	return nil
}
