package cli

import (
	"fmt"

	"atscore/internal/config"
	"atscore/internal/embedding"
	"atscore/internal/errors"
	"atscore/internal/index"
	"atscore/internal/keywords"
	"atscore/internal/scoring"
)

// buildEngine wires the scoring engine from configuration: embedder, keyword
// catalog, and, when enabled, the similarity index.
func buildEngine(cfg *config.Config, logger *errors.Logger) (*scoring.Engine, *index.Index, error) {
	embedder := embedding.New(0)

	catalog, err := keywords.NewCatalog(cfg.Keywords.CatalogPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load keyword catalog: %w", err)
	}

	var ix *index.Index
	if cfg.Index.Enabled {
		ix, err = index.Open(cfg.Index.Path, embedder, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open similarity index: %w", err)
		}
	}

	return scoring.NewEngine(cfg.Scoring, embedder, catalog, ix, logger), ix, nil
}
