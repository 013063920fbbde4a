package cli

import (
	"context"
	"fmt"

	"atscore/internal/common"
	"atscore/internal/types"

	"github.com/spf13/cobra"
)

var similarCmd = &cobra.Command{
	Use:   "similar [job-description-file]",
	Short: "Find previously scored resumes similar to a job description",
	Long: `Search the similarity index for previously scored resumes that match
a job description. Resumes are added to the index by the score and serve
surfaces when indexing is enabled.

Use --stats to print summary statistics of the scored resumes instead of
searching.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if similarConfig.OutputFormat == "" {
			similarConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(similarConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runSimilar,
}

var similarConfig common.CommandConfig

var (
	similarLimit int
	similarStats bool
)

func init() {
	similarCmd.Flags().StringVarP(&similarConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	similarCmd.Flags().StringVar(&similarConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	similarCmd.Flags().IntVarP(&similarLimit, "limit", "k", 5, "Maximum number of similar resumes to return")
	similarCmd.Flags().BoolVar(&similarStats, "stats", false, "Print summary statistics of the scored resumes")

	// Add completion for format flag
	_ = similarCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runSimilar(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	if !cfg.Index.Enabled {
		return fmt.Errorf("the similarity index is disabled; enable it via index.enabled")
	}

	_, ix, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}

	if similarStats {
		// Threshold for "above threshold" counts, on the 0-100 scale
		stats := ix.Stats(cfg.Scoring.MinScore * 100)
		return common.NewOutputHandler(logger).HandleOutput(stats, similarConfig)
	}

	if len(args) != 1 {
		return fmt.Errorf("a job description file is required unless --stats is given")
	}

	if similarLimit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", similarLimit)
	}

	createInput := func(contents []string) (string, error) {
		if len(contents) != 1 {
			return "", fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		return contents[0], nil
	}

	logDetails := func(jobDescription string, cfg common.CommandConfig) {
		logger.Info("Searching for similar resumes",
			"job_chars", len(jobDescription),
			"limit", similarLimit,
			"output_format", cfg.OutputFormat)
	}

	searchOperation := func(ctx context.Context, jobDescription string) ([]types.SimilarResume, error) {
		return ix.Search(jobDescription, similarLimit), nil
	}

	err = common.RunCommand(
		cmd.Context(),
		logger,
		similarConfig,
		args,
		createInput,
		searchOperation,
		logDetails,
	)
	if err != nil {
		return fmt.Errorf("failed to search similar resumes: %w", err)
	}
	logger.Info("Similarity search completed successfully")
	return nil
}
