package cli

import (
	"fmt"

	"atscore/internal/ai"
	"atscore/internal/common"
	"atscore/internal/optimizer"
	"atscore/internal/render"

	"github.com/spf13/cobra"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize [resume-file] [job-description-file]",
	Short: "Optimize a resume for a specific job description",
	Long: `Optimize a resume so it scores better against a job description.
The command takes two arguments: the path to the resume file (.txt, .md or
.pdf) and the path to the job description file (plain text).

The resume is scored first; if it already meets the target score nothing is
changed. Otherwise the configured AI provider rewrites it to incorporate the
missing keywords, falling back to a deterministic template rewrite when the
provider is unavailable. The optimized resume is written next to the input
file with the configured suffix.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if optimizeConfig.OutputFormat == "" {
			optimizeConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(optimizeConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runOptimize,
}

var optimizeConfig common.CommandConfig

var (
	optimizeTarget       float64
	optimizeResumeFormat string
)

func init() {
	optimizeCmd.Flags().StringVarP(&optimizeConfig.OutputFile, "output", "o", "", "Report output file path (default: stdout)")
	optimizeCmd.Flags().StringVar(&optimizeConfig.OutputFormat, "format", "", "Report output format: json, text, or markdown")
	optimizeCmd.Flags().Float64Var(&optimizeTarget, "target", 0, "Target score (0-1) at which optimization stops (default from config)")
	optimizeCmd.Flags().StringVar(&optimizeResumeFormat, "resume-format", "txt", "Format for the optimized resume file: txt or md")

	// Add completion for format flag
	_ = optimizeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	engine, _, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}

	// Create AI service for the optimize operation. A misconfigured provider
	// (for example a missing API key) degrades to the template rewrite
	// instead of failing the command.
	var provider ai.AIProvider
	optimizeAIConfig := cfg.GetOptimizeConfig()
	aiService, err := ai.NewService(&optimizeAIConfig, "optimize", logger)
	if err != nil {
		logger.Warn("AI provider unavailable, using template optimization", "error", err)
	} else {
		provider = aiService.Provider
		defer func() {
			if err := aiService.Provider.Close(); err != nil {
				logger.Warn("Failed to close AI provider", "error", err)
			}
		}()
	}

	optimizerCfg := cfg.Optimizer
	if cmd.Flags().Changed("target") {
		if optimizeTarget <= 0 || optimizeTarget > 1 {
			return fmt.Errorf("target must be between 0 and 1, got %v", optimizeTarget)
		}
		optimizerCfg.TargetScore = optimizeTarget
	}

	contents, err := common.NewFileProcessor(logger).ValidateAndReadFiles(args[1])
	if err != nil {
		return err
	}
	jobDescription := contents[0]

	logger.Info("Starting resume optimization",
		"resume", args[0],
		"job_chars", len(jobDescription),
		"target_score", optimizerCfg.TargetScore,
		"resume_format", optimizeResumeFormat)

	o := optimizer.New(engine, provider, render.New(logger), optimizerCfg, logger)
	result, err := o.OptimizeFile(cmd.Context(), args[0], jobDescription, optimizeResumeFormat)
	if err != nil {
		return fmt.Errorf("failed to optimize resume: %w", err)
	}

	if err := common.NewOutputHandler(logger).HandleOutput(result, optimizeConfig); err != nil {
		return err
	}

	logger.Info("Resume optimization completed successfully",
		"original_score", result.OriginalScore,
		"optimized_score", result.OptimizedScore,
		"optimized_path", result.OptimizedPath)
	return nil
}
