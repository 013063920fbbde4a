package cli

import (
	"fmt"

	"atscore/internal/common"
	"atscore/internal/parser"
	"atscore/internal/types"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score [resume-file] [job-description-file]",
	Short: "Score a resume against a job description",
	Long: `Score a resume against a job description the way an ATS would.
The command takes two arguments: the path to the resume file (.txt, .md or
.pdf) and the path to the job description file (plain text).

The default mode combines keyword match, semantic similarity, and format
quality. Use --full for the detailed mode that also weighs experience and
education. When the similarity index is enabled, each scored resume is
recorded for later "similar" lookups.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if scoreConfig.OutputFormat == "" {
			scoreConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(scoreConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runScore,
}

var scoreConfig common.CommandConfig

var (
	scoreFull     bool
	scoreJobTitle string
	scoreCompany  string
	scoreLocation string
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	scoreCmd.Flags().StringVar(&scoreConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	scoreCmd.Flags().BoolVar(&scoreFull, "full", false, "Use full scoring mode (skills, experience, education, keywords)")
	scoreCmd.Flags().StringVar(&scoreJobTitle, "title", "", "Job title to record with the score")
	scoreCmd.Flags().StringVar(&scoreCompany, "company", "", "Company name to record with the score")
	scoreCmd.Flags().StringVar(&scoreLocation, "location", "", "Job location to record with the score")

	// Add completion for format flag
	_ = scoreCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	engine, _, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}

	resumePath := args[0]
	resume, err := parser.ParseFile(resumePath)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	contents, err := common.NewFileProcessor(logger).ValidateAndReadFiles(args[1])
	if err != nil {
		return err
	}
	jobDescription := contents[0]

	logger.Info("Starting resume scoring",
		"resume", resumePath,
		"job_chars", len(jobDescription),
		"full_mode", scoreFull,
		"output_format", scoreConfig.OutputFormat)

	var details types.ScoreDetails
	if scoreFull {
		details = engine.ScoreFull(resume, jobDescription)
	} else {
		details = engine.Score(resume, jobDescription)
	}

	if cfg.Index.Enabled {
		job := types.JobMetadata{Title: scoreJobTitle, Company: scoreCompany, Location: scoreLocation}
		if _, err := engine.Record(resume, jobDescription, resumePath, details, job); err != nil {
			// Recording is a side effect; a broken index must not hide the score
			logger.Warn("Failed to record score in similarity index", "error", err)
		}
	}

	if err := common.NewOutputHandler(logger).HandleOutput(details, scoreConfig); err != nil {
		return err
	}

	logger.Info("Resume scoring completed successfully",
		"total_score", details.TotalScore,
		"should_proceed", details.ShouldProceed)
	return nil
}
