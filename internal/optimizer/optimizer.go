// Package optimizer runs the single-pass resume optimization loop: score the
// resume, stop early when it already meets the target, otherwise ask the
// generation provider to rework it and re-score the result. Generation
// failures degrade to a deterministic template rewrite instead of aborting.
package optimizer

import (
	"context"
	"path/filepath"
	"strings"

	"atscore/internal/ai"
	"atscore/internal/config"
	"atscore/internal/errors"
	"atscore/internal/parser"
	"atscore/internal/render"
	"atscore/internal/scoring"
	"atscore/internal/types"
)

// TargetMetMessage is returned when a resume already scores at or above the
// configured target and no optimization pass runs.
const TargetMetMessage = "Resume already meets target score"

// Optimizer coordinates scoring, generation, and rendering.
type Optimizer struct {
	engine   *scoring.Engine
	provider ai.AIProvider
	fallback ai.AIProvider
	renderer *render.Renderer
	cfg      config.OptimizerConfig
	logger   *errors.Logger
}

// New creates an Optimizer. provider may be nil, in which case every pass
// uses the deterministic template rewrite.
func New(engine *scoring.Engine, provider ai.AIProvider, renderer *render.Renderer, cfg config.OptimizerConfig, logger *errors.Logger) *Optimizer {
	if cfg.TargetScore <= 0 {
		cfg.TargetScore = 0.8
	}
	if cfg.OutputSuffix == "" {
		cfg.OutputSuffix = "_optimized"
	}
	return &Optimizer{
		engine:   engine,
		provider: provider,
		fallback: ai.NewTemplateProvider(logger),
		renderer: renderer,
		cfg:      cfg,
		logger:   logger,
	}
}

// Optimize runs one optimization pass over an already-parsed resume and
// returns the optimized resume alongside the before/after scores. The
// returned result carries no file paths; OptimizeFile fills those in.
func (o *Optimizer) Optimize(ctx context.Context, resume types.ParsedResume, jobDescription string) (types.ParsedResume, types.OptimizationResult, error) {
	details := o.engine.Score(resume, jobDescription)
	result := types.OptimizationResult{
		OriginalScore:  details.TotalScore,
		OptimizedScore: details.TotalScore,
	}

	if details.TotalScore/100 >= o.cfg.TargetScore {
		o.logger.Info("Resume already meets target, skipping optimization",
			"score", details.TotalScore,
			"target", o.cfg.TargetScore*100)
		result.Message = TargetMetMessage
		return resume, result, nil
	}

	input := types.OptimizeResumeInput{
		ResumeText:      parser.Reconstruct(resume),
		JobDescription:  jobDescription,
		MissingKeywords: types.KeywordTexts(details.MissingKeywords),
	}

	output, usage, err := o.generate(ctx, input)
	if err != nil {
		return resume, result, err
	}
	if usage != nil {
		o.logger.Debug("Optimization token usage",
			"input_tokens", usage.InputTokens,
			"output_tokens", usage.OutputTokens,
			"total_tokens", usage.TotalTokens)
	}

	optimized := parser.Parse(output.OptimizedResume)
	if optimized.IsEmpty() {
		// A generation that lost all structure would score worse than the
		// original, keep what we had.
		o.logger.Warn("Generated resume parsed to nothing, keeping original")
		return resume, result, nil
	}
	preserveContact(&optimized, resume)

	rescored := o.engine.Score(optimized, jobDescription)
	result.OptimizedScore = rescored.TotalScore
	result.KeywordsAdded = output.KeywordsIncorporated
	if len(output.Changes) > 0 {
		result.Message = strings.Join(output.Changes, "; ")
	}

	o.logger.Info("Optimization pass complete",
		"original_score", result.OriginalScore,
		"optimized_score", result.OptimizedScore,
		"keywords_added", len(result.KeywordsAdded))

	return optimized, result, nil
}

// OptimizeFile reads a resume from disk, optimizes it against the job
// description, and writes the result next to the input file with the
// configured suffix. format selects the output writer ("txt" or "md").
func (o *Optimizer) OptimizeFile(ctx context.Context, resumePath, jobDescription, format string) (types.OptimizationResult, error) {
	resume, err := parser.ParseFile(resumePath)
	if err != nil {
		return types.OptimizationResult{}, err
	}

	optimized, result, err := o.Optimize(ctx, resume, jobDescription)
	result.OriginalPath = resumePath
	if err != nil {
		return result, err
	}
	if result.Message == TargetMetMessage {
		// Nothing was rewritten, so the original file is the optimized one
		result.OptimizedPath = resumePath
		return result, nil
	}

	outputPath := o.outputPath(resumePath, format)
	written, err := o.renderer.Render(optimized, outputPath, format)
	if err != nil {
		return result, err
	}
	result.OptimizedPath = written

	return result, nil
}

// generate calls the configured provider, falling back to the deterministic
// template rewrite when the provider is missing or fails. The fallback never
// errors, so neither does generate.
func (o *Optimizer) generate(ctx context.Context, input types.OptimizeResumeInput) (types.OptimizeResumeOutput, *ai.TokenUsage, error) {
	if o.provider != nil {
		output, usage, err := o.provider.OptimizeResume(ctx, input)
		if err == nil {
			return output, usage, nil
		}
		o.logger.Warn("Generation provider failed, using template fallback",
			"error", err.Error())
	}
	return o.fallback.OptimizeResume(ctx, input)
}

// outputPath derives the optimized file path from the input path, suffix,
// and requested format: resume.txt -> resume_optimized.txt.
func (o *Optimizer) outputPath(resumePath, format string) string {
	ext := extensionFor(format, filepath.Ext(resumePath))
	base := strings.TrimSuffix(resumePath, filepath.Ext(resumePath))
	return base + o.cfg.OutputSuffix + ext
}

func extensionFor(format, fallback string) string {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), ".")) {
	case "md", "markdown":
		return ".md"
	case "txt", "text":
		return ".txt"
	case "":
		if fallback != "" {
			return fallback
		}
		return ".txt"
	default:
		// The renderer rewrites unsupported formats to .txt anyway.
		return ".txt"
	}
}

func preserveContact(optimized *types.ParsedResume, original types.ParsedResume) {
	if optimized.Contact.Name == "" {
		optimized.Contact.Name = original.Contact.Name
	}
	if optimized.Contact.Email == "" {
		optimized.Contact.Email = original.Contact.Email
	}
	if optimized.Contact.Phone == "" {
		optimized.Contact.Phone = original.Contact.Phone
	}
}
