package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"atscore/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "ScoreDetails", &ScoreTextFormatter{})
	registry.RegisterFormatter("markdown", "ScoreDetails", &ScoreMarkdownFormatter{})
	registry.RegisterFormatter("text", "OptimizationResult", &OptimizationTextFormatter{})
	registry.RegisterFormatter("markdown", "OptimizationResult", &OptimizationMarkdownFormatter{})
	registry.RegisterFormatter("text", "SimilarResumes", &SimilarTextFormatter{})
	registry.RegisterFormatter("markdown", "SimilarResumes", &SimilarMarkdownFormatter{})
	registry.RegisterFormatter("text", "ScoreStats", &StatsTextFormatter{})
	registry.RegisterFormatter("markdown", "ScoreStats", &StatsMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.ScoreDetails:
		return "ScoreDetails"
	case types.OptimizationResult:
		return "OptimizationResult"
	case []types.SimilarResume:
		return "SimilarResumes"
	case types.ScoreStats:
		return "ScoreStats"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// ScoreTextFormatter handles text formatting for scoring results
type ScoreTextFormatter struct{}

func (stf *ScoreTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ScoreDetails)
	if !ok {
		return "", fmt.Errorf("expected ScoreDetails, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== ATS SCORE ===\n")
	output.WriteString(fmt.Sprintf("Total Score: %.1f/100\n", result.TotalScore))
	if result.ShouldProceed {
		output.WriteString("Recommendation: proceed with this application\n")
	} else {
		output.WriteString("Recommendation: improve the resume before applying\n")
	}
	if result.Role != "" {
		output.WriteString(fmt.Sprintf("Detected Role: %s\n", result.Role))
	}
	output.WriteString("\n")

	output.WriteString("=== COMPONENT BREAKDOWN ===\n")
	output.WriteString(fmt.Sprintf("Keyword Match:  %.2f\n", result.KeywordScore))
	output.WriteString(fmt.Sprintf("Semantic Match: %.2f\n", result.SemanticScore))
	output.WriteString(fmt.Sprintf("Format Quality: %.2f\n", result.FormatScore))
	if result.SkillScore > 0 || result.ExperienceScore > 0 || result.EducationScore > 0 {
		output.WriteString(fmt.Sprintf("Skills:         %.2f\n", result.SkillScore))
		output.WriteString(fmt.Sprintf("Experience:     %.2f\n", result.ExperienceScore))
		output.WriteString(fmt.Sprintf("Education:      %.2f\n", result.EducationScore))
	}
	output.WriteString("\n")

	if len(result.MatchedKeywords) > 0 {
		output.WriteString("Matched Keywords:\n")
		for _, kw := range result.MatchedKeywords {
			output.WriteString(fmt.Sprintf("- %s (weight %.1f)\n", kw.Text, kw.Weight))
		}
		output.WriteString("\n")
	}

	if len(result.MissingKeywords) > 0 {
		output.WriteString("Missing Keywords:\n")
		for _, kw := range result.MissingKeywords {
			output.WriteString(fmt.Sprintf("- %s (weight %.1f)\n", kw.Text, kw.Weight))
		}
		output.WriteString("\n")
	}

	if len(result.Suggestions) > 0 {
		output.WriteString("=== SUGGESTIONS ===\n")
		for i, suggestion := range result.Suggestions {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, suggestion))
		}
	}

	return output.String(), nil
}

func (stf *ScoreTextFormatter) SupportedType() string {
	return "ScoreDetails"
}

// ScoreMarkdownFormatter handles markdown formatting for scoring results
type ScoreMarkdownFormatter struct{}

func (smf *ScoreMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ScoreDetails)
	if !ok {
		return "", fmt.Errorf("expected ScoreDetails, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# ATS Score Report\n\n")
	output.WriteString(fmt.Sprintf("**Total Score:** %.1f/100\n\n", result.TotalScore))
	if result.ShouldProceed {
		output.WriteString("**Recommendation:** proceed with this application\n\n")
	} else {
		output.WriteString("**Recommendation:** improve the resume before applying\n\n")
	}
	if result.Role != "" {
		output.WriteString(fmt.Sprintf("**Detected Role:** %s\n\n", result.Role))
	}

	output.WriteString("## Component Breakdown\n\n")
	output.WriteString("| Component | Score |\n")
	output.WriteString("|-----------|-------|\n")
	output.WriteString(fmt.Sprintf("| Keyword Match | %.2f |\n", result.KeywordScore))
	output.WriteString(fmt.Sprintf("| Semantic Match | %.2f |\n", result.SemanticScore))
	output.WriteString(fmt.Sprintf("| Format Quality | %.2f |\n", result.FormatScore))
	if result.SkillScore > 0 || result.ExperienceScore > 0 || result.EducationScore > 0 {
		output.WriteString(fmt.Sprintf("| Skills | %.2f |\n", result.SkillScore))
		output.WriteString(fmt.Sprintf("| Experience | %.2f |\n", result.ExperienceScore))
		output.WriteString(fmt.Sprintf("| Education | %.2f |\n", result.EducationScore))
	}
	output.WriteString("\n")

	if len(result.MatchedKeywords) > 0 {
		output.WriteString("## Matched Keywords\n\n")
		for _, kw := range result.MatchedKeywords {
			output.WriteString(fmt.Sprintf("- %s (weight %.1f)\n", kw.Text, kw.Weight))
		}
		output.WriteString("\n")
	}

	if len(result.MissingKeywords) > 0 {
		output.WriteString("## Missing Keywords\n\n")
		for _, kw := range result.MissingKeywords {
			output.WriteString(fmt.Sprintf("- %s (weight %.1f)\n", kw.Text, kw.Weight))
		}
		output.WriteString("\n")
	}

	if len(result.Suggestions) > 0 {
		output.WriteString("## Suggestions\n\n")
		for i, suggestion := range result.Suggestions {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, suggestion))
		}
	}

	return output.String(), nil
}

func (smf *ScoreMarkdownFormatter) SupportedType() string {
	return "ScoreDetails"
}

// OptimizationTextFormatter handles text formatting for optimization results
type OptimizationTextFormatter struct{}

func (otf *OptimizationTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.OptimizationResult)
	if !ok {
		return "", fmt.Errorf("expected OptimizationResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== RESUME OPTIMIZATION ===\n")
	output.WriteString(fmt.Sprintf("Original Score:  %.1f/100\n", result.OriginalScore))
	output.WriteString(fmt.Sprintf("Optimized Score: %.1f/100\n", result.OptimizedScore))
	if result.OriginalPath != "" {
		output.WriteString(fmt.Sprintf("Input File:  %s\n", result.OriginalPath))
	}
	if result.OptimizedPath != "" {
		output.WriteString(fmt.Sprintf("Output File: %s\n", result.OptimizedPath))
	}
	output.WriteString("\n")

	if len(result.KeywordsAdded) > 0 {
		output.WriteString("Keywords Added:\n")
		for _, kw := range result.KeywordsAdded {
			output.WriteString(fmt.Sprintf("- %s\n", kw))
		}
		output.WriteString("\n")
	}

	if result.Message != "" {
		output.WriteString(result.Message)
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (otf *OptimizationTextFormatter) SupportedType() string {
	return "OptimizationResult"
}

// OptimizationMarkdownFormatter handles markdown formatting for optimization results
type OptimizationMarkdownFormatter struct{}

func (omf *OptimizationMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.OptimizationResult)
	if !ok {
		return "", fmt.Errorf("expected OptimizationResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Resume Optimization\n\n")
	output.WriteString(fmt.Sprintf("**Original Score:** %.1f/100\n\n", result.OriginalScore))
	output.WriteString(fmt.Sprintf("**Optimized Score:** %.1f/100\n\n", result.OptimizedScore))
	if result.OriginalPath != "" {
		output.WriteString(fmt.Sprintf("**Input File:** `%s`\n\n", result.OriginalPath))
	}
	if result.OptimizedPath != "" {
		output.WriteString(fmt.Sprintf("**Output File:** `%s`\n\n", result.OptimizedPath))
	}

	if len(result.KeywordsAdded) > 0 {
		output.WriteString("## Keywords Added\n\n")
		for _, kw := range result.KeywordsAdded {
			output.WriteString(fmt.Sprintf("- %s\n", kw))
		}
		output.WriteString("\n")
	}

	if result.Message != "" {
		output.WriteString("## Notes\n\n")
		output.WriteString(result.Message)
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (omf *OptimizationMarkdownFormatter) SupportedType() string {
	return "OptimizationResult"
}

// SimilarTextFormatter handles text formatting for similarity search results
type SimilarTextFormatter struct{}

func (stf *SimilarTextFormatter) Format(data any) (string, error) {
	results, ok := data.([]types.SimilarResume)
	if !ok {
		return "", fmt.Errorf("expected []SimilarResume, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== SIMILAR RESUMES ===\n\n")
	if len(results) == 0 {
		output.WriteString("No similar resumes found.\n")
		return output.String(), nil
	}

	for i, hit := range results {
		output.WriteString(fmt.Sprintf("%d. %s\n", i+1, displayName(hit)))
		output.WriteString(fmt.Sprintf("   Similarity: %.3f\n", hit.Similarity))
		output.WriteString(fmt.Sprintf("   Score: %.1f/100\n", hit.Score))
		if hit.Job.Title != "" || hit.Job.Company != "" {
			output.WriteString(fmt.Sprintf("   Job: %s\n", jobLabel(hit.Job)))
		}
		if !hit.ScoredAt.IsZero() {
			output.WriteString(fmt.Sprintf("   Scored: %s\n", hit.ScoredAt.Format("2006-01-02 15:04")))
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (stf *SimilarTextFormatter) SupportedType() string {
	return "SimilarResumes"
}

// SimilarMarkdownFormatter handles markdown formatting for similarity search results
type SimilarMarkdownFormatter struct{}

func (smf *SimilarMarkdownFormatter) Format(data any) (string, error) {
	results, ok := data.([]types.SimilarResume)
	if !ok {
		return "", fmt.Errorf("expected []SimilarResume, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Similar Resumes\n\n")
	if len(results) == 0 {
		output.WriteString("No similar resumes found.\n")
		return output.String(), nil
	}

	output.WriteString("| # | Resume | Similarity | Score | Job |\n")
	output.WriteString("|---|--------|-----------|-------|-----|\n")
	for i, hit := range results {
		output.WriteString(fmt.Sprintf("| %d | %s | %.3f | %.1f | %s |\n",
			i+1, displayName(hit), hit.Similarity, hit.Score, jobLabel(hit.Job)))
	}

	return output.String(), nil
}

func (smf *SimilarMarkdownFormatter) SupportedType() string {
	return "SimilarResumes"
}

// StatsTextFormatter handles text formatting for score history statistics
type StatsTextFormatter struct{}

func (stf *StatsTextFormatter) Format(data any) (string, error) {
	stats, ok := data.(types.ScoreStats)
	if !ok {
		return "", fmt.Errorf("expected ScoreStats, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== SCORE HISTORY ===\n")
	output.WriteString(fmt.Sprintf("Resumes Scored: %d\n", stats.Count))
	if stats.Count > 0 {
		output.WriteString(fmt.Sprintf("Mean Score: %.1f\n", stats.Mean))
		output.WriteString(fmt.Sprintf("Min Score:  %.1f\n", stats.Min))
		output.WriteString(fmt.Sprintf("Max Score:  %.1f\n", stats.Max))
		output.WriteString(fmt.Sprintf("Above Threshold: %d\n", stats.AboveThreshold))
	}

	return output.String(), nil
}

func (stf *StatsTextFormatter) SupportedType() string {
	return "ScoreStats"
}

// StatsMarkdownFormatter handles markdown formatting for score history statistics
type StatsMarkdownFormatter struct{}

func (smf *StatsMarkdownFormatter) Format(data any) (string, error) {
	stats, ok := data.(types.ScoreStats)
	if !ok {
		return "", fmt.Errorf("expected ScoreStats, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Score History\n\n")
	output.WriteString(fmt.Sprintf("**Resumes Scored:** %d\n\n", stats.Count))
	if stats.Count > 0 {
		output.WriteString("| Metric | Value |\n")
		output.WriteString("|--------|-------|\n")
		output.WriteString(fmt.Sprintf("| Mean | %.1f |\n", stats.Mean))
		output.WriteString(fmt.Sprintf("| Min | %.1f |\n", stats.Min))
		output.WriteString(fmt.Sprintf("| Max | %.1f |\n", stats.Max))
		output.WriteString(fmt.Sprintf("| Above Threshold | %d |\n", stats.AboveThreshold))
	}

	return output.String(), nil
}

func (smf *StatsMarkdownFormatter) SupportedType() string {
	return "ScoreStats"
}

func displayName(hit types.SimilarResume) string {
	if hit.Path != "" {
		return hit.Path
	}
	return hit.ID
}

func jobLabel(job types.JobMetadata) string {
	switch {
	case job.Title != "" && job.Company != "":
		return job.Title + " @ " + job.Company
	case job.Title != "":
		return job.Title
	case job.Company != "":
		return job.Company
	default:
		return "-"
	}
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
