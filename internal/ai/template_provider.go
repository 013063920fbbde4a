package ai

import (
	"context"
	"strings"

	atsErrors "atscore/internal/errors"
	"atscore/internal/types"
)

// TemplateProvider is a deterministic, offline AIProvider. It rewrites
// resumes by rule instead of calling a model: missing keywords are folded
// into the skills section so optimization still makes progress when no AI
// backend is configured or reachable.
type TemplateProvider struct {
	logger *atsErrors.Logger
}

// Ensure TemplateProvider implements AIProvider
var _ AIProvider = (*TemplateProvider)(nil)

// NewTemplateProvider creates a new template-based provider
func NewTemplateProvider(logger *atsErrors.Logger) *TemplateProvider {
	return &TemplateProvider{logger: logger}
}

// OptimizeResume implements AIProvider by injecting the missing keywords
// into the resume's skills section. It never fails.
func (t *TemplateProvider) OptimizeResume(_ context.Context, input types.OptimizeResumeInput) (types.OptimizeResumeOutput, *TokenUsage, error) {
	added := keywordsNotPresent(input.ResumeText, input.MissingKeywords)

	output := types.OptimizeResumeOutput{
		OptimizedResume:      input.ResumeText,
		KeywordsIncorporated: added,
	}

	if len(added) == 0 {
		t.logger.Debug("Template optimization found nothing to add")
		return output, nil, nil
	}

	output.OptimizedResume = injectIntoSkills(input.ResumeText, added)
	output.Changes = []string{
		"Added missing keywords to the skills section: " + strings.Join(added, ", "),
	}

	t.logger.Info("Template optimization applied",
		"keywords_added", len(added))

	return output, nil, nil
}

// GetModelInfo implements AIProvider. The template provider is always available.
func (t *TemplateProvider) GetModelInfo(_ context.Context) *ModelInfo {
	return &ModelInfo{
		Name:      "template",
		Available: true,
	}
}

// Close implements AIProvider
func (t *TemplateProvider) Close() error {
	return nil
}

// keywordsNotPresent filters keywords down to those absent from the text
func keywordsNotPresent(text string, keywords []string) []string {
	lower := strings.ToLower(text)
	var missing []string
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		if !strings.Contains(lower, strings.ToLower(kw)) {
			missing = append(missing, kw)
		}
	}
	return missing
}

// injectIntoSkills appends keywords after the SKILLS heading, or adds a
// SKILLS section at the end when the resume has none.
func injectIntoSkills(text string, keywords []string) string {
	lines := strings.Split(text, "\n")
	line := "- " + strings.Join(keywords, ", ")

	for i, l := range lines {
		heading := strings.ToLower(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(l), ":")))
		if heading == "skills" || heading == "technical skills" || heading == "core competencies" {
			rest := make([]string, 0, len(lines)+1)
			rest = append(rest, lines[:i+1]...)
			rest = append(rest, line)
			rest = append(rest, lines[i+1:]...)
			return strings.Join(rest, "\n")
		}
	}

	return strings.TrimRight(text, "\n") + "\n\nSKILLS\n" + line + "\n"
}
