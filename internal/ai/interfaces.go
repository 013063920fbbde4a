package ai

import (
	"context"

	"atscore/internal/types"
)

// AIProvider interface for different AI implementations
// All methods return token usage information - callers can ignore it if not needed
type AIProvider interface {
	OptimizeResume(ctx context.Context, input types.OptimizeResumeInput) (types.OptimizeResumeOutput, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}

// SchemaBuilder interface for building AI request schemas
type SchemaBuilder interface {
	BuildOptimizeSchema() any
}

// PromptBuilder interface for building AI prompts
type PromptBuilder interface {
	BuildOptimizePrompt(resumeText, jobDescription string, missingKeywords []string) string
}
