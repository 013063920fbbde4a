package types

import "time"

// ContactInfo holds contact details extracted from a resume header
type ContactInfo struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// ParsedResume is the structured view of a resume document
type ParsedResume struct {
	RawText  string            `json:"rawText"`
	Sections map[string]string `json:"sections"`
	Contact  ContactInfo       `json:"contact"`
	Keywords []string          `json:"keywords"`
}

// IsEmpty reports whether parsing produced no usable content
func (p *ParsedResume) IsEmpty() bool {
	return p.RawText == "" && len(p.Sections) == 0
}

// WeightedKeyword is a job-description term with its extraction weight
type WeightedKeyword struct {
	Text          string  `json:"text"`
	Weight        float64 `json:"weight"`
	YearsRequired int     `json:"yearsRequired,omitempty"`
}

// JobRequirements is the structured view of a job description
type JobRequirements struct {
	Keywords        []WeightedKeyword `json:"keywords"`
	Role            string            `json:"role"`
	RequiredSkills  []string          `json:"requiredSkills,omitempty"`
	PreferredSkills []string          `json:"preferredSkills,omitempty"`
	EducationLevel  string            `json:"educationLevel,omitempty"`
	RequiredYears   int               `json:"requiredYears,omitempty"`
}

// JobMetadata identifies the job a score was computed against
type JobMetadata struct {
	Title    string `json:"title,omitempty"`
	Company  string `json:"company,omitempty"`
	Location string `json:"location,omitempty"`
}

// ScoreDetails is the full scoring breakdown for one resume/job pair.
// TotalScore is on a 0-100 scale; component scores are normalized 0-1.
type ScoreDetails struct {
	TotalScore      float64  `json:"totalScore"`
	KeywordScore    float64  `json:"keywordScore"`
	SemanticScore   float64  `json:"semanticScore"`
	FormatScore     float64  `json:"formatScore"`
	SkillScore      float64  `json:"skillScore,omitempty"`
	ExperienceScore float64  `json:"experienceScore,omitempty"`
	EducationScore  float64  `json:"educationScore,omitempty"`
	Role            string            `json:"role,omitempty"`
	MatchedKeywords []WeightedKeyword `json:"matchedKeywords,omitempty"`
	MissingKeywords []WeightedKeyword `json:"missingKeywords,omitempty"`
	Suggestions     []string          `json:"suggestions,omitempty"`
	ShouldProceed   bool              `json:"shouldProceed"`
}

// KeywordTexts flattens weighted keywords to their bare text.
func KeywordTexts(kws []WeightedKeyword) []string {
	out := make([]string, len(kws))
	for i, kw := range kws {
		out[i] = kw.Text
	}
	return out
}

// ExperienceEntry is one dated work item from the experience section
type ExperienceEntry struct {
	Title       string   `json:"title,omitempty"`
	Company     string   `json:"company,omitempty"`
	DateRange   string   `json:"dateRange,omitempty"`
	Description string   `json:"description"`
	Skills      []string `json:"skills,omitempty"`
	Years       float64  `json:"years"`
}

// ExperienceMatch scores one experience entry against a job description
type ExperienceMatch struct {
	Entry            ExperienceEntry `json:"entry"`
	Relevance        float64         `json:"relevance"`
	SkillScore       float64         `json:"skillScore"`
	AchievementScore float64         `json:"achievementScore"`
	WeightedScore    float64         `json:"weightedScore"`
}

// SkillMatch records how a single required skill was satisfied
type SkillMatch struct {
	Required  string  `json:"required"`
	Matched   string  `json:"matched,omitempty"`
	Method    string  `json:"method,omitempty"` // exact, normalized, variation, fuzzy, semantic
	Score     float64 `json:"score"`
	Satisfied bool    `json:"satisfied"`
}

// CandidateProfile summarizes what the engine learned about a candidate
type CandidateProfile struct {
	Contact          ContactInfo         `json:"contact"`
	Skills           []string            `json:"skills,omitempty"`
	SkillsByCategory map[string][]string `json:"skillsByCategory,omitempty"`
	TotalYears       float64             `json:"totalYears"`
}

// OptimizeResumeInput is the input payload for AI resume optimization
type OptimizeResumeInput struct {
	ResumeText      string   `json:"resumeText"`
	JobDescription  string   `json:"jobDescription"`
	MissingKeywords []string `json:"missingKeywords,omitempty"`
}

// OptimizeResumeOutput is the structured response from AI resume optimization
type OptimizeResumeOutput struct {
	OptimizedResume      string   `json:"optimizedResume"`
	KeywordsIncorporated []string `json:"keywordsIncorporated,omitempty"`
	Changes              []string `json:"changes,omitempty"`
}

// OptimizationResult describes one optimization pass over a resume. When the
// resume already meets the target, OptimizedPath equals OriginalPath and no
// file is written.
type OptimizationResult struct {
	OriginalScore  float64  `json:"originalScore"`
	OptimizedScore float64  `json:"optimizedScore"`
	OriginalPath   string   `json:"originalPath,omitempty"`
	OptimizedPath  string   `json:"optimizedPath"`
	KeywordsAdded  []string `json:"keywordsAdded,omitempty"`
	Message        string   `json:"message,omitempty"`
}

// SimilarResume is one hit from a similarity search over past scores
type SimilarResume struct {
	ID         string      `json:"id"`
	Path       string      `json:"path,omitempty"`
	Score      float64     `json:"score"`
	Similarity float64     `json:"similarity"`
	Job        JobMetadata `json:"job,omitempty"`
	ScoredAt   time.Time   `json:"scoredAt"`
}

// ScoreStats aggregates the per-process score history
type ScoreStats struct {
	Count          int     `json:"count"`
	Mean           float64 `json:"mean"`
	Min            float64 `json:"min"`
	Max            float64 `json:"max"`
	AboveThreshold int     `json:"aboveThreshold"`
}
