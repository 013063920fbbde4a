// Package scoring computes ATS compatibility scores for resume/job pairs.
// Two modes are available: simple scoring blends keyword, semantic and format
// signals, while full scoring adds skill, experience and education analysis
// on top of the keyword signal.
package scoring

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"atscore/internal/embedding"
	"atscore/internal/errors"
	"atscore/internal/experience"
	"atscore/internal/index"
	"atscore/internal/jobdesc"
	"atscore/internal/keywords"
	"atscore/internal/match"
	"atscore/internal/parser"
	"atscore/internal/types"
)

// SimpleWeights blends the three simple-mode signals. They should sum to 1.
type SimpleWeights struct {
	Keyword  float64 `mapstructure:"keyword"`
	Semantic float64 `mapstructure:"semantic"`
	Format   float64 `mapstructure:"format"`
}

// FullWeights blends the four full-mode signals. They should sum to 1.
type FullWeights struct {
	Skills     float64 `mapstructure:"skills"`
	Experience float64 `mapstructure:"experience"`
	Education  float64 `mapstructure:"education"`
	Keywords   float64 `mapstructure:"keywords"`
}

// Config carries the scoring weights and decision threshold.
type Config struct {
	Simple SimpleWeights `mapstructure:"simple"`
	Full   FullWeights   `mapstructure:"full"`
	// MinScore is the normalized (0-1) score at or above which a resume
	// should proceed to the application.
	MinScore float64 `mapstructure:"min_score"`
}

// DefaultConfig returns the standard weights and threshold.
func DefaultConfig() Config {
	return Config{
		Simple:   SimpleWeights{Keyword: 0.5, Semantic: 0.3, Format: 0.2},
		Full:     FullWeights{Skills: 0.4, Experience: 0.3, Education: 0.2, Keywords: 0.1},
		MinScore: 0.7,
	}
}

// importantSections are the resume sections the format check looks for.
var importantSections = []string{"summary", "experience", "education", "skills"}

// partialMatchCredit is the weight fraction granted when at least half of a
// multi-word keyword's words appear in the resume.
const partialMatchCredit = 0.7

// roleKeywordWeight scales role-catalog keywords relative to job-specific ones.
const roleKeywordWeight = 0.5

// missingKeywordMinWeight and missingRoleMinWeight filter which absent
// keywords are worth reporting.
const (
	missingKeywordMinWeight = 0.7
	missingRoleMinWeight    = 0.4
	maxMissingKeywords      = 10
)

var achievementPattern = regexp.MustCompile(`(?i)achiev|result|impact|improve|increase|decrease|develop|create|launch|manage`)

// educationRank orders education levels for the education gap score.
var educationRank = map[string]int{
	"high_school": 1,
	"associates":  2,
	"bachelors":   3,
	"masters":     4,
	"phd":         5,
}

// Engine scores resumes against job descriptions. An Engine is safe for
// concurrent use; the optional index records every scored pair.
type Engine struct {
	cfg        Config
	embedder   *embedding.Embedder
	matcher    *match.Matcher
	keywords   *keywords.Analyzer
	experience *experience.Analyzer
	catalog    *keywords.Catalog
	index      *index.Index
	logger     *errors.Logger
}

// NewEngine assembles a scoring engine from the shared components. The index
// and logger may be nil.
func NewEngine(cfg Config, e *embedding.Embedder, catalog *keywords.Catalog, ix *index.Index, logger *errors.Logger) *Engine {
	return &Engine{
		cfg:        cfg,
		embedder:   e,
		matcher:    match.NewMatcher(e),
		keywords:   keywords.NewAnalyzer(e, catalog),
		experience: experience.NewAnalyzer(),
		catalog:    catalog,
		index:      ix,
		logger:     logger,
	}
}

// Score computes the simple-mode score: keyword match, whole-text semantic
// similarity and resume format, blended by the configured weights onto a
// 0-100 scale rounded to one decimal.
func (e *Engine) Score(resume types.ParsedResume, jobDescription string) types.ScoreDetails {
	req := jobdesc.ExtractRequirements(jobDescription)
	fullText := parser.FullText(resume)

	keywordScore, matched := e.keywordMatch(fullText, jobDescription, req)
	semanticScore := e.semanticScore(fullText, jobDescription)
	formatScore := FormatScore(resume)

	total := e.cfg.Simple.Keyword*keywordScore +
		e.cfg.Simple.Semantic*semanticScore +
		e.cfg.Simple.Format*formatScore

	details := types.ScoreDetails{
		TotalScore:      roundScore(total * 100),
		KeywordScore:    keywordScore,
		SemanticScore:   semanticScore,
		FormatScore:     formatScore,
		Role:            req.Role,
		MatchedKeywords: matched,
		MissingKeywords: e.missingKeywords(fullText, req),
	}
	details.Suggestions = e.suggestions(resume, details.MissingKeywords)
	details.ShouldProceed = details.TotalScore/100 >= e.cfg.MinScore

	if e.logger != nil {
		e.logger.Debug("Scored resume",
			"mode", "simple",
			"total", details.TotalScore,
			"keyword", keywordScore,
			"semantic", semanticScore,
			"format", formatScore,
			"role", req.Role)
	}
	return details
}

// ScoreFull computes the full-mode score, adding skill, experience and
// education analysis on top of the keyword signal.
func (e *Engine) ScoreFull(resume types.ParsedResume, jobDescription string) types.ScoreDetails {
	req := jobdesc.ExtractRequirements(jobDescription)
	fullText := parser.FullText(resume)

	skillScore, _ := e.SkillScore(fullText, req)
	entries := experience.ExtractEntries(resume.Sections["experience"])
	experienceScore, _ := e.experience.Analyze(entries, jobDescription, req)
	educationScore := EducationScore(resume.Sections["education"], req.EducationLevel)
	keywordScore, _ := e.keywords.Analyze(fullText, jobDescription)

	total := e.cfg.Full.Skills*skillScore +
		e.cfg.Full.Experience*experienceScore +
		e.cfg.Full.Education*educationScore +
		e.cfg.Full.Keywords*keywordScore

	_, matched := e.keywordMatch(fullText, jobDescription, req)

	details := types.ScoreDetails{
		TotalScore:      roundScore(total * 100),
		KeywordScore:    keywordScore,
		SemanticScore:   e.semanticScore(fullText, jobDescription),
		FormatScore:     FormatScore(resume),
		SkillScore:      skillScore,
		ExperienceScore: experienceScore,
		EducationScore:  educationScore,
		Role:            req.Role,
		MatchedKeywords: matched,
		MissingKeywords: e.missingKeywords(fullText, req),
	}
	details.Suggestions = e.suggestions(resume, details.MissingKeywords)
	details.ShouldProceed = details.TotalScore/100 >= e.cfg.MinScore

	if e.logger != nil {
		e.logger.Debug("Scored resume",
			"mode", "full",
			"total", details.TotalScore,
			"skills", skillScore,
			"experience", experienceScore,
			"education", educationScore,
			"keywords", keywordScore)
	}
	return details
}

// Record appends a scored pair to the index, returning the entry ID. It is a
// no-op when no index is configured.
func (e *Engine) Record(resume types.ParsedResume, jobDescription, resumePath string, details types.ScoreDetails, job types.JobMetadata) (string, error) {
	if e.index == nil {
		return "", nil
	}
	id, err := e.index.Add(parser.FullText(resume), jobDescription, resumePath, details.TotalScore, job)
	if err != nil {
		return "", err
	}
	if e.logger != nil {
		e.logger.Debug("Recorded score in index", "id", id, "path", resumePath)
	}
	return id, nil
}

// Profile summarizes what the engine learned about a candidate from their
// resume: contact details, extracted skills by category and total experience.
func (e *Engine) Profile(resume types.ParsedResume) types.CandidateProfile {
	fullText := parser.FullText(resume)
	skills := e.matcher.ExtractSkills(fullText)

	var totalYears float64
	for _, entry := range experience.ExtractEntries(resume.Sections["experience"]) {
		totalYears += entry.Years
	}

	return types.CandidateProfile{
		Contact:          resume.Contact,
		Skills:           skills,
		SkillsByCategory: e.matcher.Categorize(skills),
		TotalYears:       totalYears,
	}
}

// SkillScore scores the candidate's extracted skills against the required and
// preferred skills, weighting required at 0.7 and preferred at 0.3. A job
// with no listed skills scores 1.0.
func (e *Engine) SkillScore(resumeText string, req types.JobRequirements) (float64, []types.SkillMatch) {
	if len(req.RequiredSkills) == 0 && len(req.PreferredSkills) == 0 {
		return 1.0, nil
	}

	candidateSkills := e.matcher.ExtractSkills(resumeText)
	// Fall back to raw token matching for skills outside the known catalog
	lower := strings.ToLower(resumeText)

	var matches []types.SkillMatch
	score := func(skills []string) float64 {
		if len(skills) == 0 {
			return 1.0
		}
		satisfied := 0
		for _, s := range skills {
			m := e.matcher.MatchSkill(candidateSkills, s)
			if !m.Satisfied && containsPhrase(lower, strings.ToLower(s)) {
				m.Matched = strings.ToLower(s)
				m.Method = "exact"
				m.Score = 1.0
				m.Satisfied = true
			}
			matches = append(matches, m)
			if m.Satisfied {
				satisfied++
			}
		}
		return float64(satisfied) / float64(len(skills))
	}

	requiredScore := score(req.RequiredSkills)
	preferredScore := score(req.PreferredSkills)
	return 0.7*requiredScore + 0.3*preferredScore, matches
}

// EducationScore compares the education level found in the resume's education
// section against the required level. No requirement scores 1.0; each level of
// shortfall costs 0.25.
func EducationScore(educationSection, requiredLevel string) float64 {
	required, ok := educationRank[requiredLevel]
	if !ok {
		return 1.0
	}
	actual := educationRank[jobdesc.DetectEducationLevel(educationSection)]
	if actual >= required {
		return 1.0
	}
	return math.Max(0, 1.0-0.25*float64(required-actual))
}

// FormatScore checks the resume's structure: presence of the important
// sections (70%) and of contact details (30%).
func FormatScore(resume types.ParsedResume) float64 {
	sections := 0
	for _, name := range importantSections {
		if strings.TrimSpace(resume.Sections[name]) != "" {
			sections++
		}
	}

	contact := 0
	if resume.Contact.Email != "" {
		contact++
	}
	if resume.Contact.Phone != "" {
		contact++
	}
	if resume.Contact.Name != "" {
		contact++
	}

	return float64(sections)/float64(len(importantSections))*0.7 +
		float64(contact)/3.0*0.3
}

// keywordMatch scores the weighted job keywords against the resume text.
// Phrases are matched against the raw text and against a whitespace-normalized
// token stream, so keywords split across lines or punctuation still count as
// full matches. Multi-word keywords earn partial credit when at least half
// their words appear; role-catalog keywords count at half weight and only
// when the job description itself mentions them, so a resume is not penalized
// for catalog terms the job never asked for. A job with no keywords at all
// scores a neutral 0.5.
func (e *Engine) keywordMatch(resumeText, jobDescription string, req types.JobRequirements) (float64, []types.WeightedKeyword) {
	lower := strings.ToLower(resumeText)
	normalized := strings.Join(embedding.Tokenize(resumeText), " ")
	lowerJob := strings.ToLower(jobDescription)
	roleKeywords := e.catalog.RoleKeywords(req.Role)

	if len(req.Keywords) == 0 && len(roleKeywords) == 0 {
		return 0.5, nil
	}

	var totalWeight, matchedWeight float64
	matchedSet := make(map[string]float64)

	for _, kw := range req.Keywords {
		totalWeight += kw.Weight
		text := strings.ToLower(kw.Text)
		switch {
		case containsPhrase(lower, text) || containsPhrase(normalized, text):
			matchedWeight += kw.Weight
			matchedSet[text] = kw.Weight
		case partialWordMatch(lower, text):
			matchedWeight += kw.Weight * partialMatchCredit
			matchedSet[text] = kw.Weight
		}
	}

	for term, weight := range roleKeywords {
		if !containsPhrase(lowerJob, term) {
			continue
		}
		w := weight * roleKeywordWeight
		totalWeight += w
		if containsPhrase(lower, term) {
			matchedWeight += w
			if _, ok := matchedSet[term]; !ok {
				matchedSet[term] = weight
			}
		}
	}

	matched := make([]types.WeightedKeyword, 0, len(matchedSet))
	for text, weight := range matchedSet {
		matched = append(matched, types.WeightedKeyword{Text: text, Weight: weight})
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Text < matched[j].Text })

	if totalWeight == 0 {
		return 0.5, matched
	}
	return matchedWeight / totalWeight, matched
}

// missingKeywords lists significant job keywords absent from the resume:
// job-specific keywords at weight 0.7 or above and role-catalog keywords at
// weight 0.4 or above, capped at the ten heaviest.
func (e *Engine) missingKeywords(resumeText string, req types.JobRequirements) []types.WeightedKeyword {
	lower := strings.ToLower(resumeText)
	normalized := strings.Join(embedding.Tokenize(resumeText), " ")
	seen := make(map[string]struct{})
	var missing []types.WeightedKeyword

	add := func(text string, weight float64) {
		if _, ok := seen[text]; ok {
			return
		}
		seen[text] = struct{}{}
		missing = append(missing, types.WeightedKeyword{Text: text, Weight: weight})
	}

	for _, kw := range req.Keywords {
		text := strings.ToLower(kw.Text)
		if kw.Weight >= missingKeywordMinWeight &&
			!containsPhrase(lower, text) && !containsPhrase(normalized, text) &&
			!partialWordMatch(lower, text) {
			add(text, kw.Weight)
		}
	}

	roleKeywords := e.catalog.RoleKeywords(req.Role)
	roleTerms := make([]string, 0, len(roleKeywords))
	for term := range roleKeywords {
		roleTerms = append(roleTerms, term)
	}
	sort.Strings(roleTerms)
	for _, term := range roleTerms {
		if roleKeywords[term] >= missingRoleMinWeight && !containsPhrase(lower, term) {
			add(term, roleKeywords[term])
		}
	}

	sort.SliceStable(missing, func(i, j int) bool { return missing[i].Weight > missing[j].Weight })
	if len(missing) > maxMissingKeywords {
		missing = missing[:maxMissingKeywords]
	}
	return missing
}

// suggestions produces actionable advice: missing keywords, absent sections,
// missing contact details and a weak-achievement check on the experience
// section.
func (e *Engine) suggestions(resume types.ParsedResume, missing []types.WeightedKeyword) []string {
	var out []string

	if len(missing) > 0 {
		top := types.KeywordTexts(missing)
		if len(top) > 5 {
			top = top[:5]
		}
		out = append(out, fmt.Sprintf("Consider adding these keywords: %s", strings.Join(top, ", ")))
	}

	for _, name := range importantSections {
		if strings.TrimSpace(resume.Sections[name]) == "" {
			out = append(out, fmt.Sprintf("Add a %s section to your resume", name))
		}
	}

	if resume.Contact.Email == "" {
		out = append(out, "Include an email address in your contact information")
	}
	if resume.Contact.Phone == "" {
		out = append(out, "Include a phone number in your contact information")
	}

	if exp := resume.Sections["experience"]; exp != "" && !achievementPattern.MatchString(exp) {
		out = append(out, "Highlight achievements and measurable results in your experience section")
	}

	return out
}

// semanticScore compares the whole resume against the job description,
// returning a neutral 0.5 when either text is empty.
func (e *Engine) semanticScore(resumeText, jobDescription string) float64 {
	if strings.TrimSpace(resumeText) == "" || strings.TrimSpace(jobDescription) == "" {
		return 0.5
	}
	return e.keywords.SemanticSimilarity(resumeText, jobDescription)
}

// partialWordMatch reports whether at least half the words of a multi-word
// phrase appear in the text.
func partialWordMatch(text, phrase string) bool {
	words := strings.Fields(phrase)
	if len(words) < 2 {
		return false
	}
	found := 0
	for _, w := range words {
		if containsPhrase(text, w) {
			found++
		}
	}
	return float64(found)/float64(len(words)) >= 0.5
}

// containsPhrase reports whether phrase occurs in text bounded by
// non-alphanumeric characters.
func containsPhrase(text, phrase string) bool {
	if phrase == "" {
		return false
	}
	for start := 0; ; {
		idx := strings.Index(text[start:], phrase)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(phrase)

		beforeOK := idx == 0 || !isAlnumByte(text[idx-1])
		afterOK := end == len(text) || !isAlnumByte(text[end])
		if beforeOK && afterOK {
			return true
		}
		start = idx + 1
	}
}

func isAlnumByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

func roundScore(v float64) float64 {
	return math.Round(v*10) / 10
}
