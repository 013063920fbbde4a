// Package jobdesc extracts structured requirements from free-form job
// descriptions: weighted keywords, required and preferred skills, the role
// category and experience expectations. Each extraction rule is a pure
// function so rules can be tested and tuned independently.
package jobdesc

import (
	"regexp"
	"strconv"
	"strings"

	"atscore/internal/embedding"
	"atscore/internal/experience"
	"atscore/internal/types"
)

// Weights assigned by each extraction rule.
const (
	WeightNounPhrase      = 0.5
	WeightTechTerm        = 0.8
	WeightRequiredSection = 0.9
	WeightPattern         = 0.7
	WeightYearsPattern    = 0.9
)

var techPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)python`),
	regexp.MustCompile(`(?i)java\b`),
	regexp.MustCompile(`(?i)javascript`),
	regexp.MustCompile(`(?i)react`),
	regexp.MustCompile(`(?i)aws`),
	regexp.MustCompile(`(?i)sql`),
	regexp.MustCompile(`(?i)excel`),
	regexp.MustCompile(`(?i)machine learning`),
	regexp.MustCompile(`(?i)\bai\b`),
	regexp.MustCompile(`(?i)\br\b`),
	regexp.MustCompile(`(?i)c\+\+`),
	regexp.MustCompile(`(?i)docker`),
	regexp.MustCompile(`(?i)kubernetes`),
	regexp.MustCompile(`(?i)linux`),
	regexp.MustCompile(`(?i)git`),
}

var degreeAbbrev = regexp.MustCompile(`\bbs\b|\bba\b`)

var requiredSection = regexp.MustCompile(`(?s)required(?:\s+qualifications|\s+skills)?:(.*?)(?:preferred|$)`)
var preferredSection = regexp.MustCompile(`(?s)preferred(?:\s+qualifications|\s+skills)?:(.*?)$`)

var yearsInPattern = regexp.MustCompile(`(?i)(\d+)\+?\s+years\s+(?:of\s+)?experience\s+(?:in|with)\s+([^,.\n]+)`)

var yearsMention = regexp.MustCompile(`\d+\+?\s*years`)

var phrasePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)proficient\s+(?:in|with)\s+([^,.\n]+)`),
	regexp.MustCompile(`(?i)knowledge\s+of\s+([^,.\n]+)`),
	regexp.MustCompile(`(?i)familiarity\s+with\s+([^,.\n]+)`),
	regexp.MustCompile(`(?i)background\s+in\s+([^,.\n]+)`),
	regexp.MustCompile(`(?i)degree\s+in\s+([^,.\n]+)`),
}

var rolePatterns = map[string][]string{
	"software_development": {
		"software engineer", "developer", "programmer", "coder", "full stack",
		"frontend", "backend", "web developer", "mobile developer",
	},
	"data_science": {
		"data scientist", "machine learning", "ai engineer", "data analyst",
		"deep learning", "nlp", "computer vision", "statistical analysis",
	},
	"product_management": {
		"product manager", "product owner", "product development",
		"roadmap", "user stories", "prioritization",
	},
	"marketing": {
		"marketing", "social media", "content writer", "seo", "ppc",
		"growth hacker", "brand manager",
	},
	"design": {
		"designer", "ui/ux", "graphic designer", "ui designer", "ux researcher",
	},
	"sales": {
		"sales", "account executive", "business development", "sales representative",
	},
	"finance": {
		"finance", "accountant", "financial analyst", "controller", "cfo",
	},
	"hr": {
		"human resources", "recruiter", "talent acquisition", "hr manager",
	},
	"operations": {
		"operations", "project manager", "program manager", "scrum master",
	},
}

// roleOrder makes DetectRole deterministic when categories tie.
var roleOrder = []string{
	"software_development", "data_science", "product_management", "marketing",
	"design", "sales", "finance", "hr", "operations",
}

var stopwords = map[string]struct{}{
	"with": {}, "your": {}, "this": {}, "that": {}, "have": {}, "will": {},
	"from": {}, "they": {}, "their": {}, "about": {}, "what": {}, "when": {},
	"where": {}, "which": {}, "would": {}, "there": {}, "been": {}, "were": {},
	"more": {}, "some": {}, "them": {}, "then": {}, "than": {}, "into": {},
	"only": {}, "over": {}, "such": {}, "most": {}, "other": {}, "these": {},
	"also": {}, "must": {}, "should": {}, "could": {}, "each": {}, "both": {},
}

// ExtractRequirements runs every rule over the job description and assembles
// the deduplicated weighted keyword list plus role, skills and experience
// expectations. Duplicate keywords keep the first weight seen.
func ExtractRequirements(jobDescription string) types.JobRequirements {
	var keywords []types.WeightedKeyword
	keywords = append(keywords, NounPhraseKeywords(jobDescription)...)
	keywords = append(keywords, TechKeywords(jobDescription)...)
	keywords = append(keywords, RequiredSectionKeywords(jobDescription)...)
	keywords = append(keywords, PatternKeywords(jobDescription)...)

	seen := make(map[string]struct{})
	unique := keywords[:0]
	for _, kw := range keywords {
		if _, ok := seen[kw.Text]; ok {
			continue
		}
		seen[kw.Text] = struct{}{}
		unique = append(unique, kw)
	}

	req := types.JobRequirements{
		Keywords:        unique,
		Role:            DetectRole(jobDescription),
		RequiredSkills:  requiredSkills(jobDescription),
		PreferredSkills: sectionBullets(preferredSection, jobDescription),
		EducationLevel:  DetectEducationLevel(jobDescription),
		RequiredYears:   experience.ExtractRequiredYears(jobDescription),
	}
	return req
}

// NounPhraseKeywords extracts adjacent-word phrases as low-weight keywords.
func NounPhraseKeywords(jobDescription string) []types.WeightedKeyword {
	tokens := embedding.Tokenize(jobDescription)
	var out []types.WeightedKeyword
	for i := 0; i+1 < len(tokens); i++ {
		a, b := tokens[i], tokens[i+1]
		if len(a) <= 3 || len(b) <= 3 {
			continue
		}
		if _, stop := stopwords[a]; stop {
			continue
		}
		if _, stop := stopwords[b]; stop {
			continue
		}
		out = append(out, types.WeightedKeyword{Text: a + " " + b, Weight: WeightNounPhrase})
	}
	return out
}

// TechKeywords extracts well-known technology terms at high weight.
func TechKeywords(jobDescription string) []types.WeightedKeyword {
	var out []types.WeightedKeyword
	for _, pattern := range techPatterns {
		for _, m := range pattern.FindAllString(jobDescription, -1) {
			out = append(out, types.WeightedKeyword{
				Text:   strings.ToLower(m),
				Weight: WeightTechTerm,
			})
		}
	}
	return out
}

// RequiredSectionKeywords extracts the items under a "Required:" style
// heading at the highest weight, whether they are bullet lines or an inline
// comma-separated list.
func RequiredSectionKeywords(jobDescription string) []types.WeightedKeyword {
	var out []types.WeightedKeyword
	for _, bullet := range sectionBullets(requiredSection, jobDescription) {
		out = append(out, types.WeightedKeyword{Text: bullet, Weight: WeightRequiredSection})
	}
	return out
}

// PatternKeywords extracts skills introduced by requirement phrasings like
// "proficient in X" or "5 years experience with Y". Years patterns carry the
// years alongside the keyword.
func PatternKeywords(jobDescription string) []types.WeightedKeyword {
	var out []types.WeightedKeyword

	for _, m := range yearsInPattern.FindAllStringSubmatch(jobDescription, -1) {
		years, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		out = append(out, types.WeightedKeyword{
			Text:          strings.ToLower(strings.TrimSpace(m[2])),
			Weight:        WeightYearsPattern,
			YearsRequired: years,
		})
	}

	for _, pattern := range phrasePatterns {
		for _, m := range pattern.FindAllStringSubmatch(jobDescription, -1) {
			out = append(out, types.WeightedKeyword{
				Text:   strings.ToLower(strings.TrimSpace(m[1])),
				Weight: WeightPattern,
			})
		}
	}
	return out
}

// DetectRole classifies the job description into a role category by pattern
// hits, "generic" when nothing matches.
func DetectRole(jobDescription string) string {
	lower := strings.ToLower(jobDescription)

	bestRole := "generic"
	bestScore := 0
	for _, role := range roleOrder {
		score := 0
		for _, pattern := range rolePatterns[role] {
			if strings.Contains(lower, pattern) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			bestRole = role
		}
	}
	return bestRole
}

// DetectEducationLevel finds the highest education level the description
// mentions, empty when none is stated.
func DetectEducationLevel(jobDescription string) string {
	lower := strings.ToLower(jobDescription)
	switch {
	case strings.Contains(lower, "phd") || strings.Contains(lower, "doctorate") || strings.Contains(lower, "doctoral"):
		return "phd"
	case strings.Contains(lower, "master"):
		return "masters"
	case strings.Contains(lower, "bachelor") || degreeAbbrev.MatchString(lower):
		return "bachelors"
	case strings.Contains(lower, "associate"):
		return "associates"
	case strings.Contains(lower, "high school"):
		return "high_school"
	}
	return ""
}

func requiredSkills(jobDescription string) []string {
	skills := sectionBullets(requiredSection, jobDescription)
	for _, m := range yearsInPattern.FindAllStringSubmatch(jobDescription, -1) {
		skills = append(skills, strings.ToLower(strings.TrimSpace(m[2])))
	}
	return skills
}

func sectionBullets(section *regexp.Regexp, jobDescription string) []string {
	m := section.FindStringSubmatch(strings.ToLower(jobDescription))
	if m == nil {
		return nil
	}

	var bullets []string
	for _, line := range strings.Split(m[1], "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•") || strings.HasPrefix(line, "*") {
			cleaned := strings.TrimSpace(strings.TrimLeft(line, "-•* "))
			if cleaned != "" {
				bullets = append(bullets, cleaned)
			}
		}
	}
	if bullets == nil {
		bullets = inlineListItems(m[1])
	}
	return bullets
}

// inlineListItems handles sections written as a single comma-separated line,
// "Required: Python, AWS, Leadership.", rather than as bullet lines. Long
// fragments and years-of-experience phrases are left for the pattern rules.
func inlineListItems(section string) []string {
	var line string
	for _, l := range strings.Split(section, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			line = l
			break
		}
	}

	var items []string
	for _, item := range strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == '.' || r == ';'
	}) {
		item = strings.TrimSpace(item)
		if item == "" || len(strings.Fields(item)) > 3 || yearsMention.MatchString(item) {
			continue
		}
		items = append(items, item)
	}
	return items
}
