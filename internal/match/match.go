// Package match implements skill matching between candidate skills and job
// requirements. Matching runs through a fixed precedence: exact, normalized,
// known variation, fuzzy ratio, then embedding similarity.
package match

import (
	"sort"
	"strings"
	"unicode"

	"atscore/internal/embedding"
	"atscore/internal/types"
)

const (
	// FuzzyThreshold is the minimum edit-distance ratio for a fuzzy match.
	FuzzyThreshold = 0.85
	// SemanticThreshold is the minimum cosine similarity for a semantic match.
	SemanticThreshold = 0.85
)

// skillVariations maps canonical skill names to their common aliases and
// abbreviations as they appear in resumes and job descriptions.
var skillVariations = map[string][]string{
	"javascript":                {"js", "ecmascript", "node.js", "nodejs"},
	"python":                    {"py", "python3", "python2"},
	"java":                      {"j2ee", "jvm", "java8", "java11"},
	"c++":                       {"cpp", "c plus plus"},
	"c#":                        {"csharp", "c sharp", "dotnet", ".net"},
	"machine learning":          {"ml", "deep learning", "ai"},
	"artificial intelligence":   {"ai", "machine learning", "deep learning"},
	"amazon web services":       {"aws"},
	"microsoft azure":           {"azure"},
	"google cloud platform":     {"gcp", "google cloud"},
	"sql":                       {"mysql", "postgresql", "oracle", "tsql", "t-sql"},
	"react":                     {"reactjs", "react.js"},
	"vue":                       {"vuejs", "vue.js"},
	"angular":                   {"angularjs", "angular2+"},
	"devops":                    {"devsecops", "dev ops"},
	"ci/cd":                     {"cicd", "continuous integration", "continuous deployment"},
	"docker":                    {"containerization", "containers"},
	"kubernetes":                {"k8s", "container orchestration"},
}

// Matcher matches skills using the variation table, fuzzy ratios and the
// shared embedder.
type Matcher struct {
	embedder *embedding.Embedder
	lookup   map[string]string // variation or canonical name -> canonical name
}

// NewMatcher builds a Matcher around the given embedder.
func NewMatcher(e *embedding.Embedder) *Matcher {
	lookup := make(map[string]string)
	for main, variations := range skillVariations {
		lookup[main] = main
		for _, v := range variations {
			lookup[v] = main
		}
	}
	return &Matcher{embedder: e, lookup: lookup}
}

// HasSkill reports whether any candidate skill satisfies the required skill.
func (m *Matcher) HasSkill(candidateSkills []string, required string) bool {
	return m.MatchSkill(candidateSkills, required).Satisfied
}

// MatchSkill finds the best candidate skill for a requirement and records
// how the match was made. Earlier methods in the precedence win outright.
func (m *Matcher) MatchSkill(candidateSkills []string, required string) types.SkillMatch {
	required = strings.ToLower(strings.TrimSpace(required))
	result := types.SkillMatch{Required: required}

	candidates := make([]string, 0, len(candidateSkills))
	for _, s := range candidateSkills {
		candidates = append(candidates, strings.ToLower(strings.TrimSpace(s)))
	}

	// Direct match
	for _, c := range candidates {
		if c == required {
			result.Matched = c
			result.Method = "exact"
			result.Score = 1.0
			result.Satisfied = true
			return result
		}
	}

	// Normalized match
	normRequired := NormalizeSkill(required)
	for _, c := range candidates {
		if normRequired != "" && NormalizeSkill(c) == normRequired {
			result.Matched = c
			result.Method = "normalized"
			result.Score = 1.0
			result.Satisfied = true
			return result
		}
	}

	// Variation table
	if main, ok := m.lookup[required]; ok {
		group := append([]string{main}, skillVariations[main]...)
		for _, c := range candidates {
			for _, v := range group {
				if c == v {
					result.Matched = c
					result.Method = "variation"
					result.Score = 1.0
					result.Satisfied = true
					return result
				}
			}
		}
	}

	// Fuzzy ratio on normalized forms
	for _, c := range candidates {
		if ratio := FuzzyRatio(normRequired, NormalizeSkill(c)); ratio >= FuzzyThreshold {
			result.Matched = c
			result.Method = "fuzzy"
			result.Score = ratio
			result.Satisfied = true
			return result
		}
	}

	// Embedding similarity
	reqVec := m.embedder.Embed(required)
	for _, c := range candidates {
		if sim := embedding.Cosine(reqVec, m.embedder.Embed(c)); sim >= SemanticThreshold {
			result.Matched = c
			result.Method = "semantic"
			result.Score = sim
			result.Satisfied = true
			return result
		}
	}

	return result
}

// FindSimilar lists skills related to the given one: its variation group plus
// any canonical skill within the fuzzy or semantic threshold. The input skill
// itself is excluded.
func (m *Matcher) FindSimilar(skill string, threshold float64) []string {
	skill = strings.ToLower(strings.TrimSpace(skill))
	similar := make(map[string]struct{})

	addGroup := func(main string) {
		similar[main] = struct{}{}
		for _, v := range skillVariations[main] {
			similar[v] = struct{}{}
		}
	}

	if main, ok := m.lookup[NormalizeSkill(skill)]; ok {
		addGroup(main)
	}
	if main, ok := m.lookup[skill]; ok {
		addGroup(main)
	}

	skillVec := m.embedder.Embed(skill)
	for main := range skillVariations {
		if FuzzyRatio(NormalizeSkill(skill), NormalizeSkill(main)) >= threshold {
			addGroup(main)
			continue
		}
		if embedding.Cosine(skillVec, m.embedder.Embed(main)) >= threshold {
			addGroup(main)
		}
	}

	delete(similar, skill)

	out := make([]string, 0, len(similar))
	for s := range similar {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// ExtractSkills scans text for known skills and their variations, returning
// canonical names sorted alphabetically.
func (m *Matcher) ExtractSkills(text string) []string {
	text = strings.ToLower(text)
	found := make(map[string]struct{})

	for main, variations := range skillVariations {
		if containsTerm(text, main) {
			found[main] = struct{}{}
			continue
		}
		for _, v := range variations {
			if containsTerm(text, v) {
				found[main] = struct{}{}
				break
			}
		}
	}

	out := make([]string, 0, len(found))
	for s := range found {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// categoryOrder fixes the precedence when a skill fits several buckets.
var categoryOrder = []string{
	"programming_languages", "frameworks", "databases", "cloud", "tools", "soft_skills",
}

var categoryPatterns = map[string]map[string]struct{}{
	"programming_languages": toSet("python", "java", "javascript", "c++", "c#", "ruby", "php",
		"swift", "kotlin", "go", "rust", "scala", "perl", "r"),
	"frameworks": toSet("react", "angular", "vue", "django", "flask", "spring",
		"express", "laravel", "rails", "asp.net"),
	"databases": toSet("sql", "mysql", "postgresql", "mongodb", "oracle", "redis",
		"cassandra", "elasticsearch", "dynamodb"),
	"cloud": toSet("aws", "azure", "gcp", "cloud", "serverless", "lambda",
		"ec2", "s3", "kubernetes", "docker"),
	"tools": toSet("git", "jenkins", "jira", "docker", "kubernetes", "terraform",
		"ansible", "maven", "gradle", "npm"),
	"soft_skills": toSet("leadership", "communication", "teamwork", "problem solving",
		"project management", "agile", "scrum"),
}

// Categorize buckets skills into programming_languages, frameworks,
// databases, cloud, tools, soft_skills and other. A skill lands in the first
// matching bucket; unmatched skills go to other.
func (m *Matcher) Categorize(skills []string) map[string][]string {
	categories := make(map[string][]string)

	for _, skill := range skills {
		skill = strings.ToLower(strings.TrimSpace(skill))
		categorized := false

		for _, category := range categoryOrder {
			pattern := categoryPatterns[category]
			if _, ok := pattern[skill]; ok {
				categories[category] = append(categories[category], skill)
				categorized = true
				break
			}
			if main, ok := m.lookup[NormalizeSkill(skill)]; ok {
				if _, ok := pattern[main]; ok {
					categories[category] = append(categories[category], skill)
					categorized = true
					break
				}
			}
		}

		if !categorized {
			categories["other"] = append(categories["other"], skill)
		}
	}

	return categories
}

// NormalizeSkill strips everything but letters and digits and lowercases.
func NormalizeSkill(skill string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(skill) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FuzzyRatio returns an edit-distance similarity ratio between two strings,
// 1.0 for identical, 0.0 for completely different.
func FuzzyRatio(a, b string) float64 {
	if a == b {
		if a == "" {
			return 0
		}
		return 1.0
	}
	if a == "" || b == "" {
		return 0
	}

	dist := levenshtein(a, b)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	return 1.0 - float64(dist)/float64(maxLen)
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)

	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// containsTerm reports whether term occurs in text bounded by non-alphanumeric
// characters, so "ai" does not match inside "maintain".
func containsTerm(text, term string) bool {
	if term == "" {
		return false
	}
	for start := 0; ; {
		idx := strings.Index(text[start:], term)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(term)

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

func toSet(items ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, s := range items {
		set[s] = struct{}{}
	}
	return set
}
