// Package experience evaluates candidate work history against a job
// description: how many years the job asks for, how relevant each entry is,
// and how achievement-oriented its wording is.
package experience

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"atscore/internal/keywords"
	"atscore/internal/match"
	"atscore/internal/types"
)

// Per-entry weights and the final blend between years and entry quality.
const (
	weightRelevance   = 0.4
	weightSkills      = 0.3
	weightAchievement = 0.3

	weightYears     = 0.6
	weightEntryFit  = 0.4
	fuzzyRespThresh = 0.8
)

var requiredYearsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\+?\s*(?:-\s*\d+)?\s+years?(?:\s+of)?\s+experience`),
	regexp.MustCompile(`(\d+)\+?\s*(?:-\s*\d+)?\s+years?(?:\s+of)?\s+work\s+experience`),
	regexp.MustCompile(`minimum\s+(?:of\s+)?(\d+)\+?\s+years?`),
}

var achievementTerms = []string{"improve", "increase", "reduce", "optimize", "enhance"}

var achievementPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+%`),
	regexp.MustCompile(`\$\d+`),
	regexp.MustCompile(`\d+x`),
	regexp.MustCompile(`increased|decreased|reduced|improved|optimized|enhanced`),
}

var actionVerbs = []string{
	"lead", "led", "manage", "managed", "direct", "directed", "oversee",
	"supervise", "head", "develop", "developed", "implement", "implemented",
	"architect", "code", "program", "design", "designed", "build", "built",
	"create", "created", "deliver", "delivered", "coordinate", "plan",
	"execute", "launch", "launched", "collaborate", "improve", "improved",
	"increase", "increased", "reduce", "reduced", "optimize", "optimized",
	"enhance", "enhanced", "maintain", "maintained", "support", "supported",
}

// Analyzer scores candidate experience entries against a job description.
type Analyzer struct {
	now func() time.Time
}

// NewAnalyzer builds an experience Analyzer using the wall clock.
func NewAnalyzer() *Analyzer {
	return &Analyzer{now: time.Now}
}

// Analyze scores the candidate's experience entries against the job. It
// returns the overall experience score (0-1) and per-entry matches sorted by
// weighted score. No entries means no evidence, so the score is 0.
func (a *Analyzer) Analyze(entries []types.ExperienceEntry, jobDescription string, req types.JobRequirements) (float64, []types.ExperienceMatch) {
	if len(entries) == 0 {
		return 0.0, nil
	}

	requiredYears := float64(req.RequiredYears)
	if requiredYears <= 0 {
		requiredYears = float64(ExtractRequiredYears(jobDescription))
	}
	responsibilities := ExtractKeyResponsibilities(jobDescription)

	var totalYears float64
	for _, e := range entries {
		totalYears += a.entryYears(e)
	}

	yearsScore := 1.0
	if requiredYears > 0 {
		yearsScore = totalYears / requiredYears
		if yearsScore > 1.0 {
			yearsScore = 1.0
		}
	}

	matches := make([]types.ExperienceMatch, 0, len(entries))
	var weightedTotal float64
	for _, e := range entries {
		years := a.entryYears(e)

		relevance := relevanceScore(e.Description, jobDescription, responsibilities)
		skillScore := skillMatchScore(e.Description, req.RequiredSkills)
		achievement := AchievementScore(e.Description)
		weighted := weightRelevance*relevance + weightSkills*skillScore + weightAchievement*achievement

		entry := e
		entry.Years = years
		matches = append(matches, types.ExperienceMatch{
			Entry:            entry,
			Relevance:        relevance,
			SkillScore:       skillScore,
			AchievementScore: achievement,
			WeightedScore:    weighted,
		})

		weightedTotal += weighted * years
	}

	var entryFit float64
	if totalYears > 0 {
		entryFit = weightedTotal / totalYears
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].WeightedScore > matches[j].WeightedScore
	})

	return weightYears*yearsScore + weightEntryFit*entryFit, matches
}

func (a *Analyzer) entryYears(e types.ExperienceEntry) float64 {
	if e.Years > 0 {
		return e.Years
	}
	return ParseYears(e.DateRange, a.now())
}

// ExtractRequiredYears pulls the required years of experience from a job
// description, 0 when no explicit requirement is stated.
func ExtractRequiredYears(jobDescription string) int {
	lower := strings.ToLower(jobDescription)
	for _, pattern := range requiredYearsPatterns {
		if m := pattern.FindStringSubmatch(lower); m != nil {
			if years, err := strconv.Atoi(m[1]); err == nil {
				return years
			}
		}
	}
	return 0
}

var responsibilityHeadings = []string{
	"responsibilities",
	"key responsibilities",
	"duties",
	"what you'll do",
	"role description",
	"job duties",
}

var responsibilityTerminators = []string{"requirements", "qualifications", "skills", "about us"}

// ExtractKeyResponsibilities pulls responsibility statements from a job
// description: the bulleted lines under a responsibilities-style heading, or
// failing that, sentences that open with an action verb.
func ExtractKeyResponsibilities(jobDescription string) []string {
	lower := strings.ToLower(jobDescription)

	for _, heading := range responsibilityHeadings {
		start := strings.Index(lower, heading)
		if start < 0 {
			continue
		}

		end := len(jobDescription)
		for _, term := range responsibilityTerminators {
			if idx := strings.Index(lower[start+len(heading):], term); idx >= 0 {
				if abs := start + len(heading) + idx; abs < end {
					end = abs
				}
			}
		}

		var responsibilities []string
		for _, line := range strings.Split(jobDescription[start:end], "\n") {
			line = strings.TrimSpace(line)
			if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•") || strings.HasPrefix(line, "*") {
				cleaned := strings.TrimSpace(strings.TrimLeft(line, "-•* "))
				if cleaned != "" {
					responsibilities = append(responsibilities, cleaned)
				}
			}
		}
		if len(responsibilities) > 0 {
			return responsibilities
		}
		break
	}

	// No structured list; fall back to action-verb sentences
	var responsibilities []string
	for _, sentence := range splitSentences(jobDescription) {
		words := strings.Fields(strings.ToLower(sentence))
		limit := 2
		if len(words) < limit {
			limit = len(words)
		}
		for i := 0; i < limit; i++ {
			word := strings.Trim(words[i], ",.;:")
			if isActionVerb(word) {
				responsibilities = append(responsibilities, strings.TrimSpace(sentence))
				break
			}
		}
	}
	return responsibilities
}

var dateRangeSplit = regexp.MustCompile(`\s*[-–—]\s*|\s+to\s+`)

// ParseYears converts a date range like "Jan 2020 - Present" into fractional
// years as of now. Ranges that cannot be parsed yield 0.
func ParseYears(dateRange string, now time.Time) float64 {
	dateRange = strings.TrimSpace(dateRange)
	if dateRange == "" {
		return 0.0
	}

	parts := dateRangeSplit.Split(dateRange, -1)
	if len(parts) != 2 {
		return 0.0
	}

	start, ok := parseDate(strings.TrimSpace(parts[0]))
	if !ok {
		return 0.0
	}

	endStr := strings.ToLower(strings.TrimSpace(parts[1]))
	var end time.Time
	switch endStr {
	case "present", "current", "now":
		end = now
	default:
		var ok bool
		end, ok = parseDate(strings.TrimSpace(parts[1]))
		if !ok {
			return 0.0
		}
	}

	years := end.Sub(start).Hours() / 24 / 365.25
	if years < 0 {
		return 0.0
	}
	return years
}

var dateLayouts = []string{
	"Jan 2006",
	"January 2006",
	"Jan. 2006",
	"01/2006",
	"1/2006",
	"2006/01",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006",
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// AchievementScore counts achievement indicators (impact verbs, percentages,
// money, multipliers) in a description, capped at 1.0.
func AchievementScore(description string) float64 {
	if description == "" {
		return 0.0
	}
	lower := strings.ToLower(description)

	count := 0
	for _, term := range achievementTerms {
		if strings.Contains(lower, term) {
			count++
		}
	}
	for _, pattern := range achievementPatterns {
		if pattern.MatchString(lower) {
			count++
		}
	}

	score := float64(count) / 5.0
	if score > 1.0 {
		return 1.0
	}
	return score
}

// relevanceScore blends TF-IDF similarity against the job description with
// the fraction of key responsibilities the entry covers.
func relevanceScore(description, jobDescription string, responsibilities []string) float64 {
	if description == "" || jobDescription == "" {
		return 0.0
	}

	similarity := keywords.TFIDFSimilarity(description, jobDescription)

	var respScore float64
	if len(responsibilities) > 0 {
		matched := fuzzyMatchCount(description, responsibilities, fuzzyRespThresh)
		respScore = float64(matched) / float64(len(responsibilities))
	}

	return 0.7*similarity + 0.3*respScore
}

func skillMatchScore(description string, requiredSkills []string) float64 {
	if description == "" || len(requiredSkills) == 0 {
		return 0.0
	}
	matched := fuzzyMatchCount(description, requiredSkills, fuzzyRespThresh)
	return float64(matched) / float64(len(requiredSkills))
}

// fuzzyMatchCount counts keywords whose best partial ratio against the text
// meets the threshold.
func fuzzyMatchCount(text string, kws []string, threshold float64) int {
	count := 0
	lower := strings.ToLower(text)
	for _, kw := range kws {
		if PartialRatio(strings.ToLower(kw), lower) >= threshold {
			count++
		}
	}
	return count
}

// PartialRatio slides the shorter string over the longer and returns the best
// window similarity, so a keyword scores high when it appears anywhere in a
// longer text.
func PartialRatio(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	short, long := a, b
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == len(long) {
		return match.FuzzyRatio(short, long)
	}

	var best float64
	for i := 0; i+len(short) <= len(long); i++ {
		if ratio := match.FuzzyRatio(short, long[i:i+len(short)]); ratio > best {
			best = ratio
			if best == 1.0 {
				break
			}
		}
	}
	return best
}

func splitSentences(text string) []string {
	var sentences []string
	for _, chunk := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	}) {
		chunk = strings.TrimSpace(chunk)
		if chunk != "" {
			sentences = append(sentences, chunk)
		}
	}
	return sentences
}

func isActionVerb(word string) bool {
	for _, v := range actionVerbs {
		if word == v {
			return true
		}
	}
	return false
}
