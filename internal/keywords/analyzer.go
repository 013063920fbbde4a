// Package keywords analyzes keyword and phrase overlap between resumes and
// job descriptions. The overall score combines four signals: TF-IDF cosine
// similarity, phrase-level matching, embedding similarity of the full texts
// and industry-term coverage.
package keywords

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"atscore/internal/embedding"
)

// Signal weights for the combined keyword score.
const (
	weightTFIDF        = 0.3
	weightPhrase       = 0.3
	weightSemantic     = 0.2
	weightTermCoverage = 0.2
)

// MissingKeywordThreshold is the phrase-match score below which a job phrase
// counts as missing from the resume.
const MissingKeywordThreshold = 0.3

var stopwords = toSet(
	"a", "an", "and", "are", "as", "at", "be", "but", "by", "for", "from",
	"has", "have", "in", "is", "it", "its", "of", "on", "or", "our", "that",
	"the", "their", "they", "this", "to", "was", "we", "were", "will", "with",
	"you", "your",
)

// Analyzer scores keyword overlap between a resume and a job description.
type Analyzer struct {
	embedder *embedding.Embedder
	catalog  *Catalog
}

// NewAnalyzer builds an Analyzer over the shared embedder and catalog.
func NewAnalyzer(e *embedding.Embedder, catalog *Catalog) *Analyzer {
	return &Analyzer{embedder: e, catalog: catalog}
}

// Analyze returns the combined keyword score (0-1) and the per-phrase match
// scores for job-description phrases found in the resume.
func (a *Analyzer) Analyze(resumeText, jobDescription string) (float64, map[string]float64) {
	jobPhrases := a.ExtractPhrases(jobDescription)
	resumePhrases := a.ExtractPhrases(resumeText)

	tfidfScore := TFIDFSimilarity(resumeText, jobDescription)

	phraseMatches := make(map[string]float64)
	var phraseSum float64
	resumeVecs := a.embedPhrases(resumePhrases)
	for _, phrase := range jobPhrases {
		score := a.phraseMatchScore(phrase, resumePhrases, resumeVecs)
		if score > 0 {
			phraseMatches[phrase] = score
		}
		phraseSum += score
	}
	phraseDenom := float64(len(jobPhrases))
	if phraseDenom < 1 {
		phraseDenom = 1
	}

	semanticScore := a.SemanticSimilarity(resumeText, jobDescription)
	coverage := a.TermCoverage(resumeText, jobDescription)

	overall := weightTFIDF*tfidfScore +
		weightPhrase*(phraseSum/phraseDenom) +
		weightSemantic*semanticScore +
		weightTermCoverage*coverage

	return clamp01(overall), phraseMatches
}

// ExtractPhrases pulls candidate phrases from text: non-stopword unigrams,
// bigrams and trigrams whose edge tokens are not stopwords, plus any
// catalog industry terms present. Results are sorted for determinism.
func (a *Analyzer) ExtractPhrases(text string) []string {
	lower := strings.ToLower(text)
	tokens := embedding.Tokenize(lower)
	phrases := make(map[string]struct{})

	for i, tok := range tokens {
		if _, stop := stopwords[tok]; stop || len(tok) <= 2 || isNumeric(tok) {
			continue
		}
		phrases[tok] = struct{}{}

		for n := 2; n <= 3; n++ {
			if i+n > len(tokens) {
				break
			}
			last := tokens[i+n-1]
			if _, stop := stopwords[last]; stop {
				continue
			}
			phrases[strings.Join(tokens[i:i+n], " ")] = struct{}{}
		}
	}

	for _, term := range a.catalog.AllTerms() {
		if containsTerm(lower, term) {
			phrases[term] = struct{}{}
		}
	}

	out := make([]string, 0, len(phrases))
	for p := range phrases {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// phraseMatchScore scores one phrase against the resume phrases: 1.0 on a
// direct hit, otherwise the best embedding similarity.
func (a *Analyzer) phraseMatchScore(phrase string, targets []string, targetVecs [][]float64) float64 {
	for _, t := range targets {
		if t == phrase {
			return 1.0
		}
	}

	phraseVec := a.embedder.Embed(phrase)
	var best float64
	for _, vec := range targetVecs {
		if sim := embedding.Cosine(phraseVec, vec); sim > best {
			best = sim
		}
	}
	return best
}

func (a *Analyzer) embedPhrases(phrases []string) [][]float64 {
	vecs := make([][]float64, len(phrases))
	for i, p := range phrases {
		vecs[i] = a.embedder.Embed(p)
	}
	return vecs
}

// SemanticSimilarity compares whole texts through the embedder, falling back
// to Jaccard token overlap when either embedding is degenerate.
func (a *Analyzer) SemanticSimilarity(text1, text2 string) float64 {
	sim := embedding.Cosine(a.embedder.Embed(text1), a.embedder.Embed(text2))
	if sim > 0 {
		return sim
	}
	return jaccard(embedding.Tokenize(strings.ToLower(text1)), embedding.Tokenize(strings.ToLower(text2)))
}

// TermCoverage measures how many catalog terms relevant to the job
// description also appear in the resume. No relevant terms scores 1.0.
func (a *Analyzer) TermCoverage(resumeText, jobDescription string) float64 {
	resumeLower := strings.ToLower(resumeText)
	jobLower := strings.ToLower(jobDescription)

	relevant := make(map[string]struct{})
	for _, term := range a.catalog.AllTerms() {
		if containsTerm(jobLower, term) {
			relevant[term] = struct{}{}
		}
	}
	if len(relevant) == 0 {
		return 1.0
	}

	matches := 0
	for term := range relevant {
		if containsTerm(resumeLower, term) {
			matches++
		}
	}
	return float64(matches) / float64(len(relevant))
}

// MissingKeywords lists job-description phrases absent from the resume with
// a match score below the threshold.
func (a *Analyzer) MissingKeywords(resumeText, jobDescription string, threshold float64) []string {
	jobPhrases := a.ExtractPhrases(jobDescription)
	resumePhrases := a.ExtractPhrases(resumeText)
	resumeSet := toSet(resumePhrases...)
	resumeVecs := a.embedPhrases(resumePhrases)

	var missing []string
	for _, phrase := range jobPhrases {
		if _, ok := resumeSet[phrase]; ok {
			continue
		}
		if a.phraseMatchScore(phrase, resumePhrases, resumeVecs) < threshold {
			missing = append(missing, phrase)
		}
	}
	return missing
}

// SuggestImprovements produces keyword-usage suggestions for the resume.
func (a *Analyzer) SuggestImprovements(resumeText, jobDescription string) []string {
	var suggestions []string

	missing := a.MissingKeywords(resumeText, jobDescription, MissingKeywordThreshold)
	if len(missing) > 0 {
		top := missing
		if len(top) > 5 {
			top = top[:5]
		}
		suggestions = append(suggestions,
			fmt.Sprintf("Consider adding these keywords: %s", strings.Join(top, ", ")))
	}

	resumeLower := strings.ToLower(resumeText)
	jobLower := strings.ToLower(jobDescription)

	if a.TermCoverage(resumeText, jobDescription) < 0.7 {
		categories := a.catalog.Categories()
		sort.Strings(categories)
		for _, category := range categories {
			var relevant []string
			for _, term := range a.catalog.IndustryTerms(category) {
				if containsTerm(jobLower, term) && !containsTerm(resumeLower, term) {
					relevant = append(relevant, term)
				}
			}
			if len(relevant) > 0 {
				suggestions = append(suggestions,
					fmt.Sprintf("Add %s terms: %s",
						strings.ReplaceAll(category, "_", " "), strings.Join(relevant, ", ")))
			}
		}
	}

	if !containsAnyTerm(resumeLower, a.catalog.IndustryTerms("achievements")) {
		suggestions = append(suggestions,
			"Use more achievement-oriented verbs (e.g., improved, increased, developed)")
	}
	if !containsAnyTerm(resumeLower, a.catalog.IndustryTerms("metrics")) {
		suggestions = append(suggestions,
			"Include more quantifiable metrics and results")
	}

	return suggestions
}

// TFIDFSimilarity computes the cosine similarity of two texts under a TF-IDF
// weighting over word 1-3 grams with stopwords removed.
func TFIDFSimilarity(text1, text2 string) float64 {
	terms1 := ngramCounts(text1)
	terms2 := ngramCounts(text2)
	if len(terms1) == 0 || len(terms2) == 0 {
		return 0
	}

	vocab := make(map[string]struct{}, len(terms1)+len(terms2))
	for t := range terms1 {
		vocab[t] = struct{}{}
	}
	for t := range terms2 {
		vocab[t] = struct{}{}
	}

	// Smoothed IDF over the two-document corpus
	idf := func(term string) float64 {
		df := 0
		if terms1[term] > 0 {
			df++
		}
		if terms2[term] > 0 {
			df++
		}
		return math.Log(3.0/float64(1+df)) + 1
	}

	var dot, norm1, norm2 float64
	for term := range vocab {
		w := idf(term)
		v1 := float64(terms1[term]) * w
		v2 := float64(terms2[term]) * w
		dot += v1 * v2
		norm1 += v1 * v1
		norm2 += v2 * v2
	}
	if norm1 == 0 || norm2 == 0 {
		return 0
	}
	return dot / (math.Sqrt(norm1) * math.Sqrt(norm2))
}

func ngramCounts(text string) map[string]int {
	tokens := embedding.Tokenize(strings.ToLower(text))
	filtered := tokens[:0:0]
	for _, tok := range tokens {
		if _, stop := stopwords[tok]; !stop {
			filtered = append(filtered, tok)
		}
	}

	counts := make(map[string]int)
	for i := range filtered {
		for n := 1; n <= 3; n++ {
			if i+n > len(filtered) {
				break
			}
			counts[strings.Join(filtered[i:i+n], " ")]++
		}
	}
	return counts
}

func jaccard(tokens1, tokens2 []string) float64 {
	set1 := toSet(tokens1...)
	set2 := toSet(tokens2...)
	if len(set1) == 0 || len(set2) == 0 {
		return 0
	}

	intersection := 0
	for t := range set1 {
		if _, ok := set2[t]; ok {
			intersection++
		}
	}
	union := len(set1) + len(set2) - intersection
	return float64(intersection) / float64(union)
}

// containsTerm reports whether term occurs in text bounded by non-alphanumeric
// characters.
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

func containsAnyTerm(text string, terms []string) bool {
	for _, term := range terms {
		if containsTerm(text, term) {
			return true
		}
	}
	return false
}

func isAlnumByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func toSet(items ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, s := range items {
		set[s] = struct{}{}
	}
	return set
}
