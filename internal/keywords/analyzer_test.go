package keywords

import (
	"os"
	"path/filepath"
	"testing"

	"atscore/internal/embedding"
)

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	catalog, err := NewCatalog("")
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}
	return NewAnalyzer(embedding.New(embedding.DefaultDimensions), catalog)
}

func TestTFIDFSimilarity(t *testing.T) {
	tests := []struct {
		name  string
		text1 string
		text2 string
		min   float64
		max   float64
	}{
		{
			name:  "identical texts",
			text1: "senior go engineer building distributed systems",
			text2: "senior go engineer building distributed systems",
			min:   0.999,
			max:   1.0,
		},
		{
			name:  "empty text",
			text1: "",
			text2: "some job description",
			min:   0,
			max:   0,
		},
		{
			name:  "overlapping texts",
			text1: "python developer with aws experience",
			text2: "looking for python developer familiar aws cloud",
			min:   0.1,
			max:   1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TFIDFSimilarity(tt.text1, tt.text2)
			if got < tt.min || got > tt.max {
				t.Errorf("TFIDFSimilarity = %f, expected in [%f, %f]", got, tt.min, tt.max)
			}
		})
	}
}

func TestAnalyzeScoreBounds(t *testing.T) {
	a := newTestAnalyzer(t)

	score, matches := a.Analyze(
		"Software engineer with python, docker and aws. Led a team, improved throughput.",
		"We need a python engineer with docker and aws experience. Leadership valued.",
	)
	if score < 0 || score > 1 {
		t.Errorf("score %f out of [0,1]", score)
	}
	if score == 0 {
		t.Error("expected non-zero score for overlapping texts")
	}
	for phrase, s := range matches {
		if s <= 0 || s > 1 {
			t.Errorf("phrase %q score %f out of (0,1]", phrase, s)
		}
	}
}

func TestAnalyzeIdenticalTexts(t *testing.T) {
	a := newTestAnalyzer(t)

	text := "python developer with docker kubernetes aws and leadership experience improved roi"
	score, _ := a.Analyze(text, text)
	if score < 0.95 {
		t.Errorf("expected near-perfect score for identical texts, got %f", score)
	}
}

func TestTermCoverage(t *testing.T) {
	a := newTestAnalyzer(t)

	tests := []struct {
		name   string
		resume string
		job    string
		min    float64
		max    float64
	}{
		{
			name:   "no relevant terms scores full",
			resume: "anything",
			job:    "plumbing work wanted",
			min:    1.0,
			max:    1.0,
		},
		{
			name:   "full coverage",
			resume: "built api on aws with docker",
			job:    "needs api aws docker",
			min:    1.0,
			max:    1.0,
		},
		{
			name:   "partial coverage",
			resume: "built api services",
			job:    "needs api aws docker kubernetes",
			min:    0.2,
			max:    0.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.TermCoverage(tt.resume, tt.job)
			if got < tt.min || got > tt.max {
				t.Errorf("TermCoverage = %f, expected in [%f, %f]", got, tt.min, tt.max)
			}
		})
	}
}

func TestExtractPhrases(t *testing.T) {
	a := newTestAnalyzer(t)

	phrases := a.ExtractPhrases("Designed scalable microservices with Docker")
	want := []string{"designed", "scalable", "microservices", "docker", "scalable microservices"}
	set := make(map[string]bool)
	for _, p := range phrases {
		set[p] = true
	}
	for _, w := range want {
		if !set[w] {
			t.Errorf("expected phrase %q in %v", w, phrases)
		}
	}
	if set["with"] {
		t.Error("stopword should not be extracted as a phrase")
	}
}

func TestMissingKeywords(t *testing.T) {
	a := newTestAnalyzer(t)

	missing := a.MissingKeywords(
		"Experienced chef with pastry skills and cake decoration",
		"Cloud engineer needed: aws required",
		MissingKeywordThreshold,
	)

	found := false
	for _, m := range missing {
		if m == "aws" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected aws among missing keywords, got %v", missing)
	}
}

func TestSuggestImprovements(t *testing.T) {
	a := newTestAnalyzer(t)

	suggestions := a.SuggestImprovements(
		"Worked on things at a company",
		"Seeking engineer with aws, docker and leadership; improved roi expected",
	)
	if len(suggestions) == 0 {
		t.Fatal("expected suggestions for a weak resume")
	}

	hasAchievement := false
	hasMetrics := false
	for _, s := range suggestions {
		if s == "Use more achievement-oriented verbs (e.g., improved, increased, developed)" {
			hasAchievement = true
		}
		if s == "Include more quantifiable metrics and results" {
			hasMetrics = true
		}
	}
	if !hasAchievement {
		t.Error("expected achievement-verb suggestion")
	}
	if !hasMetrics {
		t.Error("expected metrics suggestion")
	}
}

func TestCatalogCustomFileMerge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.json")
	content := `{
		"industryTerms": {"technical": ["grpc"]},
		"roleKeywords": {"software_development": {"golang": 0.9}, "gamedev": {"unity": 0.8}}
	}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write catalog file: %v", err)
	}

	catalog, err := NewCatalog(path)
	if err != nil {
		t.Fatalf("NewCatalog returned error: %v", err)
	}

	foundGRPC := false
	for _, term := range catalog.IndustryTerms("technical") {
		if term == "grpc" {
			foundGRPC = true
		}
	}
	if !foundGRPC {
		t.Error("expected custom term grpc merged into technical category")
	}

	sd := catalog.RoleKeywords("software_development")
	if sd["golang"] != 0.9 {
		t.Errorf("expected custom weight for golang, got %f", sd["golang"])
	}
	if sd["python"] != 0.8 {
		t.Errorf("default keyword lost in merge, python = %f", sd["python"])
	}

	if catalog.RoleKeywords("gamedev")["unity"] != 0.8 {
		t.Error("expected new custom role gamedev to be added")
	}
}

func TestCatalogMissingFileUsesDefaults(t *testing.T) {
	catalog, err := NewCatalog(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if len(catalog.IndustryTerms("technical")) == 0 {
		t.Error("expected default technical terms")
	}
}

func TestCatalogInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := NewCatalog(path); err == nil {
		t.Error("expected error for malformed catalog file")
	}
}
