package embedding

import (
	"math"
	"testing"
)

func TestEmbedDeterministic(t *testing.T) {
	e := New(128)
	a := e.Embed("Senior Go engineer with Kubernetes experience")
	b := e.Embed("Senior Go engineer with Kubernetes experience")

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("embedding not deterministic at index %d: %f != %f", i, a[i], b[i])
		}
	}
}

func TestEmbedSelfSimilarity(t *testing.T) {
	e := New(DefaultDimensions)
	v := e.Embed("python machine learning data pipelines")

	if sim := Cosine(v, v); math.Abs(sim-1.0) > 1e-9 {
		t.Errorf("expected self-similarity 1.0, got %f", sim)
	}
}

func TestEmbedEmptyText(t *testing.T) {
	e := New(64)
	v := e.Embed("")

	if len(v) != 64 {
		t.Fatalf("expected 64 dimensions, got %d", len(v))
	}
	for i, x := range v {
		if x != 0 {
			t.Errorf("expected zero vector, found %f at index %d", x, i)
		}
	}
	if sim := Cosine(v, v); sim != 0 {
		t.Errorf("expected zero similarity for zero vectors, got %f", sim)
	}
}

func TestCosineRelatedTextsScoreHigher(t *testing.T) {
	e := New(DefaultDimensions)
	base := e.Embed("backend engineer building REST APIs in Go with PostgreSQL")
	related := e.Embed("Go backend developer working on REST APIs and PostgreSQL databases")
	unrelated := e.Embed("oil painting landscape watercolor brush techniques")

	simRelated := Cosine(base, related)
	simUnrelated := Cosine(base, unrelated)

	if simRelated <= simUnrelated {
		t.Errorf("related similarity %f not greater than unrelated %f", simRelated, simUnrelated)
	}
}

func TestCosineMismatchedLengths(t *testing.T) {
	if sim := Cosine([]float64{1, 0}, []float64{1, 0, 0}); sim != 0 {
		t.Errorf("expected 0 for mismatched lengths, got %f", sim)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "mixed case and punctuation",
			input:    "CI/CD, Docker & K8s!",
			expected: []string{"ci", "cd", "docker", "k8s"},
		},
		{
			name:     "empty",
			input:    "",
			expected: []string{},
		},
		{
			name:     "numbers kept",
			input:    "5 years experience",
			expected: []string{"5", "years", "experience"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %v, got %v", tt.expected, got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("token %d: expected %q, got %q", i, tt.expected[i], got[i])
				}
			}
		})
	}
}
