package match

import (
	"testing"

	"atscore/internal/embedding"
)

func newTestMatcher() *Matcher {
	return NewMatcher(embedding.New(embedding.DefaultDimensions))
}

func TestHasSkill(t *testing.T) {
	m := newTestMatcher()

	tests := []struct {
		name      string
		candidate []string
		required  string
		expected  bool
	}{
		{
			name:      "exact match",
			candidate: []string{"python", "docker"},
			required:  "python",
			expected:  true,
		},
		{
			name:      "case insensitive",
			candidate: []string{"Python"},
			required:  "PYTHON",
			expected:  true,
		},
		{
			name:      "variation js satisfies javascript candidate",
			candidate: []string{"javascript"},
			required:  "js",
			expected:  true,
		},
		{
			name:      "variation k8s satisfies kubernetes",
			candidate: []string{"kubernetes"},
			required:  "k8s",
			expected:  true,
		},
		{
			name:      "normalized match strips punctuation",
			candidate: []string{"node.js"},
			required:  "nodejs",
			expected:  true,
		},
		{
			name:      "fuzzy match close spelling",
			candidate: []string{"javascrpt"},
			required:  "javascript",
			expected:  true,
		},
		{
			name:      "no match for unrelated skill",
			candidate: []string{"cooking", "gardening"},
			required:  "terraform",
			expected:  false,
		},
		{
			name:      "empty candidate list",
			candidate: nil,
			required:  "python",
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.HasSkill(tt.candidate, tt.required); got != tt.expected {
				t.Errorf("HasSkill(%v, %q) = %v, expected %v", tt.candidate, tt.required, got, tt.expected)
			}
		})
	}
}

func TestMatchSkillMethodPrecedence(t *testing.T) {
	m := newTestMatcher()

	result := m.MatchSkill([]string{"python"}, "python")
	if result.Method != "exact" || result.Score != 1.0 {
		t.Errorf("expected exact match with score 1.0, got method=%q score=%f", result.Method, result.Score)
	}

	result = m.MatchSkill([]string{"javascript"}, "js")
	if result.Method != "variation" {
		t.Errorf("expected variation match, got %q", result.Method)
	}

	result = m.MatchSkill([]string{"javascrpt"}, "javascript")
	if result.Method != "fuzzy" {
		t.Errorf("expected fuzzy match, got %q", result.Method)
	}
	if result.Score < FuzzyThreshold {
		t.Errorf("fuzzy score %f below threshold", result.Score)
	}

	result = m.MatchSkill([]string{"cooking"}, "rust")
	if result.Satisfied {
		t.Errorf("expected no match, got %+v", result)
	}
}

func TestFindSimilar(t *testing.T) {
	m := newTestMatcher()

	similar := m.FindSimilar("kubernetes", 0.8)
	found := false
	for _, s := range similar {
		if s == "k8s" {
			found = true
		}
		if s == "kubernetes" {
			t.Error("input skill should be excluded from results")
		}
	}
	if !found {
		t.Errorf("expected k8s among similar skills, got %v", similar)
	}
}

func TestExtractSkills(t *testing.T) {
	m := newTestMatcher()

	text := "Built microservices in Python, deployed with Docker and k8s on AWS."
	skills := m.ExtractSkills(text)

	want := map[string]bool{
		"python":              false,
		"docker":              false,
		"kubernetes":          false,
		"amazon web services": false,
	}
	for _, s := range skills {
		if _, ok := want[s]; ok {
			want[s] = true
		}
	}
	for skill, got := range want {
		if !got {
			t.Errorf("expected %q in extracted skills %v", skill, skills)
		}
	}
}

func TestExtractSkillsWordBoundary(t *testing.T) {
	m := newTestMatcher()

	// "ai" inside "maintain" must not register artificial intelligence
	skills := m.ExtractSkills("maintained legacy billing systems")
	for _, s := range skills {
		if s == "artificial intelligence" || s == "machine learning" {
			t.Errorf("boundary leak: %q extracted from 'maintained'", s)
		}
	}
}

func TestCategorize(t *testing.T) {
	m := newTestMatcher()

	categories := m.Categorize([]string{"python", "react", "mysql", "aws", "git", "leadership", "basket weaving"})

	checks := map[string]string{
		"python":         "programming_languages",
		"react":          "frameworks",
		"mysql":          "databases",
		"aws":            "cloud",
		"git":            "tools",
		"leadership":     "soft_skills",
		"basket weaving": "other",
	}
	for skill, category := range checks {
		found := false
		for _, s := range categories[category] {
			if s == skill {
				found = true
			}
		}
		if !found {
			t.Errorf("expected %q in category %q, got %v", skill, category, categories)
		}
	}
}

func TestNormalizeSkill(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Node.js", "nodejs"},
		{"C++", "c"},
		{"CI/CD", "cicd"},
		{"  python 3 ", "python3"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeSkill(tt.input); got != tt.expected {
			t.Errorf("NormalizeSkill(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestFuzzyRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		min  float64
		max  float64
	}{
		{name: "identical", a: "docker", b: "docker", min: 1.0, max: 1.0},
		{name: "one edit", a: "javascript", b: "javascrpt", min: 0.85, max: 1.0},
		{name: "unrelated", a: "python", b: "haskell", min: 0.0, max: 0.5},
		{name: "both empty", a: "", b: "", min: 0.0, max: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FuzzyRatio(tt.a, tt.b)
			if got < tt.min || got > tt.max {
				t.Errorf("FuzzyRatio(%q, %q) = %f, expected in [%f, %f]", tt.a, tt.b, got, tt.min, tt.max)
			}
		})
	}
}
