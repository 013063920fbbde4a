package jobdesc

import (
	"strings"
	"testing"
)

const sampleJob = `Senior Backend Developer

We are hiring a software engineer for our platform team.
5 years experience with Go required. Proficient in SQL and knowledge of Docker.
Bachelor's degree in Computer Science preferred.

Required skills:
- Python
- Kubernetes
- REST API design

Preferred:
- Terraform
`

func TestTechKeywords(t *testing.T) {
	kws := TechKeywords("We use Python, Docker and AWS. Java not required.")

	found := make(map[string]float64)
	for _, kw := range kws {
		found[kw.Text] = kw.Weight
	}
	for _, want := range []string{"python", "docker", "aws"} {
		if found[want] != WeightTechTerm {
			t.Errorf("expected %q at weight %f, got %f", want, WeightTechTerm, found[want])
		}
	}
}

func TestTechKeywordsWordBoundaries(t *testing.T) {
	kws := TechKeywords("maintain our repair training programs")

	for _, kw := range kws {
		if kw.Text == "ai" || kw.Text == "r" {
			t.Errorf("boundary leak: %q extracted", kw.Text)
		}
	}
}

func TestRequiredSectionKeywords(t *testing.T) {
	kws := RequiredSectionKeywords(sampleJob)

	found := make(map[string]bool)
	for _, kw := range kws {
		if kw.Weight != WeightRequiredSection {
			t.Errorf("expected weight %f for %q, got %f", WeightRequiredSection, kw.Text, kw.Weight)
		}
		found[kw.Text] = true
	}
	for _, want := range []string{"python", "kubernetes", "rest api design"} {
		if !found[want] {
			t.Errorf("expected %q in required-section keywords, got %v", want, kws)
		}
	}
	if found["terraform"] {
		t.Error("preferred bullet leaked into required keywords")
	}
}

func TestRequiredSectionInlineList(t *testing.T) {
	kws := RequiredSectionKeywords("Required: Python, AWS, Leadership. 2+ years experience.")

	found := make(map[string]float64)
	for _, kw := range kws {
		found[kw.Text] = kw.Weight
	}
	for _, want := range []string{"python", "aws", "leadership"} {
		if found[want] != WeightRequiredSection {
			t.Errorf("expected %q at weight %f, got %f", want, WeightRequiredSection, found[want])
		}
	}
	for text := range found {
		if strings.Contains(text, "years") {
			t.Errorf("years phrase %q leaked into required keywords", text)
		}
	}
}

func TestPatternKeywords(t *testing.T) {
	kws := PatternKeywords(sampleJob)

	var goYears *int
	foundSQL := false
	for i := range kws {
		if kws[i].Text == "go required" || kws[i].Text == "go" {
			goYears = &kws[i].YearsRequired
			if kws[i].Weight != WeightYearsPattern {
				t.Errorf("years keyword weight = %f, expected %f", kws[i].Weight, WeightYearsPattern)
			}
		}
		if kws[i].Text == "sql and knowledge of docker" || kws[i].Text == "sql" {
			foundSQL = true
		}
	}
	if goYears == nil {
		t.Fatalf("expected years-pattern keyword for Go, got %v", kws)
	}
	if *goYears != 5 {
		t.Errorf("expected 5 years required, got %d", *goYears)
	}
	if !foundSQL {
		t.Errorf("expected proficient-in keyword, got %v", kws)
	}
}

func TestDetectRole(t *testing.T) {
	tests := []struct {
		name     string
		job      string
		expected string
	}{
		{
			name:     "software development",
			job:      "Looking for a software engineer, backend developer preferred",
			expected: "software_development",
		},
		{
			name:     "data science",
			job:      "Data scientist with deep learning and computer vision background",
			expected: "data_science",
		},
		{
			name:     "marketing",
			job:      "Own our seo and social media marketing strategy",
			expected: "marketing",
		},
		{
			name:     "generic fallback",
			job:      "General position available at our firm",
			expected: "generic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectRole(tt.job); got != tt.expected {
				t.Errorf("DetectRole = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestDetectEducationLevel(t *testing.T) {
	tests := []struct {
		name     string
		job      string
		expected string
	}{
		{name: "phd", job: "PhD in statistics required", expected: "phd"},
		{name: "masters", job: "Master's degree preferred", expected: "masters"},
		{name: "bachelors", job: "Bachelor's in CS", expected: "bachelors"},
		{name: "bachelors abbrev", job: "bs in computer science", expected: "bachelors"},
		{name: "none", job: "no education mentioned", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectEducationLevel(tt.job); got != tt.expected {
				t.Errorf("DetectEducationLevel = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestExtractRequirements(t *testing.T) {
	req := ExtractRequirements(sampleJob)

	if req.Role != "software_development" {
		t.Errorf("expected software_development role, got %q", req.Role)
	}
	if req.RequiredYears != 5 {
		t.Errorf("expected 5 required years, got %d", req.RequiredYears)
	}
	if req.EducationLevel != "bachelors" {
		t.Errorf("expected bachelors, got %q", req.EducationLevel)
	}
	if len(req.RequiredSkills) == 0 {
		t.Error("expected required skills from bullets")
	}
	if len(req.PreferredSkills) == 0 || req.PreferredSkills[0] != "terraform" {
		t.Errorf("expected terraform in preferred skills, got %v", req.PreferredSkills)
	}

	seen := make(map[string]int)
	for _, kw := range req.Keywords {
		seen[kw.Text]++
		if kw.Weight < 0 || kw.Weight > 1 {
			t.Errorf("keyword %q weight %f out of range", kw.Text, kw.Weight)
		}
	}
	for text, count := range seen {
		if count > 1 {
			t.Errorf("keyword %q appears %d times after dedupe", text, count)
		}
	}
}

func TestExtractRequirementsDedupeFirstWins(t *testing.T) {
	// "python" appears both as a tech term and a required bullet; the first
	// extraction (tech, 0.8) must win.
	req := ExtractRequirements(sampleJob)

	for _, kw := range req.Keywords {
		if kw.Text == "python" {
			if kw.Weight != WeightTechTerm {
				t.Errorf("python weight = %f, expected first-seen %f", kw.Weight, WeightTechTerm)
			}
			return
		}
	}
	t.Error("python keyword not found")
}
