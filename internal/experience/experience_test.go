package experience

import (
	"math"
	"testing"
	"time"

	"atscore/internal/types"
)

func TestExtractRequiredYears(t *testing.T) {
	tests := []struct {
		name     string
		job      string
		expected int
	}{
		{
			name:     "plain years of experience",
			job:      "We require 5 years of experience with Go.",
			expected: 5,
		},
		{
			name:     "plus suffix",
			job:      "3+ years experience in backend development",
			expected: 3,
		},
		{
			name:     "range",
			job:      "5 - 7 years experience preferred",
			expected: 5,
		},
		{
			name:     "minimum of",
			job:      "Minimum of 4 years building APIs",
			expected: 4,
		},
		{
			name:     "no requirement",
			job:      "Join our team of engineers.",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractRequiredYears(tt.job); got != tt.expected {
				t.Errorf("ExtractRequiredYears(%q) = %d, expected %d", tt.job, got, tt.expected)
			}
		})
	}
}

func TestParseYears(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		dateRange string
		expected float64
		tol      float64
	}{
		{
			name:      "month year to present",
			dateRange: "Jan 2020 - Present",
			expected:  5.41,
			tol:       0.05,
		},
		{
			name:      "year to year",
			dateRange: "2018 - 2020",
			expected:  2.0,
			tol:       0.01,
		},
		{
			name:      "to keyword",
			dateRange: "March 2019 to June 2021",
			expected:  2.25,
			tol:       0.05,
		},
		{
			name:      "current end",
			dateRange: "2020 - current",
			expected:  5.41,
			tol:       0.05,
		},
		{
			name:      "unparseable",
			dateRange: "a while ago",
			expected:  0.0,
			tol:       0.0001,
		},
		{
			name:      "empty",
			dateRange: "",
			expected:  0.0,
			tol:       0.0001,
		},
		{
			name:      "reversed range",
			dateRange: "2022 - 2020",
			expected:  0.0,
			tol:       0.0001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseYears(tt.dateRange, now)
			if math.Abs(got-tt.expected) > tt.tol {
				t.Errorf("ParseYears(%q) = %f, expected %f +/- %f", tt.dateRange, got, tt.expected, tt.tol)
			}
		})
	}
}

func TestExtractKeyResponsibilitiesBullets(t *testing.T) {
	job := `About the role.

Responsibilities:
- Design and build backend services
- Lead code reviews
• Mentor junior engineers

Requirements:
- 5 years of experience`

	resp := ExtractKeyResponsibilities(job)
	if len(resp) != 3 {
		t.Fatalf("expected 3 responsibilities, got %d: %v", len(resp), resp)
	}
	if resp[0] != "Design and build backend services" {
		t.Errorf("unexpected first responsibility: %q", resp[0])
	}
	for _, r := range resp {
		if r == "5 years of experience" {
			t.Error("requirements section bled into responsibilities")
		}
	}
}

func TestExtractKeyResponsibilitiesActionVerbFallback(t *testing.T) {
	job := "Design scalable services. Maintain existing infrastructure. Our office has snacks."

	resp := ExtractKeyResponsibilities(job)
	if len(resp) < 2 {
		t.Fatalf("expected at least 2 action-verb sentences, got %v", resp)
	}
	for _, r := range resp {
		if r == "Our office has snacks" {
			t.Errorf("non-action sentence extracted: %q", r)
		}
	}
}

func TestAchievementScore(t *testing.T) {
	tests := []struct {
		name string
		desc string
		min  float64
		max  float64
	}{
		{
			name: "empty",
			desc: "",
			min:  0,
			max:  0,
		},
		{
			name: "no achievements",
			desc: "Attended meetings and wrote documentation",
			min:  0,
			max:  0,
		},
		{
			name: "metrics and verbs",
			desc: "Improved throughput by 40%, reduced costs by $2000, achieved 3x speedup",
			min:  0.8,
			max:  1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AchievementScore(tt.desc)
			if got < tt.min || got > tt.max {
				t.Errorf("AchievementScore = %f, expected in [%f, %f]", got, tt.min, tt.max)
			}
		})
	}
}

func TestAnalyzeEmptyExperience(t *testing.T) {
	a := NewAnalyzer()
	score, matches := a.Analyze(nil, "any job", types.JobRequirements{})
	if score != 0.0 {
		t.Errorf("expected 0.0 for empty experience, got %f", score)
	}
	if matches != nil {
		t.Errorf("expected nil matches, got %v", matches)
	}
}

func TestAnalyzeRelevantExperienceScoresHigher(t *testing.T) {
	a := NewAnalyzer()
	job := "Backend engineer role. 3 years of experience required. Responsibilities:\n- Build REST APIs in Go\n- Deploy with docker"

	relevant := []types.ExperienceEntry{{
		Title:       "Backend Engineer",
		DateRange:   "2019 - 2024",
		Description: "Built REST APIs in Go, deployed services with docker, improved latency by 30%",
	}}
	unrelated := []types.ExperienceEntry{{
		Title:       "Florist",
		DateRange:   "2019 - 2024",
		Description: "Arranged flowers for weddings and events",
	}}

	relScore, relMatches := a.Analyze(relevant, job, types.JobRequirements{RequiredSkills: []string{"go", "docker"}})
	unrelScore, _ := a.Analyze(unrelated, job, types.JobRequirements{RequiredSkills: []string{"go", "docker"}})

	if relScore <= unrelScore {
		t.Errorf("relevant experience %f should outscore unrelated %f", relScore, unrelScore)
	}
	if relScore < 0 || relScore > 1 {
		t.Errorf("score %f out of bounds", relScore)
	}
	if len(relMatches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(relMatches))
	}
	if relMatches[0].Entry.Years < 4.9 || relMatches[0].Entry.Years > 5.1 {
		t.Errorf("expected about 5 years, got %f", relMatches[0].Entry.Years)
	}
}

func TestPartialRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		min  float64
	}{
		{name: "substring", a: "docker", b: "deployed with docker daily", min: 1.0},
		{name: "identical", a: "go", b: "go", min: 1.0},
		{name: "close substring", a: "kubernetes", b: "ran kubernets clusters", min: 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PartialRatio(tt.a, tt.b); got < tt.min {
				t.Errorf("PartialRatio(%q, %q) = %f, expected >= %f", tt.a, tt.b, got, tt.min)
			}
		})
	}
}

func TestExtractEntries(t *testing.T) {
	section := `Senior Engineer at Acme Corp
Jan 2020 - Present
- Built billing platform
- Improved performance by 25%

Software Developer, Widgets Inc
2016 - 2019
- Maintained internal tools`

	entries := ExtractEntries(section)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %+v", len(entries), entries)
	}

	first := entries[0]
	if first.Title != "Senior Engineer" || first.Company != "Acme Corp" {
		t.Errorf("unexpected title/company: %q / %q", first.Title, first.Company)
	}
	if first.DateRange != "Jan 2020 - Present" {
		t.Errorf("unexpected date range: %q", first.DateRange)
	}

	second := entries[1]
	if second.Title != "Software Developer" || second.Company != "Widgets Inc" {
		t.Errorf("unexpected title/company: %q / %q", second.Title, second.Company)
	}
}

func TestExtractEntriesEmpty(t *testing.T) {
	if entries := ExtractEntries("   \n  "); entries != nil {
		t.Errorf("expected nil for empty section, got %v", entries)
	}
}
