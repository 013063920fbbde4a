package scoring

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"atscore/internal/embedding"
	"atscore/internal/index"
	"atscore/internal/keywords"
	"atscore/internal/parser"
	"atscore/internal/types"
)

const engineerResume = `Jane Smith
Email: jane.smith@example.com
Phone: 555-123-4567

SUMMARY
Senior software engineer with a record of improved system reliability.

EXPERIENCE
Senior Backend Developer at Initech
Jan 2019 - Present
Developed Go microservices on Kubernetes, improved API latency by 40%.
Managed PostgreSQL and Redis deployments on AWS using Docker and Terraform.

EDUCATION
Bachelor of Science in Computer Science, State University

SKILLS
Go, Python, Docker, Kubernetes, AWS, SQL, Git
`

const chefResume = `Pat Jones

SUMMARY
Pastry chef specializing in wedding cakes.

EXPERIENCE
Head Chef at Sugar House
2015 - 2020
Baked cakes and trained junior bakers.
`

const backendJob = `Senior Backend Developer

We need a software engineer to build backend services.
5 years experience with Go required. Proficient in SQL.

Required skills:
- Python
- Docker
- Kubernetes

Preferred:
- Terraform
`

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	catalog, err := keywords.NewCatalog(filepath.Join(t.TempDir(), "catalog.json"))
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}
	return NewEngine(DefaultConfig(), embedding.New(embedding.DefaultDimensions), catalog, nil, nil)
}

func checkBounds(t *testing.T, details types.ScoreDetails) {
	t.Helper()
	if details.TotalScore < 0 || details.TotalScore > 100 {
		t.Errorf("total score %f out of [0,100]", details.TotalScore)
	}
	components := map[string]float64{
		"keyword":    details.KeywordScore,
		"semantic":   details.SemanticScore,
		"format":     details.FormatScore,
		"skill":      details.SkillScore,
		"experience": details.ExperienceScore,
		"education":  details.EducationScore,
	}
	for name, v := range components {
		if v < 0 || v > 1 {
			t.Errorf("%s score %f out of [0,1]", name, v)
		}
	}
}

func TestScoreBoundsAndOrdering(t *testing.T) {
	e := newTestEngine(t)

	good := e.Score(parser.Parse(engineerResume), backendJob)
	bad := e.Score(parser.Parse(chefResume), backendJob)

	checkBounds(t, good)
	checkBounds(t, bad)

	if good.TotalScore <= bad.TotalScore {
		t.Errorf("matching resume scored %f, unrelated resume scored %f",
			good.TotalScore, bad.TotalScore)
	}
	if good.Role != "software_development" {
		t.Errorf("expected software_development role, got %q", good.Role)
	}
}

func TestScoreIsRoundedToOneDecimal(t *testing.T) {
	e := newTestEngine(t)
	details := e.Score(parser.Parse(engineerResume), backendJob)

	scaled := details.TotalScore * 10
	if math.Abs(scaled-math.Round(scaled)) > 1e-9 {
		t.Errorf("total score %f not rounded to one decimal", details.TotalScore)
	}
}

func TestScoreFullComponents(t *testing.T) {
	e := newTestEngine(t)
	details := e.ScoreFull(parser.Parse(engineerResume), backendJob)

	checkBounds(t, details)
	if details.SkillScore == 0 {
		t.Error("expected non-zero skill score for matching resume")
	}
	if details.ExperienceScore == 0 {
		t.Error("expected non-zero experience score for dated relevant entry")
	}
	if details.EducationScore != 1.0 {
		t.Errorf("job states no degree requirement, education = %f", details.EducationScore)
	}
}

func TestShouldProceedThreshold(t *testing.T) {
	catalog, err := keywords.NewCatalog(filepath.Join(t.TempDir(), "catalog.json"))
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}
	emb := embedding.New(embedding.DefaultDimensions)

	lenient := DefaultConfig()
	lenient.MinScore = 0.0
	if d := NewEngine(lenient, emb, catalog, nil, nil).Score(parser.Parse(engineerResume), backendJob); !d.ShouldProceed {
		t.Error("zero threshold must always proceed")
	}

	strict := DefaultConfig()
	strict.MinScore = 1.01
	if d := NewEngine(strict, emb, catalog, nil, nil).Score(parser.Parse(engineerResume), backendJob); d.ShouldProceed {
		t.Error("unreachable threshold must never proceed")
	}
}

func TestFormatScore(t *testing.T) {
	full := types.ParsedResume{
		Sections: map[string]string{
			"summary": "s", "experience": "e", "education": "d", "skills": "k",
		},
		Contact: types.ContactInfo{Name: "A", Email: "a@b.co", Phone: "555-123-4567"},
	}
	if got := FormatScore(full); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("complete resume format = %f, expected 1.0", got)
	}

	empty := types.ParsedResume{Sections: map[string]string{}}
	if got := FormatScore(empty); got != 0 {
		t.Errorf("empty resume format = %f, expected 0", got)
	}

	half := types.ParsedResume{
		Sections: map[string]string{"experience": "e", "skills": "k"},
		Contact:  types.ContactInfo{Email: "a@b.co"},
	}
	want := 2.0/4.0*0.7 + 1.0/3.0*0.3
	if got := FormatScore(half); math.Abs(got-want) > 1e-9 {
		t.Errorf("partial resume format = %f, expected %f", got, want)
	}
}

func TestEducationScore(t *testing.T) {
	tests := []struct {
		name     string
		section  string
		required string
		expected float64
	}{
		{name: "no requirement", section: "Bachelor of Science", required: "", expected: 1.0},
		{name: "meets requirement", section: "Bachelor of Science", required: "bachelors", expected: 1.0},
		{name: "exceeds requirement", section: "PhD in Statistics", required: "masters", expected: 1.0},
		{name: "one level short", section: "Bachelor of Arts", required: "masters", expected: 0.75},
		{name: "two levels short", section: "Associate degree", required: "bachelors", expected: 0.75},
		{name: "no education stated", section: "", required: "masters", expected: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EducationScore(tt.section, tt.required)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("EducationScore = %f, expected %f", got, tt.expected)
			}
		})
	}
}

func TestEducationScoreShortfall(t *testing.T) {
	// associates (2) vs bachelors (3) is one level short
	if got := EducationScore("Associate degree in design", "bachelors"); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("one-level shortfall = %f, expected 0.75", got)
	}
	// no education (0) vs masters (4) floors at 0
	if got := EducationScore("self taught", "masters"); got != 0 {
		t.Errorf("four-level shortfall = %f, expected 0", got)
	}
}

func TestSkillScore(t *testing.T) {
	e := newTestEngine(t)

	noSkills := types.JobRequirements{}
	if got, _ := e.SkillScore("anything", noSkills); got != 1.0 {
		t.Errorf("no listed skills = %f, expected 1.0", got)
	}

	req := types.JobRequirements{
		RequiredSkills:  []string{"python", "kubernetes"},
		PreferredSkills: []string{"terraform"},
	}
	full, matches := e.SkillScore("Python and k8s services deployed with terraform", req)
	if math.Abs(full-1.0) > 1e-9 {
		t.Errorf("all skills present = %f, expected 1.0 (matches: %+v)", full, matches)
	}

	kubernetesSatisfied := false
	for _, m := range matches {
		if m.Required == "kubernetes" && m.Satisfied {
			kubernetesSatisfied = true
		}
	}
	if !kubernetesSatisfied {
		t.Errorf("expected k8s to satisfy kubernetes, got %+v", matches)
	}

	partial, _ := e.SkillScore("Python only", req)
	want := 0.7*0.5 + 0.3*0
	if math.Abs(partial-want) > 1e-9 {
		t.Errorf("half of required = %f, expected %f", partial, want)
	}
}

func TestKeywordMatchPartialCredit(t *testing.T) {
	e := newTestEngine(t)
	req := types.JobRequirements{
		Role: "generic",
		Keywords: []types.WeightedKeyword{
			{Text: "rest api design", Weight: 1.0},
		},
	}

	// Two of three phrase words present earns partial credit
	score, matched := e.keywordMatch("designed a rest api for payments", "", req)
	if math.Abs(score-partialMatchCredit) > 1e-9 && math.Abs(score-1.0) > 1e-9 {
		t.Errorf("partial phrase score = %f", score)
	}
	if len(matched) != 1 {
		t.Errorf("expected phrase in matched list, got %v", matched)
	}

	// No words present earns nothing
	score, matched = e.keywordMatch("pastry chef", "", req)
	if score != 0 {
		t.Errorf("unrelated text score = %f, expected 0", score)
	}
	if len(matched) != 0 {
		t.Errorf("expected no matches, got %v", matched)
	}
}

func TestKeywordMatchNeutralDefault(t *testing.T) {
	e := newTestEngine(t)
	req := types.JobRequirements{Role: "generic"}

	if score, _ := e.keywordMatch("any resume", "", req); score != 0.5 {
		t.Errorf("no keywords score = %f, expected neutral 0.5", score)
	}
}

func TestMissingKeywords(t *testing.T) {
	e := newTestEngine(t)
	details := e.Score(parser.Parse(chefResume), backendJob)

	if len(details.MissingKeywords) == 0 {
		t.Fatal("expected missing keywords for unrelated resume")
	}
	if len(details.MissingKeywords) > 10 {
		t.Errorf("missing keywords not capped at 10: %d", len(details.MissingKeywords))
	}

	found := false
	for _, kw := range details.MissingKeywords {
		if kw.Text == "docker" || kw.Text == "kubernetes" || kw.Text == "python" {
			found = true
		}
		if kw.Weight <= 0 || kw.Weight > 1 {
			t.Errorf("missing keyword %q weight %f out of range", kw.Text, kw.Weight)
		}
	}
	if !found {
		t.Errorf("expected a required-section skill in missing keywords, got %v", details.MissingKeywords)
	}
}

func TestScoreSelfMatch(t *testing.T) {
	// Scoring a resume against its own text is a near-perfect match: every
	// extracted keyword is present, and the embeddings are identical.
	e := newTestEngine(t)
	details := e.Score(parser.Parse(engineerResume), engineerResume)

	checkBounds(t, details)
	if details.KeywordScore < 0.9 {
		t.Errorf("self-match keyword score = %f, expected >= 0.9", details.KeywordScore)
	}
	if details.SemanticScore < 0.9 {
		t.Errorf("self-match semantic score = %f, expected >= 0.9", details.SemanticScore)
	}
}

func TestMissingKeywordsInlineRequiredList(t *testing.T) {
	e := newTestEngine(t)

	resume := parser.Parse("Skills: Python, SQL\nExperience: Data Analyst at X, 2019-2021, improved reporting by 20%")
	details := e.Score(resume, "Required: Python, AWS, Leadership. 2+ years experience.")

	checkBounds(t, details)

	missing := make(map[string]float64)
	for _, kw := range details.MissingKeywords {
		missing[kw.Text] = kw.Weight
	}
	for _, want := range []string{"aws", "leadership"} {
		if missing[want] < 0.7 {
			t.Errorf("expected %q missing at weight >= 0.7, got %f (missing: %v)",
				want, missing[want], details.MissingKeywords)
		}
	}
	if _, ok := missing["python"]; ok {
		t.Errorf("python is on the resume, must not be reported missing: %v", details.MissingKeywords)
	}
	if details.ShouldProceed {
		t.Error("a resume missing two required skills should not clear the default threshold")
	}
}

func TestSuggestions(t *testing.T) {
	e := newTestEngine(t)
	details := e.Score(parser.Parse(chefResume), backendJob)

	wantFragments := []string{
		"Consider adding these keywords",
		"Add a education section",
		"Add a skills section",
		"email address",
		"phone number",
	}
	joined := strings.Join(details.Suggestions, "\n")
	for _, fragment := range wantFragments {
		if !strings.Contains(joined, fragment) {
			t.Errorf("suggestions missing %q:\n%s", fragment, joined)
		}
	}
}

func TestRecordAppendsToIndex(t *testing.T) {
	catalog, err := keywords.NewCatalog(filepath.Join(t.TempDir(), "catalog.json"))
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}
	emb := embedding.New(embedding.DefaultDimensions)
	ix, err := index.Open(filepath.Join(t.TempDir(), "index.json"), emb, nil)
	if err != nil {
		t.Fatalf("failed to open index: %v", err)
	}

	e := NewEngine(DefaultConfig(), emb, catalog, ix, nil)
	resume := parser.Parse(engineerResume)
	details := e.Score(resume, backendJob)

	id, err := e.Record(resume, backendJob, "jane.txt", details, types.JobMetadata{Title: "Backend"})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if id == "" {
		t.Error("expected non-empty entry ID")
	}
	if ix.Len() != 1 {
		t.Errorf("expected 1 index entry, got %d", ix.Len())
	}
}

func TestRecordWithoutIndexIsNoop(t *testing.T) {
	e := newTestEngine(t)
	id, err := e.Record(types.ParsedResume{}, "job", "", types.ScoreDetails{}, types.JobMetadata{})
	if err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if id != "" {
		t.Errorf("expected empty ID, got %q", id)
	}
}
