package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleResume = `Jane Smith
jane.smith@example.com | (555) 123-4567

Professional Summary
Backend engineer with eight years of experience.

Work Experience
Senior Engineer at Acme Corp
Jan 2020 - Present
- Built billing platform in Go

Education
BS Computer Science, State University

Technical Skills
Go, Python, Docker, Kubernetes`

func TestParseSections(t *testing.T) {
	resume := Parse(sampleResume)

	for _, section := range []string{"header", "summary", "experience", "education", "skills"} {
		if _, ok := resume.Sections[section]; !ok {
			t.Errorf("expected section %q, got sections %v", section, sectionNames(resume.Sections))
		}
	}

	if !strings.Contains(resume.Sections["experience"], "Acme Corp") {
		t.Errorf("experience section missing content: %q", resume.Sections["experience"])
	}
}

func TestParseContactExtraction(t *testing.T) {
	resume := Parse(sampleResume)

	if resume.Contact.Name != "Jane Smith" {
		t.Errorf("expected name Jane Smith, got %q", resume.Contact.Name)
	}
	if resume.Contact.Email != "jane.smith@example.com" {
		t.Errorf("expected email, got %q", resume.Contact.Email)
	}
	if resume.Contact.Phone == "" {
		t.Error("expected phone number to be extracted")
	}
}

func TestParseEmptyText(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty string", input: ""},
		{name: "whitespace only", input: "  \n\t \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resume := Parse(tt.input)
			if !resume.IsEmpty() && len(resume.Sections) > 0 {
				t.Errorf("expected empty parse result, got %+v", resume)
			}
		})
	}
}

func TestParseMalformedTextNeverPanics(t *testing.T) {
	inputs := []string{
		"no sections at all just one line",
		strings.Repeat("x", 5000),
		"•••\n\n\n---\n@@",
	}
	for _, input := range inputs {
		resume := Parse(input)
		if resume.RawText != input {
			t.Error("raw text should be preserved")
		}
	}
}

func TestParseMarkdown(t *testing.T) {
	md := `Jane Smith
jane@example.com

# Summary
Engineer who ships.

# Work Experience
Acme Corp, 2020 - Present

# Skills
Go, SQL`

	resume := ParseMarkdown(md)

	if _, ok := resume.Sections["summary"]; !ok {
		t.Errorf("expected summary section, got %v", sectionNames(resume.Sections))
	}
	if _, ok := resume.Sections["work_experience"]; !ok {
		t.Errorf("expected work_experience section, got %v", sectionNames(resume.Sections))
	}
	if resume.Contact.Email != "jane@example.com" {
		t.Errorf("expected email from header, got %q", resume.Contact.Email)
	}
}

func TestExtractEmail(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "reach me at foo.bar@baz.io thanks", expected: "foo.bar@baz.io"},
		{name: "none", input: "no email here", expected: ""},
		{name: "with plus", input: "x+tag@example.com", expected: "x+tag@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractEmail(tt.input); got != tt.expected {
				t.Errorf("ExtractEmail(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestExtractPhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		found bool
	}{
		{name: "parenthesized", input: "call (555) 123-4567", found: true},
		{name: "dotted", input: "555.123.4567", found: true},
		{name: "international", input: "+1 555 123 4567", found: true},
		{name: "none", input: "no digits", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractPhone(tt.input)
			if tt.found && got == "" {
				t.Errorf("expected phone in %q", tt.input)
			}
			if !tt.found && got != "" {
				t.Errorf("unexpected phone %q in %q", got, tt.input)
			}
		})
	}
}

func TestExtractName(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{name: "first line", header: "Jane Smith\njane@example.com", expected: "Jane Smith"},
		{name: "markdown stripped", header: "# **Jane Smith**", expected: "Jane Smith"},
		{name: "skips long lines", header: strings.Repeat("z", 60) + "\nJane Smith", expected: "Jane Smith"},
		{name: "empty", header: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractName(tt.header); got != tt.expected {
				t.Errorf("ExtractName = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestExtractKeywords(t *testing.T) {
	kws := ExtractKeywords("Built scalable billing systems in 2021")

	set := make(map[string]bool)
	for _, k := range kws {
		set[k] = true
	}
	if !set["scalable"] || !set["billing"] {
		t.Errorf("expected unigram keywords, got %v", kws)
	}
	if !set["scalable billing"] {
		t.Errorf("expected bigram keyword, got %v", kws)
	}
	if set["2021"] {
		t.Error("pure numbers should be excluded")
	}
	if set["in"] {
		t.Error("short tokens should be excluded")
	}
}

func TestReconstructRoundTrip(t *testing.T) {
	original := Parse(sampleResume)
	rebuilt := Parse(Reconstruct(original))

	for _, section := range []string{"summary", "experience", "education", "skills"} {
		if _, ok := rebuilt.Sections[section]; !ok {
			t.Errorf("section %q lost in round trip, got %v", section, sectionNames(rebuilt.Sections))
		}
	}
	if rebuilt.Contact.Email != original.Contact.Email {
		t.Errorf("email lost in round trip: %q vs %q", rebuilt.Contact.Email, original.Contact.Email)
	}
}

func TestParseFileText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.txt")
	if err := os.WriteFile(path, []byte(sampleResume), 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	resume, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile returned error: %v", err)
	}
	if resume.Contact.Name != "Jane Smith" {
		t.Errorf("unexpected name %q", resume.Contact.Name)
	}
}

func TestParseFileMarkdown(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.md")
	content := "Jane\n\n# Skills\nGo, SQL"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	resume, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile returned error: %v", err)
	}
	if _, ok := resume.Sections["skills"]; !ok {
		t.Errorf("expected skills section, got %v", sectionNames(resume.Sections))
	}
}

func TestParseFileMissing(t *testing.T) {
	if _, err := ParseFile(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func sectionNames(sections map[string]string) []string {
	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	return names
}
