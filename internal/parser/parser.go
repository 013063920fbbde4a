// Package parser turns resume documents into structured sections. Parsing is
// deliberately forgiving: malformed text yields an empty ParsedResume rather
// than an error, since a bad parse should soften a score, not abort a run.
package parser

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"atscore/internal/embedding"
	"atscore/internal/types"
)

// sectionOrder is the canonical ordering used when reconstructing a resume.
var sectionOrder = []string{
	"header", "contact", "summary", "experience", "education",
	"skills", "projects", "certifications",
}

type sectionPattern struct {
	name     string
	patterns []*regexp.Regexp
}

// sectionPatterns detect section headings in plain-text resumes. A line
// shorter than 100 characters matching any pattern opens that section.
var sectionPatterns = []sectionPattern{
	{"contact", compileAll(`contact\s+information`, `email|phone|address`, `^.{0,50}@.+\..{2,}`)},
	{"summary", compileAll(`summary|profile|objective`, `professional\s+summary`, `career\s+objective`)},
	{"experience", compileAll(`experience|employment|work\s+history`, `professional\s+experience`)},
	{"education", compileAll(`education|academic|degree`, `university|college|school`)},
	{"skills", compileAll(`skills|expertise|technologies`, `technical\s+skills`, `competencies`)},
	{"projects", compileAll(`projects|portfolio`, `key\s+projects`, `project\s+experience`)},
	{"certifications", compileAll(`certifications|certificates`, `professional\s+development`)},
}

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`(?:\+\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	mdFormat     = regexp.MustCompile(`[#*_]`)
	nonSection   = regexp.MustCompile(`[^a-z0-9_\s]`)
)

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}

// Parse splits plain resume text into sections and extracts contact details
// and keywords. Text before the first recognized heading lands in "header".
func Parse(text string) types.ParsedResume {
	resume := types.ParsedResume{
		RawText:  text,
		Sections: make(map[string]string),
	}
	if strings.TrimSpace(text) == "" {
		return resume
	}

	current := "header"
	lines := make(map[string][]string)
	lines[current] = nil

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if name, ok := detectSection(line); ok {
			current = name
		}
		lines[current] = append(lines[current], line)
	}

	for name, content := range lines {
		if len(content) > 0 {
			resume.Sections[name] = strings.Join(content, "\n")
		}
	}

	fillContact(&resume)
	resume.Keywords = ExtractKeywords(text)
	return resume
}

// ParseMarkdown splits a markdown resume on level-1 headings. Heading text
// becomes the section name, lowercased with spaces as underscores.
func ParseMarkdown(text string) types.ParsedResume {
	resume := types.ParsedResume{
		RawText:  text,
		Sections: make(map[string]string),
	}

	current := "header"
	var content []string

	flush := func() {
		joined := strings.TrimSpace(strings.Join(content, "\n"))
		if joined != "" {
			resume.Sections[current] = joined
		}
		content = nil
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			flush()
			heading := strings.ToLower(strings.TrimPrefix(trimmed, "# "))
			name := strings.ReplaceAll(strings.TrimSpace(nonSection.ReplaceAllString(heading, "")), " ", "_")
			if name == "" {
				name = fmt.Sprintf("section_%d", len(resume.Sections))
			}
			current = name
			continue
		}
		content = append(content, line)
	}
	flush()

	fillContact(&resume)
	resume.Keywords = ExtractKeywords(text)
	return resume
}

func detectSection(line string) (string, bool) {
	if len(line) >= 100 {
		return "", false
	}
	for _, sp := range sectionPatterns {
		for _, p := range sp.patterns {
			if p.MatchString(line) {
				return sp.name, true
			}
		}
	}
	return "", false
}

func fillContact(resume *types.ParsedResume) {
	contactText := resume.Sections["contact"]
	if contactText == "" {
		contactText = resume.Sections["header"]
	}
	resume.Contact.Email = ExtractEmail(contactText)
	resume.Contact.Phone = ExtractPhone(contactText)
	resume.Contact.Name = ExtractName(resume.Sections["header"])
}

// ExtractEmail returns the first email address in text, empty if none.
func ExtractEmail(text string) string {
	return emailPattern.FindString(text)
}

// ExtractPhone returns the first phone number in text, empty if none.
func ExtractPhone(text string) string {
	return phonePattern.FindString(text)
}

// ExtractName takes the first short line of the header as the candidate name,
// with markdown formatting stripped.
func ExtractName(headerText string) string {
	for _, line := range strings.Split(strings.TrimSpace(headerText), "\n") {
		line = strings.TrimSpace(line)
		if line != "" && len(line) < 50 {
			return strings.TrimSpace(mdFormat.ReplaceAllString(line, ""))
		}
	}
	return ""
}

// ExtractKeywords pulls candidate keywords from text: cleaned tokens longer
// than two characters plus adjacent-word pairs, deduplicated and sorted.
func ExtractKeywords(text string) []string {
	tokens := embedding.Tokenize(text)
	seen := make(map[string]struct{})

	for _, tok := range tokens {
		if len(tok) > 2 && !allDigits(tok) {
			seen[tok] = struct{}{}
		}
	}
	for i := 0; i+1 < len(tokens); i++ {
		if len(tokens[i]) > 3 && len(tokens[i+1]) > 3 {
			seen[tokens[i]+" "+tokens[i+1]] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// FullText joins all parsed sections into one searchable string. It prefers
// section content over RawText so generated resumes reconstruct cleanly.
func FullText(resume types.ParsedResume) string {
	if len(resume.Sections) == 0 {
		return resume.RawText
	}
	var parts []string
	for _, name := range orderedSections(resume.Sections) {
		parts = append(parts, resume.Sections[name])
	}
	return strings.Join(parts, " ")
}

// Reconstruct renders the parsed sections back into a plain-text resume in
// canonical section order.
func Reconstruct(resume types.ParsedResume) string {
	var b strings.Builder

	if resume.Contact.Name != "" {
		b.WriteString(resume.Contact.Name)
		b.WriteString("\n\n")
	}
	if resume.Contact.Email != "" || resume.Contact.Phone != "" {
		b.WriteString("CONTACT INFORMATION\n")
		if resume.Contact.Email != "" {
			fmt.Fprintf(&b, "Email: %s\n", resume.Contact.Email)
		}
		if resume.Contact.Phone != "" {
			fmt.Fprintf(&b, "Phone: %s\n", resume.Contact.Phone)
		}
		b.WriteString("\n")
	}

	for _, name := range orderedSections(resume.Sections) {
		if name == "header" || name == "contact" {
			continue
		}
		content := strings.TrimSpace(resume.Sections[name])
		if content == "" {
			continue
		}
		// Skip a duplicate heading line already present in the content
		if !strings.EqualFold(firstLine(content), name) {
			b.WriteString(strings.ToUpper(name))
			b.WriteString("\n")
		}
		b.WriteString(content)
		b.WriteString("\n\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// SectionNames returns the resume's section names in canonical order,
// unknown sections sorted after the known ones.
func SectionNames(resume types.ParsedResume) []string {
	return orderedSections(resume.Sections)
}

func orderedSections(sections map[string]string) []string {
	var names []string
	inOrder := make(map[string]struct{})
	for _, name := range sectionOrder {
		if _, ok := sections[name]; ok {
			names = append(names, name)
			inOrder[name] = struct{}{}
		}
	}
	var rest []string
	for name := range sections {
		if _, ok := inOrder[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return strings.TrimSpace(s)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
