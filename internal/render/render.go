// Package render writes optimized resumes back to disk. Plain text and
// markdown have native writers; anything else falls back to plain text with
// the extension swapped, so an optimization run always produces a file.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"atscore/internal/errors"
	"atscore/internal/parser"
	"atscore/internal/types"
	"atscore/internal/utils"
)

// Renderer writes resumes in a requested output format.
type Renderer struct {
	logger *errors.Logger
}

// New creates a Renderer.
func New(logger *errors.Logger) *Renderer {
	return &Renderer{logger: logger}
}

// Render writes the resume to path. The format is normalized ("md",
// ".markdown", "TXT" all work); unsupported formats are written as plain
// text under a .txt extension and the actual path written is returned.
func (r *Renderer) Render(resume types.ParsedResume, path, format string) (string, error) {
	format = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))

	var content string
	switch format {
	case "", "txt", "text":
		content = parser.Reconstruct(resume)
	case "md", "markdown":
		content = Markdown(resume)
	default:
		r.logger.Warn("No writer for output format, falling back to plain text",
			"format", format,
			"path", path)
		content = parser.Reconstruct(resume)
		path = utils.ReplaceExtension(path, ".txt")
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return "", errors.NewIOError(errors.ErrCodeFileWriteFailed,
				"Failed to create output directory", err)
		}
	}

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileWriteFailed,
			"Failed to write optimized resume", err)
	}

	r.logger.Debug("Wrote optimized resume",
		"path", path,
		"format", format,
		"bytes", len(content))

	return path, nil
}

// Markdown renders the parsed sections as a markdown document: the candidate
// name as a level-1 heading, each section as a level-2 heading.
func Markdown(resume types.ParsedResume) string {
	var b strings.Builder

	if resume.Contact.Name != "" {
		fmt.Fprintf(&b, "# %s\n\n", resume.Contact.Name)
	}
	if resume.Contact.Email != "" || resume.Contact.Phone != "" {
		b.WriteString("## Contact Information\n\n")
		if resume.Contact.Email != "" {
			fmt.Fprintf(&b, "- Email: %s\n", resume.Contact.Email)
		}
		if resume.Contact.Phone != "" {
			fmt.Fprintf(&b, "- Phone: %s\n", resume.Contact.Phone)
		}
		b.WriteString("\n")
	}

	for _, name := range parser.SectionNames(resume) {
		if name == "header" || name == "contact" {
			continue
		}
		content := strings.TrimSpace(resume.Sections[name])
		if content == "" {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", headingTitle(name), content)
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func headingTitle(name string) string {
	words := strings.Split(strings.ReplaceAll(name, "_", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
