package parser

import (
	"bytes"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"atscore/internal/errors"
	"atscore/internal/types"
	"atscore/internal/utils"
)

// ParseFile reads a resume document and parses it into sections. Markdown
// files split on headings, PDFs go through text extraction, everything else
// is treated as plain text. Only I/O and PDF decode failures return errors;
// odd content still parses softly.
func ParseFile(path string) (types.ParsedResume, error) {
	switch utils.GetFileExtension(path) {
	case ".pdf":
		text, err := readPDF(path)
		if err != nil {
			return types.ParsedResume{}, err
		}
		return Parse(text), nil
	case ".md", ".markdown":
		text, err := readText(path)
		if err != nil {
			return types.ParsedResume{}, err
		}
		return ParseMarkdown(text), nil
	default:
		text, err := readText(path)
		if err != nil {
			return types.ParsedResume{}, err
		}
		return Parse(text), nil
	}
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			"failed to read resume file", err).WithContext("path", path)
	}
	return string(data), nil
}

func readPDF(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			"failed to read resume file", err).WithContext("path", path)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.NewParseError(errors.ErrCodeParseFailure,
			"failed to open PDF", err).WithContext("path", path)
	}

	rs, err := reader.GetPlainText()
	if err != nil {
		return "", errors.NewParseError(errors.ErrCodeParseFailure,
			"failed to extract PDF text", err).WithContext("path", path)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rs); err != nil {
		return "", errors.NewParseError(errors.ErrCodeParseFailure,
			"failed to extract PDF text", err).WithContext("path", path)
	}
	return normalizeWhitespace(buf.String()), nil
}

var multiSpace = regexp.MustCompile(`[ \t]+`)

func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(multiSpace.ReplaceAllString(line, " "))
	}
	return strings.Join(lines, "\n")
}
