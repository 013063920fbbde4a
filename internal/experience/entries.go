package experience

import (
	"regexp"
	"strings"

	"atscore/internal/types"
)

var datePart = `(?:(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{4}|\d{1,2}/\d{4}|\d{4})`

var dateRangePattern = regexp.MustCompile(`(?i)(` + datePart + `)\s*(?:[-–—]|to)\s*(` + datePart + `|present|current|now)`)

// ExtractEntries splits an experience section into dated entries. Blocks are
// separated by blank lines; a block without a recognizable date range still
// becomes an entry with zero years.
func ExtractEntries(sectionText string) []types.ExperienceEntry {
	sectionText = strings.TrimSpace(sectionText)
	if sectionText == "" {
		return nil
	}

	var entries []types.ExperienceEntry
	for _, block := range splitBlocks(sectionText) {
		entry := parseBlock(block)
		if entry.Description != "" {
			entries = append(entries, entry)
		}
	}
	return entries
}

// splitBlocks separates on blank lines; when a single block holds several
// date ranges, each dated line starts a new block.
func splitBlocks(text string) []string {
	var blocks []string
	for _, raw := range regexp.MustCompile(`\n\s*\n`).Split(text, -1) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		lines := strings.Split(raw, "\n")
		dated := 0
		for _, line := range lines {
			if dateRangePattern.MatchString(line) {
				dated++
			}
		}
		if dated <= 1 {
			blocks = append(blocks, raw)
			continue
		}

		var current []string
		for _, line := range lines {
			if dateRangePattern.MatchString(line) && len(current) > 0 {
				blocks = append(blocks, strings.Join(current, "\n"))
				current = nil
			}
			current = append(current, line)
		}
		if len(current) > 0 {
			blocks = append(blocks, strings.Join(current, "\n"))
		}
	}
	return blocks
}

func parseBlock(block string) types.ExperienceEntry {
	entry := types.ExperienceEntry{Description: strings.TrimSpace(block)}

	if m := dateRangePattern.FindString(block); m != "" {
		entry.DateRange = m
	}

	lines := strings.Split(block, "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		header := strings.TrimSpace(dateRangePattern.ReplaceAllString(line, ""))
		header = strings.Trim(header, " ,|–—-")
		if header == "" {
			continue
		}

		// "Title at Company" or "Title, Company" on the first usable line
		if idx := strings.Index(header, " at "); idx > 0 {
			entry.Title = strings.TrimSpace(header[:idx])
			entry.Company = strings.TrimSpace(header[idx+4:])
		} else if parts := strings.SplitN(header, ",", 2); len(parts) == 2 {
			entry.Title = strings.TrimSpace(parts[0])
			entry.Company = strings.TrimSpace(parts[1])
		} else {
			entry.Title = header
		}
		break
	}

	return entry
}
