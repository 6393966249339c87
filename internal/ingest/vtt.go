// Package ingest turns WebVTT subtitle files into embedded, indexed
// topic chunks.
package ingest

import (
	"regexp"
	"strings"
)

var (
	cueIdentRe = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)
	timecodeRe = regexp.MustCompile(`^\d{2}:\d{2}`)
	tagRe      = regexp.MustCompile(`<[^>]+>`)
	spaceRe    = regexp.MustCompile(`\s+`)
)

// NormalizeVTT extracts the spoken text from a WebVTT document as a
// single line. Headers, cue identifiers, timecodes, NOTE/STYLE/REGION
// blocks and markup tags are dropped; common HTML entities are decoded;
// runs of whitespace collapse to single spaces. Normalizing an already
// normalized string is a no-op.
func NormalizeVTT(content string) string {
	var textLines []string

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)

		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "WEBVTT"),
			strings.HasPrefix(line, "NOTE"),
			strings.HasPrefix(line, "STYLE"),
			strings.HasPrefix(line, "REGION"):
			continue
		case cueIdentRe.MatchString(line):
			// A bare identifier line above a cue, never spoken text.
			continue
		case strings.Contains(line, "-->"):
			continue
		case timecodeRe.MatchString(line):
			continue
		}

		line = tagRe.ReplaceAllString(line, "")
		line = decodeEntities(line)
		line = strings.TrimSpace(line)
		if line != "" {
			textLines = append(textLines, line)
		}
	}

	joined := strings.Join(textLines, " ")
	return strings.TrimSpace(spaceRe.ReplaceAllString(joined, " "))
}

var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
)

func decodeEntities(s string) string {
	return entityReplacer.Replace(s)
}
