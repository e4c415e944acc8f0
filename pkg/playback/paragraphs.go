package playback

import (
	"regexp"
	"strings"
)

var newlineRuns = regexp.MustCompile(`\n+`)

// SplitParagraphs breaks an answer into narration units on newline
// boundaries, dropping empty paragraphs.
func SplitParagraphs(answer string) []string {
	parts := newlineRuns.Split(answer, -1)
	paragraphs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		paragraphs = append(paragraphs, p)
	}
	return paragraphs
}
