package ai_services

import (
	"regexp"
	"strings"
)

// DefaultSummaryWords is the summary length used when none is configured.
const DefaultSummaryWords = 15

var sentenceBreak = regexp.MustCompile(`[\n.!?]+`)

// Summarize returns the first sentence of text, cut to maxWords words.
// A cut summary ends with "...". maxWords <= 0 means DefaultSummaryWords.
func Summarize(text string, maxWords int) string {
	if maxWords <= 0 {
		maxWords = DefaultSummaryWords
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	sentence := sentenceBreak.Split(text, 2)[0]
	words := strings.Fields(sentence)
	if len(words) <= maxWords {
		return strings.TrimSpace(sentence)
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
