package subtitles

import (
	"regexp"
	"strings"
)

// sentenceEndRe matches a run of terminal punctuation followed by whitespace.
var sentenceEndRe = regexp.MustCompile(`[.!?…]+\s+`)

// SplitFallback segments raw text into pseudo-sentences by terminal
// punctuation when no timing stream is available. Each punctuation run stays
// attached to the fragment before it. Sentences longer than maxWords are
// re-split at commas instead of by word count. The result carries no timing.
func SplitFallback(text string, maxWords int) ([]string, error) {
	if maxWords < 1 {
		return nil, &ConfigError{Field: "max_words", Value: maxWords}
	}
	var sentences []string
	prev := 0
	for _, loc := range sentenceEndRe.FindAllStringIndex(text, -1) {
		punct := strings.TrimSpace(text[loc[0]:loc[1]])
		sentences = append(sentences, strings.TrimSpace(text[prev:loc[0]]+punct))
		prev = loc[1]
	}
	sentences = append(sentences, strings.TrimSpace(text[prev:]))

	var out []string
	for _, sentence := range sentences {
		if sentence == "" {
			continue
		}
		if WordCount(sentence) <= maxWords {
			out = append(out, sentence)
			continue
		}
		for _, part := range strings.Split(sentence, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out, nil
}
