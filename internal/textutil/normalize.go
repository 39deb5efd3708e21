package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeNarration prepares narration text for synthesis and segmentation.
// It composes the text to NFC so combining marks (Cyrillic й, ё) count as one
// rune, strips a leading byte order mark, and collapses every whitespace run,
// line breaks included, into a single space.
func NormalizeNarration(text string) string {
	text = strings.TrimPrefix(text, "\ufeff")
	text = norm.NFC.String(text)

	var b strings.Builder
	b.Grow(len(text))
	pendingSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
