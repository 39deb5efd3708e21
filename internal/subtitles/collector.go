package subtitles

import (
	"context"
	"fmt"
	"strings"
)

// Collector accumulates boundary events into sentence timings as they arrive.
// It is not safe for concurrent use.
type Collector struct {
	source    string
	sentences []SentenceTiming
	words     []SentenceTiming
}

// NewCollector returns a collector for the given source text. The source text
// becomes the single sentence when the stream only carries word boundaries.
func NewCollector(source string) *Collector {
	return &Collector{source: source}
}

// Feed consumes one event. Sentence boundaries append a sentence timing; word
// boundaries are kept for the word-only fallback.
func (c *Collector) Feed(ev TimingEvent) error {
	switch ev.Kind {
	case SentenceBoundary, WordBoundary:
	default:
		return fmt.Errorf("feed event: unsupported kind %s", ev.Kind)
	}
	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return nil
	}
	start, end, err := ev.Bounds()
	if err != nil {
		return fmt.Errorf("feed %s %q: %w", ev.Kind, text, err)
	}
	timing := SentenceTiming{Text: text, Start: start, End: end}
	if ev.Kind == SentenceBoundary {
		c.sentences = append(c.sentences, timing)
	} else {
		c.words = append(c.words, timing)
	}
	return nil
}

// Consume feeds every event from the channel until it closes, the context is
// cancelled, or an event fails to decode.
func (c *Collector) Consume(ctx context.Context, events <-chan TimingEvent) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := c.Feed(ev); err != nil {
				return err
			}
		}
	}
}

// Sentences returns the collected sentence timings in arrival order. Without
// any sentence boundary, the whole source text spans the first word's start to
// the last word's end.
func (c *Collector) Sentences() []SentenceTiming {
	if len(c.sentences) > 0 {
		out := make([]SentenceTiming, len(c.sentences))
		copy(out, c.sentences)
		return out
	}
	if len(c.words) == 0 {
		return nil
	}
	text := strings.TrimSpace(c.source)
	if text == "" {
		parts := make([]string, len(c.words))
		for i, w := range c.words {
			parts[i] = w.Text
		}
		text = strings.Join(parts, " ")
	}
	start := c.words[0].Start
	end := c.words[len(c.words)-1].End
	if end < start {
		end = start
	}
	return []SentenceTiming{{Text: text, Start: start, End: end}}
}

// HasTiming reports whether any boundary event has been collected.
func (c *Collector) HasTiming() bool {
	return len(c.sentences) > 0 || len(c.words) > 0
}

// Counts returns the number of sentence and word boundaries collected.
func (c *Collector) Counts() (sentences, words int) {
	return len(c.sentences), len(c.words)
}
