package subtitles

import (
	"fmt"
	"strings"
	"time"
)

// EventKind distinguishes the boundary notifications a synthesis stream emits.
type EventKind int

const (
	WordBoundary EventKind = iota + 1
	SentenceBoundary
)

// Wire names used by edge-tts style streams.
const (
	wordBoundaryName     = "WordBoundary"
	sentenceBoundaryName = "SentenceBoundary"
)

// tickDuration is the 100ns unit edge-tts uses for offsets and durations.
const tickDuration = 100 * time.Nanosecond

func (k EventKind) String() string {
	switch k {
	case WordBoundary:
		return wordBoundaryName
	case SentenceBoundary:
		return sentenceBoundaryName
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// ParseEventKind maps a stream type name onto an EventKind.
func ParseEventKind(name string) (EventKind, error) {
	switch strings.TrimSpace(name) {
	case wordBoundaryName:
		return WordBoundary, nil
	case sentenceBoundaryName:
		return SentenceBoundary, nil
	default:
		return 0, fmt.Errorf("unknown boundary type %q", name)
	}
}

// TimingEvent is a single boundary notification. Bounds are carried either as
// an SRT timing line in Timestamps or as Offset and Duration; Timestamps wins
// when both are set.
type TimingEvent struct {
	Kind       EventKind
	Text       string
	Timestamps string
	Offset     time.Duration
	Duration   time.Duration
}

// EventFromTicks builds an event from offset and duration expressed in 100ns
// ticks.
func EventFromTicks(kind EventKind, text string, offsetTicks, durationTicks int64) TimingEvent {
	return TimingEvent{
		Kind:     kind,
		Text:     text,
		Offset:   time.Duration(offsetTicks) * tickDuration,
		Duration: time.Duration(durationTicks) * tickDuration,
	}
}

// Bounds resolves the event's start and end in seconds.
func (e TimingEvent) Bounds() (float64, float64, error) {
	if strings.TrimSpace(e.Timestamps) != "" {
		return ParseRange(e.Timestamps)
	}
	if e.Offset < 0 {
		return 0, 0, formatErr(e.Offset.String(), "offset is negative")
	}
	if e.Duration < 0 {
		return 0, 0, formatErr(e.Duration.String(), "end precedes start")
	}
	return e.Offset.Seconds(), (e.Offset + e.Duration).Seconds(), nil
}
