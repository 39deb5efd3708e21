package synthesis

import (
	"context"
	"fmt"
	"math"
	"time"

	"narrasync/internal/subtitles"
)

// Request describes one synthesis run.
type Request struct {
	Text      string
	Voice     string
	Speed     float64
	AudioPath string
	// WorkDir holds intermediate files such as the text input and the raw
	// subtitle output. Defaults to the directory of AudioPath.
	WorkDir string
}

// Result summarizes a completed synthesis run.
type Result struct {
	AudioPath string
	// Duration is the audio length when the provider can tell, otherwise zero.
	Duration time.Duration
	Events   int
}

// EmitFunc receives timing events in arrival order. Returning an error stops
// the provider.
type EmitFunc func(subtitles.TimingEvent) error

// Provider synthesizes speech and reports timing events as they become known.
type Provider interface {
	Name() string
	Synthesize(ctx context.Context, req Request, emit EmitFunc) (Result, error)
}

// RateArgument converts a speed multiplier into the signed percentage edge-tts
// expects: 1.0 is "+0%", 1.25 is "+25%", 0.9 is "-10%".
func RateArgument(speed float64) string {
	change := int(math.Round((speed - 1.0) * 100))
	if change >= 0 {
		return fmt.Sprintf("+%d%%", change)
	}
	return fmt.Sprintf("%d%%", change)
}

// eventEnd reports where an event finishes, in seconds.
func eventEnd(ev subtitles.TimingEvent) float64 {
	_, end, err := ev.Bounds()
	if err != nil {
		return 0
	}
	return end
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(math.Round(seconds * float64(time.Second)))
}
