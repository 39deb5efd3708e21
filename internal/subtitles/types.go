package subtitles

import "strings"

// Default segmentation parameters.
const (
	DefaultMaxWords  = 15
	DefaultGroupSize = 2
)

// SentenceTiming is one sentence-level unit of synthesized speech, in seconds
// relative to the start of the audio track.
type SentenceTiming struct {
	Text  string  `json:"text" yaml:"text"`
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}

// Cue is one timed, word-bounded unit of subtitle text.
type Cue struct {
	Text  string  `json:"text" yaml:"text"`
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}

// Duration returns the cue length in seconds.
func (c Cue) Duration() float64 {
	return c.End - c.Start
}

// Block groups consecutive cues into a single on-screen display unit. Text holds
// one cue per line.
type Block struct {
	Text  string  `json:"text" yaml:"text"`
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}

// Lines splits the block text into its member cue lines.
func (b Block) Lines() []string {
	return strings.Split(b.Text, "\n")
}

// WordCount counts whitespace-delimited words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
