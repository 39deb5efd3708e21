package pipeline

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"narrasync/internal/subtitles"
)

// Document is the manifest written for the json and yaml output formats.
type Document struct {
	RunID     string            `json:"run_id" yaml:"run_id"`
	Source    string            `json:"source,omitempty" yaml:"source,omitempty"`
	Voice     string            `json:"voice" yaml:"voice"`
	Speed     float64           `json:"speed" yaml:"speed"`
	Timed     bool              `json:"timed" yaml:"timed"`
	AudioPath string            `json:"audio_path,omitempty" yaml:"audio_path,omitempty"`
	Blocks    []subtitles.Block `json:"blocks" yaml:"blocks"`
}

// Extension returns the file extension for an output format.
func Extension(format string) string {
	switch format {
	case "json":
		return ".json"
	case "yaml":
		return ".yaml"
	default:
		return ".srt"
	}
}

// WriteDocument serializes doc in the requested format.
func WriteDocument(w io.Writer, format string, doc Document) error {
	switch format {
	case "srt":
		return subtitles.WriteSRT(w, doc.Blocks)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(doc)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// DistributeByWords assigns fallback blocks consecutive intervals across
// total seconds in proportion to their word counts. Blocks are updated in
// place; nothing changes when total is not positive or no block has words.
func DistributeByWords(blocks []subtitles.Block, total float64) {
	if total <= 0 || len(blocks) == 0 {
		return
	}
	counts := make([]int, len(blocks))
	sum := 0
	for i, b := range blocks {
		counts[i] = subtitles.WordCount(b.Text)
		sum += counts[i]
	}
	if sum == 0 {
		return
	}
	seen := 0
	for i := range blocks {
		blocks[i].Start = total * float64(seen) / float64(sum)
		seen += counts[i]
		blocks[i].End = total * float64(seen) / float64(sum)
	}
	blocks[len(blocks)-1].End = total
}
