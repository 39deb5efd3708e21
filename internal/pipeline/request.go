package pipeline

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"narrasync/internal/config"
	"narrasync/internal/services"
	"narrasync/internal/subtitles"
	"narrasync/internal/textutil"
)

// Request describes one build. Zero-valued fields take their value from the
// runner's configuration.
type Request struct {
	SourcePath string
	Text       string
	OutputDir  string
	Stem       string
	Voice      string
	Speed      float64
	MaxWords   int
	GroupSize  int
	Format     string
	NoCache    bool
}

// Result summarizes a completed build.
type Result struct {
	RunID         string            `json:"run_id"`
	Source        string            `json:"source,omitempty"`
	Provider      string            `json:"provider"`
	AudioPath     string            `json:"audio_path,omitempty"`
	SubtitlePath  string            `json:"subtitle_path"`
	Format        string            `json:"format"`
	Timed         bool              `json:"timed"`
	CacheHit      bool              `json:"cache_hit"`
	Sentences     int               `json:"sentences"`
	Cues          int               `json:"cues"`
	AudioDuration time.Duration     `json:"audio_duration"`
	Blocks        []subtitles.Block `json:"-"`
}

// resolved is a Request with configuration defaults applied and validated.
type resolved struct {
	Request
	text string
}

func (r *Runner) resolve(req Request) (resolved, error) {
	out := resolved{Request: req}
	out.text = textutil.NormalizeNarration(req.Text)
	if out.text == "" {
		return out, services.Wrap(services.ErrValidation, "normalize", "text", "narration text is empty", nil)
	}

	cfg := r.cfg
	if strings.TrimSpace(out.OutputDir) == "" {
		out.OutputDir = cfg.Paths.OutputDir
	}
	if strings.TrimSpace(out.Stem) == "" {
		out.Stem = textutil.OutputStem(req.SourcePath)
	} else {
		out.Stem = textutil.OutputStem(out.Stem)
	}
	if strings.TrimSpace(out.Voice) == "" {
		out.Voice = cfg.Synthesis.Voice
	}
	if out.Speed == 0 {
		out.Speed = cfg.Synthesis.Speed
	}
	if out.MaxWords == 0 {
		out.MaxWords = cfg.Segmentation.MaxWords
	}
	if out.GroupSize == 0 {
		out.GroupSize = cfg.Segmentation.GroupSize
	}
	out.Format = strings.ToLower(strings.TrimSpace(out.Format))
	if out.Format == "" {
		out.Format = cfg.Segmentation.OutputFormat
	}
	if out.Format == "yml" {
		out.Format = "yaml"
	}

	if out.MaxWords < 1 {
		return out, services.Wrap(services.ErrConfiguration, "segment", "max_words", "",
			&subtitles.ConfigError{Field: "max_words", Value: out.MaxWords})
	}
	if out.GroupSize <= 0 {
		return out, services.Wrap(services.ErrConfiguration, "group", "group_size", "",
			&subtitles.ConfigError{Field: "group_size", Value: out.GroupSize})
	}
	if out.Speed <= 0 {
		return out, services.Wrap(services.ErrConfiguration, "synthesis", "speed",
			fmt.Sprintf("must be positive, got %g", out.Speed), nil)
	}
	if !slices.Contains(config.OutputFormats, out.Format) {
		return out, services.Wrap(services.ErrConfiguration, "write", "format",
			fmt.Sprintf("unsupported output format %q", out.Format), nil)
	}
	return out, nil
}
