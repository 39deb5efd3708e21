package synthesis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"narrasync/internal/logging"
	"narrasync/internal/services"
	"narrasync/internal/subtitles"
)

const (
	edgeTTSName       = "edge-tts"
	textInputName     = "narration.txt"
	subtitleOutputExt = ".sentences.srt"
)

type commandRunner func(ctx context.Context, name string, args ...string) error

// EdgeTTS runs the edge-tts command line tool. The tool writes the MP3 and a
// sentence-level SRT; the SRT is replayed as SentenceBoundary events.
type EdgeTTS struct {
	binary  string
	timeout time.Duration
	run     commandRunner
	logger  *slog.Logger
}

// NewEdgeTTS builds a provider for the given binary. A zero timeout disables
// the per-run limit.
func NewEdgeTTS(binary string, timeout time.Duration, logger *slog.Logger) *EdgeTTS {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = edgeTTSName
	}
	return &EdgeTTS{
		binary:  binary,
		timeout: timeout,
		run:     defaultCommandRunner,
		logger:  logging.NewComponentLogger(logger, "edge-tts"),
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (e *EdgeTTS) WithCommandRunner(r func(ctx context.Context, name string, args ...string) error) {
	if r == nil {
		e.run = defaultCommandRunner
		return
	}
	e.run = r
}

// Name identifies the provider in logs and summaries.
func (e *EdgeTTS) Name() string { return edgeTTSName }

// Synthesize writes req.Text to a work file, runs edge-tts, and streams the
// resulting sentence timings to emit.
func (e *EdgeTTS) Synthesize(ctx context.Context, req Request, emit EmitFunc) (Result, error) {
	if strings.TrimSpace(req.AudioPath) == "" {
		return Result{}, services.Wrap(services.ErrValidation, "synthesis", "edge-tts", "audio path required", nil)
	}
	workDir := req.WorkDir
	if workDir == "" {
		workDir = filepath.Dir(req.AudioPath)
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "synthesis", "edge-tts", "ensure work dir", err)
	}

	textPath := filepath.Join(workDir, textInputName)
	if err := os.WriteFile(textPath, []byte(req.Text), 0o644); err != nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "synthesis", "edge-tts", "write text input", err)
	}
	base := filepath.Base(req.AudioPath)
	subtitlePath := filepath.Join(workDir, strings.TrimSuffix(base, filepath.Ext(base))+subtitleOutputExt)

	args := e.buildArgs(req, textPath, subtitlePath)
	e.logger.Info("edge-tts synthesis started",
		logging.String("voice", req.Voice),
		logging.String("rate", RateArgument(req.Speed)),
		logging.String("audio", req.AudioPath),
	)

	runCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	started := time.Now()
	if err := e.run(runCtx, e.binary, args...); err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return Result{}, services.Wrap(services.ErrTimeout, "synthesis", "edge-tts",
				fmt.Sprintf("exceeded %s", e.timeout), err)
		}
		return Result{}, services.Wrap(services.ErrExternalTool, "synthesis", "edge-tts", "command failed", err)
	}
	if _, err := os.Stat(req.AudioPath); err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "synthesis", "edge-tts", "audio file not written", err)
	}

	result := Result{AudioPath: req.AudioPath}
	file, err := os.Open(subtitlePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.WarnWithContext(e.logger, "edge-tts wrote no subtitles", "synthesis_no_subtitles",
				logging.String(logging.FieldErrorHint, "upgrade edge-tts to a version supporting --write-subtitles"),
				logging.String(logging.FieldImpact, "subtitles fall back to punctuation splitting"),
			)
			return result, nil
		}
		return Result{}, services.Wrap(services.ErrExternalTool, "synthesis", "edge-tts", "open subtitles", err)
	}
	defer file.Close()

	var lastEnd float64
	err = subtitles.ScanSRTEvents(file, func(ev subtitles.TimingEvent) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		result.Events++
		if end := eventEnd(ev); end > lastEnd {
			lastEnd = end
		}
		return emit(ev)
	})
	if err != nil {
		if errors.Is(err, subtitles.ErrFormat) {
			return Result{}, services.Wrap(services.ErrExternalTool, "synthesis", "edge-tts", "parse subtitles", err)
		}
		return Result{}, err
	}
	result.Duration = secondsToDuration(lastEnd)

	e.logger.Info("edge-tts synthesis completed",
		logging.Int("events", result.Events),
		logging.Duration("audio_duration", result.Duration),
		logging.Duration("elapsed", time.Since(started)),
	)
	return result, nil
}

func (e *EdgeTTS) buildArgs(req Request, textPath, subtitlePath string) []string {
	args := []string{"--file", textPath}
	if voice := strings.TrimSpace(req.Voice); voice != "" {
		args = append(args, "--voice", voice)
	}
	// The "=" form keeps negative rates from parsing as flags.
	args = append(args,
		"--rate="+RateArgument(req.Speed),
		"--write-media", req.AudioPath,
		"--write-subtitles", subtitlePath,
	)
	return args
}

func defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stderr strings.Builder
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
