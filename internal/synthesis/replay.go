package synthesis

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"narrasync/internal/fileutil"
	"narrasync/internal/logging"
	"narrasync/internal/services"
	"narrasync/internal/subtitles"
)

const (
	replayName = "replay"
	// audioDurationType marks a dump record that carries the total audio
	// length instead of a boundary.
	audioDurationType = "AudioDuration"
	maxReplayLine     = 1 << 20
)

// replayRecord is one line of an event dump. Offset and Duration are in
// 100 ns ticks as the synthesis service reports them.
type replayRecord struct {
	Type     string `json:"type"`
	Offset   int64  `json:"offset"`
	Duration int64  `json:"duration"`
	Text     string `json:"text"`
}

// Replay streams a recorded JSON-lines event dump instead of calling a
// synthesis service.
type Replay struct {
	eventsPath  string
	audioSource string
	logger      *slog.Logger
}

// NewReplay reads events from eventsPath. When audioSource is set it is copied
// to the requested audio path so downstream steps see a real audio file.
func NewReplay(eventsPath, audioSource string, logger *slog.Logger) *Replay {
	return &Replay{
		eventsPath:  strings.TrimSpace(eventsPath),
		audioSource: strings.TrimSpace(audioSource),
		logger:      logging.NewComponentLogger(logger, "replay"),
	}
}

// Name identifies the provider in logs and summaries.
func (r *Replay) Name() string { return replayName }

// Synthesize replays the dump line by line into emit.
func (r *Replay) Synthesize(ctx context.Context, req Request, emit EmitFunc) (Result, error) {
	file, err := os.Open(r.eventsPath)
	if err != nil {
		return Result{}, services.Wrap(services.ErrNotFound, "synthesis", "replay", "open event dump", err)
	}
	defer file.Close()

	result := Result{}
	if r.audioSource != "" && strings.TrimSpace(req.AudioPath) != "" {
		if err := fileutil.CopyFileVerified(r.audioSource, req.AudioPath); err != nil {
			return Result{}, services.Wrap(services.ErrNotFound, "synthesis", "replay", "copy audio", err)
		}
		result.AudioPath = req.AudioPath
	}

	declared, lastEnd, events, err := ReplayEvents(ctx, file, emit)
	if err != nil {
		return Result{}, err
	}
	result.Events = events
	result.Duration = declared
	if result.Duration == 0 {
		result.Duration = secondsToDuration(lastEnd)
	}

	r.logger.Debug("event dump replayed",
		logging.String("path", r.eventsPath),
		logging.Int("events", result.Events),
		logging.Duration("audio_duration", result.Duration),
	)
	return result, nil
}

// ReplayEvents decodes a JSON-lines dump from rd and emits each boundary
// event. It returns the declared audio duration (zero when the dump has no
// AudioDuration record), the latest event end in seconds, and the number of
// events emitted.
func ReplayEvents(ctx context.Context, rd io.Reader, emit EmitFunc) (time.Duration, float64, int, error) {
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 0, 64*1024), maxReplayLine)

	var (
		declared time.Duration
		lastEnd  float64
		events   int
		lineNo   int
	)
	for scanner.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return 0, 0, events, err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec replayRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return 0, 0, events, services.Wrap(services.ErrValidation, "synthesis", "replay",
				fmt.Sprintf("line %d", lineNo), err)
		}
		if rec.Type == audioDurationType {
			declared = time.Duration(rec.Duration) * 100 * time.Nanosecond
			continue
		}
		kind, err := subtitles.ParseEventKind(rec.Type)
		if err != nil {
			return 0, 0, events, services.Wrap(services.ErrValidation, "synthesis", "replay",
				fmt.Sprintf("line %d", lineNo), err)
		}
		ev := subtitles.EventFromTicks(kind, rec.Text, rec.Offset, rec.Duration)
		if err := emit(ev); err != nil {
			return 0, 0, events, err
		}
		events++
		if end := eventEnd(ev); end > lastEnd {
			lastEnd = end
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, 0, events, services.Wrap(services.ErrValidation, "synthesis", "replay", "read event dump", err)
	}
	return declared, lastEnd, events, nil
}
