package synthesis

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"narrasync/internal/services"
	"narrasync/internal/subtitles"
	"narrasync/internal/testsupport"
)

func TestReplayFeedsCollector(t *testing.T) {
	dir := t.TempDir()
	dump := testsupport.WriteEventDump(t, filepath.Join(dir, "events.jsonl"),
		testsupport.DumpRecord{Type: "WordBoundary", Offset: testsupport.Seconds(0.1), Duration: testsupport.Seconds(0.4), Text: "Привет"},
		testsupport.DumpRecord{Type: "SentenceBoundary", Offset: testsupport.Seconds(0.1), Duration: testsupport.Seconds(1.1), Text: "Привет мир."},
		testsupport.DumpRecord{Type: "SentenceBoundary", Offset: testsupport.Seconds(1.3), Duration: testsupport.Seconds(0.7), Text: "Как дела?"},
		testsupport.DumpRecord{Type: "AudioDuration", Duration: testsupport.Seconds(2.5)},
	)
	audio := testsupport.WriteText(t, filepath.Join(dir, "src.mp3"), "ID3")

	collector := subtitles.NewCollector("Привет мир. Как дела?")
	provider := NewReplay(dump, audio, nil)
	target := filepath.Join(dir, "out", "chapter.mp3")
	result, err := provider.Synthesize(context.Background(), Request{AudioPath: target}, collectInto(collector))
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if result.Events != 3 {
		t.Fatalf("events got %d, want 3", result.Events)
	}
	if result.Duration != 2500*time.Millisecond {
		t.Fatalf("duration got %v, want 2.5s", result.Duration)
	}
	if result.AudioPath != target {
		t.Fatalf("audio path got %q, want %q", result.AudioPath, target)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected copied audio: %v", err)
	}

	sentences, words := collector.Counts()
	if sentences != 2 || words != 1 {
		t.Fatalf("counts got %d/%d, want 2/1", sentences, words)
	}
	got := collector.Sentences()
	if got[1].Text != "Как дела?" || got[1].Start != 1.3 || got[1].End != 2.0 {
		t.Fatalf("second sentence got %#v", got[1])
	}
}

func TestReplayDurationFallsBackToLastEvent(t *testing.T) {
	input := `{"type":"SentenceBoundary","offset":0,"duration":15000000,"text":"one"}

{"type":"SentenceBoundary","offset":20000000,"duration":5000000,"text":"two"}
`
	declared, lastEnd, events, err := ReplayEvents(context.Background(), strings.NewReader(input), func(subtitles.TimingEvent) error { return nil })
	if err != nil {
		t.Fatalf("ReplayEvents: %v", err)
	}
	if declared != 0 || lastEnd != 2.5 || events != 2 {
		t.Fatalf("got declared=%v lastEnd=%v events=%d", declared, lastEnd, events)
	}

	provider := NewReplay(testsupport.WriteText(t, filepath.Join(t.TempDir(), "e.jsonl"), input), "", nil)
	result, err := provider.Synthesize(context.Background(), Request{}, func(subtitles.TimingEvent) error { return nil })
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if result.Duration != 2500*time.Millisecond || result.AudioPath != "" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestReplayRejectsBadLines(t *testing.T) {
	cases := map[string]string{
		"json": `{"type":`,
		"kind": `{"type":"Bookmark","offset":0,"duration":1}`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, _, err := ReplayEvents(context.Background(), strings.NewReader(input), func(subtitles.TimingEvent) error { return nil })
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if !strings.Contains(err.Error(), "line 1") {
				t.Fatalf("expected line number in %q", err)
			}
		})
	}
}

func TestReplayStopsOnEmitError(t *testing.T) {
	input := `{"type":"WordBoundary","offset":0,"duration":1,"text":"a"}
{"type":"WordBoundary","offset":1,"duration":1,"text":"b"}`
	stop := errors.New("stop")
	_, _, events, err := ReplayEvents(context.Background(), strings.NewReader(input), func(subtitles.TimingEvent) error { return stop })
	if !errors.Is(err, stop) || events != 0 {
		t.Fatalf("got events=%d err=%v", events, err)
	}
}

func TestReplayMissingDump(t *testing.T) {
	provider := NewReplay(filepath.Join(t.TempDir(), "missing.jsonl"), "", nil)
	if provider.Name() != "replay" {
		t.Fatalf("name got %q", provider.Name())
	}
	_, err := provider.Synthesize(context.Background(), Request{}, func(subtitles.TimingEvent) error { return nil })
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
