package timingcache_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"narrasync/internal/subtitles"
	"narrasync/internal/testsupport"
	"narrasync/internal/timingcache"
)

func sampleEntry(t *testing.T, key string, created time.Time) timingcache.Entry {
	t.Helper()
	audio := filepath.Join(t.TempDir(), key+".mp3")
	testsupport.WriteFile(t, audio, 16)
	return timingcache.Entry{
		Key:          key,
		Voice:        "ru-RU-DmitryNeural",
		Speed:        1,
		RunID:        "run-" + key,
		AudioPath:    audio,
		AudioSeconds: 4.5,
		Sentences: []subtitles.SentenceTiming{
			{Text: "Привет мир.", Start: 0.1, End: 1.2},
			{Text: "Как дела?", Start: 1.4, End: 2.0},
		},
		CreatedAt: created,
	}
}

func TestKeyDependsOnEveryInput(t *testing.T) {
	base := timingcache.Key("voice", 1, "text")
	if base != timingcache.Key(" voice ", 1, "text") {
		t.Fatal("voice whitespace should not change the key")
	}
	variants := []string{
		timingcache.Key("other", 1, "text"),
		timingcache.Key("voice", 1.25, "text"),
		timingcache.Key("voice", 1, "text!"),
	}
	for i, v := range variants {
		if v == base {
			t.Fatalf("variant %d collides with base key", i)
		}
	}
	if len(base) != 64 {
		t.Fatalf("expected hex sha256 key, got %q", base)
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	store := testsupport.MustOpenCache(t)
	ctx := context.Background()

	entry := sampleEntry(t, "alpha", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	if err := store.Put(ctx, entry); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := store.Get(ctx, "alpha")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.RunID != "run-alpha" || got.AudioSeconds != 4.5 {
		t.Fatalf("unexpected entry: %#v", got)
	}
	if len(got.Sentences) != 2 || got.Sentences[0].Text != "Привет мир." || got.Sentences[1].Start != 1.4 {
		t.Fatalf("sentences got %#v", got.Sentences)
	}
	if !got.CreatedAt.Equal(entry.CreatedAt) {
		t.Fatalf("created_at got %v, want %v", got.CreatedAt, entry.CreatedAt)
	}
}

func TestPutReplacesExistingKey(t *testing.T) {
	store := testsupport.MustOpenCache(t)
	ctx := context.Background()

	entry := sampleEntry(t, "alpha", time.Time{})
	if err := store.Put(ctx, entry); err != nil {
		t.Fatalf("Put: %v", err)
	}
	entry.RunID = "second"
	if err := store.Put(ctx, entry); err != nil {
		t.Fatalf("Put replace: %v", err)
	}

	entries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].RunID != "second" {
		t.Fatalf("expected single replaced entry, got %#v", entries)
	}
}

func TestPutRejectsIncompleteEntries(t *testing.T) {
	store := testsupport.MustOpenCache(t)
	ctx := context.Background()

	if err := store.Put(ctx, timingcache.Entry{}); err == nil {
		t.Fatal("expected error for missing key")
	}
	if err := store.Put(ctx, timingcache.Entry{Key: "k"}); err == nil {
		t.Fatal("expected error for missing sentences")
	}
	noAudio := sampleEntry(t, "k", time.Time{})
	noAudio.AudioPath = filepath.Join(t.TempDir(), "missing.mp3")
	if err := store.Put(ctx, noAudio); err == nil {
		t.Fatal("expected error when audio cannot be fingerprinted")
	}
}

func TestGetMissesWhenAudioReplaced(t *testing.T) {
	store := testsupport.MustOpenCache(t)
	ctx := context.Background()

	entry := sampleEntry(t, "replaced", time.Time{})
	if err := store.Put(ctx, entry); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, "replaced")
	if err != nil || !ok {
		t.Fatalf("expected hit before replacement, ok=%v err=%v", ok, err)
	}
	if got.AudioSize != 16 || len(got.AudioSHA256) != 64 {
		t.Fatalf("expected recorded audio digest, got size=%d sum=%q", got.AudioSize, got.AudioSHA256)
	}

	// Same size, different bytes: only the hash can tell.
	if err := os.WriteFile(entry.AudioPath, []byte("0123456789abcdef"), 0o644); err != nil {
		t.Fatalf("rewrite audio: %v", err)
	}
	if _, ok, err := store.Get(ctx, "replaced"); err != nil || ok {
		t.Fatalf("expected miss after audio replaced, ok=%v err=%v", ok, err)
	}

	removed, err := store.Prune(ctx, time.Time{})
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("Prune removed %d, want 1", removed)
	}
}

func TestGetMissesWhenAudioRemoved(t *testing.T) {
	store := testsupport.MustOpenCache(t)
	ctx := context.Background()

	entry := sampleEntry(t, "gone", time.Time{})
	if err := store.Put(ctx, entry); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := os.Remove(entry.AudioPath); err != nil {
		t.Fatalf("remove audio: %v", err)
	}

	got, ok, err := store.Get(ctx, "gone")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("expected miss for entry without audio")
	}
	if got == nil || got.Key != "gone" {
		t.Fatalf("expected stale entry to be returned for inspection, got %#v", got)
	}

	if _, ok, err := store.Get(ctx, "absent"); err != nil || ok {
		t.Fatalf("absent key got ok=%v err=%v", ok, err)
	}
}

func TestListPruneClear(t *testing.T) {
	store := testsupport.MustOpenCache(t)
	ctx := context.Background()

	now := time.Now().UTC()
	old := sampleEntry(t, "old", now.Add(-72*time.Hour))
	fresh := sampleEntry(t, "fresh", now.Add(-time.Hour))
	orphan := sampleEntry(t, "orphan", now)
	for _, e := range []timingcache.Entry{old, fresh, orphan} {
		if err := store.Put(ctx, e); err != nil {
			t.Fatalf("Put %s: %v", e.Key, err)
		}
	}

	entries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 3 || entries[0].Key != "orphan" || entries[2].Key != "old" {
		t.Fatalf("expected newest-first order, got %v", keys(entries))
	}

	if err := os.Remove(orphan.AudioPath); err != nil {
		t.Fatalf("remove audio: %v", err)
	}
	removed, err := store.Prune(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 2 {
		t.Fatalf("Prune removed %d, want 2", removed)
	}
	entries, _ = store.List(ctx)
	if len(entries) != 1 || entries[0].Key != "fresh" {
		t.Fatalf("after prune got %v, want [fresh]", keys(entries))
	}

	cleared, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if cleared != 1 {
		t.Fatalf("Clear removed %d, want 1", cleared)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "timings.db")
	first, err := timingcache.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := first.Put(context.Background(), sampleEntry(t, "keep", time.Time{})); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second, err := timingcache.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	if _, ok, err := second.Get(context.Background(), "keep"); err != nil || !ok {
		t.Fatalf("expected persisted entry, ok=%v err=%v", ok, err)
	}
}

func keys(entries []timingcache.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Key)
	}
	return out
}
