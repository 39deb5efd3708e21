package testsupport

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	WriteText(t, path, strings.Repeat("B", int(size)))
}

// WriteText writes content to path, creating parent directories.
func WriteText(t testing.TB, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// DumpRecord is one line of a replay event dump. Offset and Duration are
// 100 ns ticks.
type DumpRecord struct {
	Type     string `json:"type"`
	Offset   int64  `json:"offset"`
	Duration int64  `json:"duration"`
	Text     string `json:"text,omitempty"`
}

// WriteEventDump writes records as JSON lines to path.
func WriteEventDump(t testing.TB, path string, records ...DumpRecord) string {
	t.Helper()
	var b strings.Builder
	for _, rec := range records {
		line, err := json.Marshal(rec)
		if err != nil {
			t.Fatalf("marshal dump record: %v", err)
		}
		b.Write(line)
		b.WriteByte('\n')
	}
	return WriteText(t, path, b.String())
}

// Seconds converts seconds into 100 ns ticks.
func Seconds(s float64) int64 {
	return int64(math.Round(s * 10_000_000))
}
