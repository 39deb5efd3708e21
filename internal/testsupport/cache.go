package testsupport

import (
	"path/filepath"
	"testing"

	"narrasync/internal/timingcache"
)

// MustOpenCache opens a timing cache in a temp directory and registers cleanup.
func MustOpenCache(t testing.TB) *timingcache.Store {
	t.Helper()

	store, err := timingcache.Open(filepath.Join(t.TempDir(), "timings.db"))
	if err != nil {
		t.Fatalf("timingcache.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
