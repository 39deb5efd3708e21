package timingcache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"narrasync/internal/fileutil"
	"narrasync/internal/subtitles"
)

// Entry is one cached synthesis result.
type Entry struct {
	Key          string                     `json:"key"`
	Voice        string                     `json:"voice"`
	Speed        float64                    `json:"speed"`
	RunID        string                     `json:"run_id"`
	AudioPath    string                     `json:"audio_path"`
	AudioSeconds float64                    `json:"audio_seconds"`
	AudioSize    int64                      `json:"audio_size"`
	AudioSHA256  string                     `json:"audio_sha256"`
	Sentences    []subtitles.SentenceTiming `json:"sentences"`
	CreatedAt    time.Time                  `json:"created_at"`
}

// Store manages timing persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Key derives the cache key for a synthesis request. The text should already
// be normalized so equivalent inputs share an entry.
func Key(voice string, speed float64, text string) string {
	h := sha256.New()
	h.Write([]byte(strings.TrimSpace(voice)))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatFloat(speed, 'f', -1, 64)))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// Open initializes or connects to the cache database at path and applies migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, now: time.Now}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put inserts or replaces the entry for entry.Key. A zero CreatedAt is
// stamped with the current time. The audio file is fingerprinted when the
// entry carries no digest, so it must exist.
func (s *Store) Put(ctx context.Context, entry Entry) error {
	if strings.TrimSpace(entry.Key) == "" {
		return errors.New("cache entry key is required")
	}
	if len(entry.Sentences) == 0 {
		return errors.New("cache entry has no sentence timings")
	}
	if entry.AudioSHA256 == "" {
		size, sum, err := fileutil.Digest(entry.AudioPath)
		if err != nil {
			return fmt.Errorf("fingerprint cache audio: %w", err)
		}
		entry.AudioSize, entry.AudioSHA256 = size, sum
	}
	payload, err := json.Marshal(entry.Sentences)
	if err != nil {
		return fmt.Errorf("marshal sentences: %w", err)
	}
	created := entry.CreatedAt
	if created.IsZero() {
		created = s.now()
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO sentence_timings (
            key, voice, speed, run_id, audio_path, audio_seconds, audio_size, audio_sha256,
            sentences_json, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(key) DO UPDATE SET
            voice = excluded.voice,
            speed = excluded.speed,
            run_id = excluded.run_id,
            audio_path = excluded.audio_path,
            audio_seconds = excluded.audio_seconds,
            audio_size = excluded.audio_size,
            audio_sha256 = excluded.audio_sha256,
            sentences_json = excluded.sentences_json,
            created_at = excluded.created_at`,
		entry.Key,
		entry.Voice,
		entry.Speed,
		entry.RunID,
		entry.AudioPath,
		entry.AudioSeconds,
		entry.AudioSize,
		entry.AudioSHA256,
		string(payload),
		created.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert cache entry: %w", err)
	}
	return nil
}

// Get returns the entry for key. The boolean is false when no entry exists or
// its audio file is gone or no longer holds the audio the timings came from;
// stale rows are left for Prune.
func (s *Store) Get(ctx context.Context, key string) (*Entry, bool, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE key = ?`, key)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return entry, entry.AudioMatches(), nil
}

// List returns every entry, newest first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY created_at DESC, key`)
	if err != nil {
		return nil, fmt.Errorf("list cache entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// Prune removes entries created before cutoff and entries whose audio file
// is gone or has changed. It returns the number of rows removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sentence_timings WHERE created_at < ?`,
		cutoff.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("prune cache by age: %w", err)
	}
	removed, _ := res.RowsAffected()

	entries, err := s.List(ctx)
	if err != nil {
		return removed, err
	}
	for _, entry := range entries {
		if entry.AudioMatches() {
			continue
		}
		if _, err := s.db.ExecContext(ctx, `DELETE FROM sentence_timings WHERE key = ?`, entry.Key); err != nil {
			return removed, fmt.Errorf("prune orphaned entry: %w", err)
		}
		removed++
	}
	return removed, nil
}

// Clear removes every entry and returns the number removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sentence_timings`)
	if err != nil {
		return 0, fmt.Errorf("clear cache: %w", err)
	}
	removed, _ := res.RowsAffected()
	return removed, nil
}

// AudioMatches reports whether the file at AudioPath still has the size and
// SHA-256 recorded with the timings.
func (e *Entry) AudioMatches() bool {
	if e.AudioSHA256 == "" {
		return false
	}
	info, err := os.Stat(e.AudioPath)
	if err != nil || info.Size() != e.AudioSize {
		return false
	}
	_, sum, err := fileutil.Digest(e.AudioPath)
	return err == nil && sum == e.AudioSHA256
}

// timeLayout is fixed width so created_at sorts and compares as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const selectColumns = `SELECT key, voice, speed, run_id, audio_path, audio_seconds, audio_size, audio_sha256, sentences_json, created_at FROM sentence_timings`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var (
		entry   Entry
		payload string
		created string
	)
	if err := row.Scan(
		&entry.Key,
		&entry.Voice,
		&entry.Speed,
		&entry.RunID,
		&entry.AudioPath,
		&entry.AudioSeconds,
		&entry.AudioSize,
		&entry.AudioSHA256,
		&payload,
		&created,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan cache entry: %w", err)
	}
	if err := json.Unmarshal([]byte(payload), &entry.Sentences); err != nil {
		return nil, fmt.Errorf("decode sentences for %s: %w", entry.Key, err)
	}
	if ts, err := time.Parse(timeLayout, created); err == nil {
		entry.CreatedAt = ts
	}
	return &entry, nil
}
