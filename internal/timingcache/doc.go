// Package timingcache persists sentence timings from completed synthesis runs
// in SQLite so a rebuild with the same voice, speed, and text can skip the
// text-to-speech call.
//
// Entries are keyed by a SHA-256 digest of the synthesis inputs. An entry is
// only served while the audio file it describes still exists on disk.
package timingcache
