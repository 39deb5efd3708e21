// Package pipeline runs a full narration build: normalize the text, obtain
// sentence timings from the timing cache or a synthesis provider, segment and
// group them into subtitle blocks, and write the result next to the audio.
//
// A Runner is safe to use from several goroutines as long as each Run targets
// a different output stem; a file lock per stem rejects concurrent writers.
package pipeline
