// Package subtitles converts speech timing into display-ready subtitle blocks.
//
// Timing events emitted by a synthesis provider are accumulated by a Collector
// into sentence timings. Long sentences are chunked into cues bounded by a word
// limit, with times interpolated by word position, and consecutive cues are
// grouped into fixed-size on-screen blocks. When a provider returns no timing at
// all, the fallback splitter segments raw text by punctuation instead.
//
// Everything here is pure and single-threaded; the Collector is the only stateful
// type and is meant to be fed incrementally while the provider streams.
package subtitles
