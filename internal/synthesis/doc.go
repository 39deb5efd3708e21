// Package synthesis turns narration text into audio plus a stream of timing
// events.
//
// EdgeTTS shells out to the edge-tts command line tool and replays the
// sentence subtitles it writes. Replay reads a recorded JSON-lines dump of
// boundary events so builds can run offline and in tests. Both deliver events
// through the same emit callback the pipeline feeds into a subtitles.Collector.
package synthesis
