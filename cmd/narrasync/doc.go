// Command narrasync synthesizes narration audio and builds subtitle files
// whose cues follow the speech.
//
// The build and batch commands run the full pipeline; split and inspect
// exercise segmentation on their own. The config, cache, doctor and logs
// commands manage the local setup. Exit status distinguishes invalid input
// (2), configuration problems (3) and external tool failures (4).
package main
