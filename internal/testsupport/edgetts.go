package testsupport

import (
	"path/filepath"
	"testing"
)

// SampleSentenceSRT is the sentence subtitle file the fake edge-tts writes.
const SampleSentenceSRT = "1\n00:00:00,100 --> 00:00:01,200\nПривет мир.\n\n2\n00:00:01,300 --> 00:00:02,000\nКак дела?\n"

// fakeEdgeTTS mimics the edge-tts flags narrasync passes: it writes a stub
// MP3 to --write-media and SampleSentenceSRT to --write-subtitles. Arguments
// are logged one per line to $NARRASYNC_STUB_ARGS when set.
const fakeEdgeTTS = `media=""
subs=""
for arg in "$@"; do
  if [ -n "$NARRASYNC_STUB_ARGS" ]; then echo "$arg" >> "$NARRASYNC_STUB_ARGS"; fi
done
while [ $# -gt 0 ]; do
  case "$1" in
    --write-media) media="$2"; shift ;;
    --write-subtitles) subs="$2"; shift ;;
  esac
  shift
done
[ -n "$media" ] && printf 'ID3' > "$media"
if [ -n "$subs" ]; then
cat > "$subs" <<'SRT'
1
00:00:00,100 --> 00:00:01,200
Привет мир.

2
00:00:01,300 --> 00:00:02,000
Как дела?
SRT
fi
exit 0`

// InstallFakeEdgeTTS places a working edge-tts stand-in first on PATH and
// returns its path.
func InstallFakeEdgeTTS(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "bin")
	path := WriteStubBinary(t, dir, "edge-tts", fakeEdgeTTS)
	PrependPath(t, dir)
	return path
}
