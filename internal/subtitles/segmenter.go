package subtitles

// Segmenter produces an ordered sequence of candidate cues from narration.
type Segmenter interface {
	Segment() ([]Cue, error)
	// Timed reports whether cue intervals come from real audio timing.
	Timed() bool
}

var (
	_ Segmenter = TimedSegmenter{}
	_ Segmenter = FallbackSegmenter{}
)

// TimedSegmenter chunks sentence timings collected from a synthesis stream.
type TimedSegmenter struct {
	Sentences []SentenceTiming
	MaxWords  int
}

func (s TimedSegmenter) Segment() ([]Cue, error) {
	return ChunkSentences(s.Sentences, s.MaxWords)
}

func (s TimedSegmenter) Timed() bool { return true }

// FallbackSegmenter splits raw text by punctuation. Its cues have zero-width
// intervals at zero.
type FallbackSegmenter struct {
	Text     string
	MaxWords int
}

func (s FallbackSegmenter) Segment() ([]Cue, error) {
	lines, err := SplitFallback(s.Text, s.MaxWords)
	if err != nil {
		return nil, err
	}
	cues := make([]Cue, len(lines))
	for i, line := range lines {
		cues[i] = Cue{Text: line}
	}
	return cues, nil
}

func (s FallbackSegmenter) Timed() bool { return false }

// SelectSegmenter picks timed segmentation when the collector saw any boundary
// event and falls back to punctuation splitting of text otherwise.
func SelectSegmenter(c *Collector, text string, maxWords int) Segmenter {
	if c != nil && c.HasTiming() {
		return TimedSegmenter{Sentences: c.Sentences(), MaxWords: maxWords}
	}
	return FallbackSegmenter{Text: text, MaxWords: maxWords}
}

// BuildBlocks segments and groups in one pass.
func BuildBlocks(seg Segmenter, groupSize int) ([]Block, error) {
	if groupSize <= 0 {
		return nil, &ConfigError{Field: "group_size", Value: groupSize}
	}
	cues, err := seg.Segment()
	if err != nil {
		return nil, err
	}
	return BlocksFromCues(cues, seg.Timed(), groupSize)
}

// BlocksFromCues groups already segmented cues. Timed cues merge their
// intervals; untimed cues are grouped by line count only and keep zero
// intervals.
func BlocksFromCues(cues []Cue, timed bool, groupSize int) ([]Block, error) {
	if timed {
		return GroupCues(cues, groupSize)
	}
	lines := make([]string, len(cues))
	for i, cue := range cues {
		lines[i] = cue.Text
	}
	groups, err := GroupLines(lines, groupSize)
	if err != nil {
		return nil, err
	}
	blocks := make([]Block, len(groups))
	for i, text := range groups {
		blocks[i] = Block{Text: text}
	}
	return blocks, nil
}
