package subtitles

import "strings"

// GroupCues packs consecutive cues into blocks of up to groupSize cues. Block
// text joins the member cues with line breaks; the interval runs from the first
// member's start to the last member's end. Blank cues are skipped.
func GroupCues(cues []Cue, groupSize int) ([]Block, error) {
	if groupSize <= 0 {
		return nil, &ConfigError{Field: "group_size", Value: groupSize}
	}
	kept := make([]Cue, 0, len(cues))
	for _, cue := range cues {
		if text := strings.TrimSpace(cue.Text); text != "" {
			cue.Text = text
			kept = append(kept, cue)
		}
	}
	blocks := make([]Block, 0, (len(kept)+groupSize-1)/groupSize)
	for i := 0; i < len(kept); i += groupSize {
		window := kept[i:min(i+groupSize, len(kept))]
		lines := make([]string, len(window))
		for j, cue := range window {
			lines[j] = cue.Text
		}
		blocks = append(blocks, Block{
			Text:  strings.Join(lines, "\n"),
			Start: window[0].Start,
			End:   window[len(window)-1].End,
		})
	}
	return blocks, nil
}

// GroupLines packs untimed text fragments into multi-line groups of up to
// groupSize lines.
func GroupLines(lines []string, groupSize int) ([]string, error) {
	if groupSize <= 0 {
		return nil, &ConfigError{Field: "group_size", Value: groupSize}
	}
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	groups := make([]string, 0, (len(kept)+groupSize-1)/groupSize)
	for i := 0; i < len(kept); i += groupSize {
		groups = append(groups, strings.Join(kept[i:min(i+groupSize, len(kept))], "\n"))
	}
	return groups, nil
}
