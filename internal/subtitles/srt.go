package subtitles

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// srtEntry is one raw SRT cue block before its timing line is decoded.
type srtEntry struct {
	index  int
	line   int
	timing string
	text   []string
}

// scanSRT walks an SRT document block by block. The numeric index line is
// optional; a block must carry a timing line followed by at least one text
// line.
func scanSRT(r io.Reader, fn func(srtEntry) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		current srtEntry
		open    bool
		lineNo  int
	)
	flush := func() error {
		if !open {
			return nil
		}
		open = false
		entry := current
		current = srtEntry{}
		if entry.timing == "" {
			return fmt.Errorf("srt line %d: %w", entry.line, formatErr("", "cue block has no timing line"))
		}
		if len(entry.text) == 0 {
			return nil
		}
		return fn(entry)
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if err := flush(); err != nil {
				return err
			}
			continue
		}
		if !open {
			open = true
			current.line = lineNo
			if idx, err := strconv.Atoi(trimmed); err == nil {
				current.index = idx
				continue
			}
		}
		if current.timing == "" {
			if !strings.Contains(trimmed, rangeSeparator) {
				return fmt.Errorf("srt line %d: %w", lineNo, formatErr(trimmed, "expected timing line"))
			}
			current.timing = trimmed
			continue
		}
		current.text = append(current.text, trimmed)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read srt: %w", err)
	}
	return flush()
}

// ScanSRTEvents streams every cue of an SRT document to emit as a sentence
// boundary event with textual bounds. Multi-line cue text is joined with
// spaces.
func ScanSRTEvents(r io.Reader, emit func(TimingEvent) error) error {
	return scanSRT(r, func(entry srtEntry) error {
		if _, _, err := ParseRange(entry.timing); err != nil {
			return fmt.Errorf("srt line %d: %w", entry.line, err)
		}
		return emit(TimingEvent{
			Kind:       SentenceBoundary,
			Text:       strings.Join(entry.text, " "),
			Timestamps: entry.timing,
		})
	})
}

// ReadSRTEvents collects ScanSRTEvents into a slice.
func ReadSRTEvents(r io.Reader) ([]TimingEvent, error) {
	var events []TimingEvent
	err := ScanSRTEvents(r, func(ev TimingEvent) error {
		events = append(events, ev)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// ReadSRT decodes an SRT document into blocks, keeping line breaks inside
// each cue.
func ReadSRT(r io.Reader) ([]Block, error) {
	var blocks []Block
	err := scanSRT(r, func(entry srtEntry) error {
		start, end, err := ParseRange(entry.timing)
		if err != nil {
			return fmt.Errorf("srt line %d: %w", entry.line, err)
		}
		blocks = append(blocks, Block{Text: strings.Join(entry.text, "\n"), Start: start, End: end})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return blocks, nil
}

// WriteSRT writes blocks as a numbered SRT document. Nothing is written when a
// block interval cannot be encoded.
func WriteSRT(w io.Writer, blocks []Block) error {
	var sb strings.Builder
	for i, block := range blocks {
		timing, err := FormatRange(block.Start, block.End)
		if err != nil {
			return fmt.Errorf("block %d: %w", i+1, err)
		}
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%d\n%s\n%s\n", i+1, timing, block.Text)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
