package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"narrasync/internal/services"
	"narrasync/internal/subtitles"
)

func newInspectCommand() *cobra.Command {
	var maxWords int
	var groupSize int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:         "inspect <srt-file>",
		Short:       "Show the blocks of an SRT file, optionally re-chunked and regrouped",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				if os.IsNotExist(err) {
					return services.Wrap(services.ErrNotFound, "inspect", "open", args[0], err)
				}
				return services.Wrap(services.ErrValidation, "inspect", "open", args[0], err)
			}
			defer file.Close()

			blocks, err := subtitles.ReadSRT(file)
			if err != nil {
				return services.Wrap(services.ErrValidation, "inspect", "parse", args[0], err)
			}

			if maxWords != 0 || groupSize != 0 {
				blocks, err = regroup(blocks, maxWords, groupSize)
				if err != nil {
					return err
				}
			}

			if jsonOut {
				return writeJSON(cmd, blocks)
			}
			rows := make([][]string, 0, len(blocks))
			for i, b := range blocks {
				start, _ := subtitles.FormatTimestamp(b.Start)
				end, _ := subtitles.FormatTimestamp(b.End)
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					start,
					end,
					strconv.Itoa(subtitles.WordCount(b.Text)),
					strings.ReplaceAll(b.Text, "\n", " / "),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"#", "Start", "End", "Words", "Text"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&maxWords, "max-words", 0, "Re-chunk each block to at most this many words per cue")
	cmd.Flags().IntVar(&groupSize, "group-size", 0, "Regroup cues into blocks of this many lines")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print blocks as JSON")
	return cmd
}

// regroup treats each block as one timed sentence and runs it back through
// chunking and grouping. A zero maxWords keeps whole blocks; a zero groupSize
// keeps one cue per block.
func regroup(blocks []subtitles.Block, maxWords, groupSize int) ([]subtitles.Block, error) {
	sentences := make([]subtitles.SentenceTiming, len(blocks))
	longest := 1
	for i, b := range blocks {
		text := strings.Join(strings.Fields(b.Text), " ")
		sentences[i] = subtitles.SentenceTiming{Text: text, Start: b.Start, End: b.End}
		longest = max(longest, subtitles.WordCount(text))
	}
	if maxWords == 0 {
		maxWords = longest
	}
	if groupSize == 0 {
		groupSize = 1
	}
	out, err := subtitles.BuildBlocks(subtitles.TimedSegmenter{Sentences: sentences, MaxWords: maxWords}, groupSize)
	if err != nil {
		if errors.Is(err, subtitles.ErrConfig) {
			return nil, services.Wrap(services.ErrValidation, "inspect", "regroup", "", err)
		}
		return nil, err
	}
	return out, nil
}
