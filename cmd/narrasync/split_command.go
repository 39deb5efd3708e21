package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"narrasync/internal/services"
	"narrasync/internal/subtitles"
	"narrasync/internal/textutil"
)

func newSplitCommand(ctx *commandContext) *cobra.Command {
	var maxWords int
	var groupSize int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "split <text-file>",
		Short: "Split text into subtitle blocks by punctuation, without synthesis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			raw, err := readNarration(args[0])
			if err != nil {
				return err
			}
			if maxWords == 0 {
				maxWords = cfg.Segmentation.MaxWords
			}
			if groupSize == 0 {
				groupSize = cfg.Segmentation.GroupSize
			}

			seg := subtitles.FallbackSegmenter{Text: textutil.NormalizeNarration(raw), MaxWords: maxWords}
			blocks, err := subtitles.BuildBlocks(seg, groupSize)
			if err != nil {
				return services.Wrap(services.ErrConfiguration, "split", "", "", err)
			}

			if jsonOut {
				lines := make([]string, len(blocks))
				for i, b := range blocks {
					lines[i] = b.Text
				}
				return writeJSON(cmd, lines)
			}
			out := cmd.OutOrStdout()
			for i, b := range blocks {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintln(out, strings.TrimRight(b.Text, "\n"))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxWords, "max-words", 0, "Maximum words per line before comma splitting (default segmentation.max_words)")
	cmd.Flags().IntVar(&groupSize, "group-size", 0, "Lines per block (default segmentation.group_size)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print blocks as a JSON array")
	return cmd
}
