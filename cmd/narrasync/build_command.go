package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"narrasync/internal/config"
	"narrasync/internal/pipeline"
	"narrasync/internal/services"
	"narrasync/internal/synthesis"
)

// buildOptions holds the flags shared by build and batch.
type buildOptions struct {
	outputDir string
	voice     string
	speed     float64
	maxWords  int
	groupSize int
	format    string
	noCache   bool
	jsonOut   bool
}

func (o *buildOptions) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&o.outputDir, "output-dir", "o", "", "Directory for audio and subtitle output (default paths.output_dir)")
	flags.StringVar(&o.voice, "voice", "", "Synthesis voice (default synthesis.voice)")
	flags.Float64Var(&o.speed, "speed", 0, "Speech speed multiplier, 1.0 is normal (default synthesis.speed)")
	flags.IntVar(&o.maxWords, "max-words", 0, "Maximum words per cue (default segmentation.max_words)")
	flags.IntVar(&o.groupSize, "group-size", 0, "Cues per subtitle block (default segmentation.group_size)")
	flags.StringVarP(&o.format, "format", "f", "", "Output format: srt, json, or yaml (default segmentation.output_format)")
	flags.BoolVar(&o.noCache, "no-cache", false, "Ignore and do not update the timing cache")
	flags.BoolVar(&o.jsonOut, "json", false, "Print the build summary as JSON")
}

func (o *buildOptions) request(sourcePath, text string) pipeline.Request {
	return pipeline.Request{
		SourcePath: sourcePath,
		Text:       text,
		OutputDir:  strings.TrimSpace(o.outputDir),
		Voice:      o.voice,
		Speed:      o.speed,
		MaxWords:   o.maxWords,
		GroupSize:  o.groupSize,
		Format:     o.format,
		NoCache:    o.noCache,
	}
}

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var opts buildOptions
	var eventsPath string
	var audioPath string

	cmd := &cobra.Command{
		Use:   "build <text-file>",
		Short: "Synthesize narration and write synchronized subtitles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			text, err := readNarration(args[0])
			if err != nil {
				return err
			}
			logger := ctx.loggerValue()

			var provider synthesis.Provider
			if strings.TrimSpace(eventsPath) != "" {
				provider = synthesis.NewReplay(eventsPath, audioPath, logger)
			} else {
				provider = newSynthesisProvider(cfg, logger)
			}

			cache, err := ctx.openCache()
			if err != nil {
				return err
			}
			if cache != nil {
				defer cache.Close()
			}

			runner := pipeline.NewRunner(cfg, provider, cache, logger)
			result, err := runner.Run(cmd.Context(), opts.request(args[0], text))
			if err != nil {
				return err
			}
			if opts.jsonOut {
				return writeJSON(cmd, result)
			}
			printBuildSummary(cmd.OutOrStdout(), result)
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&eventsPath, "events", "", "Replay a recorded JSON-lines event dump instead of calling the synthesis command")
	cmd.Flags().StringVar(&audioPath, "audio", "", "Audio file to copy into the output when replaying events")
	return cmd
}

func newSynthesisProvider(cfg *config.Config, logger *slog.Logger) synthesis.Provider {
	return synthesis.NewEdgeTTS(cfg.Synthesis.Command, cfg.SynthesisTimeout(), logger)
}

func readNarration(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", services.Wrap(services.ErrNotFound, "input", "read", path, err)
		}
		return "", services.Wrap(services.ErrValidation, "input", "read", path, err)
	}
	return string(data), nil
}

func printBuildSummary(out io.Writer, result pipeline.Result) {
	mode := "timed"
	if !result.Timed {
		mode = "fallback"
	}
	fmt.Fprintf(out, "Subtitles: %s\n", result.SubtitlePath)
	if result.AudioPath != "" {
		fmt.Fprintf(out, "Audio:     %s\n", result.AudioPath)
	}
	fmt.Fprintf(out, "Blocks:    %d (%s, %d cues)\n", len(result.Blocks), mode, result.Cues)
	fmt.Fprintf(out, "Cache hit: %s\n", yesNo(result.CacheHit))
	fmt.Fprintf(out, "Run:       %s\n", result.RunID)
}
