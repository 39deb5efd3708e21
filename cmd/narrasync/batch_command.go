package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"narrasync/internal/pipeline"
	"narrasync/internal/services"
	"narrasync/internal/synthesis"
)

const replayDumpExt = ".jsonl"

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var opts buildOptions
	var jobs int
	var replay bool

	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Build every .txt file in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if jobs < 1 {
				return services.Wrap(services.ErrValidation, "batch", "jobs", fmt.Sprintf("must be at least 1, got %d", jobs), nil)
			}
			sources, err := listNarrationFiles(args[0])
			if err != nil {
				return err
			}
			if len(sources) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No .txt files in %s\n", args[0])
				return nil
			}

			logger := ctx.loggerValue()
			cache, err := ctx.openCache()
			if err != nil {
				return err
			}
			if cache != nil {
				defer cache.Close()
			}

			results := make([]pipeline.Result, len(sources))
			g, gctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(jobs)
			for i, source := range sources {
				g.Go(func() error {
					text, err := readNarration(source)
					if err != nil {
						return err
					}
					var provider synthesis.Provider
					if replay {
						dump := strings.TrimSuffix(source, filepath.Ext(source)) + replayDumpExt
						provider = synthesis.NewReplay(dump, "", logger)
					} else {
						provider = newSynthesisProvider(cfg, logger)
					}
					runner := pipeline.NewRunner(cfg, provider, cache, logger)
					result, err := runner.Run(gctx, opts.request(source, text))
					if err != nil {
						return fmt.Errorf("%s: %w", filepath.Base(source), err)
					}
					results[i] = result
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			if opts.jsonOut {
				return writeJSON(cmd, results)
			}
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{
					filepath.Base(r.Source),
					strconv.Itoa(len(r.Blocks)),
					yesNo(r.Timed),
					yesNo(r.CacheHit),
					r.SubtitlePath,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Source", "Blocks", "Timed", "Cached", "Subtitles"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 2, "Number of files to build concurrently")
	cmd.Flags().BoolVar(&replay, "replay", false, "Replay <name>.jsonl event dumps next to each text file")
	return cmd
}

func listNarrationFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, services.Wrap(services.ErrNotFound, "batch", "read dir", dir, err)
		}
		return nil, services.Wrap(services.ErrValidation, "batch", "read dir", dir, err)
	}
	var sources []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
			continue
		}
		sources = append(sources, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(sources)
	return sources, nil
}
