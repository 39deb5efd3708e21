package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"narrasync/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Write or check the narrasync configuration",
	}
	cmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(ctx))
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a sample configuration with synthesis and segmentation defaults",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := configTarget(targetPath)
			if err != nil {
				return err
			}
			if _, err := os.Stat(target); err == nil && !overwrite {
				return fmt.Errorf("%s already exists; pass --overwrite to replace it", target)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("inspect %s: %w", target, err)
			}
			if err := config.CreateSample(target); err != nil {
				return err
			}

			cfg, _, _, err := config.Load(target)
			if err != nil {
				return fmt.Errorf("reload sample config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintf(out, "Subtitles go to %s, timings are cached in %s\n", cfg.Paths.OutputDir, cfg.CachePath())
			if cfg.Synthesis.Voice == "" {
				fmt.Fprintln(out, "No voice set yet: fill in synthesis.voice or export NARRASYNC_VOICE")
			}
			fmt.Fprintln(out, "Next: narrasync doctor, then narrasync build <file.txt>")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Where to write the configuration (default: user config dir)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing configuration file")
	return cmd
}

func configTarget(flagValue string) (string, error) {
	if target := strings.TrimSpace(flagValue); target != "" {
		expanded, err := config.ExpandPath(target)
		if err != nil {
			return "", fmt.Errorf("resolve --path: %w", err)
		}
		return expanded, nil
	}
	target, err := config.DefaultConfigPath()
	if err != nil {
		return "", fmt.Errorf("locate user config dir: %w", err)
	}
	return target, nil
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Load the configuration and print the effective build settings",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(ctx.configPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("prepare directories: %w", err)
			}
			out := cmd.OutOrStdout()
			source := path
			if !exists {
				source = path + " (missing, built-in defaults)"
			}
			fmt.Fprintf(out, "Loaded %s\n", source)
			printSettings(out, cfg)
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func printSettings(out io.Writer, cfg *config.Config) {
	voice := cfg.Synthesis.Voice
	if voice == "" {
		voice = "(unset)"
	}
	cache := "disabled"
	if cfg.Cache.Enabled {
		cache = cfg.CachePath()
		if cfg.Cache.MaxAgeDays > 0 {
			cache += fmt.Sprintf(" (prune after %dd)", cfg.Cache.MaxAgeDays)
		}
	}
	rows := [][]string{
		{"synthesis.command", cfg.Synthesis.Command},
		{"synthesis.voice", voice},
		{"synthesis.speed", strconv.FormatFloat(cfg.Synthesis.Speed, 'g', -1, 64)},
		{"synthesis.timeout", cfg.SynthesisTimeout().String()},
		{"segmentation.max_words", strconv.Itoa(cfg.Segmentation.MaxWords)},
		{"segmentation.group_size", strconv.Itoa(cfg.Segmentation.GroupSize)},
		{"segmentation.output_format", cfg.Segmentation.OutputFormat},
		{"paths.output_dir", cfg.Paths.OutputDir},
		{"cache", cache},
	}
	fmt.Fprintln(out, renderTable([]string{"Setting", "Value"}, rows, []columnAlignment{alignLeft, alignLeft}))
}
