package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"narrasync/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("NARRASYNC_VOICE", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	wantResolved := filepath.Join(tempHome, ".config", "narrasync", "config.toml")
	if resolved != wantResolved {
		t.Fatalf("resolved path got %q, want %q", resolved, wantResolved)
	}
	if want := filepath.Join(tempHome, "narrasync"); cfg.Paths.OutputDir != want {
		t.Fatalf("output dir got %q, want %q", cfg.Paths.OutputDir, want)
	}
	if want := filepath.Join(tempHome, ".cache", "narrasync"); cfg.Paths.CacheDir != want {
		t.Fatalf("cache dir got %q, want %q", cfg.Paths.CacheDir, want)
	}
	if cfg.CachePath() != filepath.Join(cfg.Paths.CacheDir, "timings.db") {
		t.Fatalf("unexpected cache path %q", cfg.CachePath())
	}
	if cfg.Segmentation.MaxWords != 15 || cfg.Segmentation.GroupSize != 2 {
		t.Fatalf("unexpected segmentation defaults: %+v", cfg.Segmentation)
	}
	if cfg.Segmentation.OutputFormat != "srt" {
		t.Fatalf("output format got %q, want srt", cfg.Segmentation.OutputFormat)
	}
	if cfg.Synthesis.Command != "edge-tts" {
		t.Fatalf("synthesis command got %q, want edge-tts", cfg.Synthesis.Command)
	}
	if cfg.SynthesisTimeout() != 600*time.Second {
		t.Fatalf("timeout got %v", cfg.SynthesisTimeout())
	}
	if cfg.CacheMaxAge() != 30*24*time.Hour {
		t.Fatalf("cache max age got %v", cfg.CacheMaxAge())
	}
}

func TestLoadCustomConfigOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("NARRASYNC_VOICE", "")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `
[paths]
output_dir = "~/out"

[synthesis]
voice = "en-US-AriaNeural"
speed = 1.25

[segmentation]
max_words = 8
group_size = 3
output_format = "YML"

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected existing config at %q, got %q exists=%v", configPath, resolved, exists)
	}
	if cfg.Paths.OutputDir != filepath.Join(tempHome, "out") {
		t.Fatalf("output dir got %q", cfg.Paths.OutputDir)
	}
	if cfg.Synthesis.Voice != "en-US-AriaNeural" || cfg.Synthesis.Speed != 1.25 {
		t.Fatalf("unexpected synthesis section: %+v", cfg.Synthesis)
	}
	if cfg.Segmentation.MaxWords != 8 || cfg.Segmentation.GroupSize != 3 {
		t.Fatalf("unexpected segmentation: %+v", cfg.Segmentation)
	}
	if cfg.Segmentation.OutputFormat != "yaml" {
		t.Fatalf("output format got %q, want yaml", cfg.Segmentation.OutputFormat)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging section: %+v", cfg.Logging)
	}
}

func TestLoadVoiceFromEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("NARRASYNC_VOICE", " en-GB-RyanNeural ")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Synthesis.Voice != "en-GB-RyanNeural" {
		t.Fatalf("voice got %q, want en-GB-RyanNeural", cfg.Synthesis.Voice)
	}
}

func TestLoadRejectsInvalidSegmentation(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cases := map[string]string{
		"max_words":     "[segmentation]\nmax_words = 0\n",
		"group_size":    "[segmentation]\ngroup_size = -1\n",
		"output_format": "[segmentation]\noutput_format = \"vtt\"\n",
		"speed":         "[synthesis]\nspeed = 4.0\n",
	}
	for field, content := range cases {
		t.Run(field, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatalf("expected validation error for %s", field)
			}
			if !strings.Contains(err.Error(), field) {
				t.Fatalf("error %q does not mention %s", err, field)
			}
		})
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[segmentation\nmax_words = 3"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestCreateSampleProducesLoadableConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("NARRASYNC_VOICE", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var parsed config.Config
	if err := toml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("sample is not valid TOML: %v", err)
	}
	if parsed.Segmentation != config.Default().Segmentation {
		t.Fatalf("sample segmentation got %+v, want %+v", parsed.Segmentation, config.Default().Segmentation)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists || cfg.Synthesis.Voice != "ru-RU-DmitryNeural" {
		t.Fatalf("unexpected sample load: exists=%v voice=%q", exists, cfg.Synthesis.Voice)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(base, "out")
	cfg.Paths.CacheDir = filepath.Join(base, "cache")
	cfg.Paths.LogDir = ""

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.OutputDir, cfg.Paths.CacheDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}

func TestExpandPathTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := config.ExpandPath("~/a/b")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "a", "b") {
		t.Fatalf("ExpandPath got %q", got)
	}
}
