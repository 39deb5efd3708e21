package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"narrasync/internal/config"
	"narrasync/internal/fileutil"
	"narrasync/internal/logging"
	"narrasync/internal/services"
	"narrasync/internal/subtitles"
	"narrasync/internal/synthesis"
	"narrasync/internal/timingcache"
)

const audioExtension = ".mp3"

// Runner executes builds against one provider and an optional timing cache.
type Runner struct {
	cfg      *config.Config
	provider synthesis.Provider
	cache    *timingcache.Store
	logger   *slog.Logger
	newRunID func() string
}

// NewRunner wires a runner. cache may be nil to disable caching.
func NewRunner(cfg *config.Config, provider synthesis.Provider, cache *timingcache.Store, logger *slog.Logger) *Runner {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	return &Runner{
		cfg:      cfg,
		provider: provider,
		cache:    cache,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
		newRunID: uuid.NewString,
	}
}

// Run executes one build.
func (r *Runner) Run(ctx context.Context, req Request) (Result, error) {
	runID := r.newRunID()
	ctx = services.WithRunID(ctx, runID)
	if req.SourcePath != "" {
		ctx = services.WithSource(ctx, req.SourcePath)
	}
	logger := logging.WithContext(ctx, r.logger)
	started := time.Now()

	spec, err := r.resolve(req)
	if err != nil {
		return Result{}, err
	}
	if r.provider == nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "synthesis", "provider", "no provider configured", nil)
	}

	if err := os.MkdirAll(spec.OutputDir, 0o755); err != nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "write", "output dir", "ensure directory", err)
	}
	// The lock file stays behind: unlinking it would let a waiting build
	// lock an orphaned inode while a new build locks a fresh one.
	lock := flock.New(filepath.Join(spec.OutputDir, "."+spec.Stem+".lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return Result{}, fmt.Errorf("acquire output lock: %w", err)
	}
	if !locked {
		return Result{}, services.Wrap(services.ErrTransient, "write", spec.Stem,
			"another build is writing this output", nil)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release output lock", logging.Error(err))
		}
	}()

	result := Result{
		RunID:     runID,
		Source:    req.SourcePath,
		Provider:  r.provider.Name(),
		Format:    spec.Format,
		AudioPath: filepath.Join(spec.OutputDir, spec.Stem+audioExtension),
	}
	logger.Info("build started",
		logging.String("stem", spec.Stem),
		logging.String("voice", spec.Voice),
		logging.Float64("speed", spec.Speed),
		logging.Int("words", subtitles.WordCount(spec.text)),
	)

	segmenter, err := r.obtainTimings(ctx, logger, spec, &result)
	if err != nil {
		logging.ErrorWithContext(logger, "synthesis failed", "synthesis_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run narrasync doctor to check the synthesis command"),
		)
		return Result{}, err
	}

	blocks, err := r.segment(ctx, segmenter, spec, &result)
	if err != nil {
		return Result{}, err
	}
	result.Blocks = blocks

	result.SubtitlePath = filepath.Join(spec.OutputDir, spec.Stem+Extension(spec.Format))
	doc := Document{
		RunID:     runID,
		Source:    req.SourcePath,
		Voice:     spec.Voice,
		Speed:     spec.Speed,
		Timed:     result.Timed,
		AudioPath: result.AudioPath,
		Blocks:    blocks,
	}
	if err := fileutil.WriteAtomic(result.SubtitlePath, 0o644, func(w io.Writer) error {
		return WriteDocument(w, spec.Format, doc)
	}); err != nil {
		return Result{}, services.Wrap(services.ErrTransient, "write", spec.Format, "write subtitles", err)
	}

	logger.Info("build completed",
		logging.String("subtitles", result.SubtitlePath),
		logging.String("provider", result.Provider),
		logging.Bool("timed", result.Timed),
		logging.Bool("cache_hit", result.CacheHit),
		logging.Int("sentences", result.Sentences),
		logging.Int("cues", result.Cues),
		logging.Int("blocks", len(blocks)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return result, nil
}

// obtainTimings serves sentence timings from the cache when possible and
// otherwise synthesizes. It returns the segmenter to use.
func (r *Runner) obtainTimings(ctx context.Context, logger *slog.Logger, spec resolved, result *Result) (subtitles.Segmenter, error) {
	key := timingcache.Key(spec.Voice, spec.Speed, spec.text)
	useCache := r.cache != nil && r.cfg.Cache.Enabled && !spec.NoCache

	if useCache {
		entry, ok, err := r.cache.Get(ctx, key)
		switch {
		case err != nil:
			logging.WarnWithContext(logger, "timing cache lookup failed", "cache_lookup_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "text will be synthesized again"),
			)
		case ok:
			if !fileutil.SameFile(entry.AudioPath, result.AudioPath) {
				if err := fileutil.CopyFileVerified(entry.AudioPath, result.AudioPath); err != nil {
					return nil, services.Wrap(services.ErrConfiguration, "cache", "audio", "copy cached audio", err)
				}
			}
			logger.Info("timing cache decision", logging.Args(logging.DecisionAttrs("timing_cache", "hit", "entry and matching audio present")...)...)
			result.CacheHit = true
			result.Sentences = len(entry.Sentences)
			result.AudioDuration = time.Duration(entry.AudioSeconds * float64(time.Second))
			return subtitles.TimedSegmenter{Sentences: entry.Sentences, MaxWords: spec.MaxWords}, nil
		default:
			reason := "no entry"
			if entry != nil {
				reason = "audio file missing or replaced"
			}
			logger.Info("timing cache decision", logging.Args(logging.DecisionAttrs("timing_cache", "miss", reason)...)...)
		}
	}

	synthCtx := services.WithStage(ctx, "synthesis")
	collector := subtitles.NewCollector(spec.text)
	synthResult, err := r.provider.Synthesize(synthCtx, synthesis.Request{
		Text:      spec.text,
		Voice:     spec.Voice,
		Speed:     spec.Speed,
		AudioPath: result.AudioPath,
		WorkDir:   filepath.Join(spec.OutputDir, "."+spec.Stem+".work"),
	}, collector.Feed)
	_ = os.RemoveAll(filepath.Join(spec.OutputDir, "."+spec.Stem+".work"))
	if err != nil {
		if errors.Is(err, subtitles.ErrFormat) && !errors.Is(err, services.ErrExternalTool) {
			return nil, services.Wrap(services.ErrValidation, "synthesis", r.provider.Name(), "decode timing event", err)
		}
		return nil, err
	}
	result.AudioPath = synthResult.AudioPath
	result.AudioDuration = synthResult.Duration
	sentences, words := collector.Counts()
	logger.Debug("timing events collected",
		logging.Int("sentence_events", sentences),
		logging.Int("word_events", words),
	)

	segmenter := subtitles.SelectSegmenter(collector, spec.text, spec.MaxWords)
	if ts, ok := segmenter.(subtitles.TimedSegmenter); ok {
		result.Sentences = len(ts.Sentences)
		if useCache && result.AudioPath != "" {
			r.store(ctx, logger, timingcache.Entry{
				Key:          key,
				Voice:        spec.Voice,
				Speed:        spec.Speed,
				RunID:        result.RunID,
				AudioPath:    result.AudioPath,
				AudioSeconds: result.AudioDuration.Seconds(),
				Sentences:    ts.Sentences,
			})
		}
	}
	return segmenter, nil
}

func (r *Runner) store(ctx context.Context, logger *slog.Logger, entry timingcache.Entry) {
	if err := r.cache.Put(ctx, entry); err != nil {
		logging.WarnWithContext(logger, "timing cache store failed", "cache_store_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "next build of this text will synthesize again"),
		)
	}
}

func (r *Runner) segment(ctx context.Context, seg subtitles.Segmenter, spec resolved, result *Result) ([]subtitles.Block, error) {
	logger := logging.WithContext(services.WithStage(ctx, "segment"), r.logger)
	if seg.Timed() {
		logger.Info("segmentation decision", logging.Args(logging.DecisionAttrs("segmentation", "timed", "sentence timings available")...)...)
	} else {
		logger.Info("segmentation decision", logging.Args(logging.DecisionAttrs("segmentation", "fallback", "no timing events received")...)...)
	}

	cues, err := seg.Segment()
	if err != nil {
		return nil, wrapSegmentError(err)
	}
	result.Cues = len(cues)
	result.Timed = seg.Timed()

	blocks, err := subtitles.BlocksFromCues(cues, result.Timed, spec.GroupSize)
	if err != nil {
		return nil, wrapSegmentError(err)
	}

	if !seg.Timed() {
		if result.AudioDuration > 0 {
			DistributeByWords(blocks, result.AudioDuration.Seconds())
		} else {
			logging.WarnWithContext(logger, "fallback blocks have no timing", "fallback_untimed",
				logging.String(logging.FieldErrorHint, "use a synthesis provider that reports boundaries or audio duration"),
				logging.String(logging.FieldImpact, "subtitle blocks carry zero-length intervals"),
			)
		}
	}
	return blocks, nil
}

func wrapSegmentError(err error) error {
	switch {
	case errors.Is(err, subtitles.ErrConfig):
		return services.Wrap(services.ErrConfiguration, "segment", "", "", err)
	case errors.Is(err, subtitles.ErrFormat):
		return services.Wrap(services.ErrValidation, "segment", "", "", err)
	default:
		return err
	}
}
