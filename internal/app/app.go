// Package app wires configuration, extraction, embedding, persistence, and
// ranking into the commands exposed by the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/gocorpus/internal/aggregate"
	"github.com/hyperifyio/gocorpus/internal/cache"
	"github.com/hyperifyio/gocorpus/internal/embed"
	"github.com/hyperifyio/gocorpus/internal/extract"
	"github.com/hyperifyio/gocorpus/internal/rank"
	"github.com/hyperifyio/gocorpus/internal/store"
)

const defaultTopK = 3

// App carries resolved configuration and the lazily built embedder.
type App struct {
	cfg      Config
	embedder embed.Embedder
}

// New prepares an App and applies cache maintenance. The embedding backend
// is not contacted here; commands that need it build it on first use so that
// pure extraction works without any model configured.
func New(cfg Config) (*App, error) {
	if cfg.CacheDir != "" {
		if cfg.CacheClear {
			if err := cache.ClearDir(cfg.CacheDir); err != nil {
				log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache clear failed")
			}
		}
		if cfg.CacheMaxAge > 0 {
			if n, err := cache.PurgeByAge(cfg.CacheDir, cfg.CacheMaxAge); err == nil && n > 0 {
				log.Debug().Int("removed", n).Msg("purged stale cache entries")
			}
		}
	}
	return &App{cfg: cfg}, nil
}

// options assembles the extraction options from configuration.
func (a *App) options() (extract.Options, error) {
	mode, err := extract.ParseMode(a.cfg.Mode)
	if err != nil {
		return extract.Options{}, err
	}
	filter, err := extract.NewFilter(a.cfg.Abbreviations, a.cfg.NoisePatterns)
	if err != nil {
		return extract.Options{}, err
	}
	return extract.Options{Mode: mode, StartPhrase: a.cfg.StartPhrase, Filter: filter}, nil
}

// Embedder returns the configured embedding backend, building it on first
// use. Overridable for tests.
func (a *App) Embedder() (embed.Embedder, error) {
	if a.embedder != nil {
		return a.embedder, nil
	}
	if a.cfg.LLMModel == "" {
		return nil, errors.New("embedding model not configured (set llm.model, LLM_MODEL, or -llm.model)")
	}
	e := embed.NewOpenAI(a.cfg.LLMBaseURL, a.cfg.LLMAPIKey, a.cfg.LLMModel, a.cfg.EmbedDim)
	e.BatchSize = a.cfg.EmbedBatch
	if a.cfg.CacheDir != "" {
		e.Cache = &cache.EmbedCache{Dir: a.cfg.CacheDir}
	}
	a.embedder = e
	return e, nil
}

// SetEmbedder replaces the embedding backend, e.g. with a stub in tests.
func (a *App) SetEmbedder(e embed.Embedder) { a.embedder = e }

// ExtractRun aggregates the input directory and, when an output path is
// configured, writes the units without vectors.
func (a *App) ExtractRun(ctx context.Context) error {
	recs, err := a.extractRecords(ctx)
	if err != nil {
		return err
	}
	if a.cfg.OutputPath == "" {
		return nil
	}
	if err := store.Write(ctx, a.cfg.OutputPath, recs); err != nil {
		return err
	}
	log.Info().Str("path", a.cfg.OutputPath).Int("units", len(recs)).Msg("corpus written")
	return nil
}

// ProcessRun runs the full pipeline: extraction, vectorization, persistence.
func (a *App) ProcessRun(ctx context.Context) error {
	if a.cfg.OutputPath == "" {
		return errors.New("process requires an output path")
	}
	recs, err := a.extractRecords(ctx)
	if err != nil {
		return err
	}
	embedder, err := a.Embedder()
	if err != nil {
		return err
	}
	texts := make([]string, len(recs))
	for i, r := range recs {
		texts[i] = r.Text
	}
	log.Info().Int("units", len(texts)).Str("model", a.cfg.LLMModel).Msg("vectorizing corpus")
	vecs, err := embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("vectorize corpus: %w", err)
	}
	for i := range recs {
		recs[i].Vector = vecs[i]
	}
	if err := store.Write(ctx, a.cfg.OutputPath, recs); err != nil {
		return err
	}
	log.Info().Str("path", a.cfg.OutputPath).Int("units", len(recs)).Int("dim", embedder.Dimension()).Msg("vectorized corpus written")
	return nil
}

func (a *App) extractRecords(ctx context.Context) ([]store.Record, error) {
	opts, err := a.options()
	if err != nil {
		return nil, err
	}
	res, err := aggregate.Aggregate(ctx, a.cfg.InputDir, opts)
	if err != nil {
		return nil, err
	}
	if len(res.Failures) > 0 {
		log.Warn().Int("failed", len(res.Failures)).Int("units", len(res.Corpus)).Msg("aggregation finished with per-file failures")
	} else {
		log.Info().Int("units", len(res.Corpus)).Msg("aggregation finished")
	}
	return store.FromCorpus(res.Corpus), nil
}

// SearchRun embeds the phrase, ranks it against a vectorized store, and
// writes the results to w plus any configured report files.
func (a *App) SearchRun(ctx context.Context, phrase, storePath string, w io.Writer) error {
	embedder, err := a.Embedder()
	if err != nil {
		return err
	}
	vecs, err := embedder.Embed(ctx, []string{phrase})
	if err != nil {
		return fmt.Errorf("embed query: %w", err)
	}
	recs, err := store.Read(ctx, storePath)
	if err != nil {
		return err
	}
	k := a.cfg.TopK
	if k <= 0 {
		k = defaultTopK
	}
	matches := rank.TopK(vecs[0], recs, k)
	if err := writeSearchResults(w, phrase, matches); err != nil {
		return err
	}
	return a.writeReports(searchMarkdown(phrase, storePath, matches))
}

// CompareRun ranks every pairing between two vectorized stores and writes
// the global top results to w plus any configured report files.
func (a *App) CompareRun(ctx context.Context, srcPath, dstPath string, w io.Writer) error {
	src, err := store.Read(ctx, srcPath)
	if err != nil {
		return err
	}
	dst, err := store.Read(ctx, dstPath)
	if err != nil {
		return err
	}
	k := a.cfg.TopK
	if k <= 0 {
		k = defaultTopK
	}
	pairs := rank.CompareCorpora(src, dst, k, a.cfg.MinLength)
	if err := writeComparePairings(w, pairs); err != nil {
		return err
	}
	return a.writeReports(compareMarkdown(srcPath, dstPath, pairs))
}

// writeReports persists the Markdown report and its PDF rendering when the
// corresponding paths are configured.
func (a *App) writeReports(markdown string) error {
	if a.cfg.ReportPath != "" {
		if err := writeMarkdownReport(markdown, a.cfg.ReportPath); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		log.Info().Str("path", a.cfg.ReportPath).Msg("report written")
	}
	if a.cfg.ReportPDFPath != "" {
		if err := writeSimplePDF(markdown, a.cfg.ReportPDFPath); err != nil {
			return fmt.Errorf("write pdf report: %w", err)
		}
		log.Info().Str("path", a.cfg.ReportPDFPath).Msg("pdf report written")
	}
	return nil
}
