package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/gocorpus/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfg        app.Config
		configPath string
	)

	root := &cobra.Command{
		Use:           "gocorpus",
		Short:         "Extract, vectorize, search, and compare plain-text corpora",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", app.BuildVersion, app.BuildCommit, app.BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env is a convenience for local runs; missing files are fine.
			_ = godotenv.Load()
			app.ApplyEnvToConfig(&cfg)
			if configPath != "" {
				fc, err := app.LoadConfigFile(configPath)
				if err != nil {
					return fmt.Errorf("load config %s: %w", configPath, err)
				}
				app.ApplyFileConfig(&cfg, fc)
			}
			if cfg.Verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to YAML or JSON config file")
	pf.BoolVarP(&cfg.Verbose, "debug", "v", false, "Verbose logging")
	pf.StringVar(&cfg.LLMBaseURL, "llm.base", "", "OpenAI-compatible base URL for embeddings")
	pf.StringVar(&cfg.LLMModel, "llm.model", "", "Embedding model name")
	pf.StringVar(&cfg.LLMAPIKey, "llm.key", "", "API key for the embeddings endpoint")
	pf.IntVar(&cfg.EmbedDim, "llm.dim", 0, "Expected vector dimension (0 = accept what the model returns)")
	pf.IntVar(&cfg.EmbedBatch, "llm.batch", 0, "Texts per embeddings request")
	pf.StringVar(&cfg.CacheDir, "cache.dir", "", "Embedding cache directory (empty disables caching)")
	pf.DurationVar(&cfg.CacheMaxAge, "cache.maxAge", 0, "Max age for cache entries before purge; 0 disables")
	pf.BoolVar(&cfg.CacheClear, "cache.clear", false, "Clear the cache directory before the run")

	root.AddCommand(newExtractCmd(&cfg))
	root.AddCommand(newProcessCmd(&cfg))
	root.AddCommand(newSearchCmd(&cfg))
	root.AddCommand(newCompareCmd(&cfg))
	return root
}

func addExtractFlags(cmd *cobra.Command, cfg *app.Config) {
	cmd.Flags().StringVarP(&cfg.InputDir, "input", "i", "", "Directory of source text files")
	// Default left empty so env and file config can still set the mode;
	// an unset mode resolves to sentence extraction.
	cmd.Flags().StringVar(&cfg.Mode, "mode", "", "Extraction mode: sentence or paragraph (default sentence)")
	cmd.Flags().StringVar(&cfg.StartPhrase, "start", "", "Discard content before this literal phrase")
	cmd.Flags().StringSliceVar(&cfg.Abbreviations, "abbrev", nil, "Extra abbreviation tokens (repeatable)")
	cmd.Flags().StringSliceVar(&cfg.NoisePatterns, "noise", nil, "Extra noise patterns discarding whole units (repeatable)")
	_ = cmd.MarkFlagRequired("input")
}

func newExtractCmd(cfg *app.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract sentence or paragraph units from a directory of text files",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(*cfg)
			if err != nil {
				return err
			}
			return a.ExtractRun(cmd.Context())
		},
	}
	addExtractFlags(cmd, cfg)
	cmd.Flags().StringVarP(&cfg.OutputPath, "output", "o", "", "Write units to this .csv or .db path")
	return cmd
}

func newProcessCmd(cfg *app.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Extract, vectorize, and persist a corpus in one run",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(*cfg)
			if err != nil {
				return err
			}
			return a.ProcessRun(cmd.Context())
		},
	}
	addExtractFlags(cmd, cfg)
	cmd.Flags().StringVarP(&cfg.OutputPath, "output", "o", "", "Write vectorized units to this .csv or .db path")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newSearchCmd(cfg *app.Config) *cobra.Command {
	var (
		phrase    string
		storePath string
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Semantic search of a phrase against a vectorized corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(*cfg)
			if err != nil {
				return err
			}
			return a.SearchRun(cmd.Context(), phrase, storePath, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&phrase, "phrase", "p", "", "Search phrase")
	cmd.Flags().StringVarP(&storePath, "file", "f", "", "Vectorized corpus store (.csv or .db)")
	cmd.Flags().IntVar(&cfg.TopK, "top", 0, "Number of results (default 3)")
	cmd.Flags().StringVar(&cfg.ReportPath, "report", "", "Also write results as a Markdown report")
	cmd.Flags().StringVar(&cfg.ReportPDFPath, "report.pdf", "", "Also write results as a PDF report")
	_ = cmd.MarkFlagRequired("phrase")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newCompareCmd(cfg *app.Config) *cobra.Command {
	var srcPath, dstPath string
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Cross-corpus similarity between two vectorized corpora",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(*cfg)
			if err != nil {
				return err
			}
			return a.CompareRun(cmd.Context(), srcPath, dstPath, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&srcPath, "source", "s", "", "Source vectorized corpus store")
	cmd.Flags().StringVarP(&dstPath, "destination", "d", "", "Destination vectorized corpus store")
	cmd.Flags().IntVarP(&cfg.TopK, "top", "t", 0, "Total number of pairings (default 3)")
	cmd.Flags().IntVarP(&cfg.MinLength, "length", "l", 0, "Minimum unit length in characters (0 = no limit)")
	cmd.Flags().StringVar(&cfg.ReportPath, "report", "", "Also write results as a Markdown report")
	cmd.Flags().StringVar(&cfg.ReportPDFPath, "report.pdf", "", "Also write results as a PDF report")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("destination")
	return cmd
}
