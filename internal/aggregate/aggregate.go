// Package aggregate applies the extractor to every eligible file directly
// inside a source directory and assembles the ordered corpus. Per-file
// failures are collected alongside the partial corpus instead of aborting
// the batch; the caller decides whether partial results are acceptable.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/gocorpus/internal/extract"
)

// ErrNoInputFiles is returned when the directory holds zero eligible files,
// so an empty directory is distinguishable from a directory of empty files.
var ErrNoInputFiles = errors.New("no input files")

// ErrDecodeFailure marks a file whose bytes are not valid UTF-8 text.
var ErrDecodeFailure = errors.New("not valid UTF-8 text")

// Corpus is the ordered unit collection for one run: files in lexicographic
// name order, units in within-file extraction order.
type Corpus []extract.Unit

// FileFailure records one file that could not be processed.
type FileFailure struct {
	Name string
	Err  error
}

func (f FileFailure) Error() string {
	return fmt.Sprintf("%s: %v", f.Name, f.Err)
}

// Result carries the partial corpus together with the per-file failures
// accumulated while building it.
type Result struct {
	Corpus   Corpus
	Failures []FileFailure
}

// Aggregate extracts units from every .txt, .html and .htm file directly in
// dir (no recursion), in lexicographic file-name order, tagging each unit
// with its file name. The context is checked between files only; a single
// file is always processed to completion once started.
func Aggregate(ctx context.Context, dir string, opts extract.Options) (Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Result{}, fmt.Errorf("read directory %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !eligible(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	if len(names) == 0 {
		return Result{}, fmt.Errorf("%w in %s", ErrNoInputFiles, dir)
	}

	var res Result
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		units, err := extractFile(filepath.Join(dir, name), opts)
		if err != nil {
			log.Warn().Err(err).Str("file", name).Msg("skipping file")
			res.Failures = append(res.Failures, FileFailure{Name: name, Err: err})
			continue
		}
		for _, u := range units {
			u.Source = name
			res.Corpus = append(res.Corpus, u)
		}
		log.Debug().Str("file", name).Int("units", len(units)).Msg("file extracted")
	}
	return res, nil
}

// extractFile reads and extracts a single file. The handle is closed before
// the next file starts regardless of outcome.
func extractFile(path string, opts extract.Options) ([]extract.Unit, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var content string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		content = extract.TextFromHTML(raw)
	default:
		if !utf8.Valid(raw) {
			return nil, ErrDecodeFailure
		}
		content = string(raw)
	}
	return extract.Extract(content, opts)
}

func eligible(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".html", ".htm":
		return true
	}
	return false
}
