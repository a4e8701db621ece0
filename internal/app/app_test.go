package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// stubEmbedder maps a few known texts to fixed vectors so ranking in tests
// is fully deterministic without any backend.
type stubEmbedder struct {
	vectors map[string][]float64
}

func (s *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		if v, ok := s.vectors[t]; ok {
			out[i] = v
		} else {
			out[i] = []float64{0.1, 0.1}
		}
	}
	return out, nil
}

func (s *stubEmbedder) Dimension() int { return 2 }

func writeCorpusDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("The cat sat down. The dog barked loudly."), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return dir
}

func TestProcessAndSearchRun(t *testing.T) {
	dir := writeCorpusDir(t)
	out := filepath.Join(t.TempDir(), "corpus.csv")

	a, err := New(Config{InputDir: dir, OutputPath: out, Mode: "sentence", LLMModel: "stub"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	a.SetEmbedder(&stubEmbedder{vectors: map[string][]float64{
		"The cat sat down.":        {1, 0},
		"The dog barked loudly.":   {0, 1},
		"felines that like to sit": {0.9, 0.1},
	}})

	ctx := context.Background()
	if err := a.ProcessRun(ctx); err != nil {
		t.Fatalf("process: %v", err)
	}

	var buf bytes.Buffer
	if err := a.SearchRun(ctx, "felines that like to sit", out, &buf); err != nil {
		t.Fatalf("search: %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "RANK 1") {
		t.Fatalf("missing rank line in output:\n%s", output)
	}
	first := strings.Index(output, "The cat sat down.")
	second := strings.Index(output, "The dog barked loudly.")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("expected cat sentence ranked above dog sentence:\n%s", output)
	}
}

func TestExtractRunWritesUnvectorizedStore(t *testing.T) {
	dir := writeCorpusDir(t)
	out := filepath.Join(t.TempDir(), "corpus.csv")

	a, err := New(Config{InputDir: dir, OutputPath: out, Mode: "sentence"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := a.ExtractRun(context.Background()); err != nil {
		t.Fatalf("extract: %v", err)
	}
	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(raw), "The cat sat down.") {
		t.Fatalf("unit missing from store:\n%s", raw)
	}
}

func TestCompareRun(t *testing.T) {
	dir := writeCorpusDir(t)
	tmp := t.TempDir()
	src := filepath.Join(tmp, "src.csv")
	dst := filepath.Join(tmp, "dst.csv")
	report := filepath.Join(tmp, "report.md")

	vectors := map[string][]float64{
		"The cat sat down.":      {1, 0},
		"The dog barked loudly.": {0, 1},
	}
	for _, out := range []string{src, dst} {
		a, err := New(Config{InputDir: dir, OutputPath: out, Mode: "sentence", LLMModel: "stub"})
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		a.SetEmbedder(&stubEmbedder{vectors: vectors})
		if err := a.ProcessRun(context.Background()); err != nil {
			t.Fatalf("process %s: %v", out, err)
		}
	}

	a, err := New(Config{TopK: 1, ReportPath: report})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	var buf bytes.Buffer
	if err := a.CompareRun(context.Background(), src, dst, &buf); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if !strings.Contains(buf.String(), "score 1.0000") {
		t.Fatalf("expected a perfect self-pairing in output:\n%s", buf.String())
	}
	md, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !strings.Contains(string(md), "# Corpus comparison results") {
		t.Fatalf("unexpected report:\n%s", md)
	}
}

func TestSearchRunWithoutModelFails(t *testing.T) {
	a, err := New(Config{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	var buf bytes.Buffer
	if err := a.SearchRun(context.Background(), "anything", "missing.csv", &buf); err == nil {
		t.Fatal("expected error when no embedding model is configured")
	}
}
