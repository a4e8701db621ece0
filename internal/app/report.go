package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hyperifyio/gocorpus/internal/rank"
)

// displayLimit bounds how much unit text the console output shows per line.
const displayLimit = 150

func truncateText(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}

// writeSearchResults prints ranked matches in the console format.
func writeSearchResults(w io.Writer, phrase string, matches []rank.Match) error {
	if len(matches) == 0 {
		_, err := fmt.Fprintf(w, "No results for %q.\n", phrase)
		return err
	}
	if _, err := fmt.Fprintf(w, "Query: %q (%d results)\n\n", phrase, len(matches)); err != nil {
		return err
	}
	for _, m := range matches {
		if _, err := fmt.Fprintf(w, "RANK %d (score %.4f)  unit %d  %s\n  %s\n",
			m.Rank, m.Score, m.Record.ID, m.Record.Source, truncateText(m.Record.Text, displayLimit)); err != nil {
			return err
		}
	}
	return nil
}

// writeComparePairings prints cross-corpus pairings in the console format.
func writeComparePairings(w io.Writer, pairs []rank.Pairing) error {
	if len(pairs) == 0 {
		_, err := fmt.Fprintln(w, "No pairings found.")
		return err
	}
	for _, p := range pairs {
		if _, err := fmt.Fprintf(w, "RANK %d (score %.4f)\n  source unit %d  %s\n    %s\n  dest unit %d  %s\n    %s\n",
			p.Rank, p.Score,
			p.Source.ID, p.Source.Source, truncateText(p.Source.Text, displayLimit),
			p.Dest.ID, p.Dest.Source, truncateText(p.Dest.Text, displayLimit)); err != nil {
			return err
		}
	}
	return nil
}

// searchMarkdown renders search results as a small Markdown report.
func searchMarkdown(phrase, storePath string, matches []rank.Match) string {
	var b strings.Builder
	b.WriteString("# Semantic search results\n\n")
	fmt.Fprintf(&b, "Query: %q against %s\n\n", phrase, storePath)
	for _, m := range matches {
		fmt.Fprintf(&b, "## Rank %d - score %.4f\n\n", m.Rank, m.Score)
		fmt.Fprintf(&b, "%s\n\n", m.Record.Text)
		fmt.Fprintf(&b, "Unit %d from %s\n\n", m.Record.ID, m.Record.Source)
	}
	return b.String()
}

// compareMarkdown renders cross-corpus pairings as a Markdown report.
func compareMarkdown(srcPath, dstPath string, pairs []rank.Pairing) string {
	var b strings.Builder
	b.WriteString("# Corpus comparison results\n\n")
	fmt.Fprintf(&b, "Source: %s\n\nDestination: %s\n\n", srcPath, dstPath)
	for _, p := range pairs {
		fmt.Fprintf(&b, "## Rank %d - score %.4f\n\n", p.Rank, p.Score)
		fmt.Fprintf(&b, "Source unit %d (%s):\n\n%s\n\n", p.Source.ID, p.Source.Source, p.Source.Text)
		fmt.Fprintf(&b, "Destination unit %d (%s):\n\n%s\n\n", p.Dest.ID, p.Dest.Source, p.Dest.Text)
	}
	return b.String()
}

func writeMarkdownReport(markdown, outPath string) error {
	return os.WriteFile(outPath, []byte(markdown), 0o644)
}
