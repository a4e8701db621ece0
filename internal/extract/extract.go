// Package extract turns raw plain text into clean sentence or paragraph
// units. Boundary detection is rule based: a stateless classifier answers
// start/end questions over a read-only rune buffer while the scanning loop
// threads the cursor, and a filter vetoes boundaries after abbreviations and
// drops structural noise such as page numbers.
package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/unicode/norm"
)

// ErrPhraseNotFound is returned when a configured starting phrase never
// occurs in the document, so that callers can tell "nothing after the
// marker" apart from "document had no sentences".
var ErrPhraseNotFound = errors.New("starting phrase not found")

// Unit is one extracted sentence or paragraph. Text is trimmed with internal
// whitespace collapsed; Source names the originating file and is filled in
// by the aggregator.
type Unit struct {
	Text   string
	Source string
}

// Options parameterize a single extraction run. The zero value extracts
// sentences over the whole stream with the default filter.
type Options struct {
	Mode Mode
	// StartPhrase, when non-empty, discards everything up to and including
	// its first literal occurrence. Matching is case-sensitive and exact.
	StartPhrase string
	// Filter overrides the default abbreviation and noise tables.
	Filter *Filter
}

// Extract scans content and returns its units in order of appearance. The
// input is never mutated; re-running on the same content yields the same
// units. A stream that ends mid-unit still emits the trimmed partial unit,
// on the policy that partial content beats silent loss.
func Extract(content string, opts Options) ([]Unit, error) {
	f := opts.Filter
	if f == nil {
		f = DefaultFilter()
	}
	if opts.StartPhrase != "" {
		idx := strings.Index(content, opts.StartPhrase)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %q", ErrPhraseNotFound, opts.StartPhrase)
		}
		content = content[idx+len(opts.StartPhrase):]
	}

	buf := []rune(content)
	var units []Unit
	state := newScanState()
	i := 0
	for i < len(buf) {
		if !state.unitStart(buf, i, opts.Mode) {
			state.advance(buf[i])
			i++
			continue
		}
		start := i
		end := -1
		for j := i; j < len(buf); j++ {
			if opts.Mode == ParagraphMode && j > start && isParagraphStart(buf, j) {
				// A new indented paragraph opens before a closing period;
				// the open unit ends just in front of it.
				end = j - 1
				break
			}
			if !isUnitEnd(buf, j, opts.Mode) {
				continue
			}
			word, startsLine := boundaryWord(buf, j)
			next, _ := nextNonSpace(buf, j)
			if f.SuppressEnd(word, startsLine, next) {
				continue
			}
			end = j
			break
		}
		var text string
		if end < 0 {
			text = normalizeUnit(string(buf[start:]))
			if text != "" {
				log.Debug().Str("tail", text).Msg("stream ended mid-unit; keeping partial")
			}
			i = len(buf)
		} else {
			text = normalizeUnit(string(buf[start : end+1]))
			i = end + 1
		}
		for k := start; k < i; k++ {
			state.advance(buf[k])
		}
		if text == "" || f.Discard(text) {
			continue
		}
		units = append(units, Unit{Text: text})
	}
	return units, nil
}

// normalizeUnit trims the unit, collapses internal whitespace runs to single
// spaces, and applies NFC so that composed and decomposed accents compare
// equal downstream.
func normalizeUnit(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range strings.TrimSpace(s) {
		switch r {
		case ' ', '\t', '\n', '\r':
			space = true
		default:
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		}
	}
	return norm.NFC.String(b.String())
}
