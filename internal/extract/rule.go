package extract

import (
	"fmt"
	"strings"
	"unicode"
)

// Mode selects the boundary rule set for one extraction run. Exactly one
// mode is active per run; callers pick it once and the scanner is
// parameterized over it.
type Mode int

const (
	// SentenceMode starts a unit at an uppercase letter found at the start
	// of a line or after a terminal period, and ends it at a period followed
	// by an uppercase letter or a line break.
	SentenceMode Mode = iota
	// ParagraphMode starts a unit at a line opening with indentation
	// followed by an uppercase letter, and ends it at a period immediately
	// before a line break.
	ParagraphMode
)

func (m Mode) String() string {
	switch m {
	case SentenceMode:
		return "sentence"
	case ParagraphMode:
		return "paragraph"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode maps the CLI/config spelling of a mode to its value.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sentence", "sentences":
		return SentenceMode, nil
	case "paragraph", "paragraphs":
		return ParagraphMode, nil
	}
	return SentenceMode, fmt.Errorf("unknown extraction mode %q", s)
}

// The boundary classifier is a set of predicates over a read-only rune
// buffer and an integer cursor. Only local context is consulted: the rune at
// the cursor, the nearest non-whitespace neighbours, and line position. The
// leftward context a start decision needs is carried incrementally by
// scanState so one pass over the buffer never re-walks it.

// scanState tracks the two facts about everything left of the cursor that
// the start predicate consults: whether the current line is still blank up
// to the cursor, and the last non-whitespace rune seen. The scanner advances
// it exactly once per rune.
type scanState struct {
	leadingBlank bool
	prev         rune
	prevOK       bool
}

// newScanState starts at the beginning of a stream, which counts as a line
// start so a document whose prefix was cut away by a starting phrase still
// opens a unit.
func newScanState() scanState {
	return scanState{leadingBlank: true}
}

func (s *scanState) advance(r rune) {
	if r == '\n' {
		s.leadingBlank = true
		return
	}
	if unicode.IsSpace(r) {
		return
	}
	s.leadingBlank = false
	s.prev, s.prevOK = r, true
}

func (s *scanState) unitStart(buf []rune, i int, mode Mode) bool {
	if mode == ParagraphMode {
		return isParagraphStart(buf, i)
	}
	if !unicode.IsUpper(buf[i]) {
		return false
	}
	if s.leadingBlank {
		return true
	}
	return s.prevOK && s.prev == '.'
}

func isUnitEnd(buf []rune, i int, mode Mode) bool {
	if buf[i] != '.' {
		return false
	}
	if restOfLineBlank(buf, i) {
		return true
	}
	if mode == ParagraphMode {
		return false
	}
	next, ok := nextNonSpace(buf, i)
	return ok && unicode.IsUpper(next)
}

// isParagraphStart reports whether the cursor sits at the beginning of a line
// that opens with one or more spaces or tabs followed by an uppercase letter.
func isParagraphStart(buf []rune, i int) bool {
	if !atLineStart(buf, i) {
		return false
	}
	j := i
	for j < len(buf) && (buf[j] == ' ' || buf[j] == '\t') {
		j++
	}
	if j == i {
		return false
	}
	return j < len(buf) && unicode.IsUpper(buf[j])
}

func atLineStart(buf []rune, i int) bool {
	return i == 0 || buf[i-1] == '\n'
}

// nextNonSpace returns the nearest non-whitespace rune strictly after i.
func nextNonSpace(buf []rune, i int) (rune, bool) {
	for j := i + 1; j < len(buf); j++ {
		if !unicode.IsSpace(buf[j]) {
			return buf[j], true
		}
	}
	return 0, false
}

// restOfLineBlank reports whether only spaces or tabs remain between i and
// the next line break or the end of the stream. A period in that position
// counts as immediately followed by a line break.
func restOfLineBlank(buf []rune, i int) bool {
	for j := i + 1; j < len(buf); j++ {
		switch buf[j] {
		case ' ', '\t', '\r':
			continue
		case '\n':
			return true
		default:
			return false
		}
	}
	return true
}

// boundaryWord returns the maximal run of non-whitespace runes immediately
// preceding position i (the rune at i excluded), together with whether that
// run begins its line.
func boundaryWord(buf []rune, i int) (word string, startsLine bool) {
	j := i
	for j > 0 && !unicode.IsSpace(buf[j-1]) {
		j--
	}
	k := j
	for k > 0 && (buf[k-1] == ' ' || buf[k-1] == '\t') {
		k--
	}
	return string(buf[j:i]), atLineStart(buf, k)
}
