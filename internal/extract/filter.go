package extract

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Filter suppresses period boundaries that follow abbreviations and discards
// completed units that are structural noise rather than prose. It never
// errors: when uncertain it defaults to keeping the boundary and the unit.
type Filter struct {
	abbrev map[string]struct{}
	noise  []*regexp.Regexp
}

// defaultAbbreviations covers conventional English and French tokens that end
// with a period without closing a sentence. Lookup is case-insensitive and
// keys omit the terminal period ("e.g" keeps its internal one). The bare
// single letters "p" and "t" (page, tome) only suppress a boundary when the
// following token is a page or volume number; see SuppressEnd.
var defaultAbbreviations = []string{
	"mr", "mrs", "ms", "dr", "prof", "st", "jr", "sr", "rev", "hon",
	"etc", "e.g", "i.e", "cf", "vs", "ca", "al", "et al",
	"vol", "no", "ch", "chap", "fig", "art", "ed", "eds", "trans",
	"p", "pp", "op", "cit", "ibid", "id", "sq", "sqq",
	"mm", "mme", "mlle", "dir", "trad", "éd", "coll", "t",
}

// defaultNoise drops units that are a bare page number or a bracketed
// reference marker once trimmed.
var defaultNoise = []string{
	`^\d+\.?$`,
	`^\[\d+\]\.?$`,
}

// NewFilter builds a filter from an abbreviation list and noise patterns.
// Empty slices fall back to the built-in defaults, so callers can extend one
// axis without losing the other.
func NewFilter(abbreviations []string, noisePatterns []string) (*Filter, error) {
	if len(abbreviations) == 0 {
		abbreviations = defaultAbbreviations
	}
	if len(noisePatterns) == 0 {
		noisePatterns = defaultNoise
	}
	f := &Filter{abbrev: make(map[string]struct{}, len(abbreviations))}
	for _, a := range abbreviations {
		a = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(a), "."))
		if a == "" {
			continue
		}
		f.abbrev[a] = struct{}{}
	}
	for _, p := range noisePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("noise pattern %q: %w", p, err)
		}
		f.noise = append(f.noise, re)
	}
	return f, nil
}

// DefaultFilter returns a filter seeded with the built-in abbreviation and
// noise tables.
func DefaultFilter() *Filter {
	f, err := NewFilter(nil, nil)
	if err != nil {
		panic(err) // built-in patterns always compile
	}
	return f
}

// SuppressEnd decides whether a period boundary should be ignored because the
// word in front of it is an abbreviation, a single initial, or an enumeration
// marker. word is the token preceding the period, period excluded;
// atLineStart reports whether that token opens its line; next is the first
// non-whitespace rune after the period, or zero at the end of the stream.
func (f *Filter) SuppressEnd(word string, atLineStart bool, next rune) bool {
	word = strings.TrimFunc(word, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.'
	})
	if word == "" {
		return false
	}
	runes := []rune(word)
	if len(runes) == 1 && unicode.IsUpper(runes[0]) {
		return true // single initial, "J. Smith"
	}
	if atLineStart && isAllDigits(word) {
		return true // numbered list item, "3. Method"
	}
	if _, ok := f.abbrev[strings.ToLower(word)]; !ok {
		return false
	}
	// A single lowercase letter like "p." or "t." is an abbreviation only in
	// front of a page or volume reference ("p. 12", "t. II"); a sentence that
	// genuinely ends in such a word still terminates.
	if len(runes) == 1 && unicode.IsLower(runes[0]) {
		return unicode.IsDigit(next) || isRomanNumeral(next)
	}
	return true
}

// isRomanNumeral reports whether r can open an uppercase Roman numeral, the
// conventional volume notation in French citations ("t. II").
func isRomanNumeral(r rune) bool {
	switch r {
	case 'I', 'V', 'X', 'L', 'C', 'D', 'M':
		return true
	}
	return false
}

// Discard reports whether a completed, trimmed unit should be dropped
// entirely instead of emitted.
func (f *Filter) Discard(text string) bool {
	for _, re := range f.noise {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
