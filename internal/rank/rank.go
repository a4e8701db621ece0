// Package rank scores precomputed vectors by cosine similarity and orders
// candidates for the search and compare commands. Ties keep original corpus
// order.
package rank

import (
	"math"
	"sort"
	"unicode/utf8"

	"github.com/hyperifyio/gocorpus/internal/store"
)

// Match pairs a stored unit with its similarity to a query vector.
type Match struct {
	Record store.Record
	Score  float64
	Rank   int
}

// Pairing is one cross-corpus result: a source unit, the destination unit it
// was scored against, and their similarity.
type Pairing struct {
	Source store.Record
	Dest   store.Record
	Score  float64
	Rank   int
}

// Cosine returns the cosine of the angle between a and b. A zero or empty
// vector scores 0 against everything.
func Cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// TopK returns the k records most similar to query, ordered by descending
// score. Records without a vector are skipped. Ranks are 1-based.
func TopK(query []float64, recs []store.Record, k int) []Match {
	matches := make([]Match, 0, len(recs))
	for _, r := range recs {
		if r.Vector == nil {
			continue
		}
		matches = append(matches, Match{Record: r, Score: Cosine(query, r.Vector)})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if k > 0 && k < len(matches) {
		matches = matches[:k]
	}
	for i := range matches {
		matches[i].Rank = i + 1
	}
	return matches
}

// CompareCorpora scores every source unit against every destination unit and
// returns the global top k pairings. minLength, when positive, excludes
// units shorter than that many characters from both sides before scoring.
func CompareCorpora(src, dst []store.Record, k, minLength int) []Pairing {
	src = filterRecords(src, minLength)
	dst = filterRecords(dst, minLength)

	pairs := make([]Pairing, 0, len(src)*len(dst))
	for _, s := range src {
		for _, d := range dst {
			pairs = append(pairs, Pairing{Source: s, Dest: d, Score: Cosine(s.Vector, d.Vector)})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Score > pairs[j].Score
	})
	if k > 0 && k < len(pairs) {
		pairs = pairs[:k]
	}
	for i := range pairs {
		pairs[i].Rank = i + 1
	}
	return pairs
}

func filterRecords(recs []store.Record, minLength int) []store.Record {
	out := make([]store.Record, 0, len(recs))
	for _, r := range recs {
		if r.Vector == nil {
			continue
		}
		if minLength > 0 && utf8.RuneCountInString(r.Text) < minLength {
			continue
		}
		out = append(out, r)
	}
	return out
}
