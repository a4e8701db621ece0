// Package store persists corpora as tabular records. Two backends share the
// same schema: CSV files matching the sentence_id,text,source,vector layout,
// and a SQLite database selected by a .db/.sqlite output path. Vectors are
// serialized as JSON arrays; an empty vector column means not yet vectorized.
package store

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/hyperifyio/gocorpus/internal/aggregate"
)

// Record is one corpus unit as persisted: a unique 1-based identifier, the
// unit text, the originating file name, and the embedding vector when the
// unit has been vectorized (nil otherwise).
type Record struct {
	ID     int
	Text   string
	Source string
	Vector []float64
}

// FromCorpus numbers the corpus units sequentially across files, matching
// their aggregation order.
func FromCorpus(c aggregate.Corpus) []Record {
	recs := make([]Record, len(c))
	for i, u := range c {
		recs[i] = Record{ID: i + 1, Text: u.Text, Source: u.Source}
	}
	return recs
}

// Write persists records to path, choosing the backend by extension.
func Write(ctx context.Context, path string, recs []Record) error {
	if isSQLitePath(path) {
		db, err := OpenDB(path)
		if err != nil {
			return err
		}
		defer db.Close()
		return db.WriteRecords(ctx, recs)
	}
	return WriteCSV(path, recs)
}

// Read loads records from path, choosing the backend by extension.
func Read(ctx context.Context, path string) ([]Record, error) {
	if isSQLitePath(path) {
		db, err := OpenDB(path)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return db.ReadRecords(ctx)
	}
	return ReadCSV(path)
}

func isSQLitePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}
