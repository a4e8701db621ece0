package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

var csvHeader = []string{"sentence_id", "text", "source", "vector"}

// WriteCSV writes records with the canonical header. The vector column holds
// a JSON array, or the empty string for records without a vector.
func WriteCSV(path string, recs []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range recs {
		vec := ""
		if r.Vector != nil {
			b, err := json.Marshal(r.Vector)
			if err != nil {
				return fmt.Errorf("encode vector for unit %d: %w", r.ID, err)
			}
			vec = string(b)
		}
		if err := w.Write([]string{strconv.Itoa(r.ID), r.Text, r.Source, vec}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// ReadCSV loads records in file order. Rows with an empty vector column come
// back with a nil vector.
func ReadCSV(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(csvHeader)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	// Skip the header row when present; a headerless file still loads.
	if rows[0][0] == csvHeader[0] {
		rows = rows[1:]
	}
	recs := make([]Record, 0, len(rows))
	for i, row := range rows {
		id, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad id %q", path, i+1, row[0])
		}
		rec := Record{ID: id, Text: row[1], Source: row[2]}
		if row[3] != "" {
			if err := json.Unmarshal([]byte(row[3]), &rec.Vector); err != nil {
				return nil, fmt.Errorf("%s row %d: bad vector: %w", path, i+1, err)
			}
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
