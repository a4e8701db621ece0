package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver
)

const unitsSchema = `CREATE TABLE IF NOT EXISTS units (
	sentence_id INTEGER PRIMARY KEY,
	text        TEXT NOT NULL,
	source      TEXT NOT NULL,
	vector      TEXT NOT NULL DEFAULT ''
)`

// DB is a SQLite-backed unit store sharing the CSV schema.
type DB struct {
	db *sql.DB
}

// OpenDB opens (and if needed creates) the database at path with WAL mode
// for better concurrent read behavior.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	if _, err := db.Exec(unitsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create units table: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// WriteRecords replaces the stored units with recs in one transaction.
func (d *DB) WriteRecords(ctx context.Context, recs []Record) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM units`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO units (sentence_id, text, source, vector) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range recs {
		vec := ""
		if r.Vector != nil {
			b, err := json.Marshal(r.Vector)
			if err != nil {
				return fmt.Errorf("encode vector for unit %d: %w", r.ID, err)
			}
			vec = string(b)
		}
		if _, err := stmt.ExecContext(ctx, r.ID, r.Text, r.Source, vec); err != nil {
			return fmt.Errorf("insert unit %d: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// ReadRecords loads units ordered by identifier, matching corpus order.
func (d *DB) ReadRecords(ctx context.Context) ([]Record, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT sentence_id, text, source, vector FROM units ORDER BY sentence_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var rec Record
		var vec string
		if err := rows.Scan(&rec.ID, &rec.Text, &rec.Source, &vec); err != nil {
			return nil, err
		}
		if vec != "" {
			if err := json.Unmarshal([]byte(vec), &rec.Vector); err != nil {
				return nil, fmt.Errorf("unit %d: bad vector: %w", rec.ID, err)
			}
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
