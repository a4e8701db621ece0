// Package cache provides a small on-disk cache for embedding vectors so that
// re-processing an unchanged corpus does not re-pay the model calls.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// EmbedCache stores vectors keyed by a digest of model name and unit text.
type EmbedCache struct {
	Dir string
}

// KeyFrom builds a cache key from the model and the exact unit text.
func KeyFrom(model, text string) string {
	h := sha256.Sum256([]byte(model + "\n\n" + text))
	return hex.EncodeToString(h[:])
}

func (c *EmbedCache) ensureDir() error {
	if c == nil || c.Dir == "" {
		return errors.New("cache dir not configured")
	}
	return os.MkdirAll(c.Dir, 0o755)
}

func (c *EmbedCache) pathFor(key string) string {
	return filepath.Join(c.Dir, key+".json")
}

// Get returns the cached vector when present. A missing or unreadable entry
// is a miss, never an error.
func (c *EmbedCache) Get(_ context.Context, key string) ([]float64, bool) {
	if err := c.ensureDir(); err != nil {
		return nil, false
	}
	p := c.pathFor(key)
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}
	var vec []float64
	if err := json.Unmarshal(b, &vec); err != nil {
		return nil, false
	}
	// Touch mtime on access so age-based purge keeps warm entries
	now := time.Now()
	_ = os.Chtimes(p, now, now)
	return vec, true
}

// Save writes the vector for key.
func (c *EmbedCache) Save(_ context.Context, key string, vec []float64) error {
	if err := c.ensureDir(); err != nil {
		return err
	}
	b, err := json.Marshal(vec)
	if err != nil {
		return err
	}
	return os.WriteFile(c.pathFor(key), b, 0o644)
}

// ClearDir removes the directory and all contents, then recreates it so a
// valid empty cache location remains.
func ClearDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return errors.New("empty dir")
	}
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// PurgeByAge removes cache entries whose modification time is older than
// maxAge. Returns the number of removed entries.
func PurgeByAge(dir string, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		return 0, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	now := time.Now()
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) <= maxAge {
			continue
		}
		if os.Remove(filepath.Join(dir, e.Name())) == nil {
			removed++
		}
	}
	return removed, nil
}
