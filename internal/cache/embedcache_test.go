package cache

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestEmbedCacheRoundTrip(t *testing.T) {
	c := &EmbedCache{Dir: t.TempDir()}
	ctx := context.Background()
	key := KeyFrom("model-a", "some unit text")

	if _, ok := c.Get(ctx, key); ok {
		t.Fatal("expected a miss before save")
	}
	vec := []float64{0.1, -0.2, 0.3}
	if err := c.Save(ctx, key, vec); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok := c.Get(ctx, key)
	if !ok {
		t.Fatal("expected a hit after save")
	}
	if !reflect.DeepEqual(got, vec) {
		t.Fatalf("got %v, want %v", got, vec)
	}
}

func TestKeyFromSeparatesModels(t *testing.T) {
	if KeyFrom("model-a", "text") == KeyFrom("model-b", "text") {
		t.Fatal("different models must not share keys")
	}
	if KeyFrom("model-a", "text") != KeyFrom("model-a", "text") {
		t.Fatal("keys must be deterministic")
	}
}

func TestPurgeByAge(t *testing.T) {
	dir := t.TempDir()
	c := &EmbedCache{Dir: dir}
	ctx := context.Background()
	key := KeyFrom("m", "old entry")
	if err := c.Save(ctx, key, []float64{1}); err != nil {
		t.Fatalf("save: %v", err)
	}
	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(filepath.Join(dir, key+".json"), old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	removed, err := PurgeByAge(dir, 24*time.Hour)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if _, ok := c.Get(ctx, key); ok {
		t.Fatal("expected the entry gone after purge")
	}
}

func TestClearDirRecreates(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c := &EmbedCache{Dir: dir}
	if err := c.Save(context.Background(), KeyFrom("m", "x"), []float64{1}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := ClearDir(dir); err != nil {
		t.Fatalf("clear: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("expected the directory recreated: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty directory, found %d entries", len(entries))
	}
}
