package cart

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tienda-gateway/models"
)

var sampleItems = []models.LineItem{
	{ProductID: "2", Quantity: 3, Name: "Correa", Price: 8, Image: "correa.png"},
	{ProductID: "1", Quantity: 1, Name: "Collar", Price: 12.5},
}

func assertRoundTrip(t *testing.T, p Persister) {
	t.Helper()
	ctx := context.Background()

	loaded, err := p.Load(ctx, "nobody")
	if err != nil {
		t.Fatalf("Load of unknown session: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("unknown session should load empty, got %+v", loaded)
	}

	if err := p.Save(ctx, "s1", sampleItems); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err = p.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != len(sampleItems) {
		t.Fatalf("expected %d items, got %d", len(sampleItems), len(loaded))
	}
	for i, want := range sampleItems {
		if loaded[i] != want {
			t.Errorf("item %d = %+v, want %+v", i, loaded[i], want)
		}
	}

	if err := p.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	loaded, _ = p.Load(ctx, "s1")
	if len(loaded) != 0 {
		t.Errorf("cart should be empty after Delete, got %+v", loaded)
	}
}

func TestMemoryPersisterRoundTrip(t *testing.T) {
	assertRoundTrip(t, NewMemoryPersister())
}

func TestFilePersisterRoundTrip(t *testing.T) {
	p, err := NewFilePersister(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilePersister: %v", err)
	}
	assertRoundTrip(t, p)
}

func TestFilePersisterWritesVersionedDocument(t *testing.T) {
	dir := t.TempDir()
	p, err := NewFilePersister(dir)
	if err != nil {
		t.Fatalf("NewFilePersister: %v", err)
	}
	if err := p.Save(context.Background(), "s1", sampleItems); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "s1.json"))
	if err != nil {
		t.Fatalf("reading persisted file: %v", err)
	}
	if string(data[:5]) != `{"v":` {
		t.Errorf("persisted document is not versioned: %s", data)
	}
}

func TestFilePersisterReadsLegacyBareArray(t *testing.T) {
	dir := t.TempDir()
	legacy := `[{"id":"1","quantity":2,"name":"Collar"}]`
	if err := os.WriteFile(filepath.Join(dir, "old.json"), []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := NewFilePersister(dir)
	if err != nil {
		t.Fatalf("NewFilePersister: %v", err)
	}
	items, err := p.Load(context.Background(), "old")
	if err != nil {
		t.Fatalf("Load legacy document: %v", err)
	}
	if len(items) != 1 || items[0].ProductID != "1" || items[0].Quantity != 2 {
		t.Errorf("legacy decode wrong: %+v", items)
	}
}

func TestGormPersisterRoundTrip(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.CartRow{}); err != nil {
		t.Fatalf("migrating: %v", err)
	}

	assertRoundTrip(t, NewGormPersister(db))
}

func TestGormPersisterSaveReplacesSnapshot(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.CartRow{}); err != nil {
		t.Fatalf("migrating: %v", err)
	}

	ctx := context.Background()
	p := NewGormPersister(db)
	if err := p.Save(ctx, "s1", sampleItems); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if err := p.Save(ctx, "s1", sampleItems[:1]); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	loaded, err := p.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 1 || loaded[0].ProductID != "2" {
		t.Errorf("snapshot not replaced: %+v", loaded)
	}
}
