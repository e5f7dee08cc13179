package prefs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// TestFileStoreRoundTrip verifies save, load, and delete against the
// backing file.
func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	ctx := context.Background()
	if err := store.Save(ctx, KeyLastSelectedSite, "example.com"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	value, ok := store.Load(ctx, KeyLastSelectedSite)
	if !ok || value != "example.com" {
		t.Errorf("Load returned %q, %v", value, ok)
	}

	if _, ok := store.Load(ctx, KeyTheme); ok {
		t.Error("Load of unset key should report missing")
	}

	if err := store.Delete(ctx, KeyLastSelectedSite); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := store.Load(ctx, KeyLastSelectedSite); ok {
		t.Error("Key survived delete")
	}
}

// TestFileStoreDurability verifies a second store sees what the first
// one wrote.
func TestFileStoreDurability(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	if err := first.Save(ctx, KeyTheme, "dark"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	second, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	value, ok := second.Load(ctx, KeyTheme)
	if !ok || value != "dark" {
		t.Errorf("Reopened store returned %q, %v", value, ok)
	}
}

// TestFileStoreCorruptFile verifies a corrupt preference file starts
// fresh instead of failing startup.
func TestFileStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "preferences.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to seed corrupt file: %v", err)
	}

	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("Corrupt file must not fail startup: %v", err)
	}
	if _, ok := store.Load(context.Background(), KeyTheme); ok {
		t.Error("Corrupt file should yield an empty store")
	}

	// The store must still be writable afterwards.
	if err := store.Save(context.Background(), KeyTheme, "light"); err != nil {
		t.Errorf("Save after corrupt start failed: %v", err)
	}
}

// TestMemoryStore verifies the in-memory variant honors the contract.
func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Save(ctx, "k", "v"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if value, ok := store.Load(ctx, "k"); !ok || value != "v" {
		t.Errorf("Load returned %q, %v", value, ok)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := store.Load(ctx, "k"); ok {
		t.Error("Key survived delete")
	}
}
