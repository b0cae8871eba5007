package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestLoadCachesContents(t *testing.T) {
	fsys := fstest.MapFS{
		"asset/floor.obj": {Data: []byte("v 0 0 0\n")},
	}
	m := NewManagerFS(fsys, "mem")

	first, err := m.Load("./asset/floor.obj")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(first) != "v 0 0 0\n" {
		t.Errorf("unexpected contents %q", first)
	}

	// Remove the backing file: a second load must be served from cache.
	delete(fsys, "asset/floor.obj")
	second, err := m.Load("asset/floor.obj")
	if err != nil {
		t.Fatalf("cached Load failed: %v", err)
	}
	if string(second) != string(first) {
		t.Errorf("cached contents differ: %q vs %q", second, first)
	}

	hits, misses := m.cache.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("expected 1 hit and 1 miss, got %d hits %d misses", hits, misses)
	}
}

func TestLoadMissing(t *testing.T) {
	m := NewManagerFS(fstest.MapFS{}, "mem")

	_, err := m.Load("asset/Amy.obj")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadFromDisk(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "asset"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "asset", "bucket.obj"), []byte("o bucket\n"), 0644); err != nil {
		t.Fatal(err)
	}

	m := NewManager(root)
	data, err := m.Load("asset/bucket.obj")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(data) != "o bucket\n" {
		t.Errorf("unexpected contents %q", data)
	}

	if _, err := m.Load("asset/none.obj"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing file, got %v", err)
	}
}

func TestLoadUnreadable(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "asset", "Amy.obj"), 0755); err != nil {
		t.Fatal(err)
	}

	m := NewManager(root)
	_, err := m.Load("asset/Amy.obj")
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable for a directory, got %v", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Errorf("a directory should not be reported as missing: %v", err)
	}
	if _, ok := m.cache.Get("asset/Amy.obj"); ok {
		t.Error("failed load should not be cached")
	}
}

func TestRelease(t *testing.T) {
	m := NewManagerFS(fstest.MapFS{"a.png": {Data: []byte{1}}}, "mem")
	if _, err := m.Load("a.png"); err != nil {
		t.Fatal(err)
	}

	m.Release()

	if _, ok := m.cache.Get("a.png"); ok {
		t.Error("expected cache to be empty after Release")
	}
}

func TestCleanPath(t *testing.T) {
	tests := map[string]string{
		"./asset/Amy.obj":  "asset/Amy.obj",
		"asset/../x.png":   "x.png",
		"asset//floor.jpg": "asset/floor.jpg",
		"Amy.png":          "Amy.png",
	}
	for in, want := range tests {
		if got := cleanPath(in); got != want {
			t.Errorf("cleanPath(%q) = %q, want %q", in, got, want)
		}
	}
}
