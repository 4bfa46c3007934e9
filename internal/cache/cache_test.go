package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoad_MissingFile(t *testing.T) {
	c := Load(filepath.Join(t.TempDir(), "nope.cache_es.json"))
	if c == nil {
		t.Fatal("expected non-nil cache")
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", c.Len())
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.cache_es.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	c := Load(path)
	if c.Len() != 0 {
		t.Errorf("expected empty cache for corrupt file, got %d entries", c.Len())
	}

	// The corrupt file must survive until the next flush.
	if _, err := os.Stat(path); err != nil {
		t.Errorf("corrupt cache file should be left on disk: %v", err)
	}
}

func TestLoad_WrongShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.cache_es.json")
	if err := os.WriteFile(path, []byte(`["a","b"]`), 0644); err != nil {
		t.Fatal(err)
	}

	c := Load(path)
	if c.Len() != 0 {
		t.Errorf("expected empty cache for non-object JSON, got %d entries", c.Len())
	}
}

func TestGetPut(t *testing.T) {
	c := New()

	if _, ok := c.Get("Engine Speed"); ok {
		t.Error("expected miss on empty cache")
	}

	c.Put("Engine Speed", "Velocidad del motor")

	v, ok := c.Get("Engine Speed")
	if !ok {
		t.Fatal("expected hit after Put")
	}
	if v != "Velocidad del motor" {
		t.Errorf("expected stored value, got %q", v)
	}

	// Keys are exact: differing whitespace is a different key.
	if _, ok := c.Get("Engine Speed "); ok {
		t.Error("expected miss for whitespace-differing key")
	}
}

func TestFlushLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.cache_es.json")

	c := New()
	c.Put("Engine Speed", "Velocidad del motor")
	c.Put("Coolant Temp", "Temperatura del refrigerante")
	c.Put("", "should never appear, but round-trips if present")

	if err := c.Flush(path); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	got := Load(path)
	if !reflect.DeepEqual(got.Entries(), c.Entries()) {
		t.Errorf("round-trip mismatch:\n want %v\n got  %v", c.Entries(), got.Entries())
	}
}

func TestFlush_OverwritesCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.cache_es.json")
	if err := os.WriteFile(path, []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}

	c := New()
	c.Put("k", "v")
	if err := c.Flush(path); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("flushed file is not valid JSON: %v", err)
	}
	if m["k"] != "v" {
		t.Errorf("expected flushed entry, got %v", m)
	}
}

func TestFlush_NoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.cache_es.json")

	c := New()
	c.Put("k", "v")
	if err := c.Flush(path); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should have been renamed away")
	}
}

func TestEntries_ReturnsCopy(t *testing.T) {
	c := New()
	c.Put("k", "v")

	m := c.Entries()
	m["k"] = "mutated"

	if v, _ := c.Get("k"); v != "v" {
		t.Error("mutating the Entries copy must not affect the cache")
	}
}
