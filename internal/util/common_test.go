package util

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestResolvePath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "x")
	tests := []struct {
		base, rel, want string
	}{
		{"data", "backend", filepath.Join("data", "backend")},
		{"data", abs, abs},
		{"data", "", "data"},
	}
	for _, tt := range tests {
		if got := ResolvePath(tt.base, tt.rel); got != tt.want {
			t.Fatalf("ResolvePath(%q, %q) = %q, want %q", tt.base, tt.rel, got, tt.want)
		}
	}
}

func TestWriteJSONFileCreatesDirsAndReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "state.json")

	if err := WriteJSONFile(path, map[string]string{"theme": "dark"}); err != nil {
		t.Fatal(err)
	}
	if err := WriteJSONFile(path, map[string]string{"theme": "light"}); err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]string
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if got["theme"] != "light" {
		t.Fatalf("theme = %q", got["theme"])
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %d entries", len(entries))
	}
}
