package dictionary

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	d := New("horse", " Tap ", "", "t3st", "apple")

	if d.Len() != 3 {
		t.Errorf("Len = %d, want 3", d.Len())
	}
	for _, w := range []string{"HORSE", "horse", "TAP", "Apple"} {
		if !d.Contains(w) {
			t.Errorf("Contains(%q) = false", w)
		}
	}
	if d.Contains("T3ST") {
		t.Error("non-letter word accepted")
	}
}

func TestRead_SkipsCommentsAndBlanks(t *testing.T) {
	d, err := Read(strings.NewReader("# header\n\nrage\r\ntoggle\n"))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if d.Len() != 2 || !d.Contains("RAGE") || !d.Contains("TOGGLE") {
		t.Errorf("unexpected dictionary contents, len %d", d.Len())
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte("horse\nrage\n"), 0o644); err != nil {
		t.Fatalf("write word file: %v", err)
	}

	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if d.Len() != 2 {
		t.Errorf("Len = %d, want 2", d.Len())
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDefault(t *testing.T) {
	d := Default()

	if d.Len() == 0 {
		t.Fatal("embedded dictionary is empty")
	}
	for _, w := range []string{"HORSE", "TAP", "RAGE", "TOGGLE", "APPLE"} {
		if !d.Contains(w) {
			t.Errorf("embedded dictionary missing %s", w)
		}
	}
	for _, w := range []string{"TP", "QZ", "TPPR"} {
		if d.Contains(w) {
			t.Errorf("embedded dictionary should not contain %s", w)
		}
	}
}
