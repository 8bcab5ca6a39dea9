// Package dictionary holds the set of words a match accepts.
//
// Words are stored upper-cased. Blank lines, lines starting with '#' and
// lines containing anything other than ASCII letters are skipped.
package dictionary

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed default.txt
var embeddedWords string

// Dictionary is a read-only word set, safe for concurrent use.
type Dictionary struct {
	words map[string]struct{}
}

// New builds a dictionary from the given words.
func New(words ...string) *Dictionary {
	d := &Dictionary{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		d.add(w)
	}
	return d
}

// Default returns the dictionary compiled into the binary.
func Default() *Dictionary {
	d, _ := Read(strings.NewReader(embeddedWords))
	return d
}

// Load reads a word file with one word per line.
func Load(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()

	d, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read dictionary %s: %w", path, err)
	}
	return d, nil
}

// Read builds a dictionary from r, one word per line.
func Read(r io.Reader) (*Dictionary, error) {
	d := New()
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		d.add(sc.Text())
	}
	return d, sc.Err()
}

func (d *Dictionary) add(word string) {
	w := strings.ToUpper(strings.TrimSpace(word))
	if w == "" || strings.HasPrefix(w, "#") || !isAlpha(w) {
		return
	}
	d.words[w] = struct{}{}
}

// Contains reports whether word, compared case-insensitively, is in the dictionary.
func (d *Dictionary) Contains(word string) bool {
	_, ok := d.words[strings.ToUpper(word)]
	return ok
}

// Len returns the number of words.
func (d *Dictionary) Len() int {
	return len(d.words)
}

func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
