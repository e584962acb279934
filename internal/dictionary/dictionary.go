// Package dictionary loads the word list a run checks candidates against.
//
// Every line of the source is lower-cased and stripped of hyphens, then kept
// only if it consists of the letters a-z. The same normalisation is used when
// building the prefix filter, so a word is spelled identically on both sides.
package dictionary

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/specialistvlad/gridwords/internal/ctxlog"
)

// Dictionary is an immutable set of normalised words.
type Dictionary struct {
	words   map[string]struct{}
	skipped int
}

// Normalize lower-cases line and removes hyphens. It reports false when the
// result is empty or contains anything but a-z.
func Normalize(line string) (string, bool) {
	word := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(line)), "-", "")
	if word == "" {
		return "", false
	}
	for i := 0; i < len(word); i++ {
		if word[i] < 'a' || word[i] > 'z' {
			return "", false
		}
	}
	return word, true
}

// New builds a dictionary from words, normalising each one.
func New(words ...string) *Dictionary {
	d := &Dictionary{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		if norm, ok := Normalize(w); ok {
			d.words[norm] = struct{}{}
		} else {
			d.skipped++
		}
	}
	return d
}

// Load reads a line-oriented word list.
func Load(ctx context.Context, r io.Reader) (*Dictionary, error) {
	logger := ctxlog.FromContext(ctx)
	d := &Dictionary{words: make(map[string]struct{})}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		word, ok := Normalize(line)
		if !ok {
			d.skipped++
			logger.Debug("Skipping dictionary entry.", "entry", line)
			continue
		}
		d.words[word] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}

	logger.Debug("Dictionary loaded.", "words", len(d.words), "skipped", d.skipped)
	return d, nil
}

// LoadFile opens path and reads it with Load.
func LoadFile(ctx context.Context, path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary: %w", err)
	}
	defer f.Close()
	return Load(ctx, f)
}

// Contains reports whether word is in the dictionary. word must already be
// normalised.
func (d *Dictionary) Contains(word string) bool {
	_, ok := d.words[word]
	return ok
}

// Len returns the number of distinct words.
func (d *Dictionary) Len() int {
	return len(d.words)
}

// Skipped returns the number of source lines that were rejected.
func (d *Dictionary) Skipped() int {
	return d.skipped
}

// Words returns every word in sorted order.
func (d *Dictionary) Words() []string {
	out := make([]string, 0, len(d.words))
	for w := range d.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// EachPrefix calls fn with every non-empty prefix of every word, whole words
// included. A prefix shared by several words is reported once per word.
func (d *Dictionary) EachPrefix(fn func(prefix string)) {
	for w := range d.words {
		for i := 1; i <= len(w); i++ {
			fn(w[:i])
		}
	}
}
