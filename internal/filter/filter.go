// Package filter implements the prefix filter used to prune traversal
// candidates. It wraps a Bloom filter holding every prefix of every
// dictionary word: a negative answer is authoritative, a positive one may be
// wrong.
package filter

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/bits-and-blooms/bloom/v3"
)

// Sizing used by the original word lists.
const (
	DefaultBits   = 1 << 20
	DefaultHashes = 3
)

// Source yields the strings to insert.
type Source interface {
	EachPrefix(fn func(prefix string))
}

// Filter is a read-only approximate membership set. It satisfies
// model.Membership.
type Filter struct {
	bf *bloom.BloomFilter
}

// Build creates a filter of the given size and inserts every prefix that src
// yields. Non-positive sizes fall back to the defaults.
func Build(src Source, bits, hashes uint) *Filter {
	if bits == 0 {
		bits = DefaultBits
	}
	if hashes == 0 {
		hashes = DefaultHashes
	}
	bf := bloom.New(bits, hashes)
	src.EachPrefix(func(p string) {
		bf.AddString(p)
	})
	return &Filter{bf: bf}
}

// MightContain reports whether b may have been inserted.
func (f *Filter) MightContain(b []byte) bool {
	return f.bf.Test(b)
}

// Bits returns the size of the bit array.
func (f *Filter) Bits() uint { return f.bf.Cap() }

// Hashes returns the number of hash functions.
func (f *Filter) Hashes() uint { return f.bf.K() }

// WriteTo writes the filter in its binary form.
func (f *Filter) WriteTo(w io.Writer) (int64, error) {
	return f.bf.WriteTo(w)
}

// Read decodes a filter written by WriteTo.
func Read(r io.Reader) (*Filter, error) {
	bf := &bloom.BloomFilter{}
	if _, err := bf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("failed to decode filter: %w", err)
	}
	return &Filter{bf: bf}, nil
}

// Save writes the filter to path, replacing any existing file.
func (f *Filter) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create filter file: %w", err)
	}
	w := bufio.NewWriter(file)
	if _, err := f.WriteTo(w); err != nil {
		file.Close()
		return fmt.Errorf("failed to write filter file: %w", err)
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("failed to write filter file: %w", err)
	}
	return file.Close()
}

// Load reads a filter file written by Save.
func Load(path string) (*Filter, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open filter file: %w", err)
	}
	defer file.Close()
	return Read(bufio.NewReader(file))
}
