// Package fmindex is the Index Locator: a read-only, concurrency-safe
// multi-location lookup over the reference concatenation.
//
// No example repo in the reference pack ships an embeddable compressed
// full-text index (FM-index / compressed suffix array) library — the one
// hit, a long-read mapper, is a complete minimizer-chaining application, not
// a locate() primitive — so this is built on the standard library's
// index/suffixarray, which offers the same query shape (build once from the
// concatenated text, then look up arbitrary byte strings) that a real
// FM-index would.
package fmindex

import (
	"fmt"
	"index/suffixarray"
	"os"
	"sort"
)

// Index wraps a suffix array built once over the reference concatenation.
// Queries are read-only and safe for concurrent use by multiple goroutines.
type Index struct {
	sa   *suffixarray.Index
	size int
}

// New builds an Index over text. text is expected to be the full
// concatenation of the reference sequences (separators included).
func New(text []byte) *Index {
	return &Index{sa: suffixarray.New(text), size: len(text)}
}

// Sidecar returns the prebuilt-index path co-located with a reference file
// (spec §6's "prebuilt reference index" input): <referencePath>.fm9.
func Sidecar(referencePath string) string { return referencePath + ".fm9" }

// Save persists the index's suffix array to path (suffixarray.Index.Write),
// so a later run can skip rebuilding it via Load.
func (ix *Index) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("fmindex: creating %s: %w", path, err)
	}
	defer f.Close()
	if err := ix.sa.Write(f); err != nil {
		return fmt.Errorf("fmindex: writing %s: %w", path, err)
	}
	return nil
}

// Load reconstructs an Index from a sidecar file previously written by
// Save. text must be the exact reference concatenation the sidecar was
// built from: suffixarray.Index.Read restores both the indexed text and
// the array from the file, and text is only used for Size; it is not
// checked against the file's contents.
func Load(path string, text []byte) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fmindex: opening %s: %w", path, err)
	}
	defer f.Close()
	sa := new(suffixarray.Index)
	if err := sa.Read(f); err != nil {
		return nil, fmt.Errorf("fmindex: reading %s: %w", path, err)
	}
	return &Index{sa: sa, size: len(text)}, nil
}

// Size returns the length of the indexed text.
func (ix *Index) Size() int { return ix.size }

// Locate returns every global offset at which query occurs, sorted
// ascending. If the true number of occurrences exceeds maxLocations (when
// maxLocations > 0), the result is truncated to maxLocations offsets and
// truncated reports true.
func (ix *Index) Locate(query []byte, maxLocations int) (offsets []int, truncated bool) {
	if len(query) == 0 {
		return nil, false
	}
	all := ix.sa.Lookup(query, -1)
	sort.Ints(all)
	if maxLocations > 0 && len(all) > maxLocations {
		return all[:maxLocations], true
	}
	return all, false
}
