// Package binding is the Binding Collector: it deduplicates candidate
// hits into at most one Binding per (chromosome, canonical-position,
// orientation, primer-id), and ranks the frozen result by melting
// temperature.
//
// The dedup-set-per-orientation idiom is grounded on the teacher's
// core/engine/engine.go, which keeps one map[int]struct{} of seen start
// positions per primer per orientation (seenA/seenB/seena/seenb) before
// accumulating a Match; here the key additionally carries the chromosome
// and primer id, matching spec §3's dedup invariant.
package binding

import (
	"sort"
	"sync"

	"primerscan/internal/model"
)

type key struct {
	chrom    int
	orient   model.Orientation
	primerID string
	pos      int
}

// Collector accumulates Bindings across all candidate primers. It is safe
// for concurrent use: each worker in the pipeline's worker pool merges its
// own primer's hits in through Add.
type Collector struct {
	mu   sync.Mutex
	seen map[key]struct{}
	list []model.Binding
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{seen: make(map[key]struct{})}
}

// Add records b if (chromosome, canonical position, orientation, primer id)
// has not already been seen. It reports whether b was newly added.
func (c *Collector) Add(b model.Binding) bool {
	k := key{chrom: b.ChromIndex, orient: b.Orientation, primerID: b.PrimerID, pos: b.Position}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.seen[k]; dup {
		return false
	}
	c.seen[k] = struct{}{}
	c.list = append(c.list, b)
	return true
}

// Bindings returns a frozen, ranked copy of every Binding accumulated so
// far (spec §3's "Bindings are accumulated ... then frozen").
func (c *Collector) Bindings() []model.Binding {
	c.mu.Lock()
	out := make([]model.Binding, len(c.list))
	copy(out, c.list)
	c.mu.Unlock()
	Rank(out)
	return out
}

// Rank orders bindings by realized melting temperature, descending; ties
// are broken by (chromosome, position, primer-id) for determinism (spec
// §4.8).
func Rank(bindings []model.Binding) {
	sort.SliceStable(bindings, func(i, j int) bool {
		a, b := bindings[i], bindings[j]
		if a.Temp != b.Temp {
			return a.Temp > b.Temp
		}
		if a.ChromIndex != b.ChromIndex {
			return a.ChromIndex < b.ChromIndex
		}
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.PrimerID < b.PrimerID
	})
}
