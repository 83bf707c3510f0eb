// Package reference holds the Reference data model: an ordered list of
// named sequences, their concatenation (separator-delimited, ready for
// fmindex.New), and the Coordinate Map that translates a global offset back
// to (sequence-index, local-offset).
package reference

import "sort"

// Separator delimits adjacent sequences inside the concatenated text. It is
// a byte that never occurs in FASTA sequence data, so a window extracted
// around any hit can be trimmed at the first/last separator to guarantee it
// never spans a sequence boundary.
const Separator = 0x00

// Sequence describes one named reference sequence.
type Sequence struct {
	Name   string
	Length int
}

// Reference is the concatenation of all sequences plus their Coordinate Map.
type Reference struct {
	Sequences []Sequence
	Text      []byte // concatenation, Separator between (and around) records
	starts    []int  // starts[i] = global offset where Sequences[i] begins in Text
}

// Build concatenates names/seqs (in order) into a Reference, separating each
// record with Separator so extracted windows can be trimmed at it.
func Build(names []string, seqs [][]byte) *Reference {
	r := &Reference{}
	total := 0
	for _, s := range seqs {
		total += len(s) + 1 // + separator
	}
	r.Text = make([]byte, 0, total+1)
	r.Text = append(r.Text, Separator)
	for i, s := range seqs {
		start := len(r.Text)
		r.starts = append(r.starts, start)
		r.Text = append(r.Text, s...)
		r.Text = append(r.Text, Separator)
		r.Sequences = append(r.Sequences, Sequence{Name: names[i], Length: len(s)})
	}
	return r
}

// Map translates a global offset into the text into (sequence-index,
// local-offset), via binary search over the per-sequence start offsets.
// The second return is -1 if globalOffset falls outside every sequence
// (e.g. on a separator byte).
func (r *Reference) Map(globalOffset int) (seqIndex, localOffset int) {
	i := sort.Search(len(r.starts), func(i int) bool { return r.starts[i] > globalOffset }) - 1
	if i < 0 || i >= len(r.Sequences) {
		return -1, -1
	}
	local := globalOffset - r.starts[i]
	if local < 0 || local >= r.Sequences[i].Length {
		return -1, -1
	}
	return i, local
}

// Start returns the global offset of sequence i's first base.
func (r *Reference) Start(seqIndex int) int { return r.starts[seqIndex] }

// Len returns the length of the indexed concatenation.
func (r *Reference) Len() int { return len(r.Text) }
