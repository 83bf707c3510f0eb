// Package model holds the data types shared across the search/dedup/pairing
// pipeline: Candidate Primer, Primer Binding, and PCR Product (spec §3).
package model

// Primer is a candidate primer as supplied by the caller: immutable
// through the pipeline.
type Primer struct {
	ID   string
	Name string
	Seq  string
}

// Orientation records which strand a Binding was found on.
type Orientation int

const (
	Forward Orientation = iota
	Reverse
)

func (o Orientation) String() string {
	if o == Forward {
		return "forward"
	}
	return "reverse"
}

// Binding is a realized primer-binding site (spec §3).
type Binding struct {
	ChromIndex  int
	Position    int // canonical start, local to the chromosome
	Orientation Orientation
	Temp        float64 // realized duplex Tm
	PerfectTemp float64 // theoretical perfect-match Tm of the primer
	PrimerID    string
	PrimerSeq   string // same-sense oligo compared against Site (see pipeline's "submitted")
	Site        string // extracted genomic subsequence, length == len(primer)
}

// Product is a PCR amplicon formed by pairing a forward and reverse
// Binding on the same chromosome (spec §3).
type Product struct {
	ChromIndex      int
	ForwardPos      int
	ReversePos      int
	ForwardPrimerID string
	ReversePrimerID string
	ForwardTemp     float64
	ReverseTemp     float64
	Length          int
	Penalty         float64
}
