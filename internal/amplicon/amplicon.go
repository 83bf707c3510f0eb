// Package amplicon is the Amplicon Assembler: it pairs forward and reverse
// Bindings on the same chromosome into PCR Products within a maximum
// product length, scores each by a composite penalty, and filters by a
// penalty cutoff.
//
// The position-sorted two-pointer scan is grounded directly on the
// teacher's core/engine/engine.go joinProducts, which already implements
// exactly the O(F+R+P) scan spec.md §9 calls for (sort.SearchInts over a
// position-sorted opposite-orientation slice, bounded by the max product
// length) -- generalized here from raw match positions to Bindings, and
// fitted with the spec's Tm-deviation/mismatch/length penalty formula
// instead of the teacher's own scoring.
package amplicon

import (
	"sort"

	"primerscan/internal/model"
)

// Config holds the assembler's length and penalty parameters (spec §4.7,
// §6).
type Config struct {
	MaxProdSize   int     // strict upper bound on product length
	CutoffPenalty float64 // < 0 means keep all products
	PenaltyTmDiff float64
	PenaltyTmMis  float64
	PenaltyLength float64
}

// Penalty computes the composite penalty for a forward/reverse Binding
// pair and product length, per spec §4.7. Only positive perfTemp-over-temp
// deviations contribute (primers that run hotter than their theoretical
// perfect match are not penalized).
func Penalty(f, r model.Binding, length int, cfg Config) float64 {
	pen := 0.0
	if d := f.PerfectTemp - f.Temp; d > 0 {
		pen += d * cfg.PenaltyTmDiff
	}
	if d := r.PerfectTemp - r.Temp; d > 0 {
		pen += d * cfg.PenaltyTmDiff
	}
	diff := f.Temp - r.Temp
	if diff < 0 {
		diff = -diff
	}
	pen += diff * cfg.PenaltyTmMis
	pen += float64(length) * cfg.PenaltyLength
	return pen
}

// Assemble pairs every forward/reverse Binding combination on the same
// chromosome that satisfies spec §3's Product existence rule, and returns
// them ranked by ascending penalty (spec §4.8).
func Assemble(bindings []model.Binding, cfg Config) []model.Product {
	byChrom := make(map[int][]model.Binding)
	for _, b := range bindings {
		byChrom[b.ChromIndex] = append(byChrom[b.ChromIndex], b)
	}

	var out []model.Product
	for chrom, group := range byChrom {
		fwd, rev := splitByOrientation(group)
		out = append(out, assembleChromosome(chrom, fwd, rev, cfg)...)
	}

	Rank(out)
	return out
}

func splitByOrientation(bindings []model.Binding) (fwd, rev []model.Binding) {
	for _, b := range bindings {
		if b.Orientation == model.Forward {
			fwd = append(fwd, b)
		} else {
			rev = append(rev, b)
		}
	}
	sort.Slice(fwd, func(i, j int) bool { return fwd[i].Position < fwd[j].Position })
	sort.Slice(rev, func(i, j int) bool { return rev[i].Position < rev[j].Position })
	return fwd, rev
}

func assembleChromosome(chrom int, fwd, rev []model.Binding, cfg Config) []model.Product {
	revPos := make([]int, len(rev))
	for i, r := range rev {
		revPos[i] = r.Position
	}

	var out []model.Product
	for _, f := range fwd {
		lo := f.Position + 1
		iMin := sort.SearchInts(revPos, lo)
		iMax := len(revPos) - 1
		if cfg.MaxProdSize > 0 {
			hi := f.Position + cfg.MaxProdSize - 1
			iMax = sort.Search(len(revPos), func(i int) bool { return revPos[i] > hi }) - 1
		}

		for i := iMin; i <= iMax && i < len(revPos); i++ {
			r := rev[i]
			length := r.Position + len(r.Site) - f.Position
			if cfg.MaxProdSize > 0 && length >= cfg.MaxProdSize {
				continue
			}
			pen := Penalty(f, r, length, cfg)
			if cfg.CutoffPenalty >= 0 && pen >= cfg.CutoffPenalty {
				continue
			}
			out = append(out, model.Product{
				ChromIndex:      chrom,
				ForwardPos:      f.Position,
				ReversePos:      r.Position,
				ForwardPrimerID: f.PrimerID,
				ReversePrimerID: r.PrimerID,
				ForwardTemp:     f.Temp,
				ReverseTemp:     r.Temp,
				Length:          length,
				Penalty:         pen,
			})
		}
	}
	return out
}

// Rank orders products by ascending penalty (spec §4.8); ties are broken
// by (chromosome, forward position, reverse position) for determinism.
func Rank(products []model.Product) {
	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i], products[j]
		if a.Penalty != b.Penalty {
			return a.Penalty < b.Penalty
		}
		if a.ChromIndex != b.ChromIndex {
			return a.ChromIndex < b.ChromIndex
		}
		if a.ForwardPos != b.ForwardPos {
			return a.ForwardPos < b.ForwardPos
		}
		return a.ReversePos < b.ReversePos
	})
}
