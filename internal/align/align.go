// Package align is the Alignment Canonicalizer: a semi-global
// Needleman-Wunsch alignment (free end gaps on the reference side only)
// used to reduce a raw index hit to a canonical reference start, so that
// two different k-mer neighbors hitting the same physical site collapse to
// one Binding.
//
// Scoring follows spec §4.5: match 0, mismatch/insertion/deletion -1 each.
// The DP table is held in a reusable Scratch buffer (flat []int, no
// per-hit allocation) in the style of a classic Go NW implementation that
// keeps a scratch matrix across calls instead of allocating one per pair.
package align

// Scratch is a reusable DP/traceback buffer. Reuse one Scratch per worker
// across many Canonicalize calls to avoid per-hit allocation.
type Scratch struct {
	dp    []int
	trace []byte
}

const (
	dirDiag byte = iota
	dirUp
	dirLeft
)

func (s *Scratch) grow(rows, cols int) {
	n := rows * cols
	if cap(s.dp) < n {
		s.dp = make([]int, n)
		s.trace = make([]byte, n)
	} else {
		s.dp = s.dp[:n]
		s.trace = s.trace[:n]
	}
}

// Result is the outcome of canonicalizing one hit.
type Result struct {
	// AlignShift is the window-relative column at which the optimal
	// alignment's traceback reaches row 0 -- i.e. the count of leading
	// reference (window) positions skipped for free before the search
	// sequence starts aligning.
	AlignShift int
	Score      int
}

// Canonicalize aligns search (the primer's k-suffix, or its reverse
// complement for reverse-orientation hits) against window (the extracted
// genomic context) and returns the alignShift used to derive a canonical
// reference start (canonicalStart = windowStart + AlignShift).
func Canonicalize(search, window []byte, scratch *Scratch) Result {
	np, nw := len(search), len(window)
	if scratch == nil {
		scratch = &Scratch{}
	}
	scratch.grow(np+1, nw+1)
	dp, trace := scratch.dp, scratch.trace
	cols := nw + 1

	at := func(i, j int) int { return i*cols + j }

	// Row 0: free leading reference gaps (the alignment may start anywhere
	// in the window at no cost).
	for j := 0; j <= nw; j++ {
		dp[at(0, j)] = 0
		trace[at(0, j)] = dirLeft
	}
	// Column 0 (i>0): the primer must consume gaps if the window is empty.
	for i := 1; i <= np; i++ {
		dp[at(i, 0)] = -i
		trace[at(i, 0)] = dirUp
	}

	for i := 1; i <= np; i++ {
		for j := 1; j <= nw; j++ {
			sub := 0
			if search[i-1] != window[j-1] {
				sub = -1
			}
			diag := dp[at(i-1, j-1)] + sub
			up := dp[at(i-1, j)] - 1
			left := dp[at(i, j-1)] - 1

			best, dir := diag, dirDiag
			if up > best {
				best, dir = up, dirUp
			}
			if left > best {
				best, dir = left, dirLeft
			}
			dp[at(i, j)] = best
			trace[at(i, j)] = dir
		}
	}

	// Free trailing reference gaps: pick the best-scoring end column on the
	// final (primer-exhausted) row.
	bestJ, bestScore := 0, dp[at(np, 0)]
	for j := 1; j <= nw; j++ {
		if v := dp[at(np, j)]; v > bestScore {
			bestScore, bestJ = v, j
		}
	}

	// Traceback to row 0 to find where the alignment actually begins.
	i, j := np, bestJ
	for i > 0 {
		switch trace[at(i, j)] {
		case dirDiag:
			i--
			j--
		case dirUp:
			i--
		default:
			j--
		}
	}

	return Result{AlignShift: j, Score: bestScore}
}
