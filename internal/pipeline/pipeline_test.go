package pipeline

import (
	"context"
	"strings"
	"testing"

	"primerscan/internal/amplicon"
	"primerscan/internal/fmindex"
	"primerscan/internal/model"
	"primerscan/internal/reference"
	"primerscan/internal/thermo"
)

func buildFixture(t *testing.T) (*reference.Reference, *fmindex.Index) {
	t.Helper()
	text := []byte(strings.Repeat("A", 200))
	copy(text[10:20], []byte("ACGTACGTAC"))
	copy(text[100:110], []byte("CCAAGGCCAA"))
	ref := reference.Build([]string{"chr1"}, [][]byte{text})
	idx := fmindex.New(ref.Text)
	return ref, idx
}

func newOracle() (*thermo.Oracle, error) {
	return thermo.Open("", thermo.Conditions{MonovalentM: 0.05, DNAConcM: 2.5e-7})
}

func TestPipeline_ForwardAndReverseBindingsPairIntoProduct(t *testing.T) {
	ref, idx := buildFixture(t)
	cfg := Config{
		Kmer:            10,
		Distance:        0,
		MaxNeighborhood: 10,
		MaxMatches:      10,
		CutTemp:         -1000, // accept everything for this mechanics test
		ContextPad:      5,
		Amplicon: amplicon.Config{
			MaxProdSize:   5000,
			CutoffPenalty: -1,
			PenaltyTmDiff: 1,
			PenaltyTmMis:  1,
			PenaltyLength: 0.001,
		},
	}
	p := New(cfg, ref, idx, newOracle)

	primers := []model.Primer{
		{ID: "F", Seq: "ACGTACGTAC"},
		{ID: "R", Seq: "TTGGCCTTGG"},
	}

	bindings, products, report, err := p.Run(context.Background(), primers)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if report.Incomplete {
		t.Fatalf("expected a complete report, got %+v", report)
	}
	if len(bindings) != 2 {
		t.Fatalf("len(bindings) = %d, want 2: %+v", len(bindings), bindings)
	}

	var fwd, rev *model.Binding
	for i := range bindings {
		b := &bindings[i]
		switch b.Orientation {
		case model.Forward:
			fwd = b
		case model.Reverse:
			rev = b
		}
	}
	if fwd == nil || rev == nil {
		t.Fatalf("expected one forward and one reverse binding, got %+v", bindings)
	}
	if fwd.Position != 10 {
		t.Fatalf("forward Position = %d, want 10", fwd.Position)
	}
	if rev.Position != 100 {
		t.Fatalf("reverse Position = %d, want 100", rev.Position)
	}
	if fwd.Site != "ACGTACGTAC" {
		t.Fatalf("forward Site = %q, want ACGTACGTAC", fwd.Site)
	}
	if rev.Site != "CCAAGGCCAA" {
		t.Fatalf("reverse Site = %q, want CCAAGGCCAA", rev.Site)
	}

	if len(products) != 1 {
		t.Fatalf("len(products) = %d, want 1: %+v", len(products), products)
	}
	wantLen := rev.Position + len(rev.Site) - fwd.Position
	if products[0].Length != wantLen {
		t.Fatalf("product Length = %d, want %d", products[0].Length, wantLen)
	}
}

func TestPipeline_PrunePrimerSkipsAssembly(t *testing.T) {
	ref, idx := buildFixture(t)
	cfg := Config{
		Kmer:            10,
		MaxNeighborhood: 10,
		MaxMatches:      10,
		CutTemp:         -1000,
		ContextPad:      5,
		PrunePrimer:     true,
	}
	p := New(cfg, ref, idx, newOracle)
	primers := []model.Primer{{ID: "F", Seq: "ACGTACGTAC"}}

	bindings, products, _, err := p.Run(context.Background(), primers)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(bindings) != 1 {
		t.Fatalf("len(bindings) = %d, want 1", len(bindings))
	}
	if products != nil {
		t.Fatalf("expected nil products when PrunePrimer is set, got %+v", products)
	}
}

func TestPipeline_CutTempFiltersOutWeakBindings(t *testing.T) {
	ref, idx := buildFixture(t)
	cfg := Config{
		Kmer:            10,
		MaxNeighborhood: 10,
		MaxMatches:      10,
		CutTemp:         1000, // nothing can clear this
		ContextPad:      5,
		PrunePrimer:     true,
	}
	p := New(cfg, ref, idx, newOracle)
	primers := []model.Primer{{ID: "F", Seq: "ACGTACGTAC"}}

	bindings, _, _, err := p.Run(context.Background(), primers)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(bindings) != 0 {
		t.Fatalf("len(bindings) = %d, want 0 with an unreachable CutTemp", len(bindings))
	}
}

// TestPipeline_ForwardShiftBelowKOffsetIsDropped exercises the resolved
// open question from spec.md §9: a forward hit whose k-suffix anchors right
// at the start of a chromosome, with no room before it for the rest of the
// primer, must be dropped rather than clamped to a negative position. The
// k-suffix "ACGTAC" sits at local offset 0, so ctxwindow.Extract can't hand
// back any prefix context (it's trimmed at the chromosome's leading
// separator); AlignShift is therefore 0 while kOffset is 4, driving
// "shift = AlignShift - kOffset" negative.
func TestPipeline_ForwardShiftBelowKOffsetIsDropped(t *testing.T) {
	text := []byte("ACGTAC" + strings.Repeat("A", 44))
	ref := reference.Build([]string{"chr1"}, [][]byte{text})
	idx := fmindex.New(ref.Text)

	cfg := Config{
		Kmer:            6,
		Distance:        0,
		MaxNeighborhood: 10,
		MaxMatches:      10,
		CutTemp:         -1000,
		ContextPad:      5,
		PrunePrimer:     true,
	}
	p := New(cfg, ref, idx, newOracle)
	primers := []model.Primer{{ID: "F", Seq: "TTTTACGTAC"}} // kOffset = 10-6 = 4

	bindings, _, _, err := p.Run(context.Background(), primers)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(bindings) != 0 {
		t.Fatalf("len(bindings) = %d, want 0 (forward hit with no room for the primer's prefix must be dropped): %+v", len(bindings), bindings)
	}
}

func TestPipeline_NeighborhoodCapReportsIncomplete(t *testing.T) {
	ref, idx := buildFixture(t)
	cfg := Config{
		Kmer:            10,
		Distance:        1,
		MaxNeighborhood: 1, // forces immediate truncation
		MaxMatches:      10,
		CutTemp:         -1000,
		ContextPad:      5,
		PrunePrimer:     true,
	}
	p := New(cfg, ref, idx, newOracle)
	primers := []model.Primer{{ID: "F", Seq: "ACGTACGTAC"}}

	_, _, report, err := p.Run(context.Background(), primers)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !report.Incomplete {
		t.Fatal("expected Report.Incomplete with MaxNeighborhood=1")
	}
	if len(report.NeighborhoodCapped) != 1 || report.NeighborhoodCapped[0] != "F" {
		t.Fatalf("NeighborhoodCapped = %+v, want [F]", report.NeighborhoodCapped)
	}
}
