package amplicon

import (
	"testing"

	"primerscan/internal/model"
)

func cfg() Config {
	return Config{MaxProdSize: 15000, CutoffPenalty: -1, PenaltyTmDiff: 1, PenaltyTmMis: 1, PenaltyLength: 0.001}
}

func TestAssemble_BasicPair(t *testing.T) {
	f := model.Binding{ChromIndex: 0, Position: 10, Orientation: model.Forward, PrimerID: "F", Temp: 60, PerfectTemp: 60, Site: "ACGTACGT"}
	r := model.Binding{ChromIndex: 0, Position: 100, Orientation: model.Reverse, PrimerID: "R", Temp: 60, PerfectTemp: 60, Site: "TTGGCCAA"}
	products := Assemble([]model.Binding{f, r}, cfg())
	if len(products) != 1 {
		t.Fatalf("len(products) = %d, want 1", len(products))
	}
	p := products[0]
	wantLen := r.Position + len(r.Site) - f.Position
	if p.Length != wantLen {
		t.Fatalf("Length = %d, want %d", p.Length, wantLen)
	}
	if p.ForwardPos >= p.ReversePos {
		t.Fatal("ForwardPos must be < ReversePos")
	}
}

func TestAssemble_NoProductWhenReverseBeforeForward(t *testing.T) {
	f := model.Binding{ChromIndex: 0, Position: 100, Orientation: model.Forward, PrimerID: "F", Site: "ACGTACGT"}
	r := model.Binding{ChromIndex: 0, Position: 10, Orientation: model.Reverse, PrimerID: "R", Site: "TTGGCCAA"}
	products := Assemble([]model.Binding{f, r}, cfg())
	if len(products) != 0 {
		t.Fatalf("expected no products, got %d", len(products))
	}
}

func TestAssemble_MaxProdSizeExcludesLongProducts(t *testing.T) {
	f := model.Binding{ChromIndex: 0, Position: 0, Orientation: model.Forward, PrimerID: "F", Site: "ACGTACGT"}
	r := model.Binding{ChromIndex: 0, Position: 20000, Orientation: model.Reverse, PrimerID: "R", Site: "TTGGCCAA"}
	products := Assemble([]model.Binding{f, r}, cfg())
	if len(products) != 0 {
		t.Fatalf("expected no products beyond MaxProdSize, got %d", len(products))
	}
}

func TestAssemble_DifferentChromosomesNeverPair(t *testing.T) {
	f := model.Binding{ChromIndex: 0, Position: 0, Orientation: model.Forward, PrimerID: "F", Site: "ACGTACGT"}
	r := model.Binding{ChromIndex: 1, Position: 100, Orientation: model.Reverse, PrimerID: "R", Site: "TTGGCCAA"}
	products := Assemble([]model.Binding{f, r}, cfg())
	if len(products) != 0 {
		t.Fatalf("expected no cross-chromosome products, got %d", len(products))
	}
}

func TestPenalty_OnlyPositiveDeviationsCount(t *testing.T) {
	f := model.Binding{Temp: 65, PerfectTemp: 60} // overperforms, should not be penalized
	r := model.Binding{Temp: 55, PerfectTemp: 60} // underperforms by 5
	pen := Penalty(f, r, 100, Config{PenaltyTmDiff: 2, PenaltyTmMis: 1, PenaltyLength: 0})
	// f contributes 0 (overperform), r contributes 5*2=10, mismatch |65-55|*1=10
	want := 10.0 + 10.0
	if pen != want {
		t.Fatalf("Penalty = %v, want %v", pen, want)
	}
}

func TestAssemble_CutoffPenaltyFilters(t *testing.T) {
	f := model.Binding{ChromIndex: 0, Position: 0, Orientation: model.Forward, PrimerID: "F", Temp: 40, PerfectTemp: 60, Site: "ACGTACGT"}
	r := model.Binding{ChromIndex: 0, Position: 100, Orientation: model.Reverse, PrimerID: "R", Temp: 60, PerfectTemp: 60, Site: "TTGGCCAA"}
	strict := cfg()
	strict.CutoffPenalty = 1 // very tight; the deviation above should exceed it
	products := Assemble([]model.Binding{f, r}, strict)
	if len(products) != 0 {
		t.Fatalf("expected the low-Tm pair to be filtered out, got %d", len(products))
	}
}

func TestRank_AscendingPenalty(t *testing.T) {
	ps := []model.Product{
		{ChromIndex: 0, ForwardPos: 0, ReversePos: 10, Penalty: 5},
		{ChromIndex: 0, ForwardPos: 1, ReversePos: 11, Penalty: 1},
	}
	Rank(ps)
	if ps[0].Penalty != 1 {
		t.Fatalf("expected ascending penalty order, got %+v", ps)
	}
}
