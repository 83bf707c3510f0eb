// Package pipeline orchestrates the full search: for each candidate
// primer, neighbor generation -> index lookup -> context extraction ->
// alignment canonicalization -> thermodynamic filtering -> binding
// collection, then a chromosome-wise amplicon assembly pass over the
// frozen Bindings.
//
// Primer-axis parallelism (spec §5) is implemented with a bounded worker
// pool built on golang.org/x/sync/errgroup (grounded on the dependency set
// of the genomics example repo, which lists golang.org/x/sync). Each
// worker owns its own *thermo.Oracle handle rather than sharing
// process-global buffers, per the re-architecture note in spec §9.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"primerscan/internal/align"
	"primerscan/internal/amplicon"
	"primerscan/internal/binding"
	"primerscan/internal/ctxwindow"
	"primerscan/internal/dnaseq"
	"primerscan/internal/fmindex"
	"primerscan/internal/model"
	"primerscan/internal/neighbor"
	"primerscan/internal/reference"
	"primerscan/internal/thermo"
)

// Config holds the search parameters named in spec §6.
type Config struct {
	Kmer            int
	Distance        int
	AllowIndels     bool // edit-distance model instead of Hamming
	MaxNeighborhood int
	MaxMatches      int
	CutTemp         float64
	ContextPad      int // base context width around each raw hit
	Threads         int // 0 = runtime.NumCPU()

	Amplicon    amplicon.Config
	PrunePrimer bool // skip amplicon assembly, emit Bindings only
}

// Report summarizes non-fatal capacity warnings from a run (spec §7).
type Report struct {
	Incomplete         bool
	NeighborhoodCapped []string // primer ids whose neighborhood cap was hit
	MatchCapped        []string // primer ids whose match cap was hit
}

func (r *Report) noteNeighborhoodCap(primerID string) {
	r.Incomplete = true
	r.NeighborhoodCapped = append(r.NeighborhoodCapped, primerID)
}

func (r *Report) noteMatchCap(primerID string) {
	r.Incomplete = true
	r.MatchCapped = append(r.MatchCapped, primerID)
}

// Pipeline wires together the read-only Reference/Index against a stream
// of candidate primers.
type Pipeline struct {
	cfg       Config
	ref       *reference.Reference
	idx       *fmindex.Index
	newOracle func() (*thermo.Oracle, error)
	collector *binding.Collector
	warn      func(format string, a ...any)
}

// New constructs a Pipeline. newOracle must return an independent Oracle
// handle each call (§5): the pipeline calls it once per primer.
func New(cfg Config, ref *reference.Reference, idx *fmindex.Index, newOracle func() (*thermo.Oracle, error)) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		ref:       ref,
		idx:       idx,
		newOracle: newOracle,
		collector: binding.NewCollector(),
		warn:      func(string, ...any) {},
	}
}

// SetWarn installs a callback used to surface capacity warnings as they
// happen (spec §7); by default warnings are only aggregated into Report.
func (p *Pipeline) SetWarn(fn func(format string, a ...any)) { p.warn = fn }

// Run processes every primer (optionally in parallel) and returns the
// frozen, ranked Binding list, and -- unless PrunePrimer is set -- the
// ranked Product list. A Thermo Oracle failure aborts the whole run (§7).
func (p *Pipeline) Run(ctx context.Context, primers []model.Primer) ([]model.Binding, []model.Product, *Report, error) {
	report := &Report{}
	var reportMu sync.Mutex

	threads := p.cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)

	for _, primer := range primers {
		primer := primer
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			oracle, err := p.newOracle()
			if err != nil {
				return fmt.Errorf("pipeline: opening thermo oracle: %w", err)
			}
			defer oracle.Close()

			warnings, err := p.processPrimer(gctx, primer, oracle)
			if err != nil {
				return err
			}
			reportMu.Lock()
			for _, w := range warnings.neighborhood {
				report.noteNeighborhoodCap(w)
				p.warn("neighborhood cap reached for primer %s", w)
			}
			for _, w := range warnings.matches {
				report.noteMatchCap(w)
				p.warn("match cap reached for primer %s", w)
			}
			reportMu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, report, err
	}

	bindings := p.collector.Bindings()
	if p.cfg.PrunePrimer {
		return bindings, nil, report, nil
	}
	products := amplicon.Assemble(bindings, p.cfg.Amplicon)
	return bindings, products, report, nil
}

type primerWarnings struct {
	neighborhood []string
	matches      []string
}

// processPrimer runs the neighbor -> locate -> extract -> canonicalize ->
// thermo -> collect chain for a single primer. Every operation here is
// sequentially ordered (spec §5); it touches only this primer's own
// scratch state and the shared, internally-locked binding.Collector.
func (p *Pipeline) processPrimer(ctx context.Context, primer model.Primer, oracle *thermo.Oracle) (primerWarnings, error) {
	var warn primerWarnings

	seq := primer.Seq
	k := p.cfg.Kmer
	if k > len(seq) {
		k = len(seq)
	}
	kOffset := len(seq) - k
	kSuffix := seq[len(seq)-k:]
	rcKSuffix := dnaseq.RevCompString(kSuffix)

	fwdN := neighbor.Generate(kSuffix, p.cfg.Distance, p.cfg.AllowIndels, p.cfg.MaxNeighborhood)
	revN := neighbor.Generate(rcKSuffix, p.cfg.Distance, p.cfg.AllowIndels, p.cfg.MaxNeighborhood)
	if fwdN.Truncated || revN.Truncated {
		warn.neighborhood = append(warn.neighborhood, primer.ID)
	}

	pre := p.cfg.ContextPad + kOffset
	post := p.cfg.ContextPad
	if p.cfg.AllowIndels {
		pre += p.cfg.Distance
		post += p.cfg.Distance
	}

	var scratch align.Scratch
	matchCapped := false

	scan := func(neighbors map[string]struct{}, orientation model.Orientation, search string) error {
		for n := range neighbors {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			offsets, truncated := p.idx.Locate([]byte(n), p.cfg.MaxMatches)
			if truncated {
				matchCapped = true
			}
			for _, o := range offsets {
				window, windowStart := ctxwindow.Extract(p.ref.Text, o, len(n), pre, post)
				res := align.Canonicalize([]byte(search), window, &scratch)

				shift := res.AlignShift
				if orientation == model.Forward {
					shift -= kOffset
					if shift < 0 {
						// Resolved open question (spec §9): a forward hit
						// whose canonical position would fall before the
						// k-suffix anchor is dropped, not clamped.
						continue
					}
				}
				canonicalGlobal := windowStart + shift

				if err := p.emit(canonicalGlobal, orientation, primer, oracle); err != nil {
					return err
				}
			}
		}
		return nil
	}

	if err := scan(fwdN.Set, model.Forward, kSuffix); err != nil {
		return warn, err
	}
	if err := scan(revN.Set, model.Reverse, rcKSuffix); err != nil {
		return warn, err
	}
	if matchCapped {
		warn.matches = append(warn.matches, primer.ID)
	}
	return warn, nil
}

func (p *Pipeline) emit(canonicalGlobal int, orientation model.Orientation, primer model.Primer, oracle *thermo.Oracle) error {
	primerLen := len(primer.Seq)
	if canonicalGlobal < 0 || canonicalGlobal+primerLen > p.ref.Len() {
		return nil
	}
	site := p.ref.Text[canonicalGlobal : canonicalGlobal+primerLen]
	if bytes.IndexByte(site, reference.Separator) >= 0 {
		return nil // window would span a sequence boundary; not a real site
	}
	chromIdx, localPos := p.ref.Map(canonicalGlobal)
	if chromIdx < 0 {
		return nil
	}

	// spec §4.5: forward orientation submits the reverse-complement
	// primer to the oracle; reverse orientation submits the primer as-is.
	var submitted []byte
	if orientation == model.Forward {
		submitted = dnaseq.RevComp([]byte(primer.Seq))
	} else {
		submitted = []byte(primer.Seq)
	}

	temp, err := oracle.DuplexTm(submitted, site)
	if err != nil {
		return fmt.Errorf("pipeline: thermo oracle failed for primer %s: %w", primer.ID, err)
	}
	if temp <= p.cfg.CutTemp {
		return nil
	}
	perfect, err := oracle.PerfectTm(submitted)
	if err != nil {
		return fmt.Errorf("pipeline: thermo oracle failed for primer %s: %w", primer.ID, err)
	}

	p.collector.Add(model.Binding{
		ChromIndex:  chromIdx,
		Position:    localPos,
		Orientation: orientation,
		Temp:        temp,
		PerfectTemp: perfect,
		PrimerID:    primer.ID,
		PrimerSeq:   string(submitted),
		Site:        string(site),
	})
	return nil
}
