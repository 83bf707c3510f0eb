// Package thermo is the Thermo Oracle: it computes duplex melting
// temperatures for a primer against a realized genomic binding site, as
// well as the primer's theoretical perfect-match Tm, from built-in
// nearest-neighbor tables (no table files are read from disk).
//
// The nearest-neighbor stacking math is adapted from the teacher's own
// core/thermo (SantaLucia unified parameters); the per-position mismatch
// penalty model is adapted from the teacher's core/thermoaddons mismatch
// tables. Both are stdlib-only (math) -- no library in the
// example pack supplies an alternative nearest-neighbor Tm implementation
// (see DESIGN.md).
package thermo

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// Conditions mirrors the oracle's configured solution parameters (spec §6):
// annealing temperature and monovalent/divalent/DNA/dNTP concentrations.
type Conditions struct {
	EntTempC    float64 // annealing/entropy reference temperature, °C (informational)
	MonovalentM float64 // mol/L, e.g. Na+/K+
	DivalentM   float64 // mol/L, e.g. Mg2+
	DNAConcM    float64 // mol/L, total primer strand concentration
	DNTPConcM   float64 // mol/L, dNTP concentration (chelates Mg2+)
}

// Oracle holds thermodynamic tables loaded once and a fixed set of
// solution Conditions. Each worker in a parallel pipeline should own its
// own Oracle handle (§5/§9) rather than share process-global buffers.
type Oracle struct {
	cond   Conditions
	tables nnTables
	closed bool
}

// Sentinel is the file whose presence validates a thermo parameter
// directory (spec §6).
const Sentinel = "tetraloop.dh"

// Open validates dir (by the presence of Sentinel) when dir is non-empty,
// and returns an Oracle over the built-in nearest-neighbor tables; no file
// in dir is read. Callers must Close the returned Oracle on every exit path.
func Open(dir string, cond Conditions) (*Oracle, error) {
	if dir != "" {
		if _, err := os.Stat(filepath.Join(dir, Sentinel)); err != nil {
			return nil, fmt.Errorf("thermo: table directory %q missing sentinel %s: %w", dir, Sentinel, err)
		}
	}
	return &Oracle{cond: cond, tables: builtinTables}, nil
}

// Close marks the oracle closed; later calls return ErrOracleClosed. Safe
// to call multiple times.
func (o *Oracle) Close() error {
	o.closed = true
	return nil
}

// ErrOracleClosed is returned by any call made after Close.
var ErrOracleClosed = fmt.Errorf("thermo: oracle is closed")

// PerfectTm returns the Tm of primer (5'->3') against its own exact
// Watson-Crick complement under the oracle's configured conditions.
func (o *Oracle) PerfectTm(primer []byte) (float64, error) {
	if o.closed {
		return 0, ErrOracleClosed
	}
	return o.nnTm(primer)
}

// DuplexTm returns the realized melting temperature of primer against the
// genomic window it was found at. window must be the same length as
// primer (the Binding Collector is responsible for that invariant); any
// position where window diverges from primer is treated as a mismatch and
// penalized relative to the perfect-match Tm.
func (o *Oracle) DuplexTm(primer, window []byte) (float64, error) {
	if o.closed {
		return 0, ErrOracleClosed
	}
	if len(primer) != len(window) {
		return 0, fmt.Errorf("thermo: primer/window length mismatch (%d vs %d)", len(primer), len(window))
	}
	perfect, err := o.nnTm(primer)
	if err != nil {
		return 0, err
	}
	n := len(primer)
	var penalty float64
	for i := 0; i < n; i++ {
		p, w := upper(primer[i]), upper(window[i])
		if p == w {
			continue
		}
		penalty += pairDeltaTm(p, w) * posMultiplier(i, n)
	}
	return perfect - penalty, nil
}

// nnTm computes the nearest-neighbor Tm of primer against its own perfect
// complement, salt-corrected for the oracle's Conditions.
func (o *Oracle) nnTm(primer []byte) (float64, error) {
	n := len(primer)
	if n < 2 {
		return 0, fmt.Errorf("thermo: primer too short (%d bases)", n)
	}
	dh, ds := o.tables.initDH, o.tables.initDS
	for i := 0; i < n-1; i++ {
		a, b := upper(primer[i]), upper(primer[i+1])
		key := string([]byte{a, b})
		dhv, okH := o.tables.dh[key]
		dsv, okS := o.tables.ds[key]
		if !okH || !okS {
			return 0, fmt.Errorf("thermo: non-ACGT base pair %q in primer", key)
		}
		dh += dhv
		ds += dsv
	}
	if isSelfComplementary(primer) {
		ds += o.tables.symmetryDS
	}

	naEff := effectiveMonovalent(o.cond.MonovalentM, o.cond.DivalentM, o.cond.DNTPConcM)
	if naEff <= 0 {
		naEff = 1e-6
	}
	ds += 0.368 * float64(n-1) * math.Log(naEff)

	ct := o.cond.DNAConcM
	if ct <= 0 {
		ct = 2.5e-7 // 250 nM default total strand concentration
	}
	cfactor := 4.0
	if isSelfComplementary(primer) {
		cfactor = 1.0
	}
	den := ds + rCal*math.Log(ct/cfactor)
	tmK := (dh * 1000.0) / den
	return tmK - 273.15, nil
}

const rCal = 1.9872

// nnTables holds the SantaLucia unified nearest-neighbor parameters.
type nnTables struct {
	dh, ds         map[string]float64
	initDH, initDS float64
	symmetryDS     float64
}

var builtinTables = nnTables{
	dh: map[string]float64{
		"AA": -7.9, "TT": -7.9, "AT": -7.2, "TA": -7.2,
		"CA": -8.5, "TG": -8.5, "GT": -8.4, "AC": -8.4,
		"CT": -7.8, "AG": -7.8, "GA": -8.2, "TC": -8.2,
		"CG": -10.6, "GC": -9.8, "GG": -8.0, "CC": -8.0,
	},
	ds: map[string]float64{
		"AA": -22.2, "TT": -22.2, "AT": -20.4, "TA": -21.3,
		"CA": -22.7, "TG": -22.7, "GT": -22.4, "AC": -22.4,
		"CT": -21.0, "AG": -21.0, "GA": -22.2, "TC": -22.2,
		"CG": -27.2, "GC": -24.4, "GG": -19.9, "CC": -19.9,
	},
	initDH:     0.2,
	initDS:     -5.7,
	symmetryDS: -1.4,
}

// effectiveMonovalent folds a (possibly dNTP-chelated) divalent cation
// concentration into a single Na+-equivalent for the salt correction, the
// way the teacher's thermoaddons.EffectiveMonovalent does for Mg2+.
func effectiveMonovalent(naM, mgM, dntpM float64) float64 {
	freeMg := mgM - dntpM
	if freeMg <= 0 {
		return naM
	}
	return naM + 3.8*math.Sqrt(freeMg)
}

var pairDeltaTmTable = map[[2]byte]float64{
	{'G', 'T'}: 2.0, {'T', 'G'}: 2.0,
	{'A', 'C'}: 4.0, {'C', 'A'}: 4.0,
	{'A', 'A'}: 5.0, {'C', 'C'}: 5.0, {'G', 'G'}: 5.0, {'T', 'T'}: 5.0,
	{'A', 'G'}: 4.0, {'G', 'A'}: 4.0, {'C', 'T'}: 4.0, {'T', 'C'}: 4.0,
	{'A', 'T'}: 4.5, {'T', 'A'}: 4.5, {'C', 'G'}: 4.5, {'G', 'C'}: 4.5,
}

func pairDeltaTm(primerBase, targetBase byte) float64 {
	if primerBase == targetBase {
		return 0
	}
	if v, ok := pairDeltaTmTable[[2]byte{primerBase, targetBase}]; ok {
		return v
	}
	return 4.0
}

// posMultiplier weights mismatches near either primer end more heavily:
// 3' mismatches (last 3 bases) destabilize a PCR duplex the most.
func posMultiplier(i, n int) float64 {
	if n <= 0 {
		return 1.0
	}
	if i >= n-3 {
		return 2.0
	}
	if i <= 2 {
		return 1.5
	}
	return 1.0
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

func isSelfComplementary(s []byte) bool {
	n := len(s)
	for i := 0; i < n; i++ {
		a, b := upper(s[i]), upper(s[n-1-i])
		if !isComplementPair(a, b) {
			return false
		}
	}
	return true
}

func isComplementPair(a, b byte) bool {
	switch a {
	case 'A':
		return b == 'T'
	case 'T':
		return b == 'A'
	case 'C':
		return b == 'G'
	case 'G':
		return b == 'C'
	}
	return false
}

