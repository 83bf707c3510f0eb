// Package dnaseq holds small DNA-alphabet primitives shared by the search
// pipeline: reverse-complement and the unambiguous k-mer alphabet.
package dnaseq

// complement maps a base (including IUPAC ambiguity codes) to its
// Watson-Crick complement. Bases with no defined complement map to 'N'.
var complement [256]byte

func init() {
	complement['A'] = 'T'
	complement['C'] = 'G'
	complement['G'] = 'C'
	complement['T'] = 'A'
	complement['R'] = 'Y'
	complement['Y'] = 'R'
	complement['S'] = 'S'
	complement['W'] = 'W'
	complement['K'] = 'M'
	complement['M'] = 'K'
	complement['B'] = 'V'
	complement['V'] = 'B'
	complement['D'] = 'H'
	complement['H'] = 'D'
	complement['N'] = 'N'
}

// RevComp returns the reverse complement of seq.
func RevComp(seq []byte) []byte {
	n := len(seq)
	if n == 0 {
		return nil
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		b := seq[n-1-i]
		c := complement[b]
		if c == 0 {
			c = 'N'
		}
		out[i] = c
	}
	return out
}

// RevCompString is the string-typed convenience wrapper around RevComp.
func RevCompString(seq string) string {
	return string(RevComp([]byte(seq)))
}

// Alphabet is the unambiguous DNA alphabet used for neighborhood enumeration.
var Alphabet = [4]byte{'A', 'C', 'G', 'T'}
