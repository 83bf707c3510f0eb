package writers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"primerscan/internal/model"
)

// BindingArgs is the payload passed to a binding-format writer.
type BindingArgs struct {
	Bindings []model.Binding
	Pretty   bool // emit an ASCII alignment block per binding in text format
}

// ProductArgs is the payload passed to a product-format writer.
type ProductArgs struct {
	Products []model.Product
}

func init() {
	RegisterBinding(FormatJSON, func(w io.Writer, payload interface{}) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(payload.(BindingArgs).Bindings)
	})
	RegisterProduct(FormatJSON, func(w io.Writer, payload interface{}) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(payload.(ProductArgs).Products)
	})

	RegisterBinding(FormatText, func(w io.Writer, payload interface{}) error {
		args := payload.(BindingArgs)
		bw := newTabWriter(w)
		fmt.Fprintln(bw, "chrom\tposition\torientation\tprimer\ttemp\tperfect_temp\tsite")
		for _, b := range args.Bindings {
			fmt.Fprintf(bw, "%d\t%d\t%s\t%s\t%.2f\t%.2f\t%s\n",
				b.ChromIndex, b.Position, b.Orientation, b.PrimerID, b.Temp, b.PerfectTemp, b.Site)
		}
		if err := bw.Flush(); err != nil {
			return err
		}
		if args.Pretty {
			for _, b := range args.Bindings {
				fmt.Fprintln(w, renderBindingBlock(b))
			}
		}
		return nil
	})

	RegisterProduct(FormatText, func(w io.Writer, payload interface{}) error {
		args := payload.(ProductArgs)
		bw := newTabWriter(w)
		fmt.Fprintln(bw, "chrom\tforward_pos\treverse_pos\tforward_primer\treverse_primer\tlength\tpenalty")
		for _, p := range args.Products {
			fmt.Fprintf(bw, "%d\t%d\t%d\t%s\t%s\t%d\t%.4f\n",
				p.ChromIndex, p.ForwardPos, p.ReversePos, p.ForwardPrimerID, p.ReversePrimerID, p.Length, p.Penalty)
		}
		return bw.Flush()
	})
}

// matchLine draws a '|' under every position where primer and site agree
// and a space where they mismatch, condensed from the teacher's
// internal/pretty.matchLineAmbig (which additionally distinguished IUPAC
// partial matches -- spec §3 restricts primers to plain {A,C,G,T}, so a
// position is either an exact match or a mismatch here).
func matchLine(primer, site string) string {
	n := len(primer)
	if len(site) < n {
		n = len(site)
	}
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		if primer[i] == site[i] {
			b.WriteByte('|')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// renderBindingBlock draws a three-line QC view of a binding: the
// same-sense primer, a match/mismatch bar, and the matched genomic site,
// in the spirit of the teacher's internal/pretty ASCII alignment blocks
// (condensed to a single primer/site pair rather than a full
// forward+reverse amplicon render).
func renderBindingBlock(b model.Binding) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s binding for %s at chrom %d:%d (Tm=%.2f, perfect=%.2f)\n",
		b.Orientation, b.PrimerID, b.ChromIndex, b.Position, b.Temp, b.PerfectTemp)
	fmt.Fprintf(&sb, "# %s\n", b.PrimerSeq)
	fmt.Fprintf(&sb, "# %s\n", matchLine(b.PrimerSeq, b.Site))
	fmt.Fprintf(&sb, "# %s", b.Site)
	return sb.String()
}
