package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// usageError marks a bad invocation (unknown/malformed flags, an unknown
// subcommand, unexpected positional arguments) as distinct from a runtime
// configuration or search failure. The original tool's exit codes
// (_examples/original_source/src/design.h: "if (help || !count(input-file) ||
// !count(genome)) return -1;" versus "return 1" for every other failure)
// split exactly the same way.
type usageError struct{ err error }

func (u *usageError) Error() string { return u.err.Error() }
func (u *usageError) Unwrap() error { return u.err }

// Execute builds the cobra command tree and runs it against argv, in the
// shape appshell.Main expects. Grounded on the CLI-example repo's
// cmd/root.go + flag/viper wiring, generalized from its subcommand set to
// design/bindings/version.
func Execute(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	v := viper.New()
	root := newRootCmd(v)
	root.SetArgs(argv)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	// SilenceErrors keeps cobra from printing its own usage-heavy error
	// report (we've already distinguished usage from runtime errors
	// ourselves); print the bare message instead.
	fmt.Fprintln(stderr, "Error:", err)

	var u *usageError
	if errors.As(err, &u) || strings.HasPrefix(err.Error(), "unknown command ") {
		return -1
	}
	return 1
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:           "primerscan",
		Short:         "Search a reference genome for primer binding sites and PCR amplicons",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
	}
	// SetFlagErrorFunc is inherited by every subcommand that doesn't set
	// its own, so a malformed --flag anywhere in the tree is reported
	// as a usage error.
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err}
	})

	bindSearchFlags(root, v)
	root.AddCommand(newDesignCmd(v, false))
	root.AddCommand(newDesignCmd(v, true))
	root.AddCommand(newVersionCmd())
	return root
}

func bindSearchFlags(cmd *cobra.Command, v *viper.Viper) {
	fl := cmd.PersistentFlags()

	fl.StringP("reference", "r", "", "reference FASTA file (required)")
	fl.StringP("primers", "p", "", "candidate-primer FASTA file (required)")

	fl.Int("kmer", 15, "k-mer anchor length")
	fl.Int("distance", 1, "neighborhood radius")
	fl.Bool("hamming", false, "use the Hamming (substitution-only) distance model instead of edit-distance")
	fl.Int("max-neighborhood", 10000, "per-primer neighborhood candidate cap")
	fl.Int("maxmatches", 10000, "per-primer index-hit cap")
	fl.Float64("cut-temp", 45.0, "minimum realized melting temperature to retain a binding")
	fl.Int("context-pad", 0, "extra base context extracted around each raw hit, beyond the k-offset/distance margin the pipeline always reserves")

	fl.Int("max-prod-size", 15000, "maximum amplicon length")
	fl.Float64("cutoff-penalty", -1, "maximum product penalty; negative keeps all products")
	fl.Float64("penalty-tm-diff", 1.0, "penalty weight for perfect-vs-realized Tm deviation")
	fl.Float64("penalty-tm-mismatch", 1.0, "penalty weight for forward/reverse Tm mismatch")
	fl.Float64("penalty-length", 0.001, "penalty weight per base of product length")

	fl.String("thermo-table-dir", "", "directory of nearest-neighbor thermodynamic tables (optional)")
	fl.Float64("enttemp", 37.0, "thermo reference temperature, °C")
	fl.Float64("monovalent", 0.05, "monovalent cation concentration, mol/L")
	fl.Float64("divalent", 0.0, "divalent cation concentration, mol/L")
	fl.Float64("dna", 2.5e-7, "total primer strand concentration, mol/L")
	fl.Float64("dntp", 0.0, "dNTP concentration, mol/L")

	fl.Int("threads", 0, "worker pool size (0 = number of CPUs)")
	fl.StringP("outfile", "o", "-", "output file (\"-\" for stdout)")
	fl.String("format", "text", "output format: text, json, or jsonl")
	fl.Bool("pretty", false, "include an ASCII alignment QC block in text output")
	fl.Bool("quiet", false, "suppress capacity warnings")

	for _, name := range []string{
		"reference", "primers",
		"kmer", "distance", "hamming", "max-neighborhood", "maxmatches", "cut-temp", "context-pad",
		"max-prod-size", "cutoff-penalty", "penalty-tm-diff", "penalty-tm-mismatch", "penalty-length",
		"thermo-table-dir", "enttemp", "monovalent", "divalent", "dna", "dntp",
		"threads", "outfile", "format", "pretty", "quiet",
	} {
		_ = v.BindPFlag(flagKey(name), fl.Lookup(name))
	}
}

// flagKey maps a flag's flat CLI name onto the dotted mapstructure key the
// nested config.Config expects. Every flag here is named identically to its
// Config field's mapstructure tag, so this is purely a section lookup.
func flagKey(name string) string {
	switch name {
	case "reference", "primers":
		return name
	case "kmer", "distance", "hamming", "max-neighborhood", "maxmatches", "cut-temp", "context-pad":
		return "search." + name
	case "max-prod-size", "cutoff-penalty", "penalty-tm-diff", "penalty-tm-mismatch", "penalty-length":
		return "amplicon." + name
	case "thermo-table-dir", "enttemp", "monovalent", "divalent", "dna", "dntp":
		return "thermo." + name
	case "threads", "outfile", "format", "pretty", "quiet":
		return "runtime." + name
	}
	return name
}
