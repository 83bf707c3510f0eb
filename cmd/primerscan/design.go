package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"primerscan/internal/cmdutil"
	"primerscan/internal/config"
	"primerscan/internal/fastareader"
	"primerscan/internal/fmindex"
	"primerscan/internal/pipeline"
	"primerscan/internal/thermo"
	"primerscan/internal/writers"
)

// newDesignCmd builds either the "design" command (bindings + amplicon
// assembly) or, when pruneOverride is set, the "bindings" command (search
// only, spec §6's pruneprimer mode forced on regardless of the flag).
func newDesignCmd(v *viper.Viper, pruneOverride bool) *cobra.Command {
	use, short := "design", "Search for primer bindings and assemble PCR amplicons"
	if pruneOverride {
		use, short = "bindings", "Search for primer bindings only (skip amplicon assembly)"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, v, pruneOverride)
		},
	}
}

func runSearch(cmd *cobra.Command, v *viper.Viper, pruneOverride bool) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	if pruneOverride {
		cfg.Runtime.PrunePrimer = true
	}

	ref, err := fastareader.LoadReference(cfg.Reference)
	if err != nil {
		return fmt.Errorf("loading reference: %w", err)
	}
	primers, err := fastareader.LoadPrimers(cfg.Primers)
	if err != nil {
		return fmt.Errorf("loading primers: %w", err)
	}

	idx := loadOrBuildIndex(cmd, cfg.Reference, ref.Text, cfg.Runtime.Quiet)
	cond := cfg.ThermoConditions()
	newOracle := func() (*thermo.Oracle, error) {
		return thermo.Open(cfg.Thermo.TableDir, cond)
	}
	// Validate the table directory (if any) fails fast at startup, not on
	// the first worker to touch it (spec §7's configuration-error class).
	probe, err := newOracle()
	if err != nil {
		return fmt.Errorf("opening thermo oracle: %w", err)
	}
	_ = probe.Close()

	p := pipeline.New(cfg.PipelineConfig(), ref, idx, newOracle)
	p.SetWarn(func(format string, a ...any) {
		cmdutil.Warnf(cmd.ErrOrStderr(), cfg.Runtime.Quiet, format, a...)
	})

	bindings, products, report, err := p.Run(cmd.Context(), primers)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if report.Incomplete {
		cmdutil.Warnf(cmd.ErrOrStderr(), cfg.Runtime.Quiet, "result set is incomplete: %d neighborhood cap(s), %d match cap(s) reached",
			len(report.NeighborhoodCapped), len(report.MatchCapped))
	}

	out, closeOut, err := openOutfile(cmd, cfg.Runtime.Outfile)
	if err != nil {
		return fmt.Errorf("opening output: %w", err)
	}
	defer closeOut()

	if cfg.Runtime.PrunePrimer {
		return writers.WriteBindings(cfg.Runtime.Format, out, writers.BindingArgs{Bindings: bindings, Pretty: cfg.Runtime.Pretty})
	}
	return writers.WriteProducts(cfg.Runtime.Format, out, writers.ProductArgs{Products: products})
}

// loadOrBuildIndex honors spec §6's prebuilt-index contract: if a <ref>.fm9
// sidecar already exists, reload it instead of rebuilding the suffix array;
// otherwise build fresh and persist it (best-effort) for the next run.
func loadOrBuildIndex(cmd *cobra.Command, referencePath string, text []byte, quiet bool) *fmindex.Index {
	sidecar := fmindex.Sidecar(referencePath)
	if idx, err := fmindex.Load(sidecar, text); err == nil {
		return idx
	}
	idx := fmindex.New(text)
	if err := idx.Save(sidecar); err != nil {
		cmdutil.Warnf(cmd.ErrOrStderr(), quiet, "could not persist index sidecar %s: %v", sidecar, err)
	}
	return idx
}

func openOutfile(cmd *cobra.Command, path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}
