// Package config is for app-wide settings unmarshalled from Viper, over the
// defaults below. cmd/primerscan binds only its CLI flags to that Viper
// instance; no settings file or environment variables are read.
//
// Grounded on the config-example repo's config/config.go: a root Config
// struct of mapstructure-tagged sub-structs, populated via a single
// viper.Unmarshal call.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"primerscan/internal/amplicon"
	"primerscan/internal/pipeline"
	"primerscan/internal/thermo"
)

// SearchConfig holds the Neighbor Generator / Index Locator / Binding
// Collector parameters (spec §6).
type SearchConfig struct {
	Kmer            int     `mapstructure:"kmer"`
	Distance        int     `mapstructure:"distance"`
	Hamming         bool    `mapstructure:"hamming"` // true selects the Hamming model; default is edit-distance
	MaxNeighborhood int     `mapstructure:"max-neighborhood"`
	MaxMatches      int     `mapstructure:"maxmatches"`
	CutTemp         float64 `mapstructure:"cut-temp"`
	ContextPad      int     `mapstructure:"context-pad"`
}

// ThermoConfig holds the Thermo Oracle's solution conditions and table
// path.
type ThermoConfig struct {
	TableDir   string  `mapstructure:"thermo-table-dir"`
	EntTempC   float64 `mapstructure:"enttemp"`
	Monovalent float64 `mapstructure:"monovalent"`
	Divalent   float64 `mapstructure:"divalent"`
	DNAConc    float64 `mapstructure:"dna"`
	DNTPConc   float64 `mapstructure:"dntp"`
}

// AmpliconConfig holds the Amplicon Assembler's length and penalty
// parameters.
type AmpliconConfig struct {
	MaxProdSize       int     `mapstructure:"max-prod-size"`
	CutoffPenalty     float64 `mapstructure:"cutoff-penalty"`
	PenaltyTmDiff     float64 `mapstructure:"penalty-tm-diff"`
	PenaltyTmMismatch float64 `mapstructure:"penalty-tm-mismatch"`
	PenaltyLength     float64 `mapstructure:"penalty-length"`
}

// RuntimeConfig holds scheduling and I/O settings (spec §5/§6).
type RuntimeConfig struct {
	Threads     int    `mapstructure:"threads"`
	PrunePrimer bool   `mapstructure:"pruneprimer"`
	Outfile     string `mapstructure:"outfile"`
	Format      string `mapstructure:"format"`
	Pretty      bool   `mapstructure:"pretty"`
	Quiet       bool   `mapstructure:"quiet"`
}

// Config is the root-level settings struct. Every field except
// Runtime.PrunePrimer has a command-line flag; PrunePrimer is set by the
// "bindings" command.
type Config struct {
	Reference string `mapstructure:"reference"`
	Primers   string `mapstructure:"primers"`

	Search   SearchConfig   `mapstructure:"search"`
	Thermo   ThermoConfig   `mapstructure:"thermo"`
	Amplicon AmpliconConfig `mapstructure:"amplicon"`
	Runtime  RuntimeConfig  `mapstructure:"runtime"`
}

// Defaults mirror spec §6's default column. Hamming defaults to false (edit
// distance): the original tool only sets indel=false when --hamming is
// explicitly passed (_examples/original_source/src/design.h: "if
// (!vm.count("hamming")) c.indel = true;"). ContextPad defaults to 0 for the
// same reason: the original hardcodes pre_context=post_context=0 and widens
// them only by distance in indel mode (design.h: "c.pre_context = 0; ...
// if (c.indel) { c.pre_context += c.distance; ... }"); pipeline.go applies
// that same distance-widening on top of ContextPad.
func Defaults() Config {
	return Config{
		Search: SearchConfig{
			Kmer:            15,
			Distance:        1,
			Hamming:         false,
			MaxNeighborhood: 10000,
			MaxMatches:      10000,
			CutTemp:         45.0,
			ContextPad:      0,
		},
		Thermo: ThermoConfig{
			EntTempC:   37.0,
			Monovalent: 0.05,
			Divalent:   0.0,
			DNAConc:    2.5e-7,
			DNTPConc:   0.0,
		},
		Amplicon: AmpliconConfig{
			MaxProdSize:       15000,
			CutoffPenalty:     -1,
			PenaltyTmDiff:     1.0,
			PenaltyTmMismatch: 1.0,
			PenaltyLength:     0.001,
		},
		Runtime: RuntimeConfig{
			Threads: 0,
			Outfile: "-",
			Format:  "text",
		},
	}
}

// Load populates a Config from the values set in v (the bound CLI flags,
// in cmd/primerscan), starting from Defaults so unset keys keep
// spec-mandated defaults.
func Load(v *viper.Viper) (Config, error) {
	c := Defaults()
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: unable to decode settings: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings that would make the pipeline meaningless
// (spec §7's "configuration error" class).
func (c Config) Validate() error {
	if c.Reference == "" {
		return fmt.Errorf("config: reference path is required")
	}
	if c.Primers == "" {
		return fmt.Errorf("config: primers path is required")
	}
	if c.Search.Kmer <= 0 {
		return fmt.Errorf("config: kmer must be positive, got %d", c.Search.Kmer)
	}
	if c.Search.Distance < 0 {
		return fmt.Errorf("config: distance must be non-negative, got %d", c.Search.Distance)
	}
	return nil
}

// PipelineConfig translates the unmarshalled settings into a
// pipeline.Config, the shape internal/pipeline actually consumes.
func (c Config) PipelineConfig() pipeline.Config {
	return pipeline.Config{
		Kmer:            c.Search.Kmer,
		Distance:        c.Search.Distance,
		AllowIndels:     !c.Search.Hamming,
		MaxNeighborhood: c.Search.MaxNeighborhood,
		MaxMatches:      c.Search.MaxMatches,
		CutTemp:         c.Search.CutTemp,
		ContextPad:      c.Search.ContextPad,
		Threads:         c.Runtime.Threads,
		PrunePrimer:     c.Runtime.PrunePrimer,
		Amplicon: amplicon.Config{
			MaxProdSize:   c.Amplicon.MaxProdSize,
			CutoffPenalty: c.Amplicon.CutoffPenalty,
			PenaltyTmDiff: c.Amplicon.PenaltyTmDiff,
			PenaltyTmMis:  c.Amplicon.PenaltyTmMismatch,
			PenaltyLength: c.Amplicon.PenaltyLength,
		},
	}
}

// ThermoConditions translates the unmarshalled settings into
// thermo.Conditions.
func (c Config) ThermoConditions() thermo.Conditions {
	return thermo.Conditions{
		EntTempC:    c.Thermo.EntTempC,
		MonovalentM: c.Thermo.Monovalent,
		DivalentM:   c.Thermo.Divalent,
		DNAConcM:    c.Thermo.DNAConc,
		DNTPConcM:   c.Thermo.DNTPConc,
	}
}
