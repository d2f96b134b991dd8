// Copyright © 2023-2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package config holds the options of a search in a YAML file, and maps
// them onto the options of the library packages. Missing values take
// the defaults.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/shenwei356/seedext/compo"
	"github.com/shenwei356/seedext/diag"
	"github.com/shenwei356/seedext/extend"
	"github.com/shenwei356/seedext/seed"
	"github.com/shenwei356/xopen"
	"gopkg.in/yaml.v3"
)

// ErrInvalidOptions means some option values are not valid.
var ErrInvalidOptions = errors.New("config: invalid options")

// Options is the options of a search.
type Options struct {
	Seed        SeedOptions        `yaml:"seed"`
	Extension   ExtensionOptions   `yaml:"extension"`
	Store       StoreOptions       `yaml:"store"`
	HitList     HitListOptions     `yaml:"hitList"`
	Composition CompositionOptions `yaml:"composition"`
	Logging     LoggingOptions     `yaml:"logging"`
}

// SeedOptions controls which seeds are extended.
type SeedOptions struct {
	WordLength     int `yaml:"wordLength"`
	TemplateLength int `yaml:"templateLength"`
	Window         int `yaml:"window"`
	MinStep        int `yaml:"minStep"`
	Cutoff         int `yaml:"cutoff"`
}

// ExtensionOptions controls ungapped extension.
type ExtensionOptions struct {
	Reward        int  `yaml:"reward"`
	Penalty       int  `yaml:"penalty"`
	XDrop         int  `yaml:"xDrop"`
	Approximate   bool `yaml:"approximate"`
	ReducedCutoff int  `yaml:"reducedCutoff"`
}

// StoreOptions selects and sizes the diagonal store.
type StoreOptions struct {
	Kind             string `yaml:"kind"` // table or stacks
	NumStacks        int    `yaml:"numStacks"`
	InitialStackSize int    `yaml:"initialStackSize"`
	MaxStackSize     int    `yaml:"maxStackSize"`
}

// HitListOptions sizes the hit list of a subject.
type HitListOptions struct {
	InitialCapacity int `yaml:"initialCapacity"`
	MaxCapacity     int `yaml:"maxCapacity"`
}

// CompositionOptions controls composition-based score adjustment.
type CompositionOptions struct {
	Mode                    string  `yaml:"mode"`
	Matrix                  string  `yaml:"matrix"` // BLOSUM62 or a matrix file
	Pseudocounts            int     `yaml:"pseudocounts"`
	FixedRE                 float64 `yaml:"fixedRE"`
	LambdaErrorTolerance    float64 `yaml:"lambdaErrorTolerance"`
	LambdaFunctionTolerance float64 `yaml:"lambdaFunctionTolerance"`
	LambdaMaxIterations     int     `yaml:"lambdaMaxIterations"`
	OptimizerTolerance      float64 `yaml:"optimizerTolerance"`
	OptimizerMaxIterations  int     `yaml:"optimizerMaxIterations"`
	MaxMatrixCells          int     `yaml:"maxMatrixCells"`
}

// LoggingOptions controls the level and format of logs.
type LoggingOptions struct {
	Level  string `yaml:"level"`  // debug, info, warn or error
	Format string `yaml:"format"` // text or json
}

// store kinds.
const (
	StoreTable  = "table"
	StoreStacks = "stacks"
)

// Default returns the default options.
func Default() *Options {
	s := seed.DefaultOptions
	e := extend.DefaultNuclOptions
	d := diag.DefaultStacksOptions
	c := compo.DefaultControllerOptions
	return &Options{
		Seed: SeedOptions{
			WordLength:     s.WordLength,
			TemplateLength: s.TemplateLength,
			Window:         s.Window,
			MinStep:        s.MinStep,
			Cutoff:         s.Cutoff,
		},
		Extension: ExtensionOptions{
			Reward:        e.Reward,
			Penalty:       e.Penalty,
			XDrop:         e.XDrop,
			Approximate:   e.Approximate,
			ReducedCutoff: e.ReducedCutoff,
		},
		Store: StoreOptions{
			Kind:             StoreTable,
			NumStacks:        d.NumStacks,
			InitialStackSize: d.InitialStackSize,
			MaxStackSize:     d.MaxStackSize,
		},
		HitList: HitListOptions{
			InitialCapacity: 64,
			MaxCapacity:     0,
		},
		Composition: CompositionOptions{
			Mode:                    c.Mode.String(),
			Matrix:                  "BLOSUM62",
			Pseudocounts:            c.Pseudocounts,
			FixedRE:                 c.FixedRE,
			LambdaErrorTolerance:    c.LambdaTolerance.ErrorTolerance,
			LambdaFunctionTolerance: c.LambdaTolerance.FunctionTolerance,
			LambdaMaxIterations:     c.LambdaTolerance.MaxIterations,
			OptimizerTolerance:      c.OptimizerTolerance,
			OptimizerMaxIterations:  c.OptimizerMaxIterations,
			MaxMatrixCells:          c.MaxMatrixCells,
		},
		Logging: LoggingOptions{
			Level:  "info",
			Format: "text",
		},
	}
}

// Parse parses options in YAML over the defaults, and validates them.
func Parse(data []byte) (*Options, error) {
	opt := Default()
	if err := yaml.Unmarshal(data, opt); err != nil {
		return nil, fmt.Errorf("config: parsing options: %w", err)
	}
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	return opt, nil
}

// Load reads options from a (possibly compressed) YAML file.
// An empty path gives the defaults.
func Load(path string) (*Options, error) {
	if path == "" {
		return Default(), nil
	}
	fh, err := xopen.Ropen(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	defer fh.Close()

	data, err := io.ReadAll(fh)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	opt, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return opt, nil
}

func invalid(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidOptions, fmt.Sprintf(format, a...))
}

// Validate checks the values.
func (o *Options) Validate() error {
	s := &o.Seed
	if s.WordLength <= 0 {
		return invalid("seed.wordLength should be positive: %d", s.WordLength)
	}
	if s.Window < 0 || s.MinStep < 0 || s.TemplateLength < 0 {
		return invalid("seed.window, seed.minStep and seed.templateLength should be >= 0")
	}
	if s.Window > 0 && s.TemplateLength > s.Window {
		return invalid("seed.templateLength (%d) should be <= seed.window (%d)", s.TemplateLength, s.Window)
	}

	e := &o.Extension
	if e.Reward <= 0 || e.Penalty >= 0 {
		return invalid("extension.reward should be positive and extension.penalty negative")
	}
	if e.XDrop <= 0 {
		return invalid("extension.xDrop should be positive: %d", e.XDrop)
	}
	if e.Approximate && e.ReducedCutoff > s.Cutoff {
		return invalid("extension.reducedCutoff (%d) should be <= seed.cutoff (%d) with extension.approximate",
			e.ReducedCutoff, s.Cutoff)
	}

	switch o.Store.Kind {
	case StoreTable:
	case StoreStacks:
		if o.Store.NumStacks <= 0 {
			return invalid("store.numStacks should be positive: %d", o.Store.NumStacks)
		}
		if o.Store.MaxStackSize < 0 {
			return invalid("store.maxStackSize should be >= 0: %d", o.Store.MaxStackSize)
		}
	default:
		return invalid("store.kind should be %s or %s: %q", StoreTable, StoreStacks, o.Store.Kind)
	}

	if o.HitList.InitialCapacity < 0 || o.HitList.MaxCapacity < 0 {
		return invalid("hitList capacities should be >= 0")
	}

	c := &o.Composition
	if _, err := compo.ParseMode(c.Mode); err != nil {
		return invalid("composition.mode: %s", err)
	}
	if c.Pseudocounts < 0 {
		return invalid("composition.pseudocounts should be >= 0: %d", c.Pseudocounts)
	}
	if c.LambdaErrorTolerance <= 0 || c.LambdaFunctionTolerance <= 0 || c.LambdaMaxIterations <= 0 {
		return invalid("composition lambda tolerances should be positive")
	}
	if c.OptimizerTolerance <= 0 || c.OptimizerMaxIterations <= 0 {
		return invalid("composition optimizer tolerances should be positive")
	}

	if _, err := parseLevel(o.Logging.Level); err != nil {
		return invalid("logging.level: %s", err)
	}
	switch strings.ToLower(o.Logging.Format) {
	case "text", "json":
	default:
		return invalid("logging.format should be text or json: %q", o.Logging.Format)
	}
	return nil
}

// SeedOptions returns the options of seed.Machine.
func (o *Options) SeedOptions() seed.Options {
	return seed.Options{
		WordLength:     o.Seed.WordLength,
		TemplateLength: o.Seed.TemplateLength,
		Window:         o.Seed.Window,
		MinStep:        o.Seed.MinStep,
		Cutoff:         o.Seed.Cutoff,
	}
}

// NuclOptions returns the options of extend.Nucleotide.
func (o *Options) NuclOptions() extend.NuclOptions {
	return extend.NuclOptions{
		Reward:        o.Extension.Reward,
		Penalty:       o.Extension.Penalty,
		XDrop:         o.Extension.XDrop,
		Approximate:   o.Extension.Approximate,
		ReducedCutoff: o.Extension.ReducedCutoff,
	}
}

// NewStore creates the diagonal store for a query.
func (o *Options) NewStore(queryLen int) (diag.Store, error) {
	if o.Store.Kind == StoreStacks {
		s, err := diag.NewStacks(&diag.StacksOptions{
			NumStacks:        o.Store.NumStacks,
			InitialStackSize: o.Store.InitialStackSize,
			MaxStackSize:     o.Store.MaxStackSize,
			Window:           o.Seed.Window,
			MinStep:          o.Seed.MinStep,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	t, err := diag.NewTable(queryLen, o.Seed.Window)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ControllerOptions returns the options of compo.Controller.
func (o *Options) ControllerOptions() (compo.ControllerOptions, error) {
	c := &o.Composition
	mode, err := compo.ParseMode(c.Mode)
	if err != nil {
		return compo.ControllerOptions{}, err
	}
	return compo.ControllerOptions{
		Mode:                   mode,
		Pseudocounts:           c.Pseudocounts,
		FixedRE:                c.FixedRE,
		OptimizerTolerance:     c.OptimizerTolerance,
		OptimizerMaxIterations: c.OptimizerMaxIterations,
		LambdaTolerance: compo.LambdaTolerance{
			ErrorTolerance:    c.LambdaErrorTolerance,
			FunctionTolerance: c.LambdaFunctionTolerance,
			MaxIterations:     c.LambdaMaxIterations,
		},
		MaxMatrixCells: c.MaxMatrixCells,
	}, nil
}

// Logger creates a logger writing to w.
func (l LoggingOptions) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(l.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(l.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown level: %q", level)
}
