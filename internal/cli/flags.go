package cli

import (
	"time"

	"mspec/internal/config"
)

// Flags holds command-line flags
type Flags struct {
	ProjectPath   string
	SpecPath      string
	Namespace     string
	Member        string
	SpecTimeout   time.Duration
	Progress      bool
	ShowTraces    bool
	PartialReport bool
	ShowSpecs     bool
	MetricsFile   string
	OpenFailures  bool
	Verbose       bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		SpecPath:      f.SpecPath,
		Namespace:     f.Namespace,
		Member:        f.Member,
		SpecTimeout:   f.SpecTimeout,
		Progress:      f.Progress,
		ShowTraces:    f.ShowTraces,
		PartialReport: f.PartialReport,
		ShowSpecs:     f.ShowSpecs,
		MetricsFile:   f.MetricsFile,
		OpenFailures:  f.OpenFailures,
		Verbose:       f.Verbose,
	}
}

// Apply overlays the flags on cfg
func (f *Flags) Apply(cfg *config.Config) {
	cfg.ApplyFlags(f.ToConfigFlags())
	if f.ProjectPath != "" {
		cfg.ProjectPath = f.ProjectPath
	}
}
