// Package config assembles the options of one formiac run.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/sarchlab/formia/backend"
)

// The record document formats.
const (
	RecordsNone = "none"
	RecordsJSON = "json"
	RecordsYAML = "yaml"
)

// NoRollback leaves the trace log as the last pass produced it.
const NoRollback = -1

// Options configures one compiler run.
type Options struct {
	Source      string
	OutputDir   string
	Formats     []string
	Optimize    bool
	Records     string
	Diagnostics bool
	Lint        bool
	Watch       bool
	LogLevel    slog.Level
	MaxUnroll   int
	Rollback    int
}

// Builder creates Options.
type Builder struct {
	opts     Options
	logLevel string
}

// NewBuilder returns a builder holding the defaults: asm output next to the
// current directory, optimizer on, no record document, info logging.
func NewBuilder() Builder {
	return Builder{
		opts: Options{
			OutputDir: ".",
			Formats:   []string{"asm"},
			Optimize:  true,
			Records:   RecordsNone,
			Rollback:  NoRollback,
		},
		logLevel: "info",
	}
}

// WithSource sets the source file.
func (b Builder) WithSource(path string) Builder {
	b.opts.Source = path
	return b
}

// WithOutputDir sets where artifacts are written.
func (b Builder) WithOutputDir(dir string) Builder {
	b.opts.OutputDir = dir
	return b
}

// WithFormats sets the backends to run, e.g. "asm,raw".
func (b Builder) WithFormats(list string) Builder {
	var formats []string
	for _, f := range strings.Split(list, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}

	b.opts.Formats = formats
	return b
}

// WithOptimize turns the optimizer on or off.
func (b Builder) WithOptimize(on bool) Builder {
	b.opts.Optimize = on
	return b
}

// WithRecords selects the record document format.
func (b Builder) WithRecords(format string) Builder {
	b.opts.Records = format
	return b
}

// WithDiagnostics enables the diagnostic tables.
func (b Builder) WithDiagnostics(on bool) Builder {
	b.opts.Diagnostics = on
	return b
}

// WithLint enables the IR lint report.
func (b Builder) WithLint(on bool) Builder {
	b.opts.Lint = on
	return b
}

// WithWatch makes the compiler rerun whenever the source changes.
func (b Builder) WithWatch(on bool) Builder {
	b.opts.Watch = on
	return b
}

// WithLogLevel sets the log level: debug, info, trace, warn or error.
func (b Builder) WithLogLevel(level string) Builder {
	b.logLevel = level
	return b
}

// WithMaxUnroll caps loop unrolling. Zero means no cap.
func (b Builder) WithMaxUnroll(n int) Builder {
	b.opts.MaxUnroll = n
	return b
}

// WithRollback rolls the trace log back to the given snapshot version
// before diagnostics are printed. 0 is the latest snapshot.
func (b Builder) WithRollback(version int) Builder {
	b.opts.Rollback = version
	return b
}

// Build validates and returns the options.
func (b Builder) Build() (Options, error) {
	opts := b.opts

	level, err := ParseLogLevel(b.logLevel)
	if err != nil {
		return Options{}, err
	}
	opts.LogLevel = level

	if len(opts.Formats) == 0 {
		return Options{}, fmt.Errorf("no output format selected")
	}

	for _, f := range opts.Formats {
		if _, err := backend.ByName(f); err != nil {
			return Options{}, err
		}
	}

	switch opts.Records {
	case RecordsNone, RecordsJSON, RecordsYAML:
	default:
		return Options{}, fmt.Errorf("unknown record format %q", opts.Records)
	}

	if opts.MaxUnroll < 0 {
		return Options{}, fmt.Errorf("max unroll must not be negative, got %d", opts.MaxUnroll)
	}

	if opts.Rollback < NoRollback {
		return Options{}, fmt.Errorf("invalid rollback version %d", opts.Rollback)
	}

	opts.Formats = append([]string(nil), opts.Formats...)

	return opts, nil
}

// ParseLogLevel maps a level name to a slog level. "trace" sits between
// info and warn.
func ParseLogLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "trace":
		return LevelTrace, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", name)
	}
}

// LevelTrace mirrors core.LevelTrace without importing core.
const LevelTrace = slog.LevelInfo + 1
