// Command formiac compiles Formia source files.
//
//	formiac [flags] <source.fom | records.json | records.yaml>
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/formia/backend"
	"github.com/sarchlab/formia/config"
)

const usage = "Usage: formiac [flags] <source.fom>"

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		atexit.Exit(2)
	}

	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: opts.LogLevel,
	})
	slog.SetDefault(slog.New(handler))

	code := run(opts, os.Stdout)
	if opts.Watch {
		code = watch(opts, os.Stdout)
	}

	atexit.Exit(code)
}

// parseFlags builds the options from the defaults, then the config file,
// then the flags given explicitly on the command line.
func parseFlags(args []string, stderr io.Writer) (config.Options, error) {
	fs := flag.NewFlagSet("formiac", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, usage)
		fs.PrintDefaults()
	}

	var (
		outDir    = fs.String("o", ".", "output directory")
		formats   = fs.String("format", "asm", "comma separated backends: "+strings.Join(backend.Names(), ","))
		optimize  = fs.Bool("O", true, "run the optimizer")
		records   = fs.String("records", config.RecordsNone, "also write the IR as json, yaml or none")
		diag      = fs.Bool("diag", false, "print trace, profile, snapshot and symbol tables")
		lint      = fs.Bool("lint", false, "print the IR lint report")
		watchSrc  = fs.Bool("watch", false, "recompile whenever the source changes")
		cfgPath   = fs.String("config", "", "YAML config file (default: "+config.DefaultFile+" next to the source)")
		logLevel  = fs.String("log-level", "info", "debug, info, trace, warn or error")
		maxUnroll = fs.Int("max-unroll", 0, "largest loop bound to unroll, 0 for no limit")
		rollback  = fs.Int("rollback", config.NoRollback, "roll the trace back to this snapshot before printing diagnostics, 0 for latest")
	)

	if err := fs.Parse(args); err != nil {
		return config.Options{}, err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return config.Options{}, fmt.Errorf("expected exactly one source file, got %d", fs.NArg())
	}
	source := fs.Arg(0)

	b := config.NewBuilder().WithSource(source)

	path := *cfgPath
	if path == "" {
		candidate := filepath.Join(filepath.Dir(source), config.DefaultFile)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}

	if path != "" {
		var err error
		if b, err = b.WithFile(path); err != nil {
			return config.Options{}, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "o":
			b = b.WithOutputDir(*outDir)
		case "format":
			b = b.WithFormats(*formats)
		case "O":
			b = b.WithOptimize(*optimize)
		case "records":
			b = b.WithRecords(*records)
		case "diag":
			b = b.WithDiagnostics(*diag)
		case "lint":
			b = b.WithLint(*lint)
		case "watch":
			b = b.WithWatch(*watchSrc)
		case "log-level":
			b = b.WithLogLevel(*logLevel)
		case "max-unroll":
			b = b.WithMaxUnroll(*maxUnroll)
		case "rollback":
			b = b.WithRollback(*rollback)
		}
	})

	return b.Build()
}
