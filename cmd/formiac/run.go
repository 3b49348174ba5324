package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sarchlab/formia/api"
	"github.com/sarchlab/formia/backend"
	"github.com/sarchlab/formia/config"
	"github.com/sarchlab/formia/core"
	"github.com/sarchlab/formia/instr"
	"github.com/sarchlab/formia/verify"
)

// run compiles the source once and writes every requested artifact. It
// returns the process exit code.
func run(opts config.Options, out io.Writer) int {
	c := core.Builder{}.
		WithMaxUnroll(opts.MaxUnroll).
		Build()

	prog, err := load(c, opts)
	if err != nil {
		slog.Error("compilation failed", "Source", opts.Source, "Error", err)
		return 1
	}

	core.LogCompilation(c)

	if opts.Rollback != config.NoRollback {
		if err := c.Rollback(opts.Rollback); err != nil {
			slog.Warn("rollback not applied", "Version", opts.Rollback, "Error", err)
		}
	}

	if opts.Lint {
		verify.GenerateReport(prog.Final(), c.Symbols).WriteReport(out)
	}

	if opts.Diagnostics {
		core.PrintDiagnostics(out, c)
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		slog.Error("cannot create output directory", "Dir", opts.OutputDir, "Error", err)
		return 1
	}

	driver, err := buildDriver(opts.Formats)
	if err != nil {
		slog.Error("cannot set up backends", "Error", err)
		return 1
	}

	artifacts, err := driver.Emit(c.Unit(prog), openIn(opts.OutputDir))
	if err != nil {
		slog.Error("emission failed", "Error", err)
		return 1
	}

	for _, a := range artifacts {
		fmt.Fprintf(out, "Generated %s file: %s\n", a.Backend, filepath.Join(opts.OutputDir, a.Name))
	}

	if opts.Records != config.RecordsNone {
		path, err := writeRecords(opts, prog)
		if err != nil {
			slog.Error("cannot write records", "Error", err)
			return 1
		}
		fmt.Fprintf(out, "Generated records file: %s\n", path)
	}

	return 0
}

// load compiles a source file, or reads a record document and optimizes
// it when the optimizer is on.
func load(c *core.Compilation, opts config.Options) (core.Program, error) {
	switch strings.ToLower(filepath.Ext(opts.Source)) {
	case ".json", ".yaml", ".yml":
		prog, err := core.LoadProgramRecords(opts.Source)
		if err != nil {
			return core.Program{}, err
		}

		if opts.Optimize {
			prog.Optimized = c.Optimize(prog.Raw)
		}

		return prog, nil
	default:
		return c.LoadProgramFile(opts.Source, opts.Optimize)
	}
}

func buildDriver(formats []string) (api.Driver, error) {
	b := api.DriverBuilder{}

	for _, f := range formats {
		be, err := backend.ByName(f)
		if err != nil {
			return nil, err
		}
		b = b.WithBackend(be)
	}

	return b.Build(), nil
}

func openIn(dir string) api.OpenFunc {
	return func(name string) (io.WriteCloser, error) {
		return os.Create(filepath.Join(dir, name))
	}
}

func writeRecords(opts config.Options, prog core.Program) (string, error) {
	var (
		data []byte
		err  error
	)

	switch opts.Records {
	case config.RecordsJSON:
		data, err = instr.EncodeJSON(prog.Final())
	case config.RecordsYAML:
		data, err = instr.EncodeYAML(prog.Final())
	}

	if err != nil {
		return "", err
	}

	path := filepath.Join(opts.OutputDir, prog.Name+".ir."+opts.Records)

	return path, os.WriteFile(path, data, 0o644)
}
