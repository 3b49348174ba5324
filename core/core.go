// Package core ties the Formia pipeline together. A Compilation owns every
// piece of mutable state of one compiler run and passes it to the stages.
package core

import (
	"time"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/formia/api"
	"github.com/sarchlab/formia/diag"
	"github.com/sarchlab/formia/instr"
	"github.com/sarchlab/formia/irgen"
	"github.com/sarchlab/formia/lexer"
	"github.com/sarchlab/formia/optimizer"
)

// Compilation is the context of one compiler run. Separate compilations
// share nothing and can be used from different goroutines, but a single
// Compilation is not safe for concurrent use.
type Compilation struct {
	ID string

	Symbols   *irgen.SymbolTable
	Labels    *irgen.LabelAllocator
	Trace     *diag.TraceLog
	Profile   *diag.ProfileLog
	Snapshots *diag.SnapshotStore

	generator *irgen.Generator
	optimizer *optimizer.Optimizer
}

// Builder creates compilations.
type Builder struct {
	now       func() time.Time
	maxUnroll int
	hooks     []sim.Hook
	noTrace   bool
}

// WithClock sets the time source of the profiling rule.
func (b Builder) WithClock(now func() time.Time) Builder {
	b.now = now
	return b
}

// WithMaxUnroll caps loop unrolling. Zero means no cap.
func (b Builder) WithMaxUnroll(n int) Builder {
	b.maxUnroll = n
	return b
}

// WithHook attaches a hook to the optimizer.
func (b Builder) WithHook(h sim.Hook) Builder {
	b.hooks = append(append([]sim.Hook(nil), b.hooks...), h)
	return b
}

// WithoutTraceLogging stops optimizer events from being logged at
// LevelTrace.
func (b Builder) WithoutTraceLogging() Builder {
	b.noTrace = true
	return b
}

// Build creates a fresh compilation.
func (b Builder) Build() *Compilation {
	c := &Compilation{
		ID:      sim.GetIDGenerator().Generate(),
		Symbols: irgen.NewSymbolTable(),
		Labels:  &irgen.LabelAllocator{},
		Trace:   &diag.TraceLog{},
		Profile: &diag.ProfileLog{},
	}
	c.Snapshots = diag.NewSnapshotStore(c.Trace)
	c.generator = irgen.NewGenerator(c.Symbols, c.Labels)
	c.optimizer = optimizer.Builder{}.
		WithTrace(c.Trace).
		WithProfile(c.Profile).
		WithSnapshots(c.Snapshots).
		WithClock(b.now).
		WithMaxUnroll(b.maxUnroll).
		Build()

	if !b.noTrace {
		c.optimizer.AcceptHook(&traceHook{compilation: c.ID})
	}

	for _, h := range b.hooks {
		c.optimizer.AcceptHook(h)
	}

	return c
}

// NewCompilation creates a compilation with default settings.
func NewCompilation() *Compilation {
	return Builder{}.Build()
}

// Generate lexes source and generates the raw instruction sequence.
func (c *Compilation) Generate(source string) []instr.Instruction {
	lines := lexer.Lines(source)
	raw := c.generator.GenerateLines(lines)

	Trace("Generate",
		"Behavior", "Generated",
		"Compilation", c.ID,
		"Lines", len(lines),
		"Instructions", len(raw),
		"Labels", c.Labels.Count(),
	)

	return raw
}

// Optimize runs one optimizer pass over raw and snapshots the trace log.
func (c *Compilation) Optimize(raw []instr.Instruction) []instr.Instruction {
	return c.optimizer.Optimize(raw)
}

// Compile generates and optimizes source.
func (c *Compilation) Compile(name, source string) Program {
	raw := c.Generate(source)

	return Program{
		Name:      name,
		Raw:       raw,
		Optimized: c.Optimize(raw),
	}
}

// Rollback restores the trace log to the snapshot at version, or to the
// latest snapshot for diag.Latest.
func (c *Compilation) Rollback(version int) error {
	return c.Snapshots.Rollback(version)
}

// Optimizer exposes the optimizer, mostly to attach hooks.
func (c *Compilation) Optimizer() *optimizer.Optimizer {
	return c.optimizer
}

// Unit builds the backend view of a program's optimized sequence.
func (c *Compilation) Unit(p Program) api.Unit {
	return api.Unit{
		Name:         p.Name,
		Instructions: p.Final(),
		Variables:    c.Symbols.Variables(),
		Functions:    c.Symbols.Functions(),
	}
}
