package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/formia/instr"
	"github.com/sarchlab/formia/optimizer"
)

const (
	LevelTrace slog.Level = slog.LevelInfo + 1
)

func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// traceHook forwards optimizer events to the trace level.
type traceHook struct {
	compilation string
}

func (h *traceHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case optimizer.HookPosRuleFired:
		inst, _ := ctx.Item.(instr.Instruction)
		Trace("Optimizer",
			"Behavior", "RuleFired",
			"Compilation", h.compilation,
			"Rule", ctx.Detail,
			"Inst", formatOrNil(inst),
		)
	case optimizer.HookPosPassDone:
		out, _ := ctx.Item.([]instr.Instruction)
		Trace("Optimizer",
			"Behavior", "PassDone",
			"Compilation", h.compilation,
			"Instructions", len(out),
		)
	}
}

func formatOrNil(inst instr.Instruction) string {
	if inst == nil {
		return "<nil>"
	}

	return instr.Format(inst)
}

// PrintDiagnostics renders the trace log, the profile log, the snapshots
// and the symbol table of a compilation as tables.
func PrintDiagnostics(w io.Writer, c *Compilation) {
	traceTable := table.NewWriter()
	traceTable.SetTitle("Trace Log (%d entries)", c.Trace.Len())
	traceTable.AppendHeader(table.Row{"#", "Op", "Instruction"})
	for i, inst := range c.Trace.Entries() {
		traceTable.AppendRow(table.Row{i, inst.Op(), instr.Format(inst)})
	}
	fmt.Fprintln(w, traceTable.Render())
	fmt.Fprintln(w)

	profTable := table.NewWriter()
	profTable.SetTitle("Profile Log (%d entries)", c.Profile.Len())
	profTable.AppendHeader(table.Row{"#", "Block", "Duration"})
	for i, e := range c.Profile.Entries() {
		profTable.AppendRow(table.Row{i, e.Block, e.Duration.String()})
	}
	fmt.Fprintln(w, profTable.Render())
	fmt.Fprintln(w)

	snapTable := table.NewWriter()
	snapTable.SetTitle("Snapshots")
	snapTable.AppendHeader(table.Row{"Version", "Entries"})
	for _, s := range c.Snapshots.Snapshots() {
		snapTable.AppendRow(table.Row{s.Version, s.Len()})
	}
	fmt.Fprintln(w, snapTable.Render())
	fmt.Fprintln(w)

	symTable := table.NewWriter()
	symTable.SetTitle("Symbols")
	symTable.AppendHeader(table.Row{"Name", "Role"})
	for _, s := range c.Symbols.Symbols() {
		symTable.AppendRow(table.Row{s.Name, s.Role.String()})
	}
	fmt.Fprintln(w, symTable.Render())
}

func LogCompilation(c *Compilation) {
	slog.Debug("CompilationCheckpoint",
		"ID", c.ID,
		"Symbols", c.Symbols.Len(),
		"Labels", c.Labels.Count(),
		"Trace", c.Trace.Len(),
		"Profile", c.Profile.Len(),
		"Snapshots", c.Snapshots.Versions(),
	)
}
