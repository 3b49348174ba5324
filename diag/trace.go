// Package diag holds the diagnostic side channels of an optimization run:
// the trace log, the profile log and the versioned trace snapshots.
package diag

import (
	"time"

	"github.com/sarchlab/formia/instr"
)

// TraceLog records every instruction that took the optimizer's default
// path, in order.
type TraceLog struct {
	entries []instr.Instruction
}

// Append adds one instruction.
func (t *TraceLog) Append(inst instr.Instruction) {
	t.entries = append(t.entries, inst)
}

// Entries returns a copy of the recorded instructions.
func (t *TraceLog) Entries() []instr.Instruction {
	return instr.Clone(t.entries)
}

// Len returns the number of recorded instructions.
func (t *TraceLog) Len() int {
	return len(t.entries)
}

// Reset empties the log.
func (t *TraceLog) Reset() {
	t.entries = nil
}

func (t *TraceLog) replace(entries []instr.Instruction) {
	t.entries = instr.Clone(entries)
}

// ProfileEntry is the measured duration of one profiled block.
type ProfileEntry struct {
	Block    string
	Duration time.Duration
}

// ProfileLog records profiled blocks in order.
type ProfileLog struct {
	entries []ProfileEntry
}

// Append adds one measurement.
func (p *ProfileLog) Append(block string, d time.Duration) {
	p.entries = append(p.entries, ProfileEntry{Block: block, Duration: d})
}

// Entries returns a copy of the measurements.
func (p *ProfileLog) Entries() []ProfileEntry {
	return append([]ProfileEntry(nil), p.entries...)
}

// Len returns the number of measurements.
func (p *ProfileLog) Len() int {
	return len(p.entries)
}

// Reset empties the log.
func (p *ProfileLog) Reset() {
	p.entries = nil
}
