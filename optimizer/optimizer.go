// Package optimizer implements the single-pass peephole optimizer over the
// Formia IR.
//
// The pass walks the input once, left to right, looking at most one
// instruction ahead. At each position the rules are tried in priority
// order and the first one that matches fires and consumes one or two input
// instructions:
//
//  1. fold-stores: two stores to the same destination with integer literals
//     become one Move holding their sum.
//  2. unroll-loop: a Loop with a "<" bound is replaced by its body repeated
//     bound times, up to the first LoopEnd.
//  3. reorder-print: a Move is emitted before a Print that was just emitted.
//  4. fuse-call: a Move followed by a Call becomes a CallWithValue.
//  5. profile: a Profile marker is dropped and the next instruction is
//     stamped with the time it took to substitute it.
//
// Anything else is passed through unchanged and recorded in the trace log.
// A rule whose literal cannot be parsed simply does not match. The pass is
// never repeated, so a pattern created by a rewrite is not revisited.
package optimizer

import (
	"time"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/formia/diag"
	"github.com/sarchlab/formia/instr"
)

// HookPosRuleFired marks a rule rewriting the instruction at the cursor.
// The hook item is that instruction and the detail is the rule name.
var HookPosRuleFired = &sim.HookPos{Name: "Rule Fired"}

// HookPosPassDone marks the end of one pass. The hook item is the
// optimized sequence and the detail is the snapshot taken.
var HookPosPassDone = &sim.HookPos{Name: "Pass Done"}

// The rule names.
const (
	RuleFoldStores   = "fold-stores"
	RuleUnrollLoop   = "unroll-loop"
	RuleReorderPrint = "reorder-print"
	RuleFuseCall     = "fuse-call"
	RuleProfile      = "profile"
	RulePassThrough  = "pass-through"
)

// A rule inspects the cursor. When it matches it appends its replacement
// to the output and returns how many input instructions it consumed.
type rule struct {
	name  string
	apply func(p *pass) (consumed int, fired bool)
}

// Optimizer rewrites instruction sequences. It records pass-through
// instructions in its trace log, profiled blocks in its profile log, and
// snapshots the trace log after every pass.
type Optimizer struct {
	sim.HookableBase

	trace     *diag.TraceLog
	profile   *diag.ProfileLog
	snapshots *diag.SnapshotStore

	now       func() time.Time
	maxUnroll int

	rules []rule
}

// Optimize runs one pass over insts and returns the rewritten sequence. The
// input slice is not modified.
func (o *Optimizer) Optimize(insts []instr.Instruction) []instr.Instruction {
	p := &pass{in: insts, out: make([]instr.Instruction, 0, len(insts))}

	for p.pos < len(p.in) {
		o.step(p)
	}

	snap := o.snapshots.Take()

	o.InvokeHook(sim.HookCtx{
		Domain: o,
		Pos:    HookPosPassDone,
		Item:   p.out,
		Detail: snap,
	})

	return p.out
}

func (o *Optimizer) step(p *pass) {
	cur := p.cur()

	for _, r := range o.rules {
		n, fired := r.apply(p)
		if !fired {
			continue
		}

		o.fire(cur, r.name)
		p.pos += n

		return
	}

	p.emit(cur)
	o.trace.Append(cur)
	o.fire(cur, RulePassThrough)
	p.pos++
}

func (o *Optimizer) fire(inst instr.Instruction, name string) {
	o.InvokeHook(sim.HookCtx{
		Domain: o,
		Pos:    HookPosRuleFired,
		Item:   inst,
		Detail: name,
	})
}

// Trace returns the trace log the optimizer writes to.
func (o *Optimizer) Trace() *diag.TraceLog {
	return o.trace
}

// Profile returns the profile log the optimizer writes to.
func (o *Optimizer) Profile() *diag.ProfileLog {
	return o.profile
}

// Snapshots returns the snapshot store of the trace log.
func (o *Optimizer) Snapshots() *diag.SnapshotStore {
	return o.snapshots
}

// RuleNames lists the rules in priority order, ending with the default.
func (o *Optimizer) RuleNames() []string {
	names := make([]string, 0, len(o.rules)+1)
	for _, r := range o.rules {
		names = append(names, r.name)
	}

	return append(names, RulePassThrough)
}

// pass is the cursor state of one optimization run.
type pass struct {
	in  []instr.Instruction
	pos int
	out []instr.Instruction
}

func (p *pass) cur() instr.Instruction {
	return p.in[p.pos]
}

func (p *pass) peek() (instr.Instruction, bool) {
	if p.pos+1 >= len(p.in) {
		return nil, false
	}

	return p.in[p.pos+1], true
}

func (p *pass) emit(insts ...instr.Instruction) {
	p.out = append(p.out, insts...)
}

// lastOut returns the most recently emitted instruction.
func (p *pass) lastOut() (instr.Instruction, bool) {
	if len(p.out) == 0 {
		return nil, false
	}

	return p.out[len(p.out)-1], true
}
