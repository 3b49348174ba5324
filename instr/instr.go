// Package instr defines the intermediate representation produced by the
// Formia front end and rewritten by the optimizer.
package instr

import (
	"fmt"
	"strings"
)

// Op is the tag of an instruction.
type Op string

// The instruction tags.
const (
	OpLoad          Op = "load"
	OpInput         Op = "input"
	OpPrint         Op = "print"
	OpBranch        Op = "branch"
	OpEndIf         Op = "endif"
	OpLoop          Op = "loop"
	OpLoopEnd       Op = "loopend"
	OpCall          Op = "call"
	OpFunc          Op = "func"
	OpRet           Op = "ret"
	OpProfile       Op = "profile"
	OpMove          Op = "move"
	OpCallWithValue Op = "call_with_value"
	OpNop           Op = "nop"
)

// Ops lists every tag in declaration order.
var Ops = []Op{
	OpLoad, OpInput, OpPrint, OpBranch, OpEndIf, OpLoop, OpLoopEnd,
	OpCall, OpFunc, OpRet, OpProfile, OpMove, OpCallWithValue, OpNop,
}

// Instruction is one IR operation. The set of implementations is closed;
// only the types declared in this package satisfy it.
type Instruction interface {
	Op() Op
	Annotation() Annot
	isInstruction()
}

// Annot carries data attached to an instruction after generation. It does
// not take part in the operand set of the tag.
type Annot struct {
	// ProfileTime is the human readable duration stamped by the profiling
	// rule. Empty when the instruction was never profiled.
	ProfileTime string `json:"-" yaml:"-"`
}

// Annotation returns the annotation of the instruction.
func (a Annot) Annotation() Annot { return a }

// Load declares a variable with a literal value.
type Load struct {
	Annot
	Dest  string
	Value string
}

// Input reads a value into a variable.
type Input struct {
	Annot
	Dest string
}

// Print writes the value of a variable.
type Print struct {
	Annot
	Src string
}

// Branch opens a conditional block. Cond is the literal "lhs op rhs" text.
type Branch struct {
	Annot
	Cond  string
	Label string
}

// EndIf closes a Branch.
type EndIf struct {
	Annot
}

// Loop opens a loop block. Cond is the literal "lhs op rhs" text.
type Loop struct {
	Annot
	Cond  string
	Label string
}

// LoopEnd closes a Loop.
type LoopEnd struct {
	Annot
}

// Call invokes a function.
type Call struct {
	Annot
	Target string
}

// Func opens a function body.
type Func struct {
	Annot
	Name string
}

// Ret returns from the current function.
type Ret struct {
	Annot
}

// Profile marks the next instruction as a profiling target.
type Profile struct {
	Annot
	Block string
}

// Move is the generic "dest = value" assignment.
type Move struct {
	Annot
	Dest  string
	Value string
}

// CallWithValue is a Move fused into the Call that follows it. Only the
// optimizer produces it.
type CallWithValue struct {
	Annot
	Func  string
	Value string
}

// Nop does nothing.
type Nop struct {
	Annot
}

func (Load) Op() Op          { return OpLoad }
func (Input) Op() Op         { return OpInput }
func (Print) Op() Op         { return OpPrint }
func (Branch) Op() Op        { return OpBranch }
func (EndIf) Op() Op         { return OpEndIf }
func (Loop) Op() Op          { return OpLoop }
func (LoopEnd) Op() Op       { return OpLoopEnd }
func (Call) Op() Op          { return OpCall }
func (Func) Op() Op          { return OpFunc }
func (Ret) Op() Op           { return OpRet }
func (Profile) Op() Op       { return OpProfile }
func (Move) Op() Op          { return OpMove }
func (CallWithValue) Op() Op { return OpCallWithValue }
func (Nop) Op() Op           { return OpNop }

func (Load) isInstruction()          {}
func (Input) isInstruction()         {}
func (Print) isInstruction()         {}
func (Branch) isInstruction()        {}
func (EndIf) isInstruction()         {}
func (Loop) isInstruction()          {}
func (LoopEnd) isInstruction()       {}
func (Call) isInstruction()          {}
func (Func) isInstruction()          {}
func (Ret) isInstruction()           {}
func (Profile) isInstruction()       {}
func (Move) isInstruction()          {}
func (CallWithValue) isInstruction() {}
func (Nop) isInstruction()           {}

// WithProfileTime returns a copy of inst stamped with the given duration
// text. inst itself is left untouched.
func WithProfileTime(inst Instruction, d string) Instruction {
	switch v := inst.(type) {
	case Load:
		v.ProfileTime = d
		return v
	case Input:
		v.ProfileTime = d
		return v
	case Print:
		v.ProfileTime = d
		return v
	case Branch:
		v.ProfileTime = d
		return v
	case EndIf:
		v.ProfileTime = d
		return v
	case Loop:
		v.ProfileTime = d
		return v
	case LoopEnd:
		v.ProfileTime = d
		return v
	case Call:
		v.ProfileTime = d
		return v
	case Func:
		v.ProfileTime = d
		return v
	case Ret:
		v.ProfileTime = d
		return v
	case Profile:
		v.ProfileTime = d
		return v
	case Move:
		v.ProfileTime = d
		return v
	case CallWithValue:
		v.ProfileTime = d
		return v
	case Nop:
		v.ProfileTime = d
		return v
	default:
		panic(fmt.Sprintf("unknown instruction type %T", inst))
	}
}

// Format renders an instruction as "op field=value ...".
func Format(inst Instruction) string {
	var sb strings.Builder

	sb.WriteString(string(inst.Op()))

	for _, f := range Operands(inst) {
		fmt.Fprintf(&sb, " %s=%q", f.Name, f.Value)
	}

	if t := inst.Annotation().ProfileTime; t != "" {
		fmt.Fprintf(&sb, " [%s]", t)
	}

	return sb.String()
}

// Clone returns a copy of the sequence. Instructions are values, so a
// shallow copy of the slice is a deep copy of the content.
func Clone(insts []Instruction) []Instruction {
	if insts == nil {
		return nil
	}

	out := make([]Instruction, len(insts))
	copy(out, insts)

	return out
}
