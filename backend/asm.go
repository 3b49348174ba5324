package backend

import (
	"fmt"
	"io"

	"github.com/sarchlab/formia/api"
	"github.com/sarchlab/formia/instr"
)

// ASM renders NASM source for x86-64 that links against the C runtime
// (printf and scanf).
type ASM struct{}

// Name returns "asm".
func (ASM) Name() string { return "asm" }

// Extension returns "asm".
func (ASM) Extension() string { return "asm" }

// The jump taken when a condition does not hold, i.e. into the else or
// loop exit label.
var exitJumps = map[string]string{
	"==": "JNE",
	"!=": "JE",
	"<":  "JGE",
	">":  "JLE",
	"<=": "JG",
	">=": "JL",
}

type loopFrame struct {
	label string
	v     string
}

type asmState struct {
	w        *lineWriter
	branches []string
	loops    []loopFrame

	// seen counts definitions per label. Unrolling copies loop bodies
	// verbatim, so the same label can appear more than once.
	seen map[string]int
}

// Render writes the data section, then main with one rendering per
// instruction.
func (ASM) Render(w io.Writer, unit api.Unit) error {
	lw := &lineWriter{w: w}

	lw.line("section .data")
	lw.line(`    fmt db "%%d", 10, 0`)
	lw.line(`    input_fmt db "%%d", 0`)
	for _, v := range dataNames(unit) {
		lw.line("    %s dq 0", v)
	}

	lw.line("")
	lw.line("section .text")
	lw.line("    extern printf")
	lw.line("    extern scanf")
	lw.line("    global main")
	lw.line("main:")

	s := &asmState{w: lw, seen: make(map[string]int)}
	for _, inst := range unit.Instructions {
		s.render(inst)
	}

	lw.line("    RET")

	return lw.err
}

func (s *asmState) render(inst instr.Instruction) {
	w := s.w

	if t := inst.Annotation().ProfileTime; t != "" {
		w.line("    ; profiled %s", t)
	}

	switch v := inst.(type) {
	case instr.Load:
		s.store(v.Dest, v.Value)
	case instr.Move:
		s.store(v.Dest, v.Value)
	case instr.Input:
		w.line("    MOV rdi, input_fmt")
		w.line("    MOV rsi, %s", symbolName(v.Dest))
		w.line("    XOR rax, rax")
		w.line("    CALL scanf")
	case instr.Print:
		w.line("    MOV rdi, fmt")
		w.line("    MOV rsi, %s", operand(v.Src))
		w.line("    XOR rax, rax")
		w.line("    CALL printf")
	case instr.Branch:
		s.branch(v)
	case instr.EndIf:
		if len(s.branches) == 0 {
			w.line("    ; endif without if")
			return
		}
		label := s.branches[len(s.branches)-1]
		s.branches = s.branches[:len(s.branches)-1]
		w.line("%s:", label)
	case instr.Loop:
		s.loop(v)
	case instr.LoopEnd:
		if len(s.loops) == 0 {
			w.line("    ; endloop without loop")
			return
		}
		f := s.loops[len(s.loops)-1]
		s.loops = s.loops[:len(s.loops)-1]
		if f.v != "" {
			w.line("    INC qword [%s]", symbolName(f.v))
		}
		w.line("    JMP %s", f.label)
		w.line("%s_end:", f.label)
	case instr.Call:
		w.line("    CALL %s", symbolName(v.Target))
	case instr.CallWithValue:
		w.line("    MOV rdi, %s", operand(v.Value))
		w.line("    CALL %s", symbolName(v.Func))
	case instr.Func:
		w.line("%s:", symbolName(v.Name))
	case instr.Ret:
		w.line("    RET")
	case instr.Profile:
		w.line("    ; profile %s", v.Block)
	case instr.Nop:
		w.line("    NOP")
	default:
		panic(fmt.Sprintf("asm: unknown instruction type %T", inst))
	}
}

func (s *asmState) store(dest, value string) {
	if isLiteral(value) {
		s.w.line("    MOV qword [%s], %s", symbolName(dest), value)
		return
	}

	s.w.line("    MOV rax, qword [%s]", symbolName(value))
	s.w.line("    MOV qword [%s], rax", symbolName(dest))
}

// label returns l on its first use and l_1, l_2, ... on repeats.
func (s *asmState) label(l string) string {
	n := s.seen[l]
	s.seen[l]++

	if n == 0 {
		return l
	}

	return fmt.Sprintf("%s_%d", l, n)
}

func (s *asmState) branch(b instr.Branch) {
	label := s.label(b.Label)
	s.branches = append(s.branches, label)

	lhs, op, rhs, ok := instr.SplitCondition(b.Cond)
	if !ok {
		s.w.line("    ; unparsed condition %q", b.Cond)
		return
	}

	jump, ok := exitJumps[op]
	if !ok {
		jump = "JNE"
	}

	s.w.line("    MOV rax, %s", operand(lhs))
	s.w.line("    CMP rax, %s", operand(rhs))
	s.w.line("    %s %s", jump, label)
}

func (s *asmState) loop(l instr.Loop) {
	label := s.label(l.Label)

	lhs, op, rhs, ok := instr.SplitCondition(l.Cond)
	if !ok {
		s.loops = append(s.loops, loopFrame{label: label})
		s.w.line("%s:", label)
		s.w.line("    ; unparsed condition %q", l.Cond)
		return
	}

	s.loops = append(s.loops, loopFrame{label: label, v: lhs})

	jump, ok := exitJumps[op]
	if !ok {
		jump = "JGE"
	}

	s.w.line("%s:", label)
	s.w.line("    MOV rax, %s", operand(lhs))
	s.w.line("    CMP rax, %s", operand(rhs))
	s.w.line("    %s %s_end", jump, label)
}

// operand renders a literal as an immediate and a name as a memory load.
func operand(s string) string {
	if isLiteral(s) {
		return s
	}

	return fmt.Sprintf("qword [%s]", symbolName(s))
}

// lineWriter writes formatted lines and keeps the first error.
type lineWriter struct {
	w   io.Writer
	err error
}

func (l *lineWriter) line(format string, args ...any) {
	if l.err != nil {
		return
	}

	_, l.err = fmt.Fprintf(l.w, format+"\n", args...)
}
