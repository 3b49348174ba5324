package verify

import (
	"fmt"

	"github.com/sarchlab/formia/instr"
	"github.com/sarchlab/formia/irgen"
)

type openBlock struct {
	op    instr.Op
	index int
	label string
}

// RunLint performs static lint checks on an instruction sequence.
// It validates block structure (STRUCT) and identifier use (SYMBOL).
// symbols may be nil, in which case role changes are not checked.
// Returns a list of issues found, or empty list if no issues.
func RunLint(insts []instr.Instruction, symbols *irgen.SymbolTable) []Issue {
	var issues []Issue

	issues = append(issues, checkStructure(insts)...)
	issues = append(issues, checkNames(insts)...)

	if symbols != nil {
		for _, ow := range symbols.Overwrites() {
			issues = append(issues, Issue{
				Type:  IssueSymbol,
				Index: -1,
				Message: fmt.Sprintf("%s used as %s after being a %s",
					ow.Name, ow.To, ow.From),
				Details: map[string]interface{}{
					"name": ow.Name,
					"from": ow.From.String(),
					"to":   ow.To.String(),
				},
			})
		}
	}

	return issues
}

// checkStructure matches closers against the innermost opener of the same
// kind. A closer that has to skip over an opener of the other kind crosses
// blocks.
func checkStructure(insts []instr.Instruction) []Issue {
	var (
		issues []Issue
		stack  []openBlock
	)

	closeBlock := func(i int, closer, opener instr.Op) {
		for j := len(stack) - 1; j >= 0; j-- {
			if stack[j].op != opener {
				continue
			}

			if j != len(stack)-1 {
				inner := stack[len(stack)-1]
				issues = append(issues, Issue{
					Type:  IssueStruct,
					Index: i,
					Op:    closer,
					Message: fmt.Sprintf(
						"%s at %d closes %s %s at %d across %s %s at %d",
						closer, i, opener, stack[j].label, stack[j].index,
						inner.op, inner.label, inner.index),
					Details: map[string]interface{}{
						"opener": stack[j].index,
						"inner":  inner.index,
					},
				})
			}

			stack = append(stack[:j], stack[j+1:]...)

			return
		}

		issues = append(issues, Issue{
			Type:    IssueStruct,
			Index:   i,
			Op:      closer,
			Message: fmt.Sprintf("%s at %d has no open %s", closer, i, opener),
		})
	}

	for i, inst := range insts {
		switch v := inst.(type) {
		case instr.Branch:
			stack = append(stack, openBlock{op: instr.OpBranch, index: i, label: v.Label})
		case instr.Loop:
			stack = append(stack, openBlock{op: instr.OpLoop, index: i, label: v.Label})
		case instr.EndIf:
			closeBlock(i, instr.OpEndIf, instr.OpBranch)
		case instr.LoopEnd:
			closeBlock(i, instr.OpLoopEnd, instr.OpLoop)
		}
	}

	for _, b := range stack {
		issues = append(issues, Issue{
			Type:    IssueStruct,
			Index:   b.index,
			Op:      b.op,
			Message: fmt.Sprintf("%s %s at %d is never closed", b.op, b.label, b.index),
			Details: map[string]interface{}{"label": b.label},
		})
	}

	return issues
}

func checkNames(insts []instr.Instruction) []Issue {
	var issues []Issue

	funcs := make(map[string]bool)
	assigned := make(map[string]bool)

	for _, inst := range insts {
		switch v := inst.(type) {
		case instr.Func:
			funcs[v.Name] = true
		case instr.Load:
			assigned[v.Dest] = true
		case instr.Move:
			assigned[v.Dest] = true
		case instr.Input:
			assigned[v.Dest] = true
		}
	}

	undefinedCall := func(i int, op instr.Op, name string) {
		if funcs[name] {
			return
		}

		issues = append(issues, Issue{
			Type:    IssueSymbol,
			Index:   i,
			Op:      op,
			Message: fmt.Sprintf("call to %s, which no func defines", name),
			Details: map[string]interface{}{"name": name},
		})
	}

	for i, inst := range insts {
		switch v := inst.(type) {
		case instr.Call:
			undefinedCall(i, instr.OpCall, v.Target)
		case instr.CallWithValue:
			undefinedCall(i, instr.OpCallWithValue, v.Func)
		case instr.Print:
			if assigned[v.Src] || isNumber(v.Src) {
				continue
			}

			issues = append(issues, Issue{
				Type:    IssueSymbol,
				Index:   i,
				Op:      instr.OpPrint,
				Message: fmt.Sprintf("print of %s, which is never assigned", v.Src),
				Details: map[string]interface{}{"name": v.Src},
			})
		}
	}

	return issues
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
