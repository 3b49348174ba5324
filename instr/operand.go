package instr

import (
	"fmt"
	"strings"
)

// Operand is one named field of an instruction's operand set.
type Operand struct {
	Name  string
	Value string
}

// The operand names used across the instruction set.
const (
	FieldDest   = "dest"
	FieldValue  = "value"
	FieldSrc    = "src"
	FieldCond   = "cond"
	FieldLabel  = "label"
	FieldTarget = "target"
	FieldName   = "name"
	FieldBlock  = "block"
	FieldFunc   = "func"
)

// Operands returns the operand set implied by the tag of inst, in a fixed
// order. Tags without operands return nil.
func Operands(inst Instruction) []Operand {
	switch v := inst.(type) {
	case Load:
		return []Operand{{FieldDest, v.Dest}, {FieldValue, v.Value}}
	case Input:
		return []Operand{{FieldDest, v.Dest}}
	case Print:
		return []Operand{{FieldSrc, v.Src}}
	case Branch:
		return []Operand{{FieldCond, v.Cond}, {FieldLabel, v.Label}}
	case Loop:
		return []Operand{{FieldCond, v.Cond}, {FieldLabel, v.Label}}
	case Call:
		return []Operand{{FieldTarget, v.Target}}
	case Func:
		return []Operand{{FieldName, v.Name}}
	case Profile:
		return []Operand{{FieldBlock, v.Block}}
	case Move:
		return []Operand{{FieldDest, v.Dest}, {FieldValue, v.Value}}
	case CallWithValue:
		return []Operand{{FieldFunc, v.Func}, {FieldValue, v.Value}}
	case EndIf, LoopEnd, Ret, Nop:
		return nil
	default:
		panic(fmt.Sprintf("unknown instruction type %T", inst))
	}
}

// Store reports the destination and value of a "dest = literal" form. Load
// and Move qualify; every other tag returns ok == false.
func Store(inst Instruction) (dest, value string, ok bool) {
	switch v := inst.(type) {
	case Load:
		return v.Dest, v.Value, true
	case Move:
		return v.Dest, v.Value, true
	default:
		return "", "", false
	}
}

// Condition joins the parts of a Branch or Loop condition.
func Condition(lhs, op, rhs string) string {
	return lhs + " " + op + " " + rhs
}

// SplitCondition breaks condition text into "lhs op rhs". It fails unless
// the text has exactly three whitespace separated parts.
func SplitCondition(cond string) (lhs, op, rhs string, ok bool) {
	parts := strings.Fields(cond)
	if len(parts) != 3 {
		return "", "", "", false
	}

	return parts[0], parts[1], parts[2], true
}
