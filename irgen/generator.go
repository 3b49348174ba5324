// Package irgen turns lexed Formia lines into IR instructions.
package irgen

import (
	"log/slog"
	"strings"

	"github.com/sarchlab/formia/instr"
	"github.com/sarchlab/formia/lexer"
)

// The statement keywords.
const (
	KeywordLet      = "Let"
	KeywordInput    = "input"
	KeywordPrint    = "print"
	KeywordIf       = "if"
	KeywordEndIf    = "endif"
	KeywordLoop     = "loop"
	KeywordEndLoop  = "endloop"
	KeywordCall     = "call"
	KeywordFunc     = "func"
	KeywordRet      = "ret"
	KeywordProfile  = "profile"
	assignSymbol    = "="
	minCondOperands = 3
)

// Generator maps one line to exactly one instruction. It records
// identifiers in the symbol table and allocates labels as it goes.
type Generator struct {
	symbols *SymbolTable
	labels  *LabelAllocator

	handlers map[string]func(tokens []string) instr.Instruction
}

// NewGenerator creates a generator writing into the given table and
// allocator.
func NewGenerator(symbols *SymbolTable, labels *LabelAllocator) *Generator {
	g := &Generator{
		symbols: symbols,
		labels:  labels,
	}

	g.handlers = map[string]func([]string) instr.Instruction{
		KeywordLet:     g.genLet,
		"let":          g.genLet,
		KeywordInput:   g.genInput,
		KeywordPrint:   g.genPrint,
		KeywordIf:      g.genIf,
		KeywordEndIf:   func([]string) instr.Instruction { return instr.EndIf{} },
		KeywordLoop:    g.genLoop,
		KeywordEndLoop: func([]string) instr.Instruction { return instr.LoopEnd{} },
		KeywordCall:    g.genCall,
		KeywordFunc:    g.genFunc,
		KeywordRet:     func([]string) instr.Instruction { return instr.Ret{} },
		KeywordProfile: g.genProfile,
	}

	return g
}

// Generate returns the instruction for one line. Lines that match no
// statement, or lack the operands their statement needs, become Nop.
func (g *Generator) Generate(keyword string, tokens []string) instr.Instruction {
	if h, ok := g.handlers[keyword]; ok {
		return h(tokens)
	}

	return g.genAssign(keyword, tokens)
}

// GenerateLines generates the raw sequence for a lexed program.
func (g *Generator) GenerateLines(lines []lexer.Line) []instr.Instruction {
	out := make([]instr.Instruction, 0, len(lines))

	for _, l := range lines {
		inst := g.Generate(l.Keyword, l.Tokens)
		if _, isNop := inst.(instr.Nop); isNop {
			slog.Debug("line generated nop",
				"Line", l.Number,
				"Keyword", l.Keyword,
				"Tokens", l.Tokens,
			)
		}

		out = append(out, inst)
	}

	return out
}

func (g *Generator) genLet(tokens []string) instr.Instruction {
	if len(tokens) < 3 {
		return instr.Nop{}
	}

	g.symbols.Define(tokens[0], RoleVariable)

	return instr.Load{Dest: tokens[0], Value: tokens[2]}
}

func (g *Generator) genInput(tokens []string) instr.Instruction {
	if len(tokens) < 1 {
		return instr.Nop{}
	}

	g.symbols.Define(tokens[0], RoleVariable)

	return instr.Input{Dest: tokens[0]}
}

func (g *Generator) genPrint(tokens []string) instr.Instruction {
	if len(tokens) < 1 {
		return instr.Nop{}
	}

	return instr.Print{Src: tokens[0]}
}

func (g *Generator) genIf(tokens []string) instr.Instruction {
	cond, ok := condition(tokens)
	if !ok {
		return instr.Nop{}
	}

	return instr.Branch{Cond: cond, Label: g.labels.Next(PrefixBranch)}
}

func (g *Generator) genLoop(tokens []string) instr.Instruction {
	cond, ok := condition(tokens)
	if !ok {
		return instr.Nop{}
	}

	return instr.Loop{Cond: cond, Label: g.labels.Next(PrefixLoop)}
}

func (g *Generator) genCall(tokens []string) instr.Instruction {
	if len(tokens) < 1 {
		return instr.Nop{}
	}

	g.symbols.Define(tokens[0], RoleFunction)

	return instr.Call{Target: tokens[0]}
}

func (g *Generator) genFunc(tokens []string) instr.Instruction {
	if len(tokens) < 1 {
		return instr.Nop{}
	}

	g.symbols.Define(tokens[0], RoleFunction)

	return instr.Func{Name: tokens[0]}
}

func (g *Generator) genProfile(tokens []string) instr.Instruction {
	if len(tokens) < 1 {
		return instr.Profile{Block: g.labels.Next(PrefixBlock)}
	}

	return instr.Profile{Block: tokens[0]}
}

// genAssign handles "dest = value". The destination is the keyword plus
// every token before the first "=", and the value is the single token right
// after it.
func (g *Generator) genAssign(keyword string, tokens []string) instr.Instruction {
	idx := -1
	for i, t := range tokens {
		if t == assignSymbol {
			idx = i
			break
		}
	}

	if idx < 0 || idx+1 >= len(tokens) {
		return instr.Nop{}
	}

	dest := keyword + strings.Join(tokens[:idx], "")
	g.symbols.Define(dest, RoleVariable)

	return instr.Move{Dest: dest, Value: tokens[idx+1]}
}

// condition builds "lhs op rhs" from the first three tokens.
func condition(tokens []string) (string, bool) {
	if len(tokens) < minCondOperands {
		return "", false
	}

	return instr.Condition(tokens[0], tokens[1], tokens[2]), true
}
