package irgen_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/formia/instr"
	"github.com/sarchlab/formia/irgen"
	"github.com/sarchlab/formia/lexer"
)

var _ = Describe("Generator", func() {
	var (
		symbols *irgen.SymbolTable
		labels  *irgen.LabelAllocator
		g       *irgen.Generator
	)

	gen := func(line string) instr.Instruction {
		tokens := lexer.Tokenize(line)
		return g.Generate(tokens[0], tokens[1:])
	}

	BeforeEach(func() {
		symbols = irgen.NewSymbolTable()
		labels = &irgen.LabelAllocator{}
		g = irgen.NewGenerator(symbols, labels)
	})

	DescribeTable("one line",
		func(line string, want instr.Instruction) {
			Expect(gen(line)).To(Equal(want))
		},
		Entry("let", "Let x = 5", instr.Load{Dest: "x", Value: "5"}),
		Entry("lowercase let", "let y = z", instr.Load{Dest: "y", Value: "z"}),
		Entry("input", "input n", instr.Input{Dest: "n"}),
		Entry("print", "print n", instr.Print{Src: "n"}),
		Entry("endif", "endif", instr.EndIf{}),
		Entry("endloop", "endloop", instr.LoopEnd{}),
		Entry("call", "call f", instr.Call{Target: "f"}),
		Entry("func", "func f", instr.Func{Name: "f"}),
		Entry("ret", "ret", instr.Ret{}),
		Entry("named profile", "profile hot", instr.Profile{Block: "hot"}),
		Entry("assignment", "x = 3", instr.Move{Dest: "x", Value: "3"}),
		Entry("indexed assignment", "arr[i] = 4", instr.Move{Dest: "arr[i]", Value: "4"}),
		Entry("assignment takes one value token", "x = y + 1", instr.Move{Dest: "x", Value: "y"}),
		Entry("let without value", "Let x =", instr.Nop{}),
		Entry("input without name", "input", instr.Nop{}),
		Entry("print without operand", "print", instr.Nop{}),
		Entry("short condition", "if x ==", instr.Nop{}),
		Entry("short loop condition", "loop i", instr.Nop{}),
		Entry("call without target", "call", instr.Nop{}),
		Entry("func without name", "func", instr.Nop{}),
		Entry("compound assignment", "x += 1", instr.Nop{}),
		Entry("assignment without value", "x =", instr.Nop{}),
		Entry("unknown statement", "hello world", instr.Nop{}),
	)

	It("should allocate distinct labels across statements", func() {
		Expect(gen("if x == 1:")).To(Equal(instr.Branch{Cond: "x == 1", Label: "else0"}))
		Expect(gen("loop i < 10:")).To(Equal(instr.Loop{Cond: "i < 10", Label: "loop1"}))
		Expect(gen("profile")).To(Equal(instr.Profile{Block: "block2"}))
		Expect(gen("if a != b")).To(Equal(instr.Branch{Cond: "a != b", Label: "else3"}))
		Expect(labels.Count()).To(Equal(4))
	})

	It("should not allocate a label for a Nop", func() {
		gen("if x")
		Expect(labels.Count()).To(Equal(0))
	})

	It("should record identifiers in the symbol table", func() {
		gen("Let x = 1")
		gen("input y")
		gen("z = 2")
		gen("call f")
		gen("func g")
		gen("print w")

		Expect(symbols.Variables()).To(Equal([]string{"x", "y", "z"}))
		Expect(symbols.Functions()).To(Equal([]string{"f", "g"}))
		_, ok := symbols.Lookup("w")
		Expect(ok).To(BeFalse())
	})

	It("should generate one instruction per lexed line", func() {
		src := "# program\nLet x = 1\nbogus\nprint x\n"

		out := g.GenerateLines(lexer.Lines(src))

		Expect(out).To(Equal([]instr.Instruction{
			instr.Load{Dest: "x", Value: "1"},
			instr.Nop{},
			instr.Print{Src: "x"},
		}))
	})
})

var _ = Describe("SymbolTable", func() {
	It("should keep the last role and report the change", func() {
		t := irgen.NewSymbolTable()
		t.Define("f", irgen.RoleVariable)
		t.Define("a", irgen.RoleVariable)
		t.Define("f", irgen.RoleFunction)
		t.Define("f", irgen.RoleFunction)

		role, ok := t.Lookup("f")
		Expect(ok).To(BeTrue())
		Expect(role).To(Equal(irgen.RoleFunction))
		Expect(t.Len()).To(Equal(2))
		Expect(t.Symbols()).To(Equal([]irgen.Symbol{
			{Name: "f", Role: irgen.RoleFunction},
			{Name: "a", Role: irgen.RoleVariable},
		}))
		Expect(t.Overwrites()).To(Equal([]irgen.Overwrite{
			{Name: "f", From: irgen.RoleVariable, To: irgen.RoleFunction},
		}))
	})

	It("should name its roles", func() {
		Expect(irgen.RoleVariable.String()).To(Equal("variable"))
		Expect(irgen.RoleFunction.String()).To(Equal("function"))
		Expect(irgen.Role(7).String()).To(Equal("Role(7)"))
	})
})
