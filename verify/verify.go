// Package verify provides static checks over Formia IR.
//
// The lint stage (lint.go) looks at one instruction sequence, raw or
// optimized, and reports two kinds of issues:
//
//   - STRUCT: block structure. Every Branch should be closed by an EndIf and
//     every Loop by a LoopEnd, without the two kinds crossing. Closers with
//     no opener and openers never closed are reported.
//   - SYMBOL: names. Calls to functions no Func defines, prints of names
//     nothing assigns, and identifiers whose role was replaced in the symbol
//     table.
//
// The generator and the optimizer accept all of these; lint never changes a
// sequence, it only describes it. The report stage (report.go) groups the
// issues and renders them as a table.
//
// # Usage Example
//
//	c := core.NewCompilation()
//	p := c.Compile("prog", source)
//	report := verify.GenerateReport(p.Final(), c.Symbols)
//	report.WriteReport(os.Stdout)
package verify

import "github.com/sarchlab/formia/instr"

// IssueType categorizes lint issues
type IssueType string

const (
	IssueStruct IssueType = "STRUCT" // Block structure (unclosed, stray or crossed blocks)
	IssueSymbol IssueType = "SYMBOL" // Identifier use (undefined callee, unassigned print, role change)
)

// Issue represents a single lint issue
type Issue struct {
	Type    IssueType              // STRUCT or SYMBOL
	Index   int                    // Instruction index, -1 if not applicable
	Op      instr.Op               // Tag of the instruction at Index
	Message string                 // Human-readable description
	Details map[string]interface{} // Additional structured data
}
