package verify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/formia/instr"
	"github.com/sarchlab/formia/irgen"
)

// VerificationReport represents a complete verification report
type VerificationReport struct {
	InstructionCount int
	LintIssues       []Issue
	StructIssues     []Issue
	SymbolIssues     []Issue
}

// GenerateReport runs lint and groups the issues.
func GenerateReport(insts []instr.Instruction, symbols *irgen.SymbolTable) *VerificationReport {
	report := &VerificationReport{
		InstructionCount: len(insts),
	}

	report.LintIssues = RunLint(insts, symbols)

	for _, issue := range report.LintIssues {
		if issue.Type == IssueStruct {
			report.StructIssues = append(report.StructIssues, issue)
		} else {
			report.SymbolIssues = append(report.SymbolIssues, issue)
		}
	}

	return report
}

// OK reports whether lint found nothing.
func (r *VerificationReport) OK() bool {
	return len(r.LintIssues) == 0
}

// WriteReport writes a formatted report to a writer
func (r *VerificationReport) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "IR LINT REPORT")
	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "Instructions checked: %d\n\n", r.InstructionCount)

	if r.OK() {
		fmt.Fprintln(w, "✓ No lint issues found!")
		return
	}

	t := table.NewWriter()
	t.SetTitle("%d issues (%d STRUCT, %d SYMBOL)",
		len(r.LintIssues), len(r.StructIssues), len(r.SymbolIssues))
	t.AppendHeader(table.Row{"Type", "Index", "Op", "Message"})

	for _, issue := range r.LintIssues {
		index := "-"
		if issue.Index >= 0 {
			index = fmt.Sprint(issue.Index)
		}

		t.AppendRow(table.Row{issue.Type, index, issue.Op, issue.Message})
	}

	fmt.Fprintln(w, t.Render())
}

// SaveReportToFile saves the report to a file
func (r *VerificationReport) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	r.WriteReport(file)
	return nil
}
