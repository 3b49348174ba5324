package backend

import (
	"io"
	"strings"

	"github.com/sarchlab/formia/api"
	"github.com/sarchlab/formia/instr"
)

// ObjStub writes a textual stand-in for an object file: a symbol listing
// followed by the code records.
type ObjStub struct{}

// Name returns "objstub".
func (ObjStub) Name() string { return "objstub" }

// Extension returns "o.txt".
func (ObjStub) Extension() string { return "o.txt" }

// Render writes the header, the symbols and one record per instruction.
func (ObjStub) Render(w io.Writer, unit api.Unit) error {
	lw := &lineWriter{w: w}

	lw.line("; formia object stub")
	lw.line(".unit %s", unit.Name)

	for _, v := range dataNames(unit) {
		lw.line(".data %s", v)
	}

	for _, f := range unit.Functions {
		lw.line(".text %s", symbolName(f))
	}

	lw.line(".code %d", len(unit.Instructions))
	for _, inst := range unit.Instructions {
		fields := make([]string, 0, 2)
		for _, o := range instr.Operands(inst) {
			fields = append(fields, o.Value)
		}

		lw.line("    %-16s %s", inst.Op(), strings.Join(fields, ", "))
	}

	return lw.err
}
