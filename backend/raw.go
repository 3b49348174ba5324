package backend

import (
	"io"

	"github.com/sarchlab/formia/api"
	"github.com/sarchlab/formia/instr"
)

// Raw dumps one instruction per line with its index.
type Raw struct{}

// Name returns "raw".
func (Raw) Name() string { return "raw" }

// Extension returns "ir".
func (Raw) Extension() string { return "ir" }

// Render writes "index op field=value ...".
func (Raw) Render(w io.Writer, unit api.Unit) error {
	lw := &lineWriter{w: w}

	lw.line("; %s: %d instructions", unit.Name, len(unit.Instructions))
	for i, inst := range unit.Instructions {
		lw.line("%d %s", i, instr.Format(inst))
	}

	return lw.err
}
