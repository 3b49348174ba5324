package core

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sarchlab/formia/instr"
)

// SourceExt is the extension of Formia source files.
const SourceExt = ".fom"

// Program is one compiled source file.
type Program struct {
	Name      string
	Raw       []instr.Instruction
	Optimized []instr.Instruction
}

// Final returns the sequence handed to backends: the optimized one when the
// optimizer ran, the raw one otherwise.
func (p Program) Final() []instr.Instruction {
	if p.Optimized != nil {
		return p.Optimized
	}

	return p.Raw
}

// ProgramName derives a program name from a file path by dropping the
// directory and the extension.
func ProgramName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LoadProgramFile reads a source file and generates its raw sequence in c.
// When optimize is set the sequence is optimized as well.
func (c *Compilation) LoadProgramFile(path string, optimize bool) (Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Program{}, fmt.Errorf("reading %s: %w", path, err)
	}

	name := ProgramName(path)
	if optimize {
		return c.Compile(name, string(data)), nil
	}

	return Program{Name: name, Raw: c.Generate(string(data))}, nil
}

// LoadProgramRecords reads a serialized instruction document (.json, .yaml
// or .yml) as the raw sequence of a program. Nothing is generated, so the
// symbol table stays empty.
func LoadProgramRecords(path string) (Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Program{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var insts []instr.Instruction
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		insts, err = instr.DecodeJSON(data)
	case ".yaml", ".yml":
		insts, err = instr.DecodeYAML(data)
	default:
		return Program{}, fmt.Errorf("%s: unknown record format", path)
	}

	if err != nil {
		return Program{}, fmt.Errorf("%s: %w", path, err)
	}

	return Program{Name: ProgramName(path), Raw: insts}, nil
}

// PrintProgram writes one instruction per line.
func PrintProgram(w io.Writer, insts []instr.Instruction) {
	for i, inst := range insts {
		fmt.Fprintf(w, "%4d  %s\n", i, instr.Format(inst))
	}
}
