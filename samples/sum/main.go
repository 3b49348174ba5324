package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/sarchlab/formia/core"
	"github.com/sarchlab/formia/instr"
	"github.com/tebeka/atexit"
)

//go:embed sum.fom
var sumSource string

func main() {
	c := core.NewCompilation()
	prog := c.Compile("sum", sumSource)

	fmt.Printf("raw (%d instructions)\n", len(prog.Raw))
	core.PrintProgram(os.Stdout, prog.Raw)

	fmt.Printf("\noptimized (%d instructions)\n", len(prog.Optimized))
	core.PrintProgram(os.Stdout, prog.Optimized)

	data, err := instr.EncodeYAML(prog.Optimized)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	fmt.Printf("\n%s", data)

	atexit.Exit(0)
}
