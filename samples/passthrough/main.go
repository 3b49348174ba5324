package main

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/formia/api"
	"github.com/sarchlab/formia/backend"
	"github.com/sarchlab/formia/core"
	"github.com/tebeka/atexit"
)

//go:embed passthrough.fom
var passThroughSource string

type stdout struct{ io.Writer }

func (stdout) Close() error { return nil }

func main() {
	c := core.NewCompilation()
	prog := c.Compile("passthrough", passThroughSource)

	core.PrintProgram(os.Stdout, prog.Final())
	fmt.Println()

	driver := api.DriverBuilder{}.
		WithBackend(backend.ASM{}).
		Build()

	_, err := driver.Emit(c.Unit(prog), func(string) (io.WriteCloser, error) {
		return stdout{os.Stdout}, nil
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
