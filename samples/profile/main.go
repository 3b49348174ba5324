package main

import (
	_ "embed"
	"os"
	"time"

	"github.com/sarchlab/formia/core"
	valgen "github.com/sarchlab/formia/util"
	"github.com/sarchlab/formia/verify"
	"github.com/tebeka/atexit"
)

//go:embed profile.fom
var profileSource string

func main() {
	// A fixed step clock keeps the printed durations stable between runs.
	c := core.Builder{}.
		WithClock(valgen.MakeStepClock(time.Unix(0, 0), 250*time.Microsecond)).
		Build()

	prog := c.Compile("profile", profileSource)

	core.PrintProgram(os.Stdout, prog.Final())
	core.PrintDiagnostics(os.Stdout, c)

	report := verify.GenerateReport(prog.Final(), c.Symbols)
	report.WriteReport(os.Stdout)

	code := 0
	if !report.OK() {
		code = 1
	}

	atexit.Exit(code)
}
