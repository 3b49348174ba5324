// Package api defines how compiled units are handed to output backends.
package api

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/sarchlab/formia/instr"
)

// Unit is one compiled program as seen by a backend.
type Unit struct {
	// Name is the base name artifacts are derived from.
	Name string

	// Instructions is the optimized sequence. Backends render every
	// instruction exactly once, in order.
	Instructions []instr.Instruction

	// Variables and Functions come from the symbol table, in insertion
	// order.
	Variables []string
	Functions []string
}

// Backend renders a unit into one output format.
type Backend interface {
	// Name identifies the backend, e.g. "asm".
	Name() string

	// Extension is the file extension of the artifact, without the dot.
	Extension() string

	// Render writes the artifact for unit to w.
	Render(w io.Writer, unit Unit) error
}

// OpenFunc opens the destination of one artifact.
type OpenFunc func(name string) (io.WriteCloser, error)

// Artifact describes one rendered output.
type Artifact struct {
	Backend string
	Name    string
}

// Driver feeds compiled units to the registered backends.
type Driver interface {
	// RegisterBackend adds a backend. Backends run in registration order.
	RegisterBackend(b Backend)

	// Backends returns the registered backends.
	Backends() []Backend

	// Emit renders unit through every backend. Each artifact is named
	// unit.Name + "." + extension and opened with open.
	Emit(unit Unit, open OpenFunc) ([]Artifact, error)
}

type driverImpl struct {
	backends []Backend
	names    map[string]bool
}

func (d *driverImpl) RegisterBackend(b Backend) {
	if d.names[b.Name()] {
		panic(fmt.Sprintf("backend %s already registered", b.Name()))
	}

	d.names[b.Name()] = true
	d.backends = append(d.backends, b)
}

func (d *driverImpl) Backends() []Backend {
	return append([]Backend(nil), d.backends...)
}

func (d *driverImpl) Emit(unit Unit, open OpenFunc) ([]Artifact, error) {
	var artifacts []Artifact

	for _, b := range d.backends {
		a, err := d.emitOne(b, unit, open)
		if err != nil {
			return artifacts, err
		}

		artifacts = append(artifacts, a)
	}

	return artifacts, nil
}

func (d *driverImpl) emitOne(b Backend, unit Unit, open OpenFunc) (Artifact, error) {
	a := Artifact{
		Backend: b.Name(),
		Name:    unit.Name + "." + b.Extension(),
	}

	w, err := open(a.Name)
	if err != nil {
		return a, fmt.Errorf("backend %s: opening %s: %w", b.Name(), a.Name, err)
	}

	view := unit
	view.Instructions = instr.Clone(unit.Instructions)

	if err := b.Render(w, view); err != nil {
		w.Close()
		return a, fmt.Errorf("backend %s: rendering: %w", b.Name(), err)
	}

	if err := w.Close(); err != nil {
		return a, fmt.Errorf("backend %s: closing %s: %w", b.Name(), a.Name, err)
	}

	slog.Info("artifact written",
		"Backend", a.Backend,
		"Name", a.Name,
		"Instructions", len(unit.Instructions),
	)

	return a, nil
}
