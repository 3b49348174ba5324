// Package backend provides the output formats a compiled unit can be
// rendered into.
package backend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sarchlab/formia/api"
	"github.com/sarchlab/formia/instr"
	"github.com/sarchlab/formia/lexer"
)

var factories = map[string]func() api.Backend{
	"asm":     func() api.Backend { return ASM{} },
	"raw":     func() api.Backend { return Raw{} },
	"modstub": func() api.Backend { return ModStub{} },
	"objstub": func() api.Backend { return ObjStub{} },
}

// Names lists the available backends.
func Names() []string {
	names := make([]string, 0, len(factories))
	for n := range factories {
		names = append(names, n)
	}
	sort.Strings(names)

	return names
}

// ByName creates the backend with the given name.
func ByName(name string) (api.Backend, error) {
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown backend %q (have %s)",
			name, strings.Join(Names(), ", "))
	}

	return f(), nil
}

// symbolName turns an IR name into an assembler identifier.
func symbolName(name string) string {
	var sb strings.Builder
	for _, r := range name {
		if lexer.IsWordRune(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteRune('_')
		}
	}

	return sb.String()
}

func isLiteral(s string) bool {
	if s == "" {
		return false
	}

	if s[0] == '-' || s[0] == '+' {
		s = s[1:]
	}

	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

// dataNames collects every variable a unit touches: the symbol table's
// variables first, then names only referenced by instructions.
func dataNames(unit api.Unit) []string {
	seen := make(map[string]bool)
	var names []string

	add := func(n string) {
		if n == "" || isLiteral(n) {
			return
		}
		n = symbolName(n)
		if seen[n] {
			return
		}
		seen[n] = true
		names = append(names, n)
	}

	for _, v := range unit.Variables {
		add(v)
	}

	for _, inst := range unit.Instructions {
		switch v := inst.(type) {
		case instr.Load:
			add(v.Dest)
			add(v.Value)
		case instr.Move:
			add(v.Dest)
			add(v.Value)
		case instr.Input:
			add(v.Dest)
		case instr.Print:
			add(v.Src)
		case instr.CallWithValue:
			add(v.Value)
		case instr.Branch:
			if lhs, _, rhs, ok := instr.SplitCondition(v.Cond); ok {
				add(lhs)
				add(rhs)
			}
		case instr.Loop:
			if lhs, _, rhs, ok := instr.SplitCondition(v.Cond); ok {
				add(lhs)
				add(rhs)
			}
		}
	}

	return names
}
