package irgen

import "fmt"

// Role is what an identifier is used as.
type Role int

// The identifier roles.
const (
	RoleVariable Role = iota
	RoleFunction
)

func (r Role) String() string {
	switch r {
	case RoleVariable:
		return "variable"
	case RoleFunction:
		return "function"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Symbol is one entry of the symbol table.
type Symbol struct {
	Name string
	Role Role
}

// Overwrite records a name whose role was replaced by a later definition.
type Overwrite struct {
	Name     string
	From, To Role
}

// SymbolTable maps identifiers to roles. Entries keep the position of their
// first definition; a later definition with another role replaces the role.
type SymbolTable struct {
	order      []string
	roles      map[string]Role
	overwrites []Overwrite
}

// NewSymbolTable creates an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{roles: make(map[string]Role)}
}

// Define records name with role.
func (t *SymbolTable) Define(name string, role Role) {
	prev, ok := t.roles[name]
	if !ok {
		t.order = append(t.order, name)
	} else if prev != role {
		t.overwrites = append(t.overwrites, Overwrite{Name: name, From: prev, To: role})
	}

	t.roles[name] = role
}

// Lookup returns the role of name.
func (t *SymbolTable) Lookup(name string) (Role, bool) {
	r, ok := t.roles[name]
	return r, ok
}

// Len returns the number of distinct names.
func (t *SymbolTable) Len() int {
	return len(t.order)
}

// Symbols returns the entries in insertion order.
func (t *SymbolTable) Symbols() []Symbol {
	out := make([]Symbol, 0, len(t.order))
	for _, n := range t.order {
		out = append(out, Symbol{Name: n, Role: t.roles[n]})
	}

	return out
}

// Variables returns the names currently recorded as variables.
func (t *SymbolTable) Variables() []string {
	return t.withRole(RoleVariable)
}

// Functions returns the names currently recorded as functions.
func (t *SymbolTable) Functions() []string {
	return t.withRole(RoleFunction)
}

// Overwrites lists every role replacement in the order it happened.
func (t *SymbolTable) Overwrites() []Overwrite {
	return append([]Overwrite(nil), t.overwrites...)
}

func (t *SymbolTable) withRole(role Role) []string {
	var out []string
	for _, n := range t.order {
		if t.roles[n] == role {
			out = append(out, n)
		}
	}

	return out
}
