// Package symtab holds the symbols and named struct types of a program.
package symtab

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wippyai/goto-nondet/errors"
	"github.com/wippyai/goto-nondet/program"
)

// Symbol is a symbol table entry.
type Symbol struct {
	Type     program.Type
	Location program.SourceLocation
	Name     string
	BaseName string
	Mode     string
	IsStatic bool
}

// Expr returns a symbol expression referring to s.
func (s *Symbol) Expr() *program.Symbol {
	return program.NewSymbol(s.Name, s.Type)
}

// Table maps identifiers to symbols and struct names to definitions.
type Table struct {
	symbols map[string]*Symbol
	structs map[string]program.StructType
	fresh   map[string]int
}

// New returns an empty table.
func New() *Table {
	return &Table{
		symbols: make(map[string]*Symbol),
		structs: make(map[string]program.StructType),
		fresh:   make(map[string]int),
	}
}

// Add inserts sym. Names must be unique.
func (t *Table) Add(sym *Symbol) error {
	if sym == nil || sym.Name == "" {
		return errors.InvalidInput(errors.PhaseLoad, "symbol without name")
	}
	if _, exists := t.symbols[sym.Name]; exists {
		return errors.Duplicate(errors.PhaseLoad, "symbol", sym.Name)
	}
	if sym.BaseName == "" {
		sym.BaseName = baseName(sym.Name)
	}
	t.symbols[sym.Name] = sym
	return nil
}

// Lookup returns the symbol called name.
func (t *Table) Lookup(name string) (*Symbol, bool) {
	s, ok := t.symbols[name]
	return s, ok
}

// Has reports whether name is defined.
func (t *Table) Has(name string) bool {
	_, ok := t.symbols[name]
	return ok
}

// Len returns the number of symbols.
func (t *Table) Len() int { return len(t.symbols) }

// Symbols returns all symbols sorted by name.
func (t *Table) Symbols() []*Symbol {
	out := make([]*Symbol, 0, len(t.symbols))
	for _, s := range t.symbols {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// DefineStruct registers a named struct type.
func (t *Table) DefineStruct(st program.StructType) error {
	if st.Name == "" {
		return errors.InvalidInput(errors.PhaseLoad, "struct without name")
	}
	if _, exists := t.structs[st.Name]; exists {
		return errors.Duplicate(errors.PhaseLoad, "struct", st.Name)
	}
	t.structs[st.Name] = st
	return nil
}

// Struct returns the definition of the named struct.
func (t *Table) Struct(name string) (program.StructType, bool) {
	st, ok := t.structs[name]
	return st, ok
}

// Structs returns all struct definitions sorted by name.
func (t *Table) Structs() []program.StructType {
	out := make([]program.StructType, 0, len(t.structs))
	for _, st := range t.structs {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Resolve replaces a struct tag by its definition. Other types are
// returned unchanged.
func (t *Table) Resolve(typ program.Type) (program.Type, error) {
	tag, ok := typ.(program.StructTag)
	if !ok {
		return typ, nil
	}
	st, ok := t.structs[tag.Name]
	if !ok {
		return nil, errors.NotFound(errors.PhaseGenerate, "struct", tag.Name)
	}
	return st, nil
}

// Fresh adds a new symbol named prefix$N, where N makes the name unique.
func (t *Table) Fresh(prefix string, typ program.Type, loc program.SourceLocation, mode string) *Symbol {
	for {
		n := t.fresh[prefix]
		t.fresh[prefix] = n + 1
		name := fmt.Sprintf("%s$%d", prefix, n)
		if _, taken := t.symbols[name]; taken {
			continue
		}
		s := &Symbol{
			Name:     name,
			BaseName: baseName(name),
			Type:     typ,
			Location: loc,
			Mode:     mode,
		}
		t.symbols[name] = s
		return s
	}
}

// baseName strips the qualification of an identifier.
func baseName(name string) string {
	if i := strings.LastIndex(name, "::"); i >= 0 {
		return name[i+2:]
	}
	return name
}
