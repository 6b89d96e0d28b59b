package langapi

import (
	"io"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/wippyai/goto-nondet/errors"
	"github.com/wippyai/goto-nondet/program"
	"github.com/wippyai/goto-nondet/symtab"
)

// Language is a front end able to load (and write back) programs.
type Language interface {
	// ID returns the mode identifier, e.g. "goto-yaml".
	ID() string

	// Extensions returns the file extensions handled, without the dot.
	Extensions() []string

	// Parse loads a program and its symbol table. The filename is used
	// for diagnostics only.
	Parse(r io.Reader, filename string) (*program.Program, *symtab.Table, error)

	// Write serializes p in this language's format.
	Write(w io.Writer, p *program.Program, st *symtab.Table) error
}

// Factory creates a fresh Language instance.
type Factory func() Language

type entry struct {
	factory    Factory
	id         string
	extensions []string
}

// Registry maps mode identifiers and extensions to language factories.
//
// Registration order is significant: when two languages claim the same
// extension, the one registered first wins.
type Registry struct {
	entries []entry
	foldExt bool
}

// NewRegistry creates an empty Registry. Extension matching ignores case
// on Windows.
func NewRegistry() *Registry {
	return &Registry{foldExt: runtime.GOOS == "windows"}
}

// Register records a factory under the ID and extensions reported by a
// probe instance. Registering an ID twice is an error.
func (r *Registry) Register(f Factory) error {
	if f == nil {
		return errors.InvalidInput(errors.PhaseRegistry, "nil language factory")
	}
	probe := f()
	if probe == nil || probe.ID() == "" {
		return errors.InvalidInput(errors.PhaseRegistry, "language factory returned no mode id")
	}
	id := probe.ID()
	for _, e := range r.entries {
		if e.id == id {
			return errors.Duplicate(errors.PhaseRegistry, "language mode", id)
		}
	}
	exts := make([]string, 0, len(probe.Extensions()))
	for _, ext := range probe.Extensions() {
		exts = append(exts, strings.TrimPrefix(ext, "."))
	}
	r.entries = append(r.entries, entry{id: id, extensions: exts, factory: f})
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(f Factory) {
	if err := r.Register(f); err != nil {
		panic(err)
	}
}

// FromMode returns a new instance of the language with the given ID.
func (r *Registry) FromMode(id string) (Language, error) {
	for _, e := range r.entries {
		if e.id == id {
			return e.factory(), nil
		}
	}
	return nil, &errors.UnknownMode{Query: id, Known: r.Modes()}
}

// FromFilename returns a new instance of the first language claiming the
// file's extension.
func (r *Registry) FromFilename(name string) (Language, error) {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext != "" {
		for _, e := range r.entries {
			for _, x := range e.extensions {
				if x == ext || (r.foldExt && strings.EqualFold(x, ext)) {
					return e.factory(), nil
				}
			}
		}
	}
	return nil, &errors.UnknownMode{Query: name, Known: r.Modes()}
}

// Modes returns the registered mode IDs, sorted.
func (r *Registry) Modes() []string {
	ids := make([]string, len(r.entries))
	for i, e := range r.entries {
		ids[i] = e.id
	}
	sort.Strings(ids)
	return ids
}

// Extensions returns the extensions registered for a mode.
func (r *Registry) Extensions(id string) []string {
	for _, e := range r.entries {
		if e.id == id {
			return append([]string(nil), e.extensions...)
		}
	}
	return nil
}
