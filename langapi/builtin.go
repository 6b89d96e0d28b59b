package langapi

import (
	"fmt"
	"io"

	"github.com/wippyai/goto-nondet/irfile"
	"github.com/wippyai/goto-nondet/program"
	"github.com/wippyai/goto-nondet/symtab"
)

// Built-in mode identifiers.
const (
	ModeYAML = "goto-yaml"
	ModeJSON = "goto-json"
)

// fileLanguage reads and writes irfile documents.
type fileLanguage struct {
	id     string
	exts   []string
	format irfile.Format
}

// NewYAML returns the goto-yaml language.
func NewYAML() Language {
	return &fileLanguage{id: ModeYAML, exts: []string{"yaml", "yml"}, format: irfile.YAML}
}

// NewJSON returns the goto-json language.
func NewJSON() Language {
	return &fileLanguage{id: ModeJSON, exts: []string{"json"}, format: irfile.JSON}
}

func (l *fileLanguage) ID() string           { return l.id }
func (l *fileLanguage) Extensions() []string { return l.exts }

func (l *fileLanguage) Parse(r io.Reader, filename string) (*program.Program, *symtab.Table, error) {
	p, st, err := irfile.Decode(r, l.format)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", filename, err)
	}
	return p, st, nil
}

func (l *fileLanguage) Write(w io.Writer, p *program.Program, st *symtab.Table) error {
	return irfile.Encode(w, p, st, l.format)
}

// Default returns a registry holding the built-in languages.
func Default() *Registry {
	r := NewRegistry()
	r.MustRegister(NewYAML)
	r.MustRegister(NewJSON)
	return r
}
