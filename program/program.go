package program

import (
	"fmt"
	"io"
	"strings"

	"github.com/wippyai/goto-nondet/errors"
)

// Function is a named function body.
type Function struct {
	Body *Body
	Name string
}

// Program maps function identifiers to bodies. Iteration follows
// insertion order.
type Program struct {
	funcs map[string]*Function
	order []string
}

// New returns an empty program.
func New() *Program {
	return &Program{funcs: make(map[string]*Function)}
}

// Add registers a function. Identifiers must be unique.
func (p *Program) Add(name string, body *Body) (*Function, error) {
	if _, exists := p.funcs[name]; exists {
		return nil, errors.Duplicate(errors.PhaseLoad, "function", name)
	}
	if body == nil {
		body = NewBody()
	}
	f := &Function{Name: name, Body: body}
	p.funcs[name] = f
	p.order = append(p.order, name)
	return f, nil
}

// Function returns the function called name.
func (p *Program) Function(name string) (*Function, bool) {
	f, ok := p.funcs[name]
	return f, ok
}

// Functions returns all functions in insertion order.
func (p *Program) Functions() []*Function {
	out := make([]*Function, 0, len(p.order))
	for _, name := range p.order {
		out = append(out, p.funcs[name])
	}
	return out
}

// Len returns the number of functions.
func (p *Program) Len() int { return len(p.order) }

// ComputeLocationNumbers numbers every instruction of every function so
// that iterating functions in order yields 0, 1, 2, ... without gaps.
// It returns the total instruction count.
func (p *Program) ComputeLocationNumbers() int {
	next := 0
	for _, name := range p.order {
		next = p.funcs[name].Body.Renumber(next)
	}
	return next
}

// Validate checks every body and that location numbers run 0, 1, 2, ...
// without gaps across the whole program in function order.
func (p *Program) Validate() error {
	expected := 0
	for _, f := range p.Functions() {
		if err := f.Body.Validate(); err != nil {
			return fmt.Errorf("function %s: %w", f.Name, err)
		}
		for i, in := range f.Body.instrs {
			if in.LocationNumber == Unnumbered {
				return errors.InvalidData(errors.PhaseValidate, []string{f.Name, fmt.Sprint(i)}, "instruction is not numbered")
			}
			if in.LocationNumber != expected {
				return errors.InvalidData(errors.PhaseValidate, []string{f.Name, fmt.Sprint(i)},
					fmt.Sprintf("location number %d, want %d", in.LocationNumber, expected))
			}
			expected++
		}
	}
	return nil
}

// Clone returns an independent copy of the program structure.
func (p *Program) Clone() *Program {
	out := New()
	for _, f := range p.Functions() {
		_, _ = out.Add(f.Name, f.Body.Clone())
	}
	return out
}

// Format writes every function listing.
func (p *Program) Format(w io.Writer) error {
	for i, f := range p.Functions() {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s /* %s */\n", "function", f.Name); err != nil {
			return err
		}
		if err := f.Body.Format(w); err != nil {
			return err
		}
	}
	return nil
}

func (p *Program) String() string {
	var sb strings.Builder
	_ = p.Format(&sb)
	return sb.String()
}
