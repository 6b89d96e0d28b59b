package program

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/wippyai/goto-nondet/errors"
)

func TestProgram_AddAndOrder(t *testing.T) {
	p := New()
	for _, name := range []string{"main", "helper", "init"} {
		if _, err := p.Add(name, straightBody("a")); err != nil {
			t.Fatalf("Add(%s): %v", name, err)
		}
	}
	_, err := p.Add("main", nil)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseLoad, Kind: errors.KindDuplicate}) {
		t.Errorf("duplicate Add err = %v", err)
	}

	var names []string
	for _, f := range p.Functions() {
		names = append(names, f.Name)
	}
	if strings.Join(names, ",") != "main,helper,init" {
		t.Errorf("order = %v", names)
	}
	if p.Len() != 3 {
		t.Errorf("Len = %d", p.Len())
	}

	f, ok := p.Function("helper")
	if !ok || f.Body.Len() != 1 {
		t.Errorf("Function(helper) = %v, %v", f, ok)
	}
}

func TestProgram_ComputeLocationNumbers(t *testing.T) {
	p := New()
	_, _ = p.Add("a", straightBody("x", "y"))
	_, _ = p.Add("empty", nil)
	_, _ = p.Add("b", straightBody("z", "w", "v"))

	total := p.ComputeLocationNumbers()
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	want := 0
	for _, f := range p.Functions() {
		for _, in := range f.Body.Instructions() {
			if in.LocationNumber != want {
				t.Errorf("%s: got number %d, want %d", f.Name, in.LocationNumber, want)
			}
			want++
		}
	}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestProgram_Validate_Overlap(t *testing.T) {
	p := New()
	_, _ = p.Add("a", straightBody("x", "y"))
	_, _ = p.Add("b", straightBody("z"))
	p.ComputeLocationNumbers()

	f, _ := p.Function("b")
	f.Body.Renumber(0)
	if err := p.Validate(); err == nil {
		t.Error("expected error for numbers restarting in a later function")
	}
}

func TestProgram_Validate_Unnumbered(t *testing.T) {
	p := New()
	_, _ = p.Add("a", straightBody("x"))
	if err := p.Validate(); err == nil {
		t.Error("expected error for unnumbered instruction")
	}
}

func TestProgram_Validate_Gap(t *testing.T) {
	p := New()
	_, _ = p.Add("a", straightBody("x", "y"))
	p.ComputeLocationNumbers()

	f, _ := p.Function("a")
	f.Body.At(1).LocationNumber = 7
	err := p.Validate()
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseValidate, Kind: errors.KindInvalidData}) {
		t.Errorf("Validate with gap = %v, want invalid_data", err)
	}
}

func TestProgram_Clone(t *testing.T) {
	p := New()
	_, _ = p.Add("a", straightBody("x", "y"))
	c := p.Clone()

	f, _ := c.Function("a")
	if _, err := f.Body.EraseRange(0, 1); err != nil {
		t.Fatal(err)
	}
	orig, _ := p.Function("a")
	if orig.Body.Len() != 2 {
		t.Error("editing the clone changed the original")
	}
}

func TestProgram_Format(t *testing.T) {
	p := New()
	_, _ = p.Add("a", straightBody("x"))
	_, _ = p.Add("b", straightBody("y"))
	p.ComputeLocationNumbers()

	var sb strings.Builder
	if err := p.Format(&sb); err != nil {
		t.Fatal(err)
	}
	want := "function /* a */\n  0: ASSIGN x := 0\n\nfunction /* b */\n  1: ASSIGN y := 0\n"
	if sb.String() != want {
		t.Errorf("Format =\n%q\nwant\n%q", sb.String(), want)
	}
}
