package nondet

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/goto-nondet/errors"
	"github.com/wippyai/goto-nondet/program"
	"github.com/wippyai/goto-nondet/symtab"
)

var loc = program.SourceLocation{File: "Main.java", Line: 5, Function: "Main.main"}

const stub = "java::org.cprover.CProver.nondetWithoutNull:()Ljava/lang/Object;"

func fooTable(t *testing.T) *symtab.Table {
	t.Helper()
	st := symtab.New()
	err := st.DefineStruct(program.StructType{
		Name: "Foo",
		Fields: []program.Field{
			{Name: "n", Type: program.Int32},
			{Name: "data", Type: program.Pointer(program.ArrayOf(program.Int32, -1))},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return st
}

func TestRewrite_EndToEnd(t *testing.T) {
	st := fooTable(t)
	fooPtr := program.Pointer(program.Tag("Foo"))
	objPtr := program.Pointer(program.Tag("java.lang.Object"))
	x := program.NewSymbol("x", fooPtr)
	t1 := program.NewSymbol("t1", objPtr)

	p := program.New()
	body := program.NewBody(
		program.NewCall(t1, program.NewSymbol(stub, program.CodeType{Return: objPtr}), nil, loc),
		program.NewAssign(x, &program.Typecast{Op: t1, Type: fooPtr}, loc),
		program.NewEndFunction(loc),
	)
	if _, err := p.Add("Main.main", body); err != nil {
		t.Fatal(err)
	}

	report, err := Rewrite(p, Config{Symbols: st, MaxArrayLength: 5})
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	if len(report.Rewrites) != 1 {
		t.Fatalf("rewrites = %+v", report.Rewrites)
	}
	rw := report.Rewrites[0]
	if rw.Variant != NeverNull || rw.Target != "x" || rw.Callee != stub {
		t.Errorf("rewrite = %+v", rw)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	text := body.String()
	for _, want := range []string{
		"DECL struct Foo tmp_object_factory$0",
		"ASSUME tmp_array_length$0 <= 5",
		"ASSIGN x := &tmp_object_factory$0",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("body lacks %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "x := null") {
		t.Errorf("never-null target assigned null:\n%s", text)
	}
	if strings.Contains(text, stub) {
		t.Errorf("stub call survived:\n%s", text)
	}
	if !st.Has("tmp_object_factory$0") {
		t.Error("generated object not in symbol table")
	}

	// A second pass over the rewritten program changes nothing.
	before := body.String()
	again, err := Rewrite(p, Config{Symbols: st, MaxArrayLength: 5})
	if err != nil {
		t.Fatalf("second Rewrite: %v", err)
	}
	if len(again.Rewrites) != 0 {
		t.Errorf("second pass rewrote %+v", again.Rewrites)
	}
	if diff := cmp.Diff(before, body.String()); diff != "" {
		t.Errorf("second pass changed body (-before +after):\n%s", diff)
	}
}

func TestRewrite_InvalidConfig(t *testing.T) {
	p := program.New()
	tests := []struct {
		name string
		prog *program.Program
		cfg  Config
	}{
		{"no symbols", p, Config{}},
		{"negative length", p, Config{Symbols: symtab.New(), MaxArrayLength: -1}},
		{"no program", nil, Config{Symbols: symtab.New()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Rewrite(tt.prog, tt.cfg)
			if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseConfig, Kind: errors.KindInvalidInput}) {
				t.Errorf("err = %v, want invalid input", err)
			}
		})
	}
}

func TestRewrite_CustomStub(t *testing.T) {
	st := symtab.New()
	n := program.NewSymbol("n", program.Int64)
	ret := program.NewSymbol("ret", program.Int64)
	p := program.New()
	body := program.NewBody(
		program.NewCall(ret, program.NewSymbol("my.lib.Stubs.anyLong", program.CodeType{Return: program.Int64}), nil, loc),
		program.NewAssign(n, ret, loc),
		program.NewEndFunction(loc),
	)
	if _, err := p.Add("Main.main", body); err != nil {
		t.Fatal(err)
	}

	matcher := NewCompositeMatcher(
		NewPatternMatcher(DefaultNamespace),
		NewExactMatcher(map[string]Variant{"my.lib.Stubs.anyLong": NeverNull}),
	)
	if _, err := Rewrite(p, Config{Symbols: st, Matcher: matcher}); err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	want := []string{"ASSIGN n := NONDET(int64)", "END_FUNCTION"}
	var got []string
	for _, in := range body.Instructions() {
		got = append(got, in.String())
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("body (-want +got):\n%s", diff)
	}
}
