package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:    PhaseMatch,
				Kind:     KindMalformedIdiom,
				Function: "java::A.main:()V",
				Location: "A.java:7",
				Path:     []string{"body", "3"},
				Detail:   "no assignment from carrier",
			},
			contains: []string{"[match]", "malformed_idiom", "java::A.main:()V", "A.java:7", "body.3", "no assignment from carrier"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseSplice,
				Kind:  KindOutOfBounds,
			},
			contains: []string{"[splice]", "out_of_bounds"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseGenerate,
				Kind:   KindUnsupported,
				Detail: "code type",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[generate]", "unsupported", "code type", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseLower,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not reach cause")
	}
}

func TestError_Is(t *testing.T) {
	err := MalformedIdiom("f", "A.java:1", 4, "trailing call")

	if !err.Is(&Error{Phase: PhaseMatch, Kind: KindMalformedIdiom}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseSplice, Kind: KindMalformedIdiom}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseMatch, Kind: KindDanglingTarget}) {
		t.Error("Is should not match different kind")
	}

	wrapped := Wrap(PhaseConfig, KindInvalidInput, err, "rewrite")
	if !errors.Is(wrapped, &Error{Phase: PhaseMatch, Kind: KindMalformedIdiom}) {
		t.Error("errors.Is should see through Wrap")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseMatch, KindMalformedIdiom).
		Path("body", "2").
		Function("main").
		Location("Main.java:3").
		Value(2).
		Cause(cause).
		Detail("carrier %s unused", "tmp").
		Build()

	if err.Phase != PhaseMatch {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseMatch)
	}
	if err.Kind != KindMalformedIdiom {
		t.Errorf("Kind = %v, want %v", err.Kind, KindMalformedIdiom)
	}
	if len(err.Path) != 2 || err.Path[0] != "body" || err.Path[1] != "2" {
		t.Errorf("Path = %v, want [body 2]", err.Path)
	}
	if err.Function != "main" || err.Location != "Main.java:3" {
		t.Errorf("Function=%q Location=%q", err.Function, err.Location)
	}
	if err.Value != 2 {
		t.Errorf("Value = %v, want 2", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "carrier tmp unused" {
		t.Errorf("Detail = %q", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("MalformedIdiom", func(t *testing.T) {
		err := MalformedIdiom("f", "X.java:9", 3, "no carrier")
		if err.Kind != KindMalformedIdiom || err.Phase != PhaseMatch {
			t.Errorf("got %v/%v", err.Phase, err.Kind)
		}
		if err.Value != 3 {
			t.Errorf("Value = %v, want 3", err.Value)
		}
	})

	t.Run("DanglingTarget", func(t *testing.T) {
		err := DanglingTarget(7, 2)
		if err.Kind != KindDanglingTarget {
			t.Errorf("Kind = %v", err.Kind)
		}
		if !strings.Contains(err.Detail, "7") || !strings.Contains(err.Detail, "2") {
			t.Errorf("Detail = %q", err.Detail)
		}
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		err := OutOfBounds(PhaseSplice, 10, 5)
		if err.Kind != KindOutOfBounds {
			t.Errorf("Kind = %v", err.Kind)
		}
		if err.Value != 10 {
			t.Errorf("Value = %v, want 10", err.Value)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseLower, "symbol", "x")
		if err.Kind != KindNotFound || !strings.Contains(err.Detail, `"x"`) {
			t.Errorf("got %v", err)
		}
	})

	t.Run("Duplicate", func(t *testing.T) {
		err := Duplicate(PhaseLoad, "function", "main")
		if err.Kind != KindDuplicate {
			t.Errorf("Kind = %v", err.Kind)
		}
	})

	t.Run("RecursionLimit", func(t *testing.T) {
		err := RecursionLimit("struct Node", 5)
		if err.Phase != PhaseGenerate || err.Kind != KindRecursionLimit {
			t.Errorf("got %v/%v", err.Phase, err.Kind)
		}
	})

	t.Run("ParseFailed", func(t *testing.T) {
		cause := errors.New("bad yaml")
		err := ParseFailed("program", cause)
		if !errors.Is(err, cause) {
			t.Error("ParseFailed should wrap cause")
		}
	})
}

func TestUnknownMode(t *testing.T) {
	t.Run("no modes", func(t *testing.T) {
		err := &UnknownMode{Query: "x.c"}
		if !strings.Contains(err.Error(), "no language registered") {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("lists known", func(t *testing.T) {
		err := &UnknownMode{Query: "x.c", Known: []string{"goto-json", "goto-yaml"}}
		if !strings.Contains(err.Error(), "goto-json, goto-yaml") {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("errors.Is", func(t *testing.T) {
		var err error = &UnknownMode{Query: "q"}
		if !errors.Is(err, &UnknownMode{}) {
			t.Error("errors.Is should match UnknownMode")
		}
	})
}
