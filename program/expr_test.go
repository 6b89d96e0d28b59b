package program

import "testing"

func TestExpr_String(t *testing.T) {
	obj := NewSymbol("obj", Tag("Node"))
	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{"symbol", sym("x"), "x"},
		{"typecast", &Typecast{Op: sym("t"), Type: Pointer(Tag("Foo"))}, "(*struct Foo)t"},
		{"address of member", &AddressOf{Op: &Member{Op: obj, Field: "next", Type: Pointer(Tag("Node"))}}, "&obj.next"},
		{"index", &Index{Array: NewSymbol("arr", ArrayOf(Int32, 4)), Index: sym("i")}, "arr[i]"},
		{"nested binary", &Binary{Op: OpAnd, LHS: &Binary{Op: OpGe, LHS: sym("n"), RHS: IntConst("0")}, RHS: &Not{Op: sym("b")}}, "(n >= 0) && !b"},
		{"null", &Null{Type: Pointer(Tag("Foo"))}, "null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.expr.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTypeOf(t *testing.T) {
	arr := NewSymbol("arr", ArrayOf(Float64, 3))
	ptr := NewSymbol("p", Pointer(Int64))
	tests := []struct {
		name string
		expr Expr
		want Type
	}{
		{"nil", nil, nil},
		{"index", &Index{Array: arr, Index: IntConst("0")}, Float64},
		{"deref", &Deref{Op: ptr}, Int64},
		{"address", &AddressOf{Op: arr}, Pointer(ArrayOf(Float64, 3))},
		{"relation", &Binary{Op: OpLt, LHS: sym("i"), RHS: sym("n")}, Bool},
		{"arith", &Binary{Op: OpAdd, LHS: sym("i"), RHS: IntConst("1")}, Int32},
		{"deref non-pointer", &Deref{Op: sym("i")}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TypeOf(tt.expr); !SameType(got, tt.want) {
				t.Errorf("TypeOf = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSymbolMatching(t *testing.T) {
	carrier := "java::A.main:()V::return_tmp0"
	c := NewSymbol(carrier, Pointer(Tag("java.lang.Object")))

	if !IsSymbolWithID(c, carrier) {
		t.Error("IsSymbolWithID should match the plain symbol")
	}
	if IsSymbolWithID(&Deref{Op: c}, carrier) {
		t.Error("IsSymbolWithID should not match a compound expression")
	}
	if !IsTypecastOfSymbol(&Typecast{Op: c, Type: Pointer(Tag("Foo"))}, carrier) {
		t.Error("IsTypecastOfSymbol should match a cast of the symbol")
	}
	if IsTypecastOfSymbol(&Typecast{Op: &Deref{Op: c}, Type: Int32}, carrier) {
		t.Error("IsTypecastOfSymbol should not match a cast of a compound operand")
	}
	if !References(&Binary{Op: OpNe, LHS: &Member{Op: &Deref{Op: c}, Field: "f"}, RHS: IntConst("0")}, carrier) {
		t.Error("References should find nested use")
	}
	if References(sym("other"), carrier) {
		t.Error("References should not match other symbols")
	}
}

func TestSameType(t *testing.T) {
	node := StructType{Name: "Node", Fields: []Field{{Name: "next", Type: Pointer(Tag("Node"))}}}
	tests := []struct {
		a, b Type
		want bool
	}{
		{Int32, IntType{Bits: 32, Signed: true}, true},
		{Int32, IntType{Bits: 32}, false},
		{node, Tag("Node"), true},
		{Tag("Node"), Tag("List"), false},
		{ArrayOf(Int8, 2), ArrayOf(Int8, 3), false},
		{Pointer(Tag("Node")), Pointer(node), true},
		{CodeType{Return: Void, Params: []Type{Int32}}, CodeType{Return: Void, Params: []Type{Int32}}, true},
		{CodeType{Return: Void}, CodeType{Return: Bool}, false},
	}
	for _, tt := range tests {
		if got := SameType(tt.a, tt.b); got != tt.want {
			t.Errorf("SameType(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestKindNames(t *testing.T) {
	for k := KindSkip; k <= KindEndFunction; k++ {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseKind("jump"); ok {
		t.Error("unknown kind parsed")
	}
	if Kind(200).String() != "Kind(200)" {
		t.Errorf("unexpected %q", Kind(200).String())
	}
}

func TestInstruction_Mentions(t *testing.T) {
	in := NewCall(nil, NewSymbol("f", CodeType{}), []Expr{&AddressOf{Op: sym("x")}}, loc)
	if !in.Mentions("x") {
		t.Error("call argument not found")
	}
	if in.Mentions("y") {
		t.Error("unexpected mention")
	}
	assume := NewAssume(&Binary{Op: OpLe, LHS: sym("len"), RHS: IntConst("5")}, loc)
	if !assume.Mentions("len") {
		t.Error("guard not inspected")
	}
}

func TestSourceLocation_String(t *testing.T) {
	if (SourceLocation{}).String() != "<unknown>" {
		t.Error("empty location")
	}
	l := SourceLocation{File: "A.java", Line: 4, Function: "A.main"}
	if l.String() != "A.java:4 function A.main" {
		t.Errorf("got %q", l.String())
	}
}
