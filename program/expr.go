package program

import (
	"strings"
)

// Expr is a side-effect free expression, except for Nondet which
// yields an arbitrary value of its type.
type Expr interface {
	String() string
	exprType() Type
}

// TypeOf returns the type of e, or nil for a nil expression.
func TypeOf(e Expr) Type {
	if e == nil {
		return nil
	}
	return e.exprType()
}

// Symbol references a symbol table entry by identifier.
type Symbol struct {
	Type Type
	ID   string
}

// Constant is a literal value in its textual form.
type Constant struct {
	Type  Type
	Value string
}

// Nondet yields an arbitrary value of Type.
type Nondet struct {
	Type Type
}

// Null is the null reference of a pointer Type.
type Null struct {
	Type Type
}

// Typecast converts a single operand to Type.
type Typecast struct {
	Op   Expr
	Type Type
}

// AddressOf takes the address of an lvalue.
type AddressOf struct {
	Op Expr
}

// Deref dereferences a pointer.
type Deref struct {
	Op Expr
}

// Member selects a struct component.
type Member struct {
	Op    Expr
	Type  Type
	Field string
}

// Index selects an array element.
type Index struct {
	Array Expr
	Index Expr
}

// Not is boolean negation.
type Not struct {
	Op Expr
}

// BinOp is a binary operator.
type BinOp string

const (
	OpEq  BinOp = "=="
	OpNe  BinOp = "!="
	OpLt  BinOp = "<"
	OpLe  BinOp = "<="
	OpGt  BinOp = ">"
	OpGe  BinOp = ">="
	OpAnd BinOp = "&&"
	OpOr  BinOp = "||"
	OpAdd BinOp = "+"
	OpSub BinOp = "-"
)

// IsRelation reports whether op yields a boolean.
func (op BinOp) IsRelation() bool {
	return op != OpAdd && op != OpSub
}

// Binary applies Op to LHS and RHS.
type Binary struct {
	LHS Expr
	RHS Expr
	Op  BinOp
}

func (e *Symbol) exprType() Type    { return e.Type }
func (e *Constant) exprType() Type  { return e.Type }
func (e *Nondet) exprType() Type    { return e.Type }
func (e *Null) exprType() Type      { return e.Type }
func (e *Typecast) exprType() Type  { return e.Type }
func (e *AddressOf) exprType() Type { return Pointer(TypeOf(e.Op)) }
func (e *Member) exprType() Type    { return e.Type }
func (e *Not) exprType() Type       { return Bool }

func (e *Deref) exprType() Type {
	if p, ok := TypeOf(e.Op).(PointerType); ok {
		return p.Elem
	}
	return nil
}

func (e *Index) exprType() Type {
	if a, ok := TypeOf(e.Array).(ArrayType); ok {
		return a.Elem
	}
	return nil
}

func (e *Binary) exprType() Type {
	if e.Op.IsRelation() {
		return Bool
	}
	return TypeOf(e.LHS)
}

func (e *Symbol) String() string   { return e.ID }
func (e *Constant) String() string { return e.Value }
func (e *Nondet) String() string   { return "NONDET(" + typeString(e.Type) + ")" }
func (e *Null) String() string     { return "null" }

func (e *Typecast) String() string {
	return "(" + typeString(e.Type) + ")" + operandString(e.Op)
}

func (e *AddressOf) String() string { return "&" + operandString(e.Op) }
func (e *Deref) String() string     { return "*" + operandString(e.Op) }
func (e *Member) String() string    { return operandString(e.Op) + "." + e.Field }
func (e *Not) String() string       { return "!" + operandString(e.Op) }

func (e *Index) String() string {
	return operandString(e.Array) + "[" + exprString(e.Index) + "]"
}

func (e *Binary) String() string {
	return operandString(e.LHS) + " " + string(e.Op) + " " + operandString(e.RHS)
}

func exprString(e Expr) string {
	if e == nil {
		return "<nil>"
	}
	return e.String()
}

// operandString parenthesizes compound operands.
func operandString(e Expr) string {
	switch e.(type) {
	case *Binary, *Typecast:
		return "(" + e.String() + ")"
	}
	return exprString(e)
}

func typeString(t Type) string {
	if t == nil {
		return "?"
	}
	return t.String()
}

// NewSymbol returns a symbol expression.
func NewSymbol(id string, t Type) *Symbol { return &Symbol{ID: id, Type: t} }

// True and False are boolean constants.
func True() *Constant  { return &Constant{Value: "true", Type: Bool} }
func False() *Constant { return &Constant{Value: "false", Type: Bool} }

// IntConst returns an int32 constant.
func IntConst(v string) *Constant { return &Constant{Value: v, Type: Int32} }

// SymbolID returns the identifier of e when e is a plain symbol.
func SymbolID(e Expr) (string, bool) {
	s, ok := e.(*Symbol)
	if !ok || s == nil {
		return "", false
	}
	return s.ID, true
}

// IsSymbolWithID reports whether e is the plain symbol id.
func IsSymbolWithID(e Expr, id string) bool {
	got, ok := SymbolID(e)
	return ok && got == id
}

// IsTypecastOfSymbol reports whether e is a single-operand typecast whose
// operand is the plain symbol id.
func IsTypecastOfSymbol(e Expr, id string) bool {
	tc, ok := e.(*Typecast)
	if !ok || tc == nil {
		return false
	}
	return IsSymbolWithID(tc.Op, id)
}

// References reports whether id occurs anywhere inside e.
func References(e Expr, id string) bool {
	found := false
	Walk(e, func(sub Expr) bool {
		if IsSymbolWithID(sub, id) {
			found = true
		}
		return !found
	})
	return found
}

// Walk visits e and its operands depth-first until visit returns false.
func Walk(e Expr, visit func(Expr) bool) bool {
	if e == nil {
		return true
	}
	if !visit(e) {
		return false
	}
	for _, op := range Operands(e) {
		if !Walk(op, visit) {
			return false
		}
	}
	return true
}

// Operands returns the direct sub-expressions of e.
func Operands(e Expr) []Expr {
	switch x := e.(type) {
	case *Typecast:
		return []Expr{x.Op}
	case *AddressOf:
		return []Expr{x.Op}
	case *Deref:
		return []Expr{x.Op}
	case *Member:
		return []Expr{x.Op}
	case *Not:
		return []Expr{x.Op}
	case *Index:
		return []Expr{x.Array, x.Index}
	case *Binary:
		return []Expr{x.LHS, x.RHS}
	}
	return nil
}

// joinExprs renders a comma separated operand list.
func joinExprs(es []Expr) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = exprString(e)
	}
	return strings.Join(parts, ", ")
}
