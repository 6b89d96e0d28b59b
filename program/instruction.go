package program

import (
	"fmt"
	"strings"
)

// Kind discriminates instructions.
type Kind uint8

const (
	KindSkip Kind = iota
	KindAssign
	KindCall
	KindGoto
	KindAssume
	KindAssert
	KindDecl
	KindDead
	KindReturn
	KindOther
	KindEndFunction
)

var kindNames = [...]string{
	KindSkip:        "SKIP",
	KindAssign:      "ASSIGN",
	KindCall:        "FUNCTION_CALL",
	KindGoto:        "GOTO",
	KindAssume:      "ASSUME",
	KindAssert:      "ASSERT",
	KindDecl:        "DECL",
	KindDead:        "DEAD",
	KindReturn:      "RETURN",
	KindOther:       "OTHER",
	KindEndFunction: "END_FUNCTION",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind maps a kind name back to its Kind.
func ParseKind(name string) (Kind, bool) {
	for i, n := range kindNames {
		if strings.EqualFold(n, name) {
			return Kind(i), true
		}
	}
	return 0, false
}

// Unnumbered marks an instruction that has not been renumbered since it
// was created.
const Unnumbered = -1

// SourceLocation attributes an instruction to source code.
type SourceLocation struct {
	File     string
	Function string
	Line     int
}

// IsNil reports whether no location information is present.
func (l SourceLocation) IsNil() bool {
	return l.File == "" && l.Line == 0 && l.Function == ""
}

func (l SourceLocation) String() string {
	if l.IsNil() {
		return "<unknown>"
	}
	var b strings.Builder
	b.WriteString(l.File)
	if l.Line > 0 {
		fmt.Fprintf(&b, ":%d", l.Line)
	}
	if l.Function != "" {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString("function ")
		b.WriteString(l.Function)
	}
	return b.String()
}

// Code is the statement payload of an instruction.
type Code interface {
	String() string
	codeNode()
}

// Assign stores RHS into LHS.
type Assign struct {
	LHS Expr
	RHS Expr
}

// Call invokes Function. LHS is nil when the result is discarded or
// delivered through a separate return-value assignment.
type Call struct {
	LHS      Expr
	Function Expr
	Args     []Expr
}

// Decl introduces a local symbol.
type Decl struct {
	Symbol *Symbol
}

// Dead ends the lifetime of a local symbol.
type Dead struct {
	Symbol *Symbol
}

// Return leaves the function, optionally with a value.
type Return struct {
	Value Expr
}

// Other carries a statement the toolchain passes through untouched.
type Other struct {
	Statement string
	Operands  []Expr
}

func (*Assign) codeNode() {}
func (*Call) codeNode()   {}
func (*Decl) codeNode()   {}
func (*Dead) codeNode()   {}
func (*Return) codeNode() {}
func (*Other) codeNode()  {}

func (c *Assign) String() string { return exprString(c.LHS) + " := " + exprString(c.RHS) }

func (c *Call) String() string {
	s := exprString(c.Function) + "(" + joinExprs(c.Args) + ")"
	if c.LHS != nil {
		s = exprString(c.LHS) + " := " + s
	}
	return s
}

func (c *Decl) String() string { return typeString(c.Symbol.Type) + " " + c.Symbol.ID }
func (c *Dead) String() string { return c.Symbol.ID }

func (c *Return) String() string {
	if c.Value == nil {
		return ""
	}
	return exprString(c.Value)
}

func (c *Other) String() string {
	if len(c.Operands) == 0 {
		return c.Statement
	}
	return c.Statement + " " + joinExprs(c.Operands)
}

// Instruction is one step of a function body.
//
// Targets hold the instructions a GOTO may jump to. They are handles into
// the same body and stay valid across structural edits that keep the
// target alive.
type Instruction struct {
	Code           Code
	Guard          Expr
	Targets        []*Instruction
	Labels         []string
	Location       SourceLocation
	LocationNumber int
	Kind           Kind
}

func newInstruction(kind Kind, code Code, loc SourceLocation) *Instruction {
	return &Instruction{
		Kind:           kind,
		Code:           code,
		Location:       loc,
		LocationNumber: Unnumbered,
	}
}

// NewSkip returns a no-op, typically a branch landing pad.
func NewSkip(loc SourceLocation) *Instruction {
	return newInstruction(KindSkip, nil, loc)
}

// NewAssign returns lhs := rhs.
func NewAssign(lhs, rhs Expr, loc SourceLocation) *Instruction {
	return newInstruction(KindAssign, &Assign{LHS: lhs, RHS: rhs}, loc)
}

// NewCall returns a function call. lhs may be nil.
func NewCall(lhs, function Expr, args []Expr, loc SourceLocation) *Instruction {
	return newInstruction(KindCall, &Call{LHS: lhs, Function: function, Args: args}, loc)
}

// NewGoto returns a branch to target taken when guard holds. A nil guard
// means the branch is unconditional. target may be nil and set later.
func NewGoto(target *Instruction, guard Expr, loc SourceLocation) *Instruction {
	in := newInstruction(KindGoto, nil, loc)
	in.Guard = guard
	if target != nil {
		in.Targets = []*Instruction{target}
	}
	return in
}

// NewAssume returns an assumption on cond.
func NewAssume(cond Expr, loc SourceLocation) *Instruction {
	in := newInstruction(KindAssume, nil, loc)
	in.Guard = cond
	return in
}

// NewAssert returns an assertion of cond.
func NewAssert(cond Expr, loc SourceLocation) *Instruction {
	in := newInstruction(KindAssert, nil, loc)
	in.Guard = cond
	return in
}

// NewDecl declares sym.
func NewDecl(sym *Symbol, loc SourceLocation) *Instruction {
	return newInstruction(KindDecl, &Decl{Symbol: sym}, loc)
}

// NewDead ends the lifetime of sym.
func NewDead(sym *Symbol, loc SourceLocation) *Instruction {
	return newInstruction(KindDead, &Dead{Symbol: sym}, loc)
}

// NewReturn returns from the function with value, which may be nil.
func NewReturn(value Expr, loc SourceLocation) *Instruction {
	return newInstruction(KindReturn, &Return{Value: value}, loc)
}

// NewOther returns a pass-through statement.
func NewOther(statement string, operands []Expr, loc SourceLocation) *Instruction {
	return newInstruction(KindOther, &Other{Statement: statement, Operands: operands}, loc)
}

// NewEndFunction returns the function terminator.
func NewEndFunction(loc SourceLocation) *Instruction {
	return newInstruction(KindEndFunction, nil, loc)
}

// IsAssign reports whether in is an assignment.
func (in *Instruction) IsAssign() bool { return in.Kind == KindAssign }

// IsCall reports whether in is a function call.
func (in *Instruction) IsCall() bool { return in.Kind == KindCall }

// IsGoto reports whether in is a branch.
func (in *Instruction) IsGoto() bool { return in.Kind == KindGoto }

// AsAssign returns the assignment payload.
func (in *Instruction) AsAssign() (*Assign, bool) {
	if in.Kind != KindAssign {
		return nil, false
	}
	a, ok := in.Code.(*Assign)
	return a, ok && a != nil
}

// AsCall returns the call payload.
func (in *Instruction) AsCall() (*Call, bool) {
	if in.Kind != KindCall {
		return nil, false
	}
	c, ok := in.Code.(*Call)
	return c, ok && c != nil
}

// HasLabel reports whether in carries label.
func (in *Instruction) HasLabel(label string) bool {
	for _, l := range in.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// Mentions reports whether any expression of in references id.
func (in *Instruction) Mentions(id string) bool {
	if References(in.Guard, id) {
		return true
	}
	switch c := in.Code.(type) {
	case *Assign:
		return References(c.LHS, id) || References(c.RHS, id)
	case *Call:
		if References(c.LHS, id) || References(c.Function, id) {
			return true
		}
		for _, a := range c.Args {
			if References(a, id) {
				return true
			}
		}
	case *Decl:
		return c.Symbol != nil && c.Symbol.ID == id
	case *Dead:
		return c.Symbol != nil && c.Symbol.ID == id
	case *Return:
		return References(c.Value, id)
	case *Other:
		for _, o := range c.Operands {
			if References(o, id) {
				return true
			}
		}
	}
	return false
}

// String renders the instruction without its location number.
func (in *Instruction) String() string {
	var b strings.Builder
	b.WriteString(in.Kind.String())
	switch in.Kind {
	case KindGoto:
		if in.Guard != nil {
			b.WriteString(" IF ")
			b.WriteString(exprString(in.Guard))
			b.WriteString(" THEN")
		}
		for _, t := range in.Targets {
			b.WriteByte(' ')
			b.WriteString(targetName(t))
		}
	case KindAssume, KindAssert:
		b.WriteByte(' ')
		b.WriteString(exprString(in.Guard))
	default:
		if in.Code != nil {
			if s := in.Code.String(); s != "" {
				b.WriteByte(' ')
				b.WriteString(s)
			}
		}
	}
	return b.String()
}

func targetName(t *Instruction) string {
	if t == nil {
		return "<nil>"
	}
	if len(t.Labels) > 0 {
		return t.Labels[0]
	}
	if t.LocationNumber != Unnumbered {
		return fmt.Sprintf("%d", t.LocationNumber)
	}
	return "?"
}
