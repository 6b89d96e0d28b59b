// Package code holds structured statements produced by code generators
// before they are lowered into goto-program instructions.
package code

import (
	"fmt"
	"strings"

	"github.com/wippyai/goto-nondet/program"
)

// Stmt is a structured statement.
type Stmt interface {
	Loc() program.SourceLocation
	stmtNode()
}

// Decl declares a local symbol.
type Decl struct {
	Symbol   *program.Symbol
	Location program.SourceLocation
}

// Assign stores RHS into LHS.
type Assign struct {
	LHS      program.Expr
	RHS      program.Expr
	Location program.SourceLocation
}

// Assume restricts executions to those where Cond holds.
type Assume struct {
	Cond     program.Expr
	Location program.SourceLocation
}

// If runs Then when Cond holds, Else otherwise. Else may be nil.
type If struct {
	Cond     program.Expr
	Then     *Block
	Else     *Block
	Location program.SourceLocation
}

// While repeats Body as long as Cond holds.
type While struct {
	Cond     program.Expr
	Body     *Block
	Location program.SourceLocation
}

// Skip does nothing.
type Skip struct {
	Location program.SourceLocation
}

// Block is a statement sequence.
type Block struct {
	Stmts    []Stmt
	Location program.SourceLocation
}

func (*Decl) stmtNode()   {}
func (*Assign) stmtNode() {}
func (*Assume) stmtNode() {}
func (*If) stmtNode()     {}
func (*While) stmtNode()  {}
func (*Skip) stmtNode()   {}
func (*Block) stmtNode()  {}

func (s *Decl) Loc() program.SourceLocation   { return s.Location }
func (s *Assign) Loc() program.SourceLocation { return s.Location }
func (s *Assume) Loc() program.SourceLocation { return s.Location }
func (s *If) Loc() program.SourceLocation     { return s.Location }
func (s *While) Loc() program.SourceLocation  { return s.Location }
func (s *Skip) Loc() program.SourceLocation   { return s.Location }
func (s *Block) Loc() program.SourceLocation  { return s.Location }

// NewBlock returns an empty block attributed to loc.
func NewBlock(loc program.SourceLocation) *Block {
	return &Block{Location: loc}
}

// Add appends statements.
func (b *Block) Add(stmts ...Stmt) {
	b.Stmts = append(b.Stmts, stmts...)
}

// Len returns the number of direct statements.
func (b *Block) Len() int { return len(b.Stmts) }

// Decl appends a declaration of sym.
func (b *Block) Decl(sym *program.Symbol) {
	b.Add(&Decl{Symbol: sym, Location: b.Location})
}

// Assign appends lhs := rhs.
func (b *Block) Assign(lhs, rhs program.Expr) {
	b.Add(&Assign{LHS: lhs, RHS: rhs, Location: b.Location})
}

// Assume appends an assumption.
func (b *Block) Assume(cond program.Expr) {
	b.Add(&Assume{Cond: cond, Location: b.Location})
}

// String renders the block in a C-like syntax.
func (b *Block) String() string {
	var sb strings.Builder
	writeBlock(&sb, b, 0)
	return sb.String()
}

func writeBlock(sb *strings.Builder, b *Block, depth int) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		writeStmt(sb, s, depth)
	}
}

func writeStmt(sb *strings.Builder, s Stmt, depth int) {
	indent := strings.Repeat("  ", depth)
	switch x := s.(type) {
	case *Decl:
		fmt.Fprintf(sb, "%s%s %s;\n", indent, x.Symbol.Type, x.Symbol.ID)
	case *Assign:
		fmt.Fprintf(sb, "%s%s = %s;\n", indent, x.LHS, x.RHS)
	case *Assume:
		fmt.Fprintf(sb, "%sassume(%s);\n", indent, x.Cond)
	case *If:
		fmt.Fprintf(sb, "%sif (%s) {\n", indent, x.Cond)
		writeBlock(sb, x.Then, depth+1)
		if x.Else != nil && len(x.Else.Stmts) > 0 {
			fmt.Fprintf(sb, "%s} else {\n", indent)
			writeBlock(sb, x.Else, depth+1)
		}
		fmt.Fprintf(sb, "%s}\n", indent)
	case *While:
		fmt.Fprintf(sb, "%swhile (%s) {\n", indent, x.Cond)
		writeBlock(sb, x.Body, depth+1)
		fmt.Fprintf(sb, "%s}\n", indent)
	case *Skip:
		fmt.Fprintf(sb, "%sskip;\n", indent)
	case *Block:
		fmt.Fprintf(sb, "%s{\n", indent)
		writeBlock(sb, x, depth+1)
		fmt.Fprintf(sb, "%s}\n", indent)
	}
}
