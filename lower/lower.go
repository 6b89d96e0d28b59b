package lower

import (
	"fmt"

	"github.com/wippyai/goto-nondet/code"
	"github.com/wippyai/goto-nondet/errors"
	"github.com/wippyai/goto-nondet/program"
	"github.com/wippyai/goto-nondet/symtab"
)

// Lowerer flattens structured code into goto-program instructions.
type Lowerer struct {
	// CheckDecls rejects declarations of symbols missing from the table.
	CheckDecls bool
}

// New returns a Lowerer that checks declarations.
func New() *Lowerer {
	return &Lowerer{CheckDecls: true}
}

// Lower flattens block. Every branch target of the result is an
// instruction of the result.
func (l *Lowerer) Lower(block *code.Block, symbols *symtab.Table) ([]*program.Instruction, error) {
	if block == nil {
		return nil, nil
	}
	lw := &linearizer{symbols: symbols, checkDecls: l.CheckDecls}
	if err := lw.emitBlock(block); err != nil {
		return nil, err
	}
	return lw.out, nil
}

// Lower flattens block with a default Lowerer.
func Lower(block *code.Block, symbols *symtab.Table) ([]*program.Instruction, error) {
	return New().Lower(block, symbols)
}

type linearizer struct {
	symbols    *symtab.Table
	out        []*program.Instruction
	checkDecls bool
}

func (l *linearizer) push(in *program.Instruction) *program.Instruction {
	l.out = append(l.out, in)
	return in
}

func (l *linearizer) emit(s code.Stmt) error {
	switch n := s.(type) {
	case *code.Block:
		return l.emitBlock(n)
	case *code.Decl:
		return l.emitDecl(n)
	case *code.Assign:
		if n.LHS == nil || n.RHS == nil {
			return errors.InvalidInput(errors.PhaseLower, "assignment with missing operand")
		}
		l.push(program.NewAssign(n.LHS, n.RHS, n.Location))
	case *code.Assume:
		if n.Cond == nil {
			return errors.InvalidInput(errors.PhaseLower, "assumption without condition")
		}
		l.push(program.NewAssume(n.Cond, n.Location))
	case *code.Skip:
		l.push(program.NewSkip(n.Location))
	case *code.If:
		return l.emitIf(n)
	case *code.While:
		return l.emitWhile(n)
	default:
		return errors.Unsupported(errors.PhaseLower, fmt.Sprintf("statement %T", s))
	}
	return nil
}

func (l *linearizer) emitBlock(b *code.Block) error {
	if b == nil {
		return nil
	}
	for _, s := range b.Stmts {
		if err := l.emit(s); err != nil {
			return err
		}
	}
	return nil
}

func (l *linearizer) emitDecl(d *code.Decl) error {
	if d.Symbol == nil {
		return errors.InvalidInput(errors.PhaseLower, "declaration without symbol")
	}
	if l.checkDecls && (l.symbols == nil || !l.symbols.Has(d.Symbol.ID)) {
		return errors.NotFound(errors.PhaseLower, "symbol", d.Symbol.ID)
	}
	l.push(program.NewDecl(d.Symbol, d.Location))
	return nil
}

// emitIf lays out
//
//	GOTO IF !cond THEN else
//	then...
//	GOTO end
//	else: SKIP
//	else...
//	end:  SKIP
//
// The else landing pad and the jump over it are omitted without an else
// part.
func (l *linearizer) emitIf(n *code.If) error {
	if n.Cond == nil {
		return errors.InvalidInput(errors.PhaseLower, "if without condition")
	}
	toElse := l.push(program.NewGoto(nil, negate(n.Cond), n.Location))
	if err := l.emitBlock(n.Then); err != nil {
		return err
	}
	end := program.NewSkip(n.Location)

	if n.Else == nil || len(n.Else.Stmts) == 0 {
		toElse.Targets = []*program.Instruction{end}
		l.push(end)
		return nil
	}

	l.push(program.NewGoto(end, nil, n.Location))
	elsePad := l.push(program.NewSkip(n.Location))
	toElse.Targets = []*program.Instruction{elsePad}
	if err := l.emitBlock(n.Else); err != nil {
		return err
	}
	l.push(end)
	return nil
}

// emitWhile lays out
//
//	head: GOTO IF !cond THEN exit
//	body...
//	GOTO head
//	exit: SKIP
func (l *linearizer) emitWhile(n *code.While) error {
	if n.Cond == nil {
		return errors.InvalidInput(errors.PhaseLower, "while without condition")
	}
	exit := program.NewSkip(n.Location)
	head := l.push(program.NewGoto(exit, negate(n.Cond), n.Location))
	if err := l.emitBlock(n.Body); err != nil {
		return err
	}
	l.push(program.NewGoto(head, nil, n.Location))
	l.push(exit)
	return nil
}

func negate(cond program.Expr) program.Expr {
	switch c := cond.(type) {
	case *program.Not:
		return c.Op
	case *program.Constant:
		if program.SameType(c.Type, program.Bool) {
			switch c.Value {
			case "true":
				return program.False()
			case "false":
				return program.True()
			}
		}
	case *program.Binary:
		if inv, ok := inverse[c.Op]; ok {
			return &program.Binary{Op: inv, LHS: c.LHS, RHS: c.RHS}
		}
	}
	return &program.Not{Op: cond}
}

var inverse = map[program.BinOp]program.BinOp{
	program.OpEq: program.OpNe,
	program.OpNe: program.OpEq,
	program.OpLt: program.OpGe,
	program.OpGe: program.OpLt,
	program.OpLe: program.OpGt,
	program.OpGt: program.OpLe,
}
