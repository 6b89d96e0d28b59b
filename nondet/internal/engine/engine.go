package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/goto-nondet/code"
	"github.com/wippyai/goto-nondet/errors"
	"github.com/wippyai/goto-nondet/program"
	"github.com/wippyai/goto-nondet/symtab"
)

// Variant tells whether a stub's result may be null.
type Variant uint8

const (
	// VariantMayBeNull is the nondetWithNull family.
	VariantMayBeNull Variant = iota + 1
	// VariantNeverNull is the nondetWithoutNull family.
	VariantNeverNull
)

// AllowNull reports whether generated code may leave the target null.
func (v Variant) AllowNull() bool { return v != VariantNeverNull }

func (v Variant) String() string {
	switch v {
	case VariantMayBeNull:
		return "may_be_null"
	case VariantNeverNull:
		return "never_null"
	}
	return fmt.Sprintf("Variant(%d)", uint8(v))
}

// StubMatcher recognizes nondet stub callees by identifier.
type StubMatcher interface {
	Match(identifier string) (Variant, bool)
}

// Generator synthesizes nondet initialization code for a target.
type Generator interface {
	GenerateNondetInit(target program.Expr, into *code.Block, symbols *symtab.Table,
		loc program.SourceLocation, allowNull bool, maxArrayLength int) error
}

// Lowerer converts generated code into instructions.
type Lowerer interface {
	Lower(block *code.Block, symbols *symtab.Table) ([]*program.Instruction, error)
}

// Config configures the rewriting engine.
type Config struct {
	Logger         *zap.Logger
	Symbols        *symtab.Table
	Matcher        StubMatcher
	Generator      Generator
	Lowerer        Lowerer
	MaxArrayLength int
}

// Rewrite describes one replaced idiom.
type Rewrite struct {
	Function string
	Callee   string
	Target   string
	Location program.SourceLocation
	Variant  Variant
	Removed  int
	Inserted int
}

// Warning is a diagnostic that did not stop the pass.
type Warning struct {
	Function string
	Message  string
	Location program.SourceLocation
	Position int
}

// Report summarizes a pass.
type Report struct {
	Rewrites []Rewrite
	Warnings []Warning
}

// Count returns the number of rewrites in function fn.
func (r *Report) Count(fn string) int {
	n := 0
	for _, rw := range r.Rewrites {
		if rw.Function == fn {
			n++
		}
	}
	return n
}

// Engine replaces nondet stub idioms in goto programs.
//
// The engine is stateless between Rewrite calls; the report of a call is
// built in a per-call state.
type Engine struct {
	logger         *zap.Logger
	symbols        *symtab.Table
	matcher        StubMatcher
	generator      Generator
	lowerer        Lowerer
	maxArrayLength int
}

// New creates an engine. All collaborators must be set.
func New(cfg Config) (*Engine, error) {
	switch {
	case cfg.Symbols == nil:
		return nil, errors.InvalidInput(errors.PhaseConfig, "symbol table is required")
	case cfg.Matcher == nil:
		return nil, errors.InvalidInput(errors.PhaseConfig, "stub matcher is required")
	case cfg.Generator == nil:
		return nil, errors.InvalidInput(errors.PhaseConfig, "generator is required")
	case cfg.Lowerer == nil:
		return nil, errors.InvalidInput(errors.PhaseConfig, "lowerer is required")
	case cfg.MaxArrayLength < 0:
		return nil, errors.InvalidInput(errors.PhaseConfig,
			fmt.Sprintf("max array length must be non-negative, got %d", cfg.MaxArrayLength))
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		logger:         logger,
		symbols:        cfg.Symbols,
		matcher:        cfg.Matcher,
		generator:      cfg.Generator,
		lowerer:        cfg.Lowerer,
		maxArrayLength: cfg.MaxArrayLength,
	}, nil
}

// Rewrite replaces every recognized idiom of every function of p and
// recomputes location numbers across the program.
//
// Functions are processed independently. On error p may hold the rewrites
// of functions processed before the failing one; the failing body itself
// is left as it was before the failing splice.
func (e *Engine) Rewrite(p *program.Program) (*Report, error) {
	if p == nil {
		return nil, errors.InvalidInput(errors.PhaseConfig, "program is required")
	}
	report := &Report{}
	for _, fn := range p.Functions() {
		before := len(report.Rewrites)
		if err := e.rewriteBody(fn.Name, fn.Body, report); err != nil {
			return report, err
		}
		if n := len(report.Rewrites) - before; n > 0 {
			e.logger.Info("rewrote nondet calls",
				zap.String("function", fn.Name),
				zap.Int("count", n))
		}
	}
	total := p.ComputeLocationNumbers()
	e.logger.Debug("renumbered program", zap.Int("instructions", total))
	return report, nil
}

// rewriteBody walks body once. Instructions inserted by a splice are
// skipped because the cursor resumes after them.
func (e *Engine) rewriteBody(fn string, body *program.Body, report *Report) error {
	for pos := 0; pos < body.Len(); {
		m, err := e.matchIdiom(fn, body, pos)
		if err != nil {
			return err
		}
		if m == nil {
			pos++
			continue
		}
		report.Warnings = append(report.Warnings, e.carrierReuse(fn, body, m)...)

		next, inserted, err := e.splice(fn, body, m)
		if err != nil {
			return err
		}
		report.Rewrites = append(report.Rewrites, Rewrite{
			Function: fn,
			Callee:   m.Callee,
			Target:   m.Target.String(),
			Location: m.Location,
			Variant:  m.Variant,
			Removed:  m.End - m.Call + 1,
			Inserted: inserted,
		})
		pos = next
	}
	return nil
}
