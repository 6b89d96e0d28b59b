package nondet

import (
	"go.uber.org/zap"

	"github.com/wippyai/goto-nondet/errors"
	"github.com/wippyai/goto-nondet/lower"
	"github.com/wippyai/goto-nondet/nondet/internal/engine"
	"github.com/wippyai/goto-nondet/objfactory"
	"github.com/wippyai/goto-nondet/program"
	"github.com/wippyai/goto-nondet/symtab"
)

// Generator synthesizes nondet initialization code for a target lvalue.
type Generator = engine.Generator

// Lowerer converts generated code into goto-program instructions.
type Lowerer = engine.Lowerer

// Report lists the rewrites and warnings of a pass.
type Report = engine.Report

// Rewritten describes one replaced call site.
type Rewritten = engine.Rewrite

// Warning is a diagnostic that did not stop the pass.
type Warning = engine.Warning

// Config configures a rewriting pass.
type Config struct {
	// Logger receives diagnostics. Defaults to the package Logger.
	Logger *zap.Logger

	// Symbols is the program's symbol table. Generated symbols are added to it.
	Symbols *symtab.Table

	// Matcher recognizes stub callees. Defaults to
	// NewPatternMatcher(DefaultNamespace).
	Matcher StubMatcher

	// Generator defaults to an objfactory.Factory.
	Generator Generator

	// Lowerer defaults to lower.New().
	Lowerer Lowerer

	// MaxArrayLength bounds the length of generated arrays. Must be
	// non-negative.
	MaxArrayLength int
}

// Rewrite replaces every call to a nondet stub in p by code that builds a
// nondeterministic value of the type the call result is assigned to.
//
// A stub call is followed by the capture of its result in a temporary
// (the carrier) and, further down, an assignment of the carrier, possibly
// cast, to the real target:
//
//	call org.cprover.CProver.nondetWithoutNull() -> t1
//	x := (*struct Foo)t1
//
// Everything from the call to that assignment is replaced by the
// generated initialization of x. Later uses of the carrier are reported
// as warnings and left alone.
//
// On return location numbers are consistent across the whole program.
// The first malformed stub call aborts the pass with a malformed_idiom
// error.
func Rewrite(p *program.Program, cfg Config) (*Report, error) {
	if cfg.Symbols == nil {
		return nil, errors.InvalidInput(errors.PhaseConfig, "symbol table is required")
	}
	log := cfg.Logger
	if log == nil {
		log = Logger()
	}
	matcher := cfg.Matcher
	if matcher == nil {
		matcher = NewPatternMatcher(DefaultNamespace)
	}
	gen := cfg.Generator
	if gen == nil {
		gen = objfactory.New(objfactory.Options{Logger: log})
	}
	lw := cfg.Lowerer
	if lw == nil {
		lw = lower.New()
	}

	eng, err := engine.New(engine.Config{
		Logger:         log,
		Symbols:        cfg.Symbols,
		Matcher:        matcher,
		Generator:      gen,
		Lowerer:        lw,
		MaxArrayLength: cfg.MaxArrayLength,
	})
	if err != nil {
		return nil, err
	}
	return eng.Rewrite(p)
}
