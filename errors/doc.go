// Package errors provides structured error types for the goto-nondet toolchain.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes context: function, source location, path, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseMatch, errors.KindMalformedIdiom).
//		Function("java::Foo.bar:()V").
//		Location("Foo.java:12").
//		Detail("no assignment from carrier %s", carrier).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.MalformedIdiom(fn, loc, pos, "call is the last instruction")
//	err := errors.NotFound(errors.PhaseLower, "symbol", name)
//
// All errors implement the standard error interface and support errors.Is/As.
// Two *Error values match under errors.Is when Phase and Kind are equal.
package errors
