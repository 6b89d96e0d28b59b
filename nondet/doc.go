// Package nondet replaces calls to nondet library stubs in goto programs
// with native nondeterministic initialization code.
//
// # Overview
//
// Java models verified by a bounded model checker obtain arbitrary objects
// through library stubs such as
// org.cprover.CProver.nondetWithoutNull(). The translator lowers each such
// call into a call instruction, a capture of the result in a temporary and
// an assignment of that temporary (often through a cast) to the variable
// the program actually uses. The checker cannot reason about the stub, so
// this pass replaces the whole span with code that initializes the
// variable to an arbitrary value of its declared type.
//
// # Variants
//
// The stub name selects the null contract of the generated value:
//
//	nondetWithNull...     the target may be null
//	nondetWithoutNull...  the target is never null
//
// # Usage
//
//	report, err := nondet.Rewrite(prog, nondet.Config{
//	    Symbols:        symbols,
//	    MaxArrayLength: 5,
//	})
//
// Additional stubs can be recognized with an ExactMatcher combined with the
// default pattern:
//
//	matcher := nondet.NewCompositeMatcher(
//	    nondet.NewPatternMatcher(nondet.DefaultNamespace),
//	    nondet.NewExactMatcher(map[string]nondet.Variant{
//	        "my.lib.Stubs.anyFoo": nondet.NeverNull,
//	    }),
//	)
//
// # Errors
//
// A stub call without the expected shape yields an *errors.Error with
// kind malformed_idiom naming the function and source location. Generator
// failures are wrapped and remain reachable through errors.Is and
// errors.As.
package nondet
