// Package objfactory generates nondeterministic initialization code for
// typed lvalues.
//
// Scalars receive a single NONDET assignment. References are either null
// (when allowed) or point at a freshly declared object whose own fields
// are initialized recursively. Dynamically sized arrays get a fresh
// length in [0, max] and a backing array of the maximum length.
//
// Recursive types terminate through null: a struct already being expanded
// on the current path, or a pointer deeper than MaxDepth, is set to null.
// When null is not permitted at that point the factory fails with a
// recursion_limit error.
//
// Usage:
//
//	f := objfactory.New(objfactory.Options{Mode: "java"})
//	block := code.NewBlock(loc)
//	err := f.GenerateNondetInit(target, block, symbols, loc, true, 5)
package objfactory
