// Package engine rewrites nondet stub idioms in goto programs.
//
// Rewriting pipeline, per function:
//  1. Walk the body with a single cursor
//  2. Recognize a stub call, its result carrier and the consuming assignment
//  3. Generate and lower nondet initialization code for the assignment target
//  4. Splice the code over the recognized span and resume after it
//
// After every function is processed, location numbers are recomputed
// across the whole program.
package engine
