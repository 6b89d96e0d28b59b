// Package program models goto-programs: the linear intermediate
// representation of function bodies consumed by verification passes.
//
// # Model
//
// A Program maps function identifiers to Functions. Each Function owns a
// Body, an ordered list of Instructions whose order is fallthrough order.
// Branches (GOTO) refer to their targets by instruction handle, so targets
// survive edits that do not remove them.
//
// # Structural edits
//
// Bodies are addressed by position and every edit returns an explicit
// resume position:
//
//	next, err := body.Splice(from, to, generated) // next = from + len(generated)
//
// EraseRange and Splice refuse to remove an instruction that is still the
// target of a branch outside the removed range; such a body violates the
// invariants of the producer and is reported as a dangling_target error.
//
// # Location numbers
//
// Location numbers are only meaningful after Body.Renumber or
// Program.ComputeLocationNumbers. New instructions carry Unnumbered.
package program
