// Package irfile reads and writes goto programs as YAML or JSON documents.
//
// A document lists struct definitions, the symbol table and the function
// bodies:
//
//	structs:
//	  - name: Foo
//	    fields:
//	      - {name: next, type: "*struct Foo"}
//	symbols:
//	  - {name: x, type: "*struct Foo"}
//	  - {name: t1, type: "*struct java.lang.Object"}
//	functions:
//	  - name: Main.main
//	    body:
//	      - call: {function: org.cprover.CProver.nondetWithoutNull, lhs: t1}
//	        location: {file: Main.java, line: 3}
//	      - assign: {lhs: x, rhs: {cast: {type: "*struct Foo", op: t1}}}
//	      - goto: {target: done, guard: {eq: [x, {null: "*struct Foo"}]}}
//	      - end_function: {}
//	        label: done
//
// Each instruction has exactly one kind key (skip, assign, call, goto,
// assume, assert, decl, dead, return, other, end_function) and optional
// label, labels and location keys. Gotos name their targets by label.
//
// Expressions are a symbol name, a number or boolean constant, or a map
// with one of the keys sym, const, cast, nondet, null, addr, deref,
// member, index, not, eq, ne, lt, le, gt, ge, and, or, add, sub.
// Symbols referenced by name must be declared; call targets need not be.
//
// Types are written as program.Type strings: bool, char, void, int8 to
// int64, uint8 to uint64, float32, float64, code, *T, []T, [N]T and
// struct Name.
package irfile
