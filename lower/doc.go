// Package lower turns structured statement blocks into flat goto-program
// instruction sequences.
//
// Conditionals and loops become guarded GOTO instructions whose targets
// are SKIP landing pads inside the produced sequence, so the result can
// be spliced into any body without introducing references to the
// surrounding code.
package lower
