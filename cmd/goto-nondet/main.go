// Command goto-nondet replaces nondet stub calls in goto programs with
// generated nondeterministic initialization code.
package main

import (
	"fmt"
	"os"

	"github.com/tebeka/atexit"
)

func main() {
	a := newApp(os.Stdout, os.Stderr)
	atexit.Register(a.sync)

	if err := a.rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "goto-nondet: %v\n", err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}
