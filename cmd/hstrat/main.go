// Command hstrat inspects retention policies, simulates evolving
// populations of hereditary stratigraphic columns, and compares saved
// columns.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
