// Package main provides the cimcost command-line tool, which evaluates the
// area, timing and energy of ReRAM compute-in-memory macros.
package main

import "github.com/tebeka/atexit"

func main() {
	Execute()
	atexit.Exit(0)
}
