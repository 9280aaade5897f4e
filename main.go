// Package main provides the entry point for rramcim.
// rramcim is an analytical cost model for ReRAM compute-in-memory macros.
//
// For the full CLI, use: go run ./cmd/cimcost
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("rramcim - ReRAM Compute-in-Memory Cost Model")
	fmt.Println("Area, timing and energy of crossbar, 1T1R and 2T2R macros")
	fmt.Println("")
	fmt.Println("Usage: cimcost <command> [options]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  evaluate   Peak area, timing and energy of one macro")
	fmt.Println("  layer      Energy of a layer mapped onto a macro")
	fmt.Println("  sweep      Evaluate a grid of configurations")
	fmt.Println("  cacti      Estimate an SRAM or DRAM buffer with CACTI")
	fmt.Println("  defaults   Print or save the default configuration")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/cimcost' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/cimcost' instead.")
	}
}
